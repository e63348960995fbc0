package collections_test

import (
	"testing"

	"sheetquote/collections"
	"sheetquote/testhelpers"
)

func TestSeed_CreatesData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	materialsCol, _ := app.FindCollectionByNameOrId("materials")
	materials, err := app.FindAllRecords(materialsCol)
	if err != nil {
		t.Fatalf("query materials error: %v", err)
	}
	if len(materials) != 10 {
		t.Errorf("expected 10 materials, got %d", len(materials))
	}
	for _, m := range materials {
		if m.GetFloat("base_price") <= 0 {
			t.Errorf("material %q has no base price", m.GetString("material"))
		}
	}

	inquiriesCol, _ := app.FindCollectionByNameOrId("inquiries")
	inquiries, _ := app.FindAllRecords(inquiriesCol)
	if len(inquiries) != 3 {
		t.Fatalf("expected 3 inquiries, got %d", len(inquiries))
	}

	first, err := app.FindFirstRecordByData("inquiries", "inquiry_number", "INQ-1001")
	if err != nil {
		t.Fatalf("INQ-1001 not seeded: %v", err)
	}
	parts, _ := app.FindRecordsByFilter("inquiry_parts", "inquiry = {:id}", "sort_order", 0, 0,
		map[string]any{"id": first.Id})
	if len(parts) != 3 {
		t.Errorf("expected 3 parts on INQ-1001, got %d", len(parts))
	}
	if len(parts) > 0 && parts[0].GetString("part_ref") != "ENC-101" {
		t.Errorf("first part = %q, want ENC-101", parts[0].GetString("part_ref"))
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	inquiriesCol, _ := app.FindCollectionByNameOrId("inquiries")
	inquiries, _ := app.FindAllRecords(inquiriesCol)
	if len(inquiries) != 3 {
		t.Errorf("expected 3 inquiries after idempotent seed, got %d", len(inquiries))
	}
}

func TestSeed_SkipsWhenCatalogExists(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestMaterial(t, app, "Titanium", 90)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	inquiriesCol, _ := app.FindCollectionByNameOrId("inquiries")
	inquiries, _ := app.FindAllRecords(inquiriesCol)
	if len(inquiries) != 0 {
		t.Errorf("expected seeding to be skipped, got %d inquiries", len(inquiries))
	}
}
