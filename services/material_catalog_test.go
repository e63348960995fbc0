package services

import (
	"context"
	"testing"

	"sheetquote/testhelpers"
)

func TestMaterialRow_Validate(t *testing.T) {
	tests := []struct {
		name    string
		row     MaterialRow
		wantErr bool
	}{
		{"valid", MaterialRow{Material: "Steel", Thickness: "1.5", Status: "Active", BasePrice: dec("25")}, false},
		{"blank thickness", MaterialRow{Material: "Steel", Status: "Inactive"}, false},
		{"missing material", MaterialRow{Status: "Active"}, true},
		{"odd thickness", MaterialRow{Material: "Steel", Thickness: "7.3", Status: "Active"}, true},
		{"bad status", MaterialRow{Material: "Steel", Status: "Archived"}, true},
		{"negative price", MaterialRow{Material: "Steel", Status: "Active", BasePrice: dec("-1")}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.row.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCatalogPrices(t *testing.T) {
	rows := []MaterialRow{
		{Material: "Steel", Status: "Inactive", BasePrice: dec("99")},
		{Material: "Steel", Status: "Active", BasePrice: dec("26")},
		{Material: "Steel", Status: "Active", BasePrice: dec("27")},
		{Material: "Iron", Status: "Active"},
	}
	got := CatalogPrices(rows)
	if len(got) != 1 || !got["Steel"].Equal(dec("26")) {
		t.Errorf("CatalogPrices() = %v", got)
	}
}

func exerciseCatalog(t *testing.T, store MaterialCatalogStore) {
	t.Helper()
	ctx := context.Background()

	rows := []MaterialRow{
		{Material: "Steel", Thickness: "1.5", Status: "Active", BasePrice: dec("25")},
		{Material: "Copper", Thickness: "1.0", Status: "Active", BasePrice: dec("55")},
	}
	if err := store.Save(ctx, rows); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if rows[0].ID == "" || rows[1].ID == "" {
		t.Fatal("Save() did not assign ids")
	}

	loaded, err := store.Load(ctx)
	if err != nil || len(loaded) != 2 {
		t.Fatalf("Load() = %d rows, %v", len(loaded), err)
	}

	// Replace the snapshot: edit Steel, drop Copper, add Brass.
	snapshot := []MaterialRow{
		{ID: rows[0].ID, Material: "Steel", Thickness: "2.0", Status: "Inactive", BasePrice: dec("30")},
		{Material: "Brass", Status: "Active", BasePrice: dec("40")},
	}
	if err := store.Save(ctx, snapshot); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	loaded, _ = store.Load(ctx)
	if len(loaded) != 2 {
		t.Fatalf("after replace got %d rows, want 2", len(loaded))
	}
	byName := map[string]MaterialRow{}
	for _, r := range loaded {
		byName[r.Material] = r
	}
	if _, ok := byName["Copper"]; ok {
		t.Error("Copper should have been removed")
	}
	steel := byName["Steel"]
	if steel.ID != rows[0].ID || steel.Thickness != "2.0" || steel.Status != "Inactive" || !steel.BasePrice.Equal(dec("30")) {
		t.Errorf("Steel row = %+v", steel)
	}

	if err := store.Save(ctx, []MaterialRow{{Material: "", Status: "Active"}}); err == nil {
		t.Error("Save() accepted an invalid row")
	}
	loaded, _ = store.Load(ctx)
	if len(loaded) != 2 {
		t.Error("a rejected Save() changed the catalog")
	}
}

func TestMemoryMaterialCatalog(t *testing.T) {
	exerciseCatalog(t, NewMemoryMaterialCatalog())
}

func TestRecordMaterialCatalog(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	exerciseCatalog(t, NewRecordMaterialCatalog(app))
}
