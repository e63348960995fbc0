package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"

	"sheetquote/services"
	"sheetquote/testhelpers"
)

func TestHandleMaterialList(t *testing.T) {
	d := newTestDeps(t)
	testhelpers.CreateTestMaterial(t, d.App, "Copper", 55)

	rec := serve(t, d, HandleMaterialList(d), newRequest(http.MethodGet, "/materials", nil, false))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Material catalog", `value="Copper"`, `value="55.00"`)
}

func TestHandleMaterialSave_Snapshot(t *testing.T) {
	d := newTestDeps(t)
	d.Catalog = services.NewMemoryMaterialCatalog(
		services.MaterialRow{Material: "Copper", Thickness: "1.0", BasePrice: decimal.NewFromInt(55), Status: "Active"},
		services.MaterialRow{Material: "Brass", Thickness: "1.0", BasePrice: decimal.NewFromInt(40), Status: "Active"},
	)
	rows, _ := d.Catalog.Load(context.Background())

	form := url.Values{
		"id":         {rows[0].ID, ""},
		"material":   {"Copper", "Titanium"},
		"thickness":  {"1.0", "2.0"},
		"grade":      {"C101", "Gr2"},
		"base_price": {"60", "90.5"},
		"status":     {"Active", "Inactive"},
	}
	rec := serve(t, d, HandleMaterialSave(d), newRequest(http.MethodPost, "/materials", form, true))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if toastType(t, rec) != "success" {
		t.Errorf("toast = %q, want success", toastType(t, rec))
	}

	saved, _ := d.Catalog.Load(context.Background())
	if len(saved) != 2 {
		t.Fatalf("rows = %+v, want Copper and Titanium only", saved)
	}
	if saved[0].ID != rows[0].ID || !saved[0].BasePrice.Equal(decimal.NewFromInt(60)) {
		t.Errorf("Copper = %+v", saved[0])
	}
	if saved[1].Material != "Titanium" || saved[1].ID == "" || saved[1].Active() {
		t.Errorf("Titanium = %+v", saved[1])
	}
}

func TestHandleMaterialSave_InvalidKeepsCatalog(t *testing.T) {
	d := newTestDeps(t)
	d.Catalog = services.NewMemoryMaterialCatalog(
		services.MaterialRow{Material: "Copper", BasePrice: decimal.NewFromInt(55), Status: "Active"},
	)

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"bad price", url.Values{"material": {"Copper"}, "base_price": {"lots"}, "status": {"Active"}}, "Row 1: base price"},
		{"no material name", url.Values{"material": {""}, "grade": {"X"}, "base_price": {"5"}, "status": {"Active"}}, "material is required"},
		{"unknown thickness", url.Values{"material": {"Copper"}, "thickness": {"7.5"}, "status": {"Active"}}, "thickness must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, d, HandleMaterialSave(d), newRequest(http.MethodPost, "/materials", tt.form, true))
			if toastType(t, rec) != "warning" {
				t.Errorf("toast = %q, want warning", toastType(t, rec))
			}
			testhelpers.AssertHTMLContains(t, rec.Body.String(), tt.want)

			rows, _ := d.Catalog.Load(context.Background())
			if len(rows) != 1 || !rows[0].BasePrice.Equal(decimal.NewFromInt(55)) {
				t.Errorf("catalog changed: %+v", rows)
			}
		})
	}
}

func TestHandleMaterialAddRow(t *testing.T) {
	d := newTestDeps(t)
	form := url.Values{"id": {""}, "material": {"Copper"}, "base_price": {"55"}, "status": {"Active"}}

	rec := serve(t, d, HandleMaterialAddRow(d), newRequest(http.MethodPost, "/materials/rows", form, true))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `value="Copper"`, `value="0.00"`)

	rows, _ := d.Catalog.Load(context.Background())
	if len(rows) != 0 {
		t.Errorf("adding a row must not save, got %+v", rows)
	}
}

func TestHandleMaterialDelete(t *testing.T) {
	d := newTestDeps(t)
	keep := testhelpers.CreateTestMaterial(t, d.App, "Copper", 55)
	drop := testhelpers.CreateTestMaterial(t, d.App, "Brass", 40)

	rec := serve(t, d, HandleMaterialDelete(d), newRequest(http.MethodDelete, "/", nil, true), "id", drop.Id)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if _, err := d.App.FindRecordById("materials", drop.Id); err == nil {
		t.Error("Brass should be deleted")
	}
	if _, err := d.App.FindRecordById("materials", keep.Id); err != nil {
		t.Errorf("Copper should be kept: %v", err)
	}

	rec = serve(t, d, HandleMaterialDelete(d), newRequest(http.MethodDelete, "/", nil, true), "id", drop.Id)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want 404", rec.Code)
	}
}
