package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/shopspring/decimal"

	"sheetquote/services"
	"sheetquote/testhelpers"
)

func twoPartDraft(t *testing.T, d *Deps) string {
	t.Helper()
	a := services.NewPartLine("P-1")
	a.Quantity = 4
	b := services.NewPartLine("P-2")
	b.Material = "Aluminum"
	return putDraft(t, d, []string{"inq"}, a, b)
}

func patchPart(t *testing.T, d *Deps, id, pos string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := newRequest(http.MethodPatch, "/quotations/drafts/"+id+"/parts/"+pos, form, true)
	return serve(t, d, HandlePartPatch(d), req, "id", id, "pos", pos)
}

func TestHandlePartPatch_UnitPrice(t *testing.T) {
	d := newTestDeps(t)
	id := twoPartDraft(t, d)

	rec := patchPart(t, d, id, "0", url.Values{"field": {"unit_price"}, "value": {"12.50"}, "part_ref": {"P-1"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	q := viewDraft(t, d, id)
	if !q.Parts[0].TotalPrice.Equal(decimal.RequireFromString("50")) {
		t.Errorf("line total = %s, want 50", q.Parts[0].TotalPrice)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `id="builder"`, "$50.00")
}

func TestHandlePartPatch_ByPartRefNotPosition(t *testing.T) {
	d := newTestDeps(t)
	id := twoPartDraft(t, d)

	patchPart(t, d, id, "0", url.Values{"field": {"quantity"}, "value": {"3"}, "part_ref": {"P-2"}})

	q := viewDraft(t, d, id)
	if q.Parts[0].Quantity != 4 || q.Parts[1].Quantity != 3 {
		t.Errorf("quantities = %d, %d; want 4, 3", q.Parts[0].Quantity, q.Parts[1].Quantity)
	}
}

func TestHandlePartPatch_RepeatedRefEditsOwnRow(t *testing.T) {
	d := newTestDeps(t)
	first := services.NewPartLine("P1")
	second := services.NewPartLine("P1")
	second.Quantity = 2
	id := putDraft(t, d, []string{"inq-a", "inq-b"}, first, second)

	rec := patchPart(t, d, id, "1", url.Values{"field": {"unit_price"}, "value": {"10"}, "part_ref": {"P1"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	q := viewDraft(t, d, id)
	if !q.Parts[0].UnitPrice.IsZero() {
		t.Errorf("first P1 unit price = %s, want untouched 0", q.Parts[0].UnitPrice)
	}
	if !q.Parts[1].TotalPrice.Equal(decimal.RequireFromString("20")) {
		t.Errorf("second P1 total = %s, want 20", q.Parts[1].TotalPrice)
	}
}

func TestHandlePartPatch_InvalidNumberAppliedAsZero(t *testing.T) {
	d := newTestDeps(t)
	id := twoPartDraft(t, d)
	patchPart(t, d, id, "0", url.Values{"field": {"unit_price"}, "value": {"10"}, "part_ref": {"P-1"}})

	rec := patchPart(t, d, id, "0", url.Values{"field": {"unit_price"}, "value": {"abc"}, "part_ref": {"P-1"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := toastType(t, rec); got != "warning" {
		t.Errorf("toast = %q, want warning", got)
	}
	q := viewDraft(t, d, id)
	if !q.Parts[0].UnitPrice.IsZero() {
		t.Errorf("unit price = %s, want 0", q.Parts[0].UnitPrice)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "must be a number")
}

func TestHandlePartPatch_TotalPriceRejected(t *testing.T) {
	d := newTestDeps(t)
	id := twoPartDraft(t, d)

	rec := patchPart(t, d, id, "0", url.Values{"field": {"total_price"}, "value": {"99"}, "part_ref": {"P-1"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if q := viewDraft(t, d, id); !q.Parts[0].TotalPrice.IsZero() {
		t.Errorf("total changed to %s", q.Parts[0].TotalPrice)
	}
}

func TestHandlePartPatch_UnknownField(t *testing.T) {
	d := newTestDeps(t)
	id := twoPartDraft(t, d)
	rec := patchPart(t, d, id, "0", url.Values{"field": {"colour"}, "value": {"red"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlePartPatch_MissingDraft(t *testing.T) {
	d := newTestDeps(t)
	rec := patchPart(t, d, "nope", "0", url.Values{"field": {"remarks"}, "value": {"x"}})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlePartAddAndDelete(t *testing.T) {
	d := newTestDeps(t)
	id := putDraft(t, d, []string{"inq"}, services.NewPartLine("ONLY"))

	rec := serve(t, d, HandlePartDelete(d), newRequest(http.MethodDelete, "/", nil, true), "id", id, "pos", "0")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("deleting the last part: status = %d, want 422", rec.Code)
	}

	serve(t, d, HandlePartAdd(d), newRequest(http.MethodPost, "/", nil, true), "id", id)
	if q := viewDraft(t, d, id); len(q.Parts) != 2 || q.Parts[1].Material != "Zintec" {
		t.Fatalf("after add: parts = %+v", q.Parts)
	}

	rec = serve(t, d, HandlePartDelete(d), newRequest(http.MethodDelete, "/", nil, true), "id", id, "pos", "0")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if q := viewDraft(t, d, id); len(q.Parts) != 1 || q.Parts[0].PartRef != "" {
		t.Errorf("after delete: parts = %+v", q.Parts)
	}
}

func TestHandlePartAdd_UploadModeRejected(t *testing.T) {
	d := newTestDeps(t)
	id := twoPartDraft(t, d)
	serve(t, d, HandleModeSwitch(d), newRequest(http.MethodPost, "/", url.Values{"mode": {"upload_total_only"}}, true), "id", id)

	rec := serve(t, d, HandlePartAdd(d), newRequest(http.MethodPost, "/", nil, true), "id", id)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestHandleModeSwitch(t *testing.T) {
	d := newTestDeps(t)
	testhelpers.CreateTestMaterial(t, d.App, "Zintec", 27)
	id := twoPartDraft(t, d)

	rec := serve(t, d, HandleModeSwitch(d), newRequest(http.MethodPost, "/", url.Values{"mode": {"material_wise"}}, true), "id", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	q := viewDraft(t, d, id)
	if q.Mode != services.ModeMaterialWise {
		t.Fatalf("mode = %s", q.Mode)
	}
	if got := q.MaterialPrices["Zintec"]; !got.Equal(decimal.NewFromInt(27)) {
		t.Errorf("Zintec seed = %s, want catalog price 27", got)
	}
	if got := q.MaterialPrices["Aluminum"]; !got.Equal(decimal.NewFromInt(35)) {
		t.Errorf("Aluminum seed = %s, want built-in 35", got)
	}
}

func TestHandleModeSwitch_NotAllowed(t *testing.T) {
	d := newTestDeps(t)
	id := twoPartDraft(t, d)
	serve(t, d, HandleModeSwitch(d), newRequest(http.MethodPost, "/", url.Values{"mode": {"upload_total_only"}}, true), "id", id)

	rec := serve(t, d, HandleModeSwitch(d), newRequest(http.MethodPost, "/", url.Values{"mode": {"bulk_file"}}, true), "id", id)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	if q := viewDraft(t, d, id); q.Mode != services.ModeUploadTotalOnly {
		t.Errorf("mode = %s, want unchanged", q.Mode)
	}

	rec = serve(t, d, HandleModeSwitch(d), newRequest(http.MethodPost, "/", url.Values{"mode": {"bogus"}}, true), "id", id)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown mode: status = %d, want 400", rec.Code)
	}
}
