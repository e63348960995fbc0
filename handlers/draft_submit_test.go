package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"sheetquote/services"
	"sheetquote/testhelpers"
)

func pricedPart(ref, price string, qty int) services.PartLine {
	p := services.NewPartLine(ref)
	p.Quantity = qty
	return services.SetField(p, services.FieldUnitPrice, price)
}

func TestHandleDraftPayload(t *testing.T) {
	d := newTestDeps(t)
	id := putDraft(t, d, []string{"inq-1"}, pricedPart("P-1", "12.5", 2))

	rec := serve(t, d, HandleDraftPayload(d), newRequest(http.MethodGet, "/", nil, false), "id", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if got["inquiryId"] != "inq-1" || got["pricingMode"] != "manual" {
		t.Errorf("payload = %v", got)
	}
	if got["totalAmount"] != "25" {
		t.Errorf("totalAmount = %v, want \"25\"", got["totalAmount"])
	}
	if got["validUntil"] != "2026-04-09" {
		t.Errorf("validUntil = %v", got["validUntil"])
	}
}

func TestHandleDraftPayload_Invalid(t *testing.T) {
	d := newTestDeps(t)
	id := putDraft(t, d, []string{"inq-1"}, services.NewPartLine("P-1"))

	rec := serve(t, d, HandleDraftPayload(d), newRequest(http.MethodGet, "/", nil, false), "id", id)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "has no valid unit price") {
		t.Errorf("body = %s", rec.Body.String())
	}

	rec = serve(t, d, HandleDraftPayload(d), newRequest(http.MethodGet, "/", nil, false), "id", "missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing draft: status = %d, want 404", rec.Code)
	}
}

func TestHandleDraftSubmit(t *testing.T) {
	d := newTestDeps(t)
	inq := testhelpers.CreateTestInquiry(t, d.App, "INQ-S1")
	id := putDraft(t, d, []string{inq.Id}, pricedPart("P-1", "10", 3))

	rec := serve(t, d, HandleDraftSubmit(d), newRequest(http.MethodPost, "/", nil, true), "id", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body.String())
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/quotations")
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "$30.00") {
		t.Errorf("HX-Trigger = %q, want total in toast", rec.Header().Get("HX-Trigger"))
	}
	if _, err := d.Drafts.Get(id); err == nil {
		t.Error("submitted draft should be dropped")
	}

	quotes, err := d.App.FindRecordsByFilter("quotations", "inquiry = {:id}", "", 0, 0, map[string]any{"id": inq.Id})
	if err != nil || len(quotes) != 1 {
		t.Fatalf("quotations = %d, err = %v", len(quotes), err)
	}
	if !strings.HasPrefix(quotes[0].GetString("quotation_number"), "QT-") {
		t.Errorf("number = %q", quotes[0].GetString("quotation_number"))
	}
	updated, _ := d.App.FindRecordById("inquiries", inq.Id)
	if updated.GetString("status") != "quoted" {
		t.Errorf("inquiry status = %q, want quoted", updated.GetString("status"))
	}
}

func TestHandleDraftSubmit_Duplicate(t *testing.T) {
	d := newTestDeps(t)
	inq := testhelpers.CreateTestInquiry(t, d.App, "INQ-S2")
	existing := testhelpers.CreateTestQuotation(t, d.App, inq.Id, "QT-25-26-009", "sent", 100)
	id := putDraft(t, d, []string{inq.Id}, pricedPart("P-1", "10", 1))

	rec := serve(t, d, HandleDraftSubmit(d), newRequest(http.MethodPost, "/", nil, true), "id", id)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	trigger := rec.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "QT-25-26-009") || !strings.Contains(trigger, "/quotations#quotation-"+existing.Id) {
		t.Errorf("HX-Trigger = %q", trigger)
	}
	if toastType(t, rec) != "conflict" {
		t.Errorf("toast type = %q, want conflict", toastType(t, rec))
	}
	if _, err := d.Drafts.Get(id); err != nil {
		t.Error("draft must be kept after a duplicate")
	}
}

func TestHandleDraftSubmit_ValidationKeepsDraft(t *testing.T) {
	d := newTestDeps(t)
	inq := testhelpers.CreateTestInquiry(t, d.App, "INQ-S3")
	id := putDraft(t, d, []string{inq.Id}, services.NewPartLine("P-1"))

	rec := serve(t, d, HandleDraftSubmit(d), newRequest(http.MethodPost, "/", nil, true), "id", id)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if toastType(t, rec) != "warning" {
		t.Errorf("toast type = %q, want warning", toastType(t, rec))
	}
	if _, err := d.Drafts.Get(id); err != nil {
		t.Error("draft must be kept after a validation failure")
	}
	if _, err := d.Drafts.BeginSubmit(id); err != nil {
		t.Errorf("submit mark should be cleared, got %v", err)
	}
}

func TestHandleDraftSubmit_InFlight(t *testing.T) {
	d := newTestDeps(t)
	id := putDraft(t, d, []string{"inq"}, pricedPart("P-1", "10", 1))
	if _, err := d.Drafts.BeginSubmit(id); err != nil {
		t.Fatal(err)
	}

	rec := serve(t, d, HandleDraftSubmit(d), newRequest(http.MethodPost, "/", nil, true), "id", id)
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestHandleDraftSubmit_UnknownInquiry(t *testing.T) {
	d := newTestDeps(t)
	id := putDraft(t, d, []string{"missing"}, pricedPart("P-1", "10", 1))

	rec := serve(t, d, HandleDraftSubmit(d), newRequest(http.MethodPost, "/", nil, true), "id", id)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
