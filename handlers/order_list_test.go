package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"sheetquote/testhelpers"
)

func orderFixture(t *testing.T, d *Deps, status string) string {
	t.Helper()
	inq := testhelpers.CreateTestInquiry(t, d.App, "INQ-O1")
	q := testhelpers.CreateTestQuotation(t, d.App, inq.Id, "QT-25-26-010", "accepted", 100)
	return testhelpers.CreateTestOrder(t, d.App, q.Id, "ORD-25-26-010", status).Id
}

func TestHandleOrderList(t *testing.T) {
	d := newTestDeps(t)
	orderFixture(t, d, "confirmed")

	rec := serve(t, d, HandleOrderList(d), newRequest(http.MethodGet, "/orders", nil, false))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"ORD-25-26-010", "QT-25-26-010", "Jamie Rivera", "Confirmed", `value="in_production"`)

	rec = serve(t, d, HandleOrderList(d), newRequest(http.MethodGet, "/orders?status=delivered", nil, true))
	if strings.Contains(rec.Body.String(), "ORD-25-26-010") {
		t.Error("filtered list should not show the confirmed order")
	}
}

func TestHandleOrderStatus(t *testing.T) {
	d := newTestDeps(t)
	id := orderFixture(t, d, "confirmed")

	form := url.Values{"status": {"in_production"}, "estimated_delivery": {"2026-04-20"}}
	rec := serve(t, d, HandleOrderStatus(d), newRequest(http.MethodPost, "/", form, true), "id", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body = %s", rec.Code, rec.Body.String())
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "In Production", "2026-04-20", `value="ready_for_dispatch"`)
}

func TestHandleOrderStatus_MissingDetails(t *testing.T) {
	d := newTestDeps(t)
	id := orderFixture(t, d, "ready_for_dispatch")

	rec := serve(t, d, HandleOrderStatus(d), newRequest(http.MethodPost, "/", url.Values{"status": {"dispatched"}}, true), "id", id)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("HTMX: status = %d, want 422", rec.Code)
	}
	trigger := rec.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "courier") || !strings.Contains(trigger, "tracking") {
		t.Errorf("HX-Trigger = %q", trigger)
	}

	rec = serve(t, d, HandleOrderStatus(d), newRequest(http.MethodPost, "/", url.Values{"status": {"dispatched"}}, false), "id", id)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("plain: status = %d, want 422", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "text-error", "courier is required")

	saved, _ := d.App.FindRecordById("orders", id)
	if saved.GetString("status") != "ready_for_dispatch" {
		t.Errorf("status changed to %q", saved.GetString("status"))
	}
}

func TestHandleOrderStatus_InvalidTransition(t *testing.T) {
	d := newTestDeps(t)
	id := orderFixture(t, d, "pending")

	rec := serve(t, d, HandleOrderStatus(d), newRequest(http.MethodPost, "/", url.Values{"status": {"delivered"}}, true), "id", id)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	rec = serve(t, d, HandleOrderStatus(d), newRequest(http.MethodPost, "/", url.Values{"status": {"confirmed"}}, true), "id", "missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing order: status = %d, want 404", rec.Code)
	}
}
