package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"sheetquote/services"
	"sheetquote/testhelpers"
)

func TestHandleDraftCreate_SingleInquiry(t *testing.T) {
	d := newTestDeps(t)
	inq := testhelpers.CreateTestInquiry(t, d.App, "INQ-1")
	testhelpers.CreateTestInquiryPart(t, d.App, inq.Id, 1, "P-1", "Zintec", 4)
	testhelpers.CreateTestInquiryPart(t, d.App, inq.Id, 2, "P-2", "Aluminum", 2)

	req := newRequest(http.MethodPost, "/quotations/drafts", url.Values{"inquiry_ids": {inq.Id}}, true)
	rec := serve(t, d, HandleDraftCreate(d), req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	redirect := rec.Header().Get("HX-Redirect")
	id, ok := strings.CutPrefix(redirect, "/quotations/drafts/")
	if !ok || id == "" {
		t.Fatalf("HX-Redirect = %q", redirect)
	}

	q := viewDraft(t, d, id)
	if q.Owner != testSession {
		t.Errorf("owner = %q, want %q", q.Owner, testSession)
	}
	if len(q.Parts) != 2 || q.Parts[0].PartRef != "P-1" || q.Parts[1].Quantity != 2 {
		t.Errorf("parts = %+v", q.Parts)
	}
	if q.Mode != services.ModeManual {
		t.Errorf("mode = %s, want manual", q.Mode)
	}
	if got := q.ValidUntil.Format("2006-01-02"); got != "2026-04-09" {
		t.Errorf("valid until = %s, want 2026-04-09", got)
	}
	if q.Terms != d.Config.Quote.DefaultTerms {
		t.Errorf("terms = %q", q.Terms)
	}
}

func TestHandleDraftCreate_BatchDedupes(t *testing.T) {
	d := newTestDeps(t)
	a := testhelpers.CreateTestInquiry(t, d.App, "INQ-A")
	b := testhelpers.CreateTestInquiry(t, d.App, "INQ-B")
	testhelpers.CreateTestInquiryPart(t, d.App, a.Id, 1, "A-1", "Zintec", 1)
	testhelpers.CreateTestInquiryPart(t, d.App, b.Id, 1, "B-1", "Copper", 1)

	form := url.Values{"inquiry_ids": {a.Id + "," + b.Id, a.Id}}
	rec := serve(t, d, HandleDraftCreate(d), newRequest(http.MethodPost, "/quotations/drafts", form, false))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	id := strings.TrimPrefix(rec.Header().Get("Location"), "/quotations/drafts/")
	q := viewDraft(t, d, id)
	if len(q.InquiryIDs) != 2 || !q.IsBatch() {
		t.Errorf("inquiry ids = %v", q.InquiryIDs)
	}
	if len(q.Parts) != 2 || q.Parts[1].PartRef != "B-1" {
		t.Errorf("parts = %+v", q.Parts)
	}
}

func TestHandleDraftCreate_NoInquiry(t *testing.T) {
	d := newTestDeps(t)
	rec := serve(t, d, HandleDraftCreate(d), newRequest(http.MethodPost, "/quotations/drafts", url.Values{}, true))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if rec.Header().Get("HX-Reswap") != "none" {
		t.Error("expected HX-Reswap none")
	}
}

func TestHandleDraftCreate_UnknownInquiry(t *testing.T) {
	d := newTestDeps(t)
	rec := serve(t, d, HandleDraftCreate(d), newRequest(http.MethodPost, "/quotations/drafts", url.Values{"inquiry_ids": {"missing"}}, true))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if len(d.Drafts.List()) != 0 {
		t.Error("no draft should be stored")
	}
}

func TestHandleDraftView(t *testing.T) {
	d := newTestDeps(t)
	inq := testhelpers.CreateTestInquiry(t, d.App, "INQ-7")
	id := putDraft(t, d, []string{inq.Id}, services.NewPartLine("BRK-1"))

	rec := serve(t, d, HandleDraftView(d), newRequest(http.MethodGet, "/quotations/drafts/"+id, nil, false), "id", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"<html", `id="builder"`, "INQ-7", "BRK-1", "Jamie Rivera (Rivera Fabrication)")
}

func TestHandleDraftView_OtherSession(t *testing.T) {
	d := newTestDeps(t)
	id := putDraft(t, d, []string{"x"})

	req := httptest.NewRequest(http.MethodGet, "/quotations/drafts/"+id, nil)
	req = req.WithContext(context.WithValue(req.Context(), SessionIDKey, "someone-else"))
	rec := serve(t, d, HandleDraftView(d), req, "id", id)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleDraftList_OnlyOwnDrafts(t *testing.T) {
	d := newTestDeps(t)
	inq := testhelpers.CreateTestInquiry(t, d.App, "INQ-MINE")
	mine := putDraft(t, d, []string{inq.Id})

	other := services.NewQuotationDraft(d.Drafts.NewID(), []string{inq.Id}, nil, services.DraftOptions{Now: d.Now()})
	other.Owner = "someone-else"
	otherID := d.Drafts.Put(other)

	rec := serve(t, d, HandleDraftList(d), newRequest(http.MethodGet, "/quotations/drafts", nil, true))
	body := rec.Body.String()
	if !strings.Contains(body, mine) {
		t.Errorf("own draft %s missing from list", mine)
	}
	if strings.Contains(body, otherID) {
		t.Errorf("foreign draft %s listed", otherID)
	}
}

func TestHandleDraftDiscard(t *testing.T) {
	d := newTestDeps(t)
	id := putDraft(t, d, []string{"x"})

	rec := serve(t, d, HandleDraftDiscard(d), newRequest(http.MethodDelete, "/quotations/drafts/"+id, nil, true), "id", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/quotations/drafts")
	if _, err := d.Drafts.Get(id); err == nil {
		t.Error("draft should be gone")
	}
}
