package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"

	"sheetquote/testhelpers"
)

func submitTestPayload(inquiryIDs ...string) QuotationPayload {
	d := NewQuotationDraft("d1", inquiryIDs, []PartLine{
		{PartRef: "P1", Material: "Steel", Thickness: "1.5", Quantity: 2},
	}, DraftOptions{Terms: "Net 30", Now: testNow})
	d.EditPart("P1", 0, FieldUnitPrice, "12.5")
	p, _ := Submit(d)
	return p
}

func TestQuotationSubmitter_Submit(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	inq := testhelpers.CreateTestInquiry(t, app, "INQ-1")

	s := NewQuotationSubmitter(app, "QT")
	s.now = func() time.Time { return testNow }

	got, err := s.Submit(context.Background(), submitTestPayload(inq.Id))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got.Number != "QT-25-26-001" {
		t.Errorf("Number = %q, want QT-25-26-001", got.Number)
	}

	q, err := app.FindRecordById("quotations", got.ID)
	if err != nil {
		t.Fatalf("quotation not stored: %v", err)
	}
	if q.GetString("status") != "draft" || q.GetString("pricing_mode") != "manual" {
		t.Errorf("status=%q mode=%q", q.GetString("status"), q.GetString("pricing_mode"))
	}
	if q.GetFloat("total_amount") != 25 {
		t.Errorf("total_amount = %v, want 25", q.GetFloat("total_amount"))
	}
	if q.GetDateTime("valid_until").Time().Format(time.DateOnly) != "2026-04-09" {
		t.Errorf("valid_until = %v", q.GetDateTime("valid_until"))
	}

	parts, _ := app.FindRecordsByFilter("quotation_parts", "quotation = {:id}", "", 0, 0, map[string]any{"id": got.ID})
	if len(parts) != 1 || parts[0].GetFloat("total_price") != 25 {
		t.Errorf("stored parts = %d", len(parts))
	}

	inqAfter, _ := app.FindRecordById("inquiries", inq.Id)
	if inqAfter.GetString("status") != "quoted" {
		t.Errorf("inquiry status = %q, want quoted", inqAfter.GetString("status"))
	}
}

func TestQuotationSubmitter_Duplicate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	inq := testhelpers.CreateTestInquiry(t, app, "INQ-1")
	other := testhelpers.CreateTestInquiry(t, app, "INQ-2")
	existing := testhelpers.CreateTestQuotation(t, app, inq.Id, "QT-25-26-007", "sent", 100)

	s := NewQuotationSubmitter(app, "QT")
	_, err := s.Submit(context.Background(), submitTestPayload(other.Id, inq.Id))

	var dup *DuplicateQuotationError
	if !errors.As(err, &dup) {
		t.Fatalf("Submit() error = %v, want *DuplicateQuotationError", err)
	}
	if dup.InquiryID != inq.Id || dup.QuotationID != existing.Id || dup.QuotationNumber != "QT-25-26-007" {
		t.Errorf("DuplicateQuotationError = %+v", dup)
	}

	// Nothing from the batch may be written.
	quotes, _ := app.FindRecordsByFilter("quotations", "id != ''", "", 0, 0)
	if len(quotes) != 1 {
		t.Errorf("got %d quotations, want only the existing one", len(quotes))
	}
	otherAfter, _ := app.FindRecordById("inquiries", other.Id)
	if otherAfter.GetString("status") != "pending" {
		t.Errorf("other inquiry status = %q, want pending", otherAfter.GetString("status"))
	}
}

func TestQuotationSubmitter_RejectedQuotationAllowsRequote(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	inq := testhelpers.CreateTestInquiry(t, app, "INQ-1")
	testhelpers.CreateTestQuotation(t, app, inq.Id, "QT-25-26-001", "rejected", 100)

	s := NewQuotationSubmitter(app, "QT")
	s.now = func() time.Time { return testNow }
	got, err := s.Submit(context.Background(), submitTestPayload(inq.Id))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if got.Number != "QT-25-26-002" {
		t.Errorf("Number = %q, want QT-25-26-002", got.Number)
	}
}

func TestQuotationSubmitter_UnknownInquiry(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	s := NewQuotationSubmitter(app, "QT")
	if _, err := s.Submit(context.Background(), submitTestPayload("missing")); err == nil {
		t.Error("Submit() with unknown inquiry succeeded")
	}
}

func TestLoadInquiryParts(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	a := testhelpers.CreateTestInquiry(t, app, "INQ-A")
	b := testhelpers.CreateTestInquiry(t, app, "INQ-B")
	testhelpers.CreateTestInquiryPart(t, app, a.Id, 2, "A2", "Iron", 1)
	testhelpers.CreateTestInquiryPart(t, app, a.Id, 1, "A1", "Steel", 4)
	testhelpers.CreateTestInquiryPart(t, app, b.Id, 1, "B1", "Copper", 0)

	parts, err := LoadInquiryParts(app, []string{a.Id, b.Id})
	if err != nil {
		t.Fatalf("LoadInquiryParts() error = %v", err)
	}
	refs := []string{}
	for _, p := range parts {
		refs = append(refs, p.PartRef)
	}
	if len(refs) != 3 || refs[0] != "A1" || refs[1] != "A2" || refs[2] != "B1" {
		t.Errorf("part order = %v, want [A1 A2 B1]", refs)
	}
	if parts[2].Quantity != 1 {
		t.Errorf("zero quantity should load as 1, got %d", parts[2].Quantity)
	}
}

func TestGenerateQuotationNumber(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	inq := testhelpers.CreateTestInquiry(t, app, "INQ-1")
	testhelpers.CreateTestQuotation(t, app, inq.Id, "QT-25-26-003", "rejected", 1)
	testhelpers.CreateTestQuotation(t, app, inq.Id, "QT-24-25-009", "rejected", 1)

	got, err := GenerateQuotationNumber(app, "QT", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if got != "QT-25-26-004" {
		t.Errorf("GenerateQuotationNumber() = %q, want QT-25-26-004", got)
	}

	got, _ = GenerateQuotationNumber(app, "QT", time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))
	if got != "QT-26-27-001" {
		t.Errorf("new fiscal year number = %q, want QT-26-27-001", got)
	}
}

func TestGenerateQuotationNumber_QueryFailure(t *testing.T) {
	// A bootstrapped app without the quotations collection.
	app := pocketbase.NewWithConfig(pocketbase.Config{DefaultDataDir: t.TempDir()})
	if err := app.Bootstrap(); err != nil {
		t.Fatal(err)
	}

	got, err := GenerateQuotationNumber(app, "QT", testNow)
	if err == nil {
		t.Fatalf("GenerateQuotationNumber() = %q, want an error instead of a fresh sequence", got)
	}
	if got != "" {
		t.Errorf("number = %q on error, want empty", got)
	}
}
