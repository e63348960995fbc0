package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// SubmittedQuotation identifies a persisted quotation.
type SubmittedQuotation struct {
	ID     string
	Number string
	Total  decimal.Decimal
}

// QuotationSubmitter turns validated payloads into quotation records.
type QuotationSubmitter struct {
	app          core.App
	numberPrefix string
	now          func() time.Time
}

func NewQuotationSubmitter(app core.App, numberPrefix string) *QuotationSubmitter {
	return &QuotationSubmitter{app: app, numberPrefix: numberPrefix, now: time.Now}
}

// FindOpenQuotation returns the quotation already filed for an inquiry,
// ignoring rejected ones, or nil when there is none.
func FindOpenQuotation(app core.App, inquiryID string) (*core.Record, error) {
	records, err := app.FindRecordsByFilter(
		"quotations",
		"(inquiry = {:id} || inquiries ~ {:id}) && status != 'rejected'",
		"-created",
		1,
		0,
		map[string]any{"id": inquiryID},
	)
	if err != nil {
		return nil, fmt.Errorf("find quotation for inquiry %s: %w", inquiryID, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// Submit stores the quotation with its parts, numbers it and marks every
// inquiry it covers as quoted. If any inquiry already has an open quotation
// nothing is written and a *DuplicateQuotationError is returned.
func (s *QuotationSubmitter) Submit(ctx context.Context, p QuotationPayload) (SubmittedQuotation, error) {
	inquiryIDs := p.InquiryIDs
	if len(inquiryIDs) == 0 && p.InquiryID != "" {
		inquiryIDs = []string{p.InquiryID}
	}
	if len(inquiryIDs) == 0 {
		return SubmittedQuotation{}, fmt.Errorf("submit quotation: no inquiry given")
	}

	var out SubmittedQuotation
	err := s.app.RunInTransaction(func(txApp core.App) error {
		inquiries := make([]*core.Record, 0, len(inquiryIDs))
		for _, id := range inquiryIDs {
			inq, err := txApp.FindRecordById("inquiries", id)
			if err != nil {
				return fmt.Errorf("inquiry %s not found: %w", id, err)
			}
			existing, err := FindOpenQuotation(txApp, id)
			if err != nil {
				return err
			}
			if existing != nil {
				return &DuplicateQuotationError{
					InquiryID:       id,
					QuotationID:     existing.Id,
					QuotationNumber: existing.GetString("quotation_number"),
				}
			}
			inquiries = append(inquiries, inq)
		}

		number, err := GenerateQuotationNumber(txApp, s.numberPrefix, s.now())
		if err != nil {
			return err
		}

		quotesCol, err := txApp.FindCollectionByNameOrId("quotations")
		if err != nil {
			return fmt.Errorf("quotations collection: %w", err)
		}
		partsCol, err := txApp.FindCollectionByNameOrId("quotation_parts")
		if err != nil {
			return fmt.Errorf("quotation_parts collection: %w", err)
		}

		q := core.NewRecord(quotesCol)
		q.Set("inquiry", inquiryIDs[0])
		q.Set("inquiries", inquiryIDs)
		q.Set("quotation_number", number)
		q.Set("status", "draft")
		q.Set("pricing_mode", string(p.PricingMode))
		q.Set("total_amount", p.TotalAmount.InexactFloat64())
		q.Set("terms", p.Terms)
		q.Set("notes", p.Notes)
		q.Set("uploaded_file", p.UploadedFile)
		if validUntil, err := time.Parse(time.DateOnly, p.ValidUntil); err == nil {
			q.Set("valid_until", validUntil)
		}
		if err := txApp.SaveWithContext(ctx, q); err != nil {
			return fmt.Errorf("save quotation: %w", err)
		}

		for i, part := range p.Parts {
			r := core.NewRecord(partsCol)
			r.Set("quotation", q.Id)
			r.Set("sort_order", i+1)
			r.Set("part_ref", part.PartRef)
			r.Set("material", part.Material)
			r.Set("thickness", part.Thickness)
			r.Set("quantity", part.Quantity)
			r.Set("unit_price", part.UnitPrice.InexactFloat64())
			r.Set("total_price", part.TotalPrice.InexactFloat64())
			r.Set("remarks", part.Remarks)
			if err := txApp.SaveWithContext(ctx, r); err != nil {
				return fmt.Errorf("save quotation part %d: %w", i+1, err)
			}
		}

		for _, inq := range inquiries {
			inq.Set("status", "quoted")
			if err := txApp.SaveWithContext(ctx, inq); err != nil {
				return fmt.Errorf("mark inquiry %s quoted: %w", inq.Id, err)
			}
		}

		out = SubmittedQuotation{ID: q.Id, Number: number, Total: p.TotalAmount}
		return nil
	})
	if err != nil {
		return SubmittedQuotation{}, err
	}
	return out, nil
}

// LoadInquiryParts reads the part lines of the given inquiries in order,
// ready to seed a draft. Prices start at zero.
func LoadInquiryParts(app core.App, inquiryIDs []string) ([]PartLine, error) {
	var parts []PartLine
	for _, id := range inquiryIDs {
		if _, err := app.FindRecordById("inquiries", id); err != nil {
			return nil, fmt.Errorf("inquiry %s not found: %w", id, err)
		}
		records, err := app.FindRecordsByFilter(
			"inquiry_parts",
			"inquiry = {:id}",
			"sort_order",
			0,
			0,
			map[string]any{"id": id},
		)
		if err != nil {
			return nil, fmt.Errorf("load parts for inquiry %s: %w", id, err)
		}
		for _, rec := range records {
			qty := rec.GetInt("quantity")
			if qty < 1 {
				qty = 1
			}
			parts = append(parts, PartLine{
				PartRef:   rec.GetString("part_ref"),
				Material:  rec.GetString("material"),
				Thickness: rec.GetString("thickness"),
				Quantity:  qty,
				Remarks:   rec.GetString("remarks"),
			})
		}
	}
	return parts, nil
}
