package services

import (
	"fmt"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

// QuotationExportRow is one part line of an exported quotation.
type QuotationExportRow struct {
	Index      int
	PartRef    string
	Material   string
	Thickness  string
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	Remarks    string
}

// QuotationExportData holds everything the Excel and PDF exports print.
type QuotationExportData struct {
	QuotationNumber string
	Status          string
	PricingMode     PricingMode
	CustomerName    string
	CompanyName     string
	InquiryNumbers  []string
	CreatedDate     string
	ValidUntil      string
	Terms           string
	Notes           string
	UploadedFile    string
	Currency        string
	Rows            []QuotationExportRow
	Total           decimal.Decimal
}

// TotalOnly reports whether the quotation carries a supplied total instead
// of priced lines.
func (d QuotationExportData) TotalOnly() bool {
	return d.PricingMode == ModeUploadTotalOnly
}

// BuildQuotationExportData loads a quotation with its parts and inquiries.
func BuildQuotationExportData(app core.App, quotationID, currency string) (*QuotationExportData, error) {
	q, err := app.FindRecordById("quotations", quotationID)
	if err != nil {
		return nil, fmt.Errorf("quotation not found: %w", err)
	}

	data := &QuotationExportData{
		QuotationNumber: q.GetString("quotation_number"),
		Status:          q.GetString("status"),
		PricingMode:     PricingMode(q.GetString("pricing_mode")),
		Terms:           q.GetString("terms"),
		Notes:           q.GetString("notes"),
		UploadedFile:    q.GetString("uploaded_file"),
		Currency:        currency,
		Total:           decimal.NewFromFloat(q.GetFloat("total_amount")).Round(2),
		CreatedDate:     q.GetDateTime("created").Time().Format("02 Jan 2006"),
	}
	if vu := q.GetDateTime("valid_until"); !vu.IsZero() {
		data.ValidUntil = vu.Time().Format("02 Jan 2006")
	}

	ids := q.GetStringSlice("inquiries")
	if len(ids) == 0 {
		ids = []string{q.GetString("inquiry")}
	}
	for i, id := range ids {
		inq, err := app.FindRecordById("inquiries", id)
		if err != nil {
			continue
		}
		data.InquiryNumbers = append(data.InquiryNumbers, inq.GetString("inquiry_number"))
		if i == 0 {
			data.CustomerName = strings.TrimSpace(inq.GetString("customer_first_name") + " " + inq.GetString("customer_last_name"))
			data.CompanyName = inq.GetString("company_name")
		}
	}

	parts, err := app.FindRecordsByFilter(
		"quotation_parts",
		"quotation = {:id}",
		"sort_order",
		0,
		0,
		map[string]any{"id": quotationID},
	)
	if err != nil {
		return nil, fmt.Errorf("load quotation parts: %w", err)
	}
	for i, p := range parts {
		data.Rows = append(data.Rows, QuotationExportRow{
			Index:      i + 1,
			PartRef:    p.GetString("part_ref"),
			Material:   p.GetString("material"),
			Thickness:  p.GetString("thickness"),
			Quantity:   p.GetInt("quantity"),
			UnitPrice:  decimal.NewFromFloat(p.GetFloat("unit_price")).Round(2),
			TotalPrice: decimal.NewFromFloat(p.GetFloat("total_price")).Round(2),
			Remarks:    p.GetString("remarks"),
		})
	}

	return data, nil
}
