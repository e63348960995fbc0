package services

import "github.com/shopspring/decimal"

// ComputeTotal is the authoritative quotation amount: the supplied total in
// upload-total mode, otherwise the sum of the line totals.
func ComputeTotal(d *QuotationDraft) decimal.Decimal {
	if d.Mode == ModeUploadTotalOnly {
		return d.TotalAmount
	}
	return SumLineTotals(d.Parts)
}

// SumLineTotals adds up TotalPrice over parts.
func SumLineTotals(parts []PartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range parts {
		sum = sum.Add(p.TotalPrice)
	}
	return sum
}
