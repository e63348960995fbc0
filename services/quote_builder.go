package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PricingMode selects how a draft's amount is produced.
type PricingMode string

const (
	ModeManual          PricingMode = "manual"
	ModeBulkFile        PricingMode = "bulk_file"
	ModeMaterialWise    PricingMode = "material_wise"
	ModeUploadTotalOnly PricingMode = "upload_total_only"
)

// AllPricingModes in display order.
var AllPricingModes = []PricingMode{ModeManual, ModeBulkFile, ModeMaterialWise, ModeUploadTotalOnly}

var modeTransitions = map[PricingMode][]PricingMode{
	ModeManual:          {ModeBulkFile, ModeMaterialWise, ModeUploadTotalOnly},
	ModeBulkFile:        {ModeManual, ModeMaterialWise, ModeUploadTotalOnly},
	ModeMaterialWise:    {ModeManual, ModeBulkFile, ModeUploadTotalOnly},
	ModeUploadTotalOnly: {ModeManual},
}

// ParsePricingMode validates a mode name coming from a form.
func ParsePricingMode(s string) (PricingMode, bool) {
	for _, m := range AllPricingModes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Label is the human name of the mode.
func (m PricingMode) Label() string {
	switch m {
	case ModeManual:
		return "Manual pricing"
	case ModeBulkFile:
		return "Bulk pricing file"
	case ModeMaterialWise:
		return "Material-wise pricing"
	case ModeUploadTotalOnly:
		return "Upload quotation (total only)"
	}
	return string(m)
}

// CanSwitchTo reports whether the builder allows moving from m to next.
func (m PricingMode) CanSwitchTo(next PricingMode) bool {
	for _, allowed := range modeTransitions[m] {
		if allowed == next {
			return true
		}
	}
	return false
}

var ErrNoPricingData = errors.New("no bulk pricing data loaded")

// DraftOptions carries the defaults a new draft starts from.
type DraftOptions struct {
	Terms        string
	ValidityDays int
	Now          time.Time
}

// QuotationDraft is the in-progress quotation for one inquiry or a batch.
// It is owned by the session that opened the builder.
type QuotationDraft struct {
	ID          string
	InquiryIDs  []string
	Parts       []PartLine
	Mode        PricingMode
	TotalAmount decimal.Decimal
	Terms       string
	Notes       string
	ValidUntil  time.Time
	CreatedAt   time.Time
	// Owner is the staff session that opened the builder.
	Owner string

	// UploadedFile is the quotation document a supplied total came from.
	UploadedFile string
	// MaterialPrices backs the material-wise edit fields.
	MaterialPrices MaterialPriceMap
	// BulkPricing is the last bulk file read, waiting to be applied.
	BulkPricing     BulkPricingResult
	BulkPricingFile string
	// ManualTotalRequired is set when an uploaded file had no readable total.
	ManualTotalRequired bool
}

// NewQuotationDraft starts a draft in manual mode. Parts are copied with
// prices cleared; a draft opened without parts gets one sample line.
func NewQuotationDraft(id string, inquiryIDs []string, parts []PartLine, opts DraftOptions) *QuotationDraft {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	days := opts.ValidityDays
	if days <= 0 {
		days = 30
	}

	lines := make([]PartLine, 0, len(parts))
	for _, p := range parts {
		p.UnitPrice = decimal.Zero
		p.TotalPrice = decimal.Zero
		lines = append(lines, p)
	}
	if len(lines) == 0 {
		lines = append(lines, NewPartLine("Sample Part"))
	}

	return &QuotationDraft{
		ID:             id,
		InquiryIDs:     append([]string(nil), inquiryIDs...),
		Parts:          lines,
		Mode:           ModeManual,
		TotalAmount:    decimal.Zero,
		Terms:          opts.Terms,
		ValidUntil:     now.AddDate(0, 0, days),
		CreatedAt:      now,
		MaterialPrices: make(MaterialPriceMap),
	}
}

// PrimaryInquiryID is the inquiry the quotation is filed against.
func (d *QuotationDraft) PrimaryInquiryID() string {
	if len(d.InquiryIDs) == 0 {
		return ""
	}
	return d.InquiryIDs[0]
}

// IsBatch reports whether the draft quotes several inquiries at once.
func (d *QuotationDraft) IsBatch() bool {
	return len(d.InquiryIDs) > 1
}

// Total is ComputeTotal for this draft.
func (d *QuotationDraft) Total() decimal.Decimal {
	return ComputeTotal(d)
}

// SwitchMode moves the draft to next. Entering upload-total mode snapshots
// the built-in estimate as the total; leaving it for manual drops that total
// and keeps every line price as it was.
func (d *QuotationDraft) SwitchMode(next PricingMode) error {
	if next == d.Mode {
		return nil
	}
	if !d.Mode.CanSwitchTo(next) {
		return ErrInvalidModeTransition
	}

	prev := d.Mode
	d.Mode = next
	switch {
	case next == ModeUploadTotalOnly:
		d.TotalAmount = ComputeUploadTotal(d.Parts)
		d.ManualTotalRequired = false
	case prev == ModeUploadTotalOnly:
		d.TotalAmount = decimal.Zero
		d.UploadedFile = ""
		d.ManualTotalRequired = false
	}
	return nil
}

// EditPart applies SetField to the line identified by partRef (or pos when
// partRef is empty or unknown) and writes it back.
func (d *QuotationDraft) EditPart(partRef string, pos int, field PartField, value string) (PartLine, error) {
	i := locatePart(d.Parts, partRef, pos)
	if i < 0 {
		return PartLine{}, ErrPartNotFound
	}
	d.Parts[i] = SetField(d.Parts[i], field, value)
	return d.Parts[i], nil
}

// AddPart appends a default line.
func (d *QuotationDraft) AddPart() PartLine {
	p := NewPartLine("")
	d.Parts = append(d.Parts, p)
	return p
}

// RemovePart deletes the line at pos. The last remaining line cannot be removed.
func (d *QuotationDraft) RemovePart(pos int) error {
	if pos < 0 || pos >= len(d.Parts) {
		return ErrPartNotFound
	}
	if len(d.Parts) <= 1 {
		return ErrLastPart
	}
	d.Parts = append(d.Parts[:pos], d.Parts[pos+1:]...)
	return nil
}

// LoadBulkPricing keeps a parsed bulk file until it is applied. A new file
// replaces the previous one.
func (d *QuotationDraft) LoadBulkPricing(fileName string, res BulkPricingResult) {
	d.BulkPricing = res
	d.BulkPricingFile = fileName
}

// ApplyBulkPricing prices the parts from the loaded bulk file and reports how
// many lines matched.
func (d *QuotationDraft) ApplyBulkPricing() (int, error) {
	if d.Mode != ModeBulkFile {
		return 0, ErrModeMismatch
	}
	if len(d.BulkPricing.Entries) == 0 {
		return 0, ErrNoPricingData
	}
	parts, matched := applyBulkPricing(d.Parts, d.BulkPricing.Entries)
	d.Parts = parts
	return matched, nil
}

// SeedMaterialPricing fills the material price fields from the catalog and
// built-in table. Parts are not repriced.
func (d *QuotationDraft) SeedMaterialPricing(catalog map[string]decimal.Decimal) MaterialPriceMap {
	d.MaterialPrices = SeedPricingFrom(d.Parts, catalog)
	return d.MaterialPrices
}

// SetMaterialPrices replaces the material price fields.
func (d *QuotationDraft) SetMaterialPrices(prices MaterialPriceMap) {
	d.MaterialPrices = prices
}

// ApplyMaterialPricing prices all parts from the material price fields.
func (d *QuotationDraft) ApplyMaterialPricing() error {
	if d.Mode != ModeMaterialWise {
		return ErrModeMismatch
	}
	d.Parts = ApplyMaterialPricing(d.Parts, d.MaterialPrices)
	return nil
}

// RecalculateUploadTotal re-runs the built-in estimate in upload-total mode.
func (d *QuotationDraft) RecalculateUploadTotal() error {
	if d.Mode != ModeUploadTotalOnly {
		return ErrModeMismatch
	}
	d.TotalAmount = ComputeUploadTotal(d.Parts)
	d.ManualTotalRequired = false
	return nil
}

// AcceptExtraction records the result of scanning an uploaded quotation.
// When no total was found the current total is kept and ManualTotalRequired
// is raised for the host to collect one.
func (d *QuotationDraft) AcceptExtraction(fileName string, ext TotalExtraction) error {
	if d.Mode != ModeUploadTotalOnly {
		return ErrModeMismatch
	}
	d.UploadedFile = fileName
	if ext.ManualRequired {
		d.ManualTotalRequired = true
		return nil
	}
	d.TotalAmount = ext.Amount
	d.ManualTotalRequired = false
	return nil
}

// SetManualTotal stores a total typed by staff in upload-total mode.
func (d *QuotationDraft) SetManualTotal(raw string) error {
	if d.Mode != ModeUploadTotalOnly {
		return ErrModeMismatch
	}
	amount, err := ParsePrice(raw)
	if err != nil {
		return err
	}
	d.TotalAmount = amount.Round(2)
	d.ManualTotalRequired = false
	return nil
}

// UpdateDetails sets the free-text fields and the validity date (YYYY-MM-DD).
// A blank date keeps the current one.
func (d *QuotationDraft) UpdateDetails(terms, notes, validUntil string) error {
	d.Terms = terms
	d.Notes = notes
	if v := strings.TrimSpace(validUntil); v != "" {
		t, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return &ParseError{Field: "valid until", Value: validUntil, Message: "must be a date (YYYY-MM-DD)"}
		}
		d.ValidUntil = t
	}
	return nil
}

// PayloadPart is a part line as submitted.
type PayloadPart struct {
	PartRef    string          `json:"partRef"`
	Material   string          `json:"material"`
	Thickness  string          `json:"thickness"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Remarks    string          `json:"remarks"`
}

// QuotationPayload is the validated quotation handed to the submitter.
type QuotationPayload struct {
	InquiryID         string          `json:"inquiryId"`
	InquiryIDs        []string        `json:"inquiryIds"`
	Parts             []PayloadPart   `json:"parts"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	PricingMode       PricingMode     `json:"pricingMode"`
	IsUploadQuotation bool            `json:"isUploadQuotation"`
	UploadedFile      string          `json:"uploadedFile,omitempty"`
	Terms             string          `json:"terms"`
	Notes             string          `json:"notes"`
	ValidUntil        string          `json:"validUntil"`
}

// Submit validates the draft and builds its payload. Checks run in order
// and the first failure is returned: no parts, a part without a positive
// price, a part without a positive quantity, then (upload mode) no total.
func Submit(d *QuotationDraft) (QuotationPayload, error) {
	upload := d.Mode == ModeUploadTotalOnly

	if !upload {
		if len(d.Parts) == 0 {
			return QuotationPayload{}, &EmptyPartsError{}
		}
		for i, p := range d.Parts {
			if !p.UnitPrice.IsPositive() {
				return QuotationPayload{}, &InvalidPriceError{Index: i, PartRef: p.PartRef}
			}
		}
		for i, p := range d.Parts {
			if p.Quantity < 1 {
				return QuotationPayload{}, &InvalidQuantityError{Index: i, PartRef: p.PartRef}
			}
		}
	} else if !d.TotalAmount.IsPositive() {
		return QuotationPayload{}, &InvalidTotalError{}
	}

	payload := QuotationPayload{
		InquiryID:         d.PrimaryInquiryID(),
		InquiryIDs:        append([]string(nil), d.InquiryIDs...),
		Parts:             []PayloadPart{},
		TotalAmount:       ComputeTotal(d),
		PricingMode:       d.Mode,
		IsUploadQuotation: upload,
		Terms:             d.Terms,
		Notes:             d.Notes,
		ValidUntil:        d.ValidUntil.Format(time.DateOnly),
	}
	if upload {
		payload.UploadedFile = d.UploadedFile
		return payload, nil
	}
	for _, p := range d.Parts {
		payload.Parts = append(payload.Parts, PayloadPart{
			PartRef:    p.PartRef,
			Material:   p.Material,
			Thickness:  p.Thickness,
			Quantity:   p.Quantity,
			UnitPrice:  p.UnitPrice,
			TotalPrice: p.TotalPrice,
			Remarks:    p.Remarks,
		})
	}
	return payload, nil
}
