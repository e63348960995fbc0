package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidModeTransition   = errors.New("pricing mode transition not allowed")
	ErrModeMismatch            = errors.New("operation not available in the current pricing mode")
	ErrDraftNotFound           = errors.New("quotation draft not found")
	ErrSubmitInFlight          = errors.New("quotation draft is already being submitted")
	ErrLastPart                = errors.New("a quotation must keep at least one part")
	ErrPartNotFound            = errors.New("part not found in draft")
	ErrInvalidStatusTransition = errors.New("status transition not allowed")
)

// EmptyPartsError is returned when a priced draft has no parts to quote.
type EmptyPartsError struct{}

func (e *EmptyPartsError) Error() string {
	return "please add at least one part"
}

// InvalidPriceError names the first part whose unit price is not positive.
type InvalidPriceError struct {
	Index   int
	PartRef string
}

func (e *InvalidPriceError) Error() string {
	if e.PartRef == "" {
		return fmt.Sprintf("part %d has no valid unit price", e.Index+1)
	}
	return fmt.Sprintf("part %q (line %d) has no valid unit price", e.PartRef, e.Index+1)
}

// InvalidQuantityError names the first part whose quantity is below one.
type InvalidQuantityError struct {
	Index   int
	PartRef string
}

func (e *InvalidQuantityError) Error() string {
	if e.PartRef == "" {
		return fmt.Sprintf("part %d must have a quantity of at least 1", e.Index+1)
	}
	return fmt.Sprintf("part %q (line %d) must have a quantity of at least 1", e.PartRef, e.Index+1)
}

// InvalidTotalError is returned when an upload-total quotation has no positive total.
type InvalidTotalError struct{}

func (e *InvalidTotalError) Error() string {
	return "please enter a valid total amount"
}

// ParseError describes a value or file row that could not be read.
// Row is 1-based and zero when the error is not tied to a file row.
type ParseError struct {
	Row     int
	Field   string
	Value   string
	Message string
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Message)
	}
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Message)
}

// DuplicateQuotationError is reported by the submitter when the inquiry
// already has a quotation.
type DuplicateQuotationError struct {
	InquiryID       string
	QuotationID     string
	QuotationNumber string
}

func (e *DuplicateQuotationError) Error() string {
	return fmt.Sprintf("a quotation already exists for inquiry %s (%s)", e.InquiryID, e.QuotationNumber)
}

// IsValidationError reports whether err blocks submission and can be fixed
// by editing the draft.
func IsValidationError(err error) bool {
	var (
		empty *EmptyPartsError
		price *InvalidPriceError
		qty   *InvalidQuantityError
		total *InvalidTotalError
	)
	return errors.As(err, &empty) || errors.As(err, &price) ||
		errors.As(err, &qty) || errors.As(err, &total)
}
