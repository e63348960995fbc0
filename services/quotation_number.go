package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// GetFiscalYear returns the April-March fiscal year label for a date.
// Jan 2026 → "25-26", May 2026 → "26-27"
func GetFiscalYear(t time.Time) string {
	startYear := t.Year()
	if t.Month() < time.April {
		startYear--
	}
	return fmt.Sprintf("%02d-%02d", startYear%100, (startYear+1)%100)
}

func formatQuotationNumber(prefix, fiscalYear string, sequence int) string {
	return fmt.Sprintf("%s-%s-%03d", prefix, fiscalYear, sequence)
}

// GenerateQuotationNumber returns the next quotation number for the fiscal
// year of now. Format: {prefix}-{fiscal_year}-{sequence}, the sequence
// being 3-digit zero-padded and restarting every fiscal year.
func GenerateQuotationNumber(app core.App, prefix string, now time.Time) (string, error) {
	if prefix == "" {
		prefix = "QT"
	}
	fiscalYear := GetFiscalYear(now)
	stem := fmt.Sprintf("%s-%s-", prefix, fiscalYear)

	existing, err := app.FindRecordsByFilter(
		"quotations",
		"quotation_number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{"prefix": stem + "%"},
	)
	if err != nil {
		return "", fmt.Errorf("quotation number: list %s*: %w", stem, err)
	}

	// Use the highest sequence seen so a deleted quotation never frees a number.
	highest := 0
	for _, rec := range existing {
		num := rec.GetString("quotation_number")
		if !strings.HasPrefix(num, stem) {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimPrefix(num, stem)); err == nil && n > highest {
			highest = n
		}
	}
	return formatQuotationNumber(prefix, fiscalYear, highest+1), nil
}

// GenerateOrderNumber derives the order number from its quotation number,
// e.g. QT-25-26-004 → ORD-25-26-004.
func GenerateOrderNumber(quotationNumber, quotationPrefix string) string {
	if quotationPrefix == "" {
		quotationPrefix = "QT"
	}
	if rest, ok := strings.CutPrefix(quotationNumber, quotationPrefix+"-"); ok {
		return "ORD-" + rest
	}
	return "ORD-" + quotationNumber
}
