package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// BulkPricingEntry is one priced row of a bulk pricing file.
type BulkPricingEntry struct {
	PartRef   string
	Material  string
	UnitPrice decimal.Decimal
}

// BulkPricingResult is the outcome of reading a bulk pricing file. Rows that
// could not be used, or whose price was unreadable, are listed in Issues.
type BulkPricingResult struct {
	Entries []BulkPricingEntry
	Issues  []ParseError
}

// ParseBulkPricingFile picks the reader for a file by its extension:
// .xlsx goes through excelize, anything else is read as comma-delimited text.
func ParseBulkPricingFile(r io.Reader, fileName string) (BulkPricingResult, error) {
	if strings.EqualFold(filepath.Ext(fileName), ".xlsx") {
		return ParseBulkPricingExcel(r)
	}
	return ParseBulkPricing(r)
}

// ParseBulkPricing reads "partRef,material,unitPrice" rows after a header line.
// Short rows are skipped and an unreadable price becomes 0; neither stops the import.
func ParseBulkPricing(r io.Reader) (BulkPricingResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	var result BulkPricingResult
	header := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			result.Issues = append(result.Issues, ParseError{
				Row:     csvErr.StartLine,
				Field:   "row",
				Message: csvErr.Err.Error(),
			})
			header = false
			continue
		}
		if err != nil {
			return result, fmt.Errorf("read bulk pricing file: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if header {
			header = false
			continue
		}
		result.addRow(line, record)
	}
	return result, nil
}

// ParseBulkPricingExcel reads the first sheet of an .xlsx workbook with the
// same column layout and row rules as ParseBulkPricing.
func ParseBulkPricingExcel(r io.Reader) (BulkPricingResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return BulkPricingResult{}, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return BulkPricingResult{}, fmt.Errorf("failed to read sheet: %w", err)
	}

	var result BulkPricingResult
	for i, row := range rows {
		if i == 0 {
			continue
		}
		result.addRow(i+1, row)
	}
	return result, nil
}

func (res *BulkPricingResult) addRow(line int, fields []string) {
	if blankRow(fields) {
		return
	}
	if len(fields) < 3 {
		res.Issues = append(res.Issues, ParseError{
			Row:     line,
			Field:   "row",
			Message: fmt.Sprintf("expected partRef, material and unit price, found %d column(s)", len(fields)),
		})
		return
	}

	entry := BulkPricingEntry{
		PartRef:  strings.TrimSpace(fields[0]),
		Material: strings.TrimSpace(fields[1]),
	}
	rawPrice := strings.TrimSpace(fields[2])
	price, err := ParsePrice(rawPrice)
	if err != nil {
		res.Issues = append(res.Issues, ParseError{
			Row:     line,
			Field:   "unit price",
			Value:   rawPrice,
			Message: "not a valid price, using 0",
		})
		price = decimal.Zero
	}
	entry.UnitPrice = price
	res.Entries = append(res.Entries, entry)
}

func blankRow(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// ApplyBulkPricing prices each part from the first entry with the same part
// reference and material. Parts without a match are left as they are.
func ApplyBulkPricing(parts []PartLine, entries []BulkPricingEntry) []PartLine {
	out, _ := applyBulkPricing(parts, entries)
	return out
}

func applyBulkPricing(parts []PartLine, entries []BulkPricingEntry) ([]PartLine, int) {
	out := make([]PartLine, len(parts))
	matched := 0
	for i, p := range parts {
		out[i] = p
		for _, e := range entries {
			if e.PartRef == p.PartRef && e.Material == p.Material {
				out[i] = p.withUnitPrice(e.UnitPrice)
				matched++
				break
			}
		}
	}
	return out, matched
}
