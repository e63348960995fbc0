package services

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ComputeUploadTotal estimates a quotation total from the built-in material
// table: base price times quantity, summed over all parts.
func ComputeUploadTotal(parts []PartLine) decimal.Decimal {
	total := decimal.Zero
	for _, p := range parts {
		total = total.Add(BasePriceFor(p.Material).Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	return total.Round(2)
}

// TotalExtraction is the outcome of scanning an uploaded quotation. When no
// total could be found ManualRequired is set and the host must ask staff
// for the amount.
type TotalExtraction struct {
	Amount         decimal.Decimal
	Line           int
	ManualRequired bool
}

var currencyAmount = regexp.MustCompile(`[$£€₹]\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)

// ExtractQuotationTotal looks for the first line mentioning "total" next to a
// currency symbol and reads the number that follows the symbol. A zero
// amount on that line is not skipped over.
func ExtractQuotationTotal(r io.Reader) (TotalExtraction, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if !strings.Contains(strings.ToLower(line), "total") {
			continue
		}
		m := currencyAmount.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		// The first matched amount ends the scan; zero asks for a manual total.
		amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err != nil || !amount.IsPositive() {
			return TotalExtraction{ManualRequired: true, Line: lineNo}, nil
		}
		return TotalExtraction{Amount: amount.Round(2), Line: lineNo}, nil
	}
	if err := scanner.Err(); err != nil {
		return TotalExtraction{ManualRequired: true}, fmt.Errorf("read quotation file: %w", err)
	}
	return TotalExtraction{ManualRequired: true}, nil
}
