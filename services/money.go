package services

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice reads a currency amount typed by a user or found in a file.
// Blank, non-numeric and negative values are rejected.
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, &ParseError{Field: "unit price", Value: raw, Message: "is required"}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ParseError{Field: "unit price", Value: raw, Message: "must be a number"}
	}
	if d.IsNegative() {
		return decimal.Zero, &ParseError{Field: "unit price", Value: raw, Message: "must be zero or greater"}
	}
	return d, nil
}

// ParseQuantity reads a part quantity; only whole numbers of at least 1 are accepted.
func ParseQuantity(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &ParseError{Field: "quantity", Value: raw, Message: "is required"}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ParseError{Field: "quantity", Value: raw, Message: "must be a whole number"}
	}
	if n < 1 {
		return 0, &ParseError{Field: "quantity", Value: raw, Message: "must be at least 1"}
	}
	return n, nil
}

// priceOrZero is the lenient reading used for inline edits: anything that
// is not a non-negative number becomes zero.
func priceOrZero(raw string) decimal.Decimal {
	d, err := ParsePrice(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// quantityOrZero leniently reads a quantity from its leading digits, so
// "3.5" and "3 pcs" read as 3. Input without leading digits and negative
// numbers become zero.
func quantityOrZero(raw string) int {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "+")
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// lineTotal is the derived line amount, rounded to cents.
func lineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
