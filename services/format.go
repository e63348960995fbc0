package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with a currency symbol, thousands separators
// and exactly two decimals, e.g. $1,234.50 or -$20.00.
func FormatMoney(symbol string, amount decimal.Decimal) string {
	negative := amount.IsNegative()
	raw := amount.Abs().StringFixed(2)

	intPart, decPart, _ := strings.Cut(raw, ".")
	result := symbol + groupThousands(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts a comma every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
