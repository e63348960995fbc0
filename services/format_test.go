package services

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatMoney_Values(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"zero", "0", "$0.00"},
		{"small integer", "5", "$5.00"},
		{"with decimals", "42.5", "$42.50"},
		{"hundreds", "999.99", "$999.99"},
		{"thousands", "1234.56", "$1,234.56"},
		{"ten thousands", "12345", "$12,345.00"},
		{"hundred thousands", "123456.78", "$123,456.78"},
		{"millions", "1234567.89", "$1,234,567.89"},
		{"negative", "-20", "-$20.00"},
		{"rounds half up", "10.005", "$10.01"},
		{"exact thousand", "1000", "$1,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatMoney("$", decimal.RequireFromString(tt.input))
			if got != tt.expect {
				t.Errorf("FormatMoney(%s) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestGroupThousands(t *testing.T) {
	tests := []struct {
		input  string
		expect string
	}{
		{"5", "5"},
		{"999", "999"},
		{"1234", "1,234"},
		{"123456", "123,456"},
		{"1234567", "1,234,567"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := groupThousands(tt.input); got != tt.expect {
				t.Errorf("groupThousands(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}
