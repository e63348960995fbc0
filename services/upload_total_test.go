package services

import (
	"strings"
	"testing"
)

func TestComputeUploadTotal(t *testing.T) {
	parts := []PartLine{
		{Material: "Zintec", Quantity: 3},
		{Material: "Copper", Quantity: 0},
	}
	if got := ComputeUploadTotal(parts); !got.Equal(dec("75")) {
		t.Errorf("ComputeUploadTotal() = %s, want 75", got)
	}

	parts = append(parts, PartLine{Material: "Unobtainium", Quantity: 2})
	if got := ComputeUploadTotal(parts); !got.Equal(dec("115")) {
		t.Errorf("ComputeUploadTotal() with unknown material = %s, want 115", got)
	}
}

func TestExtractQuotationTotal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		wantLine int
		manual   bool
	}{
		{"simple", "Item A $10\nTotal: $1,234.56\n", "1234.56", 2, false},
		{"case insensitive", "GRAND TOTAL $ 99", "99", 1, false},
		{"number after symbol", "Total for 3 items: $45.00", "45", 1, false},
		{"other currency", "Total £120", "120", 1, false},
		{"skips line without symbol", "Total 500\nSubtotal $400", "400", 2, false},
		{"no total line", "Amount due $50", "", 0, true},
		{"total without amount", "Total: TBD $", "", 0, true},
		{"zero amount", "Total $0.00", "", 0, true},
		{"zero amount stops the scan", "Subtotal $0.00\nTotal $50", "", 0, true},
		{"empty file", "", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractQuotationTotal(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ExtractQuotationTotal() error = %v", err)
			}
			if got.ManualRequired != tt.manual {
				t.Fatalf("ManualRequired = %v, want %v", got.ManualRequired, tt.manual)
			}
			if tt.manual {
				return
			}
			if !got.Amount.Equal(dec(tt.want)) {
				t.Errorf("Amount = %s, want %s", got.Amount, tt.want)
			}
			if got.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", got.Line, tt.wantLine)
			}
		})
	}
}
