package services

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSetField_RecomputesTotal(t *testing.T) {
	tests := []struct {
		name      string
		start     PartLine
		field     PartField
		value     string
		wantUnit  string
		wantQty   int
		wantTotal string
	}{
		{"price then total", PartLine{Quantity: 3}, FieldUnitPrice, "12.5", "12.5", 3, "37.5"},
		{"quantity change", PartLine{Quantity: 1, UnitPrice: dec("25")}, FieldQuantity, "4", "25", 4, "100"},
		{"rounds to cents", PartLine{Quantity: 3}, FieldUnitPrice, "0.333", "0.333", 3, "1"},
		{"rounds half away from zero", PartLine{Quantity: 1}, FieldUnitPrice, "2.345", "2.345", 1, "2.35"},
		{"invalid price reads as zero", PartLine{Quantity: 2, UnitPrice: dec("10")}, FieldUnitPrice, "abc", "0", 2, "0"},
		{"empty price reads as zero", PartLine{Quantity: 2, UnitPrice: dec("10")}, FieldUnitPrice, "", "0", 2, "0"},
		{"negative price reads as zero", PartLine{Quantity: 2}, FieldUnitPrice, "-5", "0", 2, "0"},
		{"invalid quantity reads as zero", PartLine{Quantity: 2, UnitPrice: dec("10")}, FieldQuantity, "two", "10", 0, "0"},
		{"fractional quantity truncates", PartLine{Quantity: 2, UnitPrice: dec("10")}, FieldQuantity, "3.5", "10", 3, "30"},
		{"trailing text after digits", PartLine{Quantity: 2, UnitPrice: dec("10")}, FieldQuantity, " 4 pcs", "10", 4, "40"},
		{"negative quantity reads as zero", PartLine{Quantity: 2, UnitPrice: dec("10")}, FieldQuantity, "-3", "10", 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SetField(tt.start, tt.field, tt.value)
			if !got.UnitPrice.Equal(dec(tt.wantUnit)) {
				t.Errorf("UnitPrice = %s, want %s", got.UnitPrice, tt.wantUnit)
			}
			if got.Quantity != tt.wantQty {
				t.Errorf("Quantity = %d, want %d", got.Quantity, tt.wantQty)
			}
			if !got.TotalPrice.Equal(dec(tt.wantTotal)) {
				t.Errorf("TotalPrice = %s, want %s", got.TotalPrice, tt.wantTotal)
			}
			want := got.UnitPrice.Mul(decimal.NewFromInt(int64(got.Quantity))).Round(2)
			if !got.TotalPrice.Equal(want) {
				t.Errorf("TotalPrice %s does not equal round(unit*qty) %s", got.TotalPrice, want)
			}
		})
	}
}

func TestSetField_TotalPriceIsReadOnly(t *testing.T) {
	line := PartLine{PartRef: "P1", Quantity: 2, UnitPrice: dec("10"), TotalPrice: dec("20")}
	got := SetField(line, FieldTotalPrice, "999")
	if !got.TotalPrice.Equal(dec("20")) {
		t.Errorf("TotalPrice = %s, want unchanged 20", got.TotalPrice)
	}
}

func TestSetField_TextFieldsStoredVerbatim(t *testing.T) {
	line := PartLine{Quantity: 2, UnitPrice: dec("10"), TotalPrice: dec("20")}

	got := SetField(line, FieldMaterial, " steel ")
	if got.Material != " steel " {
		t.Errorf("Material = %q, want verbatim", got.Material)
	}
	got = SetField(got, FieldThickness, "7.25")
	if got.Thickness != "7.25" {
		t.Errorf("Thickness = %q, want 7.25", got.Thickness)
	}
	got = SetField(got, FieldPartRef, "BRK-1")
	got = SetField(got, FieldRemarks, "deburr")
	if got.PartRef != "BRK-1" || got.Remarks != "deburr" {
		t.Errorf("got %+v", got)
	}
	if !got.TotalPrice.Equal(dec("20")) {
		t.Errorf("text edits changed total to %s", got.TotalPrice)
	}
}

func TestNewPartLine_Defaults(t *testing.T) {
	p := NewPartLine("")
	if p.Material != "Zintec" || p.Thickness != "1.5" || p.Quantity != 1 {
		t.Errorf("NewPartLine() = %+v", p)
	}
	if !p.UnitPrice.IsZero() || !p.TotalPrice.IsZero() {
		t.Errorf("new part should be unpriced, got %s / %s", p.UnitPrice, p.TotalPrice)
	}
}

func TestLocatePart(t *testing.T) {
	parts := []PartLine{{PartRef: "A"}, {PartRef: ""}, {PartRef: "C"}}

	tests := []struct {
		name string
		ref  string
		pos  int
		want int
	}{
		{"by ref", "C", 0, 2},
		{"ref wins over position", "A", 2, 0},
		{"position kept when it carries the ref", "C", 2, 2},
		{"empty ref uses position", "", 1, 1},
		{"unknown ref falls back to position", "Z", 1, 1},
		{"out of range", "", 5, -1},
		{"negative position", "", -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := locatePart(parts, tt.ref, tt.pos); got != tt.want {
				t.Errorf("locatePart(%q, %d) = %d, want %d", tt.ref, tt.pos, got, tt.want)
			}
		})
	}
}

func TestLocatePart_RepeatedRefs(t *testing.T) {
	parts := []PartLine{{PartRef: "P1"}, {PartRef: "P2"}, {PartRef: "P1"}}

	tests := []struct {
		name string
		ref  string
		pos  int
		want int
	}{
		{"second copy by its own position", "P1", 2, 2},
		{"first copy by its own position", "P1", 0, 0},
		{"stale position falls back to first match", "P1", 1, 0},
		{"stale out of range position", "P1", 9, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := locatePart(parts, tt.ref, tt.pos); got != tt.want {
				t.Errorf("locatePart(%q, %d) = %d, want %d", tt.ref, tt.pos, got, tt.want)
			}
		})
	}
}

func TestUniqueMaterials(t *testing.T) {
	parts := []PartLine{
		{Material: "Steel"}, {Material: "Copper"}, {Material: "Steel"}, {Material: " "}, {Material: ""},
	}
	got := UniqueMaterials(parts)
	if len(got) != 2 || got[0] != "Steel" || got[1] != "Copper" {
		t.Errorf("UniqueMaterials() = %v", got)
	}
}
