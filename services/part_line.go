package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PartLine is one orderable part on a quotation.
type PartLine struct {
	PartRef    string
	Material   string
	Thickness  string // millimetres
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal // UnitPrice * Quantity, rounded to cents
	Remarks    string
}

// PartField names an editable column of a PartLine.
type PartField string

const (
	FieldPartRef    PartField = "part_ref"
	FieldMaterial   PartField = "material"
	FieldThickness  PartField = "thickness"
	FieldQuantity   PartField = "quantity"
	FieldUnitPrice  PartField = "unit_price"
	FieldTotalPrice PartField = "total_price"
	FieldRemarks    PartField = "remarks"
)

// NewPartLine returns the line added by "Add part": Zintec, 1.5mm, qty 1.
func NewPartLine(partRef string) PartLine {
	return PartLine{
		PartRef:   partRef,
		Material:  "Zintec",
		Thickness: "1.5",
		Quantity:  1,
	}
}

// SetField returns a copy of line with field set to value. Unit price and
// quantity are parsed leniently (invalid input reads as 0) and the total is
// recomputed. The total itself cannot be set; the line comes back unchanged.
func SetField(line PartLine, field PartField, value string) PartLine {
	switch field {
	case FieldUnitPrice:
		line.UnitPrice = priceOrZero(value)
		line.TotalPrice = lineTotal(line.UnitPrice, line.Quantity)
	case FieldQuantity:
		line.Quantity = quantityOrZero(value)
		line.TotalPrice = lineTotal(line.UnitPrice, line.Quantity)
	case FieldTotalPrice:
	case FieldPartRef:
		line.PartRef = value
	case FieldMaterial:
		line.Material = value
	case FieldThickness:
		line.Thickness = value
	case FieldRemarks:
		line.Remarks = value
	}
	return line
}

// withUnitPrice sets the unit price and keeps the total in step.
func (p PartLine) withUnitPrice(price decimal.Decimal) PartLine {
	p.UnitPrice = price
	p.TotalPrice = lineTotal(price, p.Quantity)
	return p
}

// locatePart finds the line a UI edit refers to. The row at pos wins when
// it carries partRef, so repeated references edit the row that was changed.
// Otherwise the first line with partRef is used, then pos on its own.
func locatePart(parts []PartLine, partRef string, pos int) int {
	inRange := pos >= 0 && pos < len(parts)
	if partRef == "" || (inRange && parts[pos].PartRef == partRef) {
		if inRange {
			return pos
		}
		return -1
	}
	for i, p := range parts {
		if p.PartRef == partRef {
			return i
		}
	}
	if inRange {
		return pos
	}
	return -1
}

// UniqueMaterials returns the distinct, non-blank materials in first-seen order.
func UniqueMaterials(parts []PartLine) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range parts {
		if strings.TrimSpace(p.Material) == "" || seen[p.Material] {
			continue
		}
		seen[p.Material] = true
		out = append(out, p.Material)
	}
	return out
}

// IsKnownThickness reports whether t is one of ThicknessOptions.
func IsKnownThickness(t string) bool {
	for _, o := range ThicknessOptions {
		if o == t {
			return true
		}
	}
	return false
}
