// Package services holds the quotation pricing engine and the supporting
// import, export and persistence helpers used by the handlers.
package services

import "github.com/shopspring/decimal"

// DefaultMaterialPrice is used for any material missing from the base table.
var DefaultMaterialPrice = decimal.NewFromInt(20)

var basePricing = map[string]decimal.Decimal{
	"Zintec":           decimal.NewFromInt(25),
	"Stainless Steel":  decimal.NewFromInt(45),
	"Aluminum":         decimal.NewFromInt(35),
	"Copper":           decimal.NewFromInt(55),
	"Brass":            decimal.NewFromInt(40),
	"Mild Steel":       decimal.NewFromInt(20),
	"Carbon Steel":     decimal.NewFromInt(30),
	"Galvanized Steel": decimal.NewFromInt(28),
	"Iron":             decimal.NewFromInt(15),
	"Steel":            decimal.NewFromInt(25),
}

// BasePricing returns a copy of the built-in material unit prices.
func BasePricing() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(basePricing))
	for k, v := range basePricing {
		out[k] = v
	}
	return out
}

// BasePriceFor looks up a material in the built-in table (exact match).
func BasePriceFor(material string) decimal.Decimal {
	if p, ok := basePricing[material]; ok {
		return p
	}
	return DefaultMaterialPrice
}

// ThicknessOptions lists the sheet thicknesses in millimetres offered by the UI.
var ThicknessOptions = []string{"0.5", "1.0", "1.5", "2.0", "2.5", "3.0", "4.0", "5.0"}

// MaterialOptions lists the materials offered by the part editor.
var MaterialOptions = []string{
	"Zintec", "Stainless Steel", "Aluminum", "Mild Steel", "Galvanized Steel",
	"Carbon Steel", "Copper", "Brass", "Iron", "Steel",
}
