package services

import "github.com/shopspring/decimal"

// MaterialPriceMap holds one unit price per material name.
type MaterialPriceMap map[string]decimal.Decimal

// ApplyMaterialPricing prices every part whose material has a positive entry
// in prices. Other parts are returned unchanged.
func ApplyMaterialPricing(parts []PartLine, prices MaterialPriceMap) []PartLine {
	out := make([]PartLine, len(parts))
	for i, p := range parts {
		price, ok := prices[p.Material]
		if ok && price.IsPositive() {
			out[i] = p.withUnitPrice(price)
			continue
		}
		out[i] = p
	}
	return out
}

// SeedBasePricing suggests a price for every material used by parts, taken
// from the built-in table or DefaultMaterialPrice. Nothing is priced until
// the map is applied.
func SeedBasePricing(parts []PartLine) MaterialPriceMap {
	return SeedPricingFrom(parts, nil)
}

// SeedPricingFrom is SeedBasePricing with catalog overrides: a positive price
// in catalog wins over the built-in table for that material.
func SeedPricingFrom(parts []PartLine, catalog map[string]decimal.Decimal) MaterialPriceMap {
	seed := make(MaterialPriceMap)
	for _, m := range UniqueMaterials(parts) {
		if p, ok := catalog[m]; ok && p.IsPositive() {
			seed[m] = p
			continue
		}
		seed[m] = BasePriceFor(m)
	}
	return seed
}

// ParseMaterialPrices reads the material pricing form. Unreadable values are
// reported and left out, which leaves those materials unpriced.
func ParseMaterialPrices(raw map[string]string) (MaterialPriceMap, []ParseError) {
	prices := make(MaterialPriceMap, len(raw))
	var issues []ParseError
	for material, v := range raw {
		p, err := ParsePrice(v)
		if err != nil {
			issues = append(issues, ParseError{Field: material, Value: v, Message: "not a valid price"})
			continue
		}
		prices[material] = p
	}
	return prices, issues
}
