package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
)

// MigrateMaterialBasePrices fills base_price on catalog rows created before
// the field existed, using the starting catalog price for known materials.
// Rows with an unknown material are left at zero. Safe to call on every startup.
func MigrateMaterialBasePrices(app *pocketbase.PocketBase) error {
	records, err := app.FindRecordsByFilter(
		"materials",
		"base_price <= 0",
		"",
		0,
		0,
		nil,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query materials: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	updated := 0
	for _, rec := range records {
		price, ok := catalogBasePrices[rec.GetString("material")]
		if !ok {
			continue
		}
		rec.Set("base_price", price)
		if err := app.Save(rec); err != nil {
			log.Printf("migrate: failed to set base price for material %s: %v\n", rec.Id, err)
			continue
		}
		updated++
	}

	if updated > 0 {
		log.Printf("migrate: filled base_price on %d material(s)\n", updated)
	}
	return nil
}
