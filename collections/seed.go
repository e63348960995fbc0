package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type materialDef struct {
	material  string
	thickness string
	grade     string
	basePrice float64
}

type inquiryPartDef struct {
	partRef   string
	material  string
	thickness string
	quantity  int
	remarks   string
}

type inquiryDef struct {
	number    string
	firstName string
	lastName  string
	company   string
	email     string
	parts     []inquiryPartDef
}

// catalogBasePrices are the per-unit prices the catalog starts with.
var catalogBasePrices = map[string]float64{
	"Zintec":           25,
	"Stainless Steel":  45,
	"Aluminum":         35,
	"Copper":           55,
	"Brass":            40,
	"Mild Steel":       20,
	"Carbon Steel":     30,
	"Galvanized Steel": 28,
	"Iron":             15,
	"Steel":            25,
}

var seedMaterials = []materialDef{
	{"Zintec", "1.5", "DC01", 25},
	{"Stainless Steel", "1.5", "304", 45},
	{"Aluminum", "2.0", "5251", 35},
	{"Mild Steel", "2.0", "S275", 20},
	{"Galvanized Steel", "1.0", "DX51D", 28},
	{"Carbon Steel", "3.0", "C45", 30},
	{"Copper", "1.0", "C101", 55},
	{"Brass", "1.0", "CZ108", 40},
	{"Iron", "2.5", "", 15},
	{"Steel", "1.5", "", 25},
}

var seedInquiries = []inquiryDef{
	{
		number: "INQ-1001", firstName: "Morgan", lastName: "Hale",
		company: "Hale Enclosures Ltd", email: "morgan@hale-enclosures.example",
		parts: []inquiryPartDef{
			{"ENC-101", "Zintec", "1.5", 40, "Powder coat RAL 7035"},
			{"ENC-102", "Zintec", "1.5", 40, ""},
			{"BRK-200", "Stainless Steel", "2.0", 120, "Deburr all edges"},
		},
	},
	{
		number: "INQ-1002", firstName: "Sam", lastName: "Okafor",
		company: "Okafor Signs", email: "sam@okaforsigns.example",
		parts: []inquiryPartDef{
			{"SGN-01", "Aluminum", "2.0", 6, "Brushed finish"},
			{"SGN-02", "Aluminum", "3.0", 2, ""},
		},
	},
	{
		number: "INQ-1003", firstName: "Alex", lastName: "Brennan",
		company: "", email: "alex.brennan@example.com",
	},
}

// Seed fills the material catalog and a few sample inquiries. It returns
// early when the catalog already has rows.
func Seed(app *pocketbase.PocketBase) error {
	materialsCol, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		return fmt.Errorf("seed: could not find materials collection: %w", err)
	}
	existing, err := app.FindAllRecords(materialsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query materials: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	log.Println("seed: materials collection is empty – inserting seed data …")

	inquiriesCol, err := app.FindCollectionByNameOrId("inquiries")
	if err != nil {
		return fmt.Errorf("seed: could not find inquiries collection: %w", err)
	}
	partsCol, err := app.FindCollectionByNameOrId("inquiry_parts")
	if err != nil {
		return fmt.Errorf("seed: could not find inquiry_parts collection: %w", err)
	}

	return app.RunInTransaction(func(txApp core.App) error {
		for _, m := range seedMaterials {
			r := core.NewRecord(materialsCol)
			r.Set("material", m.material)
			r.Set("thickness", m.thickness)
			r.Set("grade", m.grade)
			r.Set("base_price", m.basePrice)
			r.Set("status", "Active")
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: save material %q: %w", m.material, err)
			}
		}

		for _, inq := range seedInquiries {
			r := core.NewRecord(inquiriesCol)
			r.Set("inquiry_number", inq.number)
			r.Set("customer_first_name", inq.firstName)
			r.Set("customer_last_name", inq.lastName)
			r.Set("company_name", inq.company)
			r.Set("email", inq.email)
			r.Set("status", "pending")
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: save inquiry %q: %w", inq.number, err)
			}

			for i, p := range inq.parts {
				pr := core.NewRecord(partsCol)
				pr.Set("inquiry", r.Id)
				pr.Set("sort_order", i+1)
				pr.Set("part_ref", p.partRef)
				pr.Set("material", p.material)
				pr.Set("thickness", p.thickness)
				pr.Set("quantity", p.quantity)
				pr.Set("remarks", p.remarks)
				if err := txApp.Save(pr); err != nil {
					return fmt.Errorf("seed: save part %q: %w", p.partRef, err)
				}
			}
		}

		log.Printf("seed: inserted %d materials and %d inquiries\n", len(seedMaterials), len(seedInquiries))
		return nil
	})
}
