package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Status values shared with the handlers.
var (
	MaterialStatuses  = []string{"Active", "Inactive"}
	InquiryStatuses   = []string{"pending", "quoted", "order_created", "cancelled"}
	QuotationStatuses = []string{"draft", "sent", "accepted", "rejected"}
	OrderStatuses     = []string{
		"pending", "confirmed", "in_production", "ready_for_dispatch",
		"dispatched", "delivered", "cancelled",
	}
	PricingModes = []string{"manual", "bulk_file", "material_wise", "upload_total_only"}
)

// Setup creates the material catalog, inquiry, quotation and order
// collections when they do not exist yet.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, "materials", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "material", Required: true})
		c.Fields.Add(&core.TextField{Name: "thickness"})
		c.Fields.Add(&core.TextField{Name: "grade"})
		c.Fields.Add(&core.NumberField{Name: "base_price"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    MaterialStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	inquiries := ensureCollection(app, "inquiries", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "inquiry_number", Required: true})
		c.Fields.Add(&core.TextField{Name: "customer_first_name"})
		c.Fields.Add(&core.TextField{Name: "customer_last_name"})
		c.Fields.Add(&core.TextField{Name: "company_name"})
		c.Fields.Add(&core.TextField{Name: "email"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    InquiryStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "inquiry_parts", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "inquiry",
			Required:      true,
			CollectionId:  inquiries.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
		c.Fields.Add(&core.TextField{Name: "part_ref"})
		c.Fields.Add(&core.TextField{Name: "material"})
		c.Fields.Add(&core.TextField{Name: "thickness"})
		c.Fields.Add(&core.NumberField{Name: "quantity"})
		c.Fields.Add(&core.TextField{Name: "remarks"})
	})

	quotations := ensureCollection(app, "quotations", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:         "inquiry",
			Required:     true,
			CollectionId: inquiries.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "inquiries",
			CollectionId: inquiries.Id,
			MaxSelect:    999,
		})
		c.Fields.Add(&core.TextField{Name: "quotation_number", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    QuotationStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "pricing_mode",
			Required:  true,
			Values:    PricingModes,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "total_amount"})
		c.Fields.Add(&core.TextField{Name: "terms"})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.DateField{Name: "valid_until"})
		c.Fields.Add(&core.TextField{Name: "uploaded_file"})
		c.Fields.Add(&core.TextField{Name: "response_notes"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "quotation_parts", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "quotation",
			Required:      true,
			CollectionId:  quotations.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order"})
		c.Fields.Add(&core.TextField{Name: "part_ref"})
		c.Fields.Add(&core.TextField{Name: "material"})
		c.Fields.Add(&core.TextField{Name: "thickness"})
		c.Fields.Add(&core.NumberField{Name: "quantity"})
		c.Fields.Add(&core.NumberField{Name: "unit_price"})
		c.Fields.Add(&core.NumberField{Name: "total_price"})
		c.Fields.Add(&core.TextField{Name: "remarks"})
	})

	ensureCollection(app, "orders", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:         "quotation",
			Required:     true,
			CollectionId: quotations.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "order_number", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    OrderStatuses,
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "total_amount"})
		c.Fields.Add(&core.DateField{Name: "estimated_delivery"})
		c.Fields.Add(&core.TextField{Name: "courier"})
		c.Fields.Add(&core.TextField{Name: "tracking_number"})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
}

// ensureCollection returns the named collection, creating it with the fields
// added by addFields when it is missing.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
