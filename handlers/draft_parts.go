package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"sheetquote/services"
)

var editableFields = map[services.PartField]bool{
	services.FieldPartRef:   true,
	services.FieldMaterial:  true,
	services.FieldThickness: true,
	services.FieldQuantity:  true,
	services.FieldUnitPrice: true,
	services.FieldRemarks:   true,
}

// HandlePartPatch edits one field of a part line: the row at {pos} when it
// carries the part_ref form value, otherwise the first row with that ref.
// Unreadable numbers are stored as zero and reported inline.
// Route: PATCH /quotations/drafts/{id}/parts/{pos}
func HandlePartPatch(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		pos, err := strconv.Atoi(e.Request.PathValue("pos"))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid part position")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		field := services.PartField(e.Request.FormValue("field"))
		if field == services.FieldTotalPrice {
			return WarningToast(e, http.StatusUnprocessableEntity, "The line total is calculated from price and quantity")
		}
		if !editableFields[field] {
			return ErrorToast(e, http.StatusBadRequest, "Unknown part field")
		}
		value := e.Request.FormValue("value")
		partRef := e.Request.FormValue("part_ref")

		return d.updateDraft(e, func(q *services.QuotationDraft) error {
			if _, err := q.EditPart(partRef, pos, field, value); err != nil {
				return err
			}
			switch field {
			case services.FieldUnitPrice:
				_, err := services.ParsePrice(value)
				return err
			case services.FieldQuantity:
				_, err := services.ParseQuantity(value)
				return err
			}
			return nil
		})
	}
}

// HandlePartAdd appends a default part line.
// Route: POST /quotations/drafts/{id}/parts
func HandlePartAdd(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return d.updateDraft(e, func(q *services.QuotationDraft) error {
			if q.Mode == services.ModeUploadTotalOnly {
				return services.ErrModeMismatch
			}
			q.AddPart()
			return nil
		})
	}
}

// HandlePartDelete removes the part at {pos}; the last line stays.
// Route: DELETE /quotations/drafts/{id}/parts/{pos}
func HandlePartDelete(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		pos, err := strconv.Atoi(e.Request.PathValue("pos"))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid part position")
		}
		return d.updateDraft(e, func(q *services.QuotationDraft) error {
			return q.RemovePart(pos)
		})
	}
}

// HandleModeSwitch moves the draft to another pricing mode. Entering
// material-wise pricing seeds the material prices when none are set yet.
// Route: POST /quotations/drafts/{id}/mode
func HandleModeSwitch(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		mode, ok := services.ParsePricingMode(strings.TrimSpace(e.Request.FormValue("mode")))
		if !ok {
			return ErrorToast(e, http.StatusBadRequest, "Unknown pricing mode")
		}

		var catalog map[string]decimal.Decimal
		if mode == services.ModeMaterialWise {
			catalog = d.catalogPrices(e)
		}

		return d.updateDraft(e, func(q *services.QuotationDraft) error {
			if err := q.SwitchMode(mode); err != nil {
				return err
			}
			if mode == services.ModeMaterialWise && len(q.MaterialPrices) == 0 {
				q.SeedMaterialPricing(catalog)
			}
			return nil
		})
	}
}
