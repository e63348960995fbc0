package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"sheetquote/services"
	"sheetquote/templates"
)

func materialItems(rows []services.MaterialRow) []templates.MaterialListItem {
	items := make([]templates.MaterialListItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, templates.MaterialListItem{
			ID:        r.ID,
			Material:  r.Material,
			Thickness: r.Thickness,
			Grade:     r.Grade,
			BasePrice: r.BasePrice.StringFixed(2),
			Status:    r.Status,
		})
	}
	return items
}

// parseMaterialForm reads the catalog table posted as aligned field arrays.
// Blank rows are skipped. Unreadable prices are reported and read as zero.
func parseMaterialForm(e *core.RequestEvent) ([]services.MaterialRow, []string, error) {
	if err := e.Request.ParseForm(); err != nil {
		return nil, nil, err
	}
	form := e.Request.PostForm
	ids := form["id"]
	materials := form["material"]
	thicknesses := form["thickness"]
	grades := form["grade"]
	prices := form["base_price"]
	statuses := form["status"]

	at := func(vals []string, i int) string {
		if i < len(vals) {
			return strings.TrimSpace(vals[i])
		}
		return ""
	}

	var rows []services.MaterialRow
	var problems []string
	for i := range materials {
		r := services.MaterialRow{
			ID:        at(ids, i),
			Material:  at(materials, i),
			Thickness: at(thicknesses, i),
			Grade:     at(grades, i),
			Status:    at(statuses, i),
		}
		rawPrice := at(prices, i)
		if r.ID == "" && r.Material == "" && r.Grade == "" && rawPrice == "" {
			continue
		}
		if r.Status == "" {
			r.Status = "Active"
		}
		if rawPrice != "" {
			p, err := services.ParsePrice(rawPrice)
			if err != nil {
				problems = append(problems, fmt.Sprintf("Row %d: base price %q %s", i+1, rawPrice, "must be a number of zero or more"))
			}
			r.BasePrice = p
		}
		rows = append(rows, r)
	}
	return rows, problems, nil
}

func (d *Deps) renderMaterials(e *core.RequestEvent, rows []services.MaterialRow, messages []string) error {
	data := templates.MaterialListData{
		Items:            materialItems(rows),
		ThicknessOptions: services.ThicknessOptions,
		Errors:           messages,
	}
	if isHTMX(e) {
		return templates.MaterialListContent(data).Render(e.Request.Context(), e.Response)
	}
	return templates.MaterialListPage(data).Render(e.Request.Context(), e.Response)
}

// HandleMaterialList shows the editable material catalog.
// Route: GET /materials
func HandleMaterialList(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rows, err := d.Catalog.Load(e.Request.Context())
		if err != nil {
			log.Printf("material_list: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not load the material catalog")
		}
		return d.renderMaterials(e, rows, nil)
	}
}

// HandleMaterialSave replaces the catalog with the posted table. Rows left
// out of the table are removed. Nothing is saved when any row is invalid.
// Route: POST /materials
func HandleMaterialSave(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rows, problems, err := parseMaterialForm(e)
		if err != nil {
			return WarningToast(e, http.StatusBadRequest, "Invalid form data")
		}
		if len(problems) > 0 {
			SetToast(e, "warning", "The catalog was not saved")
			return d.renderMaterials(e, rows, problems)
		}

		if err := d.Catalog.Save(e.Request.Context(), rows); err != nil {
			SetToast(e, "warning", "The catalog was not saved")
			return d.renderMaterials(e, rows, services.ValidationMessages(err))
		}

		SetToast(e, "success", fmt.Sprintf("Material catalog saved (%d row(s))", len(rows)))
		return d.renderMaterials(e, rows, nil)
	}
}

// HandleMaterialAddRow re-renders the posted table with a blank row added.
// Nothing is saved.
// Route: POST /materials/rows
func HandleMaterialAddRow(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rows, problems, err := parseMaterialForm(e)
		if err != nil {
			return WarningToast(e, http.StatusBadRequest, "Invalid form data")
		}
		rows = append(rows, services.MaterialRow{Status: "Active", BasePrice: decimal.Zero})
		return d.renderMaterials(e, rows, problems)
	}
}

// HandleMaterialDelete removes one catalog row.
// Route: DELETE /materials/{id}
func HandleMaterialDelete(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		rows, err := d.Catalog.Load(e.Request.Context())
		if err != nil {
			log.Printf("material_delete: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not load the material catalog")
		}

		kept := rows[:0]
		found := false
		for _, r := range rows {
			if r.ID == id {
				found = true
				continue
			}
			kept = append(kept, r)
		}
		if !found {
			return ErrorToast(e, http.StatusNotFound, "Material not found")
		}

		if err := d.Catalog.Save(e.Request.Context(), kept); err != nil {
			log.Printf("material_delete: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save the material catalog")
		}
		SetToast(e, "success", "Material deleted")
		return d.renderMaterials(e, kept, nil)
	}
}
