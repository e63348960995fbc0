package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"sheetquote/services"
)

// catalogPrices reads the active catalog prices. A catalog that cannot be
// read falls back to the built-in table.
func (d *Deps) catalogPrices(e *core.RequestEvent) map[string]decimal.Decimal {
	rows, err := d.Catalog.Load(e.Request.Context())
	if err != nil {
		log.Printf("draft_pricing: load material catalog: %v", err)
		return nil
	}
	return services.CatalogPrices(rows)
}

// HandleBulkUpload reads a bulk pricing file (.csv, .txt or .xlsx) into the
// draft and switches it to bulk pricing. Prices are applied separately.
// Route: POST /quotations/drafts/{id}/bulk
func HandleBulkUpload(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(d.Config.Upload.MaxBytes); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return WarningToast(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		res, err := services.ParseBulkPricingFile(file, header.Filename)
		if err != nil {
			log.Printf("draft_pricing: parse %s: %v", header.Filename, err)
			return WarningToast(e, http.StatusUnprocessableEntity, "Could not read the pricing file")
		}

		if len(res.Issues) > 0 {
			SetToast(e, "warning", fmt.Sprintf("%d priced row(s) read, %d row(s) need attention", len(res.Entries), len(res.Issues)))
		} else {
			SetToast(e, "success", fmt.Sprintf("%d priced row(s) read", len(res.Entries)))
		}
		return d.updateDraft(e, func(q *services.QuotationDraft) error {
			if err := q.SwitchMode(services.ModeBulkFile); err != nil {
				return err
			}
			q.LoadBulkPricing(header.Filename, res)
			return nil
		})
	}
}

// HandleBulkApply prices the parts from the loaded bulk file.
// Route: POST /quotations/drafts/{id}/bulk/apply
func HandleBulkApply(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		matched := 0
		return d.updateDraftThen(e, func(q *services.QuotationDraft) error {
			n, err := q.ApplyBulkPricing()
			matched = n
			return err
		}, func() {
			SetToast(e, "success", fmt.Sprintf("%d part(s) priced from file", matched))
		})
	}
}

// HandleBulkTemplate downloads a pricing workbook listing the draft's parts.
// Route: GET /quotations/drafts/{id}/bulk/template
func HandleBulkTemplate(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id, err := d.loadDraft(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Quotation draft not found")
		}
		var parts []services.PartLine
		_ = d.Drafts.View(id, func(q *services.QuotationDraft) {
			parts = append(parts, q.Parts...)
		})

		out, err := services.GenerateBulkPricingTemplate(parts)
		if err != nil {
			log.Printf("draft_pricing: template: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate template")
		}
		return writeDownload(e, xlsxContentType, "bulk_pricing_template.xlsx", out)
	}
}

// HandleBulkIssues downloads the rows of the last bulk file that were
// skipped or read with a zero price.
// Route: GET /quotations/drafts/{id}/bulk/issues
func HandleBulkIssues(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id, err := d.loadDraft(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Quotation draft not found")
		}
		var issues []services.ParseError
		_ = d.Drafts.View(id, func(q *services.QuotationDraft) {
			issues = append(issues, q.BulkPricing.Issues...)
		})
		if len(issues) == 0 {
			return ErrorToast(e, http.StatusNotFound, "No issues to report")
		}

		out, err := services.GenerateIssueReport(issues)
		if err != nil {
			log.Printf("draft_pricing: issue report: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate report")
		}
		return writeDownload(e, xlsxContentType, "bulk_pricing_issues.xlsx", out)
	}
}

// HandleMaterialSeed resets the material price fields to the catalog and
// built-in prices without repricing parts.
// Route: POST /quotations/drafts/{id}/materials/seed
func HandleMaterialSeed(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		catalog := d.catalogPrices(e)
		return d.updateDraft(e, func(q *services.QuotationDraft) error {
			if q.Mode != services.ModeMaterialWise {
				if err := q.SwitchMode(services.ModeMaterialWise); err != nil {
					return err
				}
			}
			q.SeedMaterialPricing(catalog)
			return nil
		})
	}
}

// HandleMaterialApply stores the price[<material>] form values and prices
// every part by its material.
// Route: POST /quotations/drafts/{id}/materials/apply
func HandleMaterialApply(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		raw := make(map[string]string)
		for key, vals := range e.Request.PostForm {
			material, ok := strings.CutPrefix(key, "price[")
			if !ok || !strings.HasSuffix(material, "]") || len(vals) == 0 {
				continue
			}
			raw[strings.TrimSuffix(material, "]")] = vals[0]
		}
		prices, issues := services.ParseMaterialPrices(raw)

		return d.updateDraft(e, func(q *services.QuotationDraft) error {
			if q.Mode != services.ModeMaterialWise {
				if err := q.SwitchMode(services.ModeMaterialWise); err != nil {
					return err
				}
			}
			merged := make(services.MaterialPriceMap, len(prices))
			for m, p := range prices {
				merged[m] = p
			}
			for _, is := range issues {
				merged[is.Field] = decimal.Zero
			}
			q.SetMaterialPrices(merged)
			if err := q.ApplyMaterialPricing(); err != nil {
				return err
			}
			if len(issues) > 0 {
				return &services.ParseError{Field: "price for " + issues[0].Field, Value: issues[0].Value, Message: "must be a number"}
			}
			return nil
		})
	}
}

// HandleUploadQuotation scans an uploaded quotation for its total and
// switches the draft to upload-total pricing. When no total can be read
// the builder asks for one.
// Route: POST /quotations/drafts/{id}/upload
func HandleUploadQuotation(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(d.Config.Upload.MaxBytes); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return WarningToast(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		ext, err := services.ExtractQuotationTotal(file)
		if err != nil {
			log.Printf("draft_pricing: scan %s: %v", header.Filename, err)
		}
		if ext.ManualRequired {
			SetToast(e, "info", "No total found in "+header.Filename+". Please enter it manually.")
		} else {
			SetToast(e, "success", "Total read from "+header.Filename)
		}

		return d.updateDraft(e, func(q *services.QuotationDraft) error {
			if err := q.SwitchMode(services.ModeUploadTotalOnly); err != nil {
				return err
			}
			return q.AcceptExtraction(header.Filename, ext)
		})
	}
}

// HandleManualTotal stores a total typed by staff.
// Route: POST /quotations/drafts/{id}/total
func HandleManualTotal(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		raw := e.Request.FormValue("total")
		return d.updateDraft(e, func(q *services.QuotationDraft) error {
			err := q.SetManualTotal(raw)
			var pe *services.ParseError
			if errors.As(err, &pe) {
				// The previous total is kept.
				return &services.InvalidTotalError{}
			}
			return err
		})
	}
}

// HandleDraftDetails stores terms, notes and the validity date.
// Route: POST /quotations/drafts/{id}/details
func HandleDraftDetails(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		terms := strings.TrimSpace(e.Request.FormValue("terms"))
		notes := strings.TrimSpace(e.Request.FormValue("notes"))
		validUntil := e.Request.FormValue("valid_until")

		return d.updateDraft(e, func(q *services.QuotationDraft) error {
			return q.UpdateDetails(terms, notes, validUntil)
		})
	}
}
