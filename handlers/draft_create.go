package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"sheetquote/services"
	"sheetquote/templates"
)

// HandleDraftCreate opens a builder for the inquiries in the inquiry_ids
// form values and redirects to it. Parts are copied from the inquiries with
// prices cleared.
// Route: POST /quotations/drafts
func HandleDraftCreate(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		var ids []string
		seen := make(map[string]bool)
		for _, raw := range e.Request.Form["inquiry_ids"] {
			for _, id := range strings.Split(raw, ",") {
				id = strings.TrimSpace(id)
				if id == "" || seen[id] {
					continue
				}
				seen[id] = true
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return WarningToast(e, http.StatusBadRequest, "Select at least one inquiry to quote")
		}

		parts, err := services.LoadInquiryParts(d.App, ids)
		if err != nil {
			log.Printf("draft_create: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Inquiry not found")
		}

		draft := services.NewQuotationDraft(d.Drafts.NewID(), ids, parts, services.DraftOptions{
			Terms:        d.Config.Quote.DefaultTerms,
			ValidityDays: d.Config.Quote.ValidityDays,
			Now:          d.Now(),
		})
		draft.Owner = GetSessionID(e.Request)
		id := d.Drafts.Put(draft)

		redirectURL := "/quotations/drafts/" + id
		if isHTMX(e) {
			e.Response.Header().Set("HX-Redirect", redirectURL)
			return e.NoContent(http.StatusOK)
		}
		return e.Redirect(http.StatusFound, redirectURL)
	}
}

// HandleDraftView renders the builder for one draft.
// Route: GET /quotations/drafts/{id}
func HandleDraftView(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id, err := d.loadDraft(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Quotation draft not found")
		}
		return d.renderBuilder(e, id, nil)
	}
}

// HandleDraftList lists the drafts open in the caller's session.
// Route: GET /quotations/drafts
func HandleDraftList(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		session := GetSessionID(e.Request)
		var items []templates.DraftListItem
		for _, q := range d.Drafts.List() {
			var item templates.DraftListItem
			var inquiryIDs []string
			owned := true
			_ = d.Drafts.View(q.ID, func(q *services.QuotationDraft) {
				if q.Owner != "" && q.Owner != session {
					owned = false
					return
				}
				inquiryIDs = append(inquiryIDs, q.InquiryIDs...)
				item = templates.DraftListItem{
					ID:          q.ID,
					ModeLabel:   q.Mode.Label(),
					PartCount:   len(q.Parts),
					Total:       d.money(services.ComputeTotal(q)),
					CreatedDate: q.CreatedAt.Format("02 Jan 2006 15:04"),
				}
			})
			if !owned || item.ID == "" {
				continue
			}
			numbers, _ := d.inquiryLabels(inquiryIDs)
			item.InquiryNumbers = strings.Join(numbers, ", ")
			items = append(items, item)
		}

		if isHTMX(e) {
			return templates.DraftListContent(items).Render(e.Request.Context(), e.Response)
		}
		return templates.DraftListPage(items).Render(e.Request.Context(), e.Response)
	}
}

// HandleDraftDiscard drops a draft without saving anything.
// Route: DELETE /quotations/drafts/{id}
func HandleDraftDiscard(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id, err := d.loadDraft(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Quotation draft not found")
		}
		if _, err := d.Drafts.BeginSubmit(id); errors.Is(err, services.ErrSubmitInFlight) {
			return WarningToast(e, http.StatusConflict, "This quotation is being submitted. Please wait.")
		}
		d.Drafts.Delete(id)

		SetToast(e, "info", "Draft discarded")
		e.Response.Header().Set("HX-Redirect", "/quotations/drafts")
		return e.NoContent(http.StatusOK)
	}
}
