package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"sheetquote/services"
)

// HandleDraftPayload returns the payload the draft would submit, or the
// first validation problem.
// Route: GET /quotations/drafts/{id}/payload
func HandleDraftPayload(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id, err := d.loadDraft(e)
		if err != nil {
			return e.JSON(http.StatusNotFound, map[string]string{"error": "quotation draft not found"})
		}

		var payload services.QuotationPayload
		var submitErr error
		_ = d.Drafts.View(id, func(q *services.QuotationDraft) {
			payload, submitErr = services.Submit(q)
		})
		if submitErr != nil {
			return e.JSON(http.StatusUnprocessableEntity, map[string]string{"error": userMessage(submitErr)})
		}
		return e.JSON(http.StatusOK, payload)
	}
}

// HandleDraftSubmit validates the draft and files it as a quotation. The
// draft is kept on any failure so staff can correct it.
// Route: POST /quotations/drafts/{id}/submit
func HandleDraftSubmit(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id, err := d.loadDraft(e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Quotation draft not found")
		}

		q, err := d.Drafts.BeginSubmit(id)
		if errors.Is(err, services.ErrSubmitInFlight) {
			return WarningToast(e, http.StatusConflict, "This quotation is already being submitted")
		}
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Quotation draft not found")
		}
		submitted := false
		defer func() { d.Drafts.EndSubmit(id, submitted) }()

		payload, err := services.Submit(q)
		if err != nil {
			return WarningToast(e, http.StatusUnprocessableEntity, userMessage(err))
		}

		submitter := services.NewQuotationSubmitter(d.App, d.Config.Quote.NumberPrefix)
		res, err := submitter.Submit(e.Request.Context(), payload)
		var dup *services.DuplicateQuotationError
		switch {
		case errors.As(err, &dup):
			msg := fmt.Sprintf("A quotation already exists for this inquiry (%s)", dup.QuotationNumber)
			return ConflictToast(e, msg, "/quotations#quotation-"+dup.QuotationID)
		case errors.Is(err, sql.ErrNoRows):
			return ErrorToast(e, http.StatusNotFound, "Inquiry not found")
		case err != nil:
			log.Printf("draft_submit: submit %s: %v", id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to save quotation. Please try again.")
		}

		submitted = true
		SetToast(e, "success", fmt.Sprintf("Quotation %s created (%s)", res.Number, d.money(res.Total)))
		if isHTMX(e) {
			e.Response.Header().Set("HX-Redirect", "/quotations")
			return e.NoContent(http.StatusOK)
		}
		return e.Redirect(http.StatusFound, "/quotations")
	}
}
