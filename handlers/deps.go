package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/shopspring/decimal"

	"sheetquote/config"
	"sheetquote/services"
	"sheetquote/templates"
)

// Deps are the collaborators shared by the quotation handlers.
type Deps struct {
	App     *pocketbase.PocketBase
	Drafts  *services.DraftStore
	Catalog services.MaterialCatalogStore
	Config  *config.Config
	Now     func() time.Time
}

// NewDeps wires the default collaborators for app.
func NewDeps(app *pocketbase.PocketBase, cfg *config.Config) *Deps {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Deps{
		App:     app,
		Drafts:  services.NewDraftStore(),
		Catalog: services.NewRecordMaterialCatalog(app),
		Config:  cfg,
		Now:     time.Now,
	}
}

func (d *Deps) money(amount decimal.Decimal) string {
	return services.FormatMoney(d.Config.Quote.CurrencySymbol, amount)
}

func isHTMX(e *core.RequestEvent) bool {
	return e.Request.Header.Get("HX-Request") == "true"
}

// loadDraft finds the draft named by the {id} path value and checks it
// belongs to the caller's session. A foreign draft looks like a missing one.
func (d *Deps) loadDraft(e *core.RequestEvent) (string, error) {
	id := e.Request.PathValue("id")
	if id == "" {
		return "", services.ErrDraftNotFound
	}
	session := GetSessionID(e.Request)
	owned := false
	err := d.Drafts.View(id, func(q *services.QuotationDraft) {
		owned = q.Owner == "" || q.Owner == session
	})
	if err != nil {
		return "", err
	}
	if !owned {
		return "", services.ErrDraftNotFound
	}
	return id, nil
}

// updateDraft runs fn on the caller's draft and re-renders the builder.
// A *ParseError from fn means the edit was applied with the value read as
// zero; the builder is re-rendered with an inline warning. Other errors
// staff can fix leave the draft unchanged and answer 422 with a toast.
func (d *Deps) updateDraft(e *core.RequestEvent, fn func(q *services.QuotationDraft) error) error {
	return d.updateDraftThen(e, fn, nil)
}

// updateDraftThen is updateDraft with a hook run after fn succeeds and
// before the builder is rendered.
func (d *Deps) updateDraftThen(e *core.RequestEvent, fn func(q *services.QuotationDraft) error, onSuccess func()) error {
	id, err := d.loadDraft(e)
	if err != nil {
		return ErrorToast(e, http.StatusNotFound, "Quotation draft not found")
	}

	_, err = d.Drafts.Update(id, fn)
	var pe *services.ParseError
	switch {
	case err == nil:
		if onSuccess != nil {
			onSuccess()
		}
		return d.renderBuilder(e, id, nil)
	case errors.Is(err, services.ErrSubmitInFlight):
		return WarningToast(e, http.StatusConflict, "This quotation is being submitted. Please wait.")
	case errors.As(err, &pe):
		SetToast(e, "warning", userMessage(err))
		return d.renderBuilder(e, id, []string{userMessage(err)})
	case isUserError(err):
		return WarningToast(e, http.StatusUnprocessableEntity, userMessage(err))
	default:
		log.Printf("draft: update %s: %v", id, err)
		return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

func isUserError(err error) bool {
	return services.IsValidationError(err) ||
		errors.Is(err, services.ErrInvalidModeTransition) ||
		errors.Is(err, services.ErrModeMismatch) ||
		errors.Is(err, services.ErrLastPart) ||
		errors.Is(err, services.ErrPartNotFound) ||
		errors.Is(err, services.ErrNoPricingData)
}

// isNotFound reports whether err came from a record lookup that found nothing.
func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func userMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func (d *Deps) renderBuilder(e *core.RequestEvent, id string, messages []string) error {
	var data templates.BuilderData
	var inquiryIDs []string
	if err := d.Drafts.View(id, func(q *services.QuotationDraft) {
		data = d.builderData(q)
		inquiryIDs = append(inquiryIDs, q.InquiryIDs...)
	}); err != nil {
		return ErrorToast(e, http.StatusNotFound, "Quotation draft not found")
	}
	// Record lookups run after the store lock is released.
	data.InquiryNumbers, data.Customer = d.inquiryLabels(inquiryIDs)
	data.Errors = messages

	if isHTMX(e) {
		return templates.BuilderContent(data).Render(e.Request.Context(), e.Response)
	}
	return templates.BuilderPage(data).Render(e.Request.Context(), e.Response)
}

// builderData turns a draft into the builder view without the inquiry
// labels. Callers hold the store lock, so it must not query records.
func (d *Deps) builderData(q *services.QuotationDraft) templates.BuilderData {
	data := templates.BuilderData{
		DraftID:          q.ID,
		Batch:            q.IsBatch(),
		Currency:         d.Config.Quote.CurrencySymbol,
		Mode:             string(q.Mode),
		ModeLabel:        q.Mode.Label(),
		MaterialOptions:  services.MaterialOptions,
		ThicknessOptions: services.ThicknessOptions,
		Total:            d.money(services.ComputeTotal(q)),
		Terms:            q.Terms,
		Notes:            q.Notes,
		ValidUntil:       q.ValidUntil.Format(time.DateOnly),
		BulkFile:         q.BulkPricingFile,
		BulkEntryCount:   len(q.BulkPricing.Entries),
		UploadedFile:     q.UploadedFile,
		UploadTotal:      q.TotalAmount.StringFixed(2),
	}
	data.ManualTotalRequired = q.ManualTotalRequired

	for _, m := range services.AllPricingModes {
		data.Modes = append(data.Modes, templates.ModeOption{
			Value:   string(m),
			Label:   m.Label(),
			Active:  m == q.Mode,
			Enabled: q.Mode.CanSwitchTo(m),
		})
	}
	for i, p := range q.Parts {
		data.Parts = append(data.Parts, templates.BuilderPart{
			Pos:        i,
			PartRef:    p.PartRef,
			Material:   p.Material,
			Thickness:  p.Thickness,
			Quantity:   p.Quantity,
			UnitPrice:  p.UnitPrice.StringFixed(2),
			TotalPrice: d.money(p.TotalPrice),
			Remarks:    p.Remarks,
		})
	}
	for _, is := range q.BulkPricing.Issues {
		data.BulkIssues = append(data.BulkIssues, templates.IssueRow{Row: is.Row, Field: is.Field, Value: is.Value, Message: is.Message})
	}
	for _, m := range services.UniqueMaterials(q.Parts) {
		price := ""
		if p, ok := q.MaterialPrices[m]; ok {
			price = p.StringFixed(2)
		}
		data.MaterialPrices = append(data.MaterialPrices, templates.MaterialPriceRow{Material: m, Price: price})
	}
	return data
}

// inquiryLabels returns the inquiry numbers and the first customer's name.
func (d *Deps) inquiryLabels(ids []string) ([]string, string) {
	var numbers []string
	customer := ""
	for _, id := range ids {
		rec, err := d.App.FindRecordById("inquiries", id)
		if err != nil {
			numbers = append(numbers, id)
			continue
		}
		numbers = append(numbers, rec.GetString("inquiry_number"))
		if customer == "" {
			customer = customerName(rec)
		}
	}
	return numbers, customer
}

func customerName(rec *core.Record) string {
	name := strings.TrimSpace(rec.GetString("customer_first_name") + " " + rec.GetString("customer_last_name"))
	if company := rec.GetString("company_name"); company != "" {
		if name == "" {
			return company
		}
		return name + " (" + company + ")"
	}
	return name
}

func formatDate(dt types.DateTime) string {
	if dt.IsZero() {
		return "—"
	}
	return dt.Time().Format("02 Jan 2006")
}
