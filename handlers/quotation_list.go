package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"sheetquote/collections"
	"sheetquote/services"
	"sheetquote/templates"
)

func statusOptions(statuses []string) []templates.StatusOption {
	opts := make([]templates.StatusOption, 0, len(statuses))
	for _, s := range statuses {
		opts = append(opts, templates.StatusOption{Value: s, Label: services.StatusLabel(s)})
	}
	return opts
}

func (d *Deps) quotationItem(rec *core.Record) templates.QuotationListItem {
	ids := rec.GetStringSlice("inquiries")
	if len(ids) == 0 && rec.GetString("inquiry") != "" {
		ids = []string{rec.GetString("inquiry")}
	}
	numbers, customer := d.inquiryLabels(ids)

	item := templates.QuotationListItem{
		ID:             rec.Id,
		Number:         rec.GetString("quotation_number"),
		InquiryNumbers: strings.Join(numbers, ", "),
		Customer:       customer,
		Status:         rec.GetString("status"),
		StatusLabel:    services.StatusLabel(rec.GetString("status")),
		PricingLabel:   services.PricingMode(rec.GetString("pricing_mode")).Label(),
		Total:          d.money(decimal.NewFromFloat(rec.GetFloat("total_amount"))),
		ValidUntil:     formatDate(rec.GetDateTime("valid_until")),
		CreatedDate:    formatDate(rec.GetDateTime("created")),
		NextStatuses:   statusOptions(services.NextQuotationStatuses(rec.GetString("status"))),
	}

	orders, err := d.App.FindRecordsByFilter("orders", "quotation = {:id}", "-created", 1, 0, map[string]any{"id": rec.Id})
	if err == nil && len(orders) > 0 {
		item.OrderNumber = orders[0].GetString("order_number")
	}
	return item
}

// HandleQuotationList lists saved quotations, newest first.
// Route: GET /quotations
func HandleQuotationList(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		status, filter, params := statusFilter(e, collections.QuotationStatuses)

		var records []*core.Record
		var err error
		if params != nil {
			records, err = d.App.FindRecordsByFilter("quotations", filter, "-created", 0, 0, params)
		} else {
			records, err = d.App.FindRecordsByFilter("quotations", filter, "-created", 0, 0)
		}
		if err != nil {
			log.Printf("quotation_list: could not query quotations: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		data := templates.QuotationListData{
			StatusFilter: status,
			Statuses:     collections.QuotationStatuses,
		}
		for _, rec := range records {
			data.Items = append(data.Items, d.quotationItem(rec))
		}

		var component templ.Component
		if isHTMX(e) {
			component = templates.QuotationListContent(data)
		} else {
			component = templates.QuotationListPage(data)
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleQuotationStatus moves a quotation to the posted status and
// re-renders its row. Accepting a quotation creates its order.
// Route: POST /quotations/{id}/status
func HandleQuotationStatus(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if err := e.Request.ParseForm(); err != nil {
			return WarningToast(e, http.StatusBadRequest, "Invalid form data")
		}
		status := strings.TrimSpace(e.Request.FormValue("status"))
		notes := strings.TrimSpace(e.Request.FormValue("response_notes"))

		out, err := services.TransitionQuotation(e.Request.Context(), d.App, id, status, notes, d.Config.Quote.NumberPrefix)
		switch {
		case err == nil:
		case errors.Is(err, services.ErrInvalidStatusTransition):
			return WarningToast(e, http.StatusUnprocessableEntity, "That status change is not allowed")
		case isNotFound(err):
			return ErrorToast(e, http.StatusNotFound, "Quotation not found")
		default:
			log.Printf("quotation_status: %s: %v", id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if out.Order != nil {
			SetToast(e, "success", "Quotation "+out.Quotation.GetString("quotation_number")+" accepted. Order "+out.Order.GetString("order_number")+" created")
		} else {
			SetToast(e, "success", "Quotation marked "+strings.ToLower(services.StatusLabel(status)))
		}
		return templates.QuotationRow(d.quotationItem(out.Quotation)).Render(e.Request.Context(), e.Response)
	}
}
