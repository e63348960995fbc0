package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"sheetquote/collections"
	"sheetquote/services"
	"sheetquote/templates"
)

func isFieldErrors(err error) bool {
	var verrs validation.Errors
	return errors.As(err, &verrs)
}

func (d *Deps) orderItem(rec *core.Record) templates.OrderListItem {
	item := templates.OrderListItem{
		ID:             rec.Id,
		Number:         rec.GetString("order_number"),
		Status:         rec.GetString("status"),
		StatusLabel:    services.StatusLabel(rec.GetString("status")),
		Total:          d.money(decimal.NewFromFloat(rec.GetFloat("total_amount"))),
		Courier:        rec.GetString("courier"),
		TrackingNumber: rec.GetString("tracking_number"),
		NextStatuses:   statusOptions(services.NextOrderStatuses(rec.GetString("status"))),
	}
	if dt := rec.GetDateTime("estimated_delivery"); !dt.IsZero() {
		item.EstimatedDelivery = dt.Time().Format(time.DateOnly)
	}

	if q, err := d.App.FindRecordById("quotations", rec.GetString("quotation")); err == nil {
		item.QuotationNumber = q.GetString("quotation_number")
		ids := q.GetStringSlice("inquiries")
		if len(ids) == 0 && q.GetString("inquiry") != "" {
			ids = []string{q.GetString("inquiry")}
		}
		_, item.Customer = d.inquiryLabels(ids)
	}
	return item
}

// HandleOrderList lists orders, newest first.
// Route: GET /orders
func HandleOrderList(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		status, filter, params := statusFilter(e, collections.OrderStatuses)

		var records []*core.Record
		var err error
		if params != nil {
			records, err = d.App.FindRecordsByFilter("orders", filter, "-created", 0, 0, params)
		} else {
			records, err = d.App.FindRecordsByFilter("orders", filter, "-created", 0, 0)
		}
		if err != nil {
			log.Printf("order_list: could not query orders: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		data := templates.OrderListData{
			StatusFilter: status,
			Statuses:     collections.OrderStatuses,
		}
		for _, rec := range records {
			data.Items = append(data.Items, d.orderItem(rec))
		}

		var component templ.Component
		if isHTMX(e) {
			component = templates.OrderListContent(data)
		} else {
			component = templates.OrderListPage(data)
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleOrderStatus applies a status change to an order. Missing dispatch
// or production details are shown on the row and the order is left as is.
// Route: POST /orders/{id}/status
func HandleOrderStatus(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if err := e.Request.ParseForm(); err != nil {
			return WarningToast(e, http.StatusBadRequest, "Invalid form data")
		}
		u := services.OrderUpdate{
			Status:            strings.TrimSpace(e.Request.FormValue("status")),
			EstimatedDelivery: strings.TrimSpace(e.Request.FormValue("estimated_delivery")),
			Courier:           strings.TrimSpace(e.Request.FormValue("courier")),
			TrackingNumber:    strings.TrimSpace(e.Request.FormValue("tracking_number")),
			Notes:             strings.TrimSpace(e.Request.FormValue("notes")),
		}

		order, err := services.UpdateOrderStatus(e.Request.Context(), d.App, id, u)
		switch {
		case err == nil:
		case isNotFound(err):
			return ErrorToast(e, http.StatusNotFound, "Order not found")
		case errors.Is(err, services.ErrInvalidStatusTransition):
			return WarningToast(e, http.StatusUnprocessableEntity, "That status change is not allowed")
		case isFieldErrors(err):
			msgs := services.ValidationMessages(err)
			if isHTMX(e) {
				return WarningToast(e, http.StatusUnprocessableEntity, strings.Join(msgs, "; "))
			}
			rec, findErr := d.App.FindRecordById("orders", id)
			if findErr != nil {
				return ErrorToast(e, http.StatusNotFound, "Order not found")
			}
			item := d.orderItem(rec)
			item.Errors = msgs
			e.Response.WriteHeader(http.StatusUnprocessableEntity)
			return templates.OrderRow(item).Render(e.Request.Context(), e.Response)
		default:
			log.Printf("order_status: %s: %v", id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Order "+order.GetString("order_number")+" is now "+strings.ToLower(services.StatusLabel(u.Status)))
		return templates.OrderRow(d.orderItem(order)).Render(e.Request.Context(), e.Response)
	}
}
