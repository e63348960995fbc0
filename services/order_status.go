package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StatusLabel turns a stored status such as "ready_for_dispatch" into
// "Ready For Dispatch".
func StatusLabel(status string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(status, "_", " "))
}

var quotationTransitions = map[string][]string{
	"draft": {"sent"},
	"sent":  {"accepted", "rejected"},
}

var orderTransitions = map[string][]string{
	"pending":            {"confirmed", "cancelled"},
	"confirmed":          {"in_production", "cancelled"},
	"in_production":      {"ready_for_dispatch"},
	"ready_for_dispatch": {"dispatched"},
	"dispatched":         {"delivered"},
}

func canTransition(table map[string][]string, from, to string) bool {
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}
	return false
}

// NextQuotationStatuses lists the statuses a quotation may move to.
func NextQuotationStatuses(from string) []string {
	return append([]string(nil), quotationTransitions[from]...)
}

// NextOrderStatuses lists the statuses an order may move to.
func NextOrderStatuses(from string) []string {
	return append([]string(nil), orderTransitions[from]...)
}

// QuotationOutcome is the result of moving a quotation along; Order is set
// when acceptance created one.
type QuotationOutcome struct {
	Quotation *core.Record
	Order     *core.Record
}

// TransitionQuotation moves a quotation to status. Accepting it creates a
// pending order for the quoted total and marks its inquiries order_created.
func TransitionQuotation(ctx context.Context, app core.App, quotationID, status, responseNotes, numberPrefix string) (QuotationOutcome, error) {
	var out QuotationOutcome
	err := app.RunInTransaction(func(txApp core.App) error {
		q, err := txApp.FindRecordById("quotations", quotationID)
		if err != nil {
			return fmt.Errorf("quotation %s not found: %w", quotationID, err)
		}
		if !canTransition(quotationTransitions, q.GetString("status"), status) {
			return fmt.Errorf("quotation %s: %s -> %s: %w", q.GetString("quotation_number"), q.GetString("status"), status, ErrInvalidStatusTransition)
		}

		q.Set("status", status)
		if responseNotes != "" {
			q.Set("response_notes", responseNotes)
		}
		if err := txApp.SaveWithContext(ctx, q); err != nil {
			return fmt.Errorf("save quotation: %w", err)
		}
		out.Quotation = q

		if status != "accepted" {
			return nil
		}

		ordersCol, err := txApp.FindCollectionByNameOrId("orders")
		if err != nil {
			return fmt.Errorf("orders collection: %w", err)
		}
		order := core.NewRecord(ordersCol)
		order.Set("quotation", q.Id)
		order.Set("order_number", GenerateOrderNumber(q.GetString("quotation_number"), numberPrefix))
		order.Set("status", "pending")
		order.Set("total_amount", q.GetFloat("total_amount"))
		if err := txApp.SaveWithContext(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		out.Order = order

		ids := q.GetStringSlice("inquiries")
		if len(ids) == 0 {
			ids = []string{q.GetString("inquiry")}
		}
		for _, id := range ids {
			inq, err := txApp.FindRecordById("inquiries", id)
			if err != nil {
				continue
			}
			inq.Set("status", "order_created")
			if err := txApp.SaveWithContext(ctx, inq); err != nil {
				return fmt.Errorf("mark inquiry %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return QuotationOutcome{}, err
	}
	return out, nil
}

// OrderUpdate is a requested order status change with the details some
// statuses need.
type OrderUpdate struct {
	Status            string `json:"status"`
	EstimatedDelivery string `json:"estimated_delivery"` // YYYY-MM-DD
	Courier           string `json:"courier"`
	TrackingNumber    string `json:"tracking_number"`
	Notes             string `json:"notes"`
}

// Validate requires an estimated delivery date to start production and
// courier details to dispatch.
func (u OrderUpdate) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Status, validation.Required),
		validation.Field(&u.EstimatedDelivery,
			validation.When(u.Status == "in_production", validation.Required.Error("estimated delivery date is required")),
			validation.Date(time.DateOnly).Error("must be a date (YYYY-MM-DD)"),
		),
		validation.Field(&u.Courier,
			validation.When(u.Status == "dispatched", validation.Required.Error("courier is required")),
			validation.Length(0, 100),
		),
		validation.Field(&u.TrackingNumber,
			validation.When(u.Status == "dispatched", validation.Required.Error("tracking number is required")),
			validation.Length(0, 100),
		),
	)
}

// UpdateOrderStatus applies u to an order after checking the transition
// and the details it needs.
func UpdateOrderStatus(ctx context.Context, app core.App, orderID string, u OrderUpdate) (*core.Record, error) {
	order, err := app.FindRecordById("orders", orderID)
	if err != nil {
		return nil, fmt.Errorf("order %s not found: %w", orderID, err)
	}
	from := order.GetString("status")
	if !canTransition(orderTransitions, from, u.Status) {
		return nil, fmt.Errorf("order %s: %s -> %s: %w", order.GetString("order_number"), from, u.Status, ErrInvalidStatusTransition)
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}

	order.Set("status", u.Status)
	if u.EstimatedDelivery != "" {
		if d, err := time.Parse(time.DateOnly, u.EstimatedDelivery); err == nil {
			order.Set("estimated_delivery", d)
		}
	}
	if u.Courier != "" {
		order.Set("courier", u.Courier)
	}
	if u.TrackingNumber != "" {
		order.Set("tracking_number", u.TrackingNumber)
	}
	if u.Notes != "" {
		order.Set("notes", u.Notes)
	}
	if err := app.SaveWithContext(ctx, order); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	return order, nil
}

// ValidationMessages flattens ozzo field errors into "field: message"
// strings for display. Other errors come back as a single message.
func ValidationMessages(err error) []string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	fields := make([]string, 0, len(verrs))
	for k := range verrs {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, verrs[field].Error()))
	}
	return msgs
}
