package services

import (
	"context"
	"errors"
	"testing"

	"sheetquote/testhelpers"
)

func TestStatusLabel(t *testing.T) {
	tests := map[string]string{
		"ready_for_dispatch": "Ready For Dispatch",
		"pending":            "Pending",
		"order_created":      "Order Created",
		"":                   "",
	}
	for in, want := range tests {
		if got := StatusLabel(in); got != want {
			t.Errorf("StatusLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTransitionQuotation_AcceptCreatesOrder(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	inq := testhelpers.CreateTestInquiry(t, app, "INQ-1")
	q := testhelpers.CreateTestQuotation(t, app, inq.Id, "QT-25-26-004", "sent", 75)

	out, err := TransitionQuotation(context.Background(), app, q.Id, "accepted", "Go ahead", "QT")
	if err != nil {
		t.Fatalf("TransitionQuotation() error = %v", err)
	}
	if out.Order == nil {
		t.Fatal("accepting did not create an order")
	}
	if out.Order.GetString("order_number") != "ORD-25-26-004" || out.Order.GetString("status") != "pending" {
		t.Errorf("order = %q / %q", out.Order.GetString("order_number"), out.Order.GetString("status"))
	}
	if out.Order.GetFloat("total_amount") != 75 {
		t.Errorf("order total = %v, want 75", out.Order.GetFloat("total_amount"))
	}
	if out.Quotation.GetString("response_notes") != "Go ahead" {
		t.Errorf("response notes not stored")
	}
	inqAfter, _ := app.FindRecordById("inquiries", inq.Id)
	if inqAfter.GetString("status") != "order_created" {
		t.Errorf("inquiry status = %q, want order_created", inqAfter.GetString("status"))
	}
}

func TestTransitionQuotation_Rules(t *testing.T) {
	tests := []struct {
		from, to string
		ok       bool
	}{
		{"draft", "sent", true},
		{"sent", "rejected", true},
		{"draft", "accepted", false},
		{"accepted", "rejected", false},
		{"rejected", "sent", false},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)
			inq := testhelpers.CreateTestInquiry(t, app, "INQ-1")
			q := testhelpers.CreateTestQuotation(t, app, inq.Id, "QT-25-26-001", tt.from, 10)

			out, err := TransitionQuotation(context.Background(), app, q.Id, tt.to, "", "QT")
			if tt.ok {
				if err != nil {
					t.Fatalf("error = %v", err)
				}
				if out.Order != nil {
					t.Error("only acceptance creates an order")
				}
				return
			}
			if !errors.Is(err, ErrInvalidStatusTransition) {
				t.Fatalf("error = %v, want ErrInvalidStatusTransition", err)
			}
			after, _ := app.FindRecordById("quotations", q.Id)
			if after.GetString("status") != tt.from {
				t.Errorf("status changed to %q", after.GetString("status"))
			}
		})
	}
}

func TestOrderUpdate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		u       OrderUpdate
		wantErr bool
	}{
		{"confirm", OrderUpdate{Status: "confirmed"}, false},
		{"production without date", OrderUpdate{Status: "in_production"}, true},
		{"production with bad date", OrderUpdate{Status: "in_production", EstimatedDelivery: "soon"}, true},
		{"production with date", OrderUpdate{Status: "in_production", EstimatedDelivery: "2026-04-01"}, false},
		{"dispatch without tracking", OrderUpdate{Status: "dispatched", Courier: "DHL"}, true},
		{"dispatch complete", OrderUpdate{Status: "dispatched", Courier: "DHL", TrackingNumber: "JD0001"}, false},
		{"no status", OrderUpdate{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.u.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	inq := testhelpers.CreateTestInquiry(t, app, "INQ-1")
	q := testhelpers.CreateTestQuotation(t, app, inq.Id, "QT-25-26-001", "accepted", 10)
	order := testhelpers.CreateTestOrder(t, app, q.Id, "ORD-25-26-001", "ready_for_dispatch")

	_, err := UpdateOrderStatus(context.Background(), app, order.Id, OrderUpdate{Status: "dispatched"})
	msgs := ValidationMessages(err)
	if len(msgs) != 2 {
		t.Fatalf("ValidationMessages() = %v, want courier and tracking errors", msgs)
	}

	if _, err := UpdateOrderStatus(context.Background(), app, order.Id, OrderUpdate{Status: "delivered"}); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("skipping dispatch error = %v, want ErrInvalidStatusTransition", err)
	}

	rec, err := UpdateOrderStatus(context.Background(), app, order.Id, OrderUpdate{Status: "dispatched", Courier: "DHL", TrackingNumber: "JD0001"})
	if err != nil {
		t.Fatalf("UpdateOrderStatus() error = %v", err)
	}
	if rec.GetString("courier") != "DHL" || rec.GetString("tracking_number") != "JD0001" {
		t.Errorf("dispatch details not stored")
	}
}

func TestNextStatuses(t *testing.T) {
	if got := NextOrderStatuses("pending"); len(got) != 2 {
		t.Errorf("NextOrderStatuses(pending) = %v", got)
	}
	if got := NextOrderStatuses("delivered"); len(got) != 0 {
		t.Errorf("delivered should be final, got %v", got)
	}
	if got := NextQuotationStatuses("sent"); len(got) != 2 {
		t.Errorf("NextQuotationStatuses(sent) = %v", got)
	}
}
