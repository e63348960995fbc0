// Package templates holds the HTML views. Each screen has a Content
// component for HTMX swaps and a Page component that wraps it in the layout.
//
// The components are written in the .templ files; run `templ generate`
// after editing them.
package templates

import (
	"encoding/json"
	"strings"
)

//go:generate templ generate

// StatusBadgeClass maps a stored status to a badge style.
func StatusBadgeClass(status string) string {
	switch status {
	case "accepted", "delivered", "quoted", "Active":
		return "badge-success"
	case "sent", "confirmed", "in_production", "ready_for_dispatch", "dispatched":
		return "badge-info"
	case "pending", "draft":
		return "badge-warning"
	case "rejected", "cancelled", "Inactive":
		return "badge-error"
	default:
		return "badge-ghost"
	}
}

// hxVals encodes values for an hx-vals attribute. Attribute rendering
// escapes the JSON, so quotes and backslashes in part refs reach the
// server unchanged.
func hxVals(values map[string]string) string {
	b, err := json.Marshal(values)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func partVals(partRef, field string) string {
	return hxVals(map[string]string{"field": field, "part_ref": partRef})
}

func modeVals(mode string) string {
	return hxVals(map[string]string{"mode": mode})
}

func inquiryVals(inquiryID string) string {
	return hxVals(map[string]string{"inquiry_ids": inquiryID})
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " · ")
}
