package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"

	"sheetquote/collections"
	"sheetquote/services"
	"sheetquote/templates"
)

// statusFilter turns the ?status= query into a record filter. Unknown
// statuses are ignored.
func statusFilter(e *core.RequestEvent, allowed []string) (string, string, map[string]any) {
	status := e.Request.URL.Query().Get("status")
	for _, s := range allowed {
		if s == status {
			return status, "status = {:status}", map[string]any{"status": status}
		}
	}
	return "", "id != ''", nil
}

// HandleInquiryList lists inquiries with their part count and the open
// quotation, if any.
// Route: GET /inquiries
func HandleInquiryList(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		status, filter, params := statusFilter(e, collections.InquiryStatuses)

		var records []*core.Record
		var err error
		if params != nil {
			records, err = d.App.FindRecordsByFilter("inquiries", filter, "-created", 0, 0, params)
		} else {
			records, err = d.App.FindRecordsByFilter("inquiries", filter, "-created", 0, 0)
		}
		if err != nil {
			log.Printf("inquiry_list: could not query inquiries: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		var items []templates.InquiryListItem
		for _, rec := range records {
			parts, err := d.App.FindRecordsByFilter(
				"inquiry_parts",
				"inquiry = {:id}",
				"", 0, 0,
				map[string]any{"id": rec.Id},
			)
			if err != nil {
				parts = nil
			}

			item := templates.InquiryListItem{
				ID:          rec.Id,
				Number:      rec.GetString("inquiry_number"),
				Customer:    strings.TrimSpace(rec.GetString("customer_first_name") + " " + rec.GetString("customer_last_name")),
				Company:     rec.GetString("company_name"),
				Email:       rec.GetString("email"),
				Status:      rec.GetString("status"),
				StatusLabel: services.StatusLabel(rec.GetString("status")),
				PartCount:   len(parts),
				CreatedDate: formatDate(rec.GetDateTime("created")),
			}
			if q, err := services.FindOpenQuotation(d.App, rec.Id); err == nil && q != nil {
				item.QuotationID = q.Id
				item.QuotationNumber = q.GetString("quotation_number")
			}
			items = append(items, item)
		}

		data := templates.InquiryListData{
			Items:        items,
			StatusFilter: status,
			Statuses:     collections.InquiryStatuses,
			TotalCount:   len(records),
		}

		var component templ.Component
		if isHTMX(e) {
			component = templates.InquiryListContent(data)
		} else {
			component = templates.InquiryListPage(data)
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}
