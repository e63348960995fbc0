// Package testhelpers provides utilities for testing the PocketBase-backed app.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"sheetquote/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory
// with all collections set up. The directory is removed when the test ends.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: t.TempDir(),
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

func saveRecord(t *testing.T, app *pocketbase.PocketBase, collection string, fields map[string]any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		t.Fatalf("failed to find %s collection: %v", collection, err)
	}

	record := core.NewRecord(col)
	for k, v := range fields {
		record.Set(k, v)
	}
	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test %s record: %v", collection, err)
	}
	return record
}

// CreateTestMaterial creates an active catalog row.
func CreateTestMaterial(t *testing.T, app *pocketbase.PocketBase, material string, basePrice float64) *core.Record {
	t.Helper()
	return saveRecord(t, app, "materials", map[string]any{
		"material":   material,
		"thickness":  "1.5",
		"grade":      "Standard",
		"base_price": basePrice,
		"status":     "Active",
	})
}

// CreateTestInquiry creates a pending inquiry.
func CreateTestInquiry(t *testing.T, app *pocketbase.PocketBase, inquiryNumber string) *core.Record {
	t.Helper()
	return saveRecord(t, app, "inquiries", map[string]any{
		"inquiry_number":      inquiryNumber,
		"customer_first_name": "Jamie",
		"customer_last_name":  "Rivera",
		"company_name":        "Rivera Fabrication",
		"email":               "jamie@example.com",
		"status":              "pending",
	})
}

// CreateTestInquiryPart adds a part line to an inquiry.
func CreateTestInquiryPart(t *testing.T, app *pocketbase.PocketBase, inquiryID string, sortOrder int, partRef, material string, quantity int) *core.Record {
	t.Helper()
	return saveRecord(t, app, "inquiry_parts", map[string]any{
		"inquiry":    inquiryID,
		"sort_order": sortOrder,
		"part_ref":   partRef,
		"material":   material,
		"thickness":  "1.5",
		"quantity":   quantity,
	})
}

// CreateTestQuotation creates a manual-priced quotation for an inquiry.
func CreateTestQuotation(t *testing.T, app *pocketbase.PocketBase, inquiryID, quotationNumber, status string, total float64) *core.Record {
	t.Helper()
	return saveRecord(t, app, "quotations", map[string]any{
		"inquiry":          inquiryID,
		"inquiries":        []string{inquiryID},
		"quotation_number": quotationNumber,
		"status":           status,
		"pricing_mode":     "manual",
		"total_amount":     total,
		"terms":            "Net 30",
	})
}

// CreateTestQuotationPart adds a priced line to a quotation.
func CreateTestQuotationPart(t *testing.T, app *pocketbase.PocketBase, quotationID string, sortOrder int, partRef, material string, quantity int, unitPrice float64) *core.Record {
	t.Helper()
	return saveRecord(t, app, "quotation_parts", map[string]any{
		"quotation":   quotationID,
		"sort_order":  sortOrder,
		"part_ref":    partRef,
		"material":    material,
		"thickness":   "1.5",
		"quantity":    quantity,
		"unit_price":  unitPrice,
		"total_price": unitPrice * float64(quantity),
	})
}

// CreateTestOrder creates an order for a quotation.
func CreateTestOrder(t *testing.T, app *pocketbase.PocketBase, quotationID, orderNumber, status string) *core.Record {
	t.Helper()
	return saveRecord(t, app, "orders", map[string]any{
		"quotation":    quotationID,
		"order_number": orderNumber,
		"status":       status,
		"total_amount": 100,
	})
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
