package handlers

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"sheetquote/testhelpers"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces to hyphens", "My Quote File", "My-Quote-File"},
		{"slashes to hyphens", "path/to/file", "path-to-file"},
		{"backslashes", "path\\to\\file", "path-to-file"},
		{"colons", "file:name", "file-name"},
		{"quotes dropped", `a"b`, "ab"},
		{"mixed", "A / B \\ C : D", "A---B---C---D"},
		{"no special chars", "QT-25-26-001.pdf", "QT-25-26-001.pdf"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeFilename(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func exportFixture(t *testing.T, d *Deps) string {
	t.Helper()
	inq := testhelpers.CreateTestInquiry(t, d.App, "INQ-E1")
	q := testhelpers.CreateTestQuotation(t, d.App, inq.Id, "QT-25-26-021", "sent", 75)
	testhelpers.CreateTestQuotationPart(t, d.App, q.Id, 1, "BRK-1", "Zintec", 3, 25)
	return q.Id
}

func TestHandleQuotationExportExcel(t *testing.T) {
	d := newTestDeps(t)
	id := exportFixture(t, d)

	rec := serve(t, d, HandleQuotationExportExcel(d), newRequest(http.MethodGet, "/", nil, false), "id", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="QT-25-26-021.xlsx"` {
		t.Errorf("Content-Disposition = %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	title, _ := f.GetCellValue("QT-25-26-021", "A1")
	if title != "Quotation QT-25-26-021" {
		t.Errorf("A1 = %q", title)
	}
	part, _ := f.GetCellValue("QT-25-26-021", "B8")
	if part != "BRK-1" {
		t.Errorf("B8 = %q, want BRK-1", part)
	}
}

func TestHandleQuotationExportPDF(t *testing.T) {
	d := newTestDeps(t)
	id := exportFixture(t, d)

	rec := serve(t, d, HandleQuotationExportPDF(d), newRequest(http.MethodGet, "/", nil, false), "id", id)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("body is not a PDF")
	}
}

func TestHandleQuotationExport_NotFound(t *testing.T) {
	d := newTestDeps(t)
	rec := serve(t, d, HandleQuotationExportPDF(d), newRequest(http.MethodGet, "/", nil, false), "id", "missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("pdf: status = %d, want 404", rec.Code)
	}
	rec = serve(t, d, HandleQuotationExportExcel(d), newRequest(http.MethodGet, "/", nil, false), "id", "missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("excel: status = %d, want 404", rec.Code)
	}
}
