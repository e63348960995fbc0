package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"sheetquote/services"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, "\"", "")
	return s
}

// writeDownload sends b as a file attachment.
func writeDownload(e *core.RequestEvent, contentType, filename string, b []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, sanitizeFilename(filename)))
	e.Response.WriteHeader(http.StatusOK)
	_, err := e.Response.Write(b)
	return err
}

func (d *Deps) exportData(e *core.RequestEvent, logPrefix string) (*services.QuotationExportData, error) {
	id := e.Request.PathValue("id")
	if id == "" {
		return nil, e.String(http.StatusBadRequest, "Missing quotation ID")
	}
	data, err := services.BuildQuotationExportData(d.App, id, d.Config.Quote.CurrencySymbol)
	if err != nil {
		log.Printf("%s: %v", logPrefix, err)
		return nil, e.String(http.StatusNotFound, "Quotation not found")
	}
	return data, nil
}

// HandleQuotationExportExcel downloads a quotation as an Excel workbook.
// Route: GET /quotations/{id}/export/excel
func HandleQuotationExportExcel(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := d.exportData(e, "export_excel")
		if data == nil {
			return err
		}

		xlsxBytes, err := services.GenerateQuotationExcel(*data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		return writeDownload(e, xlsxContentType, data.QuotationNumber+".xlsx", xlsxBytes)
	}
}

// HandleQuotationExportPDF downloads a quotation as a PDF.
// Route: GET /quotations/{id}/export/pdf
func HandleQuotationExportPDF(d *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := d.exportData(e, "export_pdf")
		if data == nil {
			return err
		}

		pdfBytes, err := services.GenerateQuotationPDF(*data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		return writeDownload(e, pdfContentType, data.QuotationNumber+".pdf", pdfBytes)
	}
}
