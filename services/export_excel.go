package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// GenerateQuotationExcel writes a quotation as a single-sheet workbook and
// returns the file contents.
func GenerateQuotationExcel(data QuotationExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet names are limited to 31 characters.
	sheetName := data.QuotationNumber
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Quotation"
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	lastCol := columns[len(columns)-1]

	widths := []float64{5, 18, 20, 12, 8, 14, 14, 30}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	lineStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create line style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header rows ────────────────────────────────────────────────────

	title := "Quotation " + data.QuotationNumber
	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	info := []string{
		"Customer: " + strings.TrimSpace(data.CustomerName+" "+companySuffix(data.CompanyName)),
		"Inquiries: " + strings.Join(data.InquiryNumbers, ", "),
		"Date: " + data.CreatedDate + "    Valid until: " + data.ValidUntil,
		"Pricing: " + data.PricingMode.Label(),
	}
	for i, line := range info {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.MergeCell(sheetName, cell, fmt.Sprintf("%s%d", lastCol, i+2)); err != nil {
			return nil, fmt.Errorf("merge info row: %w", err)
		}
		f.SetCellValue(sheetName, cell, sanitizeExcelCell(line))
		f.SetCellStyle(sheetName, cell, cell, subtitleStyle)
	}

	// ── Column headers (row 7) ─────────────────────────────────────────

	row := 7
	if !data.TotalOnly() {
		headers := []string{"#", "Part Ref", "Material", "Thickness", "Qty", "Unit Price", "Total", "Remarks"}
		for i, h := range headers {
			f.SetCellValue(sheetName, fmt.Sprintf("%s%d", columns[i], row), h)
		}
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), headerStyle)
		row++

		for _, r := range data.Rows {
			rowStr := fmt.Sprintf("%d", row)
			f.SetCellValue(sheetName, "A"+rowStr, r.Index)
			f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(r.PartRef))
			f.SetCellValue(sheetName, "C"+rowStr, sanitizeExcelCell(r.Material))
			f.SetCellValue(sheetName, "D"+rowStr, sanitizeExcelCell(r.Thickness+" mm"))
			f.SetCellValue(sheetName, "E"+rowStr, r.Quantity)
			f.SetCellValue(sheetName, "F"+rowStr, FormatMoney(data.Currency, r.UnitPrice))
			f.SetCellValue(sheetName, "G"+rowStr, FormatMoney(data.Currency, r.TotalPrice))
			f.SetCellValue(sheetName, "H"+rowStr, sanitizeExcelCell(r.Remarks))
			f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, lineStyle)
			row++
		}
		row++
	} else if data.UploadedFile != "" {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), sanitizeExcelCell("Quoted from uploaded file: "+data.UploadedFile))
		row += 2
	}

	// ── Summary ────────────────────────────────────────────────────────

	summaryRow := fmt.Sprintf("%d", row)
	f.SetCellValue(sheetName, "F"+summaryRow, "Total:")
	f.SetCellStyle(sheetName, "F"+summaryRow, "F"+summaryRow, summaryLabelStyle)
	f.SetCellValue(sheetName, "G"+summaryRow, FormatMoney(data.Currency, data.Total))
	f.SetCellStyle(sheetName, "G"+summaryRow, "G"+summaryRow, summaryValueStyle)
	row += 2

	if data.Terms != "" {
		cell := fmt.Sprintf("A%d", row)
		f.MergeCell(sheetName, cell, fmt.Sprintf("%s%d", lastCol, row))
		f.SetCellValue(sheetName, cell, sanitizeExcelCell("Terms: "+data.Terms))
		row++
	}
	if data.Notes != "" {
		cell := fmt.Sprintf("A%d", row)
		f.MergeCell(sheetName, cell, fmt.Sprintf("%s%d", lastCol, row))
		f.SetCellValue(sheetName, cell, sanitizeExcelCell("Notes: "+data.Notes))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

func companySuffix(company string) string {
	if company == "" {
		return ""
	}
	return "(" + company + ")"
}

// sanitizeExcelCell prefixes values Excel would read as a formula with a
// single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1,
		}
	}
	return borders
}
