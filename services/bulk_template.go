package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateBulkPricingTemplate builds a bulk pricing workbook pre-filled with
// the draft's part references and materials; staff only add prices.
func GenerateBulkPricingTemplate(parts []PartLine) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Pricing"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})

	headers := []string{"partRef", "material", "unitPrice"}
	cols := columnLetters(len(headers))
	for i, h := range headers {
		cell := cols[i] + "1"
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	f.SetColWidth(sheetName, "A", "A", 22)
	f.SetColWidth(sheetName, "B", "B", 22)
	f.SetColWidth(sheetName, "C", "C", 14)

	for i, p := range parts {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheetName, "A"+row, sanitizeExcelCell(p.PartRef))
		f.SetCellValue(sheetName, "B"+row, sanitizeExcelCell(p.Material))
	}

	addTemplateInstructions(f)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write pricing template: %w", err)
	}
	return buf.Bytes(), nil
}

func addTemplateInstructions(f *excelize.File) {
	sheet := "Instructions"
	f.NewSheet(sheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	f.SetCellValue(sheet, "A1", "Bulk Pricing - Instructions")
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	lines := []string{
		"Keep the header row; it is skipped on import.",
		"partRef and material must match the quotation exactly, including case.",
		"unitPrice is a plain number without currency symbol, e.g. 42.50.",
		"Rows with fewer than three columns are skipped. Unreadable prices import as 0.",
		"If a part appears more than once, the first row wins.",
	}
	for i, l := range lines {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+3), l)
	}
	f.SetColWidth(sheet, "A", "A", 80)
}

// GenerateIssueReport writes the problems found while reading a pricing
// file as a downloadable .xlsx.
func GenerateIssueReport(issues []ParseError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Issues"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Value")
	f.SetCellValue(sheet, "D1", "Problem")
	f.SetCellStyle(sheet, "A1", "D1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 16)
	f.SetColWidth(sheet, "C", "C", 20)
	f.SetColWidth(sheet, "D", "D", 55)

	for i, e := range issues {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Value))
		f.SetCellValue(sheet, "D"+row, e.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write issue report: %w", err)
	}
	return buf.Bytes(), nil
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}
