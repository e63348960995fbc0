package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	pdfMuted     = &props.Color{Red: 80, Green: 80, Blue: 80}
	pdfFaint     = &props.Color{Red: 140, Green: 140, Blue: 140}
	pdfHeaderBg  = &props.Color{Red: 33, Green: 37, Blue: 41}
	pdfStripeBg  = &props.Color{Red: 245, Green: 245, Blue: 245}
	pdfSummaryBg = &props.Color{Red: 240, Green: 240, Blue: 240}
)

// GenerateQuotationPDF renders a quotation as an A4 portrait PDF.
func GenerateQuotationPDF(data QuotationExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   pdfFaint,
		}).
		Build()

	m := maroto.New(cfg)

	addQuotationHeader(m, data)
	if data.TotalOnly() {
		addUploadedTotalNote(m, data)
	} else {
		addPartsTableHeader(m)
		for i, r := range data.Rows {
			addPartsTableRow(m, data.Currency, r, i%2 == 1)
		}
	}
	addQuotationSummary(m, data)
	addQuotationTerms(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

func addQuotationHeader(m core.Maroto, data QuotationExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New("Quotation "+data.QuotationNumber, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	customer := data.CustomerName
	if data.CompanyName != "" {
		customer = strings.TrimSpace(customer + " (" + data.CompanyName + ")")
	}
	muted := props.Text{Size: 9, Align: align.Left, Color: pdfMuted}
	mutedRight := muted
	mutedRight.Align = align.Right

	m.AddRows(
		row.New(6).Add(
			col.New(7).Add(text.New("Customer: "+customer, muted)),
			col.New(5).Add(text.New("Date: "+data.CreatedDate, mutedRight)),
		),
		row.New(6).Add(
			col.New(7).Add(text.New("Inquiries: "+strings.Join(data.InquiryNumbers, ", "), muted)),
			col.New(5).Add(text.New("Valid until: "+data.ValidUntil, mutedRight)),
		),
		row.New(6).Add(
			col.New(12).Add(text.New("Pricing: "+data.PricingMode.Label(), muted)),
		),
	)

	m.AddRows(row.New(4))
}

func addPartsTableHeader(m core.Maroto) {
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	cell := props.Cell{BackgroundColor: pdfHeaderBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerText)).WithStyle(&cell),
			col.New(2).Add(text.New("Part Ref", headerTextLeft)).WithStyle(&cell),
			col.New(2).Add(text.New("Material", headerTextLeft)).WithStyle(&cell),
			col.New(1).Add(text.New("mm", headerText)).WithStyle(&cell),
			col.New(1).Add(text.New("Qty", headerText)).WithStyle(&cell),
			col.New(2).Add(text.New("Unit Price", headerText)).WithStyle(&cell),
			col.New(3).Add(text.New("Total", headerText)).WithStyle(&cell),
		),
	)
}

func addPartsTableRow(m core.Maroto, currency string, r QuotationExportRow, striped bool) {
	base := props.Text{Size: 8, Align: align.Center}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right

	cols := []core.Col{
		col.New(1).Add(text.New(strconv.Itoa(r.Index), base)),
		col.New(2).Add(text.New(r.PartRef, left)),
		col.New(2).Add(text.New(r.Material, left)),
		col.New(1).Add(text.New(r.Thickness, base)),
		col.New(1).Add(text.New(strconv.Itoa(r.Quantity), right)),
		col.New(2).Add(text.New(FormatMoney(currency, r.UnitPrice), right)),
		col.New(3).Add(text.New(FormatMoney(currency, r.TotalPrice), right)),
	}
	if striped {
		cell := &props.Cell{BackgroundColor: pdfStripeBg}
		for i := range cols {
			cols[i] = cols[i].WithStyle(cell)
		}
	}
	m.AddRows(row.New(7).Add(cols...))

	if r.Remarks != "" {
		m.AddRows(
			row.New(5).Add(
				col.New(1),
				col.New(11).Add(text.New(r.Remarks, props.Text{Size: 7, Style: fontstyle.Italic, Color: pdfMuted})),
			),
		)
	}
}

func addUploadedTotalNote(m core.Maroto, data QuotationExportData) {
	note := "Total supplied for the whole quotation."
	if data.UploadedFile != "" {
		note = "Total taken from uploaded quotation " + data.UploadedFile + "."
	}
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(text.New(note, props.Text{Size: 9, Color: pdfMuted})),
		),
	)
}

func addQuotationSummary(m core.Maroto, data QuotationExportData) {
	m.AddRows(row.New(6))

	cell := &props.Cell{BackgroundColor: pdfSummaryBg}
	bold := props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}

	m.AddRows(
		row.New(9).Add(
			col.New(8).Add(text.New("Total Amount", bold)).WithStyle(cell),
			col.New(4).Add(text.New(FormatMoney(data.Currency, data.Total), bold)).WithStyle(cell),
		),
	)
}

func addQuotationTerms(m core.Maroto, data QuotationExportData) {
	small := props.Text{Size: 8, Align: align.Left, Color: pdfMuted}
	if data.Terms != "" {
		m.AddRows(row.New(6))
		m.AddRows(row.New(10).Add(col.New(12).Add(text.New("Terms: "+data.Terms, small))))
	}
	if data.Notes != "" {
		m.AddRows(row.New(10).Add(col.New(12).Add(text.New("Notes: "+data.Notes, small))))
	}
}
