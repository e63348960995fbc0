package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseBulkPricing(t *testing.T) {
	input := strings.Join([]string{
		"partRef,material,unitPrice",
		"P1, Steel ,42.5",
		"P2,Copper",
		"",
		"P3,Brass,abc",
		"  P4  ,Iron,  10 ",
		"P5,Zintec,3,extra",
	}, "\n")

	res, err := ParseBulkPricing(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseBulkPricing() error = %v", err)
	}

	want := []BulkPricingEntry{
		{PartRef: "P1", Material: "Steel", UnitPrice: dec("42.5")},
		{PartRef: "P3", Material: "Brass", UnitPrice: dec("0")},
		{PartRef: "P4", Material: "Iron", UnitPrice: dec("10")},
		{PartRef: "P5", Material: "Zintec", UnitPrice: dec("3")},
	}
	if len(res.Entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(res.Entries), len(want), res.Entries)
	}
	for i, w := range want {
		got := res.Entries[i]
		if got.PartRef != w.PartRef || got.Material != w.Material || !got.UnitPrice.Equal(w.UnitPrice) {
			t.Errorf("entry %d = %+v, want %+v", i, got, w)
		}
	}

	// The short row and the unreadable price are reported; the blank line is not.
	if len(res.Issues) != 2 {
		t.Fatalf("got %d issues, want 2: %+v", len(res.Issues), res.Issues)
	}
	if res.Issues[0].Row != 3 {
		t.Errorf("short row issue on row %d, want 3", res.Issues[0].Row)
	}
	if res.Issues[1].Field != "unit price" || res.Issues[1].Value != "abc" {
		t.Errorf("price issue = %+v", res.Issues[1])
	}
}

func TestParseBulkPricing_HeaderOnly(t *testing.T) {
	res, err := ParseBulkPricing(strings.NewReader("partRef,material,unitPrice\n"))
	if err != nil {
		t.Fatalf("ParseBulkPricing() error = %v", err)
	}
	if len(res.Entries) != 0 || len(res.Issues) != 0 {
		t.Errorf("expected nothing parsed, got %+v", res)
	}
}

func TestParseBulkPricing_FirstLineAlwaysHeader(t *testing.T) {
	res, _ := ParseBulkPricing(strings.NewReader("P1,Steel,5\nP2,Steel,6\n"))
	if len(res.Entries) != 1 || res.Entries[0].PartRef != "P2" {
		t.Errorf("first line should be discarded as header, got %+v", res.Entries)
	}
}

func TestParseBulkPricingFile_Excel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"partRef", "material", "unitPrice"},
		{"P1", "Steel", "42.5"},
		{"P2", "Copper"},
		{"P3", "Brass", 12},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		f.SetSheetRow(sheet, cell, &r)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	f.Close()

	res, err := ParseBulkPricingFile(&buf, "prices.XLSX")
	if err != nil {
		t.Fatalf("ParseBulkPricingFile() error = %v", err)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(res.Entries), res.Entries)
	}
	if !res.Entries[0].UnitPrice.Equal(dec("42.5")) || !res.Entries[1].UnitPrice.Equal(dec("12")) {
		t.Errorf("entries = %+v", res.Entries)
	}
	if len(res.Issues) != 1 || res.Issues[0].Row != 3 {
		t.Errorf("issues = %+v, want one on row 3", res.Issues)
	}
}

func TestParseBulkPricingFile_CSVByDefault(t *testing.T) {
	res, err := ParseBulkPricingFile(strings.NewReader("h\nP1,Steel,1\n"), "prices.txt")
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if len(res.Entries) != 1 {
		t.Errorf("got %d entries, want 1", len(res.Entries))
	}
}

func TestApplyBulkPricing_ExactMatch(t *testing.T) {
	parts := []PartLine{
		{PartRef: "P1", Material: "Steel", Quantity: 2},
		{PartRef: "P1", Material: "steel", Quantity: 2},
		{PartRef: "P2", Material: "Steel", Quantity: 1, UnitPrice: dec("9"), TotalPrice: dec("9")},
	}
	entries := []BulkPricingEntry{{PartRef: "P1", Material: "Steel", UnitPrice: dec("42.5")}}

	got := ApplyBulkPricing(parts, entries)

	if !got[0].UnitPrice.Equal(dec("42.5")) || !got[0].TotalPrice.Equal(dec("85")) {
		t.Errorf("matched line = %+v, want 42.5 / 85", got[0])
	}
	if !got[1].UnitPrice.IsZero() {
		t.Errorf("case-different material should not match, got %s", got[1].UnitPrice)
	}
	if !got[2].UnitPrice.Equal(dec("9")) {
		t.Errorf("unmatched line changed to %s", got[2].UnitPrice)
	}
	if !parts[0].UnitPrice.IsZero() {
		t.Error("ApplyBulkPricing modified its input")
	}
}

func TestApplyBulkPricing_FirstEntryWins(t *testing.T) {
	parts := []PartLine{{PartRef: "P1", Material: "Steel", Quantity: 1}}
	entries := []BulkPricingEntry{
		{PartRef: "P1", Material: "Steel", UnitPrice: dec("10")},
		{PartRef: "P1", Material: "Steel", UnitPrice: dec("99")},
	}
	got, matched := applyBulkPricing(parts, entries)
	if matched != 1 {
		t.Errorf("matched = %d, want 1", matched)
	}
	if !got[0].UnitPrice.Equal(dec("10")) {
		t.Errorf("UnitPrice = %s, want first entry 10", got[0].UnitPrice)
	}
}
