package parser

import (
	"fmt"
	"strings"
)

// Positional fallback column layout. Workbooks that defeat header
// detection are almost always laid out this way.
const (
	fallbackItemCodeCol    = 0
	fallbackDescriptionCol = 1
	fallbackUnitCol        = 2
	fallbackQuantityCol    = 3
	fallbackFirstAmountCol = 4
)

// RetrySection re-parses one section with the positional fallback
// strategy. The fallback result is adopted only when it strictly
// improves the item count; otherwise the previous result survives with
// its attempt counter bumped. Either way the returned section is a new
// value; prior results are never mutated.
func RetrySection(wb *Workbook, prev *ParsedSection) *ParsedSection {
	rows := wb.Rows(prev.SheetName)

	alt := parseSheetPositional(SheetClass{
		SheetName:   prev.SheetName,
		BillNumber:  prev.BillNumber,
		BillName:    prev.BillName,
		SectionCode: prev.SectionCode,
		SectionName: prev.SectionName,
	}, rows)

	if len(alt.Items) > len(prev.Items) {
		alt.ParseAttempts = prev.ParseAttempts + 1
		alt.LastParseStrategy = StrategyAlternative
		return alt
	}

	kept := *prev
	kept.Items = append([]ParsedItem(nil), prev.Items...)
	kept.ParseAttempts = prev.ParseAttempts + 1
	return &kept
}

// parseSheetPositional extracts items assuming fixed columns: code,
// description, unit, quantity, then amount as the first positive value
// scanning in from the rightmost column. No header detection: the first
// row with a letter-leading code and a substantial description starts
// the data.
func parseSheetPositional(cls SheetClass, rows [][]string) *ParsedSection {
	sec := &ParsedSection{
		SectionCode:       cls.SectionCode,
		SectionName:       cls.SectionName,
		SheetName:         cls.SheetName,
		BillNumber:        cls.BillNumber,
		BillName:          cls.BillName,
		ParseAttempts:     1,
		LastParseStrategy: StrategyAlternative,
	}

	start := findPositionalStart(rows)
	if start < 0 {
		sec.Confidence = ConfidenceFailed
		return sec
	}

	for r := start; r < len(rows); r++ {
		row := rows[r]

		code := cleanItemCode(cellAt(row, fallbackItemCodeCol))
		desc := strings.TrimSpace(cellAt(row, fallbackDescriptionCol))

		if code == "" && desc == "" {
			continue
		}
		if isTotalRow(code, desc) {
			continue
		}
		if matchesAny(ProfitAttendancePatterns, desc) {
			applyProfitAttendance(sec.Items, desc, ParseNumber(cellAt(row, fallbackQuantityCol)))
			continue
		}

		item := ParsedItem{
			RowIndex:     r,
			ProvenanceID: fmt.Sprintf("%s!%d", cls.SheetName, r+1),
			ItemCode:     code,
			Description:  desc,
			Unit:         strings.TrimSpace(cellAt(row, fallbackUnitCol)),
			Quantity:     ParseNumber(cellAt(row, fallbackQuantityCol)),
			Amount:       rightmostAmount(row),
			SectionCode:  sec.SectionCode,
			SectionName:  sec.SectionName,
			BillNumber:   sec.BillNumber,
			BillName:     sec.BillName,
		}
		item.RowType = classifyRow(item)
		if item.RowType == RowTypeItem && isPrimeCost(code, desc) {
			item.IsPrimeCost = true
		}

		if item.RowType != RowTypeHeader {
			sec.BOQTotal += item.Amount
		}
		sec.Items = append(sec.Items, item)
	}

	sec.ItemCount = len(sec.Items)
	sec.Confidence = Score(sec.Items, sec.BOQTotal)
	return sec
}

// findPositionalStart locates the first plausible data row: a
// letter-leading item code next to a description longer than five
// characters.
func findPositionalStart(rows [][]string) int {
	for r, row := range rows {
		code := cleanItemCode(cellAt(row, fallbackItemCodeCol))
		desc := strings.TrimSpace(cellAt(row, fallbackDescriptionCol))
		if code != "" && len(desc) > 5 {
			return r
		}
	}
	return -1
}

// rightmostAmount scans from the rightmost column inward and returns the
// first positive numeric value at or beyond the amount region.
func rightmostAmount(row []string) float64 {
	for c := len(row) - 1; c >= fallbackFirstAmountCol; c-- {
		if v := ParseNumber(row[c]); v > 0 {
			return v
		}
	}
	return 0
}
