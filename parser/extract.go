package parser

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Workbook is the decoded, format-agnostic view of an uploaded
// spreadsheet: sheet names plus rectangular grids of stringified cells.
type Workbook struct {
	Sheets []Sheet
}

// Sheet is one worksheet's raw cell grid.
type Sheet struct {
	Name string
	Rows [][]string
}

// Rows returns the cell grid for the named sheet, or nil.
func (wb *Workbook) Rows(sheetName string) [][]string {
	for _, s := range wb.Sheets {
		if s.Name == sheetName {
			return s.Rows
		}
	}
	return nil
}

// ReadWorkbook decodes workbook bytes into a Workbook. A decode failure
// is the one hard error in the whole pipeline: an unreadable file has no
// partial result.
func ReadWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("decode workbook: %w", err)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: rows})
	}
	return wb, nil
}

// Parse runs the standard extraction strategy over every in-scope sheet.
// It never fails: sheets that yield nothing produce sections with
// confidence "failed" for the caller to retry or correct.
func Parse(wb *Workbook, opts Options) *ParseResult {
	result := &ParseResult{RunID: uuid.NewString()}
	seen := map[string]int{}

	for _, sheet := range wb.Sheets {
		cls := ClassifySheet(sheet.Name, opts)
		if cls.Skip {
			continue
		}

		// Section codes must be unique within one parse. Duplicate
		// worksheet numbering gets a positional suffix.
		seen[cls.SectionCode]++
		if n := seen[cls.SectionCode]; n > 1 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("duplicate section code %q on sheet %q", cls.SectionCode, sheet.Name))
			cls.SectionCode = fmt.Sprintf("%s-%d", cls.SectionCode, n)
		}

		sec := parseSheet(cls, sheet.Rows, opts)
		result.Sections = append(result.Sections, sec)
	}

	result.Bills = groupBills(result.Sections)
	return result
}

// parseSheet applies header detection, row classification and P&A
// propagation to one sheet. A missing header row yields a zero-item
// section scored "failed".
func parseSheet(cls SheetClass, rows [][]string, opts Options) *ParsedSection {
	sec := &ParsedSection{
		SectionCode:       cls.SectionCode,
		SectionName:       cls.SectionName,
		SheetName:         cls.SheetName,
		BillNumber:        cls.BillNumber,
		BillName:          cls.BillName,
		ParseAttempts:     1,
		LastParseStrategy: StrategyStandard,
	}

	cols, ok := DetectColumns(rows, opts.headerScanRows())
	if !ok {
		sec.Confidence = ConfidenceFailed
		return sec
	}

	for r := cols.HeaderRow + 1; r < len(rows); r++ {
		row := rows[r]

		code := cleanItemCode(cellAt(row, cols.ItemCode))
		desc := strings.TrimSpace(cellAt(row, cols.Description))

		if code == "" && desc == "" {
			continue
		}
		if isTotalRow(code, desc) {
			continue
		}

		if matchesAny(ProfitAttendancePatterns, desc) {
			applyProfitAttendance(sec.Items, desc, ParseNumber(cellAt(row, cols.Quantity)))
			continue
		}

		item := buildItem(r, code, desc, row, cols)
		item.ProvenanceID = fmt.Sprintf("%s!%d", cls.SheetName, r+1)
		item.SectionCode = sec.SectionCode
		item.SectionName = sec.SectionName
		item.BillNumber = sec.BillNumber
		item.BillName = sec.BillName

		if item.RowType != RowTypeHeader {
			sec.BOQTotal += item.Amount
		}
		sec.Items = append(sec.Items, item)
	}

	sec.ItemCount = len(sec.Items)
	sec.Confidence = Score(sec.Items, sec.BOQTotal)
	return sec
}

// buildItem normalizes one data row into a ParsedItem using the detected
// column map.
func buildItem(rowIndex int, code, desc string, row []string, cols ColumnMap) ParsedItem {
	item := ParsedItem{
		RowIndex:    rowIndex,
		ItemCode:    code,
		Description: desc,
		Unit:        strings.TrimSpace(cellAt(row, cols.Unit)),
		Quantity:    ParseNumber(cellAt(row, cols.Quantity)),
		SupplyRate:  ParseNumber(cellAt(row, cols.SupplyRate)),
		InstallRate: ParseNumber(cellAt(row, cols.InstallRate)),
	}

	rate := ParseNumber(cellAt(row, cols.Rate))
	if rate > 0 {
		item.TotalRate = rate
	} else {
		item.TotalRate = item.SupplyRate + item.InstallRate
	}

	// Prefer the worksheet's own amount column; derive only when it is
	// absent or blank.
	amount := ParseNumber(cellAt(row, cols.Amount))
	if amount == 0 {
		amount = item.Quantity * item.TotalRate
	}
	item.Amount = amount

	item.RowType = classifyRow(item)

	if item.RowType == RowTypeItem && isPrimeCost(code, desc) {
		item.IsPrimeCost = true
	}
	return item
}

// classifyRow assigns a row purpose, first match wins:
//
//	header      single-letter(+digit) code, all-caps description, no unit
//	description no code, no quantity, no amount, narrative text
//	subheader   letter+dotted-numeric code, no unit, no quantity
//	item        everything else
func classifyRow(item ParsedItem) RowType {
	switch {
	case headerCodePattern.MatchString(item.ItemCode) &&
		item.Description != "" &&
		isAllUpper(item.Description) &&
		item.Unit == "":
		return RowTypeHeader
	case item.ItemCode == "" && item.Quantity == 0 && item.Amount == 0:
		return RowTypeDescription
	case subheaderCodePattern.MatchString(item.ItemCode) &&
		item.Unit == "" &&
		item.Quantity == 0:
		return RowTypeSubheader
	default:
		return RowTypeItem
	}
}

// isPrimeCost reports whether a row carries a Prime Cost / Provisional
// Sum allowance. The exclusion list suppresses preliminaries text that
// shares the same vocabulary.
func isPrimeCost(code, desc string) bool {
	if matchesAny(PrimeCostExclusions, desc) {
		return false
	}
	return matchesAny(PrimeCostPatterns, desc) || matchesAny(PrimeCostPatterns, code)
}

// applyProfitAttendance writes a P&A percentage onto the Prime Cost item
// the row references. An explicit item-code backreference wins; failing
// that the nearest preceding Prime Cost item takes the percentage
// (backward index scan, most recent first).
func applyProfitAttendance(items []ParsedItem, desc string, quantity float64) {
	pct, ok := ParsePercent(desc)
	if !ok {
		// Some authors put the percentage in the quantity column
		// instead of the text.
		if quantity > 0 && quantity <= 100 {
			pct = quantity
		} else {
			return
		}
	}

	if m := paCodeRefPattern.FindStringSubmatch(desc); m != nil {
		ref := strings.ToUpper(m[1])
		for i := len(items) - 1; i >= 0; i-- {
			if items[i].IsPrimeCost && strings.ToUpper(items[i].ItemCode) == ref {
				items[i].ProfitAttendancePct = pct
				return
			}
		}
	}

	for i := len(items) - 1; i >= 0; i-- {
		if items[i].IsPrimeCost {
			items[i].ProfitAttendancePct = pct
			return
		}
	}
}

// cleanItemCode trims a raw code cell and clears codes that do not start
// with a letter; numeric noise in the code column is not an item code.
func cleanItemCode(raw string) string {
	code := strings.TrimSpace(raw)
	if code == "" {
		return ""
	}
	if !itemCodePattern.MatchString(code) {
		return ""
	}
	return code
}

func isTotalRow(code, desc string) bool {
	return matchesAny(TotalRowPatterns, code) || matchesAny(TotalRowPatterns, desc)
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// groupBills assembles sections into bills ordered by bill number, with
// sections in natural section-code order inside each bill.
func groupBills(sections []*ParsedSection) []*Bill {
	byNumber := map[int]*Bill{}
	for _, sec := range sections {
		bill, ok := byNumber[sec.BillNumber]
		if !ok {
			bill = &Bill{BillNumber: sec.BillNumber, BillName: sec.BillName}
			byNumber[sec.BillNumber] = bill
		}
		bill.Sections = append(bill.Sections, sec)
	}

	bills := make([]*Bill, 0, len(byNumber))
	for _, bill := range byNumber {
		SortSections(bill.Sections)
		bills = append(bills, bill)
	}
	sort.Slice(bills, func(i, j int) bool {
		return bills[i].BillNumber < bills[j].BillNumber
	})
	return bills
}
