package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateLedgerExcel renders a project's normalized ledger as an Excel
// workbook: one sheet per bill, sections with their items, and a totals
// block including the parser's stated total so import discrepancies stay
// visible. Returns the file contents as a byte slice.
func GenerateLedgerExcel(export *LedgerExport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	columns := []string{"A", "B", "C", "D", "E", "F", "G"}
	lastCol := columns[len(columns)-1]
	widths := []float64{10, 46, 8, 10, 14, 14, 18}

	styles, err := newExportStyles(f)
	if err != nil {
		return nil, err
	}

	for i, bill := range export.Bills {
		sheetName := sheetNameForBill(bill)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
				return nil, fmt.Errorf("set sheet name: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheetName); err != nil {
				return nil, fmt.Errorf("new sheet %q: %w", sheetName, err)
			}
		}

		for c, col := range columns {
			if err := f.SetColWidth(sheetName, col, col, widths[c]); err != nil {
				return nil, fmt.Errorf("set col width %s: %w", col, err)
			}
		}

		if err := writeBillSheet(f, sheetName, bill, export.ProjectName, columns, lastCol, styles); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

type exportStyles struct {
	title        int
	columnHeader int
	sectionRow   int
	headerRow    int
	itemRow      int
	summaryLabel int
	summaryValue int
}

func newExportStyles(f *excelize.File) (*exportStyles, error) {
	s := &exportStyles{}
	var err error

	s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	s.columnHeader, err = f.NewStyle(&excelize.Style{
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

	s.sectionRow, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 12},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#DDDDDD"}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create section style: %w", err)
	}

	s.headerRow, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header row style: %w", err)
	}

	s.itemRow, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item row style: %w", err)
	}

	s.summaryLabel, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	s.summaryValue, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	return s, nil
}

func writeBillSheet(f *excelize.File, sheetName string, bill ExportBill, projectName string, columns []string, lastCol string, styles *exportStyles) error {
	// Row 1: bill title merged across all columns.
	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return fmt.Errorf("merge title: %w", err)
	}
	title := fmt.Sprintf("Bill %d", bill.BillNumber)
	if bill.BillName != "" {
		title = bill.BillName
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(projectName+" - "+title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", styles.title)

	// Row 3: column headers.
	headers := []string{"Item", "Description", "Unit", "Qty", "Supply Rate", "Install Rate", "Amount"}
	for c, h := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s3", columns[c]), h)
	}
	f.SetCellStyle(sheetName, "A3", lastCol+"3", styles.columnHeader)

	row := 4
	for _, sec := range bill.Sections {
		rowStr := fmt.Sprintf("%d", row)
		if err := f.MergeCell(sheetName, "A"+rowStr, lastCol+rowStr); err != nil {
			return fmt.Errorf("merge section row: %w", err)
		}
		f.SetCellValue(sheetName, "A"+rowStr,
			sanitizeExcelCell(sec.SectionCode+"  "+sec.SectionName))
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, styles.sectionRow)
		row++

		for _, item := range sec.Items {
			rowStr = fmt.Sprintf("%d", row)
			f.SetCellValue(sheetName, "A"+rowStr, sanitizeExcelCell(item.ItemCode))
			f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(item.Description))
			f.SetCellValue(sheetName, "C"+rowStr, sanitizeExcelCell(item.Unit))
			if item.RowType == "item" {
				f.SetCellValue(sheetName, "D"+rowStr, item.Quantity)
				if item.SupplyRate != 0 {
					f.SetCellValue(sheetName, "E"+rowStr, FormatRand(item.SupplyRate))
				}
				if item.InstallRate != 0 {
					f.SetCellValue(sheetName, "F"+rowStr, FormatRand(item.InstallRate))
				}
				f.SetCellValue(sheetName, "G"+rowStr, FormatRand(item.Amount))
			}

			style := styles.itemRow
			if item.RowType == "header" || item.RowType == "subheader" {
				style = styles.headerRow
			}
			f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, style)
			row++
		}

		// Section totals, with the BOQ's stated figure alongside the
		// rebuilt one when they disagree.
		rowStr = fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "F"+rowStr, "Section total:")
		f.SetCellStyle(sheetName, "F"+rowStr, "F"+rowStr, styles.summaryLabel)
		f.SetCellValue(sheetName, "G"+rowStr, FormatRand(sec.ContractTotal))
		f.SetCellStyle(sheetName, "G"+rowStr, "G"+rowStr, styles.summaryValue)
		row++

		if sec.BOQStatedTotal != 0 && sec.BOQStatedTotal != sec.ContractTotal {
			rowStr = fmt.Sprintf("%d", row)
			f.SetCellValue(sheetName, "F"+rowStr, "BOQ stated:")
			f.SetCellStyle(sheetName, "F"+rowStr, "F"+rowStr, styles.summaryLabel)
			f.SetCellValue(sheetName, "G"+rowStr, FormatRand(sec.BOQStatedTotal))
			f.SetCellStyle(sheetName, "G"+rowStr, "G"+rowStr, styles.summaryValue)
			row++
		}
		row++
	}

	// Bill total.
	rowStr := fmt.Sprintf("%d", row)
	f.SetCellValue(sheetName, "F"+rowStr, "Bill total:")
	f.SetCellStyle(sheetName, "F"+rowStr, "F"+rowStr, styles.summaryLabel)
	f.SetCellValue(sheetName, "G"+rowStr, FormatRand(bill.ContractTotal))
	f.SetCellStyle(sheetName, "G"+rowStr, "G"+rowStr, styles.summaryValue)

	return nil
}

// sheetNameForBill builds a sheet name within Excel's 31-char limit.
func sheetNameForBill(bill ExportBill) string {
	name := fmt.Sprintf("Bill %d", bill.BillNumber)
	if bill.BillName != "" && bill.BillName != name {
		name = fmt.Sprintf("Bill %d - %s", bill.BillNumber, bill.BillName)
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
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

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
