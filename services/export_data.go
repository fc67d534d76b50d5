package services

import (
	"fmt"
	"sort"

	"github.com/pocketbase/pocketbase/core"

	"boqledger/parser"
)

// ExportItem is one ledger row prepared for export.
type ExportItem struct {
	ItemCode    string
	Description string
	Unit        string
	Quantity    float64
	SupplyRate  float64
	InstallRate float64
	Amount      float64
	RowType     string
	IsPrimeCost bool
	PAPercent   float64
}

// ExportSection is one ledger section prepared for export.
type ExportSection struct {
	SectionCode    string
	SectionName    string
	ContractTotal  float64
	BOQStatedTotal float64
	Items          []ExportItem
}

// ExportBill is one ledger bill prepared for export.
type ExportBill struct {
	BillNumber    int
	BillName      string
	ContractTotal float64
	Sections      []ExportSection
}

// LedgerExport is everything needed to render a project's normalized
// ledger workbook.
type LedgerExport struct {
	ProjectName string
	Bills       []ExportBill
}

// BuildLedgerExport loads a project's bills, sections and items into an
// export snapshot. Sections come out in natural section-code order and
// items in display order.
func BuildLedgerExport(app core.App, projectID string) (*LedgerExport, error) {
	project, err := app.FindRecordById("projects", projectID)
	if err != nil {
		return nil, fmt.Errorf("project %s not found: %w", projectID, err)
	}

	export := &LedgerExport{ProjectName: project.GetString("name")}

	bills, err := app.FindRecordsByFilter("bills", "project = {:project}",
		"bill_number", 0, 0, map[string]any{"project": projectID})
	if err != nil {
		return nil, fmt.Errorf("load bills: %w", err)
	}

	for _, billRec := range bills {
		bill := ExportBill{
			BillNumber:    billRec.GetInt("bill_number"),
			BillName:      billRec.GetString("bill_name"),
			ContractTotal: billRec.GetFloat("contract_total"),
		}

		secRecs, err := app.FindRecordsByFilter("boq_sections", "bill = {:bill}",
			"", 0, 0, map[string]any{"bill": billRec.Id})
		if err != nil {
			return nil, fmt.Errorf("load sections for bill %d: %w", bill.BillNumber, err)
		}
		sort.SliceStable(secRecs, func(i, j int) bool {
			return parser.CompareSectionCodes(
				secRecs[i].GetString("section_code"),
				secRecs[j].GetString("section_code")) < 0
		})

		for _, secRec := range secRecs {
			sec := ExportSection{
				SectionCode:    secRec.GetString("section_code"),
				SectionName:    secRec.GetString("section_name"),
				ContractTotal:  secRec.GetFloat("contract_total"),
				BOQStatedTotal: secRec.GetFloat("boq_stated_total"),
			}

			itemRecs, err := sectionItems(app, secRec.Id)
			if err != nil {
				return nil, err
			}
			for _, rec := range itemRecs {
				sec.Items = append(sec.Items, ExportItem{
					ItemCode:    rec.GetString("item_code"),
					Description: rec.GetString("description"),
					Unit:        rec.GetString("unit"),
					Quantity:    rec.GetFloat("contract_quantity"),
					SupplyRate:  rec.GetFloat("supply_rate"),
					InstallRate: rec.GetFloat("install_rate"),
					Amount:      rec.GetFloat("contract_amount"),
					RowType:     rec.GetString("row_type"),
					IsPrimeCost: rec.GetBool("is_prime_cost"),
					PAPercent:   rec.GetFloat("pc_profit_attendance_percent"),
				})
			}
			bill.Sections = append(bill.Sections, sec)
		}
		export.Bills = append(export.Bills, bill)
	}
	return export, nil
}
