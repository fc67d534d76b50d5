// Package services implements the ledger side of BOQ imports:
// replace/merge persistence, reconciliation against stored totals, the
// import wizard state machine and ledger exports.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/pocketbase/pocketbase/core"

	"boqledger/parser"
)

// ImportMode selects how a parsed section is written into the ledger.
type ImportMode string

const (
	// ImportModeReplace deletes the section's existing items and
	// inserts the fresh set wholesale.
	ImportModeReplace ImportMode = "replace"
	// ImportModeMerge appends only items whose key is absent from the
	// ledger and never touches existing items.
	ImportModeMerge ImportMode = "merge"
)

// Validation failures raised before any persistence attempt.
var (
	ErrSectionNotFound = errors.New("section not found")
	ErrNoItems         = errors.New("no items to import")
	ErrVersionConflict = errors.New("section was modified by another import")
)

// SectionImportResult summarizes one section's import.
type SectionImportResult struct {
	SectionCode   string  `json:"section_code"`
	BillID        string  `json:"bill_id"`
	SectionID     string  `json:"section_id"`
	Inserted      int     `json:"inserted"`
	Skipped       int     `json:"skipped"`
	ContractTotal float64 `json:"contract_total"`
}

// ImportSection writes one parsed section into the ledger. The whole
// section is a single transaction: bill and section rows are found or
// created by business key, items written per the mode, totals rolled up.
//
// expectedVersion guards against concurrent imports: when non-zero and
// the stored section version differs, the import fails with
// ErrVersionConflict before touching any items. Zero skips the check.
func ImportSection(app core.App, projectID string, sec *parser.ParsedSection, mode ImportMode, expectedVersion int) (*SectionImportResult, error) {
	if sec == nil {
		return nil, ErrSectionNotFound
	}
	if len(sec.Items) == 0 {
		return nil, ErrNoItems
	}

	var result *SectionImportResult
	err := app.RunInTransaction(func(tx core.App) error {
		var err error
		result, err = importSectionTx(tx, projectID, sec, mode, expectedVersion)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func importSectionTx(tx core.App, projectID string, sec *parser.ParsedSection, mode ImportMode, expectedVersion int) (*SectionImportResult, error) {
	bill, err := findOrCreateBill(tx, projectID, sec)
	if err != nil {
		return nil, err
	}

	secRec, err := findOrCreateSection(tx, bill, sec)
	if err != nil {
		return nil, err
	}
	if expectedVersion > 0 && secRec.GetInt("version") != expectedVersion {
		return nil, fmt.Errorf("section %s: %w", sec.SectionCode, ErrVersionConflict)
	}

	result := &SectionImportResult{
		SectionCode: sec.SectionCode,
		BillID:      bill.Id,
		SectionID:   secRec.Id,
	}

	switch mode {
	case ImportModeMerge:
		if err := mergeItems(tx, secRec, sec, result); err != nil {
			return nil, err
		}
	default:
		if err := replaceItems(tx, secRec, sec, result); err != nil {
			return nil, err
		}
	}

	total, err := rebuildSectionTotal(tx, secRec.Id)
	if err != nil {
		return nil, err
	}
	result.ContractTotal = total

	secRec.Set("section_name", sec.SectionName)
	secRec.Set("contract_total", total)
	secRec.Set("boq_stated_total", sec.BOQTotal)
	secRec.Set("version", secRec.GetInt("version")+1)
	if err := tx.Save(secRec); err != nil {
		return nil, fmt.Errorf("save section %s: %w", sec.SectionCode, err)
	}

	if err := rollUpBillTotals(tx, bill); err != nil {
		return nil, err
	}
	return result, nil
}

// replaceItems deletes every stored item of the section and inserts the
// parsed set wholesale. Header rows keep their text for display but all
// monetary fields are zeroed so they cannot double-count the total.
func replaceItems(tx core.App, secRec *core.Record, sec *parser.ParsedSection, result *SectionImportResult) error {
	existing, err := sectionItems(tx, secRec.Id)
	if err != nil {
		return err
	}
	for _, rec := range existing {
		if err := tx.Delete(rec); err != nil {
			return fmt.Errorf("delete item %s: %w", rec.Id, err)
		}
	}

	col, err := tx.FindCollectionByNameOrId("boq_items")
	if err != nil {
		return err
	}
	for i, item := range sec.Items {
		if err := tx.Save(newItemRecord(col, secRec.Id, item, i+1)); err != nil {
			return fmt.Errorf("insert item %q: %w", item.ItemCode, err)
		}
		result.Inserted++
	}
	return nil
}

// mergeItems appends only parsed items whose key is absent from the
// ledger. Existing items are never mutated. The key is the item code,
// falling back to the parse provenance id for codeless rows.
func mergeItems(tx core.App, secRec *core.Record, sec *parser.ParsedSection, result *SectionImportResult) error {
	existing, err := sectionItems(tx, secRec.Id)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(existing))
	maxOrder := 0
	for _, rec := range existing {
		key := rec.GetString("item_code")
		if key == "" {
			key = rec.GetString("source_provenance_id")
		}
		if key != "" {
			seen[key] = true
		}
		if o := rec.GetInt("display_order"); o > maxOrder {
			maxOrder = o
		}
	}

	col, err := tx.FindCollectionByNameOrId("boq_items")
	if err != nil {
		return err
	}
	for _, item := range sec.Items {
		key := item.ItemCode
		if key == "" {
			key = item.ProvenanceID
		}
		if seen[key] {
			result.Skipped++
			continue
		}
		maxOrder++
		if err := tx.Save(newItemRecord(col, secRec.Id, item, maxOrder)); err != nil {
			return fmt.Errorf("insert item %q: %w", item.ItemCode, err)
		}
		seen[key] = true
		result.Inserted++
	}
	return nil
}

func newItemRecord(col *core.Collection, sectionID string, item parser.ParsedItem, order int) *core.Record {
	rec := core.NewRecord(col)
	rec.Set("section", sectionID)
	rec.Set("item_code", item.ItemCode)
	rec.Set("description", item.Description)
	rec.Set("unit", item.Unit)
	rec.Set("display_order", order)
	rec.Set("row_type", string(item.RowType))
	rec.Set("source_provenance_id", item.ProvenanceID)

	if item.RowType == parser.RowTypeHeader {
		// Display fidelity without double counting.
		rec.Set("contract_quantity", item.Quantity)
		rec.Set("supply_rate", 0)
		rec.Set("install_rate", 0)
		rec.Set("contract_amount", 0)
		return rec
	}

	rec.Set("contract_quantity", item.Quantity)
	rec.Set("supply_rate", item.SupplyRate)
	rec.Set("install_rate", item.InstallRate)
	rec.Set("contract_amount", item.Amount)
	rec.Set("is_prime_cost", item.IsPrimeCost)
	if item.IsPrimeCost {
		rec.Set("pc_allowance", item.Amount)
		rec.Set("pc_profit_attendance_percent", item.ProfitAttendancePct)
	}
	return rec
}

func findOrCreateBill(tx core.App, projectID string, sec *parser.ParsedSection) (*core.Record, error) {
	rec, _ := tx.FindFirstRecordByFilter("bills",
		"project = {:project} && bill_number = {:number}",
		map[string]any{"project": projectID, "number": sec.BillNumber})
	if rec != nil {
		return rec, nil
	}

	col, err := tx.FindCollectionByNameOrId("bills")
	if err != nil {
		return nil, err
	}
	rec = core.NewRecord(col)
	rec.Set("project", projectID)
	rec.Set("bill_number", sec.BillNumber)
	rec.Set("bill_name", sec.BillName)
	rec.Set("version", 1)
	if err := tx.Save(rec); err != nil {
		return nil, fmt.Errorf("create bill %d: %w", sec.BillNumber, err)
	}
	return rec, nil
}

func findOrCreateSection(tx core.App, bill *core.Record, sec *parser.ParsedSection) (*core.Record, error) {
	rec, _ := tx.FindFirstRecordByFilter("boq_sections",
		"bill = {:bill} && section_code = {:code}",
		map[string]any{"bill": bill.Id, "code": sec.SectionCode})
	if rec != nil {
		return rec, nil
	}

	col, err := tx.FindCollectionByNameOrId("boq_sections")
	if err != nil {
		return nil, err
	}
	rec = core.NewRecord(col)
	rec.Set("bill", bill.Id)
	rec.Set("section_code", sec.SectionCode)
	rec.Set("section_name", sec.SectionName)
	rec.Set("version", 1)
	if err := tx.Save(rec); err != nil {
		return nil, fmt.Errorf("create section %s: %w", sec.SectionCode, err)
	}
	return rec, nil
}

func sectionItems(tx core.App, sectionID string) ([]*core.Record, error) {
	recs, err := tx.FindRecordsByFilter("boq_items", "section = {:section}",
		"display_order", 0, 0, map[string]any{"section": sectionID})
	if err != nil {
		return nil, fmt.Errorf("load items for section %s: %w", sectionID, err)
	}
	return recs, nil
}

// rebuildSectionTotal sums contract amounts over the stored items,
// skipping header rows. Header amounts are zeroed on insert anyway; the
// filter here keeps the invariant even if older data predates that rule.
func rebuildSectionTotal(tx core.App, sectionID string) (float64, error) {
	recs, err := sectionItems(tx, sectionID)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, rec := range recs {
		if rec.GetString("row_type") == string(parser.RowTypeHeader) {
			continue
		}
		total += rec.GetFloat("contract_amount")
	}
	return total, nil
}

func rollUpBillTotals(tx core.App, bill *core.Record) error {
	secs, err := tx.FindRecordsByFilter("boq_sections", "bill = {:bill}",
		"section_code", 0, 0, map[string]any{"bill": bill.Id})
	if err != nil {
		return fmt.Errorf("load sections for bill %s: %w", bill.Id, err)
	}
	var total float64
	for _, s := range secs {
		total += s.GetFloat("contract_total")
	}
	bill.Set("contract_total", total)
	bill.Set("final_total", total+bill.GetFloat("variation_total"))
	bill.Set("version", bill.GetInt("version")+1)
	if err := tx.Save(bill); err != nil {
		return fmt.Errorf("save bill %s: %w", bill.Id, err)
	}
	return nil
}

// ── Batch import ────────────────────────────────────────────────────────

// SectionFailure records one section that could not be imported.
type SectionFailure struct {
	SectionCode string `json:"section_code"`
	Error       string `json:"error"`
}

// BatchResult aggregates a whole-workbook import.
type BatchResult struct {
	Total         int              `json:"total"`
	Imported      int              `json:"imported"`
	Failed        int              `json:"failed"`
	InsertedItems int              `json:"inserted_items"`
	SkippedItems  int              `json:"skipped_items"`
	Failures      []SectionFailure `json:"failures,omitempty"`
}

// Progress reports one completed section during a batch import.
type Progress struct {
	Done        int
	Total       int
	SectionCode string
	Err         error
}

// ImportAll imports parsed sections one at a time. A failing section is
// counted and logged but never aborts the rest of the batch; only
// context cancellation stops the loop early. Sections that parsed with
// zero items fail validation up front and are reported the same way.
func ImportAll(ctx context.Context, app core.App, projectID string, sections []*parser.ParsedSection, mode ImportMode, progress func(Progress)) (*BatchResult, error) {
	result := &BatchResult{Total: len(sections)}

	for i, sec := range sections {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		sr, err := ImportSection(app, projectID, sec, mode, 0)
		if err != nil {
			result.Failed++
			result.Failures = append(result.Failures, SectionFailure{
				SectionCode: sec.SectionCode,
				Error:       err.Error(),
			})
			app.Logger().Error("section import failed",
				"section", sec.SectionCode, "mode", string(mode), "error", err)
		} else {
			result.Imported++
			result.InsertedItems += sr.Inserted
			result.SkippedItems += sr.Skipped
		}

		if progress != nil {
			progress(Progress{Done: i + 1, Total: len(sections), SectionCode: sec.SectionCode, Err: err})
		}
	}
	return result, nil
}
