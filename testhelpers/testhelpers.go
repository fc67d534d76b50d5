// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strconv"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boqledger/collections"
	"boqledger/parser"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestProject creates a project record with the given name and returns it.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("status", "active")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// CreateTestBill creates a bill record linked to a project and returns it.
func CreateTestBill(t *testing.T, app *pocketbase.PocketBase, projectID string, billNumber int, billName string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("bills")
	if err != nil {
		t.Fatalf("failed to find bills collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("bill_number", billNumber)
	record.Set("bill_name", billName)
	record.Set("version", 1)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test bill: %v", err)
	}

	return record
}

// CreateTestSection creates a BOQ section record under a bill.
func CreateTestSection(t *testing.T, app *pocketbase.PocketBase, billID, sectionCode, sectionName string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("boq_sections")
	if err != nil {
		t.Fatalf("failed to find boq_sections collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("bill", billID)
	record.Set("section_code", sectionCode)
	record.Set("section_name", sectionName)
	record.Set("version", 1)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test section: %v", err)
	}

	return record
}

// CreateTestItem creates a BOQ item record under a section.
func CreateTestItem(t *testing.T, app *pocketbase.PocketBase, sectionID, itemCode, description string, order int, amount float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("boq_items")
	if err != nil {
		t.Fatalf("failed to find boq_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("section", sectionID)
	record.Set("item_code", itemCode)
	record.Set("description", description)
	record.Set("unit", "No")
	record.Set("contract_quantity", 1)
	record.Set("contract_amount", amount)
	record.Set("display_order", order)
	record.Set("row_type", "item")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test item: %v", err)
	}

	return record
}

// MakeParsedSection builds an in-memory parsed section fixture with the
// given item rows, mirroring what the standard extraction strategy
// produces for a clean sheet.
func MakeParsedSection(sectionCode, sectionName string, billNumber int, items ...parser.ParsedItem) *parser.ParsedSection {
	sec := &parser.ParsedSection{
		SectionCode:       sectionCode,
		SectionName:       sectionName,
		SheetName:         sectionCode + " " + sectionName,
		BillNumber:        billNumber,
		BillName:          "Bill " + strconv.Itoa(billNumber),
		Items:             items,
		ItemCount:         len(items),
		ParseAttempts:     1,
		LastParseStrategy: parser.StrategyStandard,
	}
	for i := range sec.Items {
		sec.Items[i].SectionCode = sectionCode
		sec.Items[i].SectionName = sectionName
		sec.Items[i].BillNumber = billNumber
		sec.Items[i].BillName = sec.BillName
		if sec.Items[i].RowType == "" {
			sec.Items[i].RowType = parser.RowTypeItem
		}
		if sec.Items[i].RowType != parser.RowTypeHeader {
			sec.BOQTotal += sec.Items[i].Amount
		}
	}
	sec.Confidence = parser.Score(sec.Items, sec.BOQTotal)
	return sec
}
