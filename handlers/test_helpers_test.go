package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"

	"boqledger/parser"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// buildTestXlsx renders sheets of string rows into an xlsx byte slice.
func buildTestXlsx(t *testing.T, sheets map[string][][]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				t.Fatalf("set sheet name: %v", err)
			}
			first = false
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("new sheet: %v", err)
			}
		}
		for r, row := range rows {
			for c, val := range row {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("cell name: %v", err)
				}
				if err := f.SetCellValue(name, cell, val); err != nil {
					t.Fatalf("set cell: %v", err)
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}
	return buf.Bytes()
}

// multipartUpload wraps file bytes into a multipart body with the given
// field and filename, returning the body and content type.
func multipartUpload(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

// standardRows wraps item rows in the usual BOQ header layout.
func standardRows(dataRows ...[]string) [][]string {
	rows := [][]string{
		{"Item", "Description", "Unit", "Qty", "Rate", "Amount"},
	}
	return append(rows, dataRows...)
}

// testItem builds one parsed item row for ledger fixtures.
func testItem(code, desc string, qty, amount float64) parser.ParsedItem {
	return parser.ParsedItem{
		ItemCode:     code,
		Description:  desc,
		Unit:         "No",
		Quantity:     qty,
		Amount:       amount,
		RowType:      parser.RowTypeItem,
		ProvenanceID: "sheet!" + code,
	}
}

// seedRun parses in-memory sheets and registers the run for a project.
func seedRun(t *testing.T, runs *RunRegistry, projectID string, sheets []parser.Sheet) *ParseRun {
	t.Helper()

	wb := &parser.Workbook{Sheets: sheets}
	run := &ParseRun{
		ProjectID: projectID,
		Workbook:  wb,
		Result:    parser.Parse(wb, parser.Options{}),
	}
	runs.Put(run)
	return run
}
