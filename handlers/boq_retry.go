package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boqledger/parser"
)

// HandleBOQRetrySection re-parses one section with the positional
// fallback strategy. The cached run is updated only when the fallback
// extracts strictly more items; either way the section comes back with
// its attempt count bumped.
// Route: POST /projects/{projectId}/boq/parse/{runId}/sections/{code}/retry
func HandleBOQRetrySection(app *pocketbase.PocketBase, runs *RunRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		runID := e.Request.PathValue("runId")
		code := e.Request.PathValue("code")
		if projectID == "" || runID == "" || code == "" {
			return e.String(http.StatusBadRequest, "Missing project ID, run ID or section code")
		}

		run := findRun(runs, projectID, runID)
		if run == nil {
			return e.String(http.StatusNotFound, "Parse run not found or expired. Please re-upload the workbook")
		}
		prev := run.Result.Section(code)
		if prev == nil {
			return e.String(http.StatusNotFound, "Section not found in this parse run")
		}

		retried := parser.RetrySection(run.Workbook, prev)
		run.Result.ReplaceSection(retried)

		improved := retried.LastParseStrategy == parser.StrategyAlternative &&
			retried.ItemCount > prev.ItemCount
		log.Printf("boq_retry: run %s section %s attempt %d: %d -> %d items (improved=%v)",
			runID, code, retried.ParseAttempts, prev.ItemCount, retried.ItemCount, improved)

		return e.JSON(http.StatusOK, map[string]any{
			"section":  retried,
			"improved": improved,
		})
	}
}
