package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boqledger/services"
)

// HandleBOQReconcile compares a cached parse run against the project's
// ledger and returns the per-section match report.
// Route: GET /projects/{projectId}/boq/reconcile?runId=
func HandleBOQReconcile(app *pocketbase.PocketBase, runs *RunRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		runID := e.Request.URL.Query().Get("runId")
		if projectID == "" || runID == "" {
			return e.String(http.StatusBadRequest, "Missing project ID or runId")
		}

		run := findRun(runs, projectID, runID)
		if run == nil {
			return e.String(http.StatusNotFound, "Parse run not found or expired. Please re-upload the workbook")
		}

		statuses, err := services.Reconcile(app, projectID, run.Result.Sections)
		if err != nil {
			log.Printf("boq_reconcile: run %s failed: %v", runID, err)
			return e.String(http.StatusInternalServerError, "Failed to reconcile")
		}

		reconciled := 0
		for _, s := range statuses {
			if s.Band == services.BandReconciled {
				reconciled++
			}
		}
		return e.JSON(http.StatusOK, map[string]any{
			"run_id":     runID,
			"sections":   statuses,
			"reconciled": reconciled,
			"total":      len(statuses),
		})
	}
}
