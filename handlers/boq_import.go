package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boqledger/services"
)

// importMode reads the mode query parameter, defaulting to replace.
func importMode(e *core.RequestEvent) (services.ImportMode, bool) {
	switch e.Request.URL.Query().Get("mode") {
	case "", "replace":
		return services.ImportModeReplace, true
	case "merge":
		return services.ImportModeMerge, true
	default:
		return "", false
	}
}

// HandleBOQImportAll imports every parsed section of a run into the
// ledger. Sections that fail are reported in the batch summary without
// aborting the rest.
// Route: POST /projects/{projectId}/boq/parse/{runId}/import?mode=replace|merge
func HandleBOQImportAll(app *pocketbase.PocketBase, runs *RunRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		runID := e.Request.PathValue("runId")
		if projectID == "" || runID == "" {
			return e.String(http.StatusBadRequest, "Missing project ID or run ID")
		}
		mode, ok := importMode(e)
		if !ok {
			return e.String(http.StatusBadRequest, "Invalid mode, expected replace or merge")
		}

		run := findRun(runs, projectID, runID)
		if run == nil {
			return e.String(http.StatusNotFound, "Parse run not found or expired. Please re-upload the workbook")
		}

		result, err := services.ImportAll(e.Request.Context(), app, projectID,
			run.Result.Sections, mode, func(p services.Progress) {
				log.Printf("boq_import: run %s [%d/%d] section %s err=%v",
					runID, p.Done, p.Total, p.SectionCode, p.Err)
			})
		if err != nil {
			log.Printf("boq_import: run %s aborted: %v", runID, err)
			return e.String(http.StatusInternalServerError, "Import was interrupted")
		}
		return e.JSON(http.StatusOK, result)
	}
}

// HandleBOQImportSection imports a single parsed section. An optional
// expected_version query parameter enables the optimistic concurrency
// check against the stored section.
// Route: POST /projects/{projectId}/boq/parse/{runId}/sections/{code}/import?mode=&expected_version=
func HandleBOQImportSection(app *pocketbase.PocketBase, runs *RunRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		runID := e.Request.PathValue("runId")
		code := e.Request.PathValue("code")
		if projectID == "" || runID == "" || code == "" {
			return e.String(http.StatusBadRequest, "Missing project ID, run ID or section code")
		}
		mode, ok := importMode(e)
		if !ok {
			return e.String(http.StatusBadRequest, "Invalid mode, expected replace or merge")
		}

		expectedVersion := 0
		if v := e.Request.URL.Query().Get("expected_version"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 1 {
				return e.String(http.StatusBadRequest, "Invalid expected_version")
			}
			expectedVersion = parsed
		}

		run := findRun(runs, projectID, runID)
		if run == nil {
			return e.String(http.StatusNotFound, "Parse run not found or expired. Please re-upload the workbook")
		}
		sec := run.Result.Section(code)
		if sec == nil {
			return e.String(http.StatusNotFound, "Section not found in this parse run")
		}

		result, err := services.ImportSection(app, projectID, sec, mode, expectedVersion)
		switch {
		case errors.Is(err, services.ErrVersionConflict):
			return e.String(http.StatusConflict, "Section was modified by another import. Reload and retry")
		case errors.Is(err, services.ErrNoItems):
			return e.String(http.StatusUnprocessableEntity, "Section has no items to import")
		case err != nil:
			log.Printf("boq_import: run %s section %s failed: %v", runID, code, err)
			return e.String(http.StatusInternalServerError, "Failed to import section")
		}
		return e.JSON(http.StatusOK, result)
	}
}
