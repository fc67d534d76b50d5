package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boqledger/parser"
)

// maxUploadBytes bounds the multipart workbook upload (20MB).
const maxUploadBytes = 20 << 20

// parseResponse is the JSON payload returned after a workbook parse.
type parseResponse struct {
	RunID        string                  `json:"run_id"`
	RulesVersion int                     `json:"rules_version"`
	Bills        []*parser.Bill          `json:"bills"`
	Sections     []*parser.ParsedSection `json:"sections"`
	Warnings     []string                `json:"warnings,omitempty"`
}

// HandleBOQParse receives a BOQ workbook upload, runs the extraction
// pipeline and returns the parsed sections with per-section confidence.
// The run is cached so follow-up retry/import calls can reference it.
// Route: POST /projects/{projectId}/boq/parse
func HandleBOQParse(app *pocketbase.PocketBase, runs *RunRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		if projectID == "" {
			return e.String(http.StatusBadRequest, "Missing project ID")
		}
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			log.Printf("boq_parse: could not find project %s: %v", projectID, err)
			return e.String(http.StatusNotFound, "Project not found")
		}

		if err := e.Request.ParseMultipartForm(maxUploadBytes); err != nil {
			return e.String(http.StatusBadRequest, "File too large or invalid form data")
		}
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return e.String(http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		wb, err := parser.ReadWorkbook(file)
		if err != nil {
			log.Printf("boq_parse: decode %q failed: %v", header.Filename, err)
			return e.String(http.StatusBadRequest, "Could not read the workbook. Please upload a valid .xlsx file")
		}

		result := parser.Parse(wb, parser.Options{})
		runs.Put(&ParseRun{ProjectID: projectID, Workbook: wb, Result: result})

		log.Printf("boq_parse: project %s file %q run %s: %d sections, %d warnings",
			projectID, header.Filename, result.RunID, len(result.Sections), len(result.Warnings))

		return e.JSON(http.StatusOK, parseResponse{
			RunID:        result.RunID,
			RulesVersion: parser.RulesVersion,
			Bills:        result.Bills,
			Sections:     result.Sections,
			Warnings:     result.Warnings,
		})
	}
}

// findRun resolves a path runId against the registry, scoped to the
// project it was created for.
func findRun(runs *RunRegistry, projectID, runID string) *ParseRun {
	run := runs.Get(runID)
	if run == nil || run.ProjectID != projectID {
		return nil
	}
	return run
}
