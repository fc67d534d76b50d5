package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boqledger/services"
)

// HandleLedgerExportExcel generates and downloads the project's
// normalized ledger as an Excel workbook, one sheet per bill.
// Route: GET /projects/{projectId}/boq/export/excel
func HandleLedgerExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		if projectID == "" {
			return e.String(http.StatusBadRequest, "Missing project ID")
		}

		export, err := services.BuildLedgerExport(app, projectID)
		if err != nil {
			log.Printf("ledger_export: project %s: %v", projectID, err)
			return e.String(http.StatusNotFound, "Project not found")
		}
		if len(export.Bills) == 0 {
			return e.String(http.StatusUnprocessableEntity, "Project has no imported bills to export")
		}

		xlsxBytes, err := services.GenerateLedgerExcel(export)
		if err != nil {
			log.Printf("ledger_export: generate failed for project %s: %v", projectID, err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("%s_BOQ_Ledger.xlsx", sanitizeFilename(export.ProjectName))
		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}
