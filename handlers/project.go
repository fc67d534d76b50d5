package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// projectSummary is the JSON shape for project listings.
type projectSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// HandleProjectList lists all projects.
// Route: GET /projects
func HandleProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("projects", "id != ''", "-created", 0, 0)
		if err != nil {
			log.Printf("project_list: query failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to load projects")
		}

		projects := make([]projectSummary, 0, len(records))
		for _, rec := range records {
			projects = append(projects, projectSummary{
				ID:     rec.Id,
				Name:   rec.GetString("name"),
				Status: rec.GetString("status"),
			})
		}
		return e.JSON(http.StatusOK, projects)
	}
}

// HandleProjectCreate creates a project from a JSON body {"name": ...}.
// Route: POST /projects
func HandleProjectCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(e.Request.Body).Decode(&body); err != nil {
			return e.String(http.StatusBadRequest, "Invalid JSON body")
		}
		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return e.String(http.StatusBadRequest, "Project name is required")
		}

		col, err := app.FindCollectionByNameOrId("projects")
		if err != nil {
			log.Printf("project_create: projects collection not found: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		record := core.NewRecord(col)
		record.Set("name", body.Name)
		record.Set("status", "active")
		if err := app.Save(record); err != nil {
			log.Printf("project_create: save failed: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to create project")
		}

		log.Printf("project_create: created project %s (%s)", record.Id, body.Name)
		return e.JSON(http.StatusCreated, projectSummary{
			ID:     record.Id,
			Name:   record.GetString("name"),
			Status: record.GetString("status"),
		})
	}
}
