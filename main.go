package main

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boqledger/collections"
	"boqledger/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		runs := handlers.NewRunRegistry()

		// ── Project CRUD ─────────────────────────────────────────
		se.Router.GET("/projects", handlers.HandleProjectList(app))
		se.Router.POST("/projects", handlers.HandleProjectCreate(app))

		// ── BOQ extraction pipeline ──────────────────────────────
		se.Router.POST("/projects/{projectId}/boq/parse",
			handlers.HandleBOQParse(app, runs))
		se.Router.POST("/projects/{projectId}/boq/parse/{runId}/sections/{code}/retry",
			handlers.HandleBOQRetrySection(app, runs))
		se.Router.POST("/projects/{projectId}/boq/parse/{runId}/import",
			handlers.HandleBOQImportAll(app, runs))
		se.Router.POST("/projects/{projectId}/boq/parse/{runId}/sections/{code}/import",
			handlers.HandleBOQImportSection(app, runs))

		// ── Reconciliation and export ────────────────────────────
		se.Router.GET("/projects/{projectId}/boq/reconcile",
			handlers.HandleBOQReconcile(app, runs))
		se.Router.GET("/projects/{projectId}/boq/export/excel",
			handlers.HandleLedgerExportExcel(app))

		// Redirect home to projects list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/projects")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
