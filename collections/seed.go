package collections

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

const demoProjectName = "Demo Project"

// Seed creates a demo project on first run so the import endpoints have
// a target to work against. Existing data is left untouched.
func Seed(app *pocketbase.PocketBase) error {
	existing, _ := app.FindFirstRecordByFilter("projects", "name = {:name}",
		map[string]any{"name": demoProjectName})
	if existing != nil {
		return nil
	}

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return err
	}

	record := core.NewRecord(col)
	record.Set("name", demoProjectName)
	record.Set("status", "active")
	if err := app.Save(record); err != nil {
		return err
	}

	log.Printf("Seeded project %q (id=%s)", demoProjectName, record.Id)
	return nil
}
