package collections_test

import (
	"testing"

	"boqledger/collections"
	"boqledger/testhelpers"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"projects",
	"bills",
	"boq_sections",
	"boq_items",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	// Running Setup again must not recreate or replace collections.
	collections.Setup(app)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Fatalf("collection %q missing after second Setup(): %v", name, err)
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q recreated: id %q became %q", name, ids[name], col.Id)
		}
	}
}

func TestSeed_CreatesDemoProjectOnce(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}

	records, err := app.FindRecordsByFilter("projects", "name = {:name}", "", 0, 0,
		map[string]any{"name": "Demo Project"})
	if err != nil {
		t.Fatalf("query projects: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected exactly 1 demo project, got %d", len(records))
	}
}
