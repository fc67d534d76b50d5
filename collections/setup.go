package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the projects, bills,
// boq_sections and boq_items collections exist.
func Setup(app *pocketbase.PocketBase) {
	projects := ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"active", "archived"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	bills := ensureCollection(app, "bills", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "bill_number", Required: true})
		c.Fields.Add(&core.TextField{Name: "bill_name", Required: false})
		c.Fields.Add(&core.NumberField{Name: "contract_total"})
		c.Fields.Add(&core.NumberField{Name: "final_total"})
		c.Fields.Add(&core.NumberField{Name: "variation_total"})
		// Optimistic concurrency stamp; bumped on every import write.
		c.Fields.Add(&core.NumberField{Name: "version"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	sections := ensureCollection(app, "boq_sections", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "bill",
			Required:      true,
			CollectionId:  bills.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "section_code", Required: true})
		c.Fields.Add(&core.TextField{Name: "section_name", Required: false})
		c.Fields.Add(&core.NumberField{Name: "contract_total"})
		// The parser's stated section total, kept verbatim so any
		// discrepancy against the rebuilt total stays visible.
		c.Fields.Add(&core.NumberField{Name: "boq_stated_total"})
		c.Fields.Add(&core.NumberField{Name: "version"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "boq_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "section",
			Required:      true,
			CollectionId:  sections.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "item_code", Required: false})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.TextField{Name: "unit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "contract_quantity"})
		c.Fields.Add(&core.NumberField{Name: "supply_rate"})
		c.Fields.Add(&core.NumberField{Name: "install_rate"})
		c.Fields.Add(&core.NumberField{Name: "contract_amount"})
		c.Fields.Add(&core.NumberField{Name: "display_order", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "row_type",
			Required:  true,
			Values:    []string{"header", "subheader", "description", "item"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.BoolField{Name: "is_prime_cost"})
		c.Fields.Add(&core.NumberField{Name: "pc_allowance"})
		c.Fields.Add(&core.NumberField{Name: "pc_profit_attendance_percent"})
		c.Fields.Add(&core.TextField{Name: "source_provenance_id", Required: false})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
