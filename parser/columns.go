package parser

import "strings"

// ColumnMap records which column index holds each detected role.
// An index of -1 means the role was not found on the header row.
type ColumnMap struct {
	HeaderRow   int
	Description int
	Quantity    int
	Unit        int
	SupplyRate  int
	InstallRate int
	Rate        int
	Amount      int
	ItemCode    int
}

func emptyColumnMap() ColumnMap {
	return ColumnMap{
		HeaderRow:   -1,
		Description: -1,
		Quantity:    -1,
		Unit:        -1,
		SupplyRate:  -1,
		InstallRate: -1,
		Rate:        -1,
		Amount:      -1,
		ItemCode:    -1,
	}
}

func (m *ColumnMap) set(role ColumnRole, col int) {
	switch role {
	case RoleDescription:
		m.Description = col
	case RoleQuantity:
		m.Quantity = col
	case RoleUnit:
		m.Unit = col
	case RoleSupplyRate:
		m.SupplyRate = col
	case RoleInstallRate:
		m.InstallRate = col
	case RoleRate:
		m.Rate = col
	case RoleAmount:
		m.Amount = col
	case RoleItemCode:
		m.ItemCode = col
	}
}

// DetectColumns scans the leading rows of a sheet for a header row. For
// each candidate row every role in RoleRules tries, in order, to claim
// the first unclaimed non-empty cell matching its pattern. The first row
// where the description role resolves becomes the header row.
//
// The second return value is false when no header row was found inside
// the scan window; such a sheet yields zero items.
func DetectColumns(rows [][]string, scanRows int) (ColumnMap, bool) {
	limit := len(rows)
	if limit > scanRows {
		limit = scanRows
	}

	for r := 0; r < limit; r++ {
		m := emptyColumnMap()
		claimed := map[int]bool{}

		for _, rule := range RoleRules {
			for c, cell := range rows[r] {
				text := strings.TrimSpace(cell)
				if text == "" || claimed[c] {
					continue
				}
				if rule.Pattern.MatchString(text) {
					m.set(rule.Role, c)
					claimed[c] = true
					break
				}
			}
		}

		if m.Description >= 0 {
			m.HeaderRow = r
			return m, true
		}
	}

	return emptyColumnMap(), false
}
