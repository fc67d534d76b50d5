package parser

import "testing"

func TestRetrySection_AdoptsImprovement(t *testing.T) {
	// No labelled header row anywhere, but the data follows the usual
	// positional layout: code, description, unit, qty, amounts right.
	rows := [][]string{
		{"MEDIUM VOLTAGE RETICULATION"},
		{},
		{"B1", "Supply and install 11kV cable", "m", "120", "", "96000"},
		{"B2", "Cable terminations", "No", "8", "", "12000"},
	}
	wb := &Workbook{Sheets: []Sheet{{Name: "1.3 MV Reticulation", Rows: rows}}}

	result := Parse(wb, Options{})
	prev := result.Sections[0]
	if prev.Confidence != ConfidenceFailed {
		t.Fatalf("precondition: standard strategy should fail, got %q", prev.Confidence)
	}

	sec := RetrySection(wb, prev)
	if sec.ItemCount != 2 {
		t.Fatalf("ItemCount = %d, want 2", sec.ItemCount)
	}
	if sec.ParseAttempts != 2 {
		t.Errorf("ParseAttempts = %d, want 2", sec.ParseAttempts)
	}
	if sec.LastParseStrategy != StrategyAlternative {
		t.Errorf("LastParseStrategy = %q, want alternative", sec.LastParseStrategy)
	}
	if !almostEqual(sec.BOQTotal, 108000) {
		t.Errorf("BOQTotal = %v, want 108000", sec.BOQTotal)
	}
	// The prior result is an immutable value: retry must not touch it.
	if prev.ParseAttempts != 1 {
		t.Errorf("previous section mutated: attempts = %d", prev.ParseAttempts)
	}
}

func TestRetrySection_KeepsPriorWithoutImprovement(t *testing.T) {
	rows := sheetWithHeader(
		[]string{"A1", "Cable tray", "m", "10", "150", "1500"},
		[]string{"A2", "Cable ladder", "m", "20", "210", "4200"},
	)
	wb := &Workbook{Sheets: []Sheet{{Name: "1.4 Containment", Rows: rows}}}

	result := Parse(wb, Options{})
	prev := result.Sections[0]
	if prev.ItemCount != 2 {
		t.Fatalf("precondition: standard strategy found %d items", prev.ItemCount)
	}

	sec := RetrySection(wb, prev)
	if sec.ItemCount != prev.ItemCount {
		t.Errorf("ItemCount = %d, want unchanged %d", sec.ItemCount, prev.ItemCount)
	}
	if sec.ParseAttempts != 2 {
		t.Errorf("ParseAttempts = %d, want 2", sec.ParseAttempts)
	}
	if sec.LastParseStrategy != StrategyStandard {
		t.Errorf("LastParseStrategy = %q, want standard kept", sec.LastParseStrategy)
	}
}

func TestParseSheetPositional_AmountFromRightmostColumn(t *testing.T) {
	rows := [][]string{
		{"B1", "Supply and install busbar", "m", "15", "", "0", "22500"},
	}
	sec := parseSheetPositional(SheetClass{
		SheetName: "x", SectionCode: "1.5", SectionName: "Busbars",
		BillNumber: 1, BillName: "Bill 1",
	}, rows)

	if sec.ItemCount != 1 {
		t.Fatalf("ItemCount = %d, want 1", sec.ItemCount)
	}
	if !almostEqual(sec.Items[0].Amount, 22500) {
		t.Errorf("Amount = %v, want 22500 from rightmost positive column", sec.Items[0].Amount)
	}
}

func TestParseSheetPositional_SkipAndValidityRules(t *testing.T) {
	rows := [][]string{
		{"B1", "Supply and install trunking", "m", "30", "", "5400"},
		{"", "Total carried forward", "", "", "", "5400"},
		{"7", "", "", "", "", ""},
	}
	sec := parseSheetPositional(SheetClass{SheetName: "x", SectionCode: "1.6"}, rows)

	if sec.ItemCount != 1 {
		t.Errorf("ItemCount = %d, want 1 (totals and invalid rows skipped)", sec.ItemCount)
	}
	if !almostEqual(sec.BOQTotal, 5400) {
		t.Errorf("BOQTotal = %v, want 5400", sec.BOQTotal)
	}
}

func TestFindPositionalStart(t *testing.T) {
	tests := []struct {
		name   string
		rows   [][]string
		expect int
	}{
		{"plain data", [][]string{{"B1", "Supply cable", "m", "10"}}, 0},
		{"after title rows", [][]string{{"TITLE"}, {}, {"B1", "Supply cable", "m", "10"}}, 2},
		{"short description rejected", [][]string{{"B1", "abc", "m", "10"}}, -1},
		{"numeric code rejected", [][]string{{"12", "Supply cable", "m", "10"}}, -1},
		{"empty sheet", nil, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findPositionalStart(tt.rows); got != tt.expect {
				t.Errorf("findPositionalStart() = %d, want %d", got, tt.expect)
			}
		})
	}
}
