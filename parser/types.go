// Package parser extracts a normalized Bills → Sections → Items ledger
// from uploaded Bill of Quantities workbooks. Input workbooks follow no
// shared schema, so extraction is heuristic: header rows are found by
// regex, rows are classified by shape, and every section carries a
// confidence tier instead of a parse error.
package parser

// RowType classifies the purpose of a single extracted row.
type RowType string

const (
	RowTypeHeader      RowType = "header"
	RowTypeSubheader   RowType = "subheader"
	RowTypeDescription RowType = "description"
	RowTypeItem        RowType = "item"
)

// Confidence is the heuristic quality tier of one parsed section.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceFailed Confidence = "failed"
)

// Strategy identifies which extraction strategy produced a section.
type Strategy string

const (
	StrategyStandard    Strategy = "standard"
	StrategyAlternative Strategy = "alternative"
)

// ParsedItem is one extracted BOQ line.
type ParsedItem struct {
	RowIndex               int     `json:"row_index"`
	ItemCode               string  `json:"item_code"`
	Description            string  `json:"description"`
	Unit                   string  `json:"unit"`
	Quantity               float64 `json:"quantity"`
	SupplyRate             float64 `json:"supply_rate"`
	InstallRate            float64 `json:"install_rate"`
	TotalRate              float64 `json:"total_rate"`
	Amount                 float64 `json:"amount"`
	SectionCode            string  `json:"section_code"`
	SectionName            string  `json:"section_name"`
	BillNumber             int     `json:"bill_number"`
	BillName               string  `json:"bill_name"`
	RowType                RowType `json:"row_type"`
	IsPrimeCost            bool    `json:"is_prime_cost"`
	ProfitAttendancePct    float64 `json:"profit_attendance_percent"`

	// ProvenanceID ties the item back to its source cell range. It is
	// deterministic across re-parses of the same workbook so codeless
	// rows still merge-import idempotently.
	ProvenanceID string `json:"provenance_id"`
}

// ParsedSection is the extraction result for one in-scope worksheet.
// Sections are immutable value objects: a retry produces a brand-new
// section rather than mutating this one.
type ParsedSection struct {
	SectionCode       string       `json:"section_code"`
	SectionName       string       `json:"section_name"`
	SheetName         string       `json:"sheet_name"`
	BillNumber        int          `json:"bill_number"`
	BillName          string       `json:"bill_name"`
	Items             []ParsedItem `json:"items"`
	ItemCount         int          `json:"item_count"`
	BOQTotal          float64      `json:"boq_total"`
	Confidence        Confidence   `json:"extraction_confidence"`
	ParseAttempts     int          `json:"parse_attempts"`
	LastParseStrategy Strategy     `json:"last_parse_strategy"`
}

// Bill groups the sections that share a bill number.
type Bill struct {
	BillNumber int              `json:"bill_number"`
	BillName   string           `json:"bill_name"`
	Sections   []*ParsedSection `json:"sections"`
}

// ParseResult is the outcome of parsing one workbook.
type ParseResult struct {
	RunID    string           `json:"run_id"`
	Bills    []*Bill          `json:"bills"`
	Sections []*ParsedSection `json:"sections"`
	Warnings []string         `json:"warnings,omitempty"`
}

// Section returns the parsed section with the given code, or nil.
func (r *ParseResult) Section(code string) *ParsedSection {
	for _, s := range r.Sections {
		if s.SectionCode == code {
			return s
		}
	}
	return nil
}

// ReplaceSection swaps the section with the same code for the given one,
// preserving result ordering. Bills are rebuilt so their section lists
// stay consistent.
func (r *ParseResult) ReplaceSection(sec *ParsedSection) {
	for i, s := range r.Sections {
		if s.SectionCode == sec.SectionCode {
			r.Sections[i] = sec
			break
		}
	}
	r.Bills = groupBills(r.Sections)
}

// Options tunes workbook extraction. The zero value uses the built-in
// defaults.
type Options struct {
	// TenantBills overrides the built-in tenant-name → bill-number
	// lookup used when a sheet name carries a known retailer name.
	TenantBills map[string]int

	// HeaderScanRows caps how many leading rows are scanned for a
	// header row. Zero means the default of 30.
	HeaderScanRows int
}

func (o Options) tenantBills() map[string]int {
	if o.TenantBills != nil {
		return o.TenantBills
	}
	return defaultTenantBills
}

func (o Options) headerScanRows() int {
	if o.HeaderScanRows > 0 {
		return o.HeaderScanRows
	}
	return defaultHeaderScanRows
}
