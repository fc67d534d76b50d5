package parser

import "regexp"

// RulesVersion stamps the heuristic rule tables below. Bump it whenever a
// pattern changes so extraction differences between runs can be traced
// back to a rule revision.
const RulesVersion = 3

const defaultHeaderScanRows = 30

// ── Sheet classification ────────────────────────────────────────────────

// SheetSkipPatterns mark worksheets that never contain BOQ line items:
// summary pages, cover sheets, notes and the like.
var SheetSkipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsummary\b`),
	regexp.MustCompile(`(?i)\bcover\b`),
	regexp.MustCompile(`(?i)\bnotes?\b`),
	regexp.MustCompile(`(?i)\bqualifications?\b`),
	regexp.MustCompile(`(?i)\bindex\b`),
	regexp.MustCompile(`(?i)\bcontents\b`),
}

// systemSheetPattern matches auto-generated or scratch sheet names.
var systemSheetPattern = regexp.MustCompile(`(?i)^(sheet|data|config|temp)`)

var (
	// "1.2 Medium Voltage" → bill 1, section "1.2"
	sectionedSheetPattern = regexp.MustCompile(`^(\d+)\.(\d+)\s+(.+)$`)
	// "3 Small Power" → bill 3
	billedSheetPattern = regexp.MustCompile(`^(\d+)\s+(.+)$`)
)

// maxGenericBillNumber bounds the leading integer of a "<int> <text>"
// sheet name that is still taken as a bill number. Larger integers are
// drawing numbers or dates, not bills.
const maxGenericBillNumber = 99

// defaultTenantBills pins known retailer fit-out sheets to fixed bill
// numbers so tenant bills keep their identity across re-imports even
// when the workbook author renumbers the sheets.
var defaultTenantBills = map[string]int{
	"woolworths":  20,
	"checkers":    21,
	"pick n pay":  22,
	"shoprite":    23,
	"clicks":      24,
	"mr price":    25,
	"truworths":   26,
}

// ── Column role detection ───────────────────────────────────────────────

// ColumnRole names a header cell's purpose.
type ColumnRole string

const (
	RoleDescription ColumnRole = "description"
	RoleQuantity    ColumnRole = "quantity"
	RoleUnit        ColumnRole = "unit"
	RoleSupplyRate  ColumnRole = "supplyRate"
	RoleInstallRate ColumnRole = "installRate"
	RoleRate        ColumnRole = "rate"
	RoleAmount      ColumnRole = "amount"
	RoleItemCode    ColumnRole = "itemCode"
)

// RoleRule binds a column role to the header-cell pattern that claims it.
type RoleRule struct {
	Role    ColumnRole
	Pattern *regexp.Regexp
}

// RoleRules is the ordered role dictionary used by column detection.
// Order matters: earlier roles claim a column before later ones get to
// see it, so the compound "supply rate"/"install rate" roles must come
// before the bare "rate" role.
var RoleRules = []RoleRule{
	{RoleDescription, regexp.MustCompile(`(?i)^descriptions?$|description of work|^particulars$|^item description$`)},
	{RoleQuantity, regexp.MustCompile(`(?i)^(qty|quantity|quantities)\.?$`)},
	{RoleUnit, regexp.MustCompile(`(?i)^(unit|uom|u/m)$`)},
	{RoleSupplyRate, regexp.MustCompile(`(?i)supply\s*(rate)?$|rate\s*\(?supply`)},
	{RoleInstallRate, regexp.MustCompile(`(?i)install(ation)?\s*(rate)?$|rate\s*\(?install|labour\s*rate`)},
	{RoleRate, regexp.MustCompile(`(?i)^rate$|^unit rate$|^rate \(r\)$`)},
	{RoleAmount, regexp.MustCompile(`(?i)^amount$|^total$|total amount|^value$|^amount \(r\)$`)},
	{RoleItemCode, regexp.MustCompile(`(?i)^(item|code|item no\.?|item ref\.?|ref)$`)},
}

// ── Row classification ──────────────────────────────────────────────────

// TotalRowPatterns mark total/carry-over rows that must never become
// items; counting them would double the section total.
var TotalRowPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsub\s*-?\s*total\b`),
	regexp.MustCompile(`(?i)\btotal\b`),
	regexp.MustCompile(`(?i)\bcarried\s+(forward|to)\b`),
	regexp.MustCompile(`(?i)\bbrought\s+(forward|from)\b`),
	regexp.MustCompile(`(?i)\bsummary\b`),
	regexp.MustCompile(`(?i)\bgrand\s*total\b`),
}

var (
	// Single letter, optionally one digit: "A", "B1". Bill-part headers.
	headerCodePattern = regexp.MustCompile(`^[A-Za-z]\d?$`)
	// Letter prefix plus dotted numerics: "B1.2", "C2.1.3". Subheadings.
	subheaderCodePattern = regexp.MustCompile(`^[A-Za-z]+\d+(\.\d+)+$`)
	// A valid item code starts with a letter.
	itemCodePattern = regexp.MustCompile(`^[A-Za-z]`)
)

// ── Prime-Cost / Provisional-Sum detection ──────────────────────────────

// PrimeCostPatterns flag rows that carry a Prime Cost or Provisional Sum
// allowance.
var PrimeCostPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bprime\s*cost\b`),
	regexp.MustCompile(`(?i)^P\.?C\.?\b`),
	regexp.MustCompile(`(?i)\bprovisional\s*sum\b`),
	regexp.MustCompile(`(?i)^P\.?S\.?\b`),
	regexp.MustCompile(`(?i)\ballowance\s+for\b`),
	regexp.MustCompile(`(?i)\bcontingenc(y|ies)\b`),
}

// PrimeCostExclusions suppress false positives: preliminaries and
// general-conditions text shares vocabulary with PC rows but is not an
// allowance.
var PrimeCostExclusions = []*regexp.Regexp{
	regexp.MustCompile(`(?i)preliminar`),
	regexp.MustCompile(`(?i)general\s*conditions?`),
	regexp.MustCompile(`(?i)\bp\s*&\s*gs?\b`),
}

// ── Profit & Attendance rows ────────────────────────────────────────────

// ProfitAttendancePatterns identify rows that state a P&A markup on a
// preceding Prime Cost item. Such rows are not items themselves.
var ProfitAttendancePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)profit\s*(and|&)\s*attendance`),
	regexp.MustCompile(`(?i)\bp\s*&\s*a\b`),
	regexp.MustCompile(`(?i)\battendance\s+on\b`),
}

// paCodeRefPattern pulls an explicit item-code backreference out of a
// P&A row, e.g. "Allow profit and attendance 10% to PC1".
var paCodeRefPattern = regexp.MustCompile(`(?i)\b(?:on|to)\s+([A-Za-z]+\d+(?:\.\d+)*)\b`)

// percentTokenPattern extracts an explicit "10%" style token.
var percentTokenPattern = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*%`)

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	if s == "" {
		return false
	}
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
