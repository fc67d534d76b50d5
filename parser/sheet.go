package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// SheetClass is the classification of one worksheet name.
type SheetClass struct {
	SheetName   string
	Skip        bool
	SkipReason  string
	BillNumber  int
	BillName    string
	SectionCode string
	SectionName string
}

// ClassifySheet decides whether a worksheet is in scope and derives the
// bill/section identity from its name. Rules apply in order, first match
// wins:
//
//  1. summary/cover/notes style names and system scratch names are skipped
//  2. "1.2 Medium Voltage"  → bill 1, section "1.2"
//  3. "3 Small Power"       → bill 3 (or a pinned tenant bill number)
//  4. anything else         → bill 1, section code = section name = the name
func ClassifySheet(name string, opts Options) SheetClass {
	trimmed := strings.TrimSpace(name)
	cls := SheetClass{SheetName: name}

	if len(trimmed) < 3 {
		cls.Skip = true
		cls.SkipReason = "name too short"
		return cls
	}
	if systemSheetPattern.MatchString(trimmed) {
		cls.Skip = true
		cls.SkipReason = "system sheet name"
		return cls
	}
	for _, p := range SheetSkipPatterns {
		if p.MatchString(trimmed) {
			cls.Skip = true
			cls.SkipReason = fmt.Sprintf("matches skip pattern %q", p.String())
			return cls
		}
	}

	if m := sectionedSheetPattern.FindStringSubmatch(trimmed); m != nil {
		bill, _ := strconv.Atoi(m[1])
		cls.BillNumber = bill
		cls.BillName = fmt.Sprintf("Bill %d", bill)
		cls.SectionCode = m[1] + "." + m[2]
		cls.SectionName = strings.TrimSpace(m[3])
		return cls
	}

	if m := billedSheetPattern.FindStringSubmatch(trimmed); m != nil {
		n, _ := strconv.Atoi(m[1])
		sectionName := strings.TrimSpace(m[2])

		bill := 1
		if tenant, ok := lookupTenantBill(sectionName, opts.tenantBills()); ok {
			bill = tenant
		} else if n >= 1 && n <= maxGenericBillNumber {
			bill = n
		}
		cls.BillNumber = bill
		cls.BillName = fmt.Sprintf("Bill %d", bill)
		cls.SectionCode = m[1]
		cls.SectionName = sectionName
		return cls
	}

	// No recognizable numbering: the whole name doubles as section code
	// and section name under bill 1.
	cls.BillNumber = 1
	cls.BillName = "Bill 1"
	cls.SectionCode = trimmed
	cls.SectionName = trimmed
	return cls
}

// lookupTenantBill checks whether the section name carries a known tenant
// name. The pinned bill number wins over generic numbering so tenant
// bills stay stable across re-imports.
func lookupTenantBill(sectionName string, tenants map[string]int) (int, bool) {
	lower := strings.ToLower(sectionName)
	for tenant, bill := range tenants {
		if strings.Contains(lower, tenant) {
			return bill, true
		}
	}
	return 0, false
}
