package services

import (
	"math"

	"github.com/pocketbase/pocketbase/core"

	"boqledger/parser"
)

// MatchBand buckets a section's reconciliation quality for display
// (green / amber / red).
type MatchBand string

const (
	BandReconciled MatchBand = "reconciled"
	BandNearMatch  MatchBand = "near_match"
	BandMismatched MatchBand = "mismatched"
)

const (
	reconciledTolerance = 0.01
	nearMatchTolerance  = 5.0
)

// SectionStatus compares one parsed section against its ledger state.
type SectionStatus struct {
	SectionCode     string    `json:"section_code"`
	SectionName     string    `json:"section_name"`
	BillNumber      int       `json:"bill_number"`
	Imported        bool      `json:"imported"`
	ItemCount       int       `json:"item_count"`
	BOQTotal        float64   `json:"boq_total"`
	RebuiltTotal    float64   `json:"rebuilt_total"`
	MatchPercentage float64   `json:"match_percentage"`
	Band            MatchBand `json:"band"`
}

// Reconcile compares freshly parsed sections against the ledger. Every
// parsed section gets a status; sections never imported report zero
// rebuilt totals and a mismatched band.
func Reconcile(app core.App, projectID string, sections []*parser.ParsedSection) ([]SectionStatus, error) {
	statuses := make([]SectionStatus, 0, len(sections))

	for _, sec := range sections {
		status := SectionStatus{
			SectionCode: sec.SectionCode,
			SectionName: sec.SectionName,
			BillNumber:  sec.BillNumber,
			BOQTotal:    sec.BOQTotal,
		}

		secRec, err := findLedgerSection(app, projectID, sec)
		if err != nil {
			return nil, err
		}
		if secRec != nil {
			status.Imported = true
			items, err := sectionItems(app, secRec.Id)
			if err != nil {
				return nil, err
			}
			for _, rec := range items {
				if rec.GetString("row_type") == string(parser.RowTypeHeader) {
					continue
				}
				status.RebuiltTotal += rec.GetFloat("contract_amount")
			}
			status.ItemCount = len(items)
		}

		status.MatchPercentage = MatchPercentage(status.RebuiltTotal, status.BOQTotal, status.ItemCount)
		status.Band = Band(status.MatchPercentage)
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// MatchPercentage rates how much of the parsed total the ledger rebuild
// accounts for, capped at 100. With no stated total to compare against,
// any imported items count as a full match.
func MatchPercentage(rebuilt, boqTotal float64, itemCount int) float64 {
	if boqTotal > 0 {
		return math.Min(100, rebuilt/boqTotal*100)
	}
	if itemCount > 0 {
		return 100
	}
	return 0
}

// Band maps a match percentage to its display band: a gap under 0.01
// points is fully reconciled, under 5 points a near match, anything
// wider a mismatch.
func Band(matchPercentage float64) MatchBand {
	gap := math.Abs(matchPercentage - 100)
	switch {
	case gap < reconciledTolerance:
		return BandReconciled
	case gap < nearMatchTolerance:
		return BandNearMatch
	default:
		return BandMismatched
	}
}

func findLedgerSection(app core.App, projectID string, sec *parser.ParsedSection) (*core.Record, error) {
	bill, _ := app.FindFirstRecordByFilter("bills",
		"project = {:project} && bill_number = {:number}",
		map[string]any{"project": projectID, "number": sec.BillNumber})
	if bill == nil {
		return nil, nil
	}
	rec, _ := app.FindFirstRecordByFilter("boq_sections",
		"bill = {:bill} && section_code = {:code}",
		map[string]any{"bill": bill.Id, "code": sec.SectionCode})
	return rec, nil
}
