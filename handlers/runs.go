// Package handlers exposes the BOQ extraction pipeline over HTTP:
// workbook upload and parse, per-section retry, ledger import,
// reconciliation and Excel export. Handlers stay thin; the work lives in
// the parser and services packages.
package handlers

import (
	"sync"
	"time"

	"boqledger/parser"
)

// defaultMaxRuns caps how many parse runs are held in memory at once.
const defaultMaxRuns = 32

// ParseRun holds one upload's decoded workbook together with its parse
// result. The workbook is kept so a section retry can re-read the raw
// rows without asking the client to upload again.
type ParseRun struct {
	ProjectID string
	Workbook  *parser.Workbook
	Result    *parser.ParseResult
	CreatedAt time.Time
}

// RunRegistry is an in-memory store of recent parse runs keyed by run
// id. Runs are transient by design: the ledger is the durable state and
// a lost run only means re-uploading the workbook.
type RunRegistry struct {
	mu      sync.Mutex
	runs    map[string]*ParseRun
	maxRuns int
}

// NewRunRegistry creates a registry bounded at the default capacity.
func NewRunRegistry() *RunRegistry {
	return &RunRegistry{
		runs:    make(map[string]*ParseRun),
		maxRuns: defaultMaxRuns,
	}
}

// Put stores a run, evicting the oldest run when over capacity.
func (r *RunRegistry) Put(run *ParseRun) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	r.runs[run.Result.RunID] = run

	for len(r.runs) > r.maxRuns {
		oldestID := ""
		var oldest time.Time
		for id, candidate := range r.runs {
			if oldestID == "" || candidate.CreatedAt.Before(oldest) {
				oldestID = id
				oldest = candidate.CreatedAt
			}
		}
		delete(r.runs, oldestID)
	}
}

// Get returns the run for an id, or nil when unknown or evicted.
func (r *RunRegistry) Get(runID string) *ParseRun {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs[runID]
}
