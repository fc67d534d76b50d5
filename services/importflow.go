package services

import "fmt"

// FlowState is one phase of the import wizard.
type FlowState string

const (
	StateSelectSource FlowState = "selectSource"
	StateReview       FlowState = "review"
	StateConfirm      FlowState = "confirm"
	StateImporting    FlowState = "importing"
	StateComplete     FlowState = "complete"
)

// FlowCommand is a discrete transition request.
type FlowCommand string

const (
	CommandLoadParse FlowCommand = "loadParse"
	CommandConfirm   FlowCommand = "confirm"
	CommandBack      FlowCommand = "back"
	CommandBegin     FlowCommand = "begin"
	CommandFinish    FlowCommand = "finish"
	CommandReset     FlowCommand = "reset"
)

// flowTransitions is the legal state machine: selectSource → review →
// confirm → importing → complete, with back-navigation out of review and
// confirm, and reset from any terminal-adjacent state.
var flowTransitions = map[FlowState]map[FlowCommand]FlowState{
	StateSelectSource: {
		CommandLoadParse: StateReview,
	},
	StateReview: {
		CommandConfirm: StateConfirm,
		CommandBack:    StateSelectSource,
		CommandReset:   StateSelectSource,
	},
	StateConfirm: {
		CommandBegin: StateImporting,
		CommandBack:  StateReview,
		CommandReset: StateSelectSource,
	},
	StateImporting: {
		CommandFinish: StateComplete,
	},
	StateComplete: {
		CommandReset: StateSelectSource,
	},
}

// ImportFlow is the explicit import wizard state machine. The
// surrounding shell owns an instance per upload session and drives it
// with Apply; the parsing and reconciliation code stays stateless.
type ImportFlow struct {
	state FlowState
}

// NewImportFlow starts a flow at source selection.
func NewImportFlow() *ImportFlow {
	return &ImportFlow{state: StateSelectSource}
}

// State returns the current phase.
func (f *ImportFlow) State() FlowState {
	return f.state
}

// Apply executes a transition command. Illegal commands leave the state
// unchanged and return an error.
func (f *ImportFlow) Apply(cmd FlowCommand) error {
	next, ok := flowTransitions[f.state][cmd]
	if !ok {
		return fmt.Errorf("command %q not allowed in state %q", cmd, f.state)
	}
	f.state = next
	return nil
}
