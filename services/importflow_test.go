package services_test

import (
	"testing"

	"boqledger/services"
)

func TestImportFlow_HappyPath(t *testing.T) {
	flow := services.NewImportFlow()

	steps := []struct {
		cmd  services.FlowCommand
		want services.FlowState
	}{
		{services.CommandLoadParse, services.StateReview},
		{services.CommandConfirm, services.StateConfirm},
		{services.CommandBegin, services.StateImporting},
		{services.CommandFinish, services.StateComplete},
		{services.CommandReset, services.StateSelectSource},
	}

	if flow.State() != services.StateSelectSource {
		t.Fatalf("initial state = %q, want selectSource", flow.State())
	}
	for _, step := range steps {
		if err := flow.Apply(step.cmd); err != nil {
			t.Fatalf("Apply(%q) error = %v", step.cmd, err)
		}
		if flow.State() != step.want {
			t.Fatalf("after %q state = %q, want %q", step.cmd, flow.State(), step.want)
		}
	}
}

func TestImportFlow_BackNavigation(t *testing.T) {
	flow := services.NewImportFlow()
	mustApply(t, flow, services.CommandLoadParse, services.CommandConfirm)

	if err := flow.Apply(services.CommandBack); err != nil {
		t.Fatalf("back from confirm: %v", err)
	}
	if flow.State() != services.StateReview {
		t.Errorf("state = %q, want review", flow.State())
	}

	if err := flow.Apply(services.CommandBack); err != nil {
		t.Fatalf("back from review: %v", err)
	}
	if flow.State() != services.StateSelectSource {
		t.Errorf("state = %q, want selectSource", flow.State())
	}
}

func TestImportFlow_IllegalCommandsLeaveStateUnchanged(t *testing.T) {
	tests := []struct {
		name  string
		setup []services.FlowCommand
		cmd   services.FlowCommand
	}{
		{"confirm before any parse", nil, services.CommandConfirm},
		{"begin straight from review", []services.FlowCommand{services.CommandLoadParse}, services.CommandBegin},
		{"back out of importing", []services.FlowCommand{services.CommandLoadParse, services.CommandConfirm, services.CommandBegin}, services.CommandBack},
		{"reset mid-import", []services.FlowCommand{services.CommandLoadParse, services.CommandConfirm, services.CommandBegin}, services.CommandReset},
		{"finish after completion", []services.FlowCommand{services.CommandLoadParse, services.CommandConfirm, services.CommandBegin, services.CommandFinish}, services.CommandFinish},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := services.NewImportFlow()
			mustApply(t, flow, tt.setup...)

			before := flow.State()
			if err := flow.Apply(tt.cmd); err == nil {
				t.Fatalf("Apply(%q) in state %q succeeded, want error", tt.cmd, before)
			}
			if flow.State() != before {
				t.Errorf("state changed to %q after rejected command", flow.State())
			}
		})
	}
}

func mustApply(t *testing.T, flow *services.ImportFlow, cmds ...services.FlowCommand) {
	t.Helper()
	for _, cmd := range cmds {
		if err := flow.Apply(cmd); err != nil {
			t.Fatalf("setup Apply(%q): %v", cmd, err)
		}
	}
}
