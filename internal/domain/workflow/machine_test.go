package workflow

import (
	"context"
	"errors"
	"testing"
)

type guardKey struct{}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"unconfirmed", StateUnconfirmed, true},
		{"executive approved", StateExecutiveApproved, true},
		{"english alias", State("UNCONFIRMED"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseState(t *testing.T) {
	tests := []struct {
		raw     string
		want    State
		wantErr bool
	}{
		{"", StateUnconfirmed, false},
		{"役員確認待ち", StatePendingExecutive, false},
		{"承認済", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseState(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidState) {
					t.Fatalf("ParseState(%q) error = %v, want ErrInvalidState", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseState(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseState(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTrigger_IsValid(t *testing.T) {
	for _, trigger := range Triggers() {
		if !trigger.IsValid() {
			t.Errorf("%s should be valid", trigger)
		}
	}
	if Trigger("approve").IsValid() {
		t.Error("approve should not be valid")
	}
	if len(Triggers()) != 6 {
		t.Errorf("Triggers() returned %d actions, want 6", len(Triggers()))
	}
}

func TestBuilder_Configure(t *testing.T) {
	builder := NewBuilder()

	config := builder.Configure(StateUnconfirmed)
	if config == nil {
		t.Fatal("Configure() returned nil")
	}

	if config2 := builder.Configure(StateUnconfirmed); config != config2 {
		t.Error("Configure() should return same config for same state")
	}
}

func TestBuilder_ConfigurePanicsOnInvalidState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid state")
		}
	}()

	builder.Configure(State("INVALID"))
}

func TestBuilder_BuildPanicsOnInvalidInitialState(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Build() should panic on invalid initial state")
		}
	}()

	builder.Build(State("INVALID"))
}

func TestStateConfiguration_PermitPanicsOnInvalidTrigger(t *testing.T) {
	builder := NewBuilder()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Permit() should panic on unknown trigger")
		}
	}()

	builder.Configure(StateUnconfirmed).Permit(Trigger("approve"), StateAccountingApproved)
}

func TestStateConfiguration_Permit(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateUnconfirmed).
		Permit(TriggerSendToExecutive, StatePendingExecutive)

	machine := builder.Build(StateUnconfirmed)

	if !machine.CanFire(TriggerSendToExecutive) {
		t.Error("CanFire() should return true for permitted trigger")
	}

	if err := machine.Fire(context.Background(), TriggerSendToExecutive); err != nil {
		t.Errorf("Fire() failed: %v", err)
	}

	if machine.State() != StatePendingExecutive {
		t.Errorf("State after Fire() = %v, want %v", machine.State(), StatePendingExecutive)
	}
}

func TestStateConfiguration_PermitIf_GuardFails(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateUnconfirmed).
		PermitIf(TriggerAccountingApprove, StateAccountingApproved, func(ctx context.Context) bool {
			return false
		})

	machine := builder.Build(StateUnconfirmed)

	err := machine.Fire(context.Background(), TriggerAccountingApprove)
	if !errors.Is(err, ErrGuardFailed) {
		t.Fatalf("Fire() error = %v, want %v", err, ErrGuardFailed)
	}

	if machine.State() != StateUnconfirmed {
		t.Errorf("State should remain %v after failed Fire(), got %v", StateUnconfirmed, machine.State())
	}
}

func TestStateConfiguration_PermitIf_MultipleTransitions(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StatePendingExecutive).
		PermitIf(TriggerExecutiveApprove, StateExecutiveApproved, func(ctx context.Context) bool {
			v, _ := ctx.Value(guardKey{}).(bool)
			return v
		}).
		PermitIf(TriggerExecutiveApprove, StateRejected, func(ctx context.Context) bool {
			v, _ := ctx.Value(guardKey{}).(bool)
			return !v
		})

	machine1 := builder.Build(StatePendingExecutive)
	ctx1 := context.WithValue(context.Background(), guardKey{}, true)
	if err := machine1.Fire(ctx1, TriggerExecutiveApprove); err != nil {
		t.Errorf("Fire() failed: %v", err)
	}
	if machine1.State() != StateExecutiveApproved {
		t.Errorf("State after Fire() = %v, want %v", machine1.State(), StateExecutiveApproved)
	}

	machine2 := builder.Build(StatePendingExecutive)
	ctx2 := context.WithValue(context.Background(), guardKey{}, false)
	if err := machine2.Fire(ctx2, TriggerExecutiveApprove); err != nil {
		t.Errorf("Fire() failed: %v", err)
	}
	if machine2.State() != StateRejected {
		t.Errorf("State after Fire() = %v, want %v", machine2.State(), StateRejected)
	}
}

func TestStateMachine_Fire_InvalidTransition(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateUnconfirmed).
		Permit(TriggerSendToExecutive, StatePendingExecutive)

	machine := builder.Build(StateUnconfirmed)

	err := machine.Fire(context.Background(), TriggerExecutiveApprove)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Fire() error = %v, want %v", err, ErrInvalidTransition)
	}

	if machine.State() != StateUnconfirmed {
		t.Errorf("State should remain %v after failed Fire(), got %v", StateUnconfirmed, machine.State())
	}
}

func TestStateMachine_Fire_UnknownTrigger(t *testing.T) {
	machine := NewBuilder().Build(StateUnconfirmed)

	err := machine.Fire(context.Background(), Trigger("approve"))
	if !errors.Is(err, ErrInvalidTrigger) {
		t.Errorf("Fire() error = %v, want %v", err, ErrInvalidTrigger)
	}
}

func TestDefinition_IsolatedFromLaterConfiguration(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateUnconfirmed).
		Permit(TriggerSendToExecutive, StatePendingExecutive)

	def := builder.Definition()
	builder.Configure(StateUnconfirmed).
		Permit(TriggerAccountingReject, StateRejected)

	if _, err := def.Next(context.Background(), StateUnconfirmed, TriggerAccountingReject); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("definition should not see transitions added after compile, got %v", err)
	}
}

func TestDefinition_PermittedAndTerminal(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateUnconfirmed).
		Permit(TriggerSendToExecutive, StatePendingExecutive).
		Permit(TriggerAccountingApprove, StateAccountingApproved)

	def := builder.Definition()

	got := def.Permitted(StateUnconfirmed)
	want := []Trigger{TriggerAccountingApprove, TriggerSendToExecutive}
	if len(got) != len(want) {
		t.Fatalf("Permitted() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Permitted()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if def.IsTerminal(StateUnconfirmed) {
		t.Error("unconfirmed has outgoing transitions")
	}
	if !def.IsTerminal(StateAccountingApproved) {
		t.Error("accounting approved has no outgoing transitions in this definition")
	}
}
