package workflow

import (
	"context"
	"fmt"
	"sort"
)

// Definition is a compiled, read-only transition table. It is safe for
// concurrent use and evaluates transitions without holding any state.
type Definition struct {
	table map[State]map[Trigger][]transition
}

// Next returns the state reached by firing trigger from state. Guards are
// tried in registration order; the first passing one wins.
func (d *Definition) Next(ctx context.Context, from State, trigger Trigger) (State, error) {
	if !from.IsValid() {
		return from, errInvalidState(from)
	}
	if !trigger.IsValid() {
		return from, fmt.Errorf("%w: %q", ErrInvalidTrigger, trigger)
	}

	transitions := d.table[from][trigger]
	if len(transitions) == 0 {
		return from, fmt.Errorf("%w: %s is not allowed from %s", ErrInvalidTransition, trigger, from)
	}

	for _, t := range transitions {
		if t.guard == nil || t.guard(ctx) {
			return t.toState, nil
		}
	}

	return from, fmt.Errorf("%w: %s from %s", ErrGuardFailed, trigger, from)
}

// Permitted lists the triggers configured for state, sorted for stable output.
func (d *Definition) Permitted(state State) []Trigger {
	byTrigger := d.table[state]
	triggers := make([]Trigger, 0, len(byTrigger))
	for trigger := range byTrigger {
		triggers = append(triggers, trigger)
	}
	sort.Slice(triggers, func(i, j int) bool { return triggers[i] < triggers[j] })
	return triggers
}

// IsTerminal reports whether no action leaves state.
func (d *Definition) IsTerminal(state State) bool {
	return len(d.table[state]) == 0
}

// Machine returns a stateful machine positioned at initialState.
func (d *Definition) Machine(initialState State) StateMachine {
	if !initialState.IsValid() {
		panic(fmt.Sprintf("invalid initial state: %s", initialState))
	}
	return &stateMachine{def: d, currentState: initialState}
}
