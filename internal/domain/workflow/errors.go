package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned when a state transition is not allowed
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidState is returned when a state is not valid
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidTrigger is returned for an action outside the accepted set
	ErrInvalidTrigger = errors.New("invalid action")

	// ErrGuardFailed is returned when a guard condition fails
	ErrGuardFailed = errors.New("guard condition failed")

	// ErrMissingChecker is returned when a transition is requested without an actor
	ErrMissingChecker = errors.New("checker is required")
)

func errInvalidState(s State) error {
	return fmt.Errorf("%w: %q", ErrInvalidState, s)
}
