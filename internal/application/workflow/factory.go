// Package workflow wires the expense check-status table onto the generic
// domain state machine.
package workflow

import (
	"context"
	"fmt"
	"strings"

	domainwf "github.com/garyjia/settlement-portal/internal/domain/workflow"
)

// Acknowledgement carries the two confirmations a reviewer ticks before an
// accounting approval.
type Acknowledgement struct {
	ReceiptReviewed  bool
	ContentConfirmed bool
}

type ackKey struct{}

// WithAcknowledgement attaches the reviewer's confirmations to ctx. Without
// it the accounting-approval guard passes.
func WithAcknowledgement(ctx context.Context, ack Acknowledgement) context.Context {
	return context.WithValue(ctx, ackKey{}, ack)
}

func acknowledged(ctx context.Context) bool {
	ack, ok := ctx.Value(ackKey{}).(Acknowledgement)
	if !ok {
		return true
	}
	return ack.ReceiptReviewed && ack.ContentConfirmed
}

// checkDefinition is compiled once; Definition is read-only.
var checkDefinition = buildCheckDefinition()

func configureCheckTransitions(builder domainwf.StateMachineBuilder) {
	builder.Configure(domainwf.StateUnconfirmed).
		PermitIf(domainwf.TriggerAccountingApprove, domainwf.StateAccountingApproved, acknowledged).
		Permit(domainwf.TriggerAccountingReject, domainwf.StateRejected).
		Permit(domainwf.TriggerSendToExecutive, domainwf.StatePendingExecutive)

	// A rejected application may be resubmitted by accounting.
	builder.Configure(domainwf.StateRejected).
		PermitIf(domainwf.TriggerAccountingApprove, domainwf.StateAccountingApproved, acknowledged).
		Permit(domainwf.TriggerSendToExecutive, domainwf.StatePendingExecutive)

	builder.Configure(domainwf.StatePendingExecutive).
		Permit(domainwf.TriggerExecutiveApprove, domainwf.StateExecutiveApproved).
		Permit(domainwf.TriggerExecutiveReject, domainwf.StateRejected)

	builder.Configure(domainwf.StateExecutiveApproved).
		Permit(domainwf.TriggerCancelApproval, domainwf.StateUnconfirmed)

	// 経理承認済 has no outgoing actions.
	builder.Configure(domainwf.StateAccountingApproved)
}

func buildCheckDefinition() *domainwf.Definition {
	builder := domainwf.NewBuilder()
	configureCheckTransitions(builder)
	return builder.Definition()
}

// BuildCheckStateMachine creates a machine for the two-stage expense review.
func BuildCheckStateMachine(initialState domainwf.State) domainwf.StateMachine {
	return checkDefinition.Machine(initialState)
}

// CheckDefinition exposes the compiled table for callers that only need
// lookups, such as listing the actions available for a status.
func CheckDefinition() *domainwf.Definition {
	return checkDefinition
}

// Apply validates action against current and returns the resulting status.
// It has no side effects; persisting the result is up to the caller.
func Apply(ctx context.Context, current domainwf.State, action domainwf.Trigger, checker string) (domainwf.State, error) {
	if strings.TrimSpace(checker) == "" {
		return current, fmt.Errorf("%w: action %s", domainwf.ErrMissingChecker, action)
	}
	return checkDefinition.Next(ctx, current, action)
}
