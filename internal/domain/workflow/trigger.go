package workflow

import "strings"

// Trigger is a reviewer action submitted through the action endpoint.
type Trigger string

const (
	TriggerAccountingApprove Trigger = "accounting_approve"
	TriggerAccountingReject  Trigger = "accounting_reject"
	TriggerSendToExecutive   Trigger = "send_to_executive"
	TriggerExecutiveApprove  Trigger = "executive_approve"
	TriggerExecutiveReject   Trigger = "executive_reject"
	TriggerCancelApproval    Trigger = "cancel_approval"
)

var allTriggers = []Trigger{
	TriggerAccountingApprove,
	TriggerAccountingReject,
	TriggerSendToExecutive,
	TriggerExecutiveApprove,
	TriggerExecutiveReject,
	TriggerCancelApproval,
}

// Triggers returns the six accepted actions.
func Triggers() []Trigger {
	out := make([]Trigger, len(allTriggers))
	copy(out, allTriggers)
	return out
}

// TriggerList renders the accepted actions for error messages.
func TriggerList() string {
	names := make([]string, len(allTriggers))
	for i, t := range allTriggers {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}

// IsValid reports whether t is one of the accepted actions.
func (t Trigger) IsValid() bool {
	for _, known := range allTriggers {
		if t == known {
			return true
		}
	}
	return false
}
