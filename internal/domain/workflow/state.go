package workflow

// State is the check status of an expense application as stored by the
// system of record.
type State string

const (
	StateUnconfirmed        State = "未確認"
	StateAccountingApproved State = "経理承認済"
	StateRejected           State = "差し戻し"
	StatePendingExecutive   State = "役員確認待ち"
	StateExecutiveApproved  State = "最終承認済"
)

// InitialState is the status every new application starts in.
const InitialState = StateUnconfirmed

var validStates = map[State]bool{
	StateUnconfirmed:        true,
	StateAccountingApproved: true,
	StateRejected:           true,
	StatePendingExecutive:   true,
	StateExecutiveApproved:  true,
}

// States returns every check status in display order.
func States() []State {
	return []State{
		StateUnconfirmed,
		StateAccountingApproved,
		StateRejected,
		StatePendingExecutive,
		StateExecutiveApproved,
	}
}

// ParseState converts a raw status string, treating an empty value as the
// initial state since the system of record leaves fresh rows blank.
func ParseState(raw string) (State, error) {
	if raw == "" {
		return InitialState, nil
	}
	s := State(raw)
	if !s.IsValid() {
		return "", errInvalidState(s)
	}
	return s, nil
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a known check status
func (s State) IsValid() bool {
	return validStates[s]
}
