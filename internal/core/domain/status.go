package domain

import "fmt"

// Status represents the lifecycle state of a WFH application.
//
// Valid status graph:
//
//	Pending ──► Approved ──► Withdrawn
//	    │            │
//	    ├──► Rejected┘(terminal)
//	    └──► Withdrawn (terminal)
//
// Rejected and Withdrawn are terminal states.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusApproved  Status = "Approved"
	StatusRejected  Status = "Rejected"
	StatusWithdrawn Status = "Withdrawn"
)

// validTransitions lists every allowed (from → to) pair.
// Approved is the only non-Pending state with a legal exit.
var validTransitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected, StatusWithdrawn},
	StatusApproved: {StatusWithdrawn},
	// Rejected and Withdrawn are terminal — no outgoing transitions
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusApproved, StatusRejected, StatusWithdrawn:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// CanTransition returns true when moving from → to is permitted by the
// state machine.
func CanTransition(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal state
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true when the status accepts no further transitions.
func IsTerminal(s Status) bool {
	_, ok := validTransitions[s]
	return !ok
}

// ApplicationType distinguishes recurring applications from one-offs.
type ApplicationType string

const (
	TypeRegular ApplicationType = "Regular"
	TypeAdHoc   ApplicationType = "Ad Hoc"
)

// ParseApplicationType converts a raw string to an ApplicationType.
func ParseApplicationType(s string) (ApplicationType, error) {
	t := ApplicationType(s)
	switch t {
	case TypeRegular, TypeAdHoc:
		return t, nil
	}
	return "", fmt.Errorf("unknown application type %q", s)
}
