package cluster

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery leg.
//
// State transitions:
//
//	Pending ──> Assigned ──> Completed
//	   ^            │
//	   └────────────┘
//	 (assignment cleared)
//
// Cancelled is reachable from Pending and Assigned. Completed and Cancelled
// are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status: the leg has no courier.
	Pending

	// Assigned indicates a courier holds the leg.
	Assigned

	// Completed is the successful terminal state.
	Completed

	// Cancelled is the terminal state for abandoned legs.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Assigned:  "Assigned",
		Completed: "Completed",
		Cancelled: "Cancelled",
	}
}

// Validate checks the Status is one of the defined lifecycle states.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}
