package offer

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an offer. Pending is the only
// live state; every other state is a terminal resolution.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending means the courier has not responded yet.
	Pending

	// Accepted means the courier took the leg.
	Accepted

	// Declined means the courier refused the leg.
	Declined

	// Expired means the offer timed out before a response.
	Expired

	// Cancelled means the offer was withdrawn, typically because the
	// delivery was cancelled or a sibling offer was accepted first.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Accepted:  "Accepted",
		Declined:  "Declined",
		Expired:   "Expired",
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

// IsResolved reports whether the offer has left the Pending state.
func (s Status) IsResolved() bool {
	return s == Accepted || s == Declined || s == Expired || s == Cancelled
}
