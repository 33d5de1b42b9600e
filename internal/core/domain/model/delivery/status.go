package delivery

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery.
//
// State transitions:
//
//	Pending ──> Assigned ──> PickedUp ──> Delivered
//	   ^            │
//	   └────────────┘
//	 (offer declined or expired)
//
// Cancelled is reachable from every non-terminal state. Delivered and
// Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status. The zero value
	// helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status: the delivery is waiting for a courier.
	Pending

	// Assigned indicates a courier has an open or accepted offer for the
	// delivery.
	Assigned

	// PickedUp indicates the assigned courier collected the goods.
	PickedUp

	// Delivered is the successful terminal state.
	Delivered

	// Cancelled is the terminal state for abandoned deliveries.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Assigned:  "Assigned",
		PickedUp:  "PickedUp",
		Delivered: "Delivered",
		Cancelled: "Cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "Pending",
		Assigned:  "Assigned",
		PickedUp:  "PickedUp",
		Delivered: "Delivered",
		Cancelled: "Cancelled",
	}
}

// Validate checks the Status is one of the defined lifecycle states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
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
	return s == Delivered || s == Cancelled
}

// Assign transitions to Assigned. Allowed from Pending (initial assignment)
// and Assigned (reassignment to a different courier).
func (s Status) Assign() (Status, error) {
	if s != Pending && s != Assigned {
		return 0, errs.NewBusinessRuleError(
			fmt.Sprintf("%s is not a valid status to assign", s))
	}

	return Assigned, nil
}

// Unassign returns the delivery to Pending after a declined or expired
// offer. Allowed from Assigned only.
func (s Status) Unassign() (Status, error) {
	if s != Assigned {
		return 0, errs.NewBusinessRuleError(
			fmt.Sprintf("%s is not a valid status to unassign", s))
	}

	return Pending, nil
}

// PickUp transitions to PickedUp. Allowed from Assigned only.
func (s Status) PickUp() (Status, error) {
	if s != Assigned {
		return 0, errs.NewBusinessRuleError(
			fmt.Sprintf("%s is not a valid status to pick up", s))
	}

	return PickedUp, nil
}

// Deliver transitions to the terminal Delivered state. Allowed from Assigned
// and PickedUp; completion straight from Assigned mirrors couriers who never
// report the pickup event.
func (s Status) Deliver() (Status, error) {
	if s != Assigned && s != PickedUp {
		return 0, errs.NewBusinessRuleError(
			fmt.Sprintf("%s is not a valid status to deliver", s))
	}

	return Delivered, nil
}

// Cancel transitions to the terminal Cancelled state from any non-terminal
// state.
func (s Status) Cancel() (Status, error) {
	if s.IsTerminal() {
		return 0, errs.NewBusinessRuleError(
			fmt.Sprintf("delivery is already %s", s))
	}

	return Cancelled, nil
}
