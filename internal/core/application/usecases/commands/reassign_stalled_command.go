package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrReassignStalledCommandIsNotConstructed = errors.New(
	"ReassignStalledCommand must be created via NewReassignStalledCommand constructor",
)

// ReassignStalledCommand triggers one sweep over stalled dispatch work:
// overdue offers are expired and unassigned pending legs are retried.
//
// Example:
//
//	cmd := NewReassignStalledCommand()
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("reassignment sweep failed: %v", err)
//	}
type ReassignStalledCommand struct {
	guard guard.ConstructorGuard
}

// NewReassignStalledCommand creates a new command to trigger a reassignment
// sweep. This is a parameterless command.
func NewReassignStalledCommand() ReassignStalledCommand {
	return ReassignStalledCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *ReassignStalledCommand) Validate() error {
	return c.guard.Validate(ErrReassignStalledCommandIsNotConstructed)
}
