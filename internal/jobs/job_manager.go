package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
)

// JobManager coordinates the scheduled jobs in the application. Provides a
// unified interface to start and stop all background jobs.
type JobManager struct {
	reassignmentJob *ReassignmentJob
	enabled         bool
}

// NewJobManager creates a job manager. When enabled is false the manager is
// inert and StartAll does nothing; expired offers and unassigned legs then
// stay put until an operator intervenes.
func NewJobManager(
	reassignHandler commands.ReassignStalledCommandHandler,
	checkInterval time.Duration,
	enabled bool,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		reassignmentJob: NewReassignmentJob(reassignHandler, checkInterval, logger),
		enabled:         enabled,
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if !jm.enabled {
		return nil
	}

	if err := jm.reassignmentJob.Start(); err != nil {
		return fmt.Errorf("failed to start reassignment job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	if !jm.enabled {
		return
	}

	jm.reassignmentJob.Stop()
}
