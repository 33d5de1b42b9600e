package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ReassignmentJob periodically expires overdue offers and retries placement
// of unassigned legs. Runs are serialized: a tick that fires while the
// previous sweep is still working is skipped.
type ReassignmentJob struct {
	handler  commands.ReassignStalledCommandHandler
	cron     *cron.Cron
	interval time.Duration
	logger   *slog.Logger
}

// NewReassignmentJob creates a job running the reassignment sweep every
// interval.
func NewReassignmentJob(
	handler commands.ReassignStalledCommandHandler,
	interval time.Duration,
	logger *slog.Logger,
) *ReassignmentJob {
	return &ReassignmentJob{
		handler:  handler,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		interval: interval,
		logger:   logger.With("component", "reassignment_job"),
	}
}

// Start begins the reassignment sweep.
func (j *ReassignmentJob) Start() error {
	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		ctx := context.Background()
		cmd := commands.NewReassignStalledCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Reassignment sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reassignment job started",
		"interval", j.interval.String())
	return nil
}

// Stop stops the reassignment sweep.
func (j *ReassignmentJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Reassignment job stopped")
}
