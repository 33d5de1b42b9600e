// Package jobs provides scheduled background tasks for the dispatch engine.
//
// The single job here, ReassignmentJob, runs the stalled-work sweep on a
// fixed interval using github.com/robfig/cron/v3: it expires offers whose
// deadline passed and retries courier placement for legs without one, within
// each delivery's retry budget.
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(reassignHandler, 30*time.Second, true, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// Ticks are chained with cron.SkipIfStillRunning so a slow sweep is never
// overlapped by the next one.
package jobs
