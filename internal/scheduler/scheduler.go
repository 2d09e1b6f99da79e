package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"staybook-backend/internal/jobs"
	"staybook-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a scheduler for every job the runner can serve
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers the scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	if s.jobs.CanSendReminders() {
		if _, err := s.cron.AddFunc(cfg.SendActionReminders, s.jobs.SendActionReminders); err != nil {
			logger.Error("Failed to register SendActionReminders job", "error", err)
		}
	}

	// The suggestion registry is in-process, so only the process owning it
	// can purge it.
	if s.jobs.CanPurgeSuggestions() {
		if _, err := s.cron.AddFunc(cfg.PurgeSuggestions, s.jobs.PurgeStaleSuggestions); err != nil {
			logger.Error("Failed to register PurgeStaleSuggestions job", "error", err)
		}
	}

	logger.Info("Cron jobs registered", "count", len(s.cron.Entries()))
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler has jobs to run
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
