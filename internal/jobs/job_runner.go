package jobs

import (
	"context"

	"staybook-backend/internal/clock"
	"staybook-backend/internal/config"
	"staybook-backend/internal/logger"
	"staybook-backend/internal/metrics"
	"staybook-backend/internal/repository"
	"staybook-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	resRepo  repository.ReservationRepository
	services *Services
	clock    clock.Clock
	config   *config.Config
	metrics  *metrics.ReservationMetrics
}

// Services holds the service dependencies needed by jobs. A nil member
// disables the jobs that need it.
type Services struct {
	Notifier    service.Notifier
	Suggestions service.SuggestionService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(resRepo repository.ReservationRepository, services *Services, clk clock.Clock, cfg *config.Config) *JobRunner {
	if services == nil {
		services = &Services{}
	}
	return &JobRunner{
		resRepo:  resRepo,
		services: services,
		clock:    clk,
		config:   cfg,
		metrics:  metrics.Reservation(),
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// CanSendReminders reports whether the reminder job has its dependencies.
func (jr *JobRunner) CanSendReminders() bool {
	return jr.resRepo != nil && jr.services.Notifier != nil
}

// CanPurgeSuggestions reports whether this process owns a suggestion registry.
func (jr *JobRunner) CanPurgeSuggestions() bool {
	return jr.services.Suggestions != nil
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	ctx := logger.WithAttrs(context.Background(), "job", jobName)
	failed := true
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorContext(ctx, "Job panicked", "panic", r)
		}
		jr.metrics.ObserveJobRun(jobName, failed)
	}()

	logger.InfoContext(ctx, "Starting job")
	jobFunc()
	failed = false
	logger.InfoContext(ctx, "Job completed")
}

// RunAll runs every job whose dependencies are present (for manual execution)
func (jr *JobRunner) RunAll() {
	if jr.CanSendReminders() {
		jr.SendActionReminders()
	}
	if jr.CanPurgeSuggestions() {
		jr.PurgeStaleSuggestions()
	}
}
