package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"staybook-backend/internal/clock"
	"staybook-backend/internal/config"
	"staybook-backend/internal/jobs"
	"staybook-backend/internal/scheduler"
	"staybook-backend/internal/service"
)

type stubSuggestions struct {
	service.SuggestionService
}

func (stubSuggestions) PurgeStale(context.Context) int { return 0 }

func TestNewScheduler(t *testing.T) {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{
		SendActionReminders: "0 0 * * * *",
		PurgeSuggestions:    "0 */5 * * * *",
	}}
	clk := clock.NewFixed(time.Date(2024, 5, 22, 0, 0, 0, 0, time.UTC))

	t.Run("Only jobs with dependencies are registered", func(t *testing.T) {
		runner := jobs.NewJobRunner(nil, &jobs.Services{Suggestions: stubSuggestions{}}, clk, cfg)
		s := scheduler.NewScheduler(runner)
		assert.True(t, s.IsRunning())
	})

	t.Run("Nothing to run", func(t *testing.T) {
		runner := jobs.NewJobRunner(nil, nil, clk, cfg)
		s := scheduler.NewScheduler(runner)
		assert.False(t, s.IsRunning())
	})

	t.Run("Bad spec is skipped", func(t *testing.T) {
		bad := &config.Config{Scheduler: config.SchedulerConfig{PurgeSuggestions: "every so often"}}
		runner := jobs.NewJobRunner(nil, &jobs.Services{Suggestions: stubSuggestions{}}, clk, bad)
		s := scheduler.NewScheduler(runner)
		assert.False(t, s.IsRunning())
		s.Start()
		s.Stop()
	})
}
