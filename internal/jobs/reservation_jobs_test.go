package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"staybook-backend/internal/clock"
	"staybook-backend/internal/config"
	"staybook-backend/internal/domain"
	"staybook-backend/internal/jobs"
	"staybook-backend/internal/repository"
	"staybook-backend/internal/service"
)

type mockReservationRepo struct {
	repository.ReservationRepository
	mock.Mock
}

func (m *mockReservationRepo) ListPendingBlockingBetween(ctx context.Context, from, to time.Time) ([]domain.Reservation, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Notify(ctx context.Context, kind domain.NotificationKind, targetIDs []int32, attrs map[string]string) error {
	return m.Called(ctx, kind, targetIDs, attrs).Error(0)
}

type mockSuggestions struct {
	service.SuggestionService
	mock.Mock
}

func (m *mockSuggestions) PurgeStale(ctx context.Context) int {
	return m.Called(ctx).Int(0)
}

var now = time.Date(2024, 5, 22, 10, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{Reservation: config.ReservationConfig{ReminderLeadHours: 6}}
}

func TestSendActionReminders(t *testing.T) {
	from := now.Add(5 * time.Hour)
	to := now.Add(6 * time.Hour)

	t.Run("Reminds every owner and survives a failure", func(t *testing.T) {
		repo := new(mockReservationRepo)
		notifier := new(mockNotifier)
		runner := jobs.NewJobRunner(repo, &jobs.Services{Notifier: notifier}, clock.NewFixed(now), testConfig())

		repo.On("ListPendingBlockingBetween", mock.Anything, from, to).Return([]domain.Reservation{
			{ID: 1, OwnerID: 2, PropertyID: 10, BlockUntil: now.Add(330 * time.Minute)},
			{ID: 2, OwnerID: 4, PropertyID: 11, BlockUntil: now.Add(6 * time.Hour)},
		}, nil)
		notifier.On("Notify", mock.Anything, domain.NotificationActionReminder, []int32{2}, mock.MatchedBy(func(a map[string]string) bool {
			return a["reservation_id"] == "1" && a["block_until"] == "2024-05-22T15:30:00Z"
		})).Return(errors.New("mail relay down"))
		notifier.On("Notify", mock.Anything, domain.NotificationActionReminder, []int32{4}, mock.Anything).Return(nil)

		runner.SendActionReminders()

		notifier.AssertNumberOfCalls(t, "Notify", 2)
		repo.AssertExpectations(t)
	})

	t.Run("Query failure sends nothing", func(t *testing.T) {
		repo := new(mockReservationRepo)
		notifier := new(mockNotifier)
		runner := jobs.NewJobRunner(repo, &jobs.Services{Notifier: notifier}, clock.NewFixed(now), testConfig())

		repo.On("ListPendingBlockingBetween", mock.Anything, from, to).Return(nil, errors.New("db down"))

		runner.SendActionReminders()
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Panic is recovered", func(t *testing.T) {
		repo := new(mockReservationRepo)
		// no expectation set: the mock panics on the unexpected call
		runner := jobs.NewJobRunner(repo, &jobs.Services{Notifier: new(mockNotifier)}, clock.NewFixed(now), testConfig())
		assert.NotPanics(t, runner.SendActionReminders)
	})
}

func TestPurgeStaleSuggestions(t *testing.T) {
	suggestions := new(mockSuggestions)
	suggestions.On("PurgeStale", mock.Anything).Return(3)
	runner := jobs.NewJobRunner(nil, &jobs.Services{Suggestions: suggestions}, clock.NewFixed(now), testConfig())

	assert.False(t, runner.CanSendReminders())
	assert.True(t, runner.CanPurgeSuggestions())

	runner.RunAll()
	suggestions.AssertNumberOfCalls(t, "PurgeStale", 1)
}
