package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/service"
)

func TestNotifier_Notify(t *testing.T) {
	ctx := context.Background()
	attrs := map[string]string{"reservation_id": "1", "check_in": "2024-06-15", "check_out": "2024-06-20"}

	t.Run("Inbox and email for every target", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		userRepo := new(MockUserRepo)
		emailSvc := new(MockEmailService)
		n := service.NewNotifier(noteRepo, userRepo, emailSvc)

		var stored []*domain.Notification
		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil).Run(func(args mock.Arguments) {
			stored = append(stored, args.Get(1).(*domain.Notification))
		})
		userRepo.On("GetByID", ctx, int32(5)).Return(&domain.User{ID: 5, Email: "ana@ops.example", Name: "Ana"}, nil)
		userRepo.On("GetByID", ctx, int32(6)).Return(&domain.User{ID: 6, Email: "ben@ops.example", Name: "Ben"}, nil)
		emailSvc.On("Send", ctx, mock.Anything, mock.Anything, "Reservation Needs a Home", mock.Anything).Return(nil)

		err := n.Notify(ctx, domain.NotificationReservationPublished, []int32{5, 6}, attrs)
		require.NoError(t, err)
		require.Len(t, stored, 2)
		assert.Equal(t, int32(5), stored[0].UserID)
		assert.Equal(t, domain.NotificationReservationPublished, stored[0].Kind)
		assert.Equal(t, "RESERVATION_PUBLISHED", stored[0].Attributes["type"])
		assert.NotEmpty(t, stored[0].Attributes["correlation_id"])
		assert.Equal(t, stored[0].Attributes["correlation_id"], stored[1].Attributes["correlation_id"])
		assert.Contains(t, stored[0].Message, "2024-06-15")
		assert.NotContains(t, attrs, "type")
		emailSvc.AssertNumberOfCalls(t, "Send", 2)
	})

	t.Run("One failed target does not stop the rest", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		userRepo := new(MockUserRepo)
		n := service.NewNotifier(noteRepo, userRepo, nil)

		noteRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool { return n.UserID == 5 })).Return(errors.New("deadlock"))
		noteRepo.On("Create", ctx, mock.MatchedBy(func(n *domain.Notification) bool { return n.UserID != 5 })).Return(nil)

		err := n.Notify(ctx, domain.NotificationReservationPublished, []int32{5, 6, 7}, attrs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inbox for user 5")
		noteRepo.AssertNumberOfCalls(t, "Create", 3)
	})

	t.Run("Email failure is reported", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		userRepo := new(MockUserRepo)
		emailSvc := new(MockEmailService)
		n := service.NewNotifier(noteRepo, userRepo, emailSvc)

		noteRepo.On("Create", ctx, mock.Anything).Return(nil)
		userRepo.On("GetByID", ctx, int32(3)).Return(&domain.User{ID: 3, Email: "guest@example.com", Name: "Guest"}, nil)
		emailSvc.On("Send", ctx, "guest@example.com", "Guest", "Booking Accepted", mock.Anything).Return(errors.New("421 try later"))

		err := n.Notify(ctx, domain.NotificationBookingAccepted, []int32{3}, attrs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "email for user 3")
	})

	t.Run("Unknown kind", func(t *testing.T) {
		n := service.NewNotifier(new(MockNotificationRepo), new(MockUserRepo), nil)
		err := n.Notify(ctx, domain.NotificationKind("BOGUS"), []int32{1}, nil)
		assert.Error(t, err)
	})
}

func TestNotificationService(t *testing.T) {
	ctx := context.Background()
	noteRepo := new(MockNotificationRepo)
	svc := service.NewNotificationService(noteRepo)

	noteRepo.On("List", ctx, int32(3), int32(20), int32(20)).Return([]domain.Notification{{ID: 1}}, int32(21), nil)
	noteRepo.On("MarkAsRead", ctx, int32(1), int32(3)).Return(nil)

	notes, total, err := svc.GetNotifications(ctx, 3, 2, 0)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
	assert.Equal(t, int32(21), total)
	assert.NoError(t, svc.MarkAsRead(ctx, 3, 1))
}
