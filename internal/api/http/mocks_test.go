package http_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"staybook-backend/internal/calendar"
	"staybook-backend/internal/domain"
	"staybook-backend/internal/lifecycle"
	"staybook-backend/internal/pricing"
	"staybook-backend/internal/service"
	"staybook-backend/internal/suggestion"
)

type MockReservationService struct{ mock.Mock }

func (m *MockReservationService) CreateReservation(ctx context.Context, actor domain.Actor, in service.CreateReservationInput) (*domain.Reservation, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) QuoteStay(ctx context.Context, propertyID int32, stay domain.DateRange) (*pricing.Quote, error) {
	args := m.Called(ctx, propertyID, stay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Quote), args.Error(1)
}

func (m *MockReservationService) GetReservation(ctx context.Context, actor domain.Actor, id int32) (*domain.Reservation, []lifecycle.Action, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Reservation), args.Get(1).([]lifecycle.Action), args.Error(2)
}

func (m *MockReservationService) ListReservations(ctx context.Context, actor domain.Actor, filter service.ReservationFilter) ([]domain.Reservation, error) {
	args := m.Called(ctx, actor, filter)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationService) AcceptReservation(ctx context.Context, actor domain.Actor, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) RejectReservation(ctx context.Context, actor domain.Actor, id int32) (*domain.Reservation, *domain.SuggestionRequest, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Reservation), args.Get(1).(*domain.SuggestionRequest), args.Error(2)
}

func (m *MockReservationService) ConfirmPayment(ctx context.Context, actor domain.Actor, id int32, transactionID string) (*domain.Reservation, error) {
	args := m.Called(ctx, actor, id, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationService) CancelReservation(ctx context.Context, actor domain.Actor, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

type MockSuggestionService struct{ mock.Mock }

func (m *MockSuggestionService) GetRequest(ctx context.Context, actor domain.Actor, requestID string) (*domain.SuggestionRequest, error) {
	args := m.Called(ctx, actor, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SuggestionRequest), args.Error(1)
}

func (m *MockSuggestionService) OpenRequest(ctx context.Context, actor domain.Actor, reservationID int32) (*domain.SuggestionRequest, error) {
	args := m.Called(ctx, actor, reservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SuggestionRequest), args.Error(1)
}

func (m *MockSuggestionService) ListCandidates(ctx context.Context, actor domain.Actor, requestID string, filter suggestion.CandidateFilter) ([]domain.Listing, error) {
	args := m.Called(ctx, actor, requestID, filter)
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *MockSuggestionService) ListOperators(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockSuggestionService) SuggestProperty(ctx context.Context, actor domain.Actor, requestID string, propertyID int32) (*domain.Reservation, error) {
	args := m.Called(ctx, actor, requestID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockSuggestionService) NotifyOperators(ctx context.Context, actor domain.Actor, requestID string, operatorIDs []int32, selectAll bool) (*domain.Reservation, error) {
	args := m.Called(ctx, actor, requestID, operatorIDs, selectAll)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockSuggestionService) PurgeStale(ctx context.Context) int {
	return m.Called(ctx).Int(0)
}

type MockListingService struct{ mock.Mock }

func (m *MockListingService) CreateListing(ctx context.Context, actor domain.Actor, l *domain.Listing) error {
	return m.Called(ctx, actor, l).Error(0)
}

func (m *MockListingService) GetListing(ctx context.Context, id int32) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingService) ListMyListings(ctx context.Context, actor domain.Actor) ([]domain.Listing, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *MockListingService) UpdatePricing(ctx context.Context, actor domain.Actor, id int32, in service.PricingInput) (*domain.Listing, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockListingService) ToggleAmenity(ctx context.Context, actor domain.Actor, id int32, amenity string) (*domain.Listing, error) {
	args := m.Called(ctx, actor, id, amenity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

type MockCalendarService struct{ mock.Mock }

func (m *MockCalendarService) GetMonth(ctx context.Context, actor domain.Actor, propertyID int32, year int, month time.Month) (*calendar.Month, error) {
	args := m.Called(ctx, actor, propertyID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*calendar.Month), args.Error(1)
}

type MockNotificationService struct{ mock.Mock }

func (m *MockNotificationService) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}

func (m *MockNotificationService) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}
