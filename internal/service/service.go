package service

import (
	"context"
	"time"

	"staybook-backend/internal/calendar"
	"staybook-backend/internal/domain"
	"staybook-backend/internal/lifecycle"
	"staybook-backend/internal/pricing"
	"staybook-backend/internal/suggestion"
)

// CreateReservationInput is a booking request for one listing.
type CreateReservationInput struct {
	PropertyID  int32
	CheckIn     time.Time
	CheckOut    time.Time
	RequestNote string
}

// ReservationScope selects whose reservations a list call returns.
type ReservationScope string

const (
	ScopeRequester ReservationScope = "requester"
	ScopeOwner     ReservationScope = "owner"
	ScopeAll       ReservationScope = "all" // staff only
)

// ReservationFilter narrows ListReservations. Status matches the effective
// status, so EXPIRED can be filtered on.
type ReservationFilter struct {
	Scope      ReservationScope
	PropertyID int32
	Status     domain.ReservationStatus
}

// PricingInput replaces the rate policy of a listing.
type PricingInput struct {
	BaseRate               float64
	WeekendMultiplier      float64
	SpecialEventMultiplier float64
	SpecialEventStart      *time.Time
	SpecialEventEnd        *time.Time
	EarlyBirdMultiplier    float64
	LastMinuteMultiplier   float64
}

type ReservationService interface {
	CreateReservation(ctx context.Context, actor domain.Actor, in CreateReservationInput) (*domain.Reservation, error)
	QuoteStay(ctx context.Context, propertyID int32, stay domain.DateRange) (*pricing.Quote, error)
	GetReservation(ctx context.Context, actor domain.Actor, id int32) (*domain.Reservation, []lifecycle.Action, error)
	ListReservations(ctx context.Context, actor domain.Actor, filter ReservationFilter) ([]domain.Reservation, error)
	// AcceptReservation, ConfirmPayment and CancelReservation may return both a
	// reservation and a *domain.ActionError when only the notification failed.
	AcceptReservation(ctx context.Context, actor domain.Actor, id int32) (*domain.Reservation, error)
	RejectReservation(ctx context.Context, actor domain.Actor, id int32) (*domain.Reservation, *domain.SuggestionRequest, error)
	ConfirmPayment(ctx context.Context, actor domain.Actor, id int32, transactionID string) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, actor domain.Actor, id int32) (*domain.Reservation, error)
}

type SuggestionService interface {
	GetRequest(ctx context.Context, actor domain.Actor, requestID string) (*domain.SuggestionRequest, error)
	OpenRequest(ctx context.Context, actor domain.Actor, reservationID int32) (*domain.SuggestionRequest, error)
	ListCandidates(ctx context.Context, actor domain.Actor, requestID string, filter suggestion.CandidateFilter) ([]domain.Listing, error)
	ListOperators(ctx context.Context) ([]domain.User, error)
	SuggestProperty(ctx context.Context, actor domain.Actor, requestID string, propertyID int32) (*domain.Reservation, error)
	NotifyOperators(ctx context.Context, actor domain.Actor, requestID string, operatorIDs []int32, selectAll bool) (*domain.Reservation, error)
	PurgeStale(ctx context.Context) int
}

type ListingService interface {
	CreateListing(ctx context.Context, actor domain.Actor, l *domain.Listing) error
	GetListing(ctx context.Context, id int32) (*domain.Listing, error)
	ListMyListings(ctx context.Context, actor domain.Actor) ([]domain.Listing, error)
	UpdatePricing(ctx context.Context, actor domain.Actor, id int32, in PricingInput) (*domain.Listing, error)
	ToggleAmenity(ctx context.Context, actor domain.Actor, id int32, amenity string) (*domain.Listing, error)
}

type CalendarService interface {
	GetMonth(ctx context.Context, actor domain.Actor, propertyID int32, year int, month time.Month) (*calendar.Month, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

// Notifier delivers a notification of kind to every target. It keeps going
// after a failed target and reports all failures together.
type Notifier interface {
	Notify(ctx context.Context, kind domain.NotificationKind, targetIDs []int32, attrs map[string]string) error
}

type EmailService interface {
	Send(ctx context.Context, to, toName, subject, body string) error
}
