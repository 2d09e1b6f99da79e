package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staybook-backend/internal/availability"
	"staybook-backend/internal/clock"
	"staybook-backend/internal/domain"
	"staybook-backend/internal/lifecycle"
	"staybook-backend/internal/logger"
	"staybook-backend/internal/metrics"
	"staybook-backend/internal/pricing"
	"staybook-backend/internal/repository"
	"staybook-backend/internal/suggestion"
)

type reservationService struct {
	transitioner
	listingRepo repository.ListingRepository
	registry    *suggestion.Registry
	clock       clock.Clock
	holdWindow  time.Duration
}

func NewReservationService(
	resRepo repository.ReservationRepository,
	listingRepo repository.ListingRepository,
	notifier Notifier,
	registry *suggestion.Registry,
	clk clock.Clock,
	holdWindow time.Duration,
) ReservationService {
	return &reservationService{
		transitioner: transitioner{
			resRepo:  resRepo,
			machine:  lifecycle.NewMachine(clk),
			notifier: notifier,
			metrics:  metrics.Reservation(),
		},
		listingRepo: listingRepo,
		registry:    registry,
		clock:       clk,
		holdWindow:  holdWindow,
	}
}

func (s *reservationService) CreateReservation(ctx context.Context, actor domain.Actor, in CreateReservationInput) (*domain.Reservation, error) {
	logger.EnterMethod("reservationService.CreateReservation", "propertyID", in.PropertyID, "requesterID", actor.UserID)

	stay := domain.DateRange{CheckIn: in.CheckIn, CheckOut: in.CheckOut}
	if !stay.Valid() {
		logger.ExitMethodWithError("reservationService.CreateReservation", domain.ErrInvalidDateRange)
		return nil, domain.ErrInvalidDateRange
	}

	listing, err := s.listingRepo.GetByID(ctx, in.PropertyID)
	if err != nil {
		logger.ExitMethodWithError("reservationService.CreateReservation", err, "reason", "listing lookup")
		return nil, err
	}
	if listing.Status != domain.ListingStatusAvailable {
		return nil, fmt.Errorf("%w: listing %d is %s", domain.ErrListingUnavailable, listing.ID, listing.Status)
	}

	now := s.clock.Now()
	quote, err := s.quote(listing, stay, now)
	if err != nil {
		logger.ExitMethodWithError("reservationService.CreateReservation", err, "reason", "pricing")
		return nil, err
	}

	r := &domain.Reservation{
		PropertyID:  listing.ID,
		OwnerID:     listing.OwnerID,
		RequesterID: actor.UserID,
		CheckIn:     stay.CheckIn,
		CheckOut:    stay.CheckOut,
		CreatedOn:   now,
		BlockUntil:  now.Add(s.holdWindow),
		TotalPrice:  quote.FinalTotal,
		RequestNote: in.RequestNote,
		Status:      domain.ReservationStatusPending,
		UpdatedOn:   now,
	}
	if err := s.resRepo.Create(ctx, r); err != nil {
		logger.ExitMethodWithError("reservationService.CreateReservation", err, "reason", "insert")
		return nil, err
	}

	// Best effort: the owner also sees the request in their reservation list.
	if err := s.notifier.Notify(ctx, domain.NotificationReservationRequested, []int32{r.OwnerID}, reservationAttrs(r)); err != nil {
		logger.Warn("Failed to notify owner of new reservation", "reservationID", r.ID, "error", err)
	}

	logger.ExitMethod("reservationService.CreateReservation", "reservationID", r.ID, "totalPrice", r.TotalPrice)
	return r, nil
}

func (s *reservationService) QuoteStay(ctx context.Context, propertyID int32, stay domain.DateRange) (*pricing.Quote, error) {
	if !stay.Valid() {
		return nil, domain.ErrInvalidDateRange
	}
	listing, err := s.listingRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	q, err := s.quote(listing, stay, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *reservationService) quote(listing *domain.Listing, stay domain.DateRange, bookedAt time.Time) (pricing.Quote, error) {
	policy, err := pricing.PolicyFromListing(listing)
	if err != nil {
		return pricing.Quote{}, err
	}
	q, err := pricing.Calculate(listing.BaseRate, stay, bookedAt, policy)
	if err != nil {
		return pricing.Quote{}, err
	}
	s.metrics.ObserveQuote(string(q.LeadTier))
	return q, nil
}

func (s *reservationService) GetReservation(ctx context.Context, actor domain.Actor, id int32) (*domain.Reservation, []lifecycle.Action, error) {
	r, err := s.resRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if actor.UserID != r.OwnerID && actor.UserID != r.RequesterID && !actor.Role.IsStaff() {
		return nil, nil, fmt.Errorf("%w: reservation %d", domain.ErrUnauthorized, id)
	}
	actions := s.machine.AvailableActions(*r, actor)
	r.Status = r.EffectiveStatus(s.clock.Now())
	return r, actions, nil
}

func (s *reservationService) ListReservations(ctx context.Context, actor domain.Actor, filter ReservationFilter) ([]domain.Reservation, error) {
	var (
		list []domain.Reservation
		err  error
	)
	switch filter.Scope {
	case ScopeOwner:
		list, err = s.resRepo.ListByOwner(ctx, actor.UserID)
	case ScopeAll:
		if !actor.Role.IsStaff() {
			return nil, fmt.Errorf("%w: listing all reservations requires a staff role", domain.ErrUnauthorized)
		}
		list, err = s.resRepo.List(ctx)
	case ScopeRequester, "":
		list, err = s.resRepo.ListByRequester(ctx, actor.UserID)
	default:
		return nil, fmt.Errorf("unknown reservation scope %q", filter.Scope)
	}
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	out := make([]domain.Reservation, 0, len(list))
	for _, r := range list {
		if filter.PropertyID != 0 && r.PropertyID != filter.PropertyID {
			continue
		}
		r.Status = r.EffectiveStatus(now)
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *reservationService) AcceptReservation(ctx context.Context, actor domain.Actor, id int32) (*domain.Reservation, error) {
	r, err := s.resRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Conflicts are judged against the committed state read right here. An
	// accept committed after this read is caught by the guarded update.
	existing, err := s.resRepo.ListByProperty(ctx, r.PropertyID)
	if err != nil {
		return nil, err
	}

	updated, err := s.apply(ctx, r, lifecycle.Request{Action: lifecycle.ActionAccept, Actor: actor}, existing)
	if errors.Is(err, domain.ErrConflictDetected) {
		var ids []int32
		for _, c := range availability.Conflicts(*r, existing) {
			ids = append(ids, c.ID)
		}
		if len(ids) > 0 {
			return nil, fmt.Errorf("%w: overlaps accepted reservations %v", err, ids)
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return updated, s.notify(ctx, domain.NotificationBookingAccepted, []int32{updated.RequesterID}, reservationAttrs(updated))
}

func (s *reservationService) RejectReservation(ctx context.Context, actor domain.Actor, id int32) (*domain.Reservation, *domain.SuggestionRequest, error) {
	r, err := s.resRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	updated, err := s.apply(ctx, r, lifecycle.Request{Action: lifecycle.ActionReject, Actor: actor}, nil)
	if err != nil {
		return nil, nil, err
	}
	req := s.registry.Open(*updated, actor.UserID, s.clock.Now())
	return updated, req, s.notify(ctx, domain.NotificationBookingRejected, []int32{updated.RequesterID}, reservationAttrs(updated))
}

func (s *reservationService) ConfirmPayment(ctx context.Context, actor domain.Actor, id int32, transactionID string) (*domain.Reservation, error) {
	r, err := s.resRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req := lifecycle.Request{Action: lifecycle.ActionConfirmPayment, Actor: actor, TransactionID: transactionID}
	updated, err := s.apply(ctx, r, req, nil)
	if err != nil {
		return nil, err
	}
	attrs := reservationAttrs(updated)
	attrs["transaction_id"] = updated.TransactionID
	return updated, s.notify(ctx, domain.NotificationPaymentConfirmed, otherParties(updated, 0), attrs)
}

func (s *reservationService) CancelReservation(ctx context.Context, actor domain.Actor, id int32) (*domain.Reservation, error) {
	r, err := s.resRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.apply(ctx, r, lifecycle.Request{Action: lifecycle.ActionCancel, Actor: actor}, nil)
	if err != nil {
		return nil, err
	}
	return updated, s.notify(ctx, domain.NotificationReservationCanceled, otherParties(updated, actor.UserID), reservationAttrs(updated))
}
