package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"staybook-backend/internal/clock"
	"staybook-backend/internal/domain"
	"staybook-backend/internal/lifecycle"
	"staybook-backend/internal/logger"
	"staybook-backend/internal/metrics"
	"staybook-backend/internal/repository"
	"staybook-backend/internal/suggestion"
)

type suggestionService struct {
	transitioner
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	registry    *suggestion.Registry
	clock       clock.Clock
	ttl         time.Duration
}

func NewSuggestionService(
	resRepo repository.ReservationRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	registry *suggestion.Registry,
	clk clock.Clock,
	ttl time.Duration,
) SuggestionService {
	return &suggestionService{
		transitioner: transitioner{
			resRepo:  resRepo,
			machine:  lifecycle.NewMachine(clk),
			notifier: notifier,
			metrics:  metrics.Reservation(),
		},
		listingRepo: listingRepo,
		userRepo:    userRepo,
		registry:    registry,
		clock:       clk,
		ttl:         ttl,
	}
}

// request loads an open dialog the actor is allowed to continue.
func (s *suggestionService) request(actor domain.Actor, requestID string) (domain.SuggestionRequest, error) {
	req, err := s.registry.Get(requestID)
	if err != nil {
		return domain.SuggestionRequest{}, err
	}
	if s.ttl > 0 && s.clock.Now().Sub(req.CreatedOn) > s.ttl {
		s.registry.Discard(requestID)
		return domain.SuggestionRequest{}, domain.ErrSuggestionExpired
	}
	if actor.UserID != req.RejectedBy && !actor.Role.IsStaff() {
		return domain.SuggestionRequest{}, fmt.Errorf("%w: suggestion request %s belongs to another user", domain.ErrUnauthorized, requestID)
	}
	return req, nil
}

func (s *suggestionService) GetRequest(ctx context.Context, actor domain.Actor, requestID string) (*domain.SuggestionRequest, error) {
	req, err := s.request(actor, requestID)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// OpenRequest starts a new dialog for a reservation that is still Rejected,
// e.g. after the previous one timed out.
func (s *suggestionService) OpenRequest(ctx context.Context, actor domain.Actor, reservationID int32) (*domain.SuggestionRequest, error) {
	r, err := s.resRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if actor.UserID != r.OwnerID && !actor.Role.IsStaff() {
		return nil, fmt.Errorf("%w: user %d does not own property %d", domain.ErrUnauthorized, actor.UserID, r.PropertyID)
	}
	if r.Status != domain.ReservationStatusRejected {
		return nil, fmt.Errorf("%w: reservation %d is %s, not REJECTED", domain.ErrInvalidTransition, r.ID, r.Status)
	}
	return s.registry.Open(*r, actor.UserID, s.clock.Now()), nil
}

func (s *suggestionService) ListCandidates(ctx context.Context, actor domain.Actor, requestID string, filter suggestion.CandidateFilter) ([]domain.Listing, error) {
	req, err := s.request(actor, requestID)
	if err != nil {
		return nil, err
	}
	r, err := s.resRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.listingRepo.ListAlternates(ctx, domain.ListingScope{ActorID: actor.UserID, Role: actor.Role}, r.ID)
	if err != nil {
		return nil, err
	}
	return suggestion.FilterCandidates(candidates, r.PropertyID, filter), nil
}

func (s *suggestionService) ListOperators(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.ListOperators(ctx)
}

func (s *suggestionService) SuggestProperty(ctx context.Context, actor domain.Actor, requestID string, propertyID int32) (*domain.Reservation, error) {
	logger.EnterMethod("suggestionService.SuggestProperty", "requestID", requestID, "propertyID", propertyID)

	req, err := s.request(actor, requestID)
	if err != nil {
		return nil, err
	}
	if propertyID == 0 {
		return nil, fmt.Errorf("%w: no alternate property chosen", domain.ErrEmptySelection)
	}
	r, err := s.resRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.listingRepo.ListAlternates(ctx, domain.ListingScope{ActorID: actor.UserID, Role: actor.Role}, r.ID)
	if err != nil {
		return nil, err
	}
	if _, err := suggestion.PickCandidate(candidates, propertyID); err != nil {
		return nil, err
	}

	updated, err := s.apply(ctx, r, lifecycle.Request{Action: lifecycle.ActionSuggest, Actor: actor, AlternatePropertyID: propertyID}, nil)
	if err != nil {
		logger.ExitMethodWithError("suggestionService.SuggestProperty", err)
		return nil, err
	}
	attrs := reservationAttrs(updated)
	attrs["alternate_property_id"] = strconv.Itoa(int(propertyID))
	s.complete(req.ID, &propertyID, nil, attrs)

	logger.ExitMethod("suggestionService.SuggestProperty", "reservationID", updated.ID)
	return updated, s.notify(ctx, domain.NotificationAlternateSuggested, []int32{updated.RequesterID}, attrs)
}

func (s *suggestionService) NotifyOperators(ctx context.Context, actor domain.Actor, requestID string, operatorIDs []int32, selectAll bool) (*domain.Reservation, error) {
	logger.EnterMethod("suggestionService.NotifyOperators", "requestID", requestID, "selected", len(operatorIDs), "selectAll", selectAll)

	req, err := s.request(actor, requestID)
	if err != nil {
		return nil, err
	}
	operators, err := s.userRepo.ListOperators(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := suggestion.ResolveOperators(operators, operatorIDs, selectAll)
	if err != nil {
		logger.ExitMethodWithError("suggestionService.NotifyOperators", err)
		return nil, err
	}
	r, err := s.resRepo.GetByID(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}

	updated, err := s.apply(ctx, r, lifecycle.Request{Action: lifecycle.ActionNotify, Actor: actor, OperatorIDs: ids}, nil)
	if err != nil {
		logger.ExitMethodWithError("suggestionService.NotifyOperators", err)
		return nil, err
	}
	attrs := reservationAttrs(updated)
	s.complete(req.ID, nil, ids, attrs)

	logger.ExitMethod("suggestionService.NotifyOperators", "reservationID", updated.ID, "operators", len(ids))
	return updated, s.notify(ctx, domain.NotificationReservationPublished, ids, attrs)
}

// complete closes the dialog with the selection that was applied and tags
// the notification attrs with the request it came from.
func (s *suggestionService) complete(requestID string, alternatePropertyID *int32, operatorIDs []int32, attrs map[string]string) {
	done, ok := s.registry.Complete(requestID, alternatePropertyID, operatorIDs)
	if !ok {
		logger.Warn("Suggestion request closed before completion", "requestID", requestID)
		return
	}
	args := []any{"requestID", done.ID, "reservationID", done.ReservationID, "rejectedBy", done.RejectedBy}
	if done.AlternatePropertyID != nil {
		args = append(args, "alternatePropertyID", *done.AlternatePropertyID)
	}
	if len(done.OperatorIDs) > 0 {
		args = append(args, "operatorIDs", done.OperatorIDs)
	}
	attrs["suggestion_request_id"] = done.ID
	logger.Info("Suggestion request completed", args...)
}

// PurgeStale drops dialogs older than the configured TTL.
func (s *suggestionService) PurgeStale(ctx context.Context) int {
	if s.ttl <= 0 {
		return 0
	}
	purged := s.registry.Purge(s.clock.Now().Add(-s.ttl))
	logger.Debug("Suggestion registry purged", "purged", purged, "open", s.registry.Len())
	return purged
}
