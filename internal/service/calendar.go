package service

import (
	"context"
	"fmt"
	"time"

	"staybook-backend/internal/availability"
	"staybook-backend/internal/calendar"
	"staybook-backend/internal/clock"
	"staybook-backend/internal/domain"
	"staybook-backend/internal/repository"
)

type calendarService struct {
	resRepo     repository.ReservationRepository
	listingRepo repository.ListingRepository
	clock       clock.Clock
}

func NewCalendarService(resRepo repository.ReservationRepository, listingRepo repository.ListingRepository, clk clock.Clock) CalendarService {
	return &calendarService{resRepo: resRepo, listingRepo: listingRepo, clock: clk}
}

// GetMonth projects the actor's reservations onto a month. With propertyID 0
// an owner sees every property they own and staff see everything. A zero year
// or month selects the current month of the service clock.
func (s *calendarService) GetMonth(ctx context.Context, actor domain.Actor, propertyID int32, year int, month time.Month) (*calendar.Month, error) {
	if month < 0 || month > time.December {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidMonth, month)
	}
	if year == 0 || month == 0 {
		now := s.clock.Now()
		year, month = now.Year(), now.Month()
	}

	var (
		list []domain.Reservation
		err  error
	)
	switch {
	case propertyID != 0:
		l, lerr := s.listingRepo.GetByID(ctx, propertyID)
		if lerr != nil {
			return nil, lerr
		}
		if l.OwnerID != actor.UserID && !actor.Role.IsStaff() {
			return nil, fmt.Errorf("%w: user %d does not own listing %d", domain.ErrUnauthorized, actor.UserID, propertyID)
		}
		list, err = s.resRepo.ListByProperty(ctx, propertyID)
	case actor.Role.IsStaff():
		list, err = s.resRepo.List(ctx)
	default:
		list, err = s.resRepo.ListByOwner(ctx, actor.UserID)
	}
	if err != nil {
		return nil, err
	}

	m := calendar.BuildMonth(year, month, calendar.ForProperty(list, propertyID), s.clock.Now())
	if propertyID != 0 {
		first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		m.AcceptedNights = availability.AcceptedNights(propertyID, first, first.AddDate(0, 1, 0), list)
	}
	return &m, nil
}
