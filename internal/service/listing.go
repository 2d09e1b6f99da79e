package service

import (
	"context"
	"fmt"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/logger"
	"staybook-backend/internal/pricing"
	"staybook-backend/internal/repository"
)

type listingService struct {
	listingRepo repository.ListingRepository
}

func NewListingService(listingRepo repository.ListingRepository) ListingService {
	return &listingService{listingRepo: listingRepo}
}

func (s *listingService) CreateListing(ctx context.Context, actor domain.Actor, l *domain.Listing) error {
	logger.EnterMethod("listingService.CreateListing", "ownerID", actor.UserID, "title", l.Title)

	if l.OwnerID == 0 || !actor.Role.IsStaff() {
		l.OwnerID = actor.UserID
	}
	if l.Kind == "" {
		l.Kind = domain.ListingKindProperty
	}
	// Unset multipliers mean "no adjustment".
	if l.WeekendMultiplier == 0 {
		l.WeekendMultiplier = 1
	}
	if l.EarlyBirdMultiplier == 0 {
		l.EarlyBirdMultiplier = 1
	}
	if l.LastMinuteMultiplier == 0 {
		l.LastMinuteMultiplier = 1
	}
	if !actor.Role.IsStaff() || l.Status == "" {
		l.Status = domain.ListingStatusPending
	}

	if err := validateListing(l); err != nil {
		logger.ExitMethodWithError("listingService.CreateListing", err)
		return err
	}
	if err := s.listingRepo.Create(ctx, l); err != nil {
		logger.ExitMethodWithError("listingService.CreateListing", err)
		return err
	}
	logger.ExitMethod("listingService.CreateListing", "listingID", l.ID)
	return nil
}

func (s *listingService) GetListing(ctx context.Context, id int32) (*domain.Listing, error) {
	return s.listingRepo.GetByID(ctx, id)
}

func (s *listingService) ListMyListings(ctx context.Context, actor domain.Actor) ([]domain.Listing, error) {
	return s.listingRepo.ListByOwner(ctx, actor.UserID)
}

func (s *listingService) UpdatePricing(ctx context.Context, actor domain.Actor, id int32, in PricingInput) (*domain.Listing, error) {
	l, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	l.BaseRate = in.BaseRate
	l.WeekendMultiplier = in.WeekendMultiplier
	l.SpecialEventMultiplier = in.SpecialEventMultiplier
	l.SpecialEventStart = in.SpecialEventStart
	l.SpecialEventEnd = in.SpecialEventEnd
	l.EarlyBirdMultiplier = in.EarlyBirdMultiplier
	l.LastMinuteMultiplier = in.LastMinuteMultiplier

	if err := validateListing(l); err != nil {
		return nil, err
	}
	if err := s.listingRepo.Update(ctx, l); err != nil {
		return nil, err
	}
	logger.Info("Listing pricing updated", "listingID", l.ID, "actorID", actor.UserID)
	return l, nil
}

func (s *listingService) ToggleAmenity(ctx context.Context, actor domain.Actor, id int32, amenity string) (*domain.Listing, error) {
	if amenity == "" {
		return nil, fmt.Errorf("%w: no amenity chosen", domain.ErrEmptySelection)
	}
	l, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	l.Amenities = domain.ToggleAmenity(l.Amenities, amenity)
	if err := s.listingRepo.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *listingService) editable(ctx context.Context, actor domain.Actor, id int32) (*domain.Listing, error) {
	l, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != actor.UserID && !actor.Role.IsStaff() {
		return nil, fmt.Errorf("%w: user %d does not own listing %d", domain.ErrUnauthorized, actor.UserID, id)
	}
	return l, nil
}

func validateListing(l *domain.Listing) error {
	if l.BaseRate <= 0 {
		return fmt.Errorf("%w: base rate must be positive", domain.ErrPolicyOutOfBounds)
	}
	if (l.SpecialEventStart == nil) != (l.SpecialEventEnd == nil) {
		return fmt.Errorf("%w: special event needs both a start and an end", domain.ErrPolicyOutOfBounds)
	}
	if _, err := pricing.PolicyFromListing(l); err != nil {
		return err
	}
	return domain.ValidateAmenities(l.Amenities)
}
