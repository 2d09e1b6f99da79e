package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/service"
)

func TestListingService_CreateListing(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults and pending status", func(t *testing.T) {
		repo := new(MockListingRepo)
		svc := service.NewListingService(repo)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Listing")).Return(nil)

		l := &domain.Listing{OwnerID: 77, Title: "Harbor Loft", Address: "12 Pier Rd", BaseRate: 100, Status: domain.ListingStatusAvailable}
		require.NoError(t, svc.CreateListing(ctx, owner, l))
		assert.Equal(t, ownerID, l.OwnerID)
		assert.Equal(t, domain.ListingKindProperty, l.Kind)
		assert.Equal(t, 1.0, l.WeekendMultiplier)
		assert.Equal(t, 1.0, l.EarlyBirdMultiplier)
		assert.Equal(t, domain.ListingStatusPending, l.Status)
	})

	t.Run("Weekend multiplier out of bounds", func(t *testing.T) {
		repo := new(MockListingRepo)
		svc := service.NewListingService(repo)

		err := svc.CreateListing(ctx, owner, &domain.Listing{Title: "Loft", BaseRate: 100, WeekendMultiplier: 2.5})
		assert.ErrorIs(t, err, domain.ErrPolicyOutOfBounds)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Exclusive amenities", func(t *testing.T) {
		repo := new(MockListingRepo)
		svc := service.NewListingService(repo)

		err := svc.CreateListing(ctx, owner, &domain.Listing{Title: "Loft", BaseRate: 100, Amenities: []string{"no_smoking", "smoking_allowed"}})
		assert.ErrorIs(t, err, domain.ErrExclusiveAmenity)
	})

	t.Run("Staff may publish directly", func(t *testing.T) {
		repo := new(MockListingRepo)
		svc := service.NewListingService(repo)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Listing")).Return(nil)

		l := &domain.Listing{OwnerID: ownerID, Title: "Loft", BaseRate: 100, Status: domain.ListingStatusAvailable}
		require.NoError(t, svc.CreateListing(ctx, admin, l))
		assert.Equal(t, ownerID, l.OwnerID)
		assert.Equal(t, domain.ListingStatusAvailable, l.Status)
	})
}

func TestListingService_UpdatePricing(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner updates", func(t *testing.T) {
		repo := new(MockListingRepo)
		svc := service.NewListingService(repo)
		repo.On("GetByID", ctx, propertyID).Return(availableListing(), nil)
		repo.On("Update", ctx, mock.AnythingOfType("*domain.Listing")).Return(nil)

		l, err := svc.UpdatePricing(ctx, owner, propertyID, service.PricingInput{
			BaseRate:             120,
			WeekendMultiplier:    1.5,
			EarlyBirdMultiplier:  0.85,
			LastMinuteMultiplier: 0.7,
		})
		require.NoError(t, err)
		assert.Equal(t, 120.0, l.BaseRate)
		assert.Equal(t, 0.7, l.LastMinuteMultiplier)
	})

	t.Run("Discount below floor", func(t *testing.T) {
		repo := new(MockListingRepo)
		svc := service.NewListingService(repo)
		repo.On("GetByID", ctx, propertyID).Return(availableListing(), nil)

		_, err := svc.UpdatePricing(ctx, owner, propertyID, service.PricingInput{
			BaseRate:             120,
			WeekendMultiplier:    1,
			EarlyBirdMultiplier:  0.05,
			LastMinuteMultiplier: 1,
		})
		assert.ErrorIs(t, err, domain.ErrPolicyOutOfBounds)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Special event needs both ends", func(t *testing.T) {
		repo := new(MockListingRepo)
		svc := service.NewListingService(repo)
		repo.On("GetByID", ctx, propertyID).Return(availableListing(), nil)

		start := date("2024-07-01")
		_, err := svc.UpdatePricing(ctx, owner, propertyID, service.PricingInput{
			BaseRate:               100,
			WeekendMultiplier:      1,
			SpecialEventMultiplier: 1.5,
			SpecialEventStart:      &start,
			EarlyBirdMultiplier:    1,
			LastMinuteMultiplier:   1,
		})
		assert.ErrorIs(t, err, domain.ErrPolicyOutOfBounds)
	})

	t.Run("Stranger", func(t *testing.T) {
		repo := new(MockListingRepo)
		svc := service.NewListingService(repo)
		repo.On("GetByID", ctx, propertyID).Return(availableListing(), nil)

		_, err := svc.UpdatePricing(ctx, stranger, propertyID, service.PricingInput{BaseRate: 1})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestListingService_ToggleAmenity(t *testing.T) {
	ctx := context.Background()
	repo := new(MockListingRepo)
	svc := service.NewListingService(repo)

	l := availableListing()
	l.Amenities = []string{"wifi", "no_smoking"}
	repo.On("GetByID", ctx, propertyID).Return(l, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Listing")).Return(nil)

	updated, err := svc.ToggleAmenity(ctx, owner, propertyID, "smoking_allowed")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"wifi", "smoking_allowed"}, updated.Amenities)

	_, err = svc.ToggleAmenity(ctx, owner, propertyID, "")
	assert.ErrorIs(t, err, domain.ErrEmptySelection)
}
