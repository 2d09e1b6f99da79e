package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/repository/postgres"
)

var listingCols = []string{"id", "owner_id", "kind", "title", "address", "base_rate", "weekend_multiplier",
	"special_event_multiplier", "special_event_start", "special_event_end", "early_bird_multiplier",
	"last_minute_multiplier", "amenities", "status", "created_on"}

func TestListingRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewListingRepository(db)

	rows := sqlmock.NewRows(listingCols).
		AddRow(1, 2, "PROPERTY", "Harbor Loft", "12 Pier Rd", 100.0, 1.2, 1.5, day("2024-07-01"), day("2024-07-04"),
			0.9, 0.8, "{wifi,no_smoking}", "AVAILABLE", time.Now())

	mock.ExpectQuery("SELECT (.+) FROM listings WHERE id = \\$1").
		WithArgs(int32(1)).
		WillReturnRows(rows)

	l, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Harbor Loft", l.Title)
	assert.Equal(t, []string{"wifi", "no_smoking"}, l.Amenities)
	require.NotNil(t, l.SpecialEventStart)
	assert.Equal(t, day("2024-07-01"), *l.SpecialEventStart)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewListingRepository(db)
	l := &domain.Listing{
		OwnerID:              2,
		Kind:                 domain.ListingKindProperty,
		Title:                "Harbor Loft",
		Address:              "12 Pier Rd",
		BaseRate:             100,
		WeekendMultiplier:    1.2,
		EarlyBirdMultiplier:  1,
		LastMinuteMultiplier: 1,
		Amenities:            []string{"wifi"},
		Status:               domain.ListingStatusPending,
	}

	mock.ExpectQuery("INSERT INTO listings").
		WithArgs(l.OwnerID, l.Kind, l.Title, l.Address, l.BaseRate, l.WeekendMultiplier, l.SpecialEventMultiplier,
			nil, nil, l.EarlyBirdMultiplier, l.LastMinuteMultiplier, pq.Array(l.Amenities), l.Status, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	require.NoError(t, repo.Create(context.Background(), l))
	assert.Equal(t, int32(3), l.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepository_ListAlternates(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewListingRepository(db)
	ctx := context.Background()

	t.Run("Owner scope filters by owner", func(t *testing.T) {
		mock.ExpectQuery("(?s)SELECT .+ FROM listings\\s+WHERE status = \\$1.+AND owner_id = \\$3").
			WithArgs(domain.ListingStatusAvailable, int32(9), int32(2)).
			WillReturnRows(sqlmock.NewRows(listingCols).
				AddRow(11, 2, "PROPERTY", "Garden Flat", "3 Elm St", 80.0, 1.0, 0.0, nil, nil, 1.0, 1.0, "{}", "AVAILABLE", time.Now()))

		list, err := repo.ListAlternates(ctx, domain.ListingScope{ActorID: 2, Role: domain.UserRoleOwner}, 9)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, int32(11), list[0].ID)
		assert.Nil(t, list[0].SpecialEventStart)
	})

	t.Run("Staff scope sees all", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM listings").
			WithArgs(domain.ListingStatusAvailable, int32(9)).
			WillReturnRows(sqlmock.NewRows(listingCols))

		list, err := repo.ListAlternates(ctx, domain.ListingScope{ActorID: 1, Role: domain.UserRoleAdmin}, 9)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepository_UpdateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewListingRepository(db)
	mock.ExpectExec("UPDATE listings SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Update(context.Background(), &domain.Listing{ID: 404})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
