package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/logger"
	"staybook-backend/internal/repository"
)

const listingColumns = `id, owner_id, kind, title, address, base_rate, weekend_multiplier, special_event_multiplier, special_event_start, special_event_end, early_bird_multiplier, last_minute_multiplier, amenities, status, created_on`

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

func scanListing(row rowScanner) (*domain.Listing, error) {
	var l domain.Listing
	var eventStart, eventEnd sql.NullTime
	var amenities []string
	err := row.Scan(&l.ID, &l.OwnerID, &l.Kind, &l.Title, &l.Address, &l.BaseRate, &l.WeekendMultiplier,
		&l.SpecialEventMultiplier, &eventStart, &eventEnd, &l.EarlyBirdMultiplier, &l.LastMinuteMultiplier,
		pq.Array(&amenities), &l.Status, &l.CreatedOn)
	if err != nil {
		return nil, err
	}
	if eventStart.Valid {
		l.SpecialEventStart = &eventStart.Time
	}
	if eventEnd.Valid {
		l.SpecialEventEnd = &eventEnd.Time
	}
	l.Amenities = amenities
	return &l, nil
}

func (r *listingRepository) Create(ctx context.Context, l *domain.Listing) error {
	logger.EnterMethod("listingRepository.Create", "ownerID", l.OwnerID, "title", l.Title)

	query := `INSERT INTO listings (owner_id, kind, title, address, base_rate, weekend_multiplier, special_event_multiplier,
	          special_event_start, special_event_end, early_bird_multiplier, last_minute_multiplier, amenities, status, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	if l.CreatedOn.IsZero() {
		l.CreatedOn = time.Now().UTC()
	}
	logger.DatabaseCall("INSERT", "listings", "ownerID", l.OwnerID)
	err := r.db.QueryRowContext(ctx, query, l.OwnerID, l.Kind, l.Title, l.Address, l.BaseRate, l.WeekendMultiplier,
		l.SpecialEventMultiplier, l.SpecialEventStart, l.SpecialEventEnd, l.EarlyBirdMultiplier, l.LastMinuteMultiplier,
		pq.Array(l.Amenities), l.Status, l.CreatedOn).Scan(&l.ID)
	logger.DatabaseResult("INSERT", 1, err, "listingID", l.ID)

	if err != nil {
		logger.ExitMethodWithError("listingRepository.Create", err)
		return err
	}
	logger.ExitMethod("listingRepository.Create", "listingID", l.ID)
	return nil
}

func (r *listingRepository) GetByID(ctx context.Context, id int32) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	logger.DatabaseCall("SELECT", "listings", "listingID", id)
	l, err := scanListing(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("listing %d: %w", id, domain.ErrNotFound)
	}
	return l, err
}

func (r *listingRepository) Update(ctx context.Context, l *domain.Listing) error {
	query := `UPDATE listings SET title=$1, address=$2, base_rate=$3, weekend_multiplier=$4, special_event_multiplier=$5,
	          special_event_start=$6, special_event_end=$7, early_bird_multiplier=$8, last_minute_multiplier=$9,
	          amenities=$10, status=$11 WHERE id=$12`
	logger.DatabaseCall("UPDATE", "listings", "listingID", l.ID)
	result, err := r.db.ExecContext(ctx, query, l.Title, l.Address, l.BaseRate, l.WeekendMultiplier, l.SpecialEventMultiplier,
		l.SpecialEventStart, l.SpecialEventEnd, l.EarlyBirdMultiplier, l.LastMinuteMultiplier, pq.Array(l.Amenities), l.Status, l.ID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "listingID", l.ID)
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	logger.DatabaseResult("UPDATE", rows, nil, "listingID", l.ID)
	if rows == 0 {
		return fmt.Errorf("listing %d: %w", l.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *listingRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Listing, error) {
	return r.query(ctx, `SELECT `+listingColumns+` FROM listings WHERE owner_id = $1 ORDER BY id`, ownerID)
}

func (r *listingRepository) ListAlternates(ctx context.Context, scope domain.ListingScope, reservationID int32) ([]domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings
	          WHERE status = $1
	            AND kind = (SELECT l.kind FROM listings l JOIN reservations r ON r.property_id = l.id WHERE r.id = $2)
	            AND id <> (SELECT property_id FROM reservations WHERE id = $2)`
	args := []any{domain.ListingStatusAvailable, reservationID}
	if !scope.Role.IsStaff() {
		query += ` AND owner_id = $3`
		args = append(args, scope.ActorID)
	}
	query += ` ORDER BY id`
	return r.query(ctx, query, args...)
}

func (r *listingRepository) query(ctx context.Context, query string, args ...any) ([]domain.Listing, error) {
	logger.DatabaseCall("SELECT", query, "args", args)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("SELECT", int64(len(out)), nil)
	return out, nil
}
