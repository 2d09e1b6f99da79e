package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/logger"
	"staybook-backend/internal/repository"
)

const reservationColumns = `id, property_id, owner_id, requester_id, check_in, check_out, created_on, block_until, total_price, COALESCE(request_note, ''), status, alternate_property_id, COALESCE(transaction_id, ''), updated_by, updated_on`

// acceptedOverlap selects accepted reservations of the same property whose
// half-open stay range intersects the row being updated.
const acceptedOverlap = `SELECT 1 FROM reservations o WHERE o.property_id = reservations.property_id AND o.id <> reservations.id AND o.status = $1 AND o.check_in < reservations.check_out AND reservations.check_in < o.check_out`

const lockListingOfReservation = `SELECT l.id FROM listings l JOIN reservations r ON r.property_id = l.id WHERE r.id = $1 FOR UPDATE OF l`

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var alternate, updatedBy sql.NullInt32
	err := row.Scan(&res.ID, &res.PropertyID, &res.OwnerID, &res.RequesterID, &res.CheckIn, &res.CheckOut,
		&res.CreatedOn, &res.BlockUntil, &res.TotalPrice, &res.RequestNote, &res.Status, &alternate,
		&res.TransactionID, &updatedBy, &res.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if alternate.Valid {
		v := alternate.Int32
		res.AlternatePropertyID = &v
	}
	if updatedBy.Valid {
		v := updatedBy.Int32
		res.UpdatedBy = &v
	}
	return &res, nil
}

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	logger.EnterMethod("reservationRepository.Create", "propertyID", res.PropertyID, "requesterID", res.RequesterID)

	query := `INSERT INTO reservations (property_id, owner_id, requester_id, check_in, check_out, created_on, block_until,
	          total_price, request_note, status, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	logger.DatabaseCall("INSERT", "reservations", "propertyID", res.PropertyID)

	if res.UpdatedOn.IsZero() {
		res.UpdatedOn = res.CreatedOn
	}
	err := r.db.QueryRowContext(ctx, query, res.PropertyID, res.OwnerID, res.RequesterID, res.CheckIn, res.CheckOut,
		res.CreatedOn, res.BlockUntil, res.TotalPrice, res.RequestNote, res.Status, res.UpdatedOn).Scan(&res.ID)
	logger.DatabaseResult("INSERT", 1, err, "reservationID", res.ID)

	if err != nil {
		logger.ExitMethodWithError("reservationRepository.Create", err)
		return err
	}
	logger.ExitMethod("reservationRepository.Create", "reservationID", res.ID)
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	logger.DatabaseCall("SELECT", "reservations", "reservationID", id)
	res, err := scanReservation(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reservation %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err, "reservationID", id)
		return nil, err
	}
	return res, nil
}

func (r *reservationRepository) List(ctx context.Context) ([]domain.Reservation, error) {
	return r.query(ctx, `SELECT `+reservationColumns+` FROM reservations ORDER BY check_in, id`)
}

func (r *reservationRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Reservation, error) {
	return r.query(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE owner_id = $1 ORDER BY check_in, id`, ownerID)
}

func (r *reservationRepository) ListByRequester(ctx context.Context, requesterID int32) ([]domain.Reservation, error) {
	return r.query(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE requester_id = $1 ORDER BY check_in, id`, requesterID)
}

func (r *reservationRepository) ListByProperty(ctx context.Context, propertyID int32) ([]domain.Reservation, error) {
	return r.query(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE property_id = $1 ORDER BY check_in, id`, propertyID)
}

func (r *reservationRepository) ListPendingBlockingBetween(ctx context.Context, from, to time.Time) ([]domain.Reservation, error) {
	return r.query(ctx, `SELECT `+reservationColumns+` FROM reservations
	        WHERE status = $1 AND block_until > $2 AND block_until <= $3 ORDER BY block_until, id`,
		domain.ReservationStatusPending, from, to)
}

func (r *reservationRepository) query(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	logger.DatabaseCall("SELECT", query, "args", args)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.DatabaseResult("SELECT", int64(len(out)), nil)
	return out, nil
}

// UpdateStatus moves reservation id from one status to another only if it is
// still in from. Accepting also takes a row lock on the listing so that two
// overlapping accepts on the same property are serialized, and the overlap
// check runs inside the guarded UPDATE.
func (r *reservationRepository) UpdateStatus(ctx context.Context, id int32, from, to domain.ReservationStatus, actorID int32, patch domain.StatusPatch) (*domain.Reservation, error) {
	logger.EnterMethod("reservationRepository.UpdateStatus", "reservationID", id, "from", from, "to", to)

	var alternate sql.NullInt32
	if patch.AlternatePropertyID != nil {
		alternate = sql.NullInt32{Int32: *patch.AlternatePropertyID, Valid: true}
	}
	var transaction sql.NullString
	if patch.TransactionID != "" {
		transaction = sql.NullString{String: patch.TransactionID, Valid: true}
	}
	updatedOn := patch.UpdatedOn
	if updatedOn.IsZero() {
		updatedOn = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.ExitMethodWithError("reservationRepository.UpdateStatus", err)
		return nil, err
	}
	defer tx.Rollback()

	query := `UPDATE reservations
	          SET status = $1,
	              alternate_property_id = COALESCE($2, alternate_property_id),
	              transaction_id = COALESCE($3, transaction_id),
	              updated_by = $4,
	              updated_on = $5
	          WHERE id = $6 AND status = $7`
	if to == domain.ReservationStatusAccepted {
		logger.DatabaseCall("SELECT FOR UPDATE", "listings", "reservationID", id)
		if _, err := tx.ExecContext(ctx, lockListingOfReservation, id); err != nil {
			logger.DatabaseResult("SELECT FOR UPDATE", 0, err, "reservationID", id)
			logger.ExitMethodWithError("reservationRepository.UpdateStatus", err)
			return nil, err
		}
		query += ` AND NOT EXISTS (` + acceptedOverlap + `)`
	}
	query += ` RETURNING ` + reservationColumns
	logger.DatabaseCall("UPDATE", "reservations", "reservationID", id)

	res, err := scanReservation(tx.QueryRowContext(ctx, query, to, alternate, transaction, actorID, updatedOn, id, from))
	if errors.Is(err, sql.ErrNoRows) {
		logger.DatabaseResult("UPDATE", 0, nil, "reservationID", id)
		err = explainMissedUpdate(ctx, tx, id, from, to)
		logger.ExitMethodWithError("reservationRepository.UpdateStatus", err, "reservationID", id)
		return nil, err
	}
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "reservationID", id)
		logger.ExitMethodWithError("reservationRepository.UpdateStatus", err)
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		logger.ExitMethodWithError("reservationRepository.UpdateStatus", err)
		return nil, err
	}

	logger.DatabaseResult("UPDATE", 1, nil, "reservationID", id)
	logger.ExitMethod("reservationRepository.UpdateStatus", "reservationID", id, "status", res.Status)
	return res, nil
}

// explainMissedUpdate maps a guarded UPDATE that touched no row to its cause:
// the row is gone, another writer moved it, or an overlapping accepted
// reservation was committed first.
func explainMissedUpdate(ctx context.Context, tx *sql.Tx, id int32, from, to domain.ReservationStatus) error {
	var current domain.ReservationStatus
	err := tx.QueryRowContext(ctx, `SELECT status FROM reservations WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("reservation %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if current == from && to == domain.ReservationStatusAccepted {
		return fmt.Errorf("%w: reservation %d overlaps an accepted reservation", domain.ErrConflictDetected, id)
	}
	return fmt.Errorf("reservation %d: %w", id, domain.ErrStaleReservation)
}
