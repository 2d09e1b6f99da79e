package repository

import (
	"context"
	"time"

	"staybook-backend/internal/domain"
)

type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	List(ctx context.Context) ([]domain.Reservation, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Reservation, error)
	ListByRequester(ctx context.Context, requesterID int32) ([]domain.Reservation, error)
	ListByProperty(ctx context.Context, propertyID int32) ([]domain.Reservation, error)
	// ListPendingBlockingBetween returns stored PENDING reservations whose
	// block-until falls in (from, to].
	ListPendingBlockingBetween(ctx context.Context, from, to time.Time) ([]domain.Reservation, error)
	// UpdateStatus writes to only if the stored status still equals from.
	// It returns domain.ErrStaleReservation when nothing was updated.
	UpdateStatus(ctx context.Context, id int32, from, to domain.ReservationStatus, actorID int32, patch domain.StatusPatch) (*domain.Reservation, error)
}

type ListingRepository interface {
	Create(ctx context.Context, l *domain.Listing) error
	GetByID(ctx context.Context, id int32) (*domain.Listing, error)
	Update(ctx context.Context, l *domain.Listing) error
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Listing, error)
	// ListAlternates returns listings the actor may offer in place of the
	// reservation's property. Staff see every available listing, owners only their own.
	ListAlternates(ctx context.Context, scope domain.ListingScope, reservationID int32) ([]domain.Listing, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	ListOperators(ctx context.Context) ([]domain.User, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
