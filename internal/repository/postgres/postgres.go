package postgres

import (
	"database/sql"

	_ "github.com/lib/pq"

	"staybook-backend/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.ReservationRepository
	repository.ListingRepository
	repository.UserRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		ReservationRepository:  NewReservationRepository(db),
		ListingRepository:      NewListingRepository(db),
		UserRepository:         NewUserRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}

// DB exposes the underlying pool for health checks.
func (s *Store) DB() *sql.DB {
	return s.db
}
