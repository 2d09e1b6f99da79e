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

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, email, COALESCE(phone_number, ''), name, role, created_on FROM users WHERE id = $1`
	var createdOn time.Time
	logger.DatabaseCall("SELECT", "users", "userID", id)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.PhoneNumber, &u.Name, &u.Role, &createdOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	u.CreatedOn = createdOn.Format(domain.DateLayout)
	return u, nil
}

func (r *userRepository) ListOperators(ctx context.Context) ([]domain.User, error) {
	query := `SELECT id, email, COALESCE(phone_number, ''), name, role, created_on FROM users WHERE role = $1 ORDER BY name, id`
	logger.DatabaseCall("SELECT", "users", "role", domain.UserRoleOperator)
	rows, err := r.db.QueryContext(ctx, query, domain.UserRoleOperator)
	if err != nil {
		logger.DatabaseResult("SELECT", 0, err)
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		var createdOn time.Time
		if err := rows.Scan(&u.ID, &u.Email, &u.PhoneNumber, &u.Name, &u.Role, &createdOn); err != nil {
			return nil, err
		}
		u.CreatedOn = createdOn.Format(domain.DateLayout)
		users = append(users, u)
	}
	logger.DatabaseResult("SELECT", int64(len(users)), rows.Err())
	return users, rows.Err()
}
