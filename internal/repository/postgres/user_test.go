package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/repository/postgres"
)

func TestUserRepository_ListOperators(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewUserRepository(db)
	rows := sqlmock.NewRows([]string{"id", "email", "phone_number", "name", "role", "created_on"}).
		AddRow(5, "ana@ops.example", "", "Ana", "OPERATOR", time.Now()).
		AddRow(6, "ben@ops.example", "555-0101", "Ben", "OPERATOR", time.Now())

	mock.ExpectQuery("SELECT (.+) FROM users WHERE role = \\$1").
		WithArgs(domain.UserRoleOperator).
		WillReturnRows(rows)

	users, err := repo.ListOperators(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, domain.UserRoleOperator, users[1].Role)
	assert.Equal(t, "555-0101", users[1].PhoneNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
		WithArgs(int32(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "phone_number", "name", "role", "created_on"}))

	_, err = postgres.NewUserRepository(db).GetByID(context.Background(), 8)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
