package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kongden/taskboard/internal/db"
	"github.com/kongden/taskboard/internal/model"
	"github.com/kongden/taskboard/internal/repository"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database
	conn.SetMaxOpenConns(1)

	require.NoError(t, db.RunMigrations(conn.DB, "sqlite"))

	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

func createTestUser(t *testing.T, users repository.UserRepository, email string, verified bool) *model.User {
	t.Helper()

	now := time.Now()
	name := "Test User"
	hash := "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         &name,
		Email:        email,
		PasswordHash: &hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if verified {
		user.EmailVerifiedAt = &now
	}

	require.NoError(t, users.Create(user))
	return user
}
