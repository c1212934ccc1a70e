package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kongden/taskboard/internal/model"
)

var (
	ErrTokenNotFound = errors.New("token not found")
)

type TokenRepository interface {
	Create(token *model.VerificationToken) error
	Consume(tokenHash string) (*model.VerificationToken, error)
	DeleteByEmail(email string) error
}

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(token *model.VerificationToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO verification_tokens (id, token_hash, email, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(query,
		token.ID,
		token.TokenHash,
		token.Email,
		token.ExpiresAt,
		token.CreatedAt,
	)
	return err
}

// Consume atomically deletes the token row and returns it.
// Tokens are single-use: when two requests race on the same hash, the
// DELETE ... RETURNING succeeds for exactly one of them and the other
// gets ErrTokenNotFound. Expiry is classified by the caller after the
// row is gone, which doubles as delete-on-expiry cleanup.
func (r *tokenRepository) Consume(tokenHash string) (*model.VerificationToken, error) {
	var t model.VerificationToken

	query := `
		DELETE FROM verification_tokens
		WHERE token_hash = $1
		RETURNING *
	`

	err := r.db.Get(&t, query, tokenHash)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *tokenRepository) DeleteByEmail(email string) error {
	query := `DELETE FROM verification_tokens WHERE email = $1`
	_, err := r.db.Exec(query, email)
	return err
}
