package model

import (
	"time"
)

// VerificationToken is the persisted half of an email verification token.
// Only the SHA-256 digest of the raw value is stored; possession of the raw
// value is the sole proof of authenticity.
type VerificationToken struct {
	ID        string    `db:"id"`
	TokenHash string    `db:"token_hash"`
	Email     string    `db:"email"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

func (t *VerificationToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
