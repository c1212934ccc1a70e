package model

import (
	"time"
)

type User struct {
	ID              string     `db:"id" json:"id"`
	Name            *string    `db:"name" json:"name"`
	Email           string     `db:"email" json:"email"`
	PasswordHash    *string    `db:"password_hash" json:"-"` // Nullable for OAuth-only accounts
	AvatarURL       *string    `db:"avatar_url" json:"image"`
	EmailVerifiedAt *time.Time `db:"email_verified_at" json:"emailVerified"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u *User) IsVerified() bool {
	return u.EmailVerifiedAt != nil
}

// DisplayName returns the user's name or a fallback for accounts
// created before onboarding set one.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return "there"
}
