package validation

import (
	"errors"
	"net/mail"
)

// ValidateEmail accepts a bare RFC 5322 address. Display names and the
// angle-bracket form are rejected; the column stores the plain address only.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email address is required")
	}

	// RFC 5321 caps the full address at 254 octets
	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("invalid email address format")
	}

	return nil
}
