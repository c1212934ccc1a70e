package validation

import (
	"errors"
	"strings"
)

// ValidateTitle validates a board, list or task title
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)

	if trimmed == "" {
		return errors.New("title is required")
	}

	if len(trimmed) > 100 {
		return errors.New("title is too long (max 100 characters)")
	}

	return nil
}

// ValidateDescription validates an optional description field
func ValidateDescription(description string) error {
	if len(description) > 500 {
		return errors.New("description is too long (max 500 characters)")
	}

	return nil
}
