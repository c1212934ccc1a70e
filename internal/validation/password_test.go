package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "Strong1!", false},
		{"valid long", "Another-Good-Passw0rd", false},
		{"too short", "Weak1!", true},
		{"no uppercase", "weakweak1!", true},
		{"no lowercase", "WEAKWEAK1!", true},
		{"no digit", "Weakweak!!", true},
		{"no special", "Weakweak11", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePasswordBcryptLimit(t *testing.T) {
	long := "Aa1!"
	for len(long) <= 72 {
		long += "xxxx"
	}
	assert.Error(t, ValidatePassword(long))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("a@x.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("Ann <a@x.com>"), "bare address only")
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Ann"))
	assert.Error(t, ValidateName("   "))
}
