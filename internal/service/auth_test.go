package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/kongden/taskboard/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*AuthService, repository.UserRepository, verificationFixture) {
	vf := newVerificationFixture(t)
	svc := NewAuthService(vf.users, vf.svc)
	return svc, vf.users, vf
}

func TestSignupAndLogin(t *testing.T) {
	svc, users, vf := newAuthFixture(t)

	user, err := svc.Signup("Alice", "Alice@X.com", "Strong1!pass")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", user.Email)
	require.NotNil(t, user.PasswordHash)
	assert.NotContains(t, *user.PasswordHash, "Strong1!pass")

	// Signup left a verification token behind
	assert.Equal(t, 1, vf.tokenCount(t, "alice@x.com"))

	// Credentials are correct but the email is still unverified
	_, err = svc.Login("alice@x.com", "Strong1!pass")
	assert.ErrorIs(t, err, ErrEmailNotVerified)

	now := time.Now()
	user.EmailVerifiedAt = &now
	require.NoError(t, users.Update(user))

	got, err := svc.Login("alice@x.com", "Strong1!pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Signup("Bob", "bob@x.com", "Strong1!pass")
	require.NoError(t, err)

	// Wrong password and unknown email map to the same sentinel
	_, wrongPassword := svc.Login("bob@x.com", "WrongPass1!")
	_, unknownEmail := svc.Login("nobody@x.com", "Strong1!pass")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestLoginMissingFields(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login("", "Strong1!pass")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Login("a@x.com", "")
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestLoginOAuthOnlyAccount(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.AuthenticateOAuth("carol@x.com", "Carol", "", "google")
	require.NoError(t, err)

	// No password hash on the row; still a generic credentials failure
	_, err = svc.Login("carol@x.com", "Strong1!pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Signup("Alice", "alice@x.com", "Strong1!pass")
	require.NoError(t, err)

	_, err = svc.Signup("Mallory", "alice@x.com", "Other1!pass")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthenticateOAuthUpsert(t *testing.T) {
	svc, users, _ := newAuthFixture(t)

	user, err := svc.AuthenticateOAuth("dave@x.com", "Dave", "https://avatars.test/dave.png", "github")
	require.NoError(t, err)
	assert.NotNil(t, user.EmailVerifiedAt, "OAuth accounts are pre-verified")
	assert.False(t, user.HasPassword())

	// Second login resolves to the same row
	again, err := svc.AuthenticateOAuth("dave@x.com", "Dave", "", "github")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	// An existing unverified credential account gets verified by OAuth login
	unverified := createTestUser(t, users, "erin@x.com", false)
	got, err := svc.AuthenticateOAuth("erin@x.com", "Erin", "", "google")
	require.NoError(t, err)
	assert.Equal(t, unverified.ID, got.ID)
	assert.NotNil(t, got.EmailVerifiedAt)
}

func TestPasswordHashNeverSerialized(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	user, err := svc.Signup("Frank", "frank@x.com", "Strong1!pass")
	require.NoError(t, err)

	out, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(out), *user.PasswordHash)
	assert.NotContains(t, string(out), "password")
}
