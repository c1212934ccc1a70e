package service

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionIssueResolve(t *testing.T) {
	sessions := NewSessionService("test-secret", time.Hour, false)

	token, err := sessions.Issue("user-1", "a@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := sessions.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestSessionResolveInvalid(t *testing.T) {
	sessions := NewSessionService("test-secret", time.Hour, false)

	// Malformed, unsigned and expired tokens are indistinguishable to the caller
	_, err := sessions.Resolve("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = sessions.Resolve("")
	assert.ErrorIs(t, err, ErrInvalidSession)

	other := NewSessionService("other-secret", time.Hour, false)
	token, err := other.Issue("user-1", "a@x.com")
	require.NoError(t, err)

	_, err = sessions.Resolve(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionResolveExpired(t *testing.T) {
	sessions := NewSessionService("test-secret", -time.Minute, false)

	token, err := sessions.Issue("user-1", "a@x.com")
	require.NoError(t, err)

	_, err = sessions.Resolve(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestSessionCookie(t *testing.T) {
	sessions := NewSessionService("test-secret", time.Hour, true)

	w := httptest.NewRecorder()
	sessions.SetCookie(w, "token-value")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth_token", cookies[0].Name)
	assert.Equal(t, "token-value", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	w = httptest.NewRecorder()
	sessions.ClearCookie(w)
	cookies = w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].Expires.Before(time.Now()))
}
