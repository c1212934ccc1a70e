package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kongden/taskboard/internal/config"
	"github.com/kongden/taskboard/internal/ctxkeys"
	"github.com/kongden/taskboard/internal/db"
	"github.com/kongden/taskboard/internal/provider"
	"github.com/kongden/taskboard/internal/repository"
	"github.com/kongden/taskboard/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	handler *authHandler
	auth    *service.AuthService
	users   repository.UserRepository
	conn    *sqlx.DB
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()

	conn, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	require.NoError(t, db.RunMigrations(conn.DB, "sqlite"))
	t.Cleanup(func() { _ = conn.Close() })

	cfg := &config.Config{
		AppEnv:    "development",
		AppURL:    "http://localhost:8090",
		JWTSecret: "test-secret-test-secret-test-secret",
		JWTExpiry: time.Hour,
	}

	users := repository.NewUserRepository(conn)
	tokens := repository.NewTokenRepository(conn)
	emails := service.NewEmailService("", "noreply@test.local", cfg.AppURL, "Kongden", true)
	verification := service.NewVerificationService(tokens, users, emails, 24*time.Hour)
	auth := service.NewAuthService(users, verification)
	sessions := service.NewSessionService(cfg.JWTSecret, cfg.JWTExpiry, false)
	providers := provider.NewRegistry(provider.NewCredentials(auth))

	return authFixture{
		handler: NewAuthHandler(auth, verification, sessions, providers, cfg),
		auth:    auth,
		users:   users,
		conn:    conn,
	}
}

func postJSON(path, body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func (f authFixture) signup(t *testing.T, name, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"name": name, "email": email, "password": password})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	f.handler.Signup(w, postJSON("/api/auth/signup", string(body)))
	return w
}

func (f authFixture) login(t *testing.T, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	f.handler.Login(w, postJSON("/api/auth/login", string(body)))
	return w
}

func (f authFixture) verify(t *testing.T, email string) {
	t.Helper()
	user, err := f.users.ByEmail(email)
	require.NoError(t, err)
	now := time.Now()
	user.EmailVerifiedAt = &now
	require.NoError(t, f.users.Update(user))
}

func TestSignupCreatesUser(t *testing.T) {
	f := newAuthFixture(t)

	w := f.signup(t, "Alice", "alice@x.com", "Strong1!pass")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		User    map[string]any `json:"user"`
		Message string         `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "User created successfully", resp.Message)
	assert.Equal(t, "alice@x.com", resp.User["email"])
	assert.Nil(t, resp.User["emailVerified"])
	assert.NotContains(t, w.Body.String(), "$2a$", "no hash in the response")
}

func TestSignupValidationDetails(t *testing.T) {
	f := newAuthFixture(t)

	w := f.signup(t, "", "not-an-email", "Weak1!")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Contains(t, resp.Details, "name")
	assert.Contains(t, resp.Details, "email")
	assert.Contains(t, resp.Details, "password")
}

func TestSignupDuplicateEmailResponse(t *testing.T) {
	f := newAuthFixture(t)

	require.Equal(t, http.StatusCreated, f.signup(t, "Alice", "alice@x.com", "Strong1!pass").Code)

	w := f.signup(t, "Mallory", "alice@x.com", "Other1!pass")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"User's email already exists"}`, w.Body.String())
}

func TestLoginIssuesSessionCookie(t *testing.T) {
	f := newAuthFixture(t)
	f.signup(t, "Alice", "alice@x.com", "Strong1!pass")
	f.verify(t, "alice@x.com")

	w := f.login(t, "alice@x.com", "Strong1!pass")
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth_token", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	var resp struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice@x.com", resp.User.Email)
}

func TestLoginFailureResponsesMatch(t *testing.T) {
	f := newAuthFixture(t)
	f.signup(t, "Alice", "alice@x.com", "Strong1!pass")
	f.verify(t, "alice@x.com")

	wrongPassword := f.login(t, "alice@x.com", "WrongPass1!")
	unknownEmail := f.login(t, "nobody@x.com", "Strong1!pass")

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// Bit-identical bodies: nothing distinguishes the two failures
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	assert.Empty(t, wrongPassword.Result().Cookies())
}

func TestLoginUnverifiedEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.signup(t, "Alice", "alice@x.com", "Strong1!pass")

	w := f.login(t, "alice@x.com", "Strong1!pass")
	require.Equal(t, http.StatusForbidden, w.Code)

	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "verification_required", resp.Code)
}

func TestLoginMissingFieldsResponse(t *testing.T) {
	f := newAuthFixture(t)

	w := f.login(t, "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Please enter both email & password"}`, w.Body.String())
}

func TestResendVerificationIsEnumerationResistant(t *testing.T) {
	f := newAuthFixture(t)
	f.signup(t, "Alice", "alice@x.com", "Strong1!pass")

	resend := func(email string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		f.handler.ResendVerification(w, postJSON("/api/auth/resend-verification", `{"email":"`+email+`"}`))
		return w
	}

	unverified := resend("alice@x.com")
	unknown := resend("nobody@x.com")

	assert.Equal(t, http.StatusOK, unverified.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, unverified.Body.String(), unknown.Body.String())
}

func TestVerifyEmailRedirects(t *testing.T) {
	f := newAuthFixture(t)
	f.signup(t, "Alice", "alice@x.com", "Strong1!pass")

	var hash string
	require.NoError(t, f.conn.Get(&hash, `SELECT token_hash FROM verification_tokens WHERE email = $1`, "alice@x.com"))
	require.NotEmpty(t, hash)

	// The stored value is the digest; a made-up raw token cannot match it
	w := httptest.NewRecorder()
	f.handler.VerifyEmail(w, httptest.NewRequest(http.MethodGet, "/api/auth/verify-email?token="+hash, nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "http://localhost:8090/auth/verification-error?message=invalid-token", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	f.handler.VerifyEmail(w, httptest.NewRequest(http.MethodGet, "/api/auth/verify-email", nil))
	assert.Equal(t, "http://localhost:8090/auth/verification-error?message=missing-token", w.Header().Get("Location"))
}

func TestCSRFTokenEndpoint(t *testing.T) {
	f := newAuthFixture(t)

	r := httptest.NewRequest(http.MethodGet, "/api/auth/csrf", nil)
	r = r.WithContext(ctxkeys.WithCSRFToken(r.Context(), "token-from-cookie"))

	w := httptest.NewRecorder()
	f.handler.CSRFToken(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"csrfToken":"token-from-cookie"}`, w.Body.String())
}

func TestLogoutClearsCookie(t *testing.T) {
	f := newAuthFixture(t)

	w := httptest.NewRecorder()
	f.handler.Logout(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth_token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
}
