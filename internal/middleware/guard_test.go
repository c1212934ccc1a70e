package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kongden/taskboard/internal/ctxkeys"
	"github.com/kongden/taskboard/internal/db"
	"github.com/kongden/taskboard/internal/model"
	"github.com/kongden/taskboard/internal/repository"
	"github.com/kongden/taskboard/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGuardConfig = GuardConfig{
	ProtectedPrefixes: []string{"/dashboard", "/boards", "/api/boards"},
	AuthOnlyPaths:     []string{"/auth/login", "/auth/signup"},
	LoginPath:         "/auth/login",
	LandingPath:       "/dashboard",
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func guardRequest(t *testing.T, path string, user *model.User) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, path, nil)
	if user != nil {
		r = r.WithContext(ctxkeys.WithUser(r.Context(), user))
	}

	w := httptest.NewRecorder()
	RouteGuard(testGuardConfig)(okHandler()).ServeHTTP(w, r)
	return w
}

func TestRouteGuardProtectedAnonymous(t *testing.T) {
	w := guardRequest(t, "/dashboard", nil)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/login?callbackUrl=%2Fdashboard", w.Header().Get("Location"))
}

func TestRouteGuardProtectedAPIAnonymous(t *testing.T) {
	w := guardRequest(t, "/api/boards/123", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}

func TestRouteGuardPublicAnonymous(t *testing.T) {
	w := guardRequest(t, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = guardRequest(t, "/auth/login", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouteGuardPrefixMatchesSegments(t *testing.T) {
	// A shared prefix inside a segment is not a protected path
	w := guardRequest(t, "/dashboardfoo", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = guardRequest(t, "/api/boardsX", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The prefix itself and its subtree are
	w = guardRequest(t, "/api/boards", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = guardRequest(t, "/dashboard/settings", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestRouteGuardAuthOnlySignedIn(t *testing.T) {
	user := &model.User{ID: "u1", Email: "a@x.com"}

	w := guardRequest(t, "/auth/login", user)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	// Exact match only: a longer path is not auth-only
	w = guardRequest(t, "/auth/login/help", user)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouteGuardProtectedSignedIn(t *testing.T) {
	user := &model.User{ID: "u1", Email: "a@x.com"}

	w := guardRequest(t, "/dashboard", user)
	assert.Equal(t, http.StatusOK, w.Code)

	w = guardRequest(t, "/api/boards/123", user)
	assert.Equal(t, http.StatusOK, w.Code)
}

func newAuthMiddlewareFixture(t *testing.T) (*service.SessionService, repository.UserRepository, *model.User) {
	t.Helper()

	conn, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	require.NoError(t, db.RunMigrations(conn.DB, "sqlite"))
	t.Cleanup(func() { _ = conn.Close() })

	users := repository.NewUserRepository(conn)

	now := time.Now()
	hash := "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"
	user := &model.User{
		ID:              uuid.New().String(),
		Email:           "a@x.com",
		PasswordHash:    &hash,
		EmailVerifiedAt: &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, users.Create(user))

	sessions := service.NewSessionService("test-secret-test-secret-test-secret", time.Hour, false)
	return sessions, users, user
}

func TestAuthMiddlewareResolvesUser(t *testing.T) {
	sessions, users, user := newAuthMiddlewareFixture(t)

	token, err := sessions.Issue(user.ID, user.Email)
	require.NoError(t, err)

	var got *model.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ctxkeys.User(r.Context())
	})

	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	Auth(sessions, users)(next).ServeHTTP(httptest.NewRecorder(), r)

	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.ID)
	assert.Nil(t, got.PasswordHash, "hash must not enter the request context")
}

func TestAuthMiddlewareInvalidTokenIsAnonymous(t *testing.T) {
	sessions, users, _ := newAuthMiddlewareFixture(t)

	called := false
	var got *model.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		got = ctxkeys.User(r.Context())
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "auth_token", Value: "not-a-jwt"})
	w := httptest.NewRecorder()
	Auth(sessions, users)(next).ServeHTTP(w, r)

	assert.True(t, called, "request continues anonymously")
	assert.Nil(t, got)

	// The stale cookie was cleared
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "auth_token", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].Expires.Before(time.Now()))
}

func TestAuthMiddlewareDeletedUserIsAnonymous(t *testing.T) {
	sessions, users, user := newAuthMiddlewareFixture(t)

	token, err := sessions.Issue(user.ID, user.Email)
	require.NoError(t, err)
	require.NoError(t, users.Delete(user.ID))

	var got *model.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ctxkeys.User(r.Context())
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	Auth(sessions, users)(next).ServeHTTP(httptest.NewRecorder(), r)

	assert.Nil(t, got)
}
