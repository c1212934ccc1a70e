package middleware

import (
	"net/http"

	"github.com/kongden/taskboard/internal/ctxkeys"
	"github.com/kongden/taskboard/internal/repository"
	"github.com/kongden/taskboard/internal/service"
)

// Auth resolves the session cookie once per request and adds the user to
// the context when the token is valid. Invalid or stale tokens clear the
// cookie and the request continues anonymously; the route guard decides
// whether anonymous is acceptable.
func Auth(sessions *service.SessionService, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := service.CookieToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := sessions.Resolve(token)
			if err != nil {
				sessions.ClearCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.ByID(claims.UserID)
			if err != nil {
				sessions.ClearCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			// Security: never carry the hash through the request context
			user.PasswordHash = nil

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
