package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/kongden/taskboard/internal/ctxkeys"
)

// GuardConfig enumerates the path classification lists at startup. The
// matcher lists are configuration, not per-request logic.
type GuardConfig struct {
	// ProtectedPrefixes require a valid session (e.g. /dashboard, /boards)
	ProtectedPrefixes []string
	// AuthOnlyPaths are login/signup pages a signed-in user is bounced from
	AuthOnlyPaths []string
	// LoginPath receives anonymous visitors to protected paths
	LoginPath string
	// LandingPath receives signed-in visitors to auth-only paths
	LandingPath string
}

// RouteGuard classifies every inbound path as protected, auth-only or
// public and applies the redirect rules before any handler executes:
//
//   - protected + no session: redirect to login, carrying the requested
//     path as callbackUrl so login can return the user there. API paths
//     get 401 JSON instead of a redirect.
//   - auth-only + valid session: redirect to the landing page.
//   - everything else: pass through.
//
// It has no side effects beyond the redirect decision.
func RouteGuard(cfg GuardConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := ctxkeys.User(r.Context())
			path := r.URL.Path

			if user == nil && hasPrefix(path, cfg.ProtectedPrefixes) {
				if strings.HasPrefix(path, "/api/") {
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnauthorized)
					_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
					return
				}

				loginURL := cfg.LoginPath + "?callbackUrl=" + url.QueryEscape(path)
				http.Redirect(w, r, loginURL, http.StatusSeeOther)
				return
			}

			if user != nil && isAuthOnly(path, cfg.AuthOnlyPaths) {
				http.Redirect(w, r, cfg.LandingPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// hasPrefix matches whole path segments: /api/boards covers itself and
// /api/boards/123 but not /api/boardsX.
func hasPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func isAuthOnly(path string, paths []string) bool {
	for _, p := range paths {
		if path == p {
			return true
		}
	}
	return false
}
