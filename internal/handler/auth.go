package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kongden/taskboard/internal/config"
	"github.com/kongden/taskboard/internal/ctxkeys"
	"github.com/kongden/taskboard/internal/provider"
	"github.com/kongden/taskboard/internal/service"
	"github.com/kongden/taskboard/internal/validation"
)

type authHandler struct {
	authService         *service.AuthService
	verificationService *service.VerificationService
	sessionService      *service.SessionService
	providers           *provider.Registry
	appURL              string
}

func NewAuthHandler(
	authService *service.AuthService,
	verificationService *service.VerificationService,
	sessionService *service.SessionService,
	providers *provider.Registry,
	cfg *config.Config,
) *authHandler {
	return &authHandler{
		authService:         authService,
		verificationService: verificationService,
		sessionService:      sessionService,
		providers:           providers,
		appURL:              cfg.AppURL,
	}
}

// Signup registers a credential account. The created user never includes
// the password hash; the verification email is a side effect whose failure
// does not roll the account back.
func (h *authHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	details := map[string]string{}
	if err := validation.ValidateName(req.Name); err != nil {
		details["name"] = err.Error()
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		details["email"] = err.Error()
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		details["password"] = err.Error()
	}
	if len(details) > 0 {
		respondValidationError(w, details)
		return
	}

	user, err := h.authService.Signup(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyExists) {
			respondError(w, http.StatusBadRequest, "User's email already exists")
			return
		}
		respondInternalError(w, "signup failed", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"user":    user,
		"message": "User created successfully",
	})
}

// ResendVerification always returns the same generic success body so
// responses cannot be used to probe which emails have accounts.
func (h *authHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		respondValidationError(w, map[string]string{"email": err.Error()})
		return
	}

	h.verificationService.Resend(req.Email)

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "If an unverified account exists with this email, a new verification link has been sent.",
	})
}

// VerifyEmail consumes a raw token from the query string and redirects to
// the success page or to an error page parameterized by a reason code.
func (h *authHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.redirectVerificationError(w, r, "missing-token")
		return
	}

	_, err := h.verificationService.Validate(token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenNotFound):
			h.redirectVerificationError(w, r, "invalid-token")
		case errors.Is(err, service.ErrTokenExpired):
			h.redirectVerificationError(w, r, "expired-token")
		case errors.Is(err, service.ErrUserMissing):
			h.redirectVerificationError(w, r, "user-not-found")
		default:
			slog.Error("email verification failed", "error", err)
			h.redirectVerificationError(w, r, "server-error")
		}
		return
	}

	http.Redirect(w, r, h.appURL+"/auth/verified", http.StatusSeeOther)
}

func (h *authHandler) redirectVerificationError(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, fmt.Sprintf("%s/auth/verification-error?message=%s", h.appURL, reason), http.StatusSeeOther)
}

// Login authenticates credentials through the provider chain and issues a
// session cookie. Unknown email and wrong password produce bit-identical
// responses; an unverified email is the one distinct failure.
func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p, err := h.providers.Lookup("credentials")
	if err != nil {
		respondInternalError(w, "credentials provider missing", err)
		return
	}

	identity, err := p.Authenticate(r.Context(), provider.Presentation{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			respondError(w, http.StatusBadRequest, "Please enter both email & password")
		case errors.Is(err, service.ErrEmailNotVerified):
			respondJSON(w, http.StatusForbidden, map[string]any{
				"error": "Please verify your email address first. Check your inbox or spam folder.",
				"code":  "verification_required",
			})
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(w, http.StatusUnauthorized, "Invalid email or password")
		default:
			respondInternalError(w, "login failed", err)
		}
		return
	}

	err = h.issueSession(w, identity)
	if err != nil {
		respondInternalError(w, "failed to issue session", err)
		return
	}

	slog.Info("user logged in with password", "user_id", identity.UserID, "email", identity.Email)
	respondJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":    identity.UserID,
			"email": identity.Email,
			"name":  identity.Name,
			"image": identity.AvatarURL,
		},
	})
}

// CSRFToken hands the double-submit token to JSON clients so they can echo
// it in the X-CSRF-Token header on state-changing requests.
func (h *authHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"csrfToken": ctxkeys.CSRFToken(r.Context()),
	})
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessionService.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// OAuthStart redirects the user to the named provider's consent screen
func (h *authHandler) OAuthStart(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("provider")

	p, err := h.providers.Redirect(name)
	if err != nil {
		respondError(w, http.StatusNotFound, "Unknown auth provider")
		return
	}

	// Generate secure state token for CSRF protection
	state := generateOAuthState()

	cfg := ctxkeys.Config(r.Context())
	isProduction := cfg != nil && cfg.IsProduction()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction, // Secure flag based on APP_ENV (safer than r.TLS behind load balancers)
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	http.Redirect(w, r, p.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// OAuthCallback completes the authorization-code handshake
func (h *authHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("provider")

	p, err := h.providers.Redirect(name)
	if err != nil {
		respondError(w, http.StatusNotFound, "Unknown auth provider")
		return
	}

	// Validate state parameter for CSRF protection
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie("oauth_state")
	if err != nil || cookie.Value != state || state == "" {
		slog.Warn("oauth state validation failed", "provider", name, "error", err)
		h.redirectLoginError(w, r)
		return
	}

	// Clear state cookie
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("oauth callback missing code", "provider", name)
		h.redirectLoginError(w, r)
		return
	}

	identity, err := p.Authenticate(r.Context(), provider.Presentation{Code: code})
	if err != nil {
		slog.Error("oauth authentication failed", "provider", name, "error", err)
		h.redirectLoginError(w, r)
		return
	}

	err = h.issueSession(w, identity)
	if err != nil {
		slog.Error("failed to issue session", "provider", name, "error", err)
		h.redirectLoginError(w, r)
		return
	}

	slog.Info("user logged in with oauth", "provider", name, "user_id", identity.UserID, "email", identity.Email)

	target := "/dashboard"
	if callback := r.URL.Query().Get("callbackUrl"); strings.HasPrefix(callback, "/") {
		target = callback
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *authHandler) redirectLoginError(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/auth/login?error=oauth", http.StatusSeeOther)
}

func (h *authHandler) issueSession(w http.ResponseWriter, identity *provider.Identity) error {
	token, err := h.sessionService.Issue(identity.UserID, identity.Email)
	if err != nil {
		return err
	}

	h.sessionService.SetCookie(w, token)
	return nil
}

// generateOAuthState creates cryptographically secure random state token for OAuth CSRF protection
func generateOAuthState() string {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		panic("failed to generate oauth state: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}
