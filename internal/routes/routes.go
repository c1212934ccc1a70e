package routes

import (
	"net/http"

	"github.com/kongden/taskboard/internal/app"
	"github.com/kongden/taskboard/internal/handler"
	"github.com/kongden/taskboard/internal/middleware"
)

func SetupRoutes(a *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler()
	auth := handler.NewAuthHandler(a.AuthService, a.VerificationService, a.SessionService, a.Providers, a.Cfg)
	account := handler.NewAccountHandler()
	board := handler.NewBoardHandler(a.BoardService)
	list := handler.NewListHandler(a.BoardService)
	task := handler.NewTaskHandler(a.BoardService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)

	// Auth
	mux.HandleFunc("GET /api/auth/csrf", auth.CSRFToken)
	mux.HandleFunc("POST /api/auth/signup", auth.Signup)
	mux.HandleFunc("POST /api/auth/login", auth.Login)
	mux.HandleFunc("POST /api/auth/resend-verification", auth.ResendVerification)
	mux.HandleFunc("GET /api/auth/verify-email", auth.VerifyEmail)
	mux.HandleFunc("POST /auth/logout", auth.Logout)

	// OAuth
	mux.HandleFunc("GET /auth/{provider}", auth.OAuthStart)
	mux.HandleFunc("GET /auth/{provider}/callback", auth.OAuthCallback)

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	mux.HandleFunc("GET /api/me", account.Me)

	// Boards
	mux.HandleFunc("GET /api/boards", board.List)
	mux.HandleFunc("POST /api/boards", board.Create)
	mux.HandleFunc("GET /api/boards/{boardId}", board.Get)
	mux.HandleFunc("PATCH /api/boards/{boardId}", board.Update)
	mux.HandleFunc("DELETE /api/boards/{boardId}", board.Delete)

	// Lists
	mux.HandleFunc("POST /api/boards/{boardId}/lists", list.Create)
	mux.HandleFunc("PUT /api/boards/{boardId}/lists/reorder", list.Reorder)
	mux.HandleFunc("PATCH /api/boards/{boardId}/lists/{listId}", list.Rename)
	mux.HandleFunc("DELETE /api/boards/{boardId}/lists/{listId}", list.Delete)

	// Tasks
	mux.HandleFunc("POST /api/boards/{boardId}/lists/{listId}/tasks", task.Create)
	mux.HandleFunc("PATCH /api/boards/{boardId}/tasks/{taskId}", task.Update)
	mux.HandleFunc("DELETE /api/boards/{boardId}/tasks/{taskId}", task.Delete)

	// Route guard path classification. The matcher lists are startup
	// configuration; the guard itself never inspects anything else.
	guard := middleware.GuardConfig{
		ProtectedPrefixes: []string{"/dashboard", "/boards", "/settings", "/api/me", "/api/boards"},
		AuthOnlyPaths:     []string{"/auth/login", "/auth/signup"},
		LoginPath:         "/auth/login",
		LandingPath:       "/dashboard",
	}

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.Config(a.Cfg), // Config must be first (CSRF and OAuth read APP_ENV)
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.CSRFProtection, // CSRF protection for all state-changing requests
		middleware.Auth(a.SessionService, a.UserRepository),
		middleware.RouteGuard(guard),
	)

	return h
}
