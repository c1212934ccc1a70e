package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/kongden/taskboard/internal/config"
	"github.com/kongden/taskboard/internal/db"
	"github.com/kongden/taskboard/internal/provider"
	"github.com/kongden/taskboard/internal/repository"
	"github.com/kongden/taskboard/internal/service"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	UserRepository      repository.UserRepository
	AuthService         *service.AuthService
	VerificationService *service.VerificationService
	SessionService      *service.SessionService
	EmailService        *service.EmailService
	BoardService        *service.BoardService
	Providers           *provider.Registry
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	boardRepository := repository.NewBoardRepository(database)
	listRepository := repository.NewListRepository(database)
	taskRepository := repository.NewTaskRepository(database)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	verificationService := service.NewVerificationService(
		tokenRepository,
		userRepository,
		emailService,
		cfg.TokenEmailVerifyExpiry,
	)
	authService := service.NewAuthService(userRepository, verificationService)
	sessionService := service.NewSessionService(cfg.JWTSecret, cfg.JWTExpiry, cfg.IsProduction())
	boardService := service.NewBoardService(boardRepository, listRepository, taskRepository)

	// Auth provider chain
	providers := provider.NewRegistry(
		provider.NewCredentials(authService),
		provider.NewGoogle(authService, cfg),
		provider.NewGitHub(authService, cfg),
	)

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		UserRepository:      userRepository,
		AuthService:         authService,
		VerificationService: verificationService,
		SessionService:      sessionService,
		EmailService:        emailService,
		BoardService:        boardService,
		Providers:           providers,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
