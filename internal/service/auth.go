package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kongden/taskboard/internal/model"
	"github.com/kongden/taskboard/internal/repository"
	"github.com/kongden/taskboard/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingFields      = errors.New("email and password are required")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidEmail       = errors.New("invalid email address")
)

// bcryptCost targets roughly 100ms per hash on commodity hardware.
const bcryptCost = 12

type AuthService struct {
	userRepository      repository.UserRepository
	verificationService *VerificationService
}

func NewAuthService(userRepository repository.UserRepository, verificationService *VerificationService) *AuthService {
	return &AuthService{
		userRepository:      userRepository,
		verificationService: verificationService,
	}
}

// Signup creates an unverified credential account and issues a verification
// token. Email dispatch failure does not roll the user back; the resend flow
// is the recovery path.
func (s *AuthService) Signup(name, email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	now := time.Now()
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Name:         &name,
		Email:        email,
		PasswordHash: &hash,
		CreatedAt:    now,
		UpdatedAt:    now,
		// email_verified_at stays NULL until the verification flow completes
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	err = s.verificationService.IssueAndSend(email, name)
	if err != nil {
		slog.Warn("verification email dispatch failed after signup", "error", err, "email", email)
	}

	slog.Info("user signed up", "user_id", user.ID, "email", email)
	return user, nil
}

// Login authenticates email+password credentials. Unknown email and wrong
// password return the same ErrInvalidCredentials; an unverified email is the
// one distinct, user-visible failure so the client can offer a resend.
func (s *AuthService) Login(email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		// OAuth-only account; indistinguishable from a bad password
		return nil, ErrInvalidCredentials
	}

	err = s.ComparePassword(password, *user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.EmailVerifiedAt == nil {
		return nil, ErrEmailNotVerified
	}

	return user, nil
}

// AuthenticateOAuth upserts the account behind a federated identity.
// Provider identities are treated as pre-verified, so a first login creates
// the user with email_verified_at already set and no password hash.
func (s *AuthService) AuthenticateOAuth(email, name, avatarURL, provider string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to lookup user: %w", err)
		}

		now := time.Now()
		user = &model.User{
			ID:              uuid.New().String(),
			Email:           email,
			EmailVerifiedAt: &now, // OAuth provider has verified the email
			CreatedAt:       now,
			UpdatedAt:       now,
			// password_hash is NULL for OAuth accounts
		}
		if name != "" {
			user.Name = &name
		}
		if avatarURL != "" {
			user.AvatarURL = &avatarURL
		}

		err = s.userRepository.Create(user)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateEmail) {
				// Lost a race with a concurrent first login; use the winner's row
				return s.userRepository.ByEmail(email)
			}
			return nil, fmt.Errorf("failed to create user: %w", err)
		}

		slog.Info("new OAuth user created", "email", email, "user_id", user.ID, "provider", provider)
		return user, nil
	}

	// User exists - ensure email is verified (OAuth provider has verified it)
	if user.EmailVerifiedAt == nil {
		now := time.Now()
		user.EmailVerifiedAt = &now
		user.UpdatedAt = now
		err = s.userRepository.Update(user)
		if err != nil {
			slog.Warn("failed to mark email as verified", "error", err, "user_id", user.ID)
			// Don't fail login
		}
	}

	slog.Info("user authenticated via OAuth", "user_id", user.ID, "email", user.Email, "provider", provider)
	return user, nil
}

func (s *AuthService) ValidatePassword(password string) error {
	return validation.ValidatePassword(password)
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
