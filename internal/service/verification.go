package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kongden/taskboard/internal/model"
	"github.com/kongden/taskboard/internal/repository"
)

var (
	ErrTokenNotFound = errors.New("verification token not found")
	ErrTokenExpired  = errors.New("verification token expired")
	ErrUserMissing   = errors.New("verification token references no user")
)

// EmailSender is the slice of EmailService the verification flow dispatches
// through.
type EmailSender interface {
	SendVerificationEmail(email, name, token string) error
	SendWelcomeEmail(email, name string) error
}

// VerificationService owns the email verification token lifecycle:
// issue, resend, validate. Tokens are single-use and time-boxed; only the
// SHA-256 digest of a token is ever persisted.
type VerificationService struct {
	tokenRepository repository.TokenRepository
	userRepository  repository.UserRepository
	emailService    EmailSender
	expiry          time.Duration
}

func NewVerificationService(
	tokenRepository repository.TokenRepository,
	userRepository repository.UserRepository,
	emailService EmailSender,
	expiry time.Duration,
) *VerificationService {
	return &VerificationService{
		tokenRepository: tokenRepository,
		userRepository:  userRepository,
		emailService:    emailService,
		expiry:          expiry,
	}
}

// Issue generates a raw token, persists its hash and returns the raw value
// for transmission. The raw value is never stored.
func (s *VerificationService) Issue(email string) (string, error) {
	raw, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	token := &model.VerificationToken{
		TokenHash: hashToken(raw),
		Email:     email,
		ExpiresAt: time.Now().Add(s.expiry),
	}
	err = s.tokenRepository.Create(token)
	if err != nil {
		return "", fmt.Errorf("failed to persist token: %w", err)
	}

	return raw, nil
}

// IssueAndSend issues a fresh token for the email and dispatches it.
// Any previously issued tokens for the email are invalidated first.
func (s *VerificationService) IssueAndSend(email, name string) error {
	err := s.tokenRepository.DeleteByEmail(email)
	if err != nil {
		slog.Warn("failed to delete old verification tokens", "error", err, "email", email)
	}

	raw, err := s.Issue(email)
	if err != nil {
		return err
	}

	return s.emailService.SendVerificationEmail(email, name, raw)
}

// Resend issues a new verification token only when the email belongs to an
// unverified account. Missing and already-verified accounts are silent
// no-ops: the caller sees the identical outcome in every case, so responses
// cannot be used to enumerate accounts.
func (s *VerificationService) Resend(email string) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			slog.Error("resend verification lookup failed", "error", err, "email", email)
		}
		return
	}

	if user.IsVerified() {
		return
	}

	err = s.IssueAndSend(email, user.DisplayName())
	if err != nil {
		slog.Warn("resend verification dispatch failed", "error", err, "email", email)
	}
}

// Validate consumes the presented raw token and, on success, marks the
// owning user as verified. Exactly one call per token can succeed; a second
// presentation of the same raw value fails with ErrTokenNotFound.
func (s *VerificationService) Validate(raw string) (string, error) {
	token, err := s.tokenRepository.Consume(hashToken(raw))
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to consume token: %w", err)
	}

	// The row is already gone, which is the delete-on-expiry policy.
	if token.IsExpired() {
		return "", ErrTokenExpired
	}

	user, err := s.userRepository.ByEmail(token.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Orphan token: the consume above was its cleanup
			slog.Info("orphan verification token cleaned up", "email", token.Email)
			return "", ErrUserMissing
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}

	now := time.Now()
	user.EmailVerifiedAt = &now
	user.UpdatedAt = now
	err = s.userRepository.Update(user)
	if err != nil {
		return "", fmt.Errorf("failed to mark email verified: %w", err)
	}

	// The account is active now; a welcome that fails to send stays a
	// warning, verification already succeeded
	err = s.emailService.SendWelcomeEmail(user.Email, user.DisplayName())
	if err != nil {
		slog.Warn("welcome email dispatch failed", "error", err, "email", user.Email)
	}

	slog.Info("email verified", "user_id", user.ID, "email", user.Email)
	return user.Email, nil
}

// generateToken returns a 256-bit random value, hex encoded.
func generateToken() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// hashToken computes the deterministic one-way digest stored in place of
// the raw token.
func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
