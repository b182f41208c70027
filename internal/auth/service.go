package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/alexedwards/argon2id"
	"github.com/jackc/pgx/v5"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 64
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	ErrPasswordTooLong    = fmt.Errorf("password must be at most %d characters", maxPasswordLength)
)

// Service provides authentication business logic: password hashing, access
// token creation, and refresh token rotation.
type Service struct {
	repo      *Repository
	jwtSecret string
}

// NewService creates a new auth Service with the given JWT signing secret.
func NewService(repo *Repository, jwtSecret string) *Service {
	return &Service{repo: repo, jwtSecret: jwtSecret}
}

// EnsureAdmin creates the initial admin user if one with the given email
// does not yet exist.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	if err := validatePassword(password); err != nil {
		return fmt.Errorf("initial admin password: %w", err)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing initial admin password: %w", err)
	}

	admin, err := s.repo.CreateAdmin(ctx, email, hash)
	if err != nil {
		return fmt.Errorf("creating initial admin: %w", err)
	}

	slog.Info("initial admin ensured", "email", admin.Email, "id", admin.ID)
	return nil
}

// HashPassword hashes a password with Argon2id default parameters.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return hash, nil
}

// VerifyPassword reports whether password matches the Argon2id hash.
func (s *Service) VerifyPassword(hash, password string) (bool, error) {
	match, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil {
		return false, fmt.Errorf("verifying password: %w", err)
	}
	return match, nil
}

// Login validates the credentials and, on success, returns the admin ID, a
// signed access token, and a raw refresh token whose SHA256 hash was stored
// in the database.
func (s *Service) Login(ctx context.Context, email, password string) (adminID, accessToken, refreshToken string, err error) {
	admin, err := s.repo.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", "", ErrInvalidCredentials
		}
		return "", "", "", fmt.Errorf("looking up admin: %w", err)
	}

	match, err := s.VerifyPassword(admin.PasswordHash, password)
	if err != nil {
		return "", "", "", fmt.Errorf("verifying password: %w", err)
	}
	if !match {
		return "", "", "", ErrInvalidCredentials
	}

	accessToken, err = CreateAccessToken(admin.ID, admin.Email, s.jwtSecret)
	if err != nil {
		return "", "", "", err
	}

	refreshToken, err = s.issueRefreshToken(ctx, admin.ID)
	if err != nil {
		return "", "", "", err
	}

	return admin.ID, accessToken, refreshToken, nil
}

// Refresh validates a raw refresh token, rotates it atomically, and returns
// fresh access and refresh tokens. A token that was already consumed is
// treated as a replay: every session for that admin is revoked.
func (s *Service) Refresh(ctx context.Context, oldToken string) (accessToken, rotatedToken string, err error) {
	oldHash := hashToken(oldToken)

	stored, err := s.repo.GetRefreshToken(ctx, oldHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", ErrInvalidToken
		}
		return "", "", fmt.Errorf("looking up refresh token: %w", err)
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.repo.DeleteRefreshToken(ctx, oldHash)
		return "", "", ErrInvalidToken
	}

	newToken, err := newRefreshToken()
	if err != nil {
		return "", "", err
	}
	expiresAt := time.Now().Add(refreshTokenExpiry)

	if err := s.repo.RotateRefreshToken(ctx, oldHash, hashToken(newToken), stored.AdminID, expiresAt); err != nil {
		if errors.Is(err, ErrTokenAlreadyUsed) {
			slog.Warn("refresh token replay detected, all sessions revoked",
				"admin_id", stored.AdminID)
			return "", "", ErrInvalidToken
		}
		return "", "", fmt.Errorf("rotating refresh token: %w", err)
	}

	admin, err := s.repo.GetAdminByID(ctx, stored.AdminID)
	if err != nil {
		return "", "", fmt.Errorf("looking up admin for refresh: %w", err)
	}

	accessToken, err = CreateAccessToken(admin.ID, admin.Email, s.jwtSecret)
	if err != nil {
		return "", "", err
	}
	return accessToken, newToken, nil
}

// Logout deletes the refresh token identified by the raw token value. Not
// an error if the token does not exist.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if err := s.repo.DeleteRefreshToken(ctx, hashToken(refreshToken)); err != nil {
		return fmt.Errorf("deleting refresh token on logout: %w", err)
	}
	return nil
}

// issueRefreshToken creates a fresh token, stores its hash, and returns the
// raw hex-encoded value.
func (s *Service) issueRefreshToken(ctx context.Context, adminID string) (string, error) {
	token, err := newRefreshToken()
	if err != nil {
		return "", err
	}
	expiresAt := time.Now().Add(refreshTokenExpiry)

	if err := s.repo.CreateRefreshToken(ctx, adminID, hashToken(token), expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

// StartTokenCleanup launches a background loop that purges expired refresh
// tokens at the given interval, stopping when ctx is cancelled. Expired
// tokens are already rejected at refresh time; the sweep only keeps the
// table from growing without bound.
func (s *Service) StartTokenCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.repo.DeleteExpiredTokens(ctx); err != nil {
					slog.Error("failed to delete expired refresh tokens", "error", err)
				}
			}
		}
	}()
}

// validatePassword checks the length policy in runes so multi-byte UTF-8
// characters count once.
func validatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < minPasswordLength {
		return ErrPasswordTooShort
	}
	if n > maxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}
