// Package service — authentication business logic.
//
// AuthService sits between the HTTP handler and the user repository:
//
//	AuthHandler (HTTP) → AuthService (session rules) → UserRepository (DB)
//
// The session model is deliberately primitive: the token the client
// holds is the user id, and presenting any non-empty token counts as
// being authorized. See internal/auth for the contract.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rianperassoli/daily-diet-api/internal/apperror"
	"github.com/rianperassoli/daily-diet-api/internal/auth"
	"github.com/rianperassoli/daily-diet-api/internal/repository"
)

// Credentials is a username/password pair presented on login.
type Credentials struct {
	Username string
	Password string
}

// AuthService handles the authentication business logic.
type AuthService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(users repository.UserRepository, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		logger: logger,
	}
}

// Authenticate resolves a session for the caller.
//
// If existing is non-empty, the caller already holds a session cookie
// and is authorized as-is: the token is returned verbatim with no
// lookup. The storage layer is never touched on this path.
//
// Otherwise credentials are required. A missing pair is a validation
// failure; a pair that matches no (username, password) row exactly is
// apperror.ErrUnauthorized. On success the returned token is the
// matched user's id, which the handler persists as the session cookie.
func (s *AuthService) Authenticate(ctx context.Context, existing auth.Token, creds *Credentials) (auth.Token, error) {
	if existing != "" {
		return existing, nil
	}

	if creds == nil {
		return "", apperror.ValidationFailed("credentials", "username and password are required")
	}
	if creds.Username == "" {
		return "", apperror.ValidationFailed("username", "username is required")
	}
	if creds.Password == "" {
		return "", apperror.ValidationFailed("password", "password is required")
	}

	user, err := s.users.GetByCredentials(ctx, creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Info("login rejected", slog.String("username", creds.Username))
			return "", apperror.Unauthorized()
		}
		return "", fmt.Errorf("service/auth: looking up credentials: %w", err)
	}

	s.logger.Info("user authenticated",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return auth.Token(user.ID), nil
}
