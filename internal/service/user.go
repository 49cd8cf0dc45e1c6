// Package service contains the business logic layer of the application.
//
// The layering follows the usual three-tier shape:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// Services receive repository interfaces (not concrete types) so tests
// can substitute in-memory fakes, and they return domain errors from
// internal/apperror — never HTTP status codes.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rianperassoli/daily-diet-api/internal/apperror"
	"github.com/rianperassoli/daily-diet-api/internal/model"
	"github.com/rianperassoli/daily-diet-api/internal/repository"
)

// MaxUsernameLength bounds usernames; the original client UI never sends
// anything near this, it just keeps garbage out of the table.
const MaxUsernameLength = 100

// UserService handles registration and user lookup.
type UserService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// Register validates and creates a new user account.
//
// Both username and password are required. The password is stored as
// given and compared verbatim on login; there is no hashing layer.
//
// Returns apperror.ErrConflict when the username is already taken.
func (s *UserService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	user := &model.User{
		Username: username,
		Password: password,
	}

	// The repository fills in ID and timestamps, and returns Conflict
	// if the username exists.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// GetByUsername returns the user with the given username.
// Returns apperror.ErrNotFound if no such user exists; the handler maps
// that to a 200 with a null user, matching the API's "empty result, not
// an error" contract for lookups.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}

	return s.users.GetByUsername(ctx, username)
}
