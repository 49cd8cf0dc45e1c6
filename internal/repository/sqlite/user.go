package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rianperassoli/daily-diet-api/internal/apperror"
	"github.com/rianperassoli/daily-diet-api/internal/model"
	"github.com/rianperassoli/daily-diet-api/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// Create inserts a new user.
//
// We look the username up first instead of relying on the UNIQUE
// constraint: the lookup lets us return a typed Conflict error with a
// useful message rather than surfacing a driver-specific constraint
// failure. A race between the SELECT and the INSERT is still caught by
// the constraint and comes back as a generic error.
//
// On success the caller's struct is modified in place: ID (a fresh UUID),
// CreatedAt and UpdatedAt are populated here.
func (db *DB) Create(ctx context.Context, user *model.User) error {
	var existingID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE username = ?`, user.Username,
	).Scan(&existingID)

	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up username %q: %w", user.Username, err)
	}
	if existingID != "" {
		return apperror.Conflict("username", "username is already taken")
	}

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, password, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Password,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	return nil
}

// GetByUsername retrieves a user by their unique username.
// Returns apperror.ErrNotFound if no user exists with that username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password, created_at, updated_at
		 FROM users WHERE username = ?`,
		username,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Password,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user %q: %w", username, err)
	}

	return &u, nil
}

// GetByCredentials retrieves the user matching both username and password
// exactly. Returns apperror.ErrNotFound when no row matches; the caller
// decides whether that means "unauthorized".
func (db *DB) GetByCredentials(ctx context.Context, username, password string) (*model.User, error) {
	var u model.User

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password, created_at, updated_at
		 FROM users WHERE username = ? AND password = ?`,
		username,
		password,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Password,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user by credentials %q: %w", username, err)
	}

	return &u, nil
}
