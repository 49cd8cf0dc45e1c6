package repository

import (
	"context"

	"github.com/rianperassoli/daily-diet-api/internal/model"
)

// UserRepository persists user identity records.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// GetByCredentials returns the user whose username AND password match
	// exactly. Returns apperror.ErrNotFound when no row matches — the
	// service layer translates that into an authorization failure.
	GetByCredentials(ctx context.Context, username, password string) (*model.User, error)
}

// MealRepository persists meal records. Every method that touches an
// existing row takes the owner's user ID and scopes the query by it, so
// cross-user access is impossible at the SQL level rather than checked
// in application code.
type MealRepository interface {
	Create(ctx context.Context, meal *model.Meal) error
	GetByID(ctx context.Context, userID, id string) (*model.Meal, error)
	// List returns all meals owned by userID ordered by meal_date descending.
	List(ctx context.Context, userID string) ([]model.Meal, error)
	Update(ctx context.Context, meal *model.Meal) error
	// Delete is idempotent: deleting a row that does not exist (or is
	// owned by someone else) is not an error.
	Delete(ctx context.Context, userID, id string) error
	// ListDietEntries returns the (meal_date, diet) projection for the
	// summary fold, ordered by meal_date descending.
	ListDietEntries(ctx context.Context, userID string) ([]model.DietEntry, error)
}
