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

// compile-time check that *DB implements repository.MealRepository
var _ repository.MealRepository = (*DB)(nil)

// Create inserts a new meal for meal.UserID.
//
// The caller's struct is modified in place: ID (a fresh UUID), CreatedAt
// and UpdatedAt are populated here. MealDate is stored as given — the
// service layer has already canonicalized it to a UTC instant.
func (db *DB) Create(ctx context.Context, meal *model.Meal) error {
	meal.ID = uuid.NewString()

	now := time.Now().UTC()
	meal.CreatedAt = now
	meal.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO meals (id, user_id, name, description, meal_date, diet, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		meal.ID,
		meal.UserID,
		meal.Name,
		meal.Description,
		meal.MealDate,
		meal.Diet,
		meal.CreatedAt,
		meal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating meal: %w", err)
	}

	return nil
}

// GetByID retrieves a single meal by id, scoped to its owner.
//
// The WHERE clause carries both id AND user_id, so "no such meal" and
// "someone else's meal" are indistinguishable — both come back as
// apperror.ErrNotFound. That is deliberate: the API never reveals
// whether a foreign id exists.
func (db *DB) GetByID(ctx context.Context, userID, id string) (*model.Meal, error) {
	var m model.Meal

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, name, description, meal_date, diet, created_at, updated_at
		 FROM meals
		 WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(
		&m.ID,
		&m.UserID,
		&m.Name,
		&m.Description,
		&m.MealDate,
		&m.Diet,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("meal", id)
		}
		return nil, fmt.Errorf("sqlite: getting meal %s: %w", id, err)
	}

	return &m, nil
}

// List retrieves all meals owned by userID, newest meal_date first.
func (db *DB) List(ctx context.Context, userID string) ([]model.Meal, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, name, description, meal_date, diet, created_at, updated_at
		 FROM meals
		 WHERE user_id = ?
		 ORDER BY meal_date DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing meals: %w", err)
	}
	defer rows.Close()

	meals := make([]model.Meal, 0)

	for rows.Next() {
		var m model.Meal
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.Name, &m.Description,
			&m.MealDate, &m.Diet, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning meal row: %w", err)
		}
		meals = append(meals, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating meals: %w", err)
	}

	return meals, nil
}

// Update overwrites the mutable fields of an existing meal. The WHERE
// clause is scoped by owner, and RowsAffected()==0 means the meal either
// doesn't exist or belongs to another user → NotFound.
//
// id, user_id and created_at are immutable and never updated.
func (db *DB) Update(ctx context.Context, meal *model.Meal) error {
	meal.UpdatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE meals
		 SET name = ?, description = ?, meal_date = ?, diet = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		meal.Name,
		meal.Description,
		meal.MealDate,
		meal.Diet,
		meal.UpdatedAt,
		meal.ID,
		meal.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating meal %s: %w", meal.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("meal", meal.ID)
	}

	return nil
}

// Delete removes the meal matching both id and owner. Unlike Update, a
// zero row count is NOT an error — deletion is idempotent, so deleting a
// missing (or foreign) meal quietly succeeds.
func (db *DB) Delete(ctx context.Context, userID, id string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM meals WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting meal %s: %w", id, err)
	}

	return nil
}

// ListDietEntries returns the (meal_date, diet) projection for userID's
// meals, ordered by meal_date descending. This is all the summary fold
// needs — fetching full rows would be wasted work.
func (db *DB) ListDietEntries(ctx context.Context, userID string) ([]model.DietEntry, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT meal_date, diet
		 FROM meals
		 WHERE user_id = ?
		 ORDER BY meal_date DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing diet entries: %w", err)
	}
	defer rows.Close()

	entries := make([]model.DietEntry, 0)

	for rows.Next() {
		var e model.DietEntry
		if err := rows.Scan(&e.MealDate, &e.Diet); err != nil {
			return nil, fmt.Errorf("sqlite: scanning diet entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating diet entries: %w", err)
	}

	return entries, nil
}
