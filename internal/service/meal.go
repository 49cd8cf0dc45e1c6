package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rianperassoli/daily-diet-api/internal/apperror"
	"github.com/rianperassoli/daily-diet-api/internal/model"
	"github.com/rianperassoli/daily-diet-api/internal/repository"
)

// Validation bounds for meal fields.
const (
	MaxMealNameLength        = 100
	MaxMealDescriptionLength = 1000
)

// mealDateLayouts are the timestamp formats accepted for meal_date input.
// Whatever layout arrives, the stored value is the same instant in UTC —
// canonicalization is lossless for the instant, not for the string.
var mealDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseMealDate canonicalizes a meal_date string to a UTC time.Time.
func parseMealDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range mealDateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, apperror.ValidationFailed("meal_date",
		"meal_date must be a valid timestamp (e.g. 2023-01-15T12:30:00Z)")
}

// MealUpdate carries the fields of a partial update. Nil pointers mean
// "keep the stored value" — an update with all fields nil changes
// nothing except updated_at.
type MealUpdate struct {
	Name        *string
	Description *string
	MealDate    *string
	Diet        *bool
}

// MealService handles business logic for meal entries.
//
// Every method takes the owner's user id as its first argument after ctx
// and passes it straight into the repository, where it becomes part of
// the WHERE clause. The service never fetches a meal without the owner
// scope, so there is no code path that could leak another user's data.
type MealService struct {
	meals  repository.MealRepository
	logger *slog.Logger
}

// NewMealService creates a MealService.
func NewMealService(meals repository.MealRepository, logger *slog.Logger) *MealService {
	return &MealService{
		meals:  meals,
		logger: logger,
	}
}

// Create validates and saves a new meal for userID.
// name, description, mealDate and diet are all required by the HTTP
// schema; mealDate is canonicalized here.
func (s *MealService) Create(ctx context.Context, userID, name, description, mealDate string, diet bool) (*model.Meal, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "meal name is required")
	}
	if len(name) > MaxMealNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("meal name must be %d characters or less", MaxMealNameLength))
	}
	if len(description) > MaxMealDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxMealDescriptionLength))
	}

	ts, err := parseMealDate(mealDate)
	if err != nil {
		return nil, err
	}

	meal := &model.Meal{
		UserID:      userID,
		Name:        name,
		Description: strings.TrimSpace(description),
		MealDate:    ts,
		Diet:        diet,
	}

	if err := s.meals.Create(ctx, meal); err != nil {
		s.logger.Error("failed to create meal",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating meal: %w", err)
	}

	s.logger.Info("meal created",
		slog.String("id", meal.ID),
		slog.String("userID", userID),
	)

	return meal, nil
}

// GetByID retrieves one of userID's meals.
// Returns apperror.ErrNotFound for a missing or foreign meal — callers
// that want "empty result" semantics translate the error themselves.
func (s *MealService) GetByID(ctx context.Context, userID, id string) (*model.Meal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "meal ID is required")
	}

	return s.meals.GetByID(ctx, userID, id)
}

// List returns all of userID's meals ordered by meal_date descending.
func (s *MealService) List(ctx context.Context, userID string) ([]model.Meal, error) {
	meals, err := s.meals.List(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list meals",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing meals: %w", err)
	}
	return meals, nil
}

// Update applies a partial update to one of userID's meals.
//
// STRATEGY: "fetch then update".
// 1. Fetch the existing meal scoped by owner — NotFound ends it here
// 2. Overwrite only the provided fields on the fetched copy
// 3. Save the merged row (the repository refreshes updated_at)
//
// A provided meal_date is re-canonicalized; omitted fields keep their
// stored values.
func (s *MealService) Update(ctx context.Context, userID, id string, update MealUpdate) (*model.Meal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "meal ID is required")
	}

	meal, err := s.meals.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "meal name must not be empty")
		}
		if len(name) > MaxMealNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("meal name must be %d characters or less", MaxMealNameLength))
		}
		meal.Name = name
	}
	if update.Description != nil {
		if len(*update.Description) > MaxMealDescriptionLength {
			return nil, apperror.ValidationFailed("description",
				fmt.Sprintf("description must be %d characters or less", MaxMealDescriptionLength))
		}
		meal.Description = strings.TrimSpace(*update.Description)
	}
	if update.MealDate != nil {
		ts, err := parseMealDate(*update.MealDate)
		if err != nil {
			return nil, err
		}
		meal.MealDate = ts
	}
	if update.Diet != nil {
		meal.Diet = *update.Diet
	}

	if err := s.meals.Update(ctx, meal); err != nil {
		return nil, err
	}

	s.logger.Info("meal updated",
		slog.String("id", meal.ID),
		slog.String("userID", userID),
	)

	return meal, nil
}

// Delete removes one of userID's meals. Deleting a meal that does not
// exist (or is owned by someone else) is a successful no-op.
func (s *MealService) Delete(ctx context.Context, userID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "meal ID is required")
	}

	if err := s.meals.Delete(ctx, userID, id); err != nil {
		s.logger.Error("failed to delete meal",
			slog.String("id", id),
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting meal: %w", err)
	}

	s.logger.Info("meal deleted", slog.String("id", id), slog.String("userID", userID))
	return nil
}

// Summary computes the aggregate diet statistics for userID's meals.
func (s *MealService) Summary(ctx context.Context, userID string) (model.Summary, error) {
	entries, err := s.meals.ListDietEntries(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load diet entries",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return model.Summary{}, fmt.Errorf("loading diet entries: %w", err)
	}

	return Summarize(entries), nil
}
