// Package model defines the domain types shared by the repository,
// service, and handler layers: users, meals, and the diet summary.
package model

import "time"

// Meal represents a single meal entry owned by a user.
//
// UserID is the owner's User.ID and is immutable after creation. Every
// repository query on meals is scoped by user_id, so a meal is only ever
// visible to its owner.
//
// MealDate is the instant the meal happened (distinct from CreatedAt,
// which is when the row was written). Listing and the diet summary both
// order by MealDate descending.
type Meal struct {
	ID          string    `json:"id"          db:"id"`
	UserID      string    `json:"user_id"     db:"user_id"`
	Name        string    `json:"name"        db:"name"`
	Description string    `json:"description" db:"description"`
	MealDate    time.Time `json:"meal_date"   db:"meal_date"`
	Diet        bool      `json:"diet"        db:"diet"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}

// DietEntry is the projection the summary fold consumes: just the meal
// date and whether the meal was on the diet. The repository returns these
// ordered by MealDate descending.
type DietEntry struct {
	MealDate time.Time `db:"meal_date"`
	Diet     bool      `db:"diet"`
}

// Summary holds the aggregate diet statistics for one user.
// Field names follow the API's wire format.
type Summary struct {
	TotalMeals         int `json:"totalMeals"`
	MealsOnDiet        int `json:"mealsOnDiet"`
	MealsOnNonDiet     int `json:"mealsOnNonDiet"`
	BestSequenceOnDiet int `json:"bestSequenceOnDiet"`
}
