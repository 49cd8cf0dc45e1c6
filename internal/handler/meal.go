package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rianperassoli/daily-diet-api/internal/apperror"
	"github.com/rianperassoli/daily-diet-api/internal/auth"
	"github.com/rianperassoli/daily-diet-api/internal/model"
	"github.com/rianperassoli/daily-diet-api/internal/service"
)

// MealHandler manages CRUD and summary operations for meal entries.
// Every route it serves sits behind auth.RequireSession, so the session
// token is always present in the request context.
type MealHandler struct {
	meals  *service.MealService
	logger *slog.Logger
}

// NewMealHandler creates a MealHandler.
func NewMealHandler(meals *service.MealService, logger *slog.Logger) *MealHandler {
	return &MealHandler{meals: meals, logger: logger}
}

// ownerID extracts the authenticated user's id from the request context.
// The middleware guarantees it is set on these routes; the ok check is
// for routes mistakenly wired without RequireSession.
func (h *MealHandler) ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	token, ok := auth.TokenFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized())
		return "", false
	}
	return token.UserID(), true
}

// createMealRequest is the input contract for POST /meals.
// Diet is a *bool so a missing field fails "required" while an explicit
// false passes — a plain bool could not tell those apart.
type createMealRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"required,max=1000"`
	MealDate    string `json:"meal_date"   validate:"required"`
	Diet        *bool  `json:"diet"        validate:"required"`
}

// updateMealRequest is the input contract for PUT /meals/{id}.
// All fields are optional; nil means "keep the stored value".
type updateMealRequest struct {
	Name        *string `json:"name"        validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	MealDate    *string `json:"meal_date"`
	Diet        *bool   `json:"diet"`
}

// mealsResponse wraps the list payload.
type mealsResponse struct {
	Meals []model.Meal `json:"meals"`
}

// mealResponse wraps a point lookup. A missing or foreign meal is not an
// error on this route — the meal field is simply null.
type mealResponse struct {
	Meal *model.Meal `json:"meal"`
}

// summaryResponse wraps the aggregate payload.
type summaryResponse struct {
	Summary model.Summary `json:"summary"`
}

// HandleList returns all of the caller's meals, newest meal date first.
//
// HTTP: GET /meals → 200 {"meals":[...]}
func (h *MealHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	meals, err := h.meals.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mealsResponse{Meals: meals})
}

// HandleGetByID returns a single meal.
//
// HTTP: GET /meals/{id} → 200 {"meal": <meal|null>}
// The id must be UUID-shaped. Whether the meal is missing or owned by
// another user, the response is the same null — the route never reveals
// foreign ids.
func (h *MealHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if err := validateUUIDParam("id", id); err != nil {
		writeError(w, err)
		return
	}

	meal, err := h.meals.GetByID(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			writeJSON(w, http.StatusOK, mealResponse{Meal: nil})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mealResponse{Meal: meal})
}

// HandleCreate saves a new meal for the caller.
//
// HTTP: POST /meals → 201, no body
// BODY: {"name":..., "description":..., "meal_date":..., "diet":...}
func (h *MealHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	var req createMealRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	_, err := h.meals.Create(r.Context(), userID, req.Name, req.Description, req.MealDate, *req.Diet)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// HandleUpdate applies a partial update to one of the caller's meals.
//
// HTTP: PUT /meals/{id} → 204, no body
// A meal that is missing or not owned by the caller is a bare 404 with
// no body (this route's wire contract differs from the other errors).
func (h *MealHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if err := validateUUIDParam("id", id); err != nil {
		writeError(w, err)
		return
	}

	var req updateMealRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	_, err := h.meals.Update(r.Context(), userID, id, service.MealUpdate{
		Name:        req.Name,
		Description: req.Description,
		MealDate:    req.MealDate,
		Diet:        req.Diet,
	})
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete removes one of the caller's meals.
//
// HTTP: DELETE /meals/{id} → 200, no body
// Deletion is idempotent: a second delete of the same id (or a delete of
// a meal the caller never owned) is still a 200.
func (h *MealHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if err := validateUUIDParam("id", id); err != nil {
		writeError(w, err)
		return
	}

	if err := h.meals.Delete(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleSummary returns the caller's aggregate diet statistics.
//
// HTTP: GET /meals/summary → 200 {"summary":{...}}
func (h *MealHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ownerID(w, r)
	if !ok {
		return
	}

	summary, err := h.meals.Summary(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{Summary: summary})
}
