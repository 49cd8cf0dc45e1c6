// Package handler contains the HTTP layer: request parsing, input
// validation, and response formatting. Handlers delegate all business
// rules to the service layer and translate its domain errors to HTTP.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rianperassoli/daily-diet-api/internal/apperror"
	"github.com/rianperassoli/daily-diet-api/internal/model"
	"github.com/rianperassoli/daily-diet-api/internal/service"
)

// UserHandler manages registration and user lookup.
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// registerRequest is the input contract for POST /users.
type registerRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

// HandleRegister creates a new user account.
//
// HTTP: POST /users
// BODY: {"username": "...", "password": "..."}
// 201 on success with no body; 409 if the username is taken.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.users.Register(r.Context(), req.Username, req.Password); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// userResponse wraps a user lookup result. A miss is not an error on
// this route — the user field is simply null.
type userResponse struct {
	User *model.User `json:"user"`
}

// HandleGetByUsername returns a user's public profile.
//
// HTTP: GET /users/{username}
// Always 200; unknown usernames yield {"user": null}.
func (h *UserHandler) HandleGetByUsername(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	user, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			writeJSON(w, http.StatusOK, userResponse{User: nil})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: user})
}
