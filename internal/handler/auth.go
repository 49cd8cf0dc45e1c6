package handler

import (
	"log/slog"
	"net/http"

	"github.com/rianperassoli/daily-diet-api/internal/auth"
	"github.com/rianperassoli/daily-diet-api/internal/service"
)

// AuthHandler manages the login endpoint and session cookie issuance.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authSvc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: authSvc, logger: logger}
}

// loginRequest is the input contract for POST /auth.
type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// authResponse is the success body. The literal message is part of the
// wire contract clients already depend on.
type authResponse struct {
	Success string `json:"success"`
}

// HandleLogin authenticates the caller and sets the session cookie.
//
// HTTP: POST /auth
//
// FLOW:
//   - If the request already carries a session cookie, the caller is
//     authorized as-is: 202, no body parsing, no storage lookup.
//   - Otherwise the body must contain username and password. An exact
//     credential match issues a session token stored as the "userId"
//     cookie (path "/", 7-day max-age); no match → 401.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	existing, _ := auth.TokenFromRequest(r)

	var creds *service.Credentials
	if existing == "" {
		// Only parse the body when there is no cookie — a request that
		// already holds a session never touches its body.
		var req loginRequest
		if err := decodeAndValidate(r, &req); err != nil {
			writeError(w, err)
			return
		}
		creds = &service.Credentials{Username: req.Username, Password: req.Password}
	}

	token, err := h.auth.Authenticate(r.Context(), existing, creds)
	if err != nil {
		writeError(w, err)
		return
	}

	auth.SetSessionCookie(w, token)
	writeJSON(w, http.StatusAccepted, authResponse{Success: "Authorized!"})
}
