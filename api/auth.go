package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/garnizeh/outreach/internal/admin"
	"github.com/garnizeh/outreach/internal/auth"
)

type AdminHandler struct {
	svc *admin.Service
}

// NewAdminHandler creates a new AdminHandler with required dependencies.
func NewAdminHandler(svc *admin.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Status   string `json:"status"`
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Setup creates the first administrator account.
func (h *AdminHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// an unreadable body carries no credentials; the service still
		// reports an existing admin first
		req = credentialsRequest{}
	}

	err := h.svc.Setup(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		writeJSON(w, statusResponse{Status: "success", Message: "Admin user created"}, http.StatusOK)
	case errors.Is(err, admin.ErrAlreadyInitialized):
		writeError(w, http.StatusBadRequest, "Admin already exists")
	case errors.Is(err, admin.ErrMissingCredentials):
		writeError(w, http.StatusBadRequest, "Username and password are required")
	case errors.Is(err, auth.ErrPasswordTooLong):
		writeError(w, http.StatusBadRequest, "Password is too long")
	default:
		writeInternal(w, r, "admin setup", err)
	}
}

// Login exchanges credentials for a bearer token.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess, err := h.svc.Login(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		writeJSON(w, loginResponse{Status: "success", Token: sess.Token, Username: sess.Username}, http.StatusOK)
	case errors.Is(err, admin.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
	default:
		writeInternal(w, r, "admin login", err)
	}
}
