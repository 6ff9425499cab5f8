package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/novacart/internal/domain"
	"github.com/msomdec/novacart/internal/service"
)

// AuthHandler handles sign-up, sign-in, and sign-out for the browser's session.
type AuthHandler struct {
	limiter *service.TokenBucket
}

// NewAuthHandler creates a new AuthHandler. Sign-in attempts are throttled
// per client address by limiter.
func NewAuthHandler(limiter *service.TokenBucket) *AuthHandler {
	return &AuthHandler{limiter: limiter}
}

// HandleSignUp registers an account and signs the browser in.
// POST /api/auth/signup
// Request:  {"email":"...","password":"...","name":"..."}
// Response: 201 {"user": {...}}
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	ws := WorkspaceFromContext(r.Context())

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := ws.Session.SignUp(r.Context(), req.Email, req.Password, req.Name); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			writeError(w, http.StatusConflict, "User already exists.")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.Error("sign up", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		}
		return
	}

	id, _ := ws.Session.CurrentIdentity()
	writeJSON(w, http.StatusCreated, map[string]any{
		"user": toIdentityDTO(id),
	})
}

// HandleSignIn signs the browser in with an existing account.
// POST /api/auth/signin
// Request:  {"email":"...","password":"..."}
// Response: 200 {"user": {...}}
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(clientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "Too many sign-in attempts. Please wait and try again.")
		return
	}

	ws := WorkspaceFromContext(r.Context())

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := ws.Session.SignIn(r.Context(), req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, domain.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "Invalid email or password.")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			slog.Error("sign in", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		}
		return
	}

	id, _ := ws.Session.CurrentIdentity()
	writeJSON(w, http.StatusOK, map[string]any{
		"user": toIdentityDTO(id),
	})
}

// HandleSignOut ends the browser's session.
// POST /api/auth/signout
// Response: 204 No Content
func (h *AuthHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	ws := WorkspaceFromContext(r.Context())
	if err := ws.Session.SignOut(r.Context()); err != nil {
		slog.Error("sign out", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the browser's current identity.
// GET /api/auth/me
// Response: {"user": {...}} or 401
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := WorkspaceFromContext(r.Context()).Session.CurrentIdentity()
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user": toIdentityDTO(id),
	})
}
