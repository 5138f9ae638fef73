package handler

import (
	"context"
	"net/http"

	"github.com/worldatlas/worldatlas-go/internal/apperror"
	"github.com/worldatlas/worldatlas-go/internal/middleware"
	"github.com/worldatlas/worldatlas-go/internal/model"
)

// AuthService is the business logic behind the user routes.
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error)
	GetProfile(ctx context.Context, userID string) (model.PublicUser, error)
}

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service AuthService
	devMode bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc AuthService, devMode bool) *AuthHandler {
	return &AuthHandler{service: svc, devMode: devMode}
}

// HandleRegister handles POST /api/users requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err, h.devMode)
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		WriteError(w, r, err, h.devMode)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleLogin handles POST /api/users/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, err, h.devMode)
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		WriteError(w, r, err, h.devMode)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleProfile handles GET /api/users/profile requests. It must run behind
// middleware.Protect.
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteError(w, r, apperror.Auth("Not authorized, no token"), h.devMode)
		return
	}

	resp, err := h.service.GetProfile(r.Context(), user.ID)
	if err != nil {
		WriteError(w, r, err, h.devMode)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
