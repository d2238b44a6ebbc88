package handler

import (
	"errors"
	"net/http"

	"github.com/mcoot/pelada/internal/api/middleware"
	"github.com/mcoot/pelada/internal/api/request"
	"github.com/mcoot/pelada/internal/api/response"
	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/services/auth"
	"github.com/mcoot/pelada/internal/services/profile"
)

// AuthHandler handles account endpoints
type AuthHandler struct {
	authService    *auth.Service
	profileService *profile.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, profileService *profile.Service) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		profileService: profileService,
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session))
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	me := response.Me{
		UserID:    string(session.UserID),
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt,
	}

	p, err := h.profileService.GetProfile(r.Context(), session.UserID)
	switch {
	case err == nil:
		out := response.ProfileFromModel(p)
		me.Profile = &out
	case !errors.Is(err, model.ErrProfileNotFound):
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, me)
}
