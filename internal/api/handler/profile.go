package handler

import (
	"net/http"

	"github.com/mcoot/pelada/internal/api/middleware"
	"github.com/mcoot/pelada/internal/api/request"
	"github.com/mcoot/pelada/internal/api/response"
	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/services/profile"
)

// ProfileHandler handles the caller's profile
type ProfileHandler struct {
	profileService *profile.Service
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *profile.Service) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	p, err := h.profileService.GetProfile(r.Context(), session.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProfileFromModel(p))
}

// Save handles PUT /api/v1/profile
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	var req request.ProfileRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	p, err := h.profileService.SaveProfile(r.Context(), session.UserID, session.Email, profile.Update{
		Name:     req.Name,
		Position: model.Position(req.Position),
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProfileFromModel(p))
}
