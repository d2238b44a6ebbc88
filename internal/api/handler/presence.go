package handler

import (
	"errors"
	"net/http"

	"github.com/mcoot/pelada/internal/api/middleware"
	"github.com/mcoot/pelada/internal/api/response"
	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/services/profile"
	"github.com/mcoot/pelada/internal/services/roster"
)

// PresenceHandler handles match attendance for the caller
type PresenceHandler struct {
	rosterService  *roster.Service
	profileService *profile.Service
}

// NewPresenceHandler creates a new presence handler
func NewPresenceHandler(rosterService *roster.Service, profileService *profile.Service) *PresenceHandler {
	return &PresenceHandler{
		rosterService:  rosterService,
		profileService: profileService,
	}
}

// Get handles GET /api/v1/presence
func (h *PresenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	athlete, err := h.rosterService.LinkedAthlete(r.Context(), session.UserID)
	if errors.Is(err, model.ErrAthleteNotFound) {
		response.JSON(w, http.StatusOK, response.Presence{Confirmed: false})
		return
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	out := response.AthleteFromModel(athlete)
	response.JSON(w, http.StatusOK, response.Presence{
		Confirmed: athlete.IsActive(),
		Athlete:   &out,
	})
}

// Confirm handles POST /api/v1/presence
func (h *PresenceHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	p, err := h.profileService.GetProfile(r.Context(), session.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}

	athlete, err := h.rosterService.ConfirmPresence(r.Context(), p)
	if err != nil {
		WriteError(w, err)
		return
	}

	out := response.AthleteFromModel(athlete)
	response.JSON(w, http.StatusOK, response.Presence{Confirmed: true, Athlete: &out})
}

// Remove handles DELETE /api/v1/presence
func (h *PresenceHandler) Remove(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	if err := h.rosterService.RemovePresence(r.Context(), session.UserID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
