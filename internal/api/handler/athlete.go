package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/pelada/internal/api/apierr"
	"github.com/mcoot/pelada/internal/api/middleware"
	"github.com/mcoot/pelada/internal/api/request"
	"github.com/mcoot/pelada/internal/api/response"
	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/services/roster"
	"github.com/mcoot/pelada/internal/sse"
)

// AthleteHandler handles roster endpoints
type AthleteHandler struct {
	rosterService *roster.Service
	feed          *sse.Feed
	logger        *slog.Logger
}

// NewAthleteHandler creates a new athlete handler. feed may be nil, in which
// case the stream endpoint is unavailable.
func NewAthleteHandler(rosterService *roster.Service, feed *sse.Feed, logger *slog.Logger) *AthleteHandler {
	return &AthleteHandler{
		rosterService: rosterService,
		feed:          feed,
		logger:        logger,
	}
}

// List handles GET /api/v1/athletes
func (h *AthleteHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := roster.Filter{Search: query.Get("search")}
	if raw := query.Get("status"); raw != "" {
		status := model.AthleteStatus(raw)
		if !status.Valid() {
			WriteError(w, NewInvalidRequestError("status must be active or inactive"))
			return
		}
		filter.Status = status
	}

	athletes, err := h.rosterService.ListAthletes(r.Context(), filter)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AthleteListFromModel(athletes))
}

// Create handles POST /api/v1/athletes
func (h *AthleteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateAthleteRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	athlete, err := h.rosterService.AddAthlete(r.Context(), roster.NewAthlete{
		Name:        req.Name,
		Position:    model.Position(req.Position),
		Status:      model.AthleteStatus(req.Status),
		PhotoURL:    req.PhotoURL,
		Goals:       req.Goals,
		Assists:     req.Assists,
		GamesPlayed: req.GamesPlayed,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AthleteFromModel(athlete))
}

// Get handles GET /api/v1/athletes/{id}
func (h *AthleteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.AthleteID(mux.Vars(r)["id"])

	athlete, err := h.rosterService.GetAthlete(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AthleteFromModel(athlete))
}

// Update handles PATCH /api/v1/athletes/{id}
func (h *AthleteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := model.AthleteID(mux.Vars(r)["id"])

	var req request.UpdateAthleteRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	upd := roster.AthleteUpdate{
		Name:        req.Name,
		PhotoURL:    req.PhotoURL,
		Goals:       req.Goals,
		Assists:     req.Assists,
		GamesPlayed: req.GamesPlayed,
	}
	if req.Position != nil {
		p := model.Position(*req.Position)
		upd.Position = &p
	}
	if req.Status != nil {
		s := model.AthleteStatus(*req.Status)
		upd.Status = &s
	}

	athlete, err := h.rosterService.UpdateAthlete(r.Context(), id, upd)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AthleteFromModel(athlete))
}

// Delete handles DELETE /api/v1/athletes/{id}
func (h *AthleteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := model.AthleteID(mux.Vars(r)["id"])

	if err := h.rosterService.DeleteAthlete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Stats handles GET /api/v1/athletes/stats
func (h *AthleteHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.rosterService.Stats(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StatsFromModel(stats))
}

// Join handles POST /api/v1/join
func (h *AthleteHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req request.JoinRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	athlete, err := h.rosterService.Join(r.Context(), req.Name, model.Position(req.Position))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AthleteFromModel(athlete))
}

// Stream handles GET /api/v1/athletes/stream
func (h *AthleteHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if h.feed == nil {
		WriteError(w, apierr.NewNotFoundError())
		return
	}
	session := middleware.MustGetSession(r.Context())

	// The stream outlives the server write timeout
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("could not clear write deadline", slog.String("error", err.Error()))
	}

	h.logger.Debug("roster stream opened", slog.String("user_id", string(session.UserID)))
	sse.ServeSSE(w, r, h.feed.Hub(), string(session.UserID))
}
