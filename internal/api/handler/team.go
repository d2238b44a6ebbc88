package handler

import (
	"net/http"

	"github.com/mcoot/pelada/internal/api/request"
	"github.com/mcoot/pelada/internal/api/response"
	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/services/match"
)

// TeamHandler handles team generation
type TeamHandler struct {
	matchService *match.Service
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(matchService *match.Service) *TeamHandler {
	return &TeamHandler{matchService: matchService}
}

// Draw handles POST /api/v1/teams
func (h *TeamHandler) Draw(w http.ResponseWriter, r *http.Request) {
	var req request.DrawRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	ids := make([]model.AthleteID, len(req.AthleteIDs))
	for i, id := range req.AthleteIDs {
		ids[i] = model.AthleteID(id)
	}

	draw, err := h.matchService.Draw(r.Context(), match.DrawRequest{
		TeamCount:  req.TeamCount,
		AthleteIDs: ids,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DrawFromModel(draw))
}

// Balance handles POST /api/v1/teams/balance
func (h *TeamHandler) Balance(w http.ResponseWriter, r *http.Request) {
	var req request.BalanceRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	players := make([]model.Athlete, len(req.Players))
	for i, p := range req.Players {
		// Unparseable positions are passed through so the balancer rejects them
		position := model.Position(p.Position)
		if parsed, err := model.ParsePosition(p.Position); err == nil {
			position = parsed
		}
		players[i] = model.Athlete{
			ID:       model.AthleteID(p.ID),
			Name:     p.Name,
			Position: position,
			Status:   model.StatusActive,
		}
	}

	draw, err := h.matchService.Balance(r.Context(), players, req.TeamCount)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DrawFromModel(draw))
}
