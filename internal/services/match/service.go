package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/pelada/internal/dependencies/clock"
	"github.com/mcoot/pelada/internal/metrics"
	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/services/balancer"
)

// Roster is the read side of the roster service used for drawing teams
type Roster interface {
	GetAthlete(ctx context.Context, id model.AthleteID) (*model.Athlete, error)
	ActiveAthletes(ctx context.Context) ([]*model.Athlete, error)
}

// DrawRequest selects who takes part in a draw.
// An empty AthleteIDs means every active athlete.
type DrawRequest struct {
	TeamCount  int
	AthleteIDs []model.AthleteID
}

// Service generates teams from the stored roster
type Service struct {
	roster   Roster
	balancer *balancer.Balancer
	clock    clock.Clock
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

// New creates a new match Service. recorder may be nil.
func New(roster Roster, balancer *balancer.Balancer, clock clock.Clock, recorder *metrics.Recorder, logger *slog.Logger) *Service {
	return &Service{
		roster:   roster,
		balancer: balancer,
		clock:    clock,
		metrics:  recorder,
		logger:   logger,
	}
}

// Draw splits the selected athletes into balanced teams
func (s *Service) Draw(ctx context.Context, req DrawRequest) (*model.Draw, error) {
	players, err := s.selectPlayers(ctx, req.AthleteIDs)
	if err != nil {
		s.record(err, 0)
		return nil, err
	}

	draw, err := s.balance(players, req.TeamCount)
	if err != nil {
		return nil, err
	}

	s.logger.Info("teams drawn",
		slog.Int("team_count", req.TeamCount),
		slog.Int("players", draw.PlayerCount),
		slog.Bool("selected", len(req.AthleteIDs) > 0),
	)
	return draw, nil
}

// Balance splits a caller-supplied roster snapshot without touching storage
func (s *Service) Balance(_ context.Context, players []model.Athlete, teamCount int) (*model.Draw, error) {
	draw, err := s.balance(players, teamCount)
	if err != nil {
		return nil, err
	}

	s.logger.Info("snapshot balanced",
		slog.Int("team_count", teamCount),
		slog.Int("players", draw.PlayerCount),
	)
	return draw, nil
}

func (s *Service) balance(players []model.Athlete, teamCount int) (*model.Draw, error) {
	teams, err := s.balancer.Balance(players, teamCount)
	s.record(err, len(players))
	if err != nil {
		s.logger.Info("draw rejected",
			slog.Int("team_count", teamCount),
			slog.Int("players", len(players)),
			slog.String("reason", err.Error()),
		)
		return nil, err
	}

	return &model.Draw{
		Teams:       teams,
		PlayerCount: len(players),
		DrawnAt:     s.clock.Now(),
	}, nil
}

func (s *Service) selectPlayers(ctx context.Context, ids []model.AthleteID) ([]model.Athlete, error) {
	if len(ids) == 0 {
		active, err := s.roster.ActiveAthletes(ctx)
		if err != nil {
			return nil, err
		}
		players := make([]model.Athlete, len(active))
		for i, a := range active {
			players[i] = *a
		}
		return players, nil
	}

	players := make([]model.Athlete, 0, len(ids))
	for _, id := range ids {
		athlete, err := s.roster.GetAthlete(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrAthleteNotFound) {
				return nil, fmt.Errorf("%w: %s", model.ErrAthleteNotFound, id)
			}
			return nil, err
		}
		if !athlete.IsActive() {
			return nil, fmt.Errorf("%w: %s", model.ErrAthleteInactive, athlete.Name)
		}
		players = append(players, *athlete)
	}
	return players, nil
}

// record classifies the outcome for metrics
func (s *Service) record(err error, players int) {
	switch {
	case err == nil:
		s.metrics.RecordDraw(metrics.OutcomeSuccess, players)
	case isRejection(err):
		s.metrics.RecordDraw(metrics.OutcomeRejected, players)
	default:
		s.metrics.RecordDraw(metrics.OutcomeError, players)
	}
}

func isRejection(err error) bool {
	for _, target := range []error{
		model.ErrInvalidTeamCount,
		model.ErrInsufficientPlayers,
		model.ErrUnknownPosition,
		model.ErrDuplicatePlayer,
		model.ErrAthleteNotFound,
		model.ErrAthleteInactive,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
