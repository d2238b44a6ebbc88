// Package balancer splits a roster snapshot into position-balanced teams.
//
// Players are grouped by position, each group is shuffled, and the shuffled
// members are dealt to teams round robin. Within any position the number of
// players two teams receive differs by at most one.
package balancer

import (
	"fmt"

	"github.com/mcoot/pelada/internal/dependencies/random"
	"github.com/mcoot/pelada/internal/model"
)

// MinTeamCount is the smallest number of teams a draw can produce
const MinTeamCount = 2

// Config holds balancing policy
type Config struct {
	// MinPlayersPerTeam is the fewest players each team must be able to receive.
	// A draw needs at least MinPlayersPerTeam * teamCount players.
	MinPlayersPerTeam int
}

// DefaultConfig returns the default balancing policy
func DefaultConfig() Config {
	return Config{
		MinPlayersPerTeam: 2,
	}
}

// Balancer partitions players into teams.
// It holds no per-call state, so one Balancer may serve concurrent callers.
type Balancer struct {
	cfg       Config
	newRandom random.Factory
}

// New creates a Balancer. Each call to Balance draws a fresh source from newRandom.
func New(cfg Config, newRandom random.Factory) *Balancer {
	if cfg.MinPlayersPerTeam < 1 {
		cfg.MinPlayersPerTeam = 1
	}
	if newRandom == nil {
		newRandom = random.EntropyFactory()
	}
	return &Balancer{
		cfg:       cfg,
		newRandom: newRandom,
	}
}

// Config returns the policy the balancer was built with
func (b *Balancer) Config() Config {
	return b.cfg
}

// Balance partitions players into teamCount teams.
// The input slice is not modified.
func (b *Balancer) Balance(players []model.Athlete, teamCount int) ([]model.Team, error) {
	if err := b.validate(players, teamCount); err != nil {
		return nil, err
	}
	return Balance(players, teamCount, b.newRandom())
}

func (b *Balancer) validate(players []model.Athlete, teamCount int) error {
	if teamCount < MinTeamCount {
		return fmt.Errorf("%w: %d (need at least %d)", model.ErrInvalidTeamCount, teamCount, MinTeamCount)
	}
	if need := b.cfg.MinPlayersPerTeam * teamCount; len(players) < need {
		return fmt.Errorf("%w: have %d, need %d for %d teams",
			model.ErrInsufficientPlayers, len(players), need, teamCount)
	}
	return nil
}

// Balance partitions players into teamCount teams using rnd for shuffling.
// It enforces only the structural preconditions: at least MinTeamCount teams,
// at least one player per team, known positions and unique IDs.
func Balance(players []model.Athlete, teamCount int, rnd random.Random) ([]model.Team, error) {
	if teamCount < MinTeamCount {
		return nil, fmt.Errorf("%w: %d (need at least %d)", model.ErrInvalidTeamCount, teamCount, MinTeamCount)
	}
	if len(players) < teamCount {
		return nil, fmt.Errorf("%w: have %d, need %d for %d teams",
			model.ErrInsufficientPlayers, len(players), teamCount, teamCount)
	}

	groups, err := groupByPosition(players)
	if err != nil {
		return nil, err
	}

	teams := make([]model.Team, teamCount)
	for i := range teams {
		teams[i] = model.Team{
			ID:      model.TeamID(i),
			Name:    model.TeamName(i),
			Players: make([]model.Athlete, 0, len(players)/teamCount+len(groups)),
		}
	}

	for _, pos := range model.Positions() {
		group := groups[pos]
		shuffle(group, rnd)
		for i, player := range group {
			t := &teams[i%teamCount]
			t.Players = append(t.Players, player)
		}
	}

	return teams, nil
}

// groupByPosition copies players into per-position slices, preserving input order
func groupByPosition(players []model.Athlete) (map[model.Position][]model.Athlete, error) {
	groups := make(map[model.Position][]model.Athlete, len(model.Positions()))
	seen := make(map[model.AthleteID]struct{}, len(players))

	for _, p := range players {
		if !p.Position.Valid() {
			return nil, fmt.Errorf("%w: %q for player %s", model.ErrUnknownPosition, p.Position, p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", model.ErrDuplicatePlayer, p.ID)
		}
		seen[p.ID] = struct{}{}
		groups[p.Position] = append(groups[p.Position], p)
	}
	return groups, nil
}

// shuffle applies a Fisher-Yates permutation in place
func shuffle(players []model.Athlete, rnd random.Random) {
	for i := len(players) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		players[i], players[j] = players[j], players[i]
	}
}
