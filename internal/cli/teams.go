package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/pelada/internal/api/response"
	"github.com/mcoot/pelada/internal/dependencies/random"
	"github.com/mcoot/pelada/internal/model"
	"github.com/mcoot/pelada/internal/services/balancer"
)

func newTeamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Team generation commands",
	}

	cmd.AddCommand(newTeamsDrawCmd())

	return cmd
}

func newTeamsDrawCmd() *cobra.Command {
	var (
		count      int
		athleteIDs []string
	)

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Draw balanced teams from the roster",
		Long: `Draw position-balanced teams on the server.

Without --athlete every active athlete takes part. With --athlete only the
listed athletes take part, and each must exist and be active.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"team_count":  count,
				"athlete_ids": athleteIDs,
			}
			var result response.Draw

			if err := client.Post(cmd.Context(), "/teams", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 2, "Number of teams")
	cmd.Flags().StringSliceVar(&athleteIDs, "athlete", nil, "Athlete ID to include (repeatable)")

	return cmd
}

// rosterPlayer is one entry of a roster file
type rosterPlayer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Status   string `json:"status,omitempty"`
}

func newBalanceCmd() *cobra.Command {
	var (
		file       string
		count      int
		minPerTeam int
		seed       uint64
		remote     bool
	)

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Balance a roster file into teams",
		Long: `Balance the players in a JSON roster file into position-balanced teams.

The file holds either an array of {"id","name","position"} objects or the
output of "pelada athlete list -o json". Inactive athletes are skipped.

Balancing runs locally unless --remote is given, in which case the server's
stateless balance endpoint is used. The server applies its own minimum team
size and a fresh random source, so --min-per-team and --seed cannot be combined
with --remote.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			players, err := readRosterFile(file)
			if err != nil {
				return err
			}

			var result response.Draw
			if remote {
				req := map[string]any{
					"team_count": count,
					"players":    players,
				}
				if err := client.Post(cmd.Context(), "/teams/balance", req, &result); err != nil {
					return err
				}
			} else {
				result, err = balanceLocally(players, count, minPerTeam, seed, cmd.Flags().Changed("seed"))
				if err != nil {
					return err
				}
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Roster JSON file (required)")
	cmd.Flags().IntVarP(&count, "count", "n", 2, "Number of teams")
	cmd.Flags().IntVar(&minPerTeam, "min-per-team", balancer.DefaultConfig().MinPlayersPerTeam, "Fewest players each team must receive")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible shuffle")
	cmd.Flags().BoolVar(&remote, "remote", false, "Balance on the server instead of locally")
	_ = cmd.MarkFlagRequired("file")
	cmd.MarkFlagsMutuallyExclusive("remote", "min-per-team")
	cmd.MarkFlagsMutuallyExclusive("remote", "seed")

	return cmd
}

// readRosterFile parses a roster file and drops inactive entries
func readRosterFile(path string) ([]rosterPlayer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	var players []rosterPlayer
	if err := json.Unmarshal(data, &players); err != nil {
		var list struct {
			Athletes []rosterPlayer `json:"athletes"`
			Players  []rosterPlayer `json:"players"`
		}
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("failed to parse roster: %w", err)
		}
		players = append(list.Athletes, list.Players...)
	}
	if len(players) == 0 {
		return nil, errors.New("roster file has no players")
	}

	active := players[:0]
	for _, p := range players {
		if p.Status == "" || p.Status == string(model.StatusActive) {
			active = append(active, p)
		}
	}
	return active, nil
}

func balanceLocally(players []rosterPlayer, teamCount, minPerTeam int, seed uint64, seeded bool) (response.Draw, error) {
	newRandom := random.EntropyFactory()
	if seeded {
		newRandom = func() random.Random { return random.NewSeeded(seed, seed) }
	}
	b := balancer.New(balancer.Config{MinPlayersPerTeam: minPerTeam}, newRandom)

	athletes := make([]model.Athlete, len(players))
	for i, p := range players {
		// Unparseable positions are passed through so the balancer rejects them
		position := model.Position(p.Position)
		if parsed, err := model.ParsePosition(p.Position); err == nil {
			position = parsed
		}
		athletes[i] = model.Athlete{
			ID:       model.AthleteID(p.ID),
			Name:     p.Name,
			Position: position,
			Status:   model.StatusActive,
		}
	}

	teams, err := b.Balance(athletes, teamCount)
	if err != nil {
		return response.Draw{}, err
	}

	return response.DrawFromModel(&model.Draw{
		Teams:       teams,
		PlayerCount: len(athletes),
		DrawnAt:     time.Now(),
	}), nil
}
