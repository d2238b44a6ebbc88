package cli

import (
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/pelada/internal/api/response"
)

func newAthleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "athlete",
		Aliases: []string{"athletes"},
		Short:   "Roster management commands",
	}

	cmd.AddCommand(newAthleteListCmd())
	cmd.AddCommand(newAthleteGetCmd())
	cmd.AddCommand(newAthleteAddCmd())
	cmd.AddCommand(newAthleteUpdateCmd())
	cmd.AddCommand(newAthleteDeleteCmd())
	cmd.AddCommand(newAthleteStatsCmd())
	cmd.AddCommand(newAthleteJoinCmd())
	cmd.AddCommand(newAthleteWatchCmd())

	return cmd
}

func newAthleteListCmd() *cobra.Command {
	var status, search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if status != "" {
				query.Set("status", status)
			}
			if search != "" {
				query.Set("search", search)
			}
			var result response.AthleteList
			if err := client.Get(cmd.Context(), endpoint(query, "athletes"), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only show athletes with this status (active, inactive)")
	cmd.Flags().StringVar(&search, "search", "", "Only show athletes whose name contains this text")

	return cmd
}

func newAthleteGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one athlete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Athlete

			if err := client.Get(cmd.Context(), endpoint(nil, "athletes", args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newAthleteAddCmd() *cobra.Command {
	var (
		name, position, status, photoURL string
		goals, assists, games            int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an athlete to the roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"name":         name,
				"position":     position,
				"status":       status,
				"photo_url":    photoURL,
				"goals":        goals,
				"assists":      assists,
				"games_played": games,
			}
			var result response.Athlete

			if err := client.Post(cmd.Context(), "/athletes", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name (required)")
	cmd.Flags().StringVar(&position, "position", "", "goalkeeper, defender, midfielder or forward (required)")
	cmd.Flags().StringVar(&status, "status", "", "active or inactive (default active)")
	cmd.Flags().StringVar(&photoURL, "photo-url", "", "Photo URL")
	cmd.Flags().IntVar(&goals, "goals", 0, "Goals scored")
	cmd.Flags().IntVar(&assists, "assists", 0, "Assists")
	cmd.Flags().IntVar(&games, "games", 0, "Games played")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("position")

	return cmd
}

func newAthleteUpdateCmd() *cobra.Command {
	var (
		name, position, status, photoURL string
		goals, assists, games            int
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an athlete; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			req := map[string]any{}
			if flags.Changed("name") {
				req["name"] = name
			}
			if flags.Changed("position") {
				req["position"] = position
			}
			if flags.Changed("status") {
				req["status"] = status
			}
			if flags.Changed("photo-url") {
				req["photo_url"] = photoURL
			}
			if flags.Changed("goals") {
				req["goals"] = goals
			}
			if flags.Changed("assists") {
				req["assists"] = assists
			}
			if flags.Changed("games") {
				req["games_played"] = games
			}

			var result response.Athlete
			if err := client.Patch(cmd.Context(), endpoint(nil, "athletes", args[0]), req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name")
	cmd.Flags().StringVar(&position, "position", "", "goalkeeper, defender, midfielder or forward")
	cmd.Flags().StringVar(&status, "status", "", "active or inactive")
	cmd.Flags().StringVar(&photoURL, "photo-url", "", "Photo URL")
	cmd.Flags().IntVar(&goals, "goals", 0, "Goals scored")
	cmd.Flags().IntVar(&assists, "assists", 0, "Assists")
	cmd.Flags().IntVar(&games, "games", 0, "Games played")

	return cmd
}

func newAthleteDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an athlete from the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), endpoint(nil, "athletes", args[0])); err != nil {
				return err
			}

			output(cmd).PrintMessage("Athlete deleted")
			return nil
		},
	}
}

func newAthleteStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show roster totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Stats

			if err := client.Get(cmd.Context(), "/athletes/stats", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newAthleteJoinCmd() *cobra.Command {
	var name, position string

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Sign up for the roster without an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"name":     name,
				"position": position,
			}
			var result response.Athlete

			if err := client.Post(cmd.Context(), "/join", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Name (required)")
	cmd.Flags().StringVar(&position, "position", "", "goalkeeper, defender, midfielder or forward (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("position")

	return cmd
}
