package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/pelada/internal/api/response"
)

func newPresenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presence",
		Short: "Confirm or withdraw from the next match",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether you are confirmed",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Presence

			if err := client.Get(cmd.Context(), "/presence", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "confirm",
		Short: "Confirm presence using your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Presence

			if err := client.Post(cmd.Context(), "/presence", nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove",
		Short: "Withdraw from the next match",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/presence"); err != nil {
				return err
			}

			output(cmd).PrintMessage("Presence removed")
			return nil
		},
	})

	return cmd
}
