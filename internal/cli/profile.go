package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/pelada/internal/api/response"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your player profile",
	}

	cmd.AddCommand(newProfileGetCmd())
	cmd.AddCommand(newProfileSetCmd())

	return cmd
}

func newProfileGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Profile

			if err := client.Get(cmd.Context(), "/profile", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newProfileSetCmd() *cobra.Command {
	var name, position, photoURL string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Save your profile",
		Long: `Save your profile. If you are confirmed for the next match your roster
entry is updated to match.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"name":      name,
				"position":  position,
				"photo_url": photoURL,
			}
			var result response.Profile

			if err := client.Put(cmd.Context(), "/profile", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&position, "position", "", "goalkeeper, defender, midfielder or forward (required)")
	cmd.Flags().StringVar(&photoURL, "photo-url", "", "Photo URL")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("position")

	return cmd
}
