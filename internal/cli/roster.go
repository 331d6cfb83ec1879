package cli

import (
	"github.com/spf13/cobra"
)

func newRosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "Show the current queue roster",
		Long: `Fetch the current roster from the server: active players first
(X before O), then waiting clients in queue order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Roster

			if err := client.Get("/api/v1/roster", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
