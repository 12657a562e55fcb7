package main

import (
	"fmt"

	"github.com/aussiebroadwan/useraccount/internal/authz/service"
	"github.com/spf13/cobra"
)

func newPruneCmd() *cobra.Command {
	var ageHours int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete ledger records older than the given age",
		Example: `  # Same sweep the server runs every hour
  authzctl prune --age-hours 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openCore()
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Ledger.PruneExpired(cmd.Context(), ageHours)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d blacklisted tokens deleted. %d issued tokens deleted.\n",
				res.Blacklisted, res.Issued)
			return nil
		},
	}

	cmd.Flags().IntVar(&ageHours, "age-hours", service.DefaultRetentionHours, "Delete records created more than this many hours ago")
	return cmd
}
