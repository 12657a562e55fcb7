package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGrantRightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant-right <user-uuid> <right>",
		Short: "Grant a named right to a user",
		Long: `Grants a right to a user, creating the right if it does not exist yet.
Granting a right the user already holds is a no-op. Cached rights expire
within 20 minutes, so running servers pick the change up after that.`,
		Example: `  authzctl grant-right d2496da2-b2fd-4c98-9146-5fbd7bf6beca system`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openCore()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Store().UserRights().GrantRight(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "granted %q to %s\n", args[1], args[0])
			return nil
		},
	}
}
