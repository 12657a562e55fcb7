package main

import (
	"github.com/aussiebroadwan/useraccount/internal/authz/app"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "authzctl",
		Short: "Maintenance tool for the authorization service (version: " + app.BuildVersion + ")",
		Long: `authzctl operates on the token ledger and user rights directly.
It reads the same AUTHZ_* environment variables as the server.`,
		Version:       app.BuildVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newPruneCmd(),
		newGrantRightCmd(),
		newValidateCmd(),
	)
	return root
}

// openCore builds the storage-backed services from the environment. The
// caller must Close the result.
func openCore() (*app.Application, error) {
	return app.NewCore(app.LoadConfig())
}
