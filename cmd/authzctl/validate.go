package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <token>",
		Short: "Print the authorization result for an access token",
		Example: `  authzctl validate eyJraWQiOi...

  # Read the token from stdin
  echo "eyJraWQiOi..." | authzctl validate -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := args[0]
			if token == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read token from stdin: %w", err)
				}
				token = strings.TrimSpace(string(data))
			}

			a, err := openCore()
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Authorizer.Authorize(cmd.Context(), token)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}
