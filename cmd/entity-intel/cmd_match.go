package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func matchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <organization-id> <candidate>...",
		Short: "Score candidate entity names against an organization profile",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			a, err := newApp(logger)
			if err != nil {
				return fmt.Errorf("match: %w", err)
			}
			defer a.close(cmd.Context())

			result, err := a.matcher.Match(cmd.Context(), args[0], args[1:])
			if err != nil {
				return fmt.Errorf("match: %w", err)
			}
			return printJSON(result)
		},
	}
	return cmd
}
