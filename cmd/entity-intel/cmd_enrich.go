package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func enrichCmd() *cobra.Command {
	var deep bool

	cmd := &cobra.Command{
		Use:   "enrich <organization-name>",
		Short: "Build or fetch the entity profile for an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			a, err := newApp(logger)
			if err != nil {
				return fmt.Errorf("enrich: %w", err)
			}
			defer a.close(cmd.Context())

			profile, err := a.pipeline.Enrich(cmd.Context(), args[0], deep)
			if err != nil {
				return fmt.Errorf("enrich: %w", err)
			}
			return printJSON(profile)
		},
	}

	cmd.Flags().BoolVar(&deep, "deep", false, "rebuild derived fields, bypassing the cache")
	return cmd
}
