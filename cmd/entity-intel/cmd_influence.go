package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/praxis-pr/entity-intel/internal/influence"
)

func influenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "influence <entity-id>",
		Short: "Calculate an entity's influence score with its factor breakdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("influence: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(cmd.Context()) }()

			profile, err := st.GetProfile(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("influence: %w", err)
			}
			return printJSON(influence.Report(profile))
		},
	}
	return cmd
}
