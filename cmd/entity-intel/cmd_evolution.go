package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func evolutionCmd() *cobra.Command {
	var timeframe string

	cmd := &cobra.Command{
		Use:   "evolution <entity-id>",
		Short: "Summarize how an entity has changed over its recorded history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			a, err := newApp(logger)
			if err != nil {
				return fmt.Errorf("evolution: %w", err)
			}
			defer a.close(cmd.Context())

			evo, err := a.tracker.Evolution(cmd.Context(), args[0], timeframe)
			if err != nil {
				return fmt.Errorf("evolution: %w", err)
			}
			return printJSON(evo)
		},
	}

	cmd.Flags().StringVar(&timeframe, "timeframe", "90d", "timeframe label echoed in the report")
	return cmd
}
