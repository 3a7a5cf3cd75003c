package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict <entity-id> <scenario>",
		Short: "Predict how an entity would react to a hypothetical scenario",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			a, err := newApp(logger)
			if err != nil {
				return fmt.Errorf("predict: %w", err)
			}
			defer a.close(cmd.Context())

			prediction, err := a.predictor.Predict(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("predict: %w", err)
			}
			return printJSON(prediction)
		},
	}
	return cmd
}
