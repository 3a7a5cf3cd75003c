package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/praxis-pr/entity-intel/internal/models"
)

func intelligenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intelligence <entity-id> <type> <item>...",
		Short: "Append items to an entity's intelligence list",
		Long: `Appends one or more items to the named intelligence list of an entity.
Valid types: narrative_themes, recent_developments, upcoming_catalysts,
risk_factors, opportunities, cascade_triggers. Lists are append-only.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			a, err := newApp(logger)
			if err != nil {
				return fmt.Errorf("intelligence: %w", err)
			}
			defer a.close(cmd.Context())

			profile, err := a.pipeline.UpdateIntelligence(cmd.Context(), args[0],
				models.IntelligenceType(args[1]), args[2:])
			if err != nil {
				return fmt.Errorf("intelligence: %w", err)
			}

			fmt.Printf("Appended %d item(s) to %s of %s (version %d)\n",
				len(args)-2, args[1], args[0], profile.Version)
			return nil
		},
	}
	return cmd
}
