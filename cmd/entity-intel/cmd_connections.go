package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/praxis-pr/entity-intel/internal/models"
)

func connectionsCmd() *cobra.Command {
	var typesFlag string

	cmd := &cobra.Command{
		Use:   "connections <entity-id>",
		Short: "List an entity's direct declared relationships",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			a, err := newApp(logger)
			if err != nil {
				return fmt.Errorf("connections: %w", err)
			}
			defer a.close(cmd.Context())

			var types []models.RelationType
			for _, t := range strings.Split(typesFlag, ",") {
				if trimmed := strings.TrimSpace(t); trimmed != "" {
					types = append(types, models.RelationType(trimmed))
				}
			}

			connections, err := a.mapper.Connections(cmd.Context(), args[0], types)
			if err != nil {
				return fmt.Errorf("connections: %w", err)
			}

			if len(connections) == 0 {
				fmt.Println("No connections found.")
				return nil
			}
			for _, c := range connections {
				fmt.Printf("%-14s  %.1f  %s\n", c.Type, c.Weight, c.EntityID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&typesFlag, "types", "", "comma-separated relationship types to keep")
	return cmd
}
