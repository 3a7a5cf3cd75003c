package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func healthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check connectivity to the graph store",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("health: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(cmd.Context()) }()

			if err := st.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("health: store ping: %w", err)
			}

			fmt.Printf("Store OK at %s\n", cfg.Neo4j.URI)
			return nil
		},
	}
	return cmd
}
