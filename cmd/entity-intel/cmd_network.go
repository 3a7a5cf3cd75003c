package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func networkCmd() *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "network <entity-id>",
		Short: "Map an entity's relationship network by breadth-first traversal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			a, err := newApp(logger)
			if err != nil {
				return fmt.Errorf("network: %w", err)
			}
			defer a.close(cmd.Context())

			if depth <= 0 {
				depth = cfg.Intel.NetworkDepth
			}
			netMap, err := a.mapper.MapNetwork(cmd.Context(), args[0], depth)
			if err != nil {
				return fmt.Errorf("network: %w", err)
			}
			return printJSON(netMap)
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 0, "traversal depth (0 = configured default)")
	return cmd
}
