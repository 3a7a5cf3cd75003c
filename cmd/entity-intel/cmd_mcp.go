package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	entitymcp "github.com/praxis-pr/entity-intel/internal/mcp"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP (Model Context Protocol) server over stdio",
		Long: `Starts an MCP JSON-RPC 2.0 server that reads from stdin and writes to stdout.
All diagnostic logs go to stderr so that stdout remains exclusively MCP protocol traffic.

Tools exposed:
  recognize_entities        — extract organizations, people, locations, products and events from text
  enrich_entity_profile     — build or refresh an organization profile
  track_entity_evolution    — trend and milestone summary of an entity's history
  find_entity_connections   — direct declared relationships of an entity
  match_entities_to_org     — score candidate names against a stored profile
  update_entity_intelligence — append items to an intelligence list
  predict_entity_behavior   — rule-based reaction to a hypothetical scenario
  classify_industry         — industry taxonomy classification
  map_organization_network  — bounded BFS over declared relationships
  calculate_influence_score — additive influence score with factor breakdown

If the graph store is unavailable at startup the server still starts;
individual tool calls will return MCP error responses on failure.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()

			a, err := newApp(logger)
			if err != nil {
				// Log to stderr and continue with nil deps. Tool calls
				// will return per-call errors rather than crashing.
				logger.Error("mcp: failed to wire components; tool calls requiring storage will fail",
					"error", err)
				a = &app{logger: logger}
			}
			defer a.close(cmd.Context())

			srv := entitymcp.NewServer(entitymcp.Deps{
				Store:      a.store,
				Recognizer: a.recognizer,
				Pipeline:   a.pipeline,
				Classifier: a.classifier,
				Mapper:     a.mapper,
				Tracker:    a.tracker,
				Predictor:  a.predictor,
				Matcher:    a.matcher,
			}, logger)

			// Use a standard log.Logger pointing at stderr for the mcp-go error logger.
			errLogger := log.New(os.Stderr, "mcp: ", log.LstdFlags)

			logger.Info("mcp: entity-intel MCP server starting", "transport", "stdio")

			if serveErr := mcpserver.ServeStdio(
				srv.MCPServer(),
				mcpserver.WithErrorLogger(errLogger),
			); serveErr != nil {
				return fmt.Errorf("mcp: %w", serveErr)
			}
			return nil
		},
	}

	return cmd
}
