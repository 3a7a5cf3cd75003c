package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/praxis-pr/entity-intel/internal/models"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage an entity's change history",
	}
	cmd.AddCommand(historyAddCmd(), historyListCmd())
	return cmd
}

func historyAddCmd() *cobra.Command {
	var (
		significance string
		impact       float64
	)

	cmd := &cobra.Command{
		Use:   "add <entity-id> <change-type> <description>",
		Short: "Record a change event for an entity",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("history add: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(cmd.Context()) }()

			sig := models.Significance(significance)
			if !sig.IsValid() {
				return fmt.Errorf("history add: invalid significance %q", significance)
			}

			record := models.HistoryRecord{
				ID:           uuid.NewString(),
				EntityID:     args[0],
				Timestamp:    time.Now().UTC(),
				ChangeType:   args[1],
				Significance: sig,
				Description:  args[2],
				ImpactScore:  impact,
			}
			if err := st.AppendHistory(cmd.Context(), record); err != nil {
				return fmt.Errorf("history add: %w", err)
			}

			fmt.Printf("Recorded %s event %s for %s\n", record.ChangeType, record.ID, record.EntityID)
			return nil
		},
	}

	cmd.Flags().StringVar(&significance, "significance", string(models.SignificanceMedium), "event significance (low, medium, high)")
	cmd.Flags().Float64Var(&impact, "impact", 0, "impact score in [0,1]")
	return cmd
}

func historyListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <entity-id>",
		Short: "List an entity's change history, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			st, err := newStore(logger)
			if err != nil {
				return fmt.Errorf("history list: connecting to store: %w", err)
			}
			defer func() { _ = st.Close(cmd.Context()) }()

			records, err := st.QueryHistory(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("history list: %w", err)
			}
			if len(records) == 0 {
				fmt.Println("No history recorded.")
				return nil
			}
			return printJSON(records)
		},
	}
	return cmd
}
