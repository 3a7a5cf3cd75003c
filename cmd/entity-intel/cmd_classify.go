package main

import (
	"github.com/spf13/cobra"

	"github.com/praxis-pr/entity-intel/internal/taxonomy"
)

func classifyCmd() *cobra.Command {
	var contextText string

	cmd := &cobra.Command{
		Use:   "classify <organization-name>",
		Short: "Classify an organization's industry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			classifier := taxonomy.NewClassifier(logger)
			return printJSON(classifier.Classify(args[0], contextText))
		},
	}

	cmd.Flags().StringVar(&contextText, "context", "", "context text that can override the name-based classification")
	return cmd
}
