package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func recognizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recognize <text>",
		Short: "Recognize organizations and people in free text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			rec := newRecognizer(logger)

			result, err := rec.Recognize(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("recognize: %w", err)
			}
			return printJSON(result)
		},
	}
	return cmd
}
