package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avioprep/avioprep/internal/authoring"
	"github.com/avioprep/avioprep/internal/question"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <bank.json>",
		Short: "Check a question bank against the canonical MCQ rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			bank, err := question.NormalizeSet(raw)
			if err != nil {
				return err
			}
			problems := authoring.ValidateSet(bank)
			for _, p := range problems {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			if len(problems) > 0 {
				os.Exit(1)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d questions\n", len(bank))
			return nil
		},
	}
}
