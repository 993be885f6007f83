package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avioprep/avioprep/internal/authoring"
	"github.com/avioprep/avioprep/internal/question"
)

func newGenerateCmd() *cobra.Command {
	var (
		out     string
		options int
		useLLM  bool
	)
	cmd := &cobra.Command{
		Use:   "generate <bank.json>",
		Short: "Pad MCQs up to the target option count with generated distractors",
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

			filled := authoring.FillOptions(bank, options)

			// pool exhaustion: top up from the LLM when asked
			if useLLM {
				llm := authoring.NewLLMClient()
				for i, q := range filled {
					missing := options - len(q.Options)
					if !q.IsMCQ() || missing <= 0 {
						continue
					}
					extra, err := llm.SuggestDistractors(cmd.Context(), q, missing)
					if err != nil {
						return fmt.Errorf("llm distractors for %s: %w", q.ID, err)
					}
					filled[i].Options = append(filled[i].Options, extra...)
				}
			}

			buf, err := question.MarshalQuestions(filled)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(buf)
				return err
			}
			return os.WriteFile(out, buf, 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file (- for stdout)")
	cmd.Flags().IntVarP(&options, "options", "n", 4, "target option count per MCQ")
	cmd.Flags().BoolVar(&useLLM, "llm", false, "use the LLM when the sibling pool runs dry")
	return cmd
}
