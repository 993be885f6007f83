// authorctl is the MCQ authoring tool: validate question banks and pad thin
// questions with generated distractors before publishing a paper.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "authorctl",
	Short:        "Authoring tooling for avioprep question banks",
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(newGenerateCmd(), newValidateCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
