package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillbit/skillbit/internal/questionbank"
	"github.com/skillbit/skillbit/internal/results"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show analytics for the latest practice session",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmd.Context()
		repo := d.store.Results(d.learner.ID)
		diag, err := repo.DiagnosticResult(ctx)
		if err != nil {
			return err
		}
		sess, err := repo.SessionResult(ctx)
		if err != nil {
			return err
		}
		if diag == nil || sess == nil {
			fmt.Println("No results yet. Finish a practice session first.")
			return nil
		}

		sum := results.Summarize(*diag, *sess)
		fmt.Printf("Diagnostic:   %d%%\n", sum.Comparison.PreTest)
		fmt.Printf("Competence:   %d%% (%+d)\n", sum.Comparison.PostTest, sum.Improvement)
		fmt.Printf("              %s\n", sum.Message())
		fmt.Printf("Accuracy:     %.0f%% (%d of %d correct)\n", sum.Accuracy, sum.CorrectAnswers, sum.QuestionsAnswered)
		fmt.Printf("Fatigue:      %d\n", sum.FinalFatigue)
		fmt.Printf("Final level:  %s\n", sum.FinalDifficulty.Label())

		fmt.Println()
		fmt.Println("Difficulty Distribution")
		fmt.Println(strings.Repeat("─", 40))
		for _, diff := range questionbank.AllDifficulties() {
			n := sum.Distribution.Count(diff)
			fmt.Printf("%-8s  %3d  %s\n", diff.Label(), n, strings.Repeat("█", n))
		}
		return nil
	},
}
