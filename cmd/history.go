package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List finished practice sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		snaps, err := d.store.SnapshotRepo().List(cmd.Context(), d.learner.ID, limit)
		if err != nil {
			return err
		}
		if len(snaps) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		fmt.Printf("%-19s  %-8s  %9s  %10s  %7s  %s\n",
			"Finished", "Session", "Questions", "Competence", "Fatigue", "Level")
		fmt.Println(strings.Repeat("─", 72))
		for _, s := range snaps {
			r := s.Result
			fmt.Printf("%-19s  %-8s  %4d / %-2d  %10d  %7d  %s\n",
				s.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(s.SessionID, 8),
				r.CorrectAnswers, r.QuestionsAnswered,
				r.Competence, r.Fatigue,
				r.CurrentDifficulty.Label(),
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show (0 = all)")
}
