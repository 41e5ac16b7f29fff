package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillbit/skillbit/internal/diagnostic"
	"github.com/skillbit/skillbit/internal/session"
)

var diagnosticCmd = &cobra.Command{
	Use:   "diagnostic",
	Short: "Inspect the diagnostic baseline",
}

var diagnosticStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved diagnostic score and where practice will start",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		res, err := d.store.Results(d.learner.ID).DiagnosticResult(cmd.Context())
		if err != nil {
			return err
		}
		if res == nil {
			fmt.Println("No diagnostic taken yet. Finish the lectures, then run skillbit.")
			return nil
		}

		start := session.InitialState(res.Score)
		fmt.Printf("Taken:       %s\n", res.Time().Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("Score:       %d%% (%d of %d correct)\n", res.Score, res.Correct(), len(res.Answers))
		fmt.Printf("             %s\n", diagnostic.ScoreMessage(res.Score))
		fmt.Printf("Next step:   %s\n", diagnostic.Recommendation(res.Score))
		fmt.Printf("Practice:    starts at %s with competence %d\n", start.Difficulty.Label(), start.Competence)
		return nil
	},
}

func init() {
	diagnosticCmd.AddCommand(diagnosticStatusCmd)
}
