package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillbit/skillbit/internal/lectures"
)

var lecturesCmd = &cobra.Command{
	Use:   "lectures",
	Short: "List foundational lectures and record progress",
}

var lecturesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List lectures and whether each was watched",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		tracker := lectures.NewTracker(d.store.LectureProgress(d.learner.ID))
		ctx := cmd.Context()

		fmt.Printf("%-4s  %-40s  %-6s  %s\n", "ID", "Title", "Length", "Watched")
		fmt.Println(strings.Repeat("─", 64))
		for _, l := range tracker.Lectures() {
			done, err := tracker.IsComplete(ctx, l.ID)
			if err != nil {
				return fmt.Errorf("load lecture progress: %w", err)
			}
			mark := " "
			if done {
				mark = "✓"
			}
			fmt.Printf("%-4s  %-40s  %-6s  %s\n", l.ID, truncate(l.Title, 40), l.DurationLabel(), mark)
		}

		watched, total, err := tracker.Progress(ctx)
		if err != nil {
			return fmt.Errorf("load lecture progress: %w", err)
		}
		fmt.Printf("\n%d of %d watched\n", watched, total)
		return nil
	},
}

var lecturesCompleteCmd = &cobra.Command{
	Use:   "complete <id>...",
	Short: "Mark lectures as watched (--all for every lecture)",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		if !all && len(args) == 0 {
			return fmt.Errorf("give at least one lecture ID, or --all")
		}

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		tracker := lectures.NewTracker(d.store.LectureProgress(d.learner.ID))
		ids := args
		if all {
			ids = nil
			for _, l := range tracker.Lectures() {
				ids = append(ids, l.ID)
			}
		}
		for _, id := range ids {
			if err := tracker.MarkComplete(cmd.Context(), id); err != nil {
				return err
			}
			l, _ := lectures.ByID(id)
			fmt.Printf("Marked %q as watched.\n", l.Title)
		}
		return nil
	},
}

var lecturesResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear lecture progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := lectures.NewTracker(d.store.LectureProgress(d.learner.ID)).Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Lecture progress cleared.")
		return nil
	},
}

func init() {
	lecturesCompleteCmd.Flags().Bool("all", false, "Mark every lecture as watched")

	lecturesCmd.AddCommand(lecturesListCmd)
	lecturesCmd.AddCommand(lecturesCompleteCmd)
	lecturesCmd.AddCommand(lecturesResetCmd)
}
