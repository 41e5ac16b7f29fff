package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skillbit",
	Short: "Adaptive practice with fatigue-aware pacing",
	Long: "SkillBit is a terminal learning flow. Watch the lectures, take the diagnostic,\n" +
		"then practice at a difficulty that follows your competence and rests you when tired.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SKILLBIT_DB)")
	rootCmd.PersistentFlags().String("bank", "", "Path to a YAML question bank (default: built-in)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: $XDG_CONFIG_HOME/skillbit/config.yaml)")

	rootCmd.AddCommand(lecturesCmd)
	rootCmd.AddCommand(diagnosticCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}
