package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillbit/skillbit/internal/config"
	"github.com/skillbit/skillbit/internal/questionbank"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Inspect and validate question banks",
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the questions in the active bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(config.Options{ConfigFile: configFile, Flags: cmd.Flags()})
		if err != nil {
			return err
		}
		catalog, err := questionbank.Open(cfg.Bank)
		if err != nil {
			return err
		}

		for _, set := range []*questionbank.Set{catalog.Diagnostic, catalog.Practice} {
			fmt.Printf("%s (%d questions)\n", set.Name(), set.Len())
			fmt.Println(strings.Repeat("─", 72))
			for _, q := range set.All() {
				fmt.Printf("%-4d  %-6s  %s\n", q.ID, q.Difficulty.Label(), truncate(q.Prompt, 58))
			}
			fmt.Println()
		}

		counts := catalog.Practice.CountByDifficulty()
		parts := make([]string, 0, len(counts))
		for _, d := range questionbank.AllDifficulties() {
			parts = append(parts, fmt.Sprintf("%s %d", d.Label(), counts[d]))
		}
		fmt.Printf("Practice pool: %s\n", strings.Join(parts, ", "))
		return nil
	},
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a YAML question bank without loading it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := questionbank.LoadFile(args[0])
		if err != nil {
			return fmt.Errorf("%s is invalid:\n%w", args[0], err)
		}
		fmt.Printf("%s is valid: %d diagnostic and %d practice questions.\n",
			args[0], catalog.Diagnostic.Len(), catalog.Practice.Len())
		return nil
	},
}

func init() {
	bankCmd.AddCommand(bankListCmd)
	bankCmd.AddCommand(bankValidateCmd)
}
