package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillbit/skillbit/internal/selfupdate"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("skillbit", version)

		check, _ := cmd.Flags().GetBool("check")
		if !check {
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()
		res, err := selfupdate.NewChecker().Check(ctx, &selfupdate.CheckInput{Version: version})
		if err != nil {
			return err
		}
		if res.UpdateAvailable {
			fmt.Printf("skillbit %s is available: %s\nRun `skillbit update` to install it.\n", res.LatestVersion, res.ReleaseURL)
		} else {
			fmt.Printf("Latest release is %s.\n", res.LatestVersion)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("check", false, "Also report whether a newer release exists")
}
