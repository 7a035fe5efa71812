package cmd

import (
	"fmt"

	"github.com/VoxDroid/taxis/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "taxis %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
