package cmd

import (
	"fmt"

	"github.com/rohmanhakim/nps-nearby/internal/build"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), build.Banner(rootCmd.Name()))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
