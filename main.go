package main

import (
	"os"

	"github.com/cottand/flowty/cmd"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "flowty [subcommand]",
	Short:        "flowty\n flow-sensitive type inference for typed JavaScript",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.CheckCmd)
	rootCmd.AddCommand(cmd.TypeAtCmd)
	rootCmd.AddCommand(cmd.CompleteCmd)
}
