package main

import (
	"os"

	"github.com/cottand/supers/cmd"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "supers [subcommand]",
	Short:        "supers resolves generic supertypes and method signatures in class hierarchies",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	cmd.RegisterFlags(rootCmd)
	rootCmd.AddCommand(cmd.ResolveCmd)
	rootCmd.AddCommand(cmd.SupersCmd)
	rootCmd.AddCommand(cmd.SignatureCmd)
	rootCmd.AddCommand(cmd.OverridesCmd)
	rootCmd.AddCommand(cmd.AccessorsCmd)
}
