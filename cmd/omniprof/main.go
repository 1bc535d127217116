// Package main provides the entry point for the omniprof CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omniprof/omniprof/cmd/omniprof/commands"
	"github.com/omniprof/omniprof/pkg/version"
)

var (
	verbose bool
	quiet   bool
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "omniprof",
		Short: "Omniprof - multi-probe program profiler",
		Long: `Omniprof profiles programs with static metrics, instrumented
execution, and optional statistical sampling.

Commands:
  profile   Profile a program or a single function
  repo      Statically analyze every source file of a repository
  compare   Diff the dynamic metrics of two profiling reports`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			commands.SetupLogging(verbose, quiet)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output")

	// Add commands.
	rootCmd.AddCommand(commands.NewProfileCommand())
	rootCmd.AddCommand(commands.NewRepoCommand())
	rootCmd.AddCommand(commands.NewCompareCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "omniprof %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
