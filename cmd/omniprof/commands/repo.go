package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/omniprof/omniprof/internal/config"
	"github.com/omniprof/omniprof/internal/orchestrator"
)

// RepoCommand holds the flags for the repo command.
type RepoCommand struct {
	configPath string
	entry      string
	sampling   bool
	output     string
	format     string
}

// NewRepoCommand creates and configures the repo command.
func NewRepoCommand() *cobra.Command {
	cmd := &RepoCommand{}

	cobraCmd := &cobra.Command{
		Use:   "repo <directory>",
		Short: "Statically analyze every source file of a repository",
		Long: `Repo walks a directory tree, analyzes every Go source file, and
emits a per-file breakdown plus a repository summary. With --entry the
named file (relative to the repository root) additionally gets the full
dynamic profiling pass.`,
		Args: cobra.ExactArgs(1),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVarP(&cmd.configPath, "config", "c", "", "config file path")
	cobraCmd.Flags().StringVar(&cmd.entry, "entry", "", "entry-point file to profile dynamically")
	cobraCmd.Flags().BoolVar(&cmd.sampling, "sampling", false, "also run the external sampling profiler on the entry point")
	cobraCmd.Flags().StringVarP(&cmd.output, "output", "o", "", "output file (default: stdout)")
	cobraCmd.Flags().StringVarP(&cmd.format, "format", "f", FormatText, "output format: text, json, or yaml")

	return cobraCmd
}

// Run executes the repo command.
func (c *RepoCommand) Run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	orch := orchestrator.New(cfg, slog.Default())

	rep, err := orch.ProfileRepository(cmd.Context(), args[0], c.entry, orchestrator.Options{Sampling: c.sampling})
	if err != nil {
		return err
	}

	return writeReport(rep, c.output, c.format)
}
