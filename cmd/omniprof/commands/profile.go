// Package commands implements the omniprof CLI subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/omniprof/omniprof/internal/config"
	"github.com/omniprof/omniprof/internal/orchestrator"
	"github.com/omniprof/omniprof/internal/report"
)

// inputsFlag is the flag name for overriding the mock input sequence.
const inputsFlag = "inputs"

// ProfileCommand holds the flags for the profile command.
type ProfileCommand struct {
	configPath string
	function   string
	sampling   bool
	inputs     []string
	output     string
	format     string
}

// NewProfileCommand creates and configures the profile command.
func NewProfileCommand() *cobra.Command {
	cmd := &ProfileCommand{}

	cobraCmd := &cobra.Command{
		Use:   "profile <file>",
		Short: "Profile a program end to end",
		Long: `Profile runs static analysis and one instrumented execution of the
target program and emits a combined report. With --function only the
named top-level function is measured instead of the whole program.`,
		Args: cobra.ExactArgs(1),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVarP(&cmd.configPath, "config", "c", "", "config file path")
	cobraCmd.Flags().StringVar(&cmd.function, "function", "", "profile only this top-level function")
	cobraCmd.Flags().BoolVar(&cmd.sampling, "sampling", false, "also run the external sampling profiler")
	cobraCmd.Flags().StringSliceVar(&cmd.inputs, inputsFlag, nil, "mock input values fed to the target")
	cobraCmd.Flags().StringVarP(&cmd.output, "output", "o", "", "output file (default: stdout)")
	cobraCmd.Flags().StringVarP(&cmd.format, "format", "f", FormatText, "output format: text, json, or yaml")

	return cobraCmd
}

// Run executes the profile command.
func (c *ProfileCommand) Run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	orch := orchestrator.New(cfg, slog.Default())

	opts := orchestrator.Options{Sampling: c.sampling}
	if cmd.Flags().Changed(inputsFlag) {
		opts.MockInputs = c.inputs
	}

	var rep *report.Report

	targetPath := args[0]

	if c.function == "" {
		rep, err = orch.ProfileFile(cmd.Context(), targetPath, opts)
		if err != nil {
			return err
		}
	} else {
		data, readErr := os.ReadFile(targetPath)
		if readErr != nil {
			return fmt.Errorf("read target file: %w", readErr)
		}

		rep = orch.ProfileFunction(cmd.Context(), string(data), c.function, filepath.Dir(targetPath), opts)
	}

	return writeReport(rep, c.output, c.format)
}
