package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omniprof/omniprof/internal/compare"
	"github.com/omniprof/omniprof/internal/report"
)

// CompareCommand holds the flags for the compare command.
type CompareCommand struct {
	plot   string
	output string
	format string
}

// NewCompareCommand creates and configures the compare command.
func NewCompareCommand() *cobra.Command {
	cmd := &CompareCommand{}

	cobraCmd := &cobra.Command{
		Use:   "compare <baseline> <comparison>",
		Short: "Diff the dynamic metrics of two profiling reports",
		Long: `Compare loads two stored reports and diffs their dynamic metrics.
Each metric change is classified as improved, degraded, or neutral;
lower is better for every compared metric.`,
		Args: cobra.ExactArgs(2),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVar(&cmd.plot, "plot", "", "write an HTML comparison chart to this path")
	cobraCmd.Flags().StringVarP(&cmd.output, "output", "o", "", "output file (default: stdout)")
	cobraCmd.Flags().StringVarP(&cmd.format, "format", "f", FormatText, "output format: text, json, or yaml")

	return cobraCmd
}

// Run executes the compare command.
func (c *CompareCommand) Run(_ *cobra.Command, args []string) error {
	baseline, err := loadComparable(args[0])
	if err != nil {
		return err
	}

	comparison, err := loadComparable(args[1])
	if err != nil {
		return err
	}

	diffs := compare.Compare(baseline, comparison)

	if c.plot != "" {
		plotErr := c.writePlot(diffs)
		if plotErr != nil {
			return plotErr
		}
	}

	return writeComparison(diffs, c.output, c.format)
}

func (c *CompareCommand) writePlot(diffs map[string]map[string]compare.MetricDiff) error {
	file, err := os.Create(c.plot)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}
	defer file.Close()

	return compare.WritePlot(file, diffs)
}

// loadComparable loads a stored report and checks it has the shape the
// comparator needs.
func loadComparable(path string) (map[string]any, error) {
	payload, err := report.Load(path)
	if err != nil {
		return nil, err
	}

	validateErr := compare.ValidateReport(payload)
	if validateErr != nil {
		return nil, fmt.Errorf("%s: %w", path, validateErr)
	}

	return payload, nil
}
