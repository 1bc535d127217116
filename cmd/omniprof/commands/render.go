package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/omniprof/omniprof/internal/compare"
	"github.com/omniprof/omniprof/internal/report"
	"github.com/omniprof/omniprof/internal/static"
)

// Format mode constants.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Maintainability thresholds for colored rendering.
const (
	maintainabilityGood = 85.0
	maintainabilityFair = 65.0
)

const jsonIndent = "  "

// writeReport serializes a report to the selected output. JSON written
// to a file goes through the report store so .lz4 paths compress
// transparently.
func writeReport(rep *report.Report, output, format string) error {
	if output != "" && (format == FormatJSON || strings.HasSuffix(output, ".lz4")) {
		return report.Save(output, rep)
	}

	w, cleanup, err := outputWriter(output)
	if err != nil {
		return err
	}
	defer cleanup()

	switch format {
	case FormatJSON:
		return encodeJSON(w, rep)
	case FormatYAML:
		return encodeYAML(w, rep)
	case FormatText:
		renderReportText(w, rep)

		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// writeComparison serializes a comparison result to the selected output.
func writeComparison(diffs map[string]map[string]compare.MetricDiff, output, format string) error {
	w, cleanup, err := outputWriter(output)
	if err != nil {
		return err
	}
	defer cleanup()

	switch format {
	case FormatJSON:
		return encodeJSON(w, diffs)
	case FormatYAML:
		return encodeYAML(w, diffs)
	case FormatText:
		renderComparisonText(w, diffs)

		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func outputWriter(output string) (io.Writer, func(), error) {
	if output == "" {
		return os.Stdout, func() {}, nil
	}

	file, err := os.Create(output)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}

	return file, func() { file.Close() }, nil
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", jsonIndent)

	err := encoder.Encode(v)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

// encodeYAML round-trips through JSON so the YAML keys match the report's
// serialized field names.
func encodeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	var generic any

	err = json.Unmarshal(data, &generic)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	out, err := yaml.Marshal(generic)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}

	return nil
}

func renderReportText(w io.Writer, rep *report.Report) {
	if rep.DynamicAnalysis != nil {
		renderDynamicText(w, rep.DynamicAnalysis)
	}

	if rep.StaticAnalysis != nil {
		renderStaticText(w, rep.StaticAnalysis)
	}

	if rep.Summary != nil {
		renderSummaryText(w, rep.Summary)
	}
}

func renderDynamicText(w io.Writer, dyn *report.Dynamic) {
	fmt.Fprintln(w, sectionTitle("Execution"))

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Metric", "Value"})
	tbl.AppendRow(table.Row{"wall time", formatSeconds(floatOf(dyn.Time, "wall_time"))})
	tbl.AppendRow(table.Row{"cpu time", formatSeconds(floatOf(dyn.Time, "cpu_time"))})
	tbl.AppendRow(table.Row{"peak memory", formatBytes(floatOf(dyn.Memory, "peak_memory"))})
	tbl.AppendRow(table.Row{"current memory", formatBytes(floatOf(dyn.Memory, "current_memory"))})
	tbl.AppendRow(table.Row{"total objects", fmt.Sprintf("%.0f", floatOf(dyn.GC, "total_objects"))})
	tbl.AppendRow(table.Row{"allocated", formatBytes(floatOf(dyn.Allocations, "total_size_bytes"))})

	if dyn.Error != "" {
		tbl.AppendRow(table.Row{"error", color.New(color.FgRed).Sprint(dyn.Error)})
	}

	if dyn.ReturnValue != nil {
		tbl.AppendRow(table.Row{"return value", fmt.Sprintf("%v", dyn.ReturnValue)})
	}

	tbl.Render()

	renderHotspotsText(w, dyn.Hotspots)
}

func renderHotspotsText(w io.Writer, hotspots []string) {
	if len(hotspots) == 0 {
		return
	}

	fmt.Fprintln(w, sectionTitle("Hotspots"))

	for i, line := range hotspots {
		fmt.Fprintf(w, "%2d. %s\n", i+1, line)
	}
}

func renderStaticText(w io.Writer, result *static.Result) {
	fmt.Fprintln(w, sectionTitle("Static Analysis"))
	fmt.Fprintf(w, "maintainability: %s\n", colorMaintainability(result.Maintainability))

	if len(result.Complexity) == 0 {
		return
	}

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Function", "Complexity", "LOC", "Estimate"})

	names := make([]string, 0, len(result.Complexity))
	for name := range result.Complexity {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		fn := result.Complexity[name]
		tbl.AppendRow(table.Row{name, fn.Complexity, fn.LOC, result.BigO[name]})
	}

	tbl.Render()
}

func renderSummaryText(w io.Writer, summary map[string]any) {
	fmt.Fprintln(w, sectionTitle("Repository Summary"))

	keys := make([]string, 0, len(summary))
	for key := range summary {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Metric", "Value"})

	for _, key := range keys {
		tbl.AppendRow(table.Row{key, fmt.Sprintf("%v", summary[key])})
	}

	tbl.Render()
}

func renderComparisonText(w io.Writer, diffs map[string]map[string]compare.MetricDiff) {
	fmt.Fprintln(w, sectionTitle("Comparison"))

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Metric", "Baseline", "Comparison", "Diff", "Change", "Status"})

	sections := make([]string, 0, len(diffs))
	for section := range diffs {
		sections = append(sections, section)
	}

	sort.Strings(sections)

	for _, section := range sections {
		metrics := make([]string, 0, len(diffs[section]))
		for metric := range diffs[section] {
			metrics = append(metrics, metric)
		}

		sort.Strings(metrics)

		for _, metric := range metrics {
			diff := diffs[section][metric]
			tbl.AppendRow(table.Row{
				section + "." + metric,
				fmt.Sprintf("%.4f", diff.Baseline),
				fmt.Sprintf("%.4f", diff.Comparison),
				fmt.Sprintf("%+.4f", diff.Diff),
				fmt.Sprintf("%+.1f%%", diff.Pct),
				colorStatus(diff.Status),
			})
		}
	}

	tbl.Render()
}

func newTable(w io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)

	return tbl
}

func sectionTitle(title string) string {
	return color.New(color.Bold).Sprintf("=== %s ===", title)
}

func colorStatus(status string) string {
	switch status {
	case compare.StatusImproved:
		return color.New(color.FgGreen).Sprint(status)
	case compare.StatusDegraded:
		return color.New(color.FgRed).Sprint(status)
	default:
		return status
	}
}

func colorMaintainability(index float64) string {
	formatted := fmt.Sprintf("%.1f", index)

	switch {
	case index >= maintainabilityGood:
		return color.New(color.FgGreen).Sprint(formatted)
	case index >= maintainabilityFair:
		return color.New(color.FgYellow).Sprint(formatted)
	default:
		return color.New(color.FgRed).Sprint(formatted)
	}
}

func formatSeconds(seconds float64) string {
	return fmt.Sprintf("%.6fs", seconds)
}

func formatBytes(v float64) string {
	if v < 0 {
		v = 0
	}

	return humanize.IBytes(uint64(v))
}

func floatOf(m map[string]any, key string) float64 {
	switch n := m[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
