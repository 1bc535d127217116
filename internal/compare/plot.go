package compare

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	chartWidth  = "1100px"
	chartHeight = "560px"
	xAxisRotate = 30

	baselineColor   = "#5470c6"
	comparisonColor = "#ee6666"
)

// WritePlot renders the comparison as a grouped bar chart, baseline
// against comparison per metric, as a standalone HTML page.
func WritePlot(w io.Writer, diffs map[string]map[string]MetricDiff) error {
	labels, baselines, comparisons := flattenDiffs(diffs)

	bar := charts.NewBar()

	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Profiling Comparison",
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Profiling Comparison",
			Subtitle: "Baseline vs comparison per metric (lower is better)",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: xAxisRotate, Interval: "0"},
		}),
	)

	bar.SetXAxis(labels)
	bar.AddSeries("baseline", barData(baselines, baselineColor))
	bar.AddSeries("comparison", barData(comparisons, comparisonColor))

	err := bar.Render(w)
	if err != nil {
		return fmt.Errorf("render comparison plot: %w", err)
	}

	return nil
}

// flattenDiffs orders the metrics deterministically as section.metric
// labels.
func flattenDiffs(diffs map[string]map[string]MetricDiff) (labels []string, baselines, comparisons []float64) {
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

			labels = append(labels, section+"."+metric)
			baselines = append(baselines, diff.Baseline)
			comparisons = append(comparisons, diff.Comparison)
		}
	}

	return labels, baselines, comparisons
}

func barData(values []float64, color string) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{
			Value:     v,
			ItemStyle: &opts.ItemStyle{Color: color},
		}
	}

	return data
}
