// Package compare diffs the dynamic metrics of two profiling reports and
// classifies each change as an improvement or a regression.
package compare

import "github.com/omniprof/omniprof/pkg/mathutil"

// Change statuses. All compared metrics are lower-is-better, so a
// negative difference is an improvement.
const (
	StatusImproved = "improved"
	StatusDegraded = "degraded"
	StatusNeutral  = "neutral"
)

const percent = 100.0

// MetricDiff is the comparison outcome for one metric.
type MetricDiff struct {
	Baseline   float64 `json:"baseline"`
	Comparison float64 `json:"comparison"`
	Diff       float64 `json:"diff"`
	Pct        float64 `json:"pct"`
	Status     string  `json:"status"`
}

// comparedMetrics is the fixed set of metrics the comparator inspects.
// Metrics absent from a report are compared as zero.
var comparedMetrics = map[string][]string{
	"time":        {"wall_time", "cpu_time"},
	"memory":      {"peak_memory", "current_memory"},
	"gc":          {"total_objects", "total_collections"},
	"allocations": {"total_size_bytes", "total_allocations"},
}

// Compare diffs two serialized reports. Differences are computed as
// comparison minus baseline; the percentage change is zero whenever the
// baseline is zero.
func Compare(baseline, comparison map[string]any) map[string]map[string]MetricDiff {
	result := map[string]map[string]MetricDiff{}

	for section, metrics := range comparedMetrics {
		sectionDiffs := map[string]MetricDiff{}

		for _, metric := range metrics {
			a := metricValue(baseline, section, metric)
			b := metricValue(comparison, section, metric)

			sectionDiffs[metric] = diffMetric(a, b)
		}

		result[section] = sectionDiffs
	}

	return result
}

func diffMetric(baseline, comparison float64) MetricDiff {
	diff := comparison - baseline

	pct := 0.0
	if baseline != 0 {
		pct = diff / baseline * percent
	}

	status := StatusNeutral

	switch {
	case diff < 0:
		status = StatusImproved
	case diff > 0:
		status = StatusDegraded
	}

	return MetricDiff{
		Baseline:   baseline,
		Comparison: comparison,
		Diff:       diff,
		Pct:        pct,
		Status:     status,
	}
}

// metricValue extracts one metric from the dynamic section of a
// serialized report. The GC collection total is derived by summing the
// per-kind collection counters before differencing.
func metricValue(rep map[string]any, section, metric string) float64 {
	dynamic, ok := rep["dynamic_analysis"].(map[string]any)
	if !ok {
		return 0
	}

	values, ok := dynamic[section].(map[string]any)
	if !ok {
		return 0
	}

	if section == "gc" && metric == "total_collections" {
		return totalCollections(values)
	}

	return numeric(values[metric])
}

func totalCollections(gc map[string]any) float64 {
	collections, ok := gc["collections"].(map[string]any)
	if !ok {
		return 0
	}

	total := 0.0
	for _, v := range collections {
		total += mathutil.ClampNonNegative(numeric(v))
	}

	return total
}

// numeric coerces the value types JSON decoding and in-memory reports
// produce.
func numeric(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return 0
	}
}
