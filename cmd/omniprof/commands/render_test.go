package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniprof/omniprof/internal/compare"
	"github.com/omniprof/omniprof/internal/report"
	"github.com/omniprof/omniprof/internal/static"
)

func TestMain(m *testing.M) {
	color.NoColor = true

	os.Exit(m.Run())
}

func sampleReport() *report.Report {
	return &report.Report{
		Hardware: map[string]any{"cpu_count": 4},
		StaticAnalysis: &static.Result{
			Complexity: map[string]static.FunctionComplexity{
				"main": {Complexity: 2, Lineno: 1, Endline: 5, LOC: 5},
			},
			BigO:            map[string]string{"main": "O(n)"},
			Maintainability: 91.3,
		},
		DynamicAnalysis: &report.Dynamic{
			Time:   map[string]any{"wall_time": 0.5, "cpu_time": 0.25},
			Memory: map[string]any{"peak_memory": int64(1 << 20), "current_memory": int64(1 << 10)},
			GC:     map[string]any{"total_objects": int64(100)},
			Allocations: map[string]any{
				"total_size_bytes": int64(2048),
			},
			Hotspots: []string{"10 0.100000 0.100000 /work/target.go:3(main)"},
		},
	}
}

func TestWriteReport_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, writeReport(sampleReport(), path, FormatJSON))

	loaded, err := report.Load(path)
	require.NoError(t, err)
	assert.Contains(t, loaded, "dynamic_analysis")
}

func TestWriteReport_LZ4PathCompresses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json.lz4")

	require.NoError(t, writeReport(sampleReport(), path, FormatJSON))

	loaded, err := report.Load(path)
	require.NoError(t, err)
	assert.Contains(t, loaded, "static_analysis")
}

func TestWriteReport_YAMLToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")

	require.NoError(t, writeReport(sampleReport(), path, FormatYAML))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "wall_time")
	assert.Contains(t, string(data), "big_o")
}

func TestWriteReport_TextToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, writeReport(sampleReport(), path, FormatText))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)

	assert.Contains(t, text, "Execution")
	assert.Contains(t, text, "wall time")
	assert.Contains(t, text, "Hotspots")
	assert.Contains(t, text, "maintainability")
	assert.Contains(t, text, "O(n)")
}

func TestWriteReport_UnknownFormat(t *testing.T) {
	assert.Error(t, writeReport(sampleReport(), "", "xml"))
}

func TestWriteComparison_JSONShape(t *testing.T) {
	diffs := compare.Compare(map[string]any{}, map[string]any{})

	path := filepath.Join(t.TempDir(), "diff.json")

	require.NoError(t, writeComparison(diffs, path, FormatJSON))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]map[string]compare.MetricDiff

	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "time")
	assert.Contains(t, decoded["time"], "wall_time")
}

func TestWriteComparison_TextListsEveryMetric(t *testing.T) {
	diffs := compare.Compare(map[string]any{}, map[string]any{})

	path := filepath.Join(t.TempDir(), "diff.txt")

	require.NoError(t, writeComparison(diffs, path, FormatText))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)

	for _, label := range []string{
		"time.wall_time", "time.cpu_time",
		"memory.peak_memory", "memory.current_memory",
		"gc.total_objects", "gc.total_collections",
		"allocations.total_size_bytes", "allocations.total_allocations",
	} {
		assert.Contains(t, text, label)
	}
}

func TestColorStatus_KnownStatuses(t *testing.T) {
	assert.Equal(t, "improved", colorStatus(compare.StatusImproved))
	assert.Equal(t, "degraded", colorStatus(compare.StatusDegraded))
	assert.Equal(t, "neutral", colorStatus(compare.StatusNeutral))
}

func TestFormatBytes_ClampsNegative(t *testing.T) {
	assert.Equal(t, "0 B", formatBytes(-12))
	assert.True(t, strings.HasSuffix(formatBytes(1<<20), "MiB"))
}

func TestNewCommands_Construct(t *testing.T) {
	assert.Equal(t, "profile <file>", NewProfileCommand().Use)
	assert.Equal(t, "repo <directory>", NewRepoCommand().Use)
	assert.Equal(t, "compare <baseline> <comparison>", NewCompareCommand().Use)
}
