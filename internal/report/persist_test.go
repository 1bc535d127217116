package report_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniprof/omniprof/internal/report"
)

func sampleReport() *report.Report {
	return &report.Report{
		Hardware: map[string]any{"cpu_count": 8},
		DynamicAnalysis: &report.Dynamic{
			Time:   map[string]any{"wall_time": 1.25, "cpu_time": 0.5},
			Memory: map[string]any{"peak_memory": int64(2048), "current_memory": int64(512)},
		},
	}
}

func TestSaveLoad_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.json")

	require.NoError(t, report.Save(path, sampleReport()))

	loaded, err := report.Load(path)
	require.NoError(t, err)

	dynamic, ok := loaded["dynamic_analysis"].(map[string]any)
	require.True(t, ok)

	timeSection, ok := dynamic["time"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 1.25, timeSection["wall_time"], 1e-9)
}

func TestSaveLoad_LZ4RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.json.lz4")

	require.NoError(t, report.Save(path, sampleReport()))

	loaded, err := report.Load(path)
	require.NoError(t, err)

	hardware, ok := loaded["hardware"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 8, hardware["cpu_count"], 1e-9)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := report.Load(filepath.Join(t.TempDir(), "absent.json"))

	assert.Error(t, err)
}

func TestReport_EmptySectionsOmitted(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bare.json")

	require.NoError(t, report.Save(path, &report.Report{}))

	loaded, err := report.Load(path)
	require.NoError(t, err)

	assert.NotContains(t, loaded, "dynamic_analysis")
	assert.NotContains(t, loaded, "static_analysis")
	assert.NotContains(t, loaded, "files")
}
