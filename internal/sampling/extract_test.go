package sampling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniprof/omniprof/internal/sampling"
)

func samplePayload() map[string]any {
	return map[string]any{
		"files": map[string]any{
			"target.go": map[string]any{
				"lines": []any{
					map[string]any{
						"lineno":               1.0,
						"n_cpu_percent_python": 10.0,
						"n_cpu_percent_c":      5.0,
						"n_sys_percent":        1.0,
						"n_copy_mb_s":          0.5,
					},
					map[string]any{
						"lineno":               2.0,
						"n_cpu_percent_python": 20.0,
						"n_cpu_percent_c":      2.5,
						"n_sys_percent":        0.5,
						"n_copy_mb_s":          1.5,
						"leaks": map[string]any{
							"alloc": []any{0.9, 12.0},
						},
					},
				},
			},
		},
	}
}

func TestExtractMetrics_SumsPerLineBreakdown(t *testing.T) {
	t.Parallel()

	agg := sampling.ExtractMetrics(samplePayload())

	require.NotNil(t, agg)
	assert.InDelta(t, 30.0, agg.CPUBreakdown.Interpreted, 1e-9)
	assert.InDelta(t, 7.5, agg.CPUBreakdown.Native, 1e-9)
	assert.InDelta(t, 1.5, agg.CPUBreakdown.System, 1e-9)
	assert.InDelta(t, 2.0, agg.MemoryCopyMBs, 1e-9)
}

func TestExtractMetrics_CollectsLeaks(t *testing.T) {
	t.Parallel()

	agg := sampling.ExtractMetrics(samplePayload())

	require.NotNil(t, agg)
	require.Len(t, agg.Leaks, 1)
	assert.Equal(t, "target.go", agg.Leaks[0].File)
	assert.Equal(t, 2, agg.Leaks[0].Line)
	assert.InDelta(t, 0.9, agg.Leaks[0].Likelihood, 1e-9)
}

func TestExtractMetrics_ErrorPayloadYieldsNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, sampling.ExtractMetrics(map[string]any{"error": "sampler timed out"}))
	assert.Nil(t, sampling.ExtractMetrics(nil))
	assert.Nil(t, sampling.ExtractMetrics(map[string]any{"version": "1.0"}))
}

func TestExtractMetrics_MalformedLinesSkipped(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"files": map[string]any{
			"broken.go": map[string]any{"lines": []any{"not a map", 42}},
			"plain.go":  "not a map either",
		},
	}

	agg := sampling.ExtractMetrics(payload)

	require.NotNil(t, agg)
	assert.Zero(t, agg.CPUBreakdown.Interpreted)
	assert.Empty(t, agg.Leaks)
}
