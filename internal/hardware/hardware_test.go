package hardware_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniprof/omniprof/internal/hardware"
)

func TestDetect_ReportsHostBasics(t *testing.T) {
	t.Parallel()

	info := hardware.Detect()

	assert.Equal(t, runtime.NumCPU(), info["cpu_count"])
	assert.Equal(t, runtime.GOARCH, info["architecture"])
	assert.Equal(t, runtime.GOOS, info["os"])
	assert.Equal(t, runtime.Version(), info["go_version"])
}

func TestDetect_TotalMemoryPositiveOnLinux(t *testing.T) {
	t.Parallel()

	if runtime.GOOS != "linux" {
		t.Skip("sysinfo is linux-only")
	}

	info := hardware.Detect()

	total, ok := info["total_memory_bytes"].(uint64)
	require.True(t, ok)
	assert.Positive(t, total)
}
