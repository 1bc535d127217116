// Package hardware collects a host snapshot that is attached to every
// profiling report so results can be interpreted in context.
package hardware

import (
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

// Detect returns a description of the host the profiler runs on. Fields
// that cannot be determined are omitted rather than reported as zero.
func Detect() map[string]any {
	info := map[string]any{
		"cpu_count":    runtime.NumCPU(),
		"architecture": runtime.GOARCH,
		"os":           runtime.GOOS,
		"go_version":   runtime.Version(),
	}

	if hostname, err := os.Hostname(); err == nil {
		info["hostname"] = hostname
	}

	var si unix.Sysinfo_t
	if err := unix.Sysinfo(&si); err == nil {
		info["total_memory_bytes"] = uint64(si.Totalram) * uint64(si.Unit)
	}

	return info
}
