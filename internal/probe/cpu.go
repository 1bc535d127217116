package probe

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/omniprof/omniprof/pkg/mathutil"
)

// procStatusPath exposes the fallback context-switch counters.
const procStatusPath = "/proc/self/status"

// cpuReading is one snapshot of the process CPU accounting state.
type cpuReading struct {
	userTime    float64
	systemTime  float64
	voluntary   int64
	involuntary int64
	valid       bool
}

// CPUProbe measures user/system CPU time and context-switch deltas around
// one execution. Readings come from the POSIX rusage API; when rusage is
// unavailable the context-switch counters fall back to /proc/self/status.
type CPUProbe struct {
	start    cpuReading
	end      cpuReading
	complete bool
}

// NewCPUProbe creates a CPU probe.
func NewCPUProbe() *CPUProbe {
	return &CPUProbe{}
}

// Name returns the probe name.
func (p *CPUProbe) Name() string {
	return "cpu"
}

// Enter records the CPU accounting baseline.
func (p *CPUProbe) Enter() {
	p.start = readCPU()
}

// Exit records the final CPU accounting state.
func (p *CPUProbe) Exit() {
	p.end = readCPU()
	p.complete = true
}

// Metrics returns user/system time deltas in seconds and non-negative
// context-switch deltas. An empty mapping is returned before a completed
// Enter/Exit cycle or when both snapshots failed.
func (p *CPUProbe) Metrics() map[string]any {
	if !p.complete || !p.start.valid || !p.end.valid {
		return map[string]any{}
	}

	return map[string]any{
		"user_time":   mathutil.ClampNonNegative(p.end.userTime - p.start.userTime),
		"system_time": mathutil.ClampNonNegative(p.end.systemTime - p.start.systemTime),
		"context_switches": map[string]any{
			"voluntary":   mathutil.ClampNonNegative(p.end.voluntary - p.start.voluntary),
			"involuntary": mathutil.ClampNonNegative(p.end.involuntary - p.start.involuntary),
		},
	}
}

func readCPU() cpuReading {
	var usage unix.Rusage

	err := unix.Getrusage(unix.RUSAGE_SELF, &usage)
	if err != nil {
		vol, invol, statusErr := procStatusContextSwitches()
		if statusErr != nil {
			return cpuReading{}
		}

		return cpuReading{voluntary: vol, involuntary: invol, valid: true}
	}

	return cpuReading{
		userTime:    timevalSeconds(usage.Utime),
		systemTime:  timevalSeconds(usage.Stime),
		voluntary:   usage.Nvcsw,
		involuntary: usage.Nivcsw,
		valid:       true,
	}
}

// processCPUSeconds returns combined user+system CPU time for this process.
// Used by TimeProbe as its process-CPU-time clock.
func processCPUSeconds() float64 {
	var usage unix.Rusage

	err := unix.Getrusage(unix.RUSAGE_SELF, &usage)
	if err != nil {
		return 0
	}

	return timevalSeconds(usage.Utime) + timevalSeconds(usage.Stime)
}

func timevalSeconds(tv unix.Timeval) float64 {
	return float64(tv.Sec) + float64(tv.Usec)/1e6
}

func procStatusContextSwitches() (voluntary, involuntary int64, err error) {
	file, err := os.Open(procStatusPath)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "voluntary_ctxt_switches:"):
			voluntary = parseStatusCounter(line)
		case strings.HasPrefix(line, "nonvoluntary_ctxt_switches:"):
			involuntary = parseStatusCounter(line)
		}
	}

	return voluntary, involuntary, scanner.Err()
}

func parseStatusCounter(line string) int64 {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0
	}

	value, err := strconv.ParseInt(fields[len(fields)-1], 10, 64)
	if err != nil {
		return 0
	}

	return value
}
