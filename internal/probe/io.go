package probe

import (
	"os"
	"strconv"
	"strings"

	"github.com/omniprof/omniprof/pkg/mathutil"
)

// procIOPath exposes per-process I/O accounting on Linux.
const procIOPath = "/proc/self/io"

// ioReading is one snapshot of the process I/O counters.
type ioReading struct {
	readBytes  int64
	writeBytes int64
	readCount  int64
	writeCount int64
	valid      bool
}

// IOProbe measures read/write byte and syscall deltas around one
// execution. On platforms without /proc/self/io it degrades to zeros.
type IOProbe struct {
	start    ioReading
	end      ioReading
	complete bool
}

// NewIOProbe creates an I/O probe.
func NewIOProbe() *IOProbe {
	return &IOProbe{}
}

// Name returns the probe name.
func (p *IOProbe) Name() string {
	return "io"
}

// Enter records the I/O counter baseline.
func (p *IOProbe) Enter() {
	p.start = readIOCounters()
}

// Exit records the final I/O counters.
func (p *IOProbe) Exit() {
	p.end = readIOCounters()
	p.complete = true
}

// Metrics returns the I/O deltas, zeros when counters were unavailable.
func (p *IOProbe) Metrics() map[string]any {
	if !p.complete {
		return map[string]any{}
	}

	metrics := map[string]any{
		"read_bytes":  int64(0),
		"write_bytes": int64(0),
		"read_count":  int64(0),
		"write_count": int64(0),
	}

	if p.start.valid && p.end.valid {
		metrics["read_bytes"] = mathutil.ClampNonNegative(p.end.readBytes - p.start.readBytes)
		metrics["write_bytes"] = mathutil.ClampNonNegative(p.end.writeBytes - p.start.writeBytes)
		metrics["read_count"] = mathutil.ClampNonNegative(p.end.readCount - p.start.readCount)
		metrics["write_count"] = mathutil.ClampNonNegative(p.end.writeCount - p.start.writeCount)
	}

	return metrics
}

func readIOCounters() ioReading {
	data, err := os.ReadFile(procIOPath)
	if err != nil {
		return ioReading{}
	}

	reading := ioReading{valid: true}

	for _, line := range strings.Split(string(data), "\n") {
		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}

		parsed, parseErr := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if parseErr != nil {
			continue
		}

		switch name {
		case "read_bytes":
			reading.readBytes = parsed
		case "write_bytes":
			reading.writeBytes = parsed
		case "syscr":
			reading.readCount = parsed
		case "syscw":
			reading.writeCount = parsed
		}
	}

	return reading
}
