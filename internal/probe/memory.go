package probe

import (
	"runtime"

	"github.com/omniprof/omniprof/pkg/mathutil"
	"github.com/omniprof/omniprof/pkg/safeconv"
)

// MemoryProbe measures heap memory deltas around one execution using the
// allocation tracer handle. current_memory is the live-heap growth during
// the run, peak_memory the total bytes allocated during it. Freed memory
// must never produce negative deltas, so both values are clamped.
type MemoryProbe struct {
	tracer  *Tracer
	started bool

	baselineCurrent int64
	baselinePeak    int64
	currentMemory   int64
	peakMemory      int64
	complete        bool
}

// NewMemoryProbe creates a memory probe backed by the given tracer handle.
func NewMemoryProbe(tracer *Tracer) *MemoryProbe {
	return &MemoryProbe{tracer: tracer}
}

// Name returns the probe name.
func (p *MemoryProbe) Name() string {
	return "memory"
}

// Enter activates the tracer if it is not already active, recording
// whether this probe was the one that started it, and takes the baseline.
func (p *MemoryProbe) Enter() {
	p.started = !p.tracer.Active()
	if p.started {
		p.tracer.Activate()
	}

	p.baselineCurrent, p.baselinePeak = readHeap()
}

// Exit takes the final reading, derives the clamped deltas, and releases
// the tracer only if this probe activated it.
func (p *MemoryProbe) Exit() {
	current, peak := readHeap()

	p.currentMemory = mathutil.ClampNonNegative(current - p.baselineCurrent)
	p.peakMemory = max(peak, p.baselinePeak) - p.baselinePeak
	p.complete = true

	if p.started {
		p.tracer.Release()
		p.started = false
	}
}

// Metrics returns the memory deltas in bytes.
func (p *MemoryProbe) Metrics() map[string]any {
	if !p.complete {
		return map[string]any{}
	}

	return map[string]any{
		"current_memory": p.currentMemory,
		"peak_memory":    p.peakMemory,
	}
}

// readHeap returns the live heap size and the monotonic total-allocated
// counter. The latter stands in for a peak reading: its delta is the exact
// number of bytes the measured run allocated.
func readHeap() (current, peak int64) {
	var stats runtime.MemStats

	runtime.ReadMemStats(&stats)

	return safeconv.Uint64ToInt64(stats.HeapAlloc), safeconv.Uint64ToInt64(stats.TotalAlloc)
}
