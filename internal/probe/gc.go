package probe

import (
	"runtime"
	"runtime/debug"

	"github.com/omniprof/omniprof/pkg/mathutil"
	"github.com/omniprof/omniprof/pkg/safeconv"
)

// GCProbe measures garbage-collector activity around one execution. A
// collection is forced at entry so the baseline starts clean. Go's
// collector is not generational, so the collections map carries
// automatic/forced buckets; consumers that sum the map values (the
// comparator does) are unaffected by the bucket names.
type GCProbe struct {
	startAutomatic int64
	startForced    int64

	endAutomatic int64
	endForced    int64
	liveObjects  int64
	nextGC       int64
	complete     bool
}

// NewGCProbe creates a GC probe.
func NewGCProbe() *GCProbe {
	return &GCProbe{}
}

// Name returns the probe name.
func (p *GCProbe) Name() string {
	return "gc"
}

// Enter forces a collection and records the baseline cycle counts.
func (p *GCProbe) Enter() {
	runtime.GC()

	total, forced := readGCCounts()
	p.startAutomatic = total - forced
	p.startForced = forced
}

// Exit records the final cycle counts and heap object census.
func (p *GCProbe) Exit() {
	total, forced := readGCCounts()
	p.endAutomatic = total - forced
	p.endForced = forced

	var stats runtime.MemStats

	runtime.ReadMemStats(&stats)
	p.liveObjects = safeconv.Uint64ToInt64(stats.HeapObjects)
	p.nextGC = safeconv.Uint64ToInt64(stats.NextGC)
	p.complete = true
}

// Metrics returns collection-count deltas, the live object count, the
// collector thresholds, and the enabled flag.
func (p *GCProbe) Metrics() map[string]any {
	if !p.complete {
		return map[string]any{}
	}

	gcPercent := readGCPercent()

	return map[string]any{
		"collections": map[string]any{
			"automatic": mathutil.ClampNonNegative(p.endAutomatic - p.startAutomatic),
			"forced":    mathutil.ClampNonNegative(p.endForced - p.startForced),
		},
		"total_objects": p.liveObjects,
		"thresholds": map[string]any{
			"gc_percent":    gcPercent,
			"next_gc_bytes": p.nextGC,
		},
		"is_enabled": gcPercent >= 0,
	}
}

func readGCCounts() (total, forced int64) {
	var stats runtime.MemStats

	runtime.ReadMemStats(&stats)

	return safeconv.Uint32ToInt64(stats.NumGC), safeconv.Uint32ToInt64(stats.NumForcedGC)
}

// readGCPercent reads GOGC without changing it. SetGCPercent is the only
// accessor the runtime offers, so the value is written back immediately.
func readGCPercent() int {
	current := debug.SetGCPercent(100)
	debug.SetGCPercent(current)

	return current
}
