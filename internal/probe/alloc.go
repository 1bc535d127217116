package probe

import (
	"fmt"
	"math"
	"runtime"
	"sort"
	"strings"

	"github.com/omniprof/omniprof/pkg/mathutil"
)

// allocSnapshotSlack pads the record buffer so sites allocated between the
// two MemProfile calls still fit.
const allocSnapshotSlack = 64

// bytesPerKB converts byte sizes for the human-oriented fields.
const bytesPerKB = 1024

// siteStat accumulates allocation bytes and counts for one file:line site.
type siteStat struct {
	site  string
	bytes int64
	count int64
}

// AllocationProbe captures a snapshot-based breakdown of allocations by
// site (file:line). It diffs the runtime allocation profile between entry
// and exit, reporting the top sites by size plus totals across all sites.
type AllocationProbe struct {
	tracer  *Tracer
	topN    int
	started bool

	baseline map[string]siteStat
	sites    []siteStat
	complete bool
}

// NewAllocationProbe creates an allocation probe reporting the topN sites.
func NewAllocationProbe(tracer *Tracer, topN int) *AllocationProbe {
	if topN <= 0 {
		topN = 10
	}

	return &AllocationProbe{tracer: tracer, topN: topN}
}

// Name returns the probe name.
func (p *AllocationProbe) Name() string {
	return "allocations"
}

// Enter activates the tracer if needed and snapshots the current profile.
func (p *AllocationProbe) Enter() {
	p.started = !p.tracer.Active()
	if p.started {
		p.tracer.Activate()
	}

	p.baseline = snapshotAllocSites()
}

// Exit snapshots again, keeps the per-site deltas, and releases the tracer
// only if this probe activated it.
func (p *AllocationProbe) Exit() {
	final := snapshotAllocSites()

	p.sites = p.sites[:0]
	for site, stat := range final {
		base := p.baseline[site]

		delta := siteStat{
			site:  site,
			bytes: mathutil.ClampNonNegative(stat.bytes - base.bytes),
			count: mathutil.ClampNonNegative(stat.count - base.count),
		}
		if delta.bytes > 0 || delta.count > 0 {
			p.sites = append(p.sites, delta)
		}
	}

	sort.Slice(p.sites, func(i, j int) bool {
		if p.sites[i].bytes != p.sites[j].bytes {
			return p.sites[i].bytes > p.sites[j].bytes
		}

		return p.sites[i].site < p.sites[j].site
	})

	p.complete = true

	if p.started {
		p.tracer.Release()
		p.started = false
	}
}

// Metrics returns the top allocation sites by size and totals across all
// sites recorded during the measured run.
func (p *AllocationProbe) Metrics() map[string]any {
	if !p.complete {
		return map[string]any{}
	}

	var totalSize, totalCount int64

	topAllocators := make([]map[string]any, 0, mathutil.Min(p.topN, len(p.sites)))

	for i, stat := range p.sites {
		totalSize += stat.bytes
		totalCount += stat.count

		if i < p.topN {
			topAllocators = append(topAllocators, map[string]any{
				"file":       stat.site,
				"size_bytes": stat.bytes,
				"size_kb":    roundTo(float64(stat.bytes)/bytesPerKB, 2),
				"count":      stat.count,
			})
		}
	}

	return map[string]any{
		"top_allocators":   topAllocators,
		"total_size_bytes": totalSize,
		"total_size_mb":    roundTo(float64(totalSize)/bytesPerKB/bytesPerKB, 2),
		"total_allocations": totalCount,
	}
}

// snapshotAllocSites aggregates the cumulative runtime allocation profile
// by the innermost non-runtime frame of each record's stack.
func snapshotAllocSites() map[string]siteStat {
	records := fetchMemProfile()
	sites := make(map[string]siteStat)

	for i := range records {
		rec := &records[i]

		site := recordSite(rec)
		stat := sites[site]
		stat.site = site
		stat.bytes += rec.AllocBytes
		stat.count += rec.AllocObjects
		sites[site] = stat
	}

	return sites
}

func fetchMemProfile() []runtime.MemProfileRecord {
	n, _ := runtime.MemProfile(nil, true)

	for {
		records := make([]runtime.MemProfileRecord, n+allocSnapshotSlack)

		written, ok := runtime.MemProfile(records, true)
		if ok {
			return records[:written]
		}

		n = written
	}
}

func recordSite(rec *runtime.MemProfileRecord) string {
	frames := runtime.CallersFrames(rec.Stack())

	fallback := ""
	for {
		frame, more := frames.Next()
		if frame.File != "" && fallback == "" {
			fallback = fmt.Sprintf("%s:%d", frame.File, frame.Line)
		}

		if frame.File != "" && !strings.Contains(frame.File, "/runtime/") {
			return fmt.Sprintf("%s:%d", frame.File, frame.Line)
		}

		if !more {
			break
		}
	}

	if fallback == "" {
		return "unknown"
	}

	return fallback
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))

	return math.Round(v*factor) / factor
}
