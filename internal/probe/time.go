package probe

import (
	"time"

	"github.com/omniprof/omniprof/pkg/mathutil"
)

// TimeProbe measures wall-clock time via the monotonic clock and process
// CPU time via the rusage clock. With sample tracking enabled it
// accumulates wall-time samples across repeated measured calls so latency
// percentiles can be derived.
type TimeProbe struct {
	trackSamples bool
	entered      bool
	complete     bool

	startWall time.Time
	wallTime  float64
	startCPU  float64
	cpuTime   float64

	samples []float64
}

// NewTimeProbe creates a time probe. trackSamples enables percentile
// accumulation across repeated Enter/Exit cycles.
func NewTimeProbe(trackSamples bool) *TimeProbe {
	return &TimeProbe{trackSamples: trackSamples}
}

// Name returns the probe name.
func (p *TimeProbe) Name() string {
	return "time"
}

// Enter records the wall-clock and CPU-time baselines.
func (p *TimeProbe) Enter() {
	p.startWall = time.Now()
	p.startCPU = processCPUSeconds()
	p.entered = true
}

// Exit records the final readings and derives the deltas.
func (p *TimeProbe) Exit() {
	if !p.entered {
		return
	}

	p.wallTime = time.Since(p.startWall).Seconds()
	p.cpuTime = mathutil.ClampNonNegative(processCPUSeconds() - p.startCPU)
	p.complete = true
	p.entered = false

	if p.trackSamples {
		p.samples = append(p.samples, p.wallTime)
	}
}

// Metrics returns wall and CPU time in seconds, plus latency percentiles
// when sample tracking collected at least one sample.
func (p *TimeProbe) Metrics() map[string]any {
	if !p.complete {
		return map[string]any{}
	}

	metrics := map[string]any{
		"wall_time": p.wallTime,
		"cpu_time":  p.cpuTime,
	}

	if len(p.samples) > 0 {
		metrics["percentiles"] = map[string]any{
			"p50":  mathutil.Percentile(p.samples, 50),
			"p95":  mathutil.Percentile(p.samples, 95),
			"p99":  mathutil.Percentile(p.samples, 99),
			"min":  mathutil.Percentile(p.samples, 0),
			"max":  mathutil.Percentile(p.samples, 100),
			"mean": mathutil.Mean(p.samples),
			"std":  mathutil.Std(p.samples),
		}
	}

	return metrics
}
