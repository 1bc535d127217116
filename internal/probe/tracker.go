package probe

import "runtime"

// Tracer is an explicit capability handle over the process-wide allocation
// tracer (runtime.MemProfileRate). The rate is ambient global state, so the
// handle reference-counts activation: the first Activate lowers the rate to
// the configured sampling interval, the last Release restores the previous
// rate. Probes record whether they activated the handle and release only
// what they acquired, which keeps nested probe sets from corrupting each
// other's readings.
type Tracer struct {
	rate      int
	savedRate int
	refs      int
}

// NewTracer creates a tracer handle that samples one allocation per `rate`
// bytes while active. A rate of 1 records every allocation site.
func NewTracer(rate int) *Tracer {
	if rate <= 0 {
		rate = 1
	}

	return &Tracer{rate: rate}
}

// Active reports whether any holder currently keeps the tracer activated.
func (t *Tracer) Active() bool {
	return t.refs > 0
}

// Activate acquires the tracer, lowering the runtime profile rate on the
// first acquisition.
func (t *Tracer) Activate() {
	if t.refs == 0 {
		t.savedRate = runtime.MemProfileRate
		runtime.MemProfileRate = t.rate
	}

	t.refs++
}

// Release returns the tracer, restoring the previous runtime profile rate
// on the last release. Releasing an inactive tracer is a no-op.
func (t *Tracer) Release() {
	if t.refs == 0 {
		return
	}

	t.refs--
	if t.refs == 0 {
		runtime.MemProfileRate = t.savedRate
	}
}
