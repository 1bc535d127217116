// Package probe hosts the instrumentation probes that wrap one measured
// execution of a target program. Each probe is a start/stop/read scoped unit:
// it records a baseline on Enter, a final reading on Exit, and derives its
// metrics purely from the two. Probes never return errors; on internal
// failure they degrade to an empty metrics mapping.
package probe

// Probe is a scoped instrumentation unit measuring one resource dimension.
//
// The contract every implementation must honor:
//   - Enter and Exit are strictly symmetric: every Enter is matched by
//     exactly one Exit on every control-flow path.
//   - Metrics called before Enter/Exit completed returns an empty mapping.
//   - Metrics is a pure function of the entry baseline and exit reading.
type Probe interface {
	Name() string
	Enter()
	Exit()
	Metrics() map[string]any
}

// Set composes independent probes around the same single execution.
type Set struct {
	probes []Probe
}

// NewSet creates a probe set. Probes are entered in the given order and
// exited in reverse, nesting all of them around one measured call.
func NewSet(probes ...Probe) *Set {
	return &Set{probes: probes}
}

// Around runs fn with every probe entered before the call and exited after
// it. Exits are guaranteed on every path, including panics raised by fn.
func (s *Set) Around(fn func()) {
	for _, p := range s.probes {
		p.Enter()
		defer p.Exit()
	}

	fn()
}

// Metrics collects the metrics of every probe keyed by probe name.
func (s *Set) Metrics() map[string]map[string]any {
	out := make(map[string]map[string]any, len(s.probes))
	for _, p := range s.probes {
		out[p.Name()] = p.Metrics()
	}

	return out
}
