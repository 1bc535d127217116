// Package runner executes submitted Go source text in-process under an
// embedded interpreter, with output capture, a mocked input hook,
// cooperative timeout checks, and a clean exit signal. It powers the
// measured pass of dynamic profiling; probes wrap calls into this package.
package runner

import (
	"reflect"
	"time"
)

// SourceUnit describes one program submission. It is immutable once
// profiling starts.
type SourceUnit struct {
	// Source is the program text to execute.
	Source string

	// Path is the optional origin path of the source, used for reporting.
	Path string

	// WorkDir optionally roots the execution in another directory. The
	// process working directory is restored on every exit path.
	WorkDir string

	// MockInputs feed the input hook in order; the final value repeats
	// once the sequence is exhausted.
	MockInputs []string

	// Timeout bounds wall-clock execution, checked cooperatively at each
	// input-hook invocation.
	Timeout time.Duration

	// WarmupRuns is the number of discarded passes before measurement.
	WarmupRuns int
}

// Callable is a user-defined top-level function discovered after
// execution, returned as an explicit typed entry rather than leaving
// callers to introspect an arbitrary namespace object.
type Callable struct {
	Name      string
	StartLine int
	EndLine   int
	Value     reflect.Value
}

// ExecutionResult captures everything observable from one measured run.
// Exactly one ExecutionResult exists per measured run; warm-up passes
// produce none.
type ExecutionResult struct {
	// Stdout and Stderr hold the captured program output; nothing leaks
	// to the host streams.
	Stdout string
	Stderr string

	// Callables lists the discovered user-defined top-level functions.
	Callables []Callable

	// ReturnValue is the raw value of the final evaluated expression, if
	// any. Sanitization to report-safe data happens at aggregation time.
	ReturnValue any

	// Err holds the raised-error string when the program failed or timed
	// out. Execution errors never propagate to the caller.
	Err string
}
