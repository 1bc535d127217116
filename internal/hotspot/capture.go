// Package hotspot turns a profile of the measured run into ranked hotspot
// summaries, a sample-weighted call tree, and per-function line-level
// timing detail.
package hotspot

import (
	"bytes"
	"fmt"
	"io"
	"runtime/pprof"

	"github.com/google/pprof/profile"
)

// CPUProfiler abstracts CPU profiling so tests can substitute a fake.
type CPUProfiler interface {
	Start(w io.Writer) error
	Stop()
}

// runtimeProfiler delegates to runtime/pprof.
type runtimeProfiler struct{}

func (runtimeProfiler) Start(w io.Writer) error {
	return pprof.StartCPUProfile(w)
}

func (runtimeProfiler) Stop() {
	pprof.StopCPUProfile()
}

// Capture is an in-flight CPU profile of one measured run.
type Capture struct {
	profiler CPUProfiler
	buf      bytes.Buffer
	stopped  bool
}

// StartCapture begins profiling into memory. It fails when another CPU
// profile is already active; callers degrade to an empty hotspot section.
func StartCapture() (*Capture, error) {
	return startCaptureWith(runtimeProfiler{})
}

func startCaptureWith(profiler CPUProfiler) (*Capture, error) {
	c := &Capture{profiler: profiler}

	err := profiler.Start(&c.buf)
	if err != nil {
		return nil, fmt.Errorf("start cpu profile: %w", err)
	}

	return c, nil
}

// Stop ends profiling and parses the collected profile. Stop is
// idempotent; the profile of the first call is not retained afterwards.
func (c *Capture) Stop() (*profile.Profile, error) {
	if c.stopped {
		return nil, fmt.Errorf("capture already stopped")
	}

	c.profiler.Stop()
	c.stopped = true

	parsed, err := profile.Parse(&c.buf)
	if err != nil {
		return nil, fmt.Errorf("parse cpu profile: %w", err)
	}

	return parsed, nil
}
