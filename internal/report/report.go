// Package report defines the profiling report shape shared by all
// profiling modes and its serialization to disk.
package report

import (
	"github.com/omniprof/omniprof/internal/hotspot"
	"github.com/omniprof/omniprof/internal/sampling"
	"github.com/omniprof/omniprof/internal/static"
)

// Report is the top-level result of one profiling run. Modes that skip a
// phase leave the corresponding section nil and it is omitted from the
// serialized form.
type Report struct {
	Hardware        map[string]any     `json:"hardware,omitempty"`
	StaticAnalysis  *static.Result     `json:"static_analysis,omitempty"`
	DynamicAnalysis *Dynamic           `json:"dynamic_analysis,omitempty"`
	ScaleneAnalysis map[string]any     `json:"scalene_analysis,omitempty"`
	Files           map[string]*Report `json:"files,omitempty"`
	Summary         map[string]any     `json:"summary,omitempty"`
}

// Dynamic holds the runtime measurements of one execution. The metric
// sections mirror the probe outputs keyed exactly as the probes emit
// them, so comparator arithmetic works on serialized reports without a
// schema translation step.
type Dynamic struct {
	Time        map[string]any `json:"time,omitempty"`
	Memory      map[string]any `json:"memory,omitempty"`
	IO          map[string]any `json:"io,omitempty"`
	GC          map[string]any `json:"gc,omitempty"`
	CPU         map[string]any `json:"cpu,omitempty"`
	Allocations map[string]any `json:"allocations,omitempty"`

	Hotspots     []string                           `json:"hotspots,omitempty"`
	CallTree     *hotspot.TreeNode                  `json:"call_tree,omitempty"`
	LineProfiles map[string]hotspot.FunctionProfile `json:"line_profiles,omitempty"`

	ReturnValue any                 `json:"return_value,omitempty"`
	Error       string              `json:"error,omitempty"`
	Scalene     *sampling.Aggregate `json:"scalene,omitempty"`
}

// SetProbeMetrics distributes the probe set output into the named metric
// sections. Probe names that have no section are ignored.
func (d *Dynamic) SetProbeMetrics(metrics map[string]map[string]any) {
	for name, section := range metrics {
		switch name {
		case "time":
			d.Time = section
		case "memory":
			d.Memory = section
		case "io":
			d.IO = section
		case "gc":
			d.GC = section
		case "cpu":
			d.CPU = section
		case "allocations":
			d.Allocations = section
		}
	}
}
