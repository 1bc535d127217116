package orchestrator

import (
	"context"
	"fmt"
	"reflect"

	"github.com/omniprof/omniprof/internal/hotspot"
	"github.com/omniprof/omniprof/internal/probe"
	"github.com/omniprof/omniprof/internal/report"
	"github.com/omniprof/omniprof/internal/runner"
)

// ProfileFunction profiles one named top-level function of the source: the
// source is evaluated to bind its declarations, then the single call is
// measured with the full probe set. Only zero-parameter functions can be
// called this way; anything else is reported as an error, not a failure.
func (o *Orchestrator) ProfileFunction(ctx context.Context, source, funcName, workDir string, opts Options) *report.Report {
	rep := &report.Report{Hardware: o.hardware}

	staticResult := o.analyzer.Analyze(source)
	rep.StaticAnalysis = &staticResult

	unit := runner.SourceUnit{
		Source:     source,
		WorkDir:    workDir,
		MockInputs: o.mockInputs(opts),
		Timeout:    o.cfg.Profile.Timeout(),
		WarmupRuns: o.cfg.Profile.WarmupRuns,
	}

	setup := o.runner.Execute(unit)
	if setup.Err != "" {
		rep.DynamicAnalysis = &report.Dynamic{Error: fmt.Sprintf("evaluate source: %s", setup.Err)}

		return rep
	}

	target, found := findCallable(setup.Callables, funcName)
	if !found {
		rep.DynamicAnalysis = &report.Dynamic{Error: fmt.Sprintf("function %q not found", funcName)}

		return rep
	}

	if target.Value.Type().NumIn() > 0 {
		rep.DynamicAnalysis = &report.Dynamic{
			Error: fmt.Sprintf("function %q requires %d arguments", funcName, target.Value.Type().NumIn()),
		}

		return rep
	}

	rep.DynamicAnalysis = o.measureCall(target)

	return rep
}

// measureCall wraps the single reflective call with the probe set and CPU
// capture. A panic raised by the target is captured as the run error.
func (o *Orchestrator) measureCall(target runner.Callable) *report.Dynamic {
	probes := probe.NewSet(
		probe.NewTimeProbe(false),
		probe.NewCPUProbe(),
		probe.NewMemoryProbe(o.tracer),
		probe.NewGCProbe(),
		probe.NewIOProbe(),
		probe.NewAllocationProbe(o.tracer, o.cfg.Profile.TopAllocators),
	)

	capture, capErr := hotspot.StartCapture()
	if capErr != nil {
		o.logger.Warn("cpu capture unavailable", "error", capErr)
	}

	var (
		results []reflect.Value
		callErr string
	)

	probes.Around(func() {
		defer func() {
			rec := recover()
			if rec != nil {
				callErr = fmt.Sprintf("panic: %v", rec)
			}
		}()

		results = target.Value.Call(nil)
	})

	dyn := &report.Dynamic{Error: callErr}
	dyn.SetProbeMetrics(probes.Metrics())

	if len(results) > 0 && results[0].CanInterface() {
		dyn.ReturnValue = report.SanitizeValue(results[0].Interface())
	}

	if capture != nil {
		prof, stopErr := capture.Stop()
		if stopErr != nil {
			o.logger.Warn("cpu profile parse failed", "error", stopErr)
		} else {
			dyn.Hotspots = hotspot.TopFunctions(prof, o.cfg.Profile.HotspotLimit)
			dyn.CallTree = hotspot.CallTree(prof)
			dyn.LineProfiles = hotspot.LineProfiles(prof, callableFilter([]runner.Callable{target}))
		}
	}

	return dyn
}

func findCallable(callables []runner.Callable, name string) (runner.Callable, bool) {
	for _, c := range callables {
		if c.Name == name && c.Value.IsValid() && c.Value.Kind() == reflect.Func {
			return c, true
		}
	}

	return runner.Callable{}, false
}
