// Package orchestrator coordinates the profiling phases: static analysis,
// the optional external sampling profiler, and the instrumented dynamic
// pass. Each phase contributes its section of the report independently; a
// failing phase degrades its own section and never aborts the run.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/omniprof/omniprof/internal/config"
	"github.com/omniprof/omniprof/internal/hardware"
	"github.com/omniprof/omniprof/internal/hotspot"
	"github.com/omniprof/omniprof/internal/probe"
	"github.com/omniprof/omniprof/internal/report"
	"github.com/omniprof/omniprof/internal/runner"
	"github.com/omniprof/omniprof/internal/sampling"
	"github.com/omniprof/omniprof/internal/static"
)

// Orchestrator owns the long-lived profiling components and runs the
// per-target phases.
type Orchestrator struct {
	cfg      *config.Config
	logger   *slog.Logger
	analyzer *static.Analyzer
	runner   *runner.Runner
	sampler  *sampling.Profiler
	tracer   *probe.Tracer
	hardware map[string]any
}

// Options selects the optional phases of one profiling run.
type Options struct {
	// MockInputs overrides the configured input sequence when non-nil.
	MockInputs []string
	// Sampling also runs the external sampling profiler.
	Sampling bool
}

// New creates an orchestrator from the given configuration.
func New(cfg *config.Config, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		cfg:      cfg,
		logger:   logger,
		analyzer: static.NewAnalyzer(logger),
		runner:   runner.NewRunner(logger),
		sampler:  sampling.NewProfiler(cfg.Sampling.Command, cfg.Sampling.Args, cfg.Sampling.Timeout(), logger),
		tracer:   probe.NewTracer(cfg.Tracer.MemProfileRate),
		hardware: hardware.Detect(),
	}
}

// ProfileSource profiles a source text end to end: static metrics, the
// optional sampling pass, warm-up runs, and the measured instrumented
// execution.
func (o *Orchestrator) ProfileSource(ctx context.Context, source, workDir string, opts Options) *report.Report {
	rep := &report.Report{Hardware: o.hardware}

	staticResult := o.analyzer.Analyze(source)
	rep.StaticAnalysis = &staticResult

	inputs := o.mockInputs(opts)

	if opts.Sampling {
		rep.ScaleneAnalysis = o.runSampling(ctx, source, workDir, inputs)
	}

	unit := runner.SourceUnit{
		Source:     source,
		WorkDir:    workDir,
		MockInputs: inputs,
		Timeout:    o.cfg.Profile.Timeout(),
		WarmupRuns: o.cfg.Profile.WarmupRuns,
	}

	rep.DynamicAnalysis = o.runDynamic(unit)
	rep.DynamicAnalysis.Scalene = sampling.ExtractMetrics(rep.ScaleneAnalysis)

	return rep
}

// ProfileFile profiles the program stored at path. Reading the file is
// the only fatal failure; everything past that degrades per phase.
func (o *Orchestrator) ProfileFile(ctx context.Context, path string, opts Options) (*report.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read target file: %w", err)
	}

	return o.ProfileSource(ctx, string(data), filepath.Dir(path), opts), nil
}

// runDynamic performs the warm-ups and the single measured execution with
// the full probe set and CPU capture around it.
func (o *Orchestrator) runDynamic(unit runner.SourceUnit) *report.Dynamic {
	o.runner.Warmup(unit)

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

	var result *runner.ExecutionResult

	probes.Around(func() {
		result = o.runner.Execute(unit)
	})

	dyn := &report.Dynamic{}
	dyn.SetProbeMetrics(probes.Metrics())
	dyn.ReturnValue = report.SanitizeValue(result.ReturnValue)
	dyn.Error = result.Err

	if capture != nil {
		prof, stopErr := capture.Stop()
		if stopErr != nil {
			o.logger.Warn("cpu profile parse failed", "error", stopErr)
		} else {
			dyn.Hotspots = hotspot.TopFunctions(prof, o.cfg.Profile.HotspotLimit)
			dyn.CallTree = hotspot.CallTree(prof)
			dyn.LineProfiles = hotspot.LineProfiles(prof, callableFilter(result.Callables))
		}
	}

	return dyn
}

// runSampling writes the source to a scratch script and hands it to the
// external profiler. The payload is returned as-is, including its error
// shape on failure.
func (o *Orchestrator) runSampling(ctx context.Context, source, workDir string, inputs []string) map[string]any {
	script, err := os.CreateTemp("", "omniprof-target-*.go")
	if err != nil {
		return map[string]any{"error": fmt.Sprintf("create script file: %v", err)}
	}

	path := script.Name()

	_, writeErr := script.WriteString(source)
	closeErr := script.Close()

	defer os.Remove(path)

	if writeErr != nil || closeErr != nil {
		return map[string]any{"error": "write script file"}
	}

	return o.sampler.Profile(ctx, path, workDir, inputs)
}

func (o *Orchestrator) mockInputs(opts Options) []string {
	if opts.MockInputs != nil {
		return opts.MockInputs
	}

	if len(o.cfg.Profile.MockInputs) > 0 {
		return o.cfg.Profile.MockInputs
	}

	return config.DefaultMockInputs
}

// callableFilter admits profile entries whose function name resolves to a
// discovered top-level callable, so line profiles cover the target's own
// code rather than interpreter plumbing.
func callableFilter(callables []runner.Callable) func(string) bool {
	names := make(map[string]bool, len(callables))
	for _, c := range callables {
		names[c.Name] = true
	}

	return func(funcName string) bool {
		if names[funcName] {
			return true
		}

		if idx := strings.LastIndex(funcName, "."); idx >= 0 {
			return names[funcName[idx+1:]]
		}

		return false
	}
}
