// Package config loads omniprof configuration from file, environment, and defaults.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Default profiling settings.
const (
	// DefaultTimeoutSeconds bounds one measured execution of the target program.
	DefaultTimeoutSeconds = 5

	// DefaultWarmupRuns is the number of discarded passes before measurement.
	DefaultWarmupRuns = 0

	// DefaultHotspotLimit caps the number of hotspot summary lines in a report.
	DefaultHotspotLimit = 10

	// DefaultTopAllocators caps the allocation-site breakdown in a report.
	DefaultTopAllocators = 10

	// DefaultSamplingCommand is the external statistical sampling profiler.
	DefaultSamplingCommand = "scalene"

	// DefaultSamplingTimeoutSeconds forcibly terminates the sampling subprocess.
	DefaultSamplingTimeoutSeconds = 10

	// DefaultMemProfileRate records every allocation site while the tracer is active.
	DefaultMemProfileRate = 1
)

// DefaultMockInputs feed the input hook when the caller provides none.
var DefaultMockInputs = []string{"1", "10", "2", "5", "3", "100", "exit", "quit", "4"}

// Config is the root omniprof configuration.
type Config struct {
	Profile  ProfileConfig  `mapstructure:"profile"`
	Sampling SamplingConfig `mapstructure:"sampling"`
	Tracer   TracerConfig   `mapstructure:"tracer"`
}

// ProfileConfig controls the dynamic profiling passes.
type ProfileConfig struct {
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
	WarmupRuns     int      `mapstructure:"warmup_runs"`
	MockInputs     []string `mapstructure:"mock_inputs"`
	HotspotLimit   int      `mapstructure:"hotspot_limit"`
	TopAllocators  int      `mapstructure:"top_allocators"`
}

// SamplingConfig controls the external sampling-profiler subprocess.
type SamplingConfig struct {
	Command        string   `mapstructure:"command"`
	Args           []string `mapstructure:"args"`
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
}

// TracerConfig controls the allocation tracer capability handle.
type TracerConfig struct {
	MemProfileRate int `mapstructure:"mem_profile_rate"`
}

// Timeout returns the measured-run timeout as a duration.
func (p ProfileConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// Timeout returns the sampling subprocess timeout as a duration.
func (s SamplingConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Validate checks the configuration for inconsistent values.
func (c *Config) Validate() error {
	if c.Profile.TimeoutSeconds <= 0 {
		return errors.New("profile.timeout_seconds must be positive")
	}

	if c.Profile.WarmupRuns < 0 {
		return errors.New("profile.warmup_runs must not be negative")
	}

	if c.Profile.HotspotLimit <= 0 {
		return errors.New("profile.hotspot_limit must be positive")
	}

	if c.Profile.TopAllocators <= 0 {
		return errors.New("profile.top_allocators must be positive")
	}

	if c.Sampling.TimeoutSeconds <= 0 {
		return errors.New("sampling.timeout_seconds must be positive")
	}

	if c.Tracer.MemProfileRate <= 0 {
		return fmt.Errorf("tracer.mem_profile_rate must be positive, got %d", c.Tracer.MemProfileRate)
	}

	return nil
}
