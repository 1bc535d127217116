package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniprof/omniprof/internal/config"
)

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultTimeoutSeconds, cfg.Profile.TimeoutSeconds)
	assert.Equal(t, config.DefaultWarmupRuns, cfg.Profile.WarmupRuns)
	assert.Equal(t, config.DefaultHotspotLimit, cfg.Profile.HotspotLimit)
	assert.Equal(t, config.DefaultTopAllocators, cfg.Profile.TopAllocators)
	assert.Equal(t, config.DefaultSamplingCommand, cfg.Sampling.Command)
	assert.Equal(t, config.DefaultMemProfileRate, cfg.Tracer.MemProfileRate)
	assert.Equal(t, config.DefaultMockInputs, cfg.Profile.MockInputs)
}

func TestLoadConfig_ExplicitFileOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "omniprof.yaml")

	content := `profile:
  timeout_seconds: 30
  warmup_runs: 2
sampling:
  command: custom-sampler
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Profile.TimeoutSeconds)
	assert.Equal(t, 2, cfg.Profile.WarmupRuns)
	assert.Equal(t, "custom-sampler", cfg.Sampling.Command)
	// Unset keys keep their defaults.
	assert.Equal(t, config.DefaultHotspotLimit, cfg.Profile.HotspotLimit)
}

func TestLoadConfig_InvalidValuesRejected(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "omniprof.yaml")

	content := `profile:
  timeout_seconds: -1
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := config.LoadConfig(path)

	assert.Error(t, err)
}

func TestProfileConfig_TimeoutDuration(t *testing.T) {
	t.Parallel()

	cfg := config.ProfileConfig{TimeoutSeconds: 7}

	assert.Equal(t, 7*time.Second, cfg.Timeout())
}

func TestConfig_ValidateChecksEveryField(t *testing.T) {
	t.Parallel()

	valid := config.Config{
		Profile: config.ProfileConfig{
			TimeoutSeconds: 1,
			HotspotLimit:   1,
			TopAllocators:  1,
		},
		Sampling: config.SamplingConfig{TimeoutSeconds: 1},
		Tracer:   config.TracerConfig{MemProfileRate: 1},
	}

	require.NoError(t, valid.Validate())

	broken := valid
	broken.Profile.WarmupRuns = -1

	assert.Error(t, broken.Validate())

	broken = valid
	broken.Tracer.MemProfileRate = 0

	assert.Error(t, broken.Validate())
}
