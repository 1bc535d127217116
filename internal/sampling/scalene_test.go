package sampling_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniprof/omniprof/internal/sampling"
)

func TestProfile_MissingCommandReportedInPayload(t *testing.T) {
	t.Parallel()

	p := sampling.NewProfiler("omniprof-no-such-sampler", nil, time.Second, nil)

	payload := p.Profile(context.Background(), "target.go", t.TempDir(), []string{"1"})

	require.Contains(t, payload, "error")
	assert.NotEmpty(t, payload["error"])
}

func TestProfile_EmptyOutputReportedInPayload(t *testing.T) {
	t.Parallel()

	// `true` exits zero without writing the output file.
	p := sampling.NewProfiler("true", nil, time.Second, nil)

	payload := p.Profile(context.Background(), "target.go", t.TempDir(), nil)

	require.Contains(t, payload, "error")
	assert.Contains(t, payload["error"], "no output")
}
