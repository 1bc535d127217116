package runner_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omniprof/omniprof/internal/runner"
)

func TestMockInput_DrawsInOrderThenRepeatsLast(t *testing.T) {
	t.Parallel()

	mock := runner.NewMockInput([]string{"a", "b"}, 0)

	assert.Equal(t, "a", mock.Next("prompt ignored"))
	assert.Equal(t, "b", mock.Next(""))
	assert.Equal(t, "b", mock.Next(""))
	assert.Equal(t, "b", mock.Next(""))
}

func TestMockInput_EmptySequenceFallsBackToExit(t *testing.T) {
	t.Parallel()

	mock := runner.NewMockInput(nil, 0)

	assert.Equal(t, "exit", mock.Next(""))
}

func TestMockInput_TimeoutPanicsOnDraw(t *testing.T) {
	t.Parallel()

	mock := runner.NewMockInput([]string{"1"}, time.Millisecond)

	time.Sleep(5 * time.Millisecond)

	assert.Panics(t, func() { mock.Next("") })
}

func TestMockInput_ReadServesNewlineDelimitedValues(t *testing.T) {
	t.Parallel()

	mock := runner.NewMockInput([]string{"42"}, 0)

	buf := make([]byte, 16)

	n, err := mock.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "42\n", string(buf[:n]))
}

func TestMockInput_ReadSplitsAcrossShortBuffers(t *testing.T) {
	t.Parallel()

	mock := runner.NewMockInput([]string{"hello"}, 0)

	buf := make([]byte, 3)

	n, err := mock.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hel", string(buf[:n]))

	n, err = mock.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "lo\n", string(buf[:n]))
}
