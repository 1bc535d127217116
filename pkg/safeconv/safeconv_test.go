package safeconv_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omniprof/omniprof/pkg/safeconv"
)

func TestUint64ToInt64_Saturates(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(7), safeconv.Uint64ToInt64(7))
	assert.Equal(t, int64(math.MaxInt64), safeconv.Uint64ToInt64(math.MaxUint64))
}

func TestUint32ToInt64_Lossless(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(math.MaxUint32), safeconv.Uint32ToInt64(math.MaxUint32))
}
