package mathutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omniprof/omniprof/pkg/mathutil"
)

func TestMin(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, mathutil.Min(1, 2))
	assert.Equal(t, 1, mathutil.Min(2, 1))
	assert.Equal(t, 2, mathutil.Min(2, 2))
}

func TestClampNonNegative(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, mathutil.ClampNonNegative(-5))
	assert.Equal(t, 5, mathutil.ClampNonNegative(5))
	assert.Equal(t, int64(0), mathutil.ClampNonNegative(int64(-1)))
	assert.InDelta(t, 0.0, mathutil.ClampNonNegative(-0.5), 1e-12)
	assert.InDelta(t, 1.5, mathutil.ClampNonNegative(1.5), 1e-12)
}

func TestPercentile_LinearInterpolation(t *testing.T) {
	t.Parallel()

	samples := []float64{4, 1, 3, 2}

	assert.InDelta(t, 1.0, mathutil.Percentile(samples, 0), 1e-12)
	assert.InDelta(t, 2.5, mathutil.Percentile(samples, 50), 1e-12)
	assert.InDelta(t, 4.0, mathutil.Percentile(samples, 100), 1e-12)
	assert.InDelta(t, 3.25, mathutil.Percentile(samples, 75), 1e-12)
}

func TestPercentile_Empty(t *testing.T) {
	t.Parallel()

	assert.Zero(t, mathutil.Percentile(nil, 50))
}

func TestMeanStd(t *testing.T) {
	t.Parallel()

	samples := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	assert.InDelta(t, 5.0, mathutil.Mean(samples), 1e-12)
	assert.InDelta(t, 2.0, mathutil.Std(samples), 1e-12)
	assert.Zero(t, mathutil.Mean(nil))
	assert.Zero(t, mathutil.Std(nil))
}
