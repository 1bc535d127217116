package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omniprof/omniprof/internal/report"
)

func TestSanitizeValue_MarshalableValuesPassThrough(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 42, report.SanitizeValue(42))
	assert.Equal(t, "text", report.SanitizeValue("text"))
	assert.Equal(t, []int{1, 2}, report.SanitizeValue([]int{1, 2}))
	assert.Nil(t, report.SanitizeValue(nil))
}

func TestSanitizeValue_UnmarshalableBecomesString(t *testing.T) {
	t.Parallel()

	sanitized := report.SanitizeValue(func() {})

	_, isString := sanitized.(string)

	assert.True(t, isString)
}
