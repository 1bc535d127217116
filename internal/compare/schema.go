package compare

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// reportSchema describes the minimal shape a report must have to be
// comparable: a dynamic_analysis object whose metric sections, when
// present, are objects.
const reportSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["dynamic_analysis"],
  "properties": {
    "dynamic_analysis": {
      "type": "object",
      "properties": {
        "time":        {"type": "object"},
        "memory":      {"type": "object"},
        "gc":          {"type": "object"},
        "cpu":         {"type": "object"},
        "allocations": {"type": "object"}
      }
    }
  }
}`

// ErrNotComparable reports a payload that fails schema validation.
var ErrNotComparable = errors.New("report is not comparable")

// ValidateReport checks that a loaded report can be fed to Compare.
func ValidateReport(payload map[string]any) error {
	schemaLoader := gojsonschema.NewStringLoader(reportSchema)
	payloadLoader := gojsonschema.NewGoLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, payloadLoader)
	if err != nil {
		return fmt.Errorf("validate report: %w", err)
	}

	if result.Valid() {
		return nil
	}

	reasons := make([]string, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		reasons = append(reasons, resultErr.String())
	}

	return fmt.Errorf("%w: %s", ErrNotComparable, strings.Join(reasons, "; "))
}
