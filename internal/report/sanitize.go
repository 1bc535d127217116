package report

import (
	"encoding/json"
	"fmt"
)

// SanitizeValue returns a representation of v that is guaranteed to
// survive JSON encoding. Marshalable values pass through unchanged;
// everything else is replaced by its formatted string form.
func SanitizeValue(v any) any {
	if v == nil {
		return nil
	}

	if _, err := json.Marshal(v); err == nil {
		return v
	}

	return fmt.Sprintf("%v", v)
}
