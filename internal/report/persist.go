package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// lz4Extension marks a report file as LZ4-compressed JSON.
const lz4Extension = ".lz4"

// jsonIndent is the indentation used for on-disk reports.
const jsonIndent = "  "

// Save writes a report to path as indented JSON. Paths ending in .lz4
// are compressed transparently.
func Save(path string, r *Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer file.Close()

	var w io.Writer = file

	if strings.HasSuffix(path, lz4Extension) {
		zw := lz4.NewWriter(file)
		defer zw.Close()

		w = zw
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", jsonIndent)

	err = encoder.Encode(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return nil
}

// Load reads a report file into a generic map. The comparator and the
// renderer both work on the serialized shape, so reports written by
// older builds stay loadable.
func Load(path string) (map[string]any, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report file: %w", err)
	}
	defer file.Close()

	var r io.Reader = file

	if strings.HasSuffix(path, lz4Extension) {
		r = lz4.NewReader(file)
	}

	var payload map[string]any

	err = json.NewDecoder(r).Decode(&payload)
	if err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}

	return payload, nil
}
