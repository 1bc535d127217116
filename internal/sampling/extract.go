package sampling

// Aggregate summarizes a sampling profiler payload across all files and
// lines.
type Aggregate struct {
	CPUBreakdown  CPUBreakdown `json:"cpu_breakdown"`
	MemoryCopyMBs float64      `json:"memory_copy_mb_s"`
	Leaks         []Leak       `json:"leaks"`
}

// CPUBreakdown splits sampled CPU percentage by where the time went.
type CPUBreakdown struct {
	Interpreted float64 `json:"python"`
	Native      float64 `json:"native"`
	System      float64 `json:"system"`
}

// Leak is one suspected memory leak site reported by the profiler.
type Leak struct {
	File       string  `json:"file"`
	Line       int     `json:"line"`
	Likelihood float64 `json:"likelihood"`
}

// ExtractMetrics folds the per-line records of a profiler payload into a
// single Aggregate. A payload carrying an "error" key, or one without a
// "files" section, yields nil.
func ExtractMetrics(payload map[string]any) *Aggregate {
	if payload == nil {
		return nil
	}

	if _, failed := payload["error"]; failed {
		return nil
	}

	files, ok := payload["files"].(map[string]any)
	if !ok {
		return nil
	}

	agg := &Aggregate{Leaks: []Leak{}}

	for path, rawFile := range files {
		file, isMap := rawFile.(map[string]any)
		if !isMap {
			continue
		}

		lines, isList := file["lines"].([]any)
		if !isList {
			continue
		}

		for _, rawLine := range lines {
			line, isMap := rawLine.(map[string]any)
			if !isMap {
				continue
			}

			agg.CPUBreakdown.Interpreted += floatField(line, "n_cpu_percent_python")
			agg.CPUBreakdown.Native += floatField(line, "n_cpu_percent_c")
			agg.CPUBreakdown.System += floatField(line, "n_sys_percent")
			agg.MemoryCopyMBs += floatField(line, "n_copy_mb_s")

			collectLeaks(agg, path, line)
		}
	}

	return agg
}

// collectLeaks pulls per-line leak likelihoods. The profiler emits leaks
// as a map from label to [likelihood, velocity] pairs.
func collectLeaks(agg *Aggregate, path string, line map[string]any) {
	leaks, ok := line["leaks"].(map[string]any)
	if !ok {
		return
	}

	lineno := int(floatField(line, "lineno"))

	for _, rawLeak := range leaks {
		pair, isList := rawLeak.([]any)
		if !isList || len(pair) == 0 {
			continue
		}

		likelihood, isFloat := pair[0].(float64)
		if !isFloat {
			continue
		}

		agg.Leaks = append(agg.Leaks, Leak{File: path, Line: lineno, Likelihood: likelihood})
	}
}

func floatField(m map[string]any, key string) float64 {
	v, _ := m[key].(float64)

	return v
}
