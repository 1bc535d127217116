package static

import "math"

// Maintainability index formula constants (classic SEI coefficients).
const (
	miBase           = 171.0
	miVolumeWeight   = 5.2
	miCycloWeight    = 0.23
	miSLOCWeight     = 16.2
	miCommentsWeight = 50.0
	miCommentsFactor = 2.4
	miScale          = 100.0
	percent          = 100.0
)

// AnalyzeMaintainability computes the maintainability index, a single
// float in [0, 100], from Halstead volume, mean cyclomatic complexity,
// source lines, and comment density.
func (a *Analyzer) AnalyzeMaintainability(src string) float64 {
	halstead := a.AnalyzeHalstead(src)
	complexity := a.AnalyzeComplexity(src)
	raw := a.AnalyzeRawMetrics(src)

	if raw.SLOC == 0 {
		return 0
	}

	meanComplexity := 0.0
	if len(complexity) > 0 {
		total := 0
		for _, fc := range complexity {
			total += fc.Complexity
		}

		meanComplexity = float64(total) / float64(len(complexity))
	}

	commentPercent := float64(raw.Comments+raw.Multi) / float64(raw.LOC) * percent
	commentTerm := miCommentsWeight * math.Sin(math.Sqrt(miCommentsFactor*toRadians(commentPercent)))

	index := miBase -
		miVolumeWeight*safeLog(halstead.Volume) -
		miCycloWeight*meanComplexity -
		miSLOCWeight*safeLog(float64(raw.SLOC)) +
		commentTerm

	normalized := index * miScale / miBase

	return math.Min(miScale, math.Max(0, normalized))
}

func safeLog(v float64) float64 {
	if v <= 1 {
		return 0
	}

	return math.Log(v)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
