package static

import (
	"go/ast"
	"strings"
)

// RawMetrics holds the raw size metrics of a source text.
type RawMetrics struct {
	// LOC is the total number of lines.
	LOC int `json:"loc"`
	// LLOC is the number of logical lines (statements).
	LLOC int `json:"lloc"`
	// SLOC is the number of source lines carrying code.
	SLOC int `json:"sloc"`
	// Comments is the number of single-line comment lines.
	Comments int `json:"comments"`
	// Multi is the number of lines inside multi-line comments.
	Multi int `json:"multi"`
	// Blank is the number of blank lines.
	Blank int `json:"blank"`
}

// AnalyzeRawMetrics computes line-oriented size metrics. The line
// classification is a text scan; logical lines come from the parsed
// statement count and degrade to zero when the source does not parse.
func (a *Analyzer) AnalyzeRawMetrics(src string) RawMetrics {
	metrics := RawMetrics{}
	if src == "" {
		return metrics
	}

	lines := strings.Split(src, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	metrics.LOC = len(lines)

	inBlockComment := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case inBlockComment:
			metrics.Multi++

			if strings.Contains(trimmed, "*/") {
				inBlockComment = false
			}
		case trimmed == "":
			metrics.Blank++
		case strings.HasPrefix(trimmed, "//"):
			metrics.Comments++
		case strings.HasPrefix(trimmed, "/*"):
			metrics.Multi++

			if !strings.Contains(trimmed[2:], "*/") {
				inBlockComment = true
			}
		default:
			metrics.SLOC++
		}
	}

	metrics.LLOC = a.logicalLines(src)

	return metrics
}

// logicalLines counts statements in the parsed tree. Blocks are structure,
// not logic, so they are excluded from the count.
func (a *Analyzer) logicalLines(src string) int {
	_, file, _, ok := a.parseSource(src)
	if !ok {
		return 0
	}

	count := 0

	ast.Inspect(file, func(n ast.Node) bool {
		if _, isBlock := n.(*ast.BlockStmt); isBlock {
			return true
		}

		if _, isStmt := n.(ast.Stmt); isStmt {
			count++
		}

		return true
	})

	return count
}
