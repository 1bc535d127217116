// Package static derives complexity, Halstead, raw-size, maintainability,
// Big-O, and call-graph results from parsed Go source. Every sub-analysis
// is fault-isolated: a source that fails to parse yields empty results for
// the affected analyses, logged, never an error to the caller.
package static

import (
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"strings"
)

// Result is the full static-analysis section of a report.
type Result struct {
	Complexity      map[string]FunctionComplexity `json:"complexity"`
	Halstead        Halstead                      `json:"halstead"`
	BigO            map[string]string             `json:"big_o"`
	RawMetrics      RawMetrics                    `json:"raw_metrics"`
	Maintainability float64                       `json:"maintainability"`
	CallGraph       map[string][]string           `json:"call_graph"`
}

// FunctionComplexity holds the cyclomatic result for one function.
type FunctionComplexity struct {
	Complexity int `json:"complexity"`
	Lineno     int `json:"lineno"`
	Endline    int `json:"endline"`
	LOC        int `json:"loc"`
}

// Analyzer runs the static sub-analyses over source text.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer. A nil logger falls back to slog.Default.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Analyzer{logger: logger}
}

// Analyze runs every sub-analysis over the source. Failing sub-analyses
// degrade to their empty value without affecting siblings.
func (a *Analyzer) Analyze(src string) Result {
	return Result{
		Complexity:      a.AnalyzeComplexity(src),
		Halstead:        a.AnalyzeHalstead(src),
		BigO:            a.AnalyzeBigO(src),
		RawMetrics:      a.AnalyzeRawMetrics(src),
		Maintainability: a.AnalyzeMaintainability(src),
		CallGraph:       a.BuildCallGraph(src),
	}
}

// parseSource parses source text into a syntax tree. Bare declaration
// snippets get a package clause prepended; the returned offset maps
// positions back to the original text. Statement-only snippets are not
// forced into a synthetic function, because that would attribute
// module-scope calls to a function that does not exist in the source.
func (a *Analyzer) parseSource(src string) (*token.FileSet, *ast.File, int, bool) {
	fset := token.NewFileSet()

	wrapped, offset := withPackageClause(src)

	file, err := parser.ParseFile(fset, "source.go", wrapped, parser.ParseComments)
	if err != nil {
		a.logger.Debug("static analysis parse failed", "error", err)

		return nil, nil, 0, false
	}

	return fset, file, offset, true
}

func withPackageClause(src string) (string, int) {
	trimmed := strings.TrimLeft(src, " \t\n")
	if strings.HasPrefix(trimmed, "package ") || strings.HasPrefix(trimmed, "package\t") {
		return src, 0
	}

	return "package main\n\n" + src, 2
}

// qualifiedName returns the function key: ReceiverType.Name for methods,
// the bare name otherwise.
func qualifiedName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return fn.Name.Name
	}

	recv := receiverTypeName(fn.Recv.List[0].Type)
	if recv == "" {
		return fn.Name.Name
	}

	return recv + "." + fn.Name.Name
}

func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	default:
		return ""
	}
}

// receiverName returns the receiver variable name of a method, if named.
func receiverName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 || len(fn.Recv.List[0].Names) == 0 {
		return ""
	}

	return fn.Recv.List[0].Names[0].Name
}
