package static

import (
	"go/ast"
	"go/token"
)

// baseComplexity is the cyclomatic complexity of a function with a single
// path.
const baseComplexity = 1

// AnalyzeComplexity computes cyclomatic complexity per function, with
// start line, end line, and the derived line count.
func (a *Analyzer) AnalyzeComplexity(src string) map[string]FunctionComplexity {
	results := map[string]FunctionComplexity{}

	fset, file, offset, ok := a.parseSource(src)
	if !ok {
		return results
	}

	for _, decl := range file.Decls {
		fn, isFunc := decl.(*ast.FuncDecl)
		if !isFunc {
			continue
		}

		start := fset.Position(fn.Pos()).Line - offset
		end := fset.Position(fn.End()).Line - offset

		results[qualifiedName(fn)] = FunctionComplexity{
			Complexity: cyclomatic(fn),
			Lineno:     start,
			Endline:    end,
			LOC:        end - start + 1,
		}
	}

	return results
}

// cyclomatic counts independent control-flow paths: one per branch point
// (if, loop, non-default case, comm clause) plus short-circuit operators.
func cyclomatic(fn *ast.FuncDecl) int {
	complexity := baseComplexity

	ast.Inspect(fn, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.IfStmt, *ast.ForStmt, *ast.RangeStmt:
			complexity++
		case *ast.CaseClause:
			if node.List != nil {
				complexity++
			}
		case *ast.CommClause:
			if node.Comm != nil {
				complexity++
			}
		case *ast.BinaryExpr:
			if node.Op == token.LAND || node.Op == token.LOR {
				complexity++
			}
		}

		return true
	})

	return complexity
}
