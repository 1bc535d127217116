package static

import (
	"go/ast"
	"math"
)

// Halstead holds the file-level Halstead measures derived from the
// distinct/total operator and operand counts by the standard formulas.
type Halstead struct {
	Volume            float64 `json:"volume"`
	Difficulty        float64 `json:"difficulty"`
	Effort            float64 `json:"effort"`
	DistinctOperators int     `json:"distinct_operators"`
	DistinctOperands  int     `json:"distinct_operands"`
	TotalOperators    int     `json:"total_operators"`
	TotalOperands     int     `json:"total_operands"`
}

// Pseudo-operator names for structural operators without a token.
const (
	operatorCall   = "call"
	operatorIndex  = "index"
	operatorSlice  = "slice"
	operatorReturn = "return"
)

// AnalyzeHalstead computes volume, difficulty, and effort for the source.
func (a *Analyzer) AnalyzeHalstead(src string) Halstead {
	_, file, _, ok := a.parseSource(src)
	if !ok {
		return Halstead{}
	}

	operators := map[string]int{}
	operands := map[string]int{}
	declNames := declarationIdents(file)

	ast.Inspect(file, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.BinaryExpr:
			operators[node.Op.String()]++
		case *ast.UnaryExpr:
			operators[node.Op.String()]++
		case *ast.AssignStmt:
			operators[node.Tok.String()]++
		case *ast.IncDecStmt:
			operators[node.Tok.String()]++
		case *ast.CallExpr:
			operators[operatorCall]++
		case *ast.IndexExpr:
			operators[operatorIndex]++
		case *ast.SliceExpr:
			operators[operatorSlice]++
		case *ast.ReturnStmt:
			operators[operatorReturn]++
		case *ast.Ident:
			if !declNames[node] {
				operands[node.Name]++
			}
		case *ast.BasicLit:
			operands[node.Value]++
		}

		return true
	})

	return computeHalstead(operators, operands)
}

// declarationIdents collects identifiers that name declarations rather
// than use values; those do not count as operands.
func declarationIdents(file *ast.File) map[*ast.Ident]bool {
	names := map[*ast.Ident]bool{}

	ast.Inspect(file, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.FuncDecl:
			names[node.Name] = true
		case *ast.TypeSpec:
			names[node.Name] = true
		case *ast.ImportSpec:
			if node.Name != nil {
				names[node.Name] = true
			}
		case *ast.Field:
			for _, name := range node.Names {
				names[name] = true
			}
		}

		return true
	})

	return names
}

func computeHalstead(operators, operands map[string]int) Halstead {
	h := Halstead{
		DistinctOperators: len(operators),
		DistinctOperands:  len(operands),
	}

	for _, count := range operators {
		h.TotalOperators += count
	}

	for _, count := range operands {
		h.TotalOperands += count
	}

	vocabulary := h.DistinctOperators + h.DistinctOperands
	length := h.TotalOperators + h.TotalOperands

	if vocabulary > 0 {
		h.Volume = float64(length) * math.Log2(float64(vocabulary))
	}

	if h.DistinctOperands > 0 {
		h.Difficulty = float64(h.DistinctOperators) / 2 * float64(h.TotalOperands) / float64(h.DistinctOperands)
	}

	h.Effort = h.Difficulty * h.Volume

	return h
}
