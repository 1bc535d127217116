package static

import "go/ast"

// BuildCallGraph produces an adjacency mapping from qualified function
// name to the ordered callee names encountered anywhere inside that
// function's body. A call through a bare identifier records that
// identifier; a call through attribute access records only the trailing
// selector name, with no receiver-type resolution. This lossy
// approximation is deliberate and kept for compatibility. Calls at module
// scope are not attributed to any key.
func (a *Analyzer) BuildCallGraph(src string) map[string][]string {
	graph := map[string][]string{}

	_, file, _, ok := a.parseSource(src)
	if !ok {
		return graph
	}

	for _, decl := range file.Decls {
		fn, isFunc := decl.(*ast.FuncDecl)
		if !isFunc {
			continue
		}

		name := qualifiedName(fn)
		graph[name] = []string{}

		if fn.Body == nil {
			continue
		}

		ast.Inspect(fn.Body, func(n ast.Node) bool {
			call, isCall := n.(*ast.CallExpr)
			if !isCall {
				return true
			}

			callee := calleeIdentifier(call)
			if callee != "" {
				graph[name] = append(graph[name], callee)
			}

			return true
		})
	}

	return graph
}

func calleeIdentifier(call *ast.CallExpr) string {
	switch fun := call.Fun.(type) {
	case *ast.Ident:
		return fun.Name
	case *ast.SelectorExpr:
		return fun.Sel.Name
	default:
		return ""
	}
}
