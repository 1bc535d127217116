package static

import (
	"fmt"
	"go/ast"
)

// recursiveSuffix is appended verbatim to the loop-depth label of any
// function that calls itself, regardless of what that label is. A
// zero-loop recursive function is therefore labeled "O(1) (Recursive)".
// This exact policy is load-bearing for report compatibility.
const recursiveSuffix = " (Recursive)"

// bigOContext carries the mutable traversal state for one function: its
// qualified name, receiver variable, loop-nesting counters, and the
// recursion flag.
type bigOContext struct {
	name         string
	receiver     string
	receiverType string
	loopDepth    int
	maxLoopDepth int
	recursive    bool
}

// AnalyzeBigO estimates asymptotic complexity per function from the
// maximum loop-nesting depth reached by loops lexically inside the
// function's own body. Loops inside nested function literals belong to
// the literal, not the enclosing function, and do not contribute.
func (a *Analyzer) AnalyzeBigO(src string) map[string]string {
	results := map[string]string{}

	_, file, _, ok := a.parseSource(src)
	if !ok {
		return results
	}

	for _, decl := range file.Decls {
		fn, isFunc := decl.(*ast.FuncDecl)
		if !isFunc || fn.Body == nil {
			continue
		}

		ctx := &bigOContext{
			name:         qualifiedName(fn),
			receiver:     receiverName(fn),
			receiverType: receiverTypeOf(fn),
		}

		ast.Walk(&bigOVisitor{ctx: ctx, countLoops: true}, fn.Body)

		results[ctx.name] = ctx.label()
	}

	return results
}

// bigOVisitor threads the traversal context through ast.Walk. Each loop
// node returns a visitor carrying an exit hook, so the nesting counter is
// decremented exactly when the subtree is left. countLoops turns false
// inside nested function literals: their loops are suppressed from the
// enclosing function's depth, while self-recursion detection still covers
// calls anywhere inside the body.
type bigOVisitor struct {
	ctx        *bigOContext
	countLoops bool
	onExit     func()
}

// Visit implements ast.Visitor.
func (v *bigOVisitor) Visit(n ast.Node) ast.Visitor {
	if n == nil {
		if v.onExit != nil {
			v.onExit()
		}

		return nil
	}

	next := &bigOVisitor{ctx: v.ctx, countLoops: v.countLoops}

	switch node := n.(type) {
	case *ast.ForStmt, *ast.RangeStmt:
		if v.countLoops {
			v.ctx.loopDepth++
			if v.ctx.loopDepth > v.ctx.maxLoopDepth {
				v.ctx.maxLoopDepth = v.ctx.loopDepth
			}

			next.onExit = func() { v.ctx.loopDepth-- }
		}
	case *ast.FuncLit:
		next.countLoops = false
	case *ast.CallExpr:
		if v.ctx.calleeName(node) == v.ctx.name {
			v.ctx.recursive = true
		}
	}

	return next
}

// calleeName resolves the target of a call: a bare identifier records
// that identifier; a method call on the function's own receiver resolves
// back to ReceiverType.method. Everything else is not a recursion
// candidate.
func (c *bigOContext) calleeName(call *ast.CallExpr) string {
	switch fun := call.Fun.(type) {
	case *ast.Ident:
		return fun.Name
	case *ast.SelectorExpr:
		recv, isIdent := fun.X.(*ast.Ident)
		if isIdent && c.receiver != "" && recv.Name == c.receiver && c.receiverType != "" {
			return c.receiverType + "." + fun.Sel.Name
		}
	}

	return ""
}

func (c *bigOContext) label() string {
	var complexity string

	switch c.maxLoopDepth {
	case 0:
		complexity = "O(1)"
	case 1:
		complexity = "O(n)"
	case 2:
		complexity = "O(n^2)"
	case 3:
		complexity = "O(n^3)"
	default:
		complexity = fmt.Sprintf("O(n^%d)", c.maxLoopDepth)
	}

	if c.recursive {
		complexity += recursiveSuffix
	}

	return complexity
}

func receiverTypeOf(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}

	return receiverTypeName(fn.Recv.List[0].Type)
}
