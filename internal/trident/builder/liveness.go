package builder

import "github.com/trident-lang/trident/internal/trident/ast"

// countVarRefs counts how many times each local name is read as an
// ast.Var anywhere in body. buildExpr uses the count to tell a local's
// last read from an earlier one: the last read may relocate the value to
// the window top (BringToTop, native swap), since nothing needs it
// resident afterward; every earlier read must duplicate it (Dup, native
// dup) so later statements still find the binding in place.
func countVarRefs(body []ast.Stmt) map[string]int {
	counts := map[string]int{}

	var visitExpr func(e ast.Expr)
	var visitStmt func(s ast.Stmt)

	visitExpr = func(e ast.Expr) {
		switch ex := e.(type) {
		case ast.Var:
			counts[ex.Name]++
		case ast.Binary:
			visitExpr(ex.Left)
			visitExpr(ex.Right)
		case ast.Unary:
			visitExpr(ex.Operand)
		case ast.Call:
			for _, a := range ex.Args {
				visitExpr(a)
			}
		case ast.Intrinsic:
			for _, a := range ex.Args {
				visitExpr(a)
			}
		case ast.Tuple:
			for _, a := range ex.Elements {
				visitExpr(a)
			}
		case ast.ArrayLit:
			for _, a := range ex.Elements {
				visitExpr(a)
			}
		case ast.StructLit:
			for _, a := range ex.Fields {
				visitExpr(a)
			}
		case ast.Field:
			visitExpr(ex.Target)
		case ast.Index:
			visitExpr(ex.Target)
			visitExpr(ex.Idx)
		}
	}

	visitStmt = func(s ast.Stmt) {
		switch st := s.(type) {
		case ast.LetStmt:
			visitExpr(st.Value)
		case ast.AssignStmt:
			visitExpr(st.Value)
		case ast.ExprStmt:
			visitExpr(st.Value)
		case ast.ReturnStmt:
			if st.Value != nil {
				visitExpr(st.Value)
			}
		case ast.IfStmt:
			visitExpr(st.Cond)
			for _, s2 := range st.Then {
				visitStmt(s2)
			}
			for _, s2 := range st.Else {
				visitStmt(s2)
			}
		case ast.ForStmt:
			visitExpr(st.Bound)
			for _, s2 := range st.Body {
				visitStmt(s2)
			}
		case ast.MatchStmt:
			visitExpr(st.Subject)
			for _, arm := range st.Arms {
				for _, s2 := range arm.Body {
					visitStmt(s2)
				}
			}
		case ast.EmitStmt:
			for _, a := range st.Args {
				visitExpr(a)
			}
		case ast.SealStmt:
			for _, a := range st.Args {
				visitExpr(a)
			}
		}
	}

	for _, s := range body {
		visitStmt(s)
	}
	return counts
}
