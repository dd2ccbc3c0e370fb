package trident

import (
	"testing"

	"github.com/trident-lang/trident/internal/trident/ast"
	"github.com/trident-lang/trident/internal/trident/diag"
	"github.com/trident-lang/trident/internal/trident/target"
)

func addTwoModule() *ast.Module {
	fn := &ast.Function{
		Name:        "add_two",
		Params:      []ast.Param{{Name: "a", Width: 1}, {Name: "b", Width: 1}},
		ReturnWidth: 1,
		Body: []ast.Stmt{
			ast.ReturnStmt{Value: ast.Binary{
				Op:    ast.OpAdd,
				Left:  ast.Var{Name: "a"},
				Right: ast.Var{Name: "b"},
			}},
		},
	}
	return &ast.Module{Name: "m", Functions: []*ast.Function{fn}}
}

// TestCompileTritonEndToEnd exercises Scenario A: a trivial function
// compiled for Triton produces TIR, lowered assembly, and a cost report
// with no diagnostics.
func TestCompileTritonEndToEnd(t *testing.T) {
	mod := addTwoModule()
	res, bag := Compile(mod, []ast.Instance{{FuncName: "add_two"}}, target.Triton)
	if !bag.OK() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	if _, ok := res.Sequences["add_two"]; !ok {
		t.Fatalf("expected a TIR sequence for add_two")
	}
	if _, ok := res.Assembly["add_two"]; !ok {
		t.Fatalf("expected lowered assembly for add_two")
	}
	report, ok := res.CostReports["add_two"]
	if !ok || report.TotalPaddedRows() == 0 {
		t.Fatalf("expected a nonzero cost report for add_two, got %+v", report)
	}
}

func TestCompileNockRejectsExtensionField(t *testing.T) {
	fn := &ast.Function{
		Name:        "fold",
		ReturnWidth: 3,
		Body: []ast.Stmt{
			ast.ExprStmt{Value: ast.Intrinsic{Name: "x_invert", Args: []ast.Expr{
				ast.Literal{Values: []uint64{1}, Width: 1},
				ast.Literal{Values: []uint64{2}, Width: 1},
				ast.Literal{Values: []uint64{3}, Width: 1},
			}}},
		},
	}
	mod := &ast.Module{Name: "m", Functions: []*ast.Function{fn}}

	_, bag := Compile(mod, []ast.Instance{{FuncName: "fold"}}, target.NockTree)
	if !bag.HasKind(diag.TierExceeded) {
		t.Fatalf("expected TierExceeded compiling an extension-field op for NockTree, got %v", bag.All())
	}
}
