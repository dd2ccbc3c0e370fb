// Package integration exercises pkg/trident.Compile end to end against
// every built-in target, mirroring the scope of the teacher's own
// tests/integration suite (dropped teacher STARK-proof integration
// tests; this suite covers Trident's own compile-time scenarios
// instead — see DESIGN.md).
package integration

import (
	"testing"

	"github.com/trident-lang/trident/internal/trident/ast"
	"github.com/trident-lang/trident/internal/trident/diag"
	"github.com/trident-lang/trident/internal/trident/target"
	"github.com/trident-lang/trident/pkg/trident"
)

func addPublicInputsModule() *ast.Module {
	fn := &ast.Function{
		Name: "main",
		Body: []ast.Stmt{
			ast.LetStmt{Name: "a", Value: ast.Intrinsic{Name: "pub_read"}},
			ast.LetStmt{Name: "b", Value: ast.Intrinsic{Name: "pub_read"}},
			ast.ExprStmt{Value: ast.Intrinsic{
				Name: "pub_write",
				Args: []ast.Expr{ast.Binary{Op: ast.OpAdd, Left: ast.Var{Name: "a"}, Right: ast.Var{Name: "b"}}},
			}},
		},
	}
	return &ast.Module{Name: "add_public_inputs", Functions: []*ast.Function{fn}}
}

// TestScenarioA_AddTwoPublicInputs compiles the spec's canonical add-two
// program against every stack-family target and checks it produces
// clean TIR, assembly, and a nonzero cost report.
func TestScenarioA_AddTwoPublicInputs(t *testing.T) {
	mod := addPublicInputsModule()
	for _, cfg := range []target.Config{target.Triton, target.Miden} {
		res, bag := trident.Compile(mod, []ast.Instance{{FuncName: "main"}}, cfg)
		if !bag.OK() {
			t.Fatalf("[%s] unexpected diagnostics: %v", cfg.ID(), bag.All())
		}
		if len(res.Sequences["main"]) == 0 {
			t.Fatalf("[%s] expected a nonempty TIR sequence", cfg.ID())
		}
		if res.Assembly["main"] == "" {
			t.Fatalf("[%s] expected nonempty lowered assembly", cfg.ID())
		}
		if res.CostReports["main"].TotalPaddedRows() == 0 {
			t.Fatalf("[%s] expected a nonzero cost report", cfg.ID())
		}
	}
}

// TestScenarioC_IfElseReconciliation checks that an if/else whose arms
// both leave exactly one value on top compiles cleanly, with no
// mismatched-stack diagnostic.
func TestScenarioC_IfElseReconciliation(t *testing.T) {
	fn := &ast.Function{
		Name:        "pick",
		Params:      []ast.Param{{Name: "cond", Width: 1}},
		ReturnWidth: 1,
		Body: []ast.Stmt{
			ast.IfStmt{
				Cond: ast.Var{Name: "cond"},
				Then: []ast.Stmt{ast.ReturnStmt{Value: ast.Literal{Values: []uint64{1}, Width: 1}}},
				Else: []ast.Stmt{ast.ReturnStmt{Value: ast.Literal{Values: []uint64{2}, Width: 1}}},
			},
		},
	}
	mod := &ast.Module{Name: "pick_mod", Functions: []*ast.Function{fn}}

	_, bag := trident.Compile(mod, []ast.Instance{{FuncName: "pick"}}, target.Triton)
	if bag.HasKind(diag.UnsupportedFeature) {
		t.Fatalf("unexpected if/else reconciliation failure: %v", bag.All())
	}
}

// TestScenarioE_TierRejection compiles a tier-3 extension-field op
// against NockTree (max tier 1) and checks that it fails with
// tier-exceeded.
func TestScenarioE_TierRejection(t *testing.T) {
	fn := &ast.Function{
		Name:        "fold",
		ReturnWidth: 3,
		Body: []ast.Stmt{
			ast.ExprStmt{Value: ast.Intrinsic{Name: "xx_dot_step", Args: []ast.Expr{
				ast.Literal{Values: []uint64{1}, Width: 1},
			}}},
		},
	}
	mod := &ast.Module{Name: "fold_mod", Functions: []*ast.Function{fn}}

	_, bag := trident.Compile(mod, []ast.Instance{{FuncName: "fold"}}, target.NockTree)
	if !bag.HasKind(diag.TierExceeded) {
		t.Fatalf("expected tier-exceeded for a tier-3 op on NockTree, got %v", bag.All())
	}
}

// TestMonomorphizedInstancesGetDistinctLabels compiles two instances of
// the same generic function with different integer-size arguments and
// checks they produce distinct, deterministically labeled sequences.
func TestMonomorphizedInstancesGetDistinctLabels(t *testing.T) {
	fn := &ast.Function{
		Name:          "identity",
		IntSizeParams: []string{"W"},
		Params:        []ast.Param{{Name: "x", Width: 1}},
		ReturnWidth:   1,
		Body:          []ast.Stmt{ast.ReturnStmt{Value: ast.Var{Name: "x"}}},
	}
	mod := &ast.Module{Name: "generic_mod", Functions: []*ast.Function{fn}}

	instances := []ast.Instance{
		{FuncName: "identity", IntArgs: []int64{32}},
		{FuncName: "identity", IntArgs: []int64{64}},
	}
	res, bag := trident.Compile(mod, instances, target.Triton)
	if !bag.OK() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	if len(res.Sequences) != 2 {
		t.Fatalf("expected 2 distinct monomorphized sequences, got %d", len(res.Sequences))
	}
}
