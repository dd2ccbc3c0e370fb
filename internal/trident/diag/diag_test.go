package diag

import "testing"

func TestBagAddAndOK(t *testing.T) {
	var b Bag
	if !b.OK() {
		t.Fatalf("zero-value Bag should be OK")
	}
	b.Add(TierExceeded, Span{File: "f.tri", Line: 3, Col: 1}, "too fancy", "simplify")
	if b.OK() {
		t.Fatalf("Bag with a diagnostic should not be OK")
	}
	if !b.HasKind(TierExceeded) {
		t.Fatalf("expected HasKind(TierExceeded) to be true")
	}
	if b.HasKind(LayoutOverflow) {
		t.Fatalf("expected HasKind(LayoutOverflow) to be false")
	}
}

func TestInvariantUsesFixedHint(t *testing.T) {
	var b Bag
	b.Invariant(Span{}, "should never happen")
	all := b.All()
	if len(all) != 1 || all[0].Kind != InternalInvariant {
		t.Fatalf("expected a single InternalInvariant diagnostic, got %+v", all)
	}
	if all[0].Hint == "" {
		t.Fatalf("expected Invariant to attach a non-empty hint")
	}
}

func TestMergeAppendsInOrder(t *testing.T) {
	var a, b Bag
	a.Add(TierExceeded, Span{}, "first", "")
	b.Add(LayoutOverflow, Span{}, "second", "")
	a.Merge(b)
	all := a.All()
	if len(all) != 2 || all[0].Message != "first" || all[1].Message != "second" {
		t.Fatalf("unexpected merge order: %+v", all)
	}
}

func TestSpanStringUnknownForZeroValue(t *testing.T) {
	if got := (Span{}).String(); got != "<unknown>" {
		t.Fatalf("expected <unknown>, got %q", got)
	}
}

func TestDiagnosticErrorIncludesHintWhenPresent(t *testing.T) {
	d := Diagnostic{Kind: CostBudgetExceeded, Span: Span{}, Message: "too costly", Hint: "trim loops"}
	if got := d.Error(); got == "" {
		t.Fatalf("expected non-empty error string")
	}
	withoutHint := Diagnostic{Kind: CostBudgetExceeded, Span: Span{}, Message: "too costly"}
	if withoutHint.Error() == d.Error() {
		t.Fatalf("expected hint to change the rendered message")
	}
}
