package costmodel

import (
	"testing"

	"github.com/trident-lang/trident/internal/trident/target"
	"github.com/trident-lang/trident/internal/trident/tir"
)

func addTwoSeq() tir.Sequence {
	return tir.Sequence{
		{Kind: tir.KFnStart, Name: "add_two"},
		{Kind: tir.KPush, Literal: tir.NewBaseLiteral(1)},
		{Kind: tir.KPush, Literal: tir.NewBaseLiteral(2)},
		{Kind: tir.KAdd},
		{Kind: tir.KReturn},
		{Kind: tir.KFnEnd},
	}
}

func TestReduceAccumulatesDeclaredContributions(t *testing.T) {
	r := Reduce(addTwoSeq(), target.Triton)
	if r.Rows[target.ProcessorTable] == 0 {
		t.Fatalf("expected nonzero ProcessorTable rows, got report %+v", r)
	}
	if r.Rows[target.OpStackTable] == 0 {
		t.Fatalf("expected nonzero OpStackTable rows from push/add, got report %+v", r)
	}
}

func TestPaddedHeightIsPowerOfTwo(t *testing.T) {
	r := Reduce(addTwoSeq(), target.Triton)
	for table, h := range r.PaddedHeight {
		if !target.IsPow2(h) {
			t.Fatalf("table %s padded height %d is not a power of two", table, h)
		}
	}
}

func TestHotspotsAreSortedDescending(t *testing.T) {
	r := Reduce(addTwoSeq(), target.Triton)
	for i := 1; i < len(r.Hotspots); i++ {
		if r.Hotspots[i-1].TotalRows < r.Hotspots[i].TotalRows {
			t.Fatalf("hotspots not sorted descending: %+v", r.Hotspots)
		}
	}
}

// TestTIRAndAssemblyCostsAgree freezes property 7: reducing the same
// program's TIR and its lowered assembly against the same target
// produces the same op-stack-table row count for the ops common to
// both representations.
func TestTIRAndAssemblyCostsAgree(t *testing.T) {
	tirReport := Reduce(addTwoSeq(), target.Triton)

	asm := "push 1\npush 2\nadd\n"
	asmReport := ReduceAssembly(asm, target.Triton)

	if tirReport.Rows[target.OpStackTable] != asmReport.Rows[target.OpStackTable] {
		t.Fatalf("TIR and assembly OpStackTable rows disagree: %d vs %d", tirReport.Rows[target.OpStackTable], asmReport.Rows[target.OpStackTable])
	}
}

func TestSnapshotDigestIsDeterministic(t *testing.T) {
	r := Reduce(addTwoSeq(), target.Triton)
	s1 := r.Snapshot()
	s2 := r.Snapshot()
	if s1.Digest != s2.Digest {
		t.Fatalf("expected identical digests for identical reports, got %s vs %s", s1.Digest, s2.Digest)
	}
}

func TestCompareReportsPerTableDelta(t *testing.T) {
	before := Reduce(addTwoSeq(), target.Triton).Snapshot()

	seq := addTwoSeq()
	seq = append(seq[:len(seq)-1], tir.Op{Kind: tir.KAdd}, seq[len(seq)-1])
	after := Reduce(seq, target.Triton).Snapshot()

	deltas, err := Compare(before, after)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, d := range deltas {
		if d.Table == target.ProcessorTable && d.Delta > 0 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a positive ProcessorTable delta after adding an op, got %+v", deltas)
	}
}

func TestCompareRejectsMismatchedTargets(t *testing.T) {
	before := Reduce(addTwoSeq(), target.Triton).Snapshot()
	after := Reduce(addTwoSeq(), target.Miden).Snapshot()
	if _, err := Compare(before, after); err == nil {
		t.Fatalf("expected an error comparing snapshots from different targets")
	}
}
