package tir

import "testing"

func sampleSequence() Sequence {
	return Sequence{
		{Kind: KFnStart, Name: "f"},
		{Kind: KPush, Literal: NewBaseLiteral(7)},
		{Kind: KDup, Depth: 0},
		{Kind: KAdd},
		{Kind: KIfElse,
			Then: Sequence{{Kind: KPush, Literal: NewBaseLiteral(1)}},
			Else: Sequence{{Kind: KPush, Literal: NewBaseLiteral(2)}},
		},
		{Kind: KLoop, Bound: 4, Then: Sequence{{Kind: KPop, N: 1}}},
		{Kind: KRamWrite, Addr: 3},
		{Kind: KInlineAsm, TargetTag: "triton", NetStackEffect: -1, Lines: []string{"skiz call foo"}},
		{Kind: KReturn},
		{Kind: KFnEnd},
	}
}

// TestParsePrintRoundTrip checks property 6 on a sample sequence:
// Parse(Print(s)) yields the same number of ops, and printing the parsed
// sequence reproduces Print(s) exactly.
func TestParsePrintRoundTrip(t *testing.T) {
	seq := sampleSequence()
	text := Print(seq)

	parsed, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v\ntext:\n%s", err, text)
	}
	if len(parsed) != len(seq) {
		t.Fatalf("length mismatch: got %d ops, want %d\ntext:\n%s", len(parsed), len(seq), text)
	}
	roundTripText := Print(parsed)
	if roundTripText != text {
		t.Fatalf("round trip text mismatch:\ngot:\n%s\nwant:\n%s", roundTripText, text)
	}
}

func TestMaxTierDescendsIntoNestedBodies(t *testing.T) {
	seq := Sequence{
		{Kind: KIfOnly, Then: Sequence{{Kind: KExtFieldNew}}},
	}
	if got := seq.MaxTier(); got != 3 {
		t.Fatalf("expected MaxTier 3 from nested extension-field op, got %d", got)
	}
}

func TestKindStringAndTier(t *testing.T) {
	if KAdd.String() != "add" {
		t.Fatalf("expected add, got %s", KAdd.String())
	}
	if KAdd.Tier() != 1 {
		t.Fatalf("expected tier 1, got %d", KAdd.Tier())
	}
	if KSpongeInit.Tier() != 2 {
		t.Fatalf("expected tier 2, got %d", KSpongeInit.Tier())
	}
}
