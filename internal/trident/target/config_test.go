package target

import "testing"

func TestBuiltinConfigsValidate(t *testing.T) {
	for _, cfg := range []Config{Triton, Miden, RiscV32, NockTree} {
		if cfg.ID() == "" {
			t.Fatalf("built-in config has empty ID")
		}
	}
	if Miden.StackWindow() != 16 {
		t.Fatalf("Miden must pin a 16-slot stack window, got %d", Miden.StackWindow())
	}
	if Triton.StackWindow() != 16 {
		t.Fatalf("Triton must pin a 16-slot stack window, got %d", Triton.StackWindow())
	}
	if RiscV32.StackWindow() != 0 {
		t.Fatalf("RiscV32 must declare no physical stack window")
	}
	if NockTree.MaxTier() != 1 {
		t.Fatalf("NockTree must cap at tier 1, got %d", NockTree.MaxTier())
	}
	if !RiscV32.HasRAM() || !NockTree.HasRAM() {
		t.Fatalf("register and tree families are expected to carry RAM in this corpus")
	}
}

func TestByID(t *testing.T) {
	if cfg, ok := ByID("triton"); !ok || cfg.Family() != Stack {
		t.Fatalf("ByID(triton) failed: ok=%v cfg=%+v", ok, cfg)
	}
	if _, ok := ByID("nonexistent"); ok {
		t.Fatalf("ByID(nonexistent) unexpectedly succeeded")
	}
}

func TestBuilderRejectsInconsistentConfigs(t *testing.T) {
	if _, err := NewBuilder("", Stack).WithStackWindow(16).Build(); err == nil {
		t.Fatalf("expected error for empty id")
	}
	if _, err := NewBuilder("bad-circuit", Circuit).WithStackWindow(8).Build(); err == nil {
		t.Fatalf("expected error for circuit family with a stack window")
	}
	if _, err := NewBuilder("bad-stack", Stack).WithStackWindow(0).Build(); err == nil {
		t.Fatalf("expected error for stack family with no window")
	}
	if _, err := NewBuilder("bad-tier", Stack).WithStackWindow(16).WithMaxTier(9).Build(); err == nil {
		t.Fatalf("expected error for out-of-range max tier")
	}
}

func TestContributionUnknownKeyReturnsZeroValue(t *testing.T) {
	c := Triton.Contribution("definitely-not-a-real-op")
	if len(c) != 0 {
		t.Fatalf("expected zero Contribution for unknown key, got %+v", c)
	}
}

func TestPow2Helpers(t *testing.T) {
	if !IsPow2(16) || IsPow2(15) || IsPow2(0) {
		t.Fatalf("IsPow2 disagreement")
	}
	if PadPow2(17) != 32 || PadPow2(16) != 16 || PadPow2(0) != 1 {
		t.Fatalf("PadPow2 disagreement")
	}
	if Log2OfPow2(32) != 5 || Log2OfPow2(15) != -1 {
		t.Fatalf("Log2OfPow2 disagreement")
	}
}
