package stackmgr

import (
	"testing"

	"github.com/trident-lang/trident/internal/trident/diag"
)

func mustPush(t *testing.T, m *Manager, id ValueID, width int) {
	t.Helper()
	if kind, msg, hint, bad := m.Push(diag.Span{}, id, width); bad {
		t.Fatalf("unexpected push failure for id %d: %s %s (%s)", id, kind, msg, hint)
	}
}

func TestPushWithinWindowNeverSpills(t *testing.T) {
	m := New(4, true)
	for i := ValueID(1); i <= 4; i++ {
		mustPush(t, m, i, 1)
	}
	if got := len(m.TakeEffects()); got != 0 {
		t.Fatalf("expected no effects while within window, got %d", got)
	}
	if m.Depth() != 4 {
		t.Fatalf("expected depth 4, got %d", m.Depth())
	}
}

// TestEvictionPolicyIsLRUAmongNonTop freezes the eviction policy decided in
// DESIGN.md: on overflow, the least-recently-pushed slot EXCLUDING the
// current top is evicted, never the top itself.
func TestEvictionPolicyIsLRUAmongNonTop(t *testing.T) {
	m := New(3, true)
	mustPush(t, m, 1, 1) // pushOrder 1, oldest
	mustPush(t, m, 2, 1) // pushOrder 2
	mustPush(t, m, 3, 1) // pushOrder 3, current top
	mustPush(t, m, 4, 1) // overflow: must evict id 1, not id 3 (the top)

	effects := m.TakeEffects()
	if len(effects) != 1 {
		t.Fatalf("expected exactly 1 spill effect, got %d: %+v", len(effects), effects)
	}
	spill := effects[0]
	if spill.Kind != Spill {
		t.Fatalf("expected a Spill effect, got %s", spill.Kind)
	}
	if spill.Value != 1 {
		t.Fatalf("expected id 1 (oldest non-top) to be evicted, got id %d", spill.Value)
	}
	if m.Lifetime(1) != LiveInRAM {
		t.Fatalf("expected evicted id 1 to be LiveInRAM, got %v", m.Lifetime(1))
	}
	if m.Lifetime(3) != LiveInWindow {
		t.Fatalf("expected top id 3 to remain LiveInWindow")
	}
	top, err := m.Peek(0)
	if err != nil || top != 4 {
		t.Fatalf("expected top to be freshly pushed id 4, got %d, err %v", top, err)
	}
}

func TestPushWithoutRAMFailsOnOverflow(t *testing.T) {
	m := New(2, false)
	mustPush(t, m, 1, 1)
	mustPush(t, m, 2, 1)
	kind, _, _, bad := m.Push(diag.Span{}, 3, 1)
	if !bad {
		t.Fatalf("expected overflow failure on a RAM-less target")
	}
	if kind != diag.StackWindowExceeded {
		t.Fatalf("expected StackWindowExceeded, got %s", kind)
	}
}

func TestBringToTopReloadsFromRAM(t *testing.T) {
	m := New(2, true)
	mustPush(t, m, 1, 1)
	mustPush(t, m, 2, 1)
	mustPush(t, m, 3, 1) // spills id 1
	m.TakeEffects()

	if kind, _, bad := m.BringToTop(1); bad {
		t.Fatalf("unexpected BringToTop failure: %s", kind)
	}
	effects := m.TakeEffects()
	if len(effects) != 2 || effects[0].Kind != Spill || effects[0].Value != 2 || effects[1].Kind != Reload || effects[1].Value != 1 {
		t.Fatalf("expected a spill of id 2 to make room, then a reload of id 1, got %+v", effects)
	}
	top, err := m.Peek(0)
	if err != nil || top != 1 {
		t.Fatalf("expected id 1 on top after reload, got %d, err %v", top, err)
	}
	if m.Lifetime(1) != LiveInWindow {
		t.Fatalf("expected id 1 LiveInWindow after reload")
	}
}

func TestEffectStringRoundTrip(t *testing.T) {
	cases := []Effect{
		{Kind: Spill, Value: 3, RamAddr: 5, Width: 2},
		{Kind: Reload, Value: 42, RamAddr: 0, Width: 1},
	}
	for _, e := range cases {
		text := e.String()
		got, err := ParseEffect(text)
		if err != nil {
			t.Fatalf("ParseEffect(%q) failed: %v", text, err)
		}
		if got != e {
			t.Fatalf("round trip mismatch: got %+v, want %+v (text %q)", got, e, text)
		}
	}
}

func TestSnapshotRestoreReconcilesIfElseArms(t *testing.T) {
	m := New(2, true)
	mustPush(t, m, 1, 1)
	snap := m.Snapshot()

	mustPush(t, m, 2, 1)
	mustPush(t, m, 3, 1) // spills id 1 on this arm
	m.TakeEffects()

	m.Restore(snap)
	if m.Depth() != 1 {
		t.Fatalf("expected depth 1 after restore, got %d", m.Depth())
	}
	if m.Lifetime(1) != LiveInWindow {
		t.Fatalf("expected id 1 restored to LiveInWindow, got %v", m.Lifetime(1))
	}
	top, err := m.Peek(0)
	if err != nil || top != 1 {
		t.Fatalf("expected id 1 on top after restore, got %d, err %v", top, err)
	}
}

// TestBringToTopTransposesNonTopValue freezes the reviewer-reported
// scenario: three resident locals a, b, c (pushed in that order) where
// a non-commutative op needs a and b on top in original order. Bringing
// a, then b, to the top must each be a single 2-element transpose, not
// a multi-slot rotation, so the emitted instruction stream matches what
// the physical machine actually executes.
func TestBringToTopTransposesNonTopValue(t *testing.T) {
	m := New(8, true)
	mustPush(t, m, 1, 1) // a
	mustPush(t, m, 2, 1) // b
	mustPush(t, m, 3, 1) // c
	m.TakeEffects()

	if kind, _, bad := m.BringToTop(1); bad { // bring a to top
		t.Fatalf("unexpected BringToTop failure: %s", kind)
	}
	effects := m.TakeEffects()
	if len(effects) != 1 || effects[0].Kind != Relocate || effects[0].Value != 1 || effects[0].RamAddr != 2 {
		t.Fatalf("expected a single relocate of id 1 at depth 2, got %+v", effects)
	}
	if got := m.TopIDs(); len(got) != 3 || got[0] != 3 || got[1] != 2 || got[2] != 1 {
		t.Fatalf("expected window [c,b,a], got %v", got)
	}

	if kind, _, bad := m.BringToTop(2); bad { // bring b to top
		t.Fatalf("unexpected BringToTop failure: %s", kind)
	}
	effects = m.TakeEffects()
	if len(effects) != 1 || effects[0].Kind != Relocate || effects[0].Value != 2 || effects[0].RamAddr != 1 {
		t.Fatalf("expected a single relocate of id 2 at depth 1, got %+v", effects)
	}
	if got := m.TopIDs(); len(got) != 3 || got[0] != 3 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("expected window [c,a,b] (a below top, b on top), got %v", got)
	}
}

// TestBringToTopAlreadyOnTopIsNoOp freezes that moving the current top
// to the top emits nothing.
func TestBringToTopAlreadyOnTopIsNoOp(t *testing.T) {
	m := New(4, true)
	mustPush(t, m, 1, 1)
	mustPush(t, m, 2, 1)
	m.TakeEffects()

	if kind, _, bad := m.BringToTop(2); bad {
		t.Fatalf("unexpected BringToTop failure: %s", kind)
	}
	if effects := m.TakeEffects(); len(effects) != 0 {
		t.Fatalf("expected no effects bringing the current top to itself, got %+v", effects)
	}
}

// TestDupLeavesOriginalResidentInWindow checks dup(k)'s copy semantics:
// the source stays exactly where it was, and a new id appears on top.
func TestDupLeavesOriginalResidentInWindow(t *testing.T) {
	m := New(8, true)
	mustPush(t, m, 1, 1)
	mustPush(t, m, 2, 1)
	m.TakeEffects()

	if kind, _, _, bad := m.Dup(diag.Span{}, 1, 99, 1); bad {
		t.Fatalf("unexpected Dup failure: %s", kind)
	}
	effects := m.TakeEffects()
	if len(effects) != 1 || effects[0].Kind != Duplicate || effects[0].Value != 99 || effects[0].RamAddr != 1 {
		t.Fatalf("expected a single duplicate of new id 99 at depth 1, got %+v", effects)
	}
	if got := m.TopIDs(); len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 99 {
		t.Fatalf("expected window [a,b,dup(a)] with original a still resident, got %v", got)
	}
	if m.Lifetime(1) != LiveInWindow {
		t.Fatalf("expected original id 1 to remain LiveInWindow after dup")
	}
}

// TestDupFromRAMIsNonDestructive checks that duplicating a RAM-resident
// value reloads a fresh copy without deleting the RAM-resident source.
func TestDupFromRAMIsNonDestructive(t *testing.T) {
	m := New(2, true)
	mustPush(t, m, 1, 1)
	mustPush(t, m, 2, 1)
	mustPush(t, m, 3, 1) // spills id 1
	m.TakeEffects()
	if err := m.Pop(1); err != nil { // drop id 3, freeing window room
		t.Fatalf("unexpected pop error: %v", err)
	}

	if kind, _, _, bad := m.Dup(diag.Span{}, 1, 99, 1); bad {
		t.Fatalf("unexpected Dup failure: %s", kind)
	}
	effects := m.TakeEffects()
	if len(effects) != 1 || effects[0].Kind != Reload || effects[0].Value != 99 {
		t.Fatalf("expected a single reload-as-copy of new id 99, got %+v", effects)
	}
	if _, ok := m.ramAddrOf[1]; !ok {
		t.Fatalf("expected source id 1 to remain RAM-resident after a non-destructive dup")
	}
	top, err := m.Peek(0)
	if err != nil || top != 99 {
		t.Fatalf("expected the fresh copy id 99 on top, got %d, err %v", top, err)
	}
}

func TestPopDiscardsTop(t *testing.T) {
	m := New(4, true)
	mustPush(t, m, 1, 1)
	mustPush(t, m, 2, 1)
	if err := m.Pop(1); err != nil {
		t.Fatalf("unexpected pop error: %v", err)
	}
	if m.Lifetime(2) != Dead {
		t.Fatalf("expected id 2 dead after pop")
	}
	top, err := m.Peek(0)
	if err != nil || top != 1 {
		t.Fatalf("expected id 1 on top after popping id 2, got %d, err %v", top, err)
	}
}
