// Package stackmgr implements the abstract operand-stack model used
// during TIR construction. It presents an unbounded logical stack to the
// builder while staying faithful to a target's finite physical stack
// window, spilling values to a RAM-backed arena and reloading them on
// demand. Generalized from the window+RAM shape of
// internal/vybium-starks-vm/vm/vm_state.go's Stack/StackPointer/RAM
// fields, which are fixed at a 16-slot physical window; here the window
// size is a parameter taken from target.Config.
package stackmgr

import (
	"fmt"

	"github.com/trident-lang/trident/internal/trident/diag"
)

// Lifetime is the location of a logical value.
type Lifetime int

const (
	LiveInWindow Lifetime = iota
	LiveInRAM
	Dead
)

// ValueID identifies a logical value independent of its current location.
type ValueID int64

type slot struct {
	id    ValueID
	width int
	// pushOrder is a monotonic counter recording when this id was last
	// pushed into the window, used to implement the LRU-among-non-top
	// eviction policy (spec §9 open question, frozen — see DESIGN.md).
	pushOrder uint64
}

// Manager is the StackManager. One Manager is owned by the TIRBuilder for
// the duration of a single function and discarded at FnEnd.
type Manager struct {
	window      int // physical stack window size (0 = unbounded, circuit/tree families without RAM must never overflow)
	hasRAM      bool
	stackSlots  []slot
	ramAddrOf   map[ValueID]int64
	widthOf     map[ValueID]int
	lifetimeOf  map[ValueID]Lifetime
	nextRAMAddr int64
	pushCounter uint64

	// Effects accumulated since the last Take call.
	pending []Effect
}

// EffectKind distinguishes a spill (window -> RAM) from a reload
// (RAM -> window), and the two in-window reorder forms: Relocate (an
// existing value is transposed to the top, native `swap`) and
// Duplicate (a copy of an existing value is pushed to the top, native
// `dup`, leaving the original resident). For Relocate/Duplicate,
// Effect.RamAddr carries the value's pre-move depth from the top
// (0-based, top itself excluded) rather than a RAM address.
type EffectKind int

const (
	Spill EffectKind = iota
	Reload
	Relocate
	Duplicate
)

func (k EffectKind) String() string {
	switch k {
	case Spill:
		return "spill"
	case Reload:
		return "reload"
	case Relocate:
		return "relocate"
	case Duplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// Effect is a typed descriptor a lowering backend maps to a target-native
// memory instruction (spec §4.1 "Spill format").
type Effect struct {
	Kind    EffectKind
	Value   ValueID
	RamAddr int64
	Width   int
}

// String renders the stable textual encoding spec §4.1 requires
// ("so it can be round-tripped in tests").
func (e Effect) String() string {
	return fmt.Sprintf("%s %d %d @%d", e.Kind, e.Value, e.Width, e.RamAddr)
}

// ParseEffect is the inverse of Effect.String, used to round-trip spill
// descriptors in tests (SPEC_FULL.md §6).
func ParseEffect(text string) (Effect, error) {
	var kindStr string
	var value, width, addr int64
	n, err := fmt.Sscanf(text, "%s %d %d @%d", &kindStr, &value, &width, &addr)
	if err != nil || n != 4 {
		return Effect{}, fmt.Errorf("stackmgr: malformed effect %q: %w", text, err)
	}
	var kind EffectKind
	switch kindStr {
	case "spill":
		kind = Spill
	case "reload":
		kind = Reload
	case "relocate":
		kind = Relocate
	case "duplicate":
		kind = Duplicate
	default:
		return Effect{}, fmt.Errorf("stackmgr: unknown effect kind %q", kindStr)
	}
	return Effect{Kind: kind, Value: ValueID(value), RamAddr: addr, Width: int(width)}, nil
}

// New constructs a Manager for a target with the given physical window
// size (0 means unbounded/no window, e.g. register machines) and whether
// the target has RAM available for spilling (false for circuit family).
func New(window int, hasRAM bool) *Manager {
	return &Manager{
		window:     window,
		hasRAM:     hasRAM,
		ramAddrOf:  map[ValueID]int64{},
		widthOf:    map[ValueID]int{},
		lifetimeOf: map[ValueID]Lifetime{},
	}
}

// Depth returns the number of logical values currently resident in the
// physical window (top of stack last).
func (m *Manager) Depth() int {
	return len(m.stackSlots)
}

// TakeEffects drains and returns the effects accumulated since the last
// call, in emission order.
func (m *Manager) TakeEffects() []Effect {
	out := m.pending
	m.pending = nil
	return out
}

func (m *Manager) emit(e Effect) {
	m.pending = append(m.pending, e)
}

// Push records a logical push of value id with the given width. If the
// window would exceed its physical size, a spill is emitted first,
// evicting the least-recently-pushed non-top slot.
func (m *Manager) Push(span diag.Span, id ValueID, width int) (diag.Kind, string, string, bool) {
	m.widthOf[id] = width
	m.lifetimeOf[id] = LiveInWindow
	m.pushCounter++
	if m.window > 0 {
		for len(m.stackSlots) >= m.window {
			if !m.hasRAM {
				return diag.StackWindowExceeded, "pushing a new value would exceed the physical stack window",
					"reduce live values before this point, or target a VM with a RAM-backed spill arena", true
			}
			if err := m.spillOne(); err != nil {
				return diag.InternalInvariant, err.Error(), "", true
			}
		}
	}
	m.stackSlots = append(m.stackSlots, slot{id: id, width: width, pushOrder: m.pushCounter})
	return 0, "", "", false
}

// spillOne evicts the least-recently-pushed non-top slot to RAM.
func (m *Manager) spillOne() error {
	if len(m.stackSlots) < 2 {
		return fmt.Errorf("stackmgr: cannot spill with fewer than 2 live window slots")
	}
	evictIdx := 0
	var oldest uint64 = ^uint64(0)
	for i := 0; i < len(m.stackSlots)-1; i++ { // exclude top (last index)
		if m.stackSlots[i].pushOrder < oldest {
			oldest = m.stackSlots[i].pushOrder
			evictIdx = i
		}
	}
	victim := m.stackSlots[evictIdx]
	addr := m.allocRAM(victim.width)
	m.ramAddrOf[victim.id] = addr
	m.lifetimeOf[victim.id] = LiveInRAM
	m.emit(Effect{Kind: Spill, Value: victim.id, RamAddr: addr, Width: victim.width})
	m.stackSlots = append(m.stackSlots[:evictIdx], m.stackSlots[evictIdx+1:]...)
	return nil
}

func (m *Manager) allocRAM(width int) int64 {
	addr := m.nextRAMAddr
	m.nextRAMAddr += int64(width)
	return addr
}

// Pop discards the top n logical slots, whatever values they hold (deep
// pop variants are not exposed directly; callers use BringToTop first).
// Popping from an empty window returns an error.
func (m *Manager) Pop(n int) error {
	for i := 0; i < n; i++ {
		if len(m.stackSlots) == 0 {
			return fmt.Errorf("stackmgr: pop from empty window")
		}
		top := m.stackSlots[len(m.stackSlots)-1]
		m.lifetimeOf[top.id] = Dead
		m.stackSlots = m.stackSlots[:len(m.stackSlots)-1]
	}
	return nil
}

// BringToTop ensures value id is the top of the window, reloading it from
// RAM if needed (possibly evicting another value to make room) and
// otherwise transposing it with the current top — exactly the native
// `swap <depth>` instruction (teacher's Swap: "swap the top element with
// stack[i]"), not a multi-slot rotation, so a single emitted Relocate
// effect faithfully matches the one instruction the backends lower it to.
func (m *Manager) BringToTop(id ValueID) (diag.Kind, string, bool) {
	if m.lifetimeOf[id] == Dead {
		return diag.InternalInvariant, fmt.Sprintf("stackmgr: value %d is dead", id), true
	}
	if idx := m.windowIndex(id); idx >= 0 {
		topIdx := len(m.stackSlots) - 1
		if idx == topIdx {
			return 0, "", false
		}
		depth := topIdx - idx
		m.stackSlots[idx], m.stackSlots[topIdx] = m.stackSlots[topIdx], m.stackSlots[idx]
		m.stackSlots[topIdx].pushOrder = m.bumpCounter()
		width := m.widthOf[id]
		m.emit(Effect{Kind: Relocate, Value: id, RamAddr: int64(depth), Width: width})
		return 0, "", false
	}
	// Value lives in RAM: make room, then reload.
	width := m.widthOf[id]
	if m.window > 0 {
		for len(m.stackSlots) >= m.window {
			if !m.hasRAM {
				return diag.StackWindowExceeded, "reload would exceed the physical stack window", true
			}
			if err := m.spillOne(); err != nil {
				return diag.InternalInvariant, err.Error(), true
			}
		}
	}
	addr := m.ramAddrOf[id]
	delete(m.ramAddrOf, id)
	m.lifetimeOf[id] = LiveInWindow
	m.emit(Effect{Kind: Reload, Value: id, RamAddr: addr, Width: width})
	m.stackSlots = append(m.stackSlots, slot{id: id, width: width, pushOrder: m.bumpCounter()})
	return 0, "", false
}

func (m *Manager) bumpCounter() uint64 {
	m.pushCounter++
	return m.pushCounter
}

func (m *Manager) windowIndex(id ValueID) int {
	for i, s := range m.stackSlots {
		if s.id == id {
			return i
		}
	}
	return -1
}

// Peek returns the logical id resident k slots below the top (0 = top
// itself) without moving anything.
func (m *Manager) Peek(k int) (ValueID, error) {
	if k < 0 || k >= len(m.stackSlots) {
		// Value may be in RAM underflow region; caller must bring to top
		// first via a RAM-aware lookup, which Dup/Swap callers do via
		// BringToTop on the underflow id they track themselves.
		return 0, fmt.Errorf("stackmgr: depth %d not resident in window (window depth %d)", k, len(m.stackSlots))
	}
	return m.stackSlots[len(m.stackSlots)-1-k].id, nil
}

// Dup pushes a fresh copy of srcID onto the top of the window, registered
// under newID, leaving srcID itself resident at its current location —
// the copy semantics spec.md §4.1's dup(k) names as distinct from
// BringToTop's relocate. srcID may be window-resident (native `dup
// <depth>`) or RAM-resident (a non-destructive reload: the RAM copy stays
// put, a fresh window slot is written from it).
func (m *Manager) Dup(span diag.Span, srcID, newID ValueID, width int) (diag.Kind, string, string, bool) {
	if m.lifetimeOf[srcID] == Dead {
		return diag.InternalInvariant, fmt.Sprintf("stackmgr: dup source %d is dead", srcID), "", true
	}
	depth := -1
	if idx := m.windowIndex(srcID); idx >= 0 {
		depth = len(m.stackSlots) - 1 - idx
	}

	if m.window > 0 {
		for len(m.stackSlots) >= m.window {
			if !m.hasRAM {
				return diag.StackWindowExceeded, "duplicating a value would exceed the physical stack window",
					"reduce live values before this point, or target a VM with a RAM-backed spill arena", true
			}
			if err := m.spillOne(); err != nil {
				return diag.InternalInvariant, err.Error(), "", true
			}
			if idx := m.windowIndex(srcID); idx >= 0 {
				depth = len(m.stackSlots) - 1 - idx
			}
		}
	}

	m.widthOf[newID] = width
	m.lifetimeOf[newID] = LiveInWindow
	m.pushCounter++
	m.stackSlots = append(m.stackSlots, slot{id: newID, width: width, pushOrder: m.pushCounter})

	if depth >= 0 {
		m.emit(Effect{Kind: Duplicate, Value: newID, RamAddr: int64(depth), Width: width})
		return 0, "", "", false
	}
	addr, ok := m.ramAddrOf[srcID]
	if !ok {
		return diag.InternalInvariant, fmt.Sprintf("stackmgr: dup source %d not resident anywhere", srcID), "", true
	}
	m.emit(Effect{Kind: Reload, Value: newID, RamAddr: addr, Width: width})
	return 0, "", "", false
}

// Drop marks a value dead and frees its RAM slot, if any, for reuse.
func (m *Manager) Drop(id ValueID) {
	m.lifetimeOf[id] = Dead
	delete(m.ramAddrOf, id)
}

// Lifetime reports the current residency of a logical value.
func (m *Manager) Lifetime(id ValueID) Lifetime {
	return m.lifetimeOf[id]
}

// Snapshot is an immutable capture of window+RAM state, used to
// reconcile the two arms of an IfElse (spec §4.1 snapshot()/restore()).
type Snapshot struct {
	window      []slot
	ramAddrOf   map[ValueID]int64
	widthOf     map[ValueID]int
	lifetimeOf  map[ValueID]Lifetime
	nextRAMAddr int64
	pushCounter uint64
}

// Snapshot captures the current state.
func (m *Manager) Snapshot() Snapshot {
	s := Snapshot{
		window:      append([]slot(nil), m.stackSlots...),
		ramAddrOf:   make(map[ValueID]int64, len(m.ramAddrOf)),
		widthOf:     make(map[ValueID]int, len(m.widthOf)),
		lifetimeOf:  make(map[ValueID]Lifetime, len(m.lifetimeOf)),
		nextRAMAddr: m.nextRAMAddr,
		pushCounter: m.pushCounter,
	}
	for k, v := range m.ramAddrOf {
		s.ramAddrOf[k] = v
	}
	for k, v := range m.widthOf {
		s.widthOf[k] = v
	}
	for k, v := range m.lifetimeOf {
		s.lifetimeOf[k] = v
	}
	return s
}

// Restore reverts the Manager to a previously captured Snapshot.
func (m *Manager) Restore(s Snapshot) {
	m.stackSlots = append([]slot(nil), s.window...)
	m.ramAddrOf = make(map[ValueID]int64, len(s.ramAddrOf))
	for k, v := range s.ramAddrOf {
		m.ramAddrOf[k] = v
	}
	m.widthOf = make(map[ValueID]int, len(s.widthOf))
	for k, v := range s.widthOf {
		m.widthOf[k] = v
	}
	m.lifetimeOf = make(map[ValueID]Lifetime, len(s.lifetimeOf))
	for k, v := range s.lifetimeOf {
		m.lifetimeOf[k] = v
	}
	m.nextRAMAddr = s.nextRAMAddr
	m.pushCounter = s.pushCounter
}

// TopIDs returns the logical ids currently in the window, bottom to top,
// used by the builder to compare post-states of an IfElse's two arms
// (spec invariant 3: "identical top-of-stack value ids and RAM layout").
func (m *Manager) TopIDs() []ValueID {
	out := make([]ValueID, len(m.stackSlots))
	for i, s := range m.stackSlots {
		out[i] = s.id
	}
	return out
}

// RAMLayout returns a stable snapshot of which ids currently live in RAM
// and at what address, for IfElse reconciliation comparisons.
func (m *Manager) RAMLayout() map[ValueID]int64 {
	out := make(map[ValueID]int64, len(m.ramAddrOf))
	for k, v := range m.ramAddrOf {
		out[k] = v
	}
	return out
}
