// Package backend implements Trident's per-target lowering backends: the
// single-method Lowering contract and the For(Config) factory that picks
// a concrete backend by target family. Generalized from the teacher's
// own single fixed lowering (internal/vybium-starks-vm/vm/instruction.go
// encodes one ISA directly); here the same TIR sequence lowers
// differently depending on the target's architectural family, the way
// wazero's internal/engine selects a compiler backend per host
// architecture (tetratelabs-wazero/internal/engine).
package backend

import (
	"fmt"

	"github.com/trident-lang/trident/internal/trident/diag"
	"github.com/trident-lang/trident/internal/trident/target"
	"github.com/trident-lang/trident/internal/trident/tir"
)

// Lowering turns one function's TIR sequence into target-native assembly
// text. Implementations never mutate the sequence they are given.
type Lowering interface {
	Lower(name string, seq tir.Sequence) (string, diag.Bag)
}

// For returns the Lowering backend for cfg's family, or false if no
// backend is registered for it.
func For(cfg target.Config) (Lowering, bool) {
	switch cfg.Family() {
	case target.Stack:
		if cfg.ID() == target.Miden.ID() {
			return &midenLowering{cfg: cfg}, true
		}
		return &tritonLowering{cfg: cfg}, true
	case target.Register:
		return &riscvLowering{cfg: cfg}, true
	case target.Tree:
		return &nockLowering{cfg: cfg}, true
	default:
		return nil, false
	}
}

// checkTier rejects any op (including nested bodies) above cfg's
// declared max tier, collecting one diagnostic per offending op rather
// than stopping at the first (diag package propagation policy).
func checkTier(cfg target.Config, seq tir.Sequence, bag *diag.Bag) {
	for _, op := range seq {
		if t := op.Kind.Tier(); t > cfg.MaxTier() {
			bag.Add(diag.TierExceeded, op.Span,
				fmt.Sprintf("op %q is tier %d, target %q supports up to tier %d", op.Kind, t, cfg.ID(), cfg.MaxTier()),
				"lower the function's tier requirement or pick a target with higher tier support")
		}
		checkTier(cfg, op.Then, bag)
		checkTier(cfg, op.Else, bag)
	}
}
