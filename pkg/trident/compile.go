package trident

import (
	"github.com/trident-lang/trident/internal/trident/ast"
	"github.com/trident-lang/trident/internal/trident/backend"
	"github.com/trident-lang/trident/internal/trident/builder"
	"github.com/trident-lang/trident/internal/trident/costmodel"
	"github.com/trident-lang/trident/internal/trident/diag"
	"github.com/trident-lang/trident/internal/trident/target"
)

// Compile builds TIR for every instance, lowers it against cfg's
// backend (if one is registered for cfg's family), and reduces each
// instance's TIR against cfg's cost descriptor. Diagnostics from every
// stage are merged into a single bag; a non-OK bag does not stop later
// instances from being attempted, matching the diag package's collected,
// non-fatal propagation policy.
func Compile(mod *ast.Module, instances []ast.Instance, cfg target.Config) (Result, diag.Bag) {
	var bag diag.Bag

	buildResult, buildBag := builder.Build(mod, instances, cfg)
	bag.Merge(buildBag)

	res := Result{
		TargetID:    cfg.ID(),
		Sequences:   buildResult.Sequences,
		Assembly:    map[string]string{},
		CostReports: map[string]costmodel.Report{},
	}

	lowering, hasBackend := backend.For(cfg)

	for label, seq := range buildResult.Sequences {
		if hasBackend {
			asm, lowerBag := lowering.Lower(label, seq)
			bag.Merge(lowerBag)
			if lowerBag.OK() {
				res.Assembly[label] = asm
			}
		}
		res.CostReports[label] = costmodel.Reduce(seq, cfg)
	}

	return res, bag
}
