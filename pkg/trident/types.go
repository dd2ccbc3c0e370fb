package trident

import (
	"github.com/trident-lang/trident/internal/trident/costmodel"
	"github.com/trident-lang/trident/internal/trident/tir"
)

// Result is the outcome of compiling every requested instance of a
// module against one target.
type Result struct {
	TargetID string

	// Sequences holds the TIR built for each monomorphized instance,
	// keyed by its derived label (builder.Label).
	Sequences map[string]tir.Sequence

	// Assembly holds the lowered assembly text for each instance, keyed
	// the same way. Empty if the target has no registered backend.
	Assembly map[string]string

	// CostReports holds the cost-model reduction over each instance's
	// TIR, keyed the same way.
	CostReports map[string]costmodel.Report
}
