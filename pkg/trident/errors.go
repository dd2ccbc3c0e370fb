package trident

import "github.com/trident-lang/trident/internal/trident/diag"

// Diagnostic and Kind are re-exported so callers outside this module
// never need to import the internal diag package directly.
type Diagnostic = diag.Diagnostic
type Kind = diag.Kind

const (
	TierExceeded           = diag.TierExceeded
	StackWindowExceeded    = diag.StackWindowExceeded
	UnsupportedFeature     = diag.UnsupportedFeature
	LayoutOverflow         = diag.LayoutOverflow
	InlineAsmStackMismatch = diag.InlineAsmStackMismatch
	CostBudgetExceeded     = diag.CostBudgetExceeded
	InternalInvariant      = diag.InternalInvariant
)
