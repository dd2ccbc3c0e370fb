// Package diag provides Trident's fixed diagnostic vocabulary.
//
// Every phase of the compiler — StackManager, TIRBuilder, Lowering,
// CostModel — reports failures through this package instead of returning
// ad hoc errors. Diagnostics are collected, never fatal: a single
// compilation can report many of them (spec §7 propagation policy).
package diag

import "fmt"

// Kind is one of the fixed error kinds a Trident phase can report.
type Kind int

const (
	// TierExceeded: a TIR op's tier is above the backend's declared max tier.
	TierExceeded Kind = iota

	// StackWindowExceeded: a spill was required on a target with no RAM.
	StackWindowExceeded

	// UnsupportedFeature: e.g. extension field on a family lacking it, or
	// recursion in the call graph.
	UnsupportedFeature

	// LayoutOverflow: a value's width exceeds a target-specific maximum.
	LayoutOverflow

	// InlineAsmStackMismatch: a declared inline-asm net stack effect
	// contradicts what a subsequent op requires.
	InlineAsmStackMismatch

	// CostBudgetExceeded: only produced when the driver supplies a budget.
	CostBudgetExceeded

	// InternalInvariant is reserved for bugs and should never surface.
	InternalInvariant
)

func (k Kind) String() string {
	switch k {
	case TierExceeded:
		return "tier-exceeded"
	case StackWindowExceeded:
		return "stack-window-exceeded"
	case UnsupportedFeature:
		return "unsupported-feature"
	case LayoutOverflow:
		return "layout-overflow"
	case InlineAsmStackMismatch:
		return "inline-asm-stack-mismatch"
	case CostBudgetExceeded:
		return "cost-budget-exceeded"
	case InternalInvariant:
		return "internal-invariant"
	default:
		return fmt.Sprintf("unknown-diag-kind(%d)", int(k))
	}
}

// Span locates a diagnostic in the original source. File is empty when the
// span originates from a synthetic or test-built TIR sequence.
type Span struct {
	File string
	Line int
	Col  int
}

func (s Span) String() string {
	if s.File == "" && s.Line == 0 && s.Col == 0 {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Kind    Kind
	Span    Span
	Message string
	Hint    string
}

func (d Diagnostic) Error() string {
	if d.Hint != "" {
		return fmt.Sprintf("%s: %s at %s (hint: %s)", d.Kind, d.Message, d.Span, d.Hint)
	}
	return fmt.Sprintf("%s: %s at %s", d.Kind, d.Message, d.Span)
}

// Bag collects diagnostics across a compilation. The zero value is ready
// to use.
type Bag struct {
	items []Diagnostic
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(kind Kind, span Span, message, hint string) {
	b.items = append(b.items, Diagnostic{Kind: kind, Span: span, Message: message, Hint: hint})
}

// Invariant records an internal-invariant diagnostic. It exists so that
// defensive default: switch arms have one blessed, non-panicking way to
// report "this should never happen" without constructing InternalInvariant
// diagnostics ad hoc elsewhere in the codebase.
func (b *Bag) Invariant(span Span, message string) {
	b.Add(InternalInvariant, span, message, "this indicates a Trident bug; please file a report")
}

// OK reports whether the bag has no diagnostics.
func (b *Bag) OK() bool {
	return len(b.items) == 0
}

// All returns every collected diagnostic, in report order.
func (b *Bag) All() []Diagnostic {
	return b.items
}

// HasKind reports whether any diagnostic of the given kind was collected.
func (b *Bag) HasKind(k Kind) bool {
	for _, d := range b.items {
		if d.Kind == k {
			return true
		}
	}
	return false
}

// Merge appends another bag's diagnostics onto this one.
func (b *Bag) Merge(other Bag) {
	b.items = append(b.items, other.items...)
}
