// Package tir implements the Trident Intermediate Representation: a
// tiered, structural op sequence between the type-checked AST and target
// assembly. It is generalized from the teacher's flat, tagged
// Instruction + InstructionInfo + AllInstructions pattern
// (internal/vybium-starks-vm/vm/instruction.go) to a nested-body,
// four-tier op set.
package tir

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/trident-lang/trident/internal/trident/diag"
)

// Kind identifies one TIR op variant.
type Kind int

const (
	// Tier 0 — structure
	KFnStart Kind = iota
	KFnEnd
	KLabel
	KIfOnly
	KIfElse
	KLoop
	KReturn

	// Tier 1 — stack / arithmetic
	KPush
	KDup
	KSwap
	KPop
	KAdd
	KSub
	KMul
	KNeg
	KInv
	KEq
	KLt
	KAnd
	KOr
	KXor
	KDivMod
	KSplit
	KPow
	KLog2
	KPopCount

	// Tier 1 — I/O
	KPubRead
	KPubWrite
	KHint

	// Tier 1 — memory
	KRamRead
	KRamWrite
	KRamReadBlock
	KRamWriteBlock

	// Tier 1 — hash
	KHashDigest
	KEmitEvent
	KSealEvent

	// Tier 1 — storage
	KStorageRead
	KStorageWrite

	// Tier 2 — sponge / Merkle
	KSpongeInit
	KSpongeAbsorb
	KSpongeSqueeze
	KSpongeAbsorbMem
	KMerkleStep
	KMerkleStepMem

	// Tier 3 — recursion / extension field
	KExtFieldNew
	KExtFieldInv
	KXXAdd
	KXXMul
	KXBMul
	KXXDotStep
	KXBDotStep
	KFoldExt

	// Tier 1 — assertion
	KAssert

	// Tier-less
	KInlineAsm
)

// KindInfo is metadata about a Kind, generalizing the teacher's
// InstructionInfo (name, stack effect, whether it carries an argument).
type KindInfo struct {
	Kind Kind
	Name string
	Tier int
	// Pops/Pushes describe the declared stack delta in logical slots
	// (spec §3: "every TIR op has a declared stack delta"). For ops whose
	// effect depends on a runtime argument (Pop(n), RamReadBlock(addr,n),
	// InlineAsm) these are -1 sentinels; callers must consult the op's
	// payload instead.
	Pops, Pushes int
}

// AllKinds is the frozen catalogue of every TIR op kind, generalizing the
// teacher's AllInstructions map.
var AllKinds = map[Kind]KindInfo{
	KFnStart: {KFnStart, "fn_start", 0, 0, 0},
	KFnEnd:   {KFnEnd, "fn_end", 0, 0, 0},
	KLabel:   {KLabel, "label", 0, 0, 0},
	KIfOnly:  {KIfOnly, "if_only", 0, 1, 0},
	KIfElse:  {KIfElse, "if_else", 0, 1, 0},
	KLoop:    {KLoop, "loop", 0, 0, 0},
	KReturn:  {KReturn, "return", 0, 0, 0},

	KPush:     {KPush, "push", 1, 0, 1},
	KDup:      {KDup, "dup", 1, 0, 1},
	KSwap:     {KSwap, "swap", 1, 0, 0},
	KPop:      {KPop, "pop", 1, -1, 0},
	KAdd:      {KAdd, "add", 1, 2, 1},
	KSub:      {KSub, "sub", 1, 2, 1},
	KMul:      {KMul, "mul", 1, 2, 1},
	KNeg:      {KNeg, "neg", 1, 1, 1},
	KInv:      {KInv, "inv", 1, 1, 1},
	KEq:       {KEq, "eq", 1, 2, 1},
	KLt:       {KLt, "lt", 1, 2, 1},
	KAnd:      {KAnd, "and", 1, 2, 1},
	KOr:       {KOr, "or", 1, 2, 1},
	KXor:      {KXor, "xor", 1, 2, 1},
	KDivMod:   {KDivMod, "div_mod", 1, 2, 2},
	KSplit:    {KSplit, "split", 1, 1, 2},
	KPow:      {KPow, "pow", 1, 2, 1},
	KLog2:     {KLog2, "log_2_floor", 1, 1, 1},
	KPopCount: {KPopCount, "pop_count", 1, 1, 1},

	KPubRead:  {KPubRead, "pub_read", 1, 0, 1},
	KPubWrite: {KPubWrite, "pub_write", 1, 1, 0},
	KHint:     {KHint, "hint", 1, 0, 1},

	KRamRead:       {KRamRead, "ram_read", 1, 1, 1},
	KRamWrite:      {KRamWrite, "ram_write", 1, 2, 0},
	KRamReadBlock:  {KRamReadBlock, "ram_read_block", 1, -1, -1},
	KRamWriteBlock: {KRamWriteBlock, "ram_write_block", 1, -1, 0},

	KHashDigest: {KHashDigest, "hash_digest", 1, -1, -1},
	KEmitEvent:  {KEmitEvent, "emit_event", 1, -1, 0},
	KSealEvent:  {KSealEvent, "seal_event", 1, -1, -1},

	KStorageRead:  {KStorageRead, "storage_read", 1, 1, 1},
	KStorageWrite: {KStorageWrite, "storage_write", 1, 2, 0},

	KSpongeInit:      {KSpongeInit, "sponge_init", 2, 0, 0},
	KSpongeAbsorb:    {KSpongeAbsorb, "sponge_absorb", 2, 10, 0},
	KSpongeSqueeze:   {KSpongeSqueeze, "sponge_squeeze", 2, 0, 10},
	KSpongeAbsorbMem: {KSpongeAbsorbMem, "sponge_absorb_mem", 2, 1, 0},
	KMerkleStep:      {KMerkleStep, "merkle_step", 2, -1, -1},
	KMerkleStepMem:   {KMerkleStepMem, "merkle_step_mem", 2, -1, -1},

	KExtFieldNew: {KExtFieldNew, "xx_new", 3, 0, 3},
	KExtFieldInv: {KExtFieldInv, "x_invert", 3, 3, 3},
	KXXAdd:       {KXXAdd, "xx_add", 3, 6, 3},
	KXXMul:       {KXXMul, "xx_mul", 3, 6, 3},
	KXBMul:       {KXBMul, "xb_mul", 3, 4, 3},
	KXXDotStep:   {KXXDotStep, "xx_dot_step", 3, -1, -1},
	KXBDotStep:   {KXBDotStep, "xb_dot_step", 3, -1, -1},
	KFoldExt:     {KFoldExt, "fold_ext", 3, -1, 3},

	KAssert: {KAssert, "assert", 1, 1, 0},

	KInlineAsm: {KInlineAsm, "inline_asm", 0, -1, -1},
}

func (k Kind) String() string {
	if info, ok := AllKinds[k]; ok {
		return info.Name
	}
	return fmt.Sprintf("unknown-kind(%d)", int(k))
}

// Tier returns the capability tier of this kind.
func (k Kind) Tier() int {
	if info, ok := AllKinds[k]; ok {
		return info.Tier
	}
	return 0
}

// Literal is a constant value carried by a Push op. Width is the number
// of field elements the literal occupies (1 for base-field values, the
// target's ExtFieldDegree for extension-field constants).
type Literal struct {
	Values []field.Element
	Width  int
}

// NewBaseLiteral builds a single-element base-field literal.
func NewBaseLiteral(v uint64) Literal {
	return Literal{Values: []field.Element{field.New(v)}, Width: 1}
}

// Op is a single TIR operation. Only the fields relevant to Kind are
// populated; nested bodies are used by the structural (tier-0) ops.
type Op struct {
	Kind Kind
	Span diag.Span

	// Structure payload
	Name  string // FnStart name, Label id
	Then  Sequence
	Else  Sequence // IfElse only
	Bound int64    // Loop static bound

	// Stack/arith payload
	Literal Literal
	Depth   int // Dup(depth), Swap(depth)
	N       int // Pop(n)

	// Memory payload
	Addr int64

	// Hash/Event payload
	Tag    string
	Fields int
	Width  int

	// Storage payload
	Key string

	// InlineAsm payload
	TargetTag      string // empty means "applies to every target"
	NetStackEffect int
	Lines          []string
}

// Sequence is an ordered, flat list of TIR ops. Control-flow ops carry
// their own nested Sequences (Then/Else; a Loop's body is in Then) rather than using flat
// labels, per spec §3's bracketing invariant.
type Sequence []Op

// MaxTier returns the highest tier present anywhere in the sequence,
// descending into nested bodies.
func (s Sequence) MaxTier() int {
	max := 0
	for _, op := range s {
		if t := op.Kind.Tier(); t > max {
			max = t
		}
		for _, nested := range [][]Op{op.Then, op.Else} {
			if t := Sequence(nested).MaxTier(); t > max {
				max = t
			}
		}
	}
	return max
}
