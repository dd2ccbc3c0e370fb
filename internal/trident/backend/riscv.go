package backend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/trident-lang/trident/internal/trident/diag"
	"github.com/trident-lang/trident/internal/trident/target"
	"github.com/trident-lang/trident/internal/trident/tir"
)

// riscvLowering is the register-oriented backend: it has no physical
// stack window to track (target.Config.StackWindow() is 0 for this
// family), so every TIR op's operands are assumed already materialized
// in registers by an earlier allocation pass and this backend only
// emits the corresponding mnemonic sequence, branch labels in place of
// nested bodies, and a trailing ret.
type riscvLowering struct {
	cfg       target.Config
	labelNext int
}

func (r *riscvLowering) Lower(name string, seq tir.Sequence) (string, diag.Bag) {
	var bag diag.Bag
	checkTier(r.cfg, seq, &bag)
	if !bag.OK() {
		return "", bag
	}
	r.labelNext = 0
	var out strings.Builder
	fmt.Fprintf(&out, "%s:\n", name)
	out.WriteString(r.lowerBody(seq))
	return out.String(), bag
}

func (r *riscvLowering) freshLabel(tag string) string {
	r.labelNext++
	return fmt.Sprintf(".L%s%d", tag, r.labelNext)
}

func (r *riscvLowering) lowerBody(seq tir.Sequence) string {
	var b strings.Builder
	for _, op := range seq {
		switch op.Kind {
		case tir.KFnStart:
			// handled by Lower's own label
		case tir.KFnEnd:
			b.WriteString("  ret\n")
		case tir.KIfOnly:
			elseL := r.freshLabel("else")
			fmt.Fprintf(&b, "  beqz t0, %s\n%s%s:\n", elseL, r.lowerBody(op.Then), elseL)
		case tir.KIfElse:
			elseL := r.freshLabel("else")
			endL := r.freshLabel("end")
			fmt.Fprintf(&b, "  beqz t0, %s\n%s  j %s\n%s:\n%s%s:\n", elseL, r.lowerBody(op.Then), endL, elseL, r.lowerBody(op.Else), endL)
		case tir.KLoop:
			top := r.freshLabel("loop")
			fmt.Fprintf(&b, "  li t1, %d\n%s:\n%s  addi t1, t1, -1\n  bnez t1, %s\n", op.Bound, top, r.lowerBody(op.Then), top)
		case tir.KPush:
			fmt.Fprintf(&b, "  li t0, %s\n", riscvLiteralText(op.Literal))
		case tir.KLabel:
			fmt.Fprintf(&b, "  call %s\n", op.Name)
		case tir.KInlineAsm:
			if op.TargetTag == "" || op.TargetTag == r.cfg.ID() {
				for _, line := range op.Lines {
					fmt.Fprintf(&b, "  %s\n", line)
				}
			}
		case tir.KDup, tir.KSwap:
			// Register-allocated operands have no physical stack slot
			// to relocate or duplicate; the allocator already gave the
			// value whatever register name this op's consumer expects.
		case tir.KAdd:
			b.WriteString("  add t0, t0, t1\n")
		case tir.KSub:
			b.WriteString("  sub t0, t0, t1\n")
		case tir.KMul:
			b.WriteString("  mul t0, t0, t1\n")
		case tir.KNeg:
			b.WriteString("  neg t0, t0\n")
		case tir.KInv:
			b.WriteString("  call inv\n")
		case tir.KEq:
			b.WriteString("  seq t0, t0, t1\n")
		case tir.KLt:
			b.WriteString("  slt t0, t0, t1\n")
		case tir.KAnd:
			b.WriteString("  and t0, t0, t1\n")
		case tir.KOr:
			b.WriteString("  or t0, t0, t1\n")
		case tir.KXor:
			b.WriteString("  xor t0, t0, t1\n")
		case tir.KRamRead:
			b.WriteString("  lw t0, 0(t1)\n")
		case tir.KRamWrite:
			b.WriteString("  sw t0, 0(t1)\n")
		case tir.KRamReadBlock:
			b.WriteString("  lw t0, 0(t1)\n")
		case tir.KRamWriteBlock:
			b.WriteString("  sw t0, 0(t1)\n")
		case tir.KHashDigest:
			b.WriteString("  call hash\n")
		case tir.KEmitEvent:
			fmt.Fprintf(&b, "  li a0, %s\n  call emit_event\n", op.Tag)
		case tir.KSealEvent:
			fmt.Fprintf(&b, "  li a0, %s\n  call seal_event\n", op.Tag)
		case tir.KStorageRead:
			b.WriteString("  call storage_read\n")
		case tir.KStorageWrite:
			b.WriteString("  call storage_write\n")
		case tir.KAssert:
			b.WriteString("  call assert\n")
		default:
			// Sponge/Merkle (tier 2) and extension-field ops (tier 3)
			// exceed RiscV32's tier-1 ceiling; checkTier rejects them
			// before lowering ever reaches this branch for a
			// compiling program. div_mod/split/pow/log2/popcount have
			// no grounded mnemonic and fall back to the TIR kind's own
			// name as a placeholder call target.
			fmt.Fprintf(&b, "  %s\n", op.Kind)
		}
	}
	return b.String()
}

func riscvLiteralText(lit tir.Literal) string {
	parts := make([]string, len(lit.Values))
	for i, v := range lit.Values {
		parts[i] = strconv.FormatUint(v.Value(), 10)
	}
	return strings.Join(parts, ",")
}
