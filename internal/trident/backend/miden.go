package backend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/trident-lang/trident/internal/trident/diag"
	"github.com/trident-lang/trident/internal/trident/target"
	"github.com/trident-lang/trident/internal/trident/tir"
)

// midenLowering is the stack-inline-preferred backend: control-flow
// bodies are expanded in place (if.true/else/end, repeat.N/end) instead
// of being hoisted into out-of-line subroutines, matching Miden
// assembly's block-structured control flow.
type midenLowering struct {
	cfg target.Config
}

func (m *midenLowering) Lower(name string, seq tir.Sequence) (string, diag.Bag) {
	var bag diag.Bag
	checkTier(m.cfg, seq, &bag)
	if !bag.OK() {
		return "", bag
	}
	var out strings.Builder
	fmt.Fprintf(&out, "proc.%s\n", name)
	out.WriteString(m.lowerBody(seq, 1))
	out.WriteString("end\n")
	return out.String(), bag
}

func (m *midenLowering) lowerBody(seq tir.Sequence, depth int) string {
	var b strings.Builder
	indent := strings.Repeat("    ", depth)
	for _, op := range seq {
		switch op.Kind {
		case tir.KFnStart, tir.KFnEnd:
			// proc/end framing is emitted by Lower itself.
		case tir.KIfOnly:
			fmt.Fprintf(&b, "%sif.true\n%s%send\n", indent, m.lowerBody(op.Then, depth+1), indent)
		case tir.KIfElse:
			fmt.Fprintf(&b, "%sif.true\n%s%selse\n%s%send\n", indent, m.lowerBody(op.Then, depth+1), indent, m.lowerBody(op.Else, depth+1), indent)
		case tir.KLoop:
			fmt.Fprintf(&b, "%srepeat.%d\n%s%send\n", indent, op.Bound, m.lowerBody(op.Then, depth+1), indent)
		case tir.KPush:
			fmt.Fprintf(&b, "%spush.%s\n", indent, midenLiteralText(op.Literal))
		case tir.KLabel:
			fmt.Fprintf(&b, "%sexec.%s\n", indent, op.Name)
		case tir.KInlineAsm:
			if op.TargetTag == "" || op.TargetTag == m.cfg.ID() {
				for _, line := range op.Lines {
					fmt.Fprintf(&b, "%s%s\n", indent, line)
				}
			}
		case tir.KDup:
			fmt.Fprintf(&b, "%sdup.%d\n", indent, op.Depth)
		case tir.KSwap:
			fmt.Fprintf(&b, "%sswap.%d\n", indent, op.Depth)
		case tir.KPop:
			n := op.N
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				fmt.Fprintf(&b, "%sdrop\n", indent)
			}
		case tir.KAdd:
			fmt.Fprintf(&b, "%sadd\n", indent)
		case tir.KSub:
			fmt.Fprintf(&b, "%ssub\n", indent)
		case tir.KMul:
			fmt.Fprintf(&b, "%smul\n", indent)
		case tir.KNeg:
			fmt.Fprintf(&b, "%sneg\n", indent)
		case tir.KInv:
			fmt.Fprintf(&b, "%sinv\n", indent)
		case tir.KEq:
			fmt.Fprintf(&b, "%seq\n", indent)
		case tir.KLt:
			fmt.Fprintf(&b, "%slt\n", indent)
		case tir.KAnd:
			fmt.Fprintf(&b, "%sand\n", indent)
		case tir.KOr:
			fmt.Fprintf(&b, "%sor\n", indent)
		case tir.KXor:
			fmt.Fprintf(&b, "%sxor\n", indent)
		case tir.KRamRead:
			fmt.Fprintf(&b, "%smem_load\n", indent)
		case tir.KRamWrite:
			fmt.Fprintf(&b, "%smem_store\n", indent)
		case tir.KRamReadBlock:
			fmt.Fprintf(&b, "%smem_loadw\n", indent)
		case tir.KRamWriteBlock:
			fmt.Fprintf(&b, "%smem_storew\n", indent)
		case tir.KHashDigest:
			fmt.Fprintf(&b, "%shperm\n", indent)
		case tir.KEmitEvent:
			fmt.Fprintf(&b, "%semit.%s\n", indent, op.Tag)
		case tir.KSealEvent:
			fmt.Fprintf(&b, "%shperm\n%sdropw\n", indent, indent)
		case tir.KStorageRead:
			fmt.Fprintf(&b, "%smem_load\n", indent)
		case tir.KStorageWrite:
			fmt.Fprintf(&b, "%smem_store\n", indent)
		case tir.KSpongeInit:
			fmt.Fprintf(&b, "%spadw\n", indent)
		case tir.KSpongeAbsorb, tir.KSpongeAbsorbMem:
			fmt.Fprintf(&b, "%shperm\n", indent)
		case tir.KSpongeSqueeze:
			fmt.Fprintf(&b, "%sdropw\n", indent)
		case tir.KMerkleStep, tir.KMerkleStepMem:
			fmt.Fprintf(&b, "%smtree_get\n", indent)
		case tir.KExtFieldInv:
			fmt.Fprintf(&b, "%sext2inv\n", indent)
		case tir.KXXAdd:
			fmt.Fprintf(&b, "%sext2add\n", indent)
		case tir.KXXMul:
			fmt.Fprintf(&b, "%sext2mul\n", indent)
		case tir.KAssert:
			fmt.Fprintf(&b, "%sassert\n", indent)
		default:
			// No native Miden opcode for this kind (ext-field
			// construction, div_mod/split/pow/log2/popcount, xb_mul
			// and the dot-step/fold tier-3 reductions): emit the TIR
			// kind's own name as a placeholder.
			fmt.Fprintf(&b, "%s%s\n", indent, op.Kind)
		}
	}
	return b.String()
}

func midenLiteralText(lit tir.Literal) string {
	parts := make([]string, len(lit.Values))
	for i, v := range lit.Values {
		parts[i] = strconv.FormatUint(v.Value(), 10)
	}
	return strings.Join(parts, ".")
}
