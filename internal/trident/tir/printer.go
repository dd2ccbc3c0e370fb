package tir

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders a Sequence to its deterministic, human-readable Display
// form: one line per op, nested bodies indented. No hidden state is kept
// across calls (DESIGN NOTES §9: "explicit printers", no Display trait
// plumbing).
func Print(seq Sequence) string {
	var b strings.Builder
	printSeq(&b, seq, 0)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func printSeq(b *strings.Builder, seq Sequence, depth int) {
	for _, op := range seq {
		printOp(b, op, depth)
	}
}

func printOp(b *strings.Builder, op Op, depth int) {
	indent(b, depth)
	switch op.Kind {
	case KFnStart:
		fmt.Fprintf(b, "fn_start %s\n", op.Name)
	case KFnEnd:
		b.WriteString("fn_end\n")
	case KLabel:
		fmt.Fprintf(b, "label %s\n", op.Name)
	case KIfOnly:
		b.WriteString("if_only {\n")
		printSeq(b, op.Then, depth+1)
		indent(b, depth)
		b.WriteString("}\n")
	case KIfElse:
		b.WriteString("if_else {\n")
		printSeq(b, op.Then, depth+1)
		indent(b, depth)
		b.WriteString("} else {\n")
		printSeq(b, op.Else, depth+1)
		indent(b, depth)
		b.WriteString("}\n")
	case KLoop:
		fmt.Fprintf(b, "loop bound=%d {\n", op.Bound)
		printSeq(b, op.Then, depth+1)
		indent(b, depth)
		b.WriteString("}\n")
	case KReturn:
		b.WriteString("return\n")
	case KPush:
		fmt.Fprintf(b, "push width=%d %s\n", op.Literal.Width, literalValuesString(op.Literal))
	case KDup, KSwap:
		fmt.Fprintf(b, "%s %d\n", op.Kind, op.Depth)
	case KPop:
		fmt.Fprintf(b, "pop %d\n", op.N)
	case KRamRead, KStorageRead:
		fmt.Fprintf(b, "%s addr=%d\n", op.Kind, op.Addr)
	case KRamWrite, KStorageWrite:
		fmt.Fprintf(b, "%s addr=%d\n", op.Kind, op.Addr)
	case KRamReadBlock, KRamWriteBlock:
		fmt.Fprintf(b, "%s addr=%d n=%d\n", op.Kind, op.Addr, op.N)
	case KHashDigest:
		fmt.Fprintf(b, "hash_digest width=%d\n", op.Width)
	case KEmitEvent:
		fmt.Fprintf(b, "emit_event tag=%s fields=%d\n", op.Tag, op.Fields)
	case KSealEvent:
		fmt.Fprintf(b, "seal_event tag=%s width=%d\n", op.Tag, op.Width)
	case KSpongeAbsorbMem:
		fmt.Fprintf(b, "sponge_absorb_mem addr=%d n=%d\n", op.Addr, op.N)
	case KMerkleStepMem:
		fmt.Fprintf(b, "merkle_step_mem addr=%d\n", op.Addr)
	case KInlineAsm:
		tag := op.TargetTag
		if tag == "" {
			tag = "*"
		}
		fmt.Fprintf(b, "inline_asm target=%s delta=%d {\n", tag, op.NetStackEffect)
		for _, line := range op.Lines {
			indent(b, depth+1)
			b.WriteString(line)
			b.WriteString("\n")
		}
		indent(b, depth)
		b.WriteString("}\n")
	default:
		fmt.Fprintf(b, "%s\n", op.Kind)
	}
}

func literalValuesString(lit Literal) string {
	parts := make([]string, len(lit.Values))
	for i, v := range lit.Values {
		parts[i] = strconv.FormatUint(v.Value(), 10)
	}
	return strings.Join(parts, ",")
}
