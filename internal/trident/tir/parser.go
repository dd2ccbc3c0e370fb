package tir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// Parse reads the Display form produced by Print back into a Sequence.
// Parse(Print(s)) reproduces every op kind and every payload field that
// Print renders; fields Print does not render (every op's Span, and
// payloads such as the Width of ram_read/ram_write or the Fields of
// seal_event) come back as zero values. Parse is a small hand-rolled recursive-descent reader over
// the line-oriented grammar Print emits — no third-party parser
// generator is warranted for a format this small and fully owned by
// Trident itself.
func Parse(text string) (Sequence, error) {
	lines := splitNonEmpty(text)
	seq, rest, err := parseSeq(lines)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("tir.Parse: unexpected trailing input: %q", rest[0])
	}
	return seq, nil
}

func splitNonEmpty(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, strings.TrimSpace(l))
	}
	return out
}

// parseSeq consumes ops until a closing brace or EOF, returning the
// parsed sequence and the unconsumed remainder (the closing line itself
// is left in place for the caller to interpret).
func parseSeq(lines []string) (Sequence, []string, error) {
	var seq Sequence
	for len(lines) > 0 {
		line := lines[0]
		if line == "}" || strings.HasPrefix(line, "} else") {
			return seq, lines, nil
		}
		op, rest, err := parseOp(lines)
		if err != nil {
			return nil, nil, err
		}
		seq = append(seq, op)
		lines = rest
	}
	return seq, lines, nil
}

// parseBlock parses a "... {" header's body (lines already past the
// header) until and including the matching "}".
func parseBlock(lines []string) (Sequence, []string, error) {
	body, rest, err := parseSeq(lines)
	if err != nil {
		return nil, nil, err
	}
	if len(rest) == 0 || rest[0] != "}" {
		return nil, nil, fmt.Errorf("tir.Parse: unterminated block, got %q", safeHead(rest))
	}
	return body, rest[1:], nil
}

func parseOp(lines []string) (Op, []string, error) {
	line := lines[0]
	rest := lines[1:]
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Op{}, nil, fmt.Errorf("tir.Parse: empty line")
	}
	head := fields[0]

	switch head {
	case "fn_start":
		return Op{Kind: KFnStart, Name: fields[1]}, rest, nil
	case "fn_end":
		return Op{Kind: KFnEnd}, rest, nil
	case "label":
		return Op{Kind: KLabel, Name: fields[1]}, rest, nil
	case "return":
		return Op{Kind: KReturn}, rest, nil
	case "if_only":
		body, after, err := parseBlock(rest)
		if err != nil {
			return Op{}, nil, err
		}
		return Op{Kind: KIfOnly, Then: body}, after, nil
	case "if_else":
		thenBody, after, err := parseSeq(rest)
		if err != nil {
			return Op{}, nil, err
		}
		if len(after) == 0 || !strings.HasPrefix(after[0], "} else") {
			return Op{}, nil, fmt.Errorf("tir.Parse: expected \"} else {\", got %q", safeHead(after))
		}
		elseBody, after2, err := parseBlock(after[1:])
		if err != nil {
			return Op{}, nil, err
		}
		return Op{Kind: KIfElse, Then: thenBody, Else: elseBody}, after2, nil
	case "loop":
		bound, err := parseKV(fields[1], "bound")
		if err != nil {
			return Op{}, nil, err
		}
		body, after, err := parseBlock(rest)
		if err != nil {
			return Op{}, nil, err
		}
		return Op{Kind: KLoop, Bound: bound, Then: body}, after, nil
	case "push":
		width, err := parseKV(fields[1], "width")
		if err != nil {
			return Op{}, nil, err
		}
		values, err := parseLiteralValues(fields[2])
		if err != nil {
			return Op{}, nil, err
		}
		return Op{Kind: KPush, Literal: Literal{Values: values, Width: int(width)}}, rest, nil
	case "dup", "swap":
		depth, err := strconv.Atoi(fields[1])
		if err != nil {
			return Op{}, nil, err
		}
		k := KDup
		if head == "swap" {
			k = KSwap
		}
		return Op{Kind: k, Depth: depth}, rest, nil
	case "pop":
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return Op{}, nil, err
		}
		return Op{Kind: KPop, N: n}, rest, nil
	case "ram_read", "storage_read", "ram_write", "storage_write":
		addr, err := parseKV(fields[1], "addr")
		if err != nil {
			return Op{}, nil, err
		}
		return Op{Kind: kindForName(head), Addr: addr}, rest, nil
	case "ram_read_block", "ram_write_block":
		addr, err := parseKV(fields[1], "addr")
		if err != nil {
			return Op{}, nil, err
		}
		n, err := parseKV(fields[2], "n")
		if err != nil {
			return Op{}, nil, err
		}
		return Op{Kind: kindForName(head), Addr: addr, N: int(n)}, rest, nil
	case "hash_digest":
		width, err := parseKV(fields[1], "width")
		if err != nil {
			return Op{}, nil, err
		}
		return Op{Kind: KHashDigest, Width: int(width)}, rest, nil
	case "emit_event":
		tag, err := parseStrKV(fields[1], "tag")
		if err != nil {
			return Op{}, nil, err
		}
		n, err := parseKV(fields[2], "fields")
		if err != nil {
			return Op{}, nil, err
		}
		return Op{Kind: KEmitEvent, Tag: tag, Fields: int(n)}, rest, nil
	case "seal_event":
		tag, err := parseStrKV(fields[1], "tag")
		if err != nil {
			return Op{}, nil, err
		}
		width, err := parseKV(fields[2], "width")
		if err != nil {
			return Op{}, nil, err
		}
		return Op{Kind: KSealEvent, Tag: tag, Width: int(width)}, rest, nil
	case "sponge_absorb_mem":
		addr, err := parseKV(fields[1], "addr")
		if err != nil {
			return Op{}, nil, err
		}
		n, err := parseKV(fields[2], "n")
		if err != nil {
			return Op{}, nil, err
		}
		return Op{Kind: KSpongeAbsorbMem, Addr: addr, N: int(n)}, rest, nil
	case "merkle_step_mem":
		addr, err := parseKV(fields[1], "addr")
		if err != nil {
			return Op{}, nil, err
		}
		return Op{Kind: KMerkleStepMem, Addr: addr}, rest, nil
	case "inline_asm":
		tag, err := parseStrKV(fields[1], "target")
		if err != nil {
			return Op{}, nil, err
		}
		if tag == "*" {
			tag = ""
		}
		delta, err := parseKV(fields[2], "delta")
		if err != nil {
			return Op{}, nil, err
		}
		asmLines, after, err := parseRawBlock(rest)
		if err != nil {
			return Op{}, nil, err
		}
		return Op{Kind: KInlineAsm, TargetTag: tag, NetStackEffect: int(delta), Lines: asmLines}, after, nil
	default:
		if k, ok := kindByName(head); ok {
			return Op{Kind: k}, rest, nil
		}
		return Op{}, nil, fmt.Errorf("tir.Parse: unknown op %q", head)
	}
}

// parseRawBlock reads lines verbatim (no op grammar applied) until a
// bare "}", used for InlineAsm bodies which the parser, like the
// lowering backends, never interprets.
func parseRawBlock(lines []string) ([]string, []string, error) {
	var out []string
	for i, l := range lines {
		if l == "}" {
			return out, lines[i+1:], nil
		}
		out = append(out, l)
	}
	return nil, nil, fmt.Errorf("tir.Parse: unterminated inline_asm block")
}

func parseKV(field, key string) (int64, error) {
	prefix := key + "="
	if !strings.HasPrefix(field, prefix) {
		return 0, fmt.Errorf("tir.Parse: expected %sN, got %q", prefix, field)
	}
	return strconv.ParseInt(strings.TrimPrefix(field, prefix), 10, 64)
}

func parseStrKV(field, key string) (string, error) {
	prefix := key + "="
	if !strings.HasPrefix(field, prefix) {
		return "", fmt.Errorf("tir.Parse: expected %sNAME, got %q", prefix, field)
	}
	return strings.TrimPrefix(field, prefix), nil
}

func parseLiteralValues(csv string) ([]field.Element, error) {
	parts := strings.Split(csv, ",")
	out := make([]field.Element, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("tir.Parse: bad literal value %q: %w", p, err)
		}
		out = append(out, field.New(n))
	}
	return out, nil
}

func safeHead(lines []string) string {
	if len(lines) == 0 {
		return "<eof>"
	}
	return lines[0]
}

// kindForName and kindByName invert Kind.String() for the subset of
// kinds the parser needs to reconstruct explicitly (others fall through
// the default case in parseOp via kindByName, for kinds with no payload).
func kindForName(name string) Kind {
	k, _ := kindByName(name)
	return k
}

func kindByName(name string) (Kind, bool) {
	for k, info := range AllKinds {
		if info.Name == name {
			return k, true
		}
	}
	return 0, false
}
