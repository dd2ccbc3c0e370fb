// Package costmodel reduces a TIR sequence — or a lowered assembly
// listing — against a target.Config's CostDescriptor into a per-table
// row count, matching the teacher's own multi-table trace accounting
// (internal/vybium-starks-vm/vm/tables.go, aet.go: one table per
// Processor/OpStack/RAM/JumpStack/Hash/U32/Program concern, each padded
// to the next power of two before the prover commits to it).
package costmodel

import (
	"sort"
	"strings"

	"github.com/trident-lang/trident/internal/trident/target"
	"github.com/trident-lang/trident/internal/trident/tir"
)

// Hotspot names one cost key's contribution to the total row count,
// used to drive the "hints" the compiler can surface to a user trying
// to reduce proving cost.
type Hotspot struct {
	Key       string
	Count     int
	TotalRows int
}

// Report is the result of reducing one function's TIR or assembly
// against a target.
type Report struct {
	TargetID     string
	Rows         map[target.TableID]int
	PaddedHeight map[target.TableID]int
	Hotspots     []Hotspot
}

// TotalPaddedRows sums the padded height across every table, the
// quantity that actually drives proving cost.
func (r Report) TotalPaddedRows() int {
	total := 0
	for _, h := range r.PaddedHeight {
		total += h
	}
	return total
}

// Reduce walks seq (including every nested Then/Else/Loop body) and
// accumulates each op's row contribution under cfg's cost descriptor.
func Reduce(seq tir.Sequence, cfg target.Config) Report {
	counts := map[string]int{}
	walkCounts(seq, counts)
	return reportFromCounts(cfg, counts)
}

func walkCounts(seq tir.Sequence, counts map[string]int) {
	for _, op := range seq {
		counts[op.Kind.String()]++
		walkCounts(op.Then, counts)
		walkCounts(op.Else, counts)
	}
}

// ReduceAssembly reduces a lowered assembly listing by treating the
// first whitespace-delimited token of each non-empty, non-label line as
// a mnemonic and looking it up in cfg's cost descriptor. Mnemonics the
// descriptor doesn't recognize (block framing like "end", "proc.NAME:")
// contribute zero rows, same as Config.Contribution's documented
// behavior for an unknown key.
func ReduceAssembly(asm string, cfg target.Config) Report {
	counts := map[string]int{}
	for _, line := range strings.Split(asm, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasSuffix(line, ":") || strings.HasPrefix(line, "[") || strings.HasPrefix(line, "]") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		counts[fields[0]]++
	}
	return reportFromCounts(cfg, counts)
}

func reportFromCounts(cfg target.Config, counts map[string]int) Report {
	rows := map[target.TableID]int{}
	for _, t := range target.AllTableIDs() {
		rows[t] = 0
	}
	var hotspots []Hotspot
	for key, n := range counts {
		contrib := cfg.Contribution(key)
		total := 0
		for table, perOp := range contrib {
			rows[table] += perOp * n
			total += perOp * n
		}
		if total > 0 {
			hotspots = append(hotspots, Hotspot{Key: key, Count: n, TotalRows: total})
		}
	}
	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].TotalRows != hotspots[j].TotalRows {
			return hotspots[i].TotalRows > hotspots[j].TotalRows
		}
		return hotspots[i].Key < hotspots[j].Key
	})

	padded := map[target.TableID]int{}
	for t, n := range rows {
		padded[t] = target.PadPow2(n)
	}

	return Report{TargetID: cfg.ID(), Rows: rows, PaddedHeight: padded, Hotspots: hotspots}
}
