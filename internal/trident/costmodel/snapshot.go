package costmodel

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/trident-lang/trident/internal/trident/target"
)

// Snapshot is a persisted, content-addressed capture of a Report,
// suitable for storing alongside a build artifact and diffing across
// compiler or source revisions (Scenario F: "has proving cost
// regressed").
type Snapshot struct {
	TargetID     string
	PaddedHeight map[target.TableID]int
	Digest       string
}

// Snapshot captures r as a content-addressed Snapshot. The digest is
// computed over the target id and every table's padded height in a
// fixed, sorted order so two runs that reduce the same program against
// the same target always produce identical bytes, regardless of map
// iteration order — the teacher's own cross_table_arguments.go commits
// to a fixed table order for the same reason.
func (r Report) Snapshot() Snapshot {
	ids := target.AllTableIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var b strings.Builder
	b.WriteString(r.TargetID)
	padded := map[target.TableID]int{}
	for _, id := range ids {
		h := r.PaddedHeight[id]
		padded[id] = h
		fmt.Fprintf(&b, "|%s=%d", id, h)
	}
	sum := sha3.Sum256([]byte(b.String()))
	return Snapshot{TargetID: r.TargetID, PaddedHeight: padded, Digest: hex.EncodeToString(sum[:])}
}

// TableDelta is one table's change in padded height between two
// snapshots. A Snapshot keeps no unpadded row counts, so a change that
// stays within the same power of two shows a zero Delta.
type TableDelta struct {
	Table      target.TableID
	Before     int
	After      int
	Delta      int
	PercentStr string
}

// Compare diffs two snapshots of the same target, returning one
// TableDelta per table the cost model tracks, in a fixed table order.
func Compare(before, after Snapshot) ([]TableDelta, error) {
	if before.TargetID != after.TargetID {
		return nil, fmt.Errorf("costmodel: cannot compare snapshots from different targets (%s vs %s)", before.TargetID, after.TargetID)
	}
	ids := target.AllTableIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]TableDelta, 0, len(ids))
	for _, id := range ids {
		b := before.PaddedHeight[id]
		a := after.PaddedHeight[id]
		pct := "n/a"
		if b != 0 {
			pct = strconv.FormatFloat(float64(a-b)/float64(b)*100, 'f', 1, 64) + "%"
		}
		out = append(out, TableDelta{Table: id, Before: b, After: a, Delta: a - b, PercentStr: pct})
	}
	return out, nil
}
