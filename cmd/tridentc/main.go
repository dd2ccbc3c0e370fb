// Command tridentc is a small line-protocol driver over pkg/trident,
// modeled on the teacher's own stdin-JSON-lines prover entry point
// (cmd/vybium-vm-prover/main.go): read a target id, then a TIR program
// in its Display text form, from stdin; lower it and print the
// resulting assembly and cost report as JSON to stdout.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/trident-lang/trident/internal/trident/backend"
	"github.com/trident-lang/trident/internal/trident/costmodel"
	"github.com/trident-lang/trident/internal/trident/target"
	"github.com/trident-lang/trident/internal/trident/tir"
)

type output struct {
	TargetID    string              `json:"target_id"`
	Assembly    string              `json:"assembly,omitempty"`
	PaddedRows  map[string]int      `json:"padded_rows"`
	TotalRows   int                 `json:"total_padded_rows"`
	Diagnostics []string            `json:"diagnostics,omitempty"`
	Hotspots    []costmodel.Hotspot `json:"hotspots,omitempty"`
}

func main() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if !scanner.Scan() {
		fatal("failed to read target id line")
	}
	targetID := strings.TrimSpace(scanner.Text())
	cfg, ok := target.ByID(targetID)
	if !ok {
		fatal(fmt.Sprintf("unknown target id %q", targetID))
	}

	var body strings.Builder
	for scanner.Scan() {
		body.WriteString(scanner.Text())
		body.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		fatal(fmt.Sprintf("failed reading TIR body: %v", err))
	}

	seq, err := tir.Parse(body.String())
	if err != nil {
		fatal(fmt.Sprintf("failed to parse TIR: %v", err))
	}

	out := output{TargetID: cfg.ID()}

	if lowering, ok := backend.For(cfg); ok {
		name := targetID
		if len(seq) > 0 && seq[0].Kind == tir.KFnStart {
			name = seq[0].Name
		}
		asm, bag := lowering.Lower(name, seq)
		for _, d := range bag.All() {
			out.Diagnostics = append(out.Diagnostics, d.Error())
		}
		if bag.OK() {
			out.Assembly = asm
		}
	} else {
		logStderr(fmt.Sprintf("no lowering backend registered for target %q", targetID))
	}

	report := costmodel.Reduce(seq, cfg)
	out.PaddedRows = map[string]int{}
	for t, h := range report.PaddedHeight {
		out.PaddedRows[t.String()] = h
	}
	out.TotalRows = report.TotalPaddedRows()
	out.Hotspots = report.Hotspots

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fatal(fmt.Sprintf("failed to encode output: %v", err))
	}
}

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, "tridentc:", msg)
}

func fatal(msg string) {
	logStderr("ERROR: " + msg)
	os.Exit(1)
}
