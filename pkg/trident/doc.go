// Package trident is Trident's public entry point: it wires ast, the
// TIR builder, a target's lowering backend, and the cost model together
// into a single Compile call, the way the teacher's own top-level
// proteus.go ties its VM, table, and proof stages together behind one
// entry point.
package trident
