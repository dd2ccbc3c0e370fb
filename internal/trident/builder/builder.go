// Package builder implements the TIRBuilder: the AST walk that produces
// a tir.Sequence per monomorphized function instance, synchronized with
// a stackmgr.Manager so every emitted op's operands are already at the
// top of the abstract window. Generalized from the teacher's own
// single-pass instruction emission in internal/vybium-starks-vm/vm
// (there is no teacher AST, since the teacher VM executes a fixed
// instruction set directly — see ast.go's package doc).
package builder

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/trident-lang/trident/internal/trident/ast"
	"github.com/trident-lang/trident/internal/trident/diag"
	"github.com/trident-lang/trident/internal/trident/stackmgr"
	"github.com/trident-lang/trident/internal/trident/target"
	"github.com/trident-lang/trident/internal/trident/tir"
)

func fieldElement(v uint64) field.Element {
	return field.New(v)
}

// Result is the builder's output: one TIR sequence per monomorphized
// instance label.
type Result struct {
	Sequences map[string]tir.Sequence
}

// Build walks every requested instance of mod's functions and returns
// their TIR sequences, plus any diagnostics collected along the way.
// Diagnostics are never fatal mid-build (diag package policy): a
// function that fails still contributes whatever partial sequence it
// produced, so callers can inspect every reported problem in one pass.
func Build(mod *ast.Module, instances []ast.Instance, cfg target.Config) (Result, diag.Bag) {
	res := Result{Sequences: map[string]tir.Sequence{}}
	var bag diag.Bag

	fnByName := map[string]*ast.Function{}
	for _, fn := range mod.Functions {
		fnByName[fn.Name] = fn
	}
	structByName := map[string]*ast.StructDef{}
	for _, s := range mod.Structs {
		structByName[s.Name] = s
	}
	eventByName := map[string]*ast.EventDef{}
	for _, e := range mod.Events {
		eventByName[e.Name] = e
	}

	for _, inst := range instances {
		fn, ok := fnByName[inst.FuncName]
		if !ok {
			bag.Add(diag.UnsupportedFeature, diag.Span{}, fmt.Sprintf("unknown function %q in instance list", inst.FuncName), "check the instance list passed to Compile")
			continue
		}
		if len(inst.IntArgs) != len(fn.IntSizeParams) {
			bag.Add(diag.UnsupportedFeature, fn.Span,
				fmt.Sprintf("function %q expects %d integer-size parameters, instance supplies %d", fn.Name, len(fn.IntSizeParams), len(inst.IntArgs)),
				"pass exactly one integer argument per declared size parameter")
			continue
		}
		b := &builder{
			cfg:          cfg,
			mgr:          stackmgr.New(cfg.StackWindow(), cfg.HasRAM()),
			bag:          &bag,
			locals:       map[string]stackmgr.ValueID{},
			widths:       map[string]int{},
			fnByName:     fnByName,
			structByName: structByName,
			eventByName:  eventByName,
			sizeParams:   map[string]int64{},
		}
		for i, p := range fn.IntSizeParams {
			b.sizeParams[p] = inst.IntArgs[i]
		}
		label := Label(inst)
		seq := b.buildFunction(fn, label)
		res.Sequences[label] = seq
	}
	return res, bag
}

type builder struct {
	cfg target.Config
	mgr *stackmgr.Manager
	bag *diag.Bag

	locals map[string]stackmgr.ValueID
	widths map[string]int
	nextID stackmgr.ValueID

	// remainingReads counts, per local name, how many ast.Var reads of it
	// are still ahead in the function body. It is consumed (decremented)
	// as buildExpr walks ast.Var nodes: the read that brings it to zero is
	// the last one, and may relocate the value to the window top; every
	// earlier read must leave the original resident and duplicate it.
	remainingReads map[string]int

	fnByName     map[string]*ast.Function
	structByName map[string]*ast.StructDef
	eventByName  map[string]*ast.EventDef
	sizeParams   map[string]int64
}

func (b *builder) freshID() stackmgr.ValueID {
	b.nextID++
	return b.nextID
}

func (b *builder) buildFunction(fn *ast.Function, label string) tir.Sequence {
	var seq tir.Sequence
	seq = append(seq, tir.Op{Kind: tir.KFnStart, Name: label, Span: fn.Span})

	b.remainingReads = countVarRefs(fn.Body)

	for _, p := range fn.Params {
		id := b.freshID()
		b.locals[p.Name] = id
		b.widths[p.Name] = p.Width
		if kind, msg, hint, bad := b.mgr.Push(fn.Span, id, p.Width); bad {
			b.bag.Add(kind, fn.Span, msg, hint)
		}
	}
	seq = append(seq, b.drainEffects()...)

	for _, s := range fn.Body {
		seq = append(seq, b.buildStmt(s)...)
	}

	seq = append(seq, tir.Op{Kind: tir.KFnEnd, Span: fn.Span})
	return seq
}

// drainEffects converts every pending stackmgr Effect into its TIR op
// form, in emission order: Spill/Reload move a value between the window
// and RAM, Relocate transposes an existing window value to the top
// (native swap), and Duplicate pushes a fresh copy of one (native dup).
func (b *builder) drainEffects() tir.Sequence {
	var seq tir.Sequence
	for _, e := range b.mgr.TakeEffects() {
		switch e.Kind {
		case stackmgr.Spill:
			seq = append(seq, tir.Op{Kind: tir.KRamWrite, Addr: e.RamAddr, Width: e.Width})
		case stackmgr.Reload:
			seq = append(seq, tir.Op{Kind: tir.KRamRead, Addr: e.RamAddr, Width: e.Width})
		case stackmgr.Relocate:
			seq = append(seq, tir.Op{Kind: tir.KSwap, Depth: int(e.RamAddr)})
		case stackmgr.Duplicate:
			seq = append(seq, tir.Op{Kind: tir.KDup, Depth: int(e.RamAddr)})
		}
	}
	return seq
}

func (b *builder) buildStmt(s ast.Stmt) tir.Sequence {
	switch st := s.(type) {
	case ast.LetStmt:
		val, seq := b.buildExpr(st.Value)
		b.locals[st.Name] = val
		b.widths[st.Name] = b.widthOfExpr(st.Value)
		return seq

	case ast.AssignStmt:
		val, seq := b.buildExpr(st.Value)
		b.locals[st.Name] = val
		return seq

	case ast.ExprStmt:
		_, seq := b.buildExpr(st.Value)
		return seq

	case ast.ReturnStmt:
		var seq tir.Sequence
		if st.Value != nil {
			_, s2 := b.buildExpr(st.Value)
			seq = append(seq, s2...)
		}
		seq = append(seq, tir.Op{Kind: tir.KReturn, Span: st.Span})
		return seq

	case ast.IfStmt:
		return b.buildIf(st)

	case ast.ForStmt:
		return b.buildFor(st)

	case ast.MatchStmt:
		return b.buildMatch(st)

	case ast.EmitStmt:
		return b.buildEmitOrSeal(st.EventName, st.Args, false, st.Span)

	case ast.SealStmt:
		return b.buildEmitOrSeal(st.EventName, st.Args, true, st.Span)

	case ast.AsmStmt:
		seq := tir.Sequence{{
			Kind:           tir.KInlineAsm,
			TargetTag:      st.Target,
			NetStackEffect: st.NetStackEffect,
			Lines:          st.Lines,
			Span:           st.Span,
		}}
		switch {
		case st.NetStackEffect < 0:
			if err := b.mgr.Pop(-st.NetStackEffect); err != nil {
				b.bag.Invariant(st.Span, err.Error())
			}
		case st.NetStackEffect > 0:
			for i := 0; i < st.NetStackEffect; i++ {
				id := b.freshID()
				if kind, msg, hint, bad := b.mgr.Push(st.Span, id, 1); bad {
					b.bag.Add(kind, st.Span, msg, hint)
				}
			}
		}
		seq = append(seq, b.drainEffects()...)
		return seq

	default:
		b.bag.Invariant(s.Pos(), fmt.Sprintf("builder: unhandled statement type %T", s))
		return nil
	}
}

func (b *builder) buildIf(st ast.IfStmt) tir.Sequence {
	_, condSeq := b.buildExpr(st.Cond)

	before := b.mgr.Snapshot()
	var thenSeq tir.Sequence
	for _, s := range st.Then {
		thenSeq = append(thenSeq, b.buildStmt(s)...)
	}
	afterThen := b.mgr.Snapshot()

	if st.Else == nil {
		b.mgr.Restore(before)
		return append(condSeq, tir.Op{Kind: tir.KIfOnly, Then: thenSeq, Span: st.Span})
	}

	b.mgr.Restore(before)
	var elseSeq tir.Sequence
	for _, s := range st.Else {
		elseSeq = append(elseSeq, b.buildStmt(s)...)
	}
	afterElse := b.mgr.Snapshot()

	if !reconcilableShapes(b.mgr, afterThen, afterElse) {
		b.bag.Add(diag.UnsupportedFeature, st.Span,
			"the two arms of this if/else leave a different number of live values on the stack",
			"ensure both branches produce the same number of values")
	}

	return append(condSeq, tir.Op{Kind: tir.KIfElse, Then: thenSeq, Else: elseSeq, Span: st.Span})
}

// reconcilableShapes checks invariant 3's "identical top-of-stack shape"
// requirement: both arms must leave the same number of live window
// values and the same number of RAM-resident values, even though each
// arm necessarily produced its own fresh ValueIDs (there is no SSA phi
// node merging the two arms' ids back into one). Window depth and RAM
// occupancy count are the portable part of the invariant; exact id
// equality isn't meaningful once each arm has minted its own ids.
func reconcilableShapes(m *stackmgr.Manager, a, b2 stackmgr.Snapshot) bool {
	cur := m.Snapshot()
	defer m.Restore(cur)

	m.Restore(a)
	depthA, ramA := len(m.TopIDs()), len(m.RAMLayout())
	m.Restore(b2)
	depthB, ramB := len(m.TopIDs()), len(m.RAMLayout())

	return depthA == depthB && ramA == ramB
}

func (b *builder) buildFor(st ast.ForStmt) tir.Sequence {
	lit, ok := st.Bound.(ast.Literal)
	if !ok || len(lit.Values) != 1 {
		b.bag.Add(diag.UnsupportedFeature, st.Span, "loop bound must be a single compile-time integer literal", "hoist the bound into a const and reference it")
		return nil
	}
	var body tir.Sequence
	for _, s := range st.Body {
		body = append(body, b.buildStmt(s)...)
	}
	return tir.Sequence{{Kind: tir.KLoop, Bound: int64(lit.Values[0]), Then: body, Span: st.Span}}
}

func (b *builder) buildMatch(st ast.MatchStmt) tir.Sequence {
	// Lowered to a chain of if_else, one level per arm in source order;
	// there is no native Match TIR op. No comparison of the subject
	// against an arm's tag is emitted: each if_else branches on whatever
	// value is on top of the stack when it runs.
	_, subjSeq := b.buildExpr(st.Subject)
	if len(st.Arms) == 0 {
		return subjSeq
	}
	return append(subjSeq, b.buildMatchArms(st.Arms, st.Span)...)
}

func (b *builder) buildMatchArms(arms []ast.MatchArm, span diag.Span) tir.Sequence {
	arm := arms[0]
	var armBody tir.Sequence
	for _, s := range arm.Body {
		armBody = append(armBody, b.buildStmt(s)...)
	}
	if len(arms) == 1 {
		return tir.Sequence{{Kind: tir.KIfOnly, Then: armBody, Span: span}}
	}
	rest := b.buildMatchArms(arms[1:], span)
	return tir.Sequence{{Kind: tir.KIfElse, Then: armBody, Else: rest, Span: span}}
}

func (b *builder) buildEmitOrSeal(eventName string, args []ast.Expr, sealed bool, span diag.Span) tir.Sequence {
	ev, ok := b.eventByName[eventName]
	if !ok {
		b.bag.Add(diag.UnsupportedFeature, span, fmt.Sprintf("unknown event %q", eventName), "declare the event before emitting it")
		return nil
	}
	var seq tir.Sequence
	for _, a := range args {
		_, s := b.buildExpr(a)
		seq = append(seq, s...)
	}
	if sealed {
		width := 0
		for _, f := range ev.Fields {
			width += f.Width
		}
		seq = append(seq, tir.Op{Kind: tir.KSealEvent, Tag: ev.Tag, Fields: len(args), Width: width, Span: span})
	} else {
		seq = append(seq, tir.Op{Kind: tir.KEmitEvent, Tag: ev.Tag, Fields: len(args), Span: span})
	}
	return seq
}

// widthOfExpr returns the declared width of an expression without
// re-emitting it, used by Let to record the bound local's width.
func (b *builder) widthOfExpr(e ast.Expr) int {
	switch ex := e.(type) {
	case ast.Literal:
		return ex.Width
	case ast.Var:
		return b.widths[ex.Name]
	case ast.Binary, ast.Unary, ast.Intrinsic:
		return 1
	case ast.Call:
		if fn, ok := b.fnByName[ex.FuncName]; ok {
			return fn.ReturnWidth
		}
		return 1
	default:
		return 1
	}
}

// buildExpr evaluates e, leaving its result at the top of the window,
// and returns the fresh ValueID assigned to that result plus the op
// sequence that produced it.
func (b *builder) buildExpr(e ast.Expr) (stackmgr.ValueID, tir.Sequence) {
	switch ex := e.(type) {
	case ast.Literal:
		id := b.freshID()
		lit := tir.Literal{Width: ex.Width}
		for _, v := range ex.Values {
			lit.Values = append(lit.Values, fieldElement(v))
		}
		var seq tir.Sequence
		if kind, msg, hint, bad := b.mgr.Push(ex.Span, id, ex.Width); bad {
			b.bag.Add(kind, ex.Span, msg, hint)
		}
		seq = append(seq, tir.Op{Kind: tir.KPush, Literal: lit, Span: ex.Span})
		seq = append(seq, b.drainEffects()...)
		return id, seq

	case ast.Var:
		id, ok := b.locals[ex.Name]
		if !ok {
			b.bag.Add(diag.UnsupportedFeature, ex.Span, fmt.Sprintf("reference to unknown local %q", ex.Name), "check spelling or declare it with let")
			return 0, nil
		}
		var seq tir.Sequence
		b.remainingReads[ex.Name]--
		if b.remainingReads[ex.Name] <= 0 {
			if kind, msg, bad := b.mgr.BringToTop(id); bad {
				b.bag.Add(kind, ex.Span, msg, "")
			}
			seq = append(seq, b.drainEffects()...)
			return id, seq
		}
		newID := b.freshID()
		if kind, msg, hint, bad := b.mgr.Dup(ex.Span, id, newID, b.widths[ex.Name]); bad {
			b.bag.Add(kind, ex.Span, msg, hint)
		}
		seq = append(seq, b.drainEffects()...)
		return newID, seq

	case ast.Binary:
		return b.buildBinary(ex)

	case ast.Unary:
		return b.buildUnary(ex)

	case ast.Intrinsic:
		return b.buildIntrinsicCall(ex.Name, ex.Args, ex.Span)

	case ast.Call:
		return b.buildCall(ex)

	default:
		b.bag.Invariant(e.Pos(), fmt.Sprintf("builder: unhandled expression type %T", e))
		return 0, nil
	}
}

func binOpIntrinsic(op ast.BinOp) string {
	switch op {
	case ast.OpAdd:
		return "add"
	case ast.OpSub:
		return "sub"
	case ast.OpMul:
		return "mul"
	case ast.OpEq:
		return "eq"
	case ast.OpLt:
		return "lt"
	case ast.OpAnd:
		return "and"
	case ast.OpOr:
		return "or"
	case ast.OpXor:
		return "xor"
	case ast.OpDivMod:
		return "div_mod"
	case ast.OpPow:
		return "pow"
	default:
		return ""
	}
}

func unaryOpIntrinsic(op ast.UnaryOp) string {
	switch op {
	case ast.OpNeg:
		return "neg"
	case ast.OpInv:
		return "inv"
	case ast.OpPopCount:
		return "pop_count"
	case ast.OpLog2:
		return "log2"
	default:
		return ""
	}
}

func (b *builder) buildBinary(ex ast.Binary) (stackmgr.ValueID, tir.Sequence) {
	name := binOpIntrinsic(ex.Op)
	if name == "" {
		b.bag.Invariant(ex.Span, "builder: unknown binary operator")
		return 0, nil
	}
	return b.buildIntrinsicCall(name, []ast.Expr{ex.Left, ex.Right}, ex.Span)
}

func (b *builder) buildUnary(ex ast.Unary) (stackmgr.ValueID, tir.Sequence) {
	name := unaryOpIntrinsic(ex.Op)
	if name == "" {
		b.bag.Invariant(ex.Span, "builder: unknown unary operator")
		return 0, nil
	}
	return b.buildIntrinsicCall(name, []ast.Expr{ex.Operand}, ex.Span)
}

// buildIntrinsicCall evaluates args left to right, emits the intrinsic's
// TIR op, and synchronizes the stackmgr for its declared pop/push delta.
func (b *builder) buildIntrinsicCall(name string, args []ast.Expr, span diag.Span) (stackmgr.ValueID, tir.Sequence) {
	spec, ok := intrinsics[name]
	if !ok {
		b.bag.Add(diag.UnsupportedFeature, span, fmt.Sprintf("unknown intrinsic %q", name), "check the frozen intrinsic list")
		return 0, nil
	}
	var seq tir.Sequence
	for _, a := range args {
		_, s := b.buildExpr(a)
		seq = append(seq, s...)
	}
	for range args {
		if err := b.mgr.Pop(1); err != nil {
			b.bag.Invariant(span, err.Error())
		}
	}
	resultID := b.freshID()
	info := tir.AllKinds[spec.kind]
	pushes := info.Pushes
	if pushes < 0 {
		pushes = 1
	}
	for i := 0; i < pushes; i++ {
		id := resultID
		if i > 0 {
			id = b.freshID()
		}
		if kind, msg, hint, bad := b.mgr.Push(span, id, 1); bad {
			b.bag.Add(kind, span, msg, hint)
		}
	}
	seq = append(seq, tir.Op{Kind: spec.kind, Span: span})
	seq = append(seq, b.drainEffects()...)
	return resultID, seq
}

func (b *builder) buildCall(ex ast.Call) (stackmgr.ValueID, tir.Sequence) {
	if IsIntrinsic(ex.FuncName) {
		return b.buildIntrinsicCall(ex.FuncName, ex.Args, ex.Span)
	}
	fn, ok := b.fnByName[ex.FuncName]
	if !ok {
		b.bag.Add(diag.UnsupportedFeature, ex.Span, fmt.Sprintf("call to unknown function %q", ex.FuncName), "")
		return 0, nil
	}
	var seq tir.Sequence
	for _, a := range ex.Args {
		_, s := b.buildExpr(a)
		seq = append(seq, s...)
	}
	for range ex.Args {
		if err := b.mgr.Pop(1); err != nil {
			b.bag.Invariant(ex.Span, err.Error())
		}
	}
	label := Label(ast.Instance{FuncName: fn.Name, IntArgs: ex.IntArgs})
	resultID := b.freshID()
	if kind, msg, hint, bad := b.mgr.Push(ex.Span, resultID, fn.ReturnWidth); bad {
		b.bag.Add(kind, ex.Span, msg, hint)
	}
	seq = append(seq, tir.Op{Kind: tir.KLabel, Name: label, Span: ex.Span})
	seq = append(seq, b.drainEffects()...)
	return resultID, seq
}
