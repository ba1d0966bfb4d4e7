package ssa

import (
	"fmt"

	"github.com/seen-lang/seen/internal/syntax"
	"github.com/seen-lang/seen/internal/token"
	"github.com/seen-lang/seen/internal/types"
	"github.com/seen-lang/seen/internal/types2"
)

// builder holds the state for lowering one function. The program-wide
// tables are shared by the builders of all functions in a file.
type builder struct {
	info    *types2.Info
	funcs   map[*types.Symbol]*Func
	globals map[*types.Symbol]*Global

	fn *Func
	b  *Block // current block; nil when unreachable

	vars map[*types.Symbol]*Value // local symbol -> alloca

	breakTarget    *Block
	continueTarget *Block
}

// buildError carries an internal failure out of the builder.
type buildError struct {
	msg string
}

func (e *buildError) Error() string { return e.msg }

// Build lowers a checked file to IR. The file must have checked without
// errors; an expression typed as invalid makes Build fail. Every
// function of the result passes Verify.
func Build(file *syntax.File, info *types2.Info) (prog *Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			be, ok := r.(*buildError)
			if !ok {
				panic(r)
			}
			prog, err = nil, fmt.Errorf("ssa: %s: %w", file.Filename, be)
		}
	}()

	prog = &Program{}
	funcs := make(map[*types.Symbol]*Func)
	globals := make(map[*types.Symbol]*Global)

	// Create every function up front so calls may refer forward.
	var decls []*syntax.FuncDecl
	var top []syntax.Stmt
	for _, s := range file.Body {
		switch s := s.(type) {
		case *syntax.FuncDecl:
			sym := info.Defs[s.Name.ID()]
			if sym == nil {
				failf("no symbol for func %s", s.Name.Value)
			}
			sig, ok := sym.Type.(*types.Func)
			if !ok {
				failf("func %s has type %s", s.Name.Value, sym.Type)
			}
			fn := NewFunc(s.Name.Value, sig)
			for _, p := range s.Params {
				fn.ParamNames = append(fn.ParamNames, p.Name.Value)
			}
			funcs[sym] = fn
			prog.Funcs = append(prog.Funcs, fn)
			decls = append(decls, s)
		case *syntax.StructDecl, *syntax.EnumDecl:
		case *syntax.VarDecl:
			sym := info.Defs[s.Name.ID()]
			if sym == nil {
				failf("no symbol for %s", s.Name.Value)
			}
			g := &Global{Name: s.Name.Value, Type: sym.Type, Mutable: s.Mutable}
			globals[sym] = g
			prog.Globals = append(prog.Globals, g)
			top = append(top, s)
		default:
			top = append(top, s)
		}
	}

	newBuilder := func(fn *Func) *builder {
		return &builder{
			info:    info,
			funcs:   funcs,
			globals: globals,
			fn:      fn,
			b:       fn.Entry,
			vars:    make(map[*types.Symbol]*Value),
		}
	}

	for i, d := range decls {
		newBuilder(prog.Funcs[i]).buildFunc(d)
	}
	if len(top) > 0 {
		prog.Init = NewFunc(InitName, types.NewFunc(nil, nil))
		b := newBuilder(prog.Init)
		b.stmts(top)
		b.finish()
	}

	for _, fn := range prog.AllFuncs() {
		if err := Verify(fn); err != nil {
			return nil, err
		}
	}
	return prog, nil
}

func failf(format string, args ...any) {
	panic(&buildError{msg: fmt.Sprintf(format, args...)})
}

// buildFunc lowers the body of d. Each parameter is stored to a stack
// slot so that it is read like any other variable.
func (b *builder) buildFunc(d *syntax.FuncDecl) {
	fn := b.fn
	for i, p := range d.Params {
		sym := b.info.Defs[p.Name.ID()]
		if sym == nil {
			failf("no symbol for param %s of %s", p.Name.Value, fn.Name)
		}
		arg := fn.NewValueSpan(fn.Entry, OpArg, sym.Type, p.Span())
		arg.AuxInt = int64(i)
		arg.Aux = p.Name.Value

		slot := b.entryAlloca(sym.Type, p.Name.Value)
		fn.NewValue(fn.Entry, OpStore, nil, slot, arg)
		b.vars[sym] = slot
	}

	b.stmts(d.Body.Stmts)
	b.finish()
}

// finish terminates a block left open at the end of the body with a
// Void return.
func (b *builder) finish() {
	if b.b == nil {
		return
	}
	if !types.IsVoid(b.fn.Sig.Result()) {
		failf("function %s can reach its end without returning %s", b.fn.Name, b.fn.Sig.Result())
	}
	b.ret(nil)
}

// entryAlloca creates a stack slot in the entry block.
func (b *builder) entryAlloca(typ types.Type, name string) *Value {
	slot := b.fn.NewValue(b.fn.Entry, OpAlloca, types.NewPointer(typ))
	slot.Aux = name
	return slot
}

// Terminators. Each leaves the builder without a current block.

func (b *builder) jump(to *Block) {
	b.b.Kind = BlockJump
	b.b.AddSucc(to)
	b.b = nil
}

func (b *builder) branch(cond *Value, then, els *Block) {
	b.b.Kind = BlockBranch
	b.b.SetControl(cond)
	b.b.AddSucc(then)
	b.b.AddSucc(els)
	b.b = nil
}

func (b *builder) ret(v *Value) {
	b.b.Kind = BlockReturn
	if v != nil {
		b.b.SetControl(v)
	}
	b.b = nil
}

// enter makes blk current if it is reachable, and removes it otherwise.
func (b *builder) enter(blk *Block) {
	if len(blk.Preds) == 0 {
		b.removeDead(blk)
		b.b = nil
		return
	}
	b.b = blk
}

// stmts lowers a list of statements, stopping at the first one that
// cannot be reached.
func (b *builder) stmts(list []syntax.Stmt) {
	for _, s := range list {
		if b.b == nil {
			break
		}
		b.stmt(s)
	}
}

func (b *builder) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.FuncDecl, *syntax.StructDecl, *syntax.EnumDecl:
		// no code

	case *syntax.VarDecl:
		b.varDecl(s)

	case *syntax.ExprStmt:
		b.exprStmt(s.X)

	case *syntax.BlockStmt:
		b.stmts(s.Stmts)

	case *syntax.ReturnStmt:
		b.returnStmt(s)

	case *syntax.IfStmt:
		b.ifStmt(s)

	case *syntax.WhileStmt:
		b.whileStmt(s)

	case *syntax.ForStmt:
		b.forStmt(s)

	case *syntax.LoopStmt:
		b.loopStmt(s)

	case *syntax.BranchStmt:
		b.branchStmt(s)

	default:
		failf("unexpected %T at %s", s, s.Span().Start)
	}
}

// varDecl stores the initializer into the variable's slot: a global if
// the declaration is top-level, a stack slot otherwise.
func (b *builder) varDecl(d *syntax.VarDecl) {
	sym := b.info.Defs[d.Name.ID()]
	if sym == nil {
		failf("no symbol for %s", d.Name.Value)
	}
	val := b.exprTo(d.Value, sym.Type)

	var slot *Value
	if g, ok := b.globals[sym]; ok {
		slot = b.fn.NewValueSpan(b.b, OpGlobalAddr, types.NewPointer(g.Type), d.Name.Span())
		slot.Aux = g
	} else {
		slot = b.entryAlloca(sym.Type, d.Name.Value)
		b.vars[sym] = slot
	}
	b.fn.NewValueSpan(b.b, OpStore, nil, d.Span(), slot, val)
}

func (b *builder) exprStmt(e syntax.Expr) {
	if call, ok := syntax.Unparen(e).(*syntax.CallExpr); ok {
		b.call(call)
		return
	}
	b.expr(e)
}

func (b *builder) returnStmt(s *syntax.ReturnStmt) {
	if s.Result == nil {
		b.ret(nil)
		return
	}
	b.ret(b.exprTo(s.Result, b.fn.Sig.Result()))
}

// ifStmt lowers if cond { then } else { ... } to blocks if.then, if.else
// and if.end. Without an else, the false edge goes straight to if.end.
func (b *builder) ifStmt(s *syntax.IfStmt) {
	cond := b.expr(s.Cond)

	then := b.fn.NewBlock(BlockInvalid, "if.then")
	var els *Block
	if s.Else != nil {
		els = b.fn.NewBlock(BlockInvalid, "if.else")
	}
	end := b.fn.NewBlock(BlockInvalid, "if.end")
	if els == nil {
		b.branch(cond, then, end)
	} else {
		b.branch(cond, then, els)
	}

	b.b = then
	b.stmts(s.Then.Stmts)
	if b.b != nil {
		b.jump(end)
	}

	if els != nil {
		b.b = els
		b.stmt(s.Else)
		if b.b != nil {
			b.jump(end)
		}
	}

	b.enter(end)
}

// whileStmt lowers while cond { body } to while.cond, while.body and
// while.end. continue re-tests the condition.
func (b *builder) whileStmt(s *syntax.WhileStmt) {
	head := b.fn.NewBlock(BlockInvalid, "while.cond")
	body := b.fn.NewBlock(BlockInvalid, "while.body")
	end := b.fn.NewBlock(BlockInvalid, "while.end")

	b.jump(head)
	b.b = head
	b.branch(b.expr(s.Cond), body, end)

	b.b = body
	b.loop(end, head, s.Body)
	b.enter(end)
}

// forStmt lowers for x in arr { body }. The array is evaluated once; a
// stack slot holds the index of the next element:
//
//	idx = 0
//	for.cond: i = idx; if i < len(arr) goto for.body else for.end
//	for.body: x = arr[i]; idx = i + 1; body; goto for.cond
func (b *builder) forStmt(s *syntax.ForStmt) {
	arr := b.expr(s.Iter)
	arrType, ok := arr.Type.(*types.Array)
	if !ok {
		failf("for over %s at %s", arr.Type, s.Iter.Span().Start)
	}
	intType := types.Typ[types.Int]

	idx := b.entryAlloca(intType, "for.idx")
	b.fn.NewValue(b.b, OpStore, nil, idx, b.constInt(intType, 0))

	head := b.fn.NewBlock(BlockInvalid, "for.cond")
	body := b.fn.NewBlock(BlockInvalid, "for.body")
	end := b.fn.NewBlock(BlockInvalid, "for.end")

	b.jump(head)
	b.b = head
	i := b.fn.NewValue(b.b, OpLoad, intType, idx)
	n := b.fn.NewValue(b.b, OpArrayLen, intType, arr)
	b.branch(b.fn.NewValue(b.b, OpLt64, types.Typ[types.Bool], i, n), body, end)

	b.b = body
	sym := b.info.Defs[s.Var.ID()]
	if sym == nil {
		failf("no symbol for %s", s.Var.Value)
	}
	slot := b.entryAlloca(arrType.Elem(), s.Var.Value)
	b.vars[sym] = slot
	ptr := b.fn.NewValueSpan(b.b, OpIndexPtr, types.NewPointer(arrType.Elem()), s.Iter.Span(), arr, i)
	b.fn.NewValue(b.b, OpStore, nil, slot, b.fn.NewValue(b.b, OpLoad, arrType.Elem(), ptr))
	next := b.fn.NewValue(b.b, OpAdd64, intType, i, b.constInt(intType, 1))
	b.fn.NewValue(b.b, OpStore, nil, idx, next)

	b.loop(end, head, s.Body)
	b.enter(end)
}

// loopStmt lowers loop { body } to loop.body and loop.end. loop.end
// exists only if the body breaks.
func (b *builder) loopStmt(s *syntax.LoopStmt) {
	body := b.fn.NewBlock(BlockInvalid, "loop.body")
	end := b.fn.NewBlock(BlockInvalid, "loop.end")

	b.jump(body)
	b.b = body
	b.loop(end, body, s.Body)
	b.enter(end)
}

// loop lowers the statements of a loop body starting in the current
// block. A body that completes jumps back to cont.
func (b *builder) loop(brk, cont *Block, stmts *syntax.BlockStmt) {
	savedBreak, savedContinue := b.breakTarget, b.continueTarget
	b.breakTarget, b.continueTarget = brk, cont

	b.stmts(stmts.Stmts)
	if b.b != nil {
		b.jump(cont)
	}

	b.breakTarget, b.continueTarget = savedBreak, savedContinue
}

func (b *builder) branchStmt(s *syntax.BranchStmt) {
	target := b.continueTarget
	if s.Tok == token.Break {
		target = b.breakTarget
	}
	if target == nil {
		failf("%s outside loop at %s", s.Tok.Name(), s.Span().Start)
	}
	b.jump(target)
}

// removeDead removes a block without predecessors from the function.
func (b *builder) removeDead(dead *Block) {
	for i, blk := range b.fn.Blocks {
		if blk == dead {
			b.fn.Blocks = append(b.fn.Blocks[:i], b.fn.Blocks[i+1:]...)
			return
		}
	}
}
