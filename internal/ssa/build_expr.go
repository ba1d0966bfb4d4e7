package ssa

import (
	"github.com/seen-lang/seen/internal/syntax"
	"github.com/seen-lang/seen/internal/token"
	"github.com/seen-lang/seen/internal/types"
)

// expr lowers an expression to a value of its recorded type.
func (b *builder) expr(e syntax.Expr) *Value {
	switch e := e.(type) {
	case *syntax.ParenExpr:
		return b.expr(e.X)

	case *syntax.BasicLit:
		return b.basicLit(e)

	case *syntax.Name:
		return b.name(e)

	case *syntax.UnaryExpr:
		return b.unary(e)

	case *syntax.BinaryExpr:
		return b.binary(e)

	case *syntax.AssignExpr:
		return b.assign(e)

	case *syntax.CallExpr:
		v := b.call(e)
		if v == nil {
			failf("%s has no value at %s", syntax.ExprString(e), e.Span().Start)
		}
		return v

	case *syntax.SelectorExpr:
		return b.selector(e)

	case *syntax.IndexExpr:
		ptr := b.addr(e)
		return b.fn.NewValueSpan(b.b, OpLoad, b.exprType(e), e.Span(), ptr)

	case *syntax.StructLit:
		return b.structLit(e)

	case *syntax.ArrayLit:
		return b.arrayLit(e)

	case *syntax.IfExpr:
		return b.ifExpr(e, b.exprType(e))
	}
	failf("unexpected %T at %s", e, e.Span().Start)
	return nil
}

// exprTo lowers e and converts the result to type to, which e's type
// must be assignable to. null and if-expressions whose branches need
// converting are lowered directly at type to.
func (b *builder) exprTo(e syntax.Expr, to types.Type) *Value {
	switch x := syntax.Unparen(e).(type) {
	case *syntax.BasicLit:
		if x.Kind == token.Null {
			if !types.IsOptional(to) {
				failf("null used as %s at %s", to, x.Span().Start)
			}
			return b.fn.NewValueSpan(b.b, OpConstNull, to, x.Span())
		}
	case *syntax.IfExpr:
		if !types.Identical(b.exprType(x), to) {
			return b.ifExpr(x, to)
		}
	}
	return b.convert(b.expr(e), to)
}

// convert applies the implicit conversions: Int to Float, and a value
// of type T to T?.
func (b *builder) convert(v *Value, to types.Type) *Value {
	switch {
	case types.Identical(v.Type, to):
		return v
	case types.IsInteger(v.Type) && types.IsFloat(to):
		return b.fn.NewValueSpan(b.b, OpIntToFloat, to, v.Span, v)
	}
	if opt, ok := to.(*types.Optional); ok && !types.IsOptional(v.Type) {
		return b.fn.NewValueSpan(b.b, OpWrap, to, v.Span, b.convert(v, opt.Elem()))
	}
	failf("cannot convert %s to %s", v.Type, to)
	return nil
}

// exprType returns the checked type of e, failing on erroneous
// expressions.
func (b *builder) exprType(e syntax.Expr) types.Type {
	t := b.info.TypeOf(e)
	if types.IsInvalid(t) {
		failf("%s has no valid type at %s", syntax.ExprString(e), e.Span().Start)
	}
	return t
}

func (b *builder) constInt(typ types.Type, n int64) *Value {
	v := b.fn.NewValue(b.b, OpConstInt, typ)
	v.AuxInt = n
	return v
}

func (b *builder) constBool(x bool) *Value {
	v := b.fn.NewValue(b.b, OpConstBool, types.Typ[types.Bool])
	if x {
		v.AuxInt = 1
	}
	return v
}

func (b *builder) basicLit(e *syntax.BasicLit) *Value {
	typ := b.exprType(e)
	switch e.Kind {
	case token.IntLiteral:
		n, err := e.Int()
		if err != nil {
			failf("bad integer literal %s at %s: %v", e.Raw, e.Span().Start, err)
		}
		v := b.constInt(typ, n)
		v.Span = e.Span()
		return v
	case token.FloatLiteral:
		f, err := e.Float()
		if err != nil {
			failf("bad float literal %s at %s: %v", e.Raw, e.Span().Start, err)
		}
		v := b.fn.NewValueSpan(b.b, OpConstFloat, typ, e.Span())
		v.AuxFloat = f
		return v
	case token.StringLiteral:
		v := b.fn.NewValueSpan(b.b, OpConstString, typ, e.Span())
		v.Aux = e.Value
		return v
	case token.True, token.False:
		v := b.constBool(e.Kind == token.True)
		v.Span = e.Span()
		return v
	}
	failf("%s needs an optional type at %s", e.Raw, e.Span().Start)
	return nil
}

// name loads a variable or takes the address of a function.
func (b *builder) name(e *syntax.Name) *Value {
	sym := b.info.Uses[e.ID()]
	if sym == nil {
		failf("unresolved name %s at %s", e.Value, e.Span().Start)
	}
	if sym.Kind == types.SymFunc {
		v := b.fn.NewValueSpan(b.b, OpFuncAddr, sym.Type, e.Span())
		v.Aux = b.funcs[sym]
		return v
	}
	return b.fn.NewValueSpan(b.b, OpLoad, sym.Type, e.Span(), b.addr(e))
}

// addr returns a pointer to the storage denoted by e: a variable, a
// struct field or an array element.
func (b *builder) addr(e syntax.Expr) *Value {
	switch e := e.(type) {
	case *syntax.ParenExpr:
		return b.addr(e.X)

	case *syntax.Name:
		sym := b.info.Uses[e.ID()]
		if slot, ok := b.vars[sym]; ok {
			return slot
		}
		if g, ok := b.globals[sym]; ok {
			v := b.fn.NewValueSpan(b.b, OpGlobalAddr, types.NewPointer(g.Type), e.Span())
			v.Aux = g
			return v
		}
		failf("%s is not a variable at %s", e.Value, e.Span().Start)

	case *syntax.SelectorExpr:
		return b.fieldPtr(e)

	case *syntax.IndexExpr:
		arr := b.expr(e.X)
		idx := b.expr(e.Index)
		return b.fn.NewValueSpan(b.b, OpIndexPtr, types.NewPointer(b.exprType(e)), e.Span(), arr, idx)
	}
	failf("%s is not addressable at %s", syntax.ExprString(e), e.Span().Start)
	return nil
}

// addressable reports whether addr can take the address of e without
// spilling it to a temporary.
func (b *builder) addressable(e syntax.Expr) bool {
	switch e := syntax.Unparen(e).(type) {
	case *syntax.Name:
		sym := b.info.Uses[e.ID()]
		_, local := b.vars[sym]
		_, global := b.globals[sym]
		return local || global
	case *syntax.SelectorExpr:
		return b.addressable(e.X)
	case *syntax.IndexExpr:
		return true
	}
	return false
}

// fieldPtr returns a pointer to the field selected by e. A struct value
// that is not stored anywhere is first spilled to a stack slot.
func (b *builder) fieldPtr(e *syntax.SelectorExpr) *Value {
	st, ok := b.exprType(e.X).(*types.Struct)
	if !ok {
		failf("field %s of non-struct at %s", e.Sel.Value, e.Span().Start)
	}
	i := st.FieldIndex(e.Sel.Value)
	if i < 0 {
		failf("%s has no field %s", st, e.Sel.Value)
	}

	var base *Value
	if b.addressable(e.X) {
		base = b.addr(e.X)
	} else {
		base = b.entryAlloca(st, "tmp")
		b.fn.NewValue(b.b, OpStore, nil, base, b.expr(e.X))
	}
	v := b.fn.NewValueSpan(b.b, OpFieldPtr, types.NewPointer(st.Field(i).Type), e.Span(), base)
	v.AuxInt = int64(i)
	return v
}

// selector lowers an enum variant to its ordinal and a field selection
// to a load through the field pointer.
func (b *builder) selector(e *syntax.SelectorExpr) *Value {
	if name, ok := syntax.Unparen(e.X).(*syntax.Name); ok {
		if sym := b.info.Uses[name.ID()]; sym != nil && sym.Kind == types.SymEnum {
			enum := sym.Type.(*types.Enum)
			v := b.constInt(enum, int64(enum.VariantIndex(e.Sel.Value)))
			v.Aux = enum.Name() + "." + e.Sel.Value
			v.Span = e.Span()
			return v
		}
	}
	ptr := b.fieldPtr(e)
	return b.fn.NewValueSpan(b.b, OpLoad, b.exprType(e), e.Span(), ptr)
}

func (b *builder) unary(e *syntax.UnaryExpr) *Value {
	x := b.expr(e.X)
	var op Op
	switch {
	case e.Op == token.Not:
		op = OpNot
	case types.IsFloat(x.Type):
		op = OpNegF64
	default:
		op = OpNeg64
	}
	return b.fn.NewValueSpan(b.b, op, x.Type, e.Span(), x)
}

// binary lowers a binary operation. Both operands are converted to their
// widened type before the operation.
func (b *builder) binary(e *syntax.BinaryExpr) *Value {
	if e.Op == token.And || e.Op == token.Or {
		return b.shortCircuit(e)
	}

	xt, yt := b.exprType(e.X), b.exprType(e.Y)
	if types.IsNull(xt) || types.IsNull(yt) {
		return b.nullCompare(e, xt, yt)
	}
	t := types.Widened(xt, yt)
	if t == nil {
		failf("mismatched operands %s and %s at %s", xt, yt, e.OpAt.Start)
	}
	x := b.exprTo(e.X, t)
	y := b.exprTo(e.Y, t)
	boolType := types.Typ[types.Bool]

	if types.IsString(t) {
		if e.Op == token.Plus {
			return b.fn.NewValueSpan(b.b, OpStringConcat, t, e.Span(), x, y)
		}
		cmp := b.fn.NewValueSpan(b.b, OpStringCmp, types.Typ[types.Int], e.Span(), x, y)
		op, ok := BinaryOp(e.Op, false)
		if !ok || !op.IsComparison() {
			failf("operator %s on strings at %s", e.Op.Text(), e.OpAt.Start)
		}
		return b.fn.NewValueSpan(b.b, op, boolType, e.Span(), cmp, b.constInt(types.Typ[types.Int], 0))
	}

	op, ok := BinaryOp(e.Op, types.IsFloat(t))
	if !ok {
		failf("operator %s at %s", e.Op.Text(), e.OpAt.Start)
	}
	typ := t
	if op.IsComparison() {
		typ = boolType
	}
	return b.fn.NewValueSpan(b.b, op, typ, e.Span(), x, y)
}

// nullCompare lowers x == null and x != null.
func (b *builder) nullCompare(e *syntax.BinaryExpr, xt, yt types.Type) *Value {
	if e.Op != token.Equal && e.Op != token.NotEqual {
		failf("operator %s on null at %s", e.Op.Text(), e.OpAt.Start)
	}
	if types.IsNull(xt) && types.IsNull(yt) {
		return b.constBool(e.Op == token.Equal)
	}
	opt := e.X
	if types.IsNull(xt) {
		opt = e.Y
	}
	v := b.fn.NewValueSpan(b.b, OpIsNull, types.Typ[types.Bool], e.Span(), b.expr(opt))
	if e.Op == token.NotEqual {
		v = b.fn.NewValueSpan(b.b, OpNot, v.Type, e.Span(), v)
	}
	return v
}

// shortCircuit lowers x && y and x || y. The right operand is evaluated
// in its own block; a Phi in the end block merges the short-circuit
// constant with y.
//
//	x && y:  if x goto and.rhs else and.end
//	and.rhs: goto and.end
//	and.end: phi(false, y)
func (b *builder) shortCircuit(e *syntax.BinaryExpr) *Value {
	prefix := "and"
	if e.Op == token.Or {
		prefix = "or"
	}

	x := b.expr(e.X)
	short := b.constBool(e.Op == token.Or)

	rhs := b.fn.NewBlock(BlockInvalid, prefix+".rhs")
	end := b.fn.NewBlock(BlockInvalid, prefix+".end")
	if e.Op == token.And {
		b.branch(x, rhs, end)
	} else {
		b.branch(x, end, rhs)
	}

	b.b = rhs
	y := b.expr(e.Y)
	b.jump(end)

	b.b = end
	phi := b.fn.NewValueSpan(end, OpPhi, types.Typ[types.Bool], e.Span())
	phi.AddArg(short)
	phi.AddArg(y)
	return phi
}

// ifExpr lowers if c { x } else { y } used as a value of type typ.
func (b *builder) ifExpr(e *syntax.IfExpr, typ types.Type) *Value {
	cond := b.expr(e.Cond)

	then := b.fn.NewBlock(BlockInvalid, "if.then")
	els := b.fn.NewBlock(BlockInvalid, "if.else")
	end := b.fn.NewBlock(BlockInvalid, "if.end")
	b.branch(cond, then, els)

	b.b = then
	x := b.exprTo(e.Then, typ)
	b.jump(end)

	b.b = els
	y := b.exprTo(e.Else, typ)
	b.jump(end)

	b.b = end
	phi := b.fn.NewValueSpan(end, OpPhi, typ, e.Span())
	phi.AddArg(x)
	phi.AddArg(y)
	return phi
}

// assign stores the converted value through the target's address. The
// value of the expression is the stored value.
func (b *builder) assign(e *syntax.AssignExpr) *Value {
	ptr := b.addr(e.Target)
	v := b.exprTo(e.Value, b.exprType(e.Target))
	b.fn.NewValueSpan(b.b, OpStore, nil, e.Span(), ptr, v)
	return v
}

// call lowers a call. Calls of declared functions are direct; any other
// callee is a function value called indirectly. The result is nil for
// Void functions.
func (b *builder) call(e *syntax.CallExpr) *Value {
	var v *Value
	if name, ok := syntax.Unparen(e.Fun).(*syntax.Name); ok {
		sym := b.info.Uses[name.ID()]
		switch {
		case sym == nil:
			failf("unresolved callee %s at %s", name.Value, name.Span().Start)
		case sym.Kind == types.SymBuiltin:
			b.println(e)
			return nil
		case sym.Kind == types.SymFunc:
			callee := b.funcs[sym]
			args := b.args(e.Args, callee.Sig)
			v = b.fn.NewValueSpan(b.b, OpStaticCall, resultType(callee.Sig), e.Span(), args...)
			v.Aux = callee
		}
	}
	if v == nil {
		fv := b.expr(e.Fun)
		sig, ok := fv.Type.(*types.Func)
		if !ok {
			failf("call of %s at %s", fv.Type, e.Span().Start)
		}
		args := append([]*Value{fv}, b.args(e.Args, sig)...)
		v = b.fn.NewValueSpan(b.b, OpCall, resultType(sig), e.Span(), args...)
	}
	if v.Type == nil {
		return nil
	}
	return v
}

// args lowers call arguments left to right, converting each to its
// parameter type.
func (b *builder) args(list []syntax.Expr, sig *types.Func) []*Value {
	if len(list) != sig.NumParams() {
		failf("%d arguments for %s", len(list), sig)
	}
	vals := make([]*Value, len(list))
	for i, a := range list {
		vals[i] = b.exprTo(a, sig.Param(i))
	}
	return vals
}

func resultType(sig *types.Func) types.Type {
	if types.IsVoid(sig.Result()) {
		return nil
	}
	return sig.Result()
}

// println lowers the builtin. A bare null prints as an empty Int?.
func (b *builder) println(e *syntax.CallExpr) {
	if len(e.Args) != 1 {
		failf("println with %d arguments at %s", len(e.Args), e.Span().Start)
	}
	arg := e.Args[0]
	var v *Value
	if types.IsNull(b.exprType(arg)) {
		v = b.exprTo(arg, types.NewOptional(types.Typ[types.Int]))
	} else {
		v = b.expr(arg)
	}
	b.fn.NewValueSpan(b.b, OpPrintln, nil, e.Span(), v)
}

// structLit builds the struct in a stack slot, storing each field in
// source order, and loads the result.
func (b *builder) structLit(e *syntax.StructLit) *Value {
	st, ok := b.exprType(e).(*types.Struct)
	if !ok {
		failf("struct literal of %s at %s", b.exprType(e), e.Span().Start)
	}
	slot := b.entryAlloca(st, st.Name())
	for _, f := range e.Fields {
		i := st.FieldIndex(f.Name.Value)
		if i < 0 {
			failf("%s has no field %s", st, f.Name.Value)
		}
		ft := st.Field(i).Type
		v := b.exprTo(f.Value, ft)
		ptr := b.fn.NewValueSpan(b.b, OpFieldPtr, types.NewPointer(ft), f.Span(), slot)
		ptr.AuxInt = int64(i)
		b.fn.NewValue(b.b, OpStore, nil, ptr, v)
	}
	return b.fn.NewValueSpan(b.b, OpLoad, st, e.Span(), slot)
}

func (b *builder) arrayLit(e *syntax.ArrayLit) *Value {
	at, ok := b.exprType(e).(*types.Array)
	if !ok {
		failf("array literal of %s at %s", b.exprType(e), e.Span().Start)
	}
	elems := make([]*Value, len(e.Elems))
	for i, x := range e.Elems {
		elems[i] = b.exprTo(x, at.Elem())
	}
	return b.fn.NewValueSpan(b.b, OpMakeArray, at, e.Span(), elems...)
}
