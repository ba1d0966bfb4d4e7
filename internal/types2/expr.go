package types2

import (
	"errors"
	"strconv"

	"github.com/seen-lang/seen/internal/diag"
	"github.com/seen-lang/seen/internal/syntax"
	"github.com/seen-lang/seen/internal/token"
	"github.com/seen-lang/seen/internal/types"
)

// expr checks e, which must denote a single value.
func (c *Checker) expr(x *operand, e syntax.Expr) {
	c.exprWithHint(x, e, nil)
}

// exprWithHint checks e, which must denote a single value. hint, if not
// nil, is the type the context expects; it lets empty array literals and
// array literals of widened elements take the expected type.
func (c *Checker) exprWithHint(x *operand, e syntax.Expr, hint types.Type) {
	c.rawExpr(x, e, hint)
	c.singleValue(x)
}

// rawExpr checks e in any mode and records its type.
func (c *Checker) rawExpr(x *operand, e syntax.Expr, hint types.Type) {
	c.exprInternal(x, e, hint)
	x.expr = e
	c.record(e, x.typ)
}

// singleValue reports x if it does not denote a value.
func (c *Checker) singleValue(x *operand) {
	switch x.mode {
	case novalue:
		c.errorf(diag.VoidValue, x.expr.Span(), syntax.ExprString(x.expr))
		x.setInvalid()
	case typexpr, builtin:
		c.errorf(diag.NotAValue, x.expr.Span(), syntax.ExprString(x.expr))
		x.setInvalid()
	}
}

func (c *Checker) exprInternal(x *operand, e syntax.Expr, hint types.Type) {
	x.setInvalid()
	x.expr = e

	switch e := e.(type) {
	case *syntax.BadExpr:
		// reported by the parser

	case *syntax.Name:
		c.ident(x, e)

	case *syntax.BasicLit:
		c.basicLit(x, e)

	case *syntax.ParenExpr:
		c.rawExpr(x, e.X, hint)

	case *syntax.UnaryExpr:
		c.unary(x, e)

	case *syntax.BinaryExpr:
		c.binary(x, e)

	case *syntax.AssignExpr:
		c.assign(x, e)

	case *syntax.CallExpr:
		c.call(x, e)

	case *syntax.SelectorExpr:
		c.selector(x, e)

	case *syntax.IndexExpr:
		c.index(x, e)

	case *syntax.StructLit:
		c.structLit(x, e)

	case *syntax.ArrayLit:
		c.arrayLit(x, e, hint)

	case *syntax.IfExpr:
		c.ifExpr(x, e, hint)
	}
}

// ident resolves a name used as an expression.
func (c *Checker) ident(x *operand, n *syntax.Name) {
	var sym *types.Symbol
	if n.Builtin == token.Println {
		sym = c.info.Scopes.LookupLocal(types.Universe, types.PrintlnName)
	} else {
		sym = c.lookup(n.Value)
	}
	if sym == nil {
		c.undefined(n)
		return
	}
	c.recordUse(n, sym)

	switch sym.Kind {
	case types.SymVal, types.SymVar, types.SymParam:
		if types.IsInvalid(sym.Type) {
			return
		}
		x.setVar(sym.Type)
	case types.SymFunc:
		if types.IsInvalid(sym.Type) {
			return
		}
		x.setValue(sym.Type)
	case types.SymBuiltin:
		x.mode = builtin
		x.typ = sym.Type
	case types.SymStruct, types.SymEnum, types.SymType:
		x.mode = typexpr
		x.typ = sym.Type
	}
}

func (c *Checker) basicLit(x *operand, lit *syntax.BasicLit) {
	switch lit.Kind {
	case token.IntLiteral:
		if _, err := lit.Int(); errors.Is(err, strconv.ErrRange) {
			c.errorf(diag.IntOverflow, lit.Span(), lit.Raw)
		}
		x.setValue(types.Typ[types.Int])
	case token.FloatLiteral:
		x.setValue(types.Typ[types.Float])
	case token.StringLiteral:
		x.setValue(types.Typ[types.String])
	case token.True, token.False:
		x.setValue(types.Typ[types.Bool])
	case token.Null:
		x.setValue(types.Typ[types.Null])
	}
}

func (c *Checker) unary(x *operand, e *syntax.UnaryExpr) {
	c.expr(x, e.X)
	if x.mode == invalid {
		return
	}

	ok := false
	switch e.Op {
	case token.Minus:
		ok = types.IsNumeric(x.typ)
	case token.Not:
		ok = types.IsBoolean(x.typ)
	}
	if !ok {
		c.errorf(diag.InvalidUnary, e.Span(), e.Op.Text(), x.typ)
		x.setInvalid()
		return
	}
	x.setValue(x.typ)
}

// binary checks a binary operation. An operand that already failed to
// check makes the result invalid without further diagnostics.
func (c *Checker) binary(x *operand, e *syntax.BinaryExpr) {
	var y operand
	c.expr(x, e.X)
	c.expr(&y, e.Y)
	if x.mode == invalid || y.mode == invalid {
		x.setInvalid()
		return
	}

	op := e.Op
	mismatch := func() {
		c.errorf(diag.MismatchedOperands, e.OpAt, x.typ, y.typ, op.Text())
		x.setInvalid()
	}

	switch op {
	case token.And, token.Or:
		if !types.IsBoolean(x.typ) || !types.IsBoolean(y.typ) {
			mismatch()
			return
		}
		x.setValue(types.Typ[types.Bool])

	case token.Equal, token.NotEqual:
		if isNullComparison(x.typ, y.typ) {
			x.setValue(types.Typ[types.Bool])
			return
		}
		t := types.Widened(x.typ, y.typ)
		if t == nil {
			mismatch()
			return
		}
		if !types.Comparable(t) {
			c.errorf(diag.NotComparable, e.OpAt, op.Text(), x.typ, y.typ)
			x.setInvalid()
			return
		}
		x.setValue(types.Typ[types.Bool])

	case token.LessThan, token.LessEqual, token.GreaterThan, token.GreaterEqual:
		t := types.Widened(x.typ, y.typ)
		if t == nil {
			mismatch()
			return
		}
		if !types.Ordered(t) {
			c.errorf(diag.InvalidOperator, e.OpAt, op.Text(), t)
			x.setInvalid()
			return
		}
		x.setValue(types.Typ[types.Bool])

	default: // + - * / %
		t := types.Widened(x.typ, y.typ)
		if t == nil {
			mismatch()
			return
		}
		if !types.IsNumeric(t) && !(op == token.Plus && types.IsString(t)) {
			c.errorf(diag.InvalidOperator, e.OpAt, op.Text(), t)
			x.setInvalid()
			return
		}
		x.setValue(t)
	}
}

// isNullComparison reports whether x and y compare an optional (or
// null) against null.
func isNullComparison(x, y types.Type) bool {
	return types.IsNull(x) && (types.IsOptional(y) || types.IsNull(y)) ||
		types.IsNull(y) && types.IsOptional(x)
}

// assign checks an assignment expression. Its value is the assigned
// value, typed as the target.
func (c *Checker) assign(x *operand, e *syntax.AssignExpr) {
	var lhs operand
	c.expr(&lhs, e.Target)

	var hint types.Type
	if lhs.mode != invalid {
		hint = lhs.typ
		c.checkTarget(e.Target)
	}
	c.exprWithHint(x, e.Value, hint)
	if lhs.mode == invalid {
		x.setInvalid()
		return
	}
	c.assignment(x, lhs.typ, "assignment")
	x.setValue(lhs.typ)
}

// checkTarget reports e if it does not denote an assignable place: a
// var, a field reached from a var, or an array element.
func (c *Checker) checkTarget(e syntax.Expr) {
	root := syntax.Unparen(e)
	for {
		sel, ok := root.(*syntax.SelectorExpr)
		if !ok {
			break
		}
		root = syntax.Unparen(sel.X)
	}

	switch r := root.(type) {
	case *syntax.IndexExpr:
		// Array elements are always assignable.
		return
	case *syntax.Name:
		sym := c.info.Uses[r.ID()]
		if sym == nil {
			return
		}
		switch sym.Kind {
		case types.SymVar:
			return
		case types.SymVal, types.SymParam:
			d := diag.New(diag.AssignToVal, e.Span(), syntax.ExprString(e))
			c.report(declaredHere(d, sym))
			return
		}
	}
	c.errorf(diag.NotAssignable, e.Span(), syntax.ExprString(e))
}

// assignment reports x if it cannot be stored in a location of type T.
// context names the construct for the diagnostic.
func (c *Checker) assignment(x *operand, T types.Type, context string) bool {
	if x.mode == invalid || types.IsInvalid(T) {
		return true
	}
	if !types.AssignableTo(x.typ, T) {
		c.errorf(diag.CannotUse, x.expr.Span(), x.typ, T, context)
		return false
	}
	return true
}

// selector checks X.Sel, which is either a field of a struct value or a
// variant of an enum type.
func (c *Checker) selector(x *operand, e *syntax.SelectorExpr) {
	c.rawExpr(x, e.X, nil)
	sel := e.Sel.Value

	switch x.mode {
	case invalid:
		return
	case typexpr:
		en, ok := x.typ.(*types.Enum)
		if !ok {
			c.errorf(diag.NotAValue, e.X.Span(), syntax.ExprString(e.X))
			x.setInvalid()
			return
		}
		if en.VariantIndex(sel) < 0 {
			d := diag.New(diag.NoFieldOrVariant, e.Sel.Span(), en.Name(), sel)
			if alt := closest(sel, en.Variants()); alt != "" {
				d = d.WithFix(e.Sel.Span(), alt, diag.FixDidYouMean, alt)
			}
			c.report(d)
			x.setInvalid()
			return
		}
		x.setValue(en)
		return
	}

	c.singleValue(x)
	if x.mode == invalid {
		return
	}
	st, ok := x.typ.(*types.Struct)
	if !ok {
		c.errorf(diag.NoFieldOrVariant, e.Sel.Span(), x.typ, sel)
		x.setInvalid()
		return
	}
	i := st.FieldIndex(sel)
	if i < 0 {
		d := diag.New(diag.NoFieldOrVariant, e.Sel.Span(), st.Name(), sel)
		if alt := closest(sel, fieldNames(st)); alt != "" {
			d = d.WithFix(e.Sel.Span(), alt, diag.FixDidYouMean, alt)
		}
		c.report(d)
		x.setInvalid()
		return
	}

	f := st.Field(i)
	if types.IsInvalid(f.Type) {
		x.setInvalid()
		return
	}
	if x.mode == variable {
		x.setVar(f.Type)
	} else {
		x.setValue(f.Type)
	}
}

func (c *Checker) index(x *operand, e *syntax.IndexExpr) {
	var i operand
	c.expr(x, e.X)
	c.expr(&i, e.Index)
	if i.mode != invalid && !types.IsInteger(i.typ) {
		c.errorf(diag.IndexNotInt, e.Index.Span(), i.typ)
	}
	if x.mode == invalid {
		return
	}
	arr, ok := x.typ.(*types.Array)
	if !ok {
		c.errorf(diag.NotIndexable, e.X.Span(), syntax.ExprString(e.X), x.typ)
		x.setInvalid()
		return
	}
	x.setVar(arr.Elem())
}

// structLit checks a struct literal. Every field problem is reported:
// duplicates, unknown names, and each missing field.
func (c *Checker) structLit(x *operand, e *syntax.StructLit) {
	var st *types.Struct
	if sym := c.lookup(e.Type.Value); sym == nil {
		c.undefined(e.Type)
	} else {
		c.recordUse(e.Type, sym)
		if s, ok := sym.Type.(*types.Struct); ok && sym.Kind == types.SymStruct {
			st = s
		} else {
			c.report(declaredHere(diag.New(diag.NotAStruct, e.Type.Span(), e.Type.Value), sym))
		}
	}

	var v operand
	if st == nil {
		for _, f := range e.Fields {
			c.expr(&v, f.Value)
		}
		return
	}

	seen := make(map[string]*syntax.FieldInit)
	for _, f := range e.Fields {
		name := f.Name.Value
		if prev := seen[name]; prev != nil {
			c.report(diag.New(diag.DuplicateField, f.Name.Span(), name, st.Name()).
				WithRelated(prev.Name.Span(), diag.NotePrevious, name))
			c.expr(&v, f.Value)
			continue
		}
		seen[name] = f

		i := st.FieldIndex(name)
		if i < 0 {
			d := diag.New(diag.UnknownField, f.Name.Span(), name, st.Name())
			if alt := closest(name, fieldNames(st)); alt != "" {
				d = d.WithFix(f.Name.Span(), alt, diag.FixDidYouMean, alt)
			}
			c.report(d)
			c.expr(&v, f.Value)
			continue
		}
		field := st.Field(i)
		c.exprWithHint(&v, f.Value, field.Type)
		c.assignment(&v, field.Type, "field "+name)
	}

	for _, f := range st.Fields() {
		if seen[f.Name] == nil {
			c.report(diag.New(diag.MissingField, e.Span(), f.Name, st.Name()).
				WithRelated(f.Decl, diag.NoteDeclaredHere, f.Name))
		}
	}
	x.setValue(st)
}

func fieldNames(st *types.Struct) []string {
	names := make([]string, st.NumFields())
	for i, f := range st.Fields() {
		names[i] = f.Name
	}
	return names
}

// arrayLit checks an array literal. With an array hint every element
// must be assignable to the hinted element type; otherwise the element
// type is inferred by widening the element types in order.
func (c *Checker) arrayLit(x *operand, e *syntax.ArrayLit, hint types.Type) {
	if opt, ok := hint.(*types.Optional); ok {
		hint = opt.Elem()
	}
	var v operand

	if arr, ok := hint.(*types.Array); ok {
		elem := arr.Elem()
		for i, el := range e.Elems {
			c.exprWithHint(&v, el, elem)
			if v.mode != invalid && !types.AssignableTo(v.typ, elem) {
				c.errorf(diag.ArrayElement, el.Span(), i+1, v.typ, elem)
			}
		}
		x.setValue(arr)
		return
	}

	if len(e.Elems) == 0 {
		c.errorf(diag.EmptyArray, e.Span())
		return
	}

	var elem types.Type
	for i, el := range e.Elems {
		c.expr(&v, el)
		if v.mode == invalid {
			continue
		}
		if elem == nil {
			elem = v.typ
			continue
		}
		if t := types.Widened(elem, v.typ); t != nil {
			elem = t
		} else {
			c.errorf(diag.ArrayElement, el.Span(), i+1, v.typ, elem)
		}
	}
	switch {
	case elem == nil:
		return
	case types.IsNull(elem):
		c.errorf(diag.UntypedNull, e.Span())
		return
	}
	x.setValue(types.NewArray(elem))
}

// ifExpr checks an if expression. Both branches must have identical
// types; Int and Float branches are not widened.
func (c *Checker) ifExpr(x *operand, e *syntax.IfExpr, hint types.Type) {
	c.cond(e.Cond, "if")

	var y operand
	c.exprWithHint(x, e.Then, hint)
	c.exprWithHint(&y, e.Else, hint)
	if x.mode == invalid || y.mode == invalid {
		x.setInvalid()
		return
	}
	if !types.Identical(x.typ, y.typ) {
		c.errorf(diag.BranchMismatch, e.Span(), x.typ, y.typ)
		x.setInvalid()
		return
	}
	x.setValue(x.typ)
}
