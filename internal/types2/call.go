package types2

import (
	"github.com/seen-lang/seen/internal/diag"
	"github.com/seen-lang/seen/internal/syntax"
	"github.com/seen-lang/seen/internal/types"
)

// call checks a call expression. The call's type is the declared result
// of the callee even when arguments are wrong, so a bad call does not
// cascade into its context.
func (c *Checker) call(x *operand, e *syntax.CallExpr) {
	c.rawExpr(x, e.Fun, nil)
	name := syntax.ExprString(e.Fun)

	switch x.mode {
	case invalid:
		c.useArgs(e.Args)
		return
	case builtin:
		c.println(x, e, name)
		return
	case novalue:
		c.singleValue(x)
		c.useArgs(e.Args)
		return
	}

	sig, ok := x.typ.(*types.Func)
	if !ok {
		c.errorf(diag.NotCallable, e.Fun.Span(), name, x.typ)
		c.useArgs(e.Args)
		x.setInvalid()
		return
	}

	n, m := len(e.Args), sig.NumParams()
	if n != m {
		c.errorf(diag.WrongArgCount, e.Span(), name, m, n)
	}
	var a operand
	for i, arg := range e.Args {
		if i >= m {
			c.expr(&a, arg)
			continue
		}
		pt := sig.Param(i)
		c.exprWithHint(&a, arg, pt)
		if a.mode != invalid && !types.AssignableTo(a.typ, pt) {
			c.errorf(diag.ArgumentType, arg.Span(), a.typ, pt, i+1, name)
		}
	}

	if types.IsVoid(sig.Result()) {
		x.mode = novalue
		x.typ = sig.Result()
		return
	}
	x.setValue(sig.Result())
}

// println checks a call of the println builtin, which takes exactly one
// argument of any type that has a value.
func (c *Checker) println(x *operand, e *syntax.CallExpr, name string) {
	x.mode = novalue
	x.typ = types.Typ[types.Void]

	if len(e.Args) != 1 {
		c.errorf(diag.WrongArgCount, e.Span(), name, 1, len(e.Args))
		c.useArgs(e.Args)
		return
	}
	var a operand
	c.expr(&a, e.Args[0])
}

// useArgs checks args for their own errors when the call itself cannot
// be checked.
func (c *Checker) useArgs(args []syntax.Expr) {
	var a operand
	for _, arg := range args {
		c.expr(&a, arg)
	}
}
