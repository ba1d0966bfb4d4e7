package types2

import (
	"github.com/seen-lang/seen/internal/diag"
	"github.com/seen-lang/seen/internal/syntax"
	"github.com/seen-lang/seen/internal/types"
)

// structFields resolves the field types of d and installs them on the
// struct type bound to d's name.
func (c *Checker) structFields(d *syntax.StructDecl) *types.Struct {
	sym := c.info.Defs[d.Name.ID()]
	if sym == nil {
		return nil
	}
	st, ok := sym.Type.(*types.Struct)
	if !ok {
		return nil
	}

	fields := make([]*types.Field, 0, len(d.Fields))
	seen := make(map[string]*syntax.Field)
	for _, f := range d.Fields {
		typ := c.varType(f.Type)
		if prev := seen[f.Name.Value]; prev != nil {
			c.report(diag.New(diag.Redeclared, f.Name.Span(), f.Name.Value).
				WithRelated(prev.Name.Span(), diag.NotePrevious, f.Name.Value))
			continue
		}
		seen[f.Name.Value] = f
		fields = append(fields, &types.Field{Name: f.Name.Value, Type: typ, Decl: f.Name.Span()})
	}
	st.SetFields(fields)
	return st
}

// checkCycles reports structs that contain themselves by value, directly
// or through other structs and optionals. Arrays are heap-allocated and
// break a cycle. The offending fields are retyped as invalid so that
// layout computation terminates; each cycle is reported once.
func (c *Checker) checkCycles(structs []*types.Struct) {
	for _, st := range structs {
		if !reaches(st, st, make(map[*types.Struct]bool)) {
			continue
		}
		c.errorf(diag.RecursiveStruct, st.Decl(), st.Name())

		fields := make([]*types.Field, len(st.Fields()))
		for i, f := range st.Fields() {
			fields[i] = f
			inner := byValue(f.Type)
			if inner == st || inner != nil && reaches(inner, st, make(map[*types.Struct]bool)) {
				fields[i] = &types.Field{Name: f.Name, Type: types.Typ[types.Invalid], Decl: f.Decl}
			}
		}
		st.SetFields(fields)
	}
}

// byValue returns the struct stored inline in a value of type t, if any.
func byValue(t types.Type) *types.Struct {
	for {
		switch u := t.(type) {
		case *types.Struct:
			return u
		case *types.Optional:
			t = u.Elem()
		default:
			return nil
		}
	}
}

func reaches(from, target *types.Struct, seen map[*types.Struct]bool) bool {
	for _, f := range from.Fields() {
		s := byValue(f.Type)
		if s == nil {
			continue
		}
		if s == target {
			return true
		}
		if !seen[s] {
			seen[s] = true
			if reaches(s, target, seen) {
				return true
			}
		}
	}
	return false
}

// funcType resolves the signature of d.
func (c *Checker) funcType(d *syntax.FuncDecl) *types.Func {
	params := make([]types.Type, len(d.Params))
	for i, p := range d.Params {
		params[i] = c.varType(p.Type)
	}
	var result types.Type
	if d.Result != nil {
		result = c.typExpr(d.Result)
	}
	return types.NewFunc(params, result)
}

// varDecl checks a val or var declaration. The name is bound after the
// initializer is checked, so the initializer cannot refer to it.
func (c *Checker) varDecl(d *syntax.VarDecl) {
	var typ types.Type
	if d.Type != nil {
		typ = c.varType(d.Type)
	}

	var x operand
	c.exprWithHint(&x, d.Value, typ)

	if typ != nil {
		c.assignment(&x, typ, "variable declaration")
	} else {
		switch {
		case x.mode == invalid:
			typ = types.Typ[types.Invalid]
		case types.IsNull(x.typ):
			c.errorf(diag.UntypedNull, d.Value.Span())
			typ = types.Typ[types.Invalid]
		default:
			typ = x.typ
		}
	}

	kind := types.SymVal
	if d.Mutable {
		kind = types.SymVar
	}
	c.declare(d.Name, &types.Symbol{Name: d.Name.Value, Kind: kind, Type: typ, Mutable: d.Mutable})
}

// funcBody checks the body of a top-level function. Parameters and the
// body's top-level statements share one scope, recorded for both the
// declaration and its body block.
func (c *Checker) funcBody(d *syntax.FuncDecl) {
	sym := c.funcs[d]
	if sym == nil {
		return
	}
	sig, ok := sym.Type.(*types.Func)
	if !ok {
		return
	}

	c.openScope(d, "func "+d.Name.Value)
	c.info.NodeScopes[d.Body.ID()] = c.scope
	for i, p := range d.Params {
		c.declare(p.Name, &types.Symbol{
			Name:  p.Name.Value,
			Kind:  types.SymParam,
			Type:  sig.Param(i),
			Index: i,
		})
	}

	c.funcSig = sig
	c.block(d.Body.Stmts)
	if !types.IsVoid(sig.Result()) && !isTerminating(d.Body) {
		c.errorf(diag.MissingReturn, d.Name.Span(), d.Name.Value, sig.Result())
	}
	c.funcSig = nil

	c.closeScope()
}
