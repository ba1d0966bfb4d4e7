package types2

import (
	"github.com/seen-lang/seen/internal/diag"
	"github.com/seen-lang/seen/internal/syntax"
	"github.com/seen-lang/seen/internal/types"
)

// typExpr resolves a type expression. Errors are reported and yield the
// invalid type; a type built from an invalid component is itself
// invalid.
func (c *Checker) typExpr(e syntax.TypeExpr) types.Type {
	invalid := types.Typ[types.Invalid]

	switch e := e.(type) {
	case *syntax.NamedType:
		sym := c.lookup(e.Name.Value)
		if sym == nil {
			d := diag.New(diag.UnknownType, e.Name.Span(), e.Name.Value)
			if alt := closest(e.Name.Value, c.typeNames()); alt != "" {
				d = d.WithFix(e.Name.Span(), alt, diag.FixDidYouMean, alt)
			}
			c.report(d)
			return invalid
		}
		c.recordUse(e.Name, sym)
		if !sym.Kind.IsType() {
			c.report(declaredHere(diag.New(diag.NotAType, e.Name.Span(), e.Name.Value), sym))
			return invalid
		}
		return sym.Type

	case *syntax.ArrayType:
		elem := c.varType(e.Elem)
		if types.IsInvalid(elem) {
			return invalid
		}
		return types.NewArray(elem)

	case *syntax.OptionalType:
		elem := c.varType(e.Elem)
		if types.IsInvalid(elem) {
			return invalid
		}
		return types.NewOptional(elem)

	case *syntax.FuncType:
		params := make([]types.Type, len(e.Params))
		for i, p := range e.Params {
			params[i] = c.varType(p)
			if types.IsInvalid(params[i]) {
				return invalid
			}
		}
		var result types.Type
		if e.Result != nil {
			result = c.typExpr(e.Result)
			if types.IsInvalid(result) {
				return invalid
			}
		}
		return types.NewFunc(params, result)
	}
	return invalid
}

// varType resolves the type of a storage location. Void is only valid
// as a function result.
func (c *Checker) varType(e syntax.TypeExpr) types.Type {
	typ := c.typExpr(e)
	if types.IsVoid(typ) {
		c.errorf(diag.VoidValue, e.Span(), syntax.TypeString(e))
		return types.Typ[types.Invalid]
	}
	return typ
}

// typeNames returns the type names visible from the current scope.
func (c *Checker) typeNames() []string {
	var names []string
	for _, name := range c.info.Scopes.Visible(c.scope) {
		if sym := c.lookup(name); sym != nil && sym.Kind.IsType() {
			names = append(names, name)
		}
	}
	return names
}
