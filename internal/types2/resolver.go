package types2

import (
	"github.com/seen-lang/seen/internal/diag"
	"github.com/seen-lang/seen/internal/syntax"
	"github.com/seen-lang/seen/internal/types"
)

// collectDecls binds the struct, enum and function names declared in
// list in the current scope. Struct fields and function signatures are
// resolved afterwards by resolveDecls, once every name in list is bound,
// so declarations may refer to each other regardless of order.
//
// Functions may only be declared in the file scope.
func (c *Checker) collectDecls(list []syntax.Stmt) {
	for _, s := range list {
		switch d := s.(type) {
		case *syntax.StructDecl:
			st := types.NewStruct(d.Name.Value, d.Name.Span())
			c.declare(d.Name, &types.Symbol{Name: d.Name.Value, Kind: types.SymStruct, Type: st})

		case *syntax.EnumDecl:
			variants := make([]string, 0, len(d.Variants))
			seen := make(map[string]*syntax.Name)
			for _, v := range d.Variants {
				if prev := seen[v.Value]; prev != nil {
					c.report(diag.New(diag.Redeclared, v.Span(), v.Value).
						WithRelated(prev.Span(), diag.NotePrevious, v.Value))
					continue
				}
				seen[v.Value] = v
				variants = append(variants, v.Value)
			}
			en := types.NewEnum(d.Name.Value, d.Name.Span(), variants)
			c.declare(d.Name, &types.Symbol{Name: d.Name.Value, Kind: types.SymEnum, Type: en})

		case *syntax.FuncDecl:
			if c.scope != c.info.FileScope {
				c.errorf(diag.NestedFunc, d.Name.Span(), d.Name.Value)
				continue
			}
			sym := &types.Symbol{Name: d.Name.Value, Kind: types.SymFunc, Type: types.Typ[types.Invalid]}
			c.funcs[d] = sym
			c.declare(d.Name, sym)
		}
	}
}

// resolveDecls resolves the struct fields and function signatures of
// the declarations collected from list.
func (c *Checker) resolveDecls(list []syntax.Stmt) {
	var structs []*types.Struct
	for _, s := range list {
		if d, ok := s.(*syntax.StructDecl); ok {
			if st := c.structFields(d); st != nil {
				structs = append(structs, st)
			}
		}
	}
	c.checkCycles(structs)

	for _, s := range list {
		if d, ok := s.(*syntax.FuncDecl); ok {
			if sym := c.funcs[d]; sym != nil {
				sym.Type = c.funcType(d)
			}
		}
	}
}
