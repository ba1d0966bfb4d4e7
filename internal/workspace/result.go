package workspace

import (
	"slices"

	"github.com/samber/lo"
	"github.com/seen-lang/seen/internal/diag"
	"github.com/seen-lang/seen/internal/syntax"
	"github.com/seen-lang/seen/internal/token"
	"github.com/seen-lang/seen/internal/types"
	"github.com/seen-lang/seen/internal/types2"
)

// Result is the analysis of one version of a file. It is never modified
// after it is published and may be shared between goroutines.
type Result struct {
	Path        string
	Version     uint64
	Content     []byte
	Tokens      []token.Token
	File        *syntax.File
	Info        *types2.Info
	Diagnostics diag.List

	refs []ref // every resolvable name, in source order
}

// target is what a name denotes: a symbol, or a struct field identified
// by the span of its declaring name.
type target struct {
	sym   *types.Symbol
	field token.Span
}

type ref struct {
	name   *syntax.Name
	target target
}

func (r *Result) index() {
	add := func(n *syntax.Name, t target) {
		if n != nil && (t.sym != nil || t.field.IsValid()) {
			r.refs = append(r.refs, ref{name: n, target: t})
		}
	}
	fieldOf := func(t types.Type, name *syntax.Name) target {
		st, ok := t.(*types.Struct)
		if !ok || name == nil {
			return target{}
		}
		i := st.FieldIndex(name.Value)
		if i < 0 {
			return target{}
		}
		return target{field: st.Field(i).Decl}
	}

	syntax.Inspect(r.File, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.Name:
			if sym := r.Info.SymbolOf(n); sym != nil && !sym.IsPredeclared() {
				add(n, target{sym: sym})
			}
		case *syntax.Field:
			if n.Name != nil {
				add(n.Name, target{field: n.Name.Span()})
			}
		case *syntax.SelectorExpr:
			add(n.Sel, fieldOf(r.Info.Types[n.X.ID()], n.Sel))
		case *syntax.StructLit:
			t := r.Info.Types[n.ID()]
			for _, f := range n.Fields {
				add(f.Name, fieldOf(t, f.Name))
			}
		}
		return true
	})

	slices.SortStableFunc(r.refs, func(a, b ref) int {
		return a.name.Span().Offset - b.name.Span().Offset
	})
}

// at returns the ref whose name covers span.
func (r *Result) at(span token.Span) (ref, bool) {
	return lo.Find(r.refs, func(x ref) bool {
		s := x.name.Span()
		return s.Offset <= span.Offset && span.EndOffset <= s.EndOffset
	})
}

// Definition returns the declaring span of the name covering span.
func (r *Result) Definition(span token.Span) (token.Span, bool) {
	x, ok := r.at(span)
	if !ok {
		return token.Span{}, false
	}
	if x.target.sym != nil {
		return x.target.sym.Decl, x.target.sym.Decl.IsValid()
	}
	return x.target.field, true
}

// References returns the spans of every name denoting the same entity as
// the name covering span.
func (r *Result) References(span token.Span) []token.Span {
	x, ok := r.at(span)
	if !ok {
		return nil
	}
	return lo.FilterMap(r.refs, func(y ref, _ int) (token.Span, bool) {
		return y.name.Span(), y.target == x.target
	})
}

// NameAt returns the name covering span.
func (r *Result) NameAt(span token.Span) (*syntax.Name, bool) {
	x, ok := r.at(span)
	return x.name, ok
}
