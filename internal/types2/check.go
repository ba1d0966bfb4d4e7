package types2

import (
	"log/slog"

	"github.com/seen-lang/seen/internal/diag"
	"github.com/seen-lang/seen/internal/syntax"
	"github.com/seen-lang/seen/internal/types"
)

// Checker is the type checker for one file. A Checker is not safe for
// concurrent use; Check creates a fresh one per call.
type Checker struct {
	conf   *Config
	info   *Info
	logger *slog.Logger
	diags  diag.List

	scope types.ScopeID // current scope

	// Function context
	funcSig   *types.Func // signature of the function being checked; nil at top level
	loopDepth int         // nested loop depth, for break/continue

	// Symbols of top-level functions, keyed by declaration.
	funcs map[*syntax.FuncDecl]*types.Symbol
}

// checkFile type-checks a single file in two passes.
//
// Pass 1 binds every top-level struct, enum and function name, then
// resolves struct fields and function signatures, so declarations may
// refer to each other in any order.
//
// Pass 2 checks top-level variables and statements in source order,
// then function bodies. Top-level variables are bound as they are
// reached, so function bodies see all of them.
func (c *Checker) checkFile(file *syntax.File) {
	c.info.FileScope = c.openScope(file, "file")

	c.collectDecls(file.Body)
	c.resolveDecls(file.Body)

	c.stmts(file.Body)

	for _, s := range file.Body {
		if fd, ok := s.(*syntax.FuncDecl); ok {
			c.funcBody(fd)
		}
	}

	c.closeScope()
}

// openScope creates a child of the current scope for n and enters it.
func (c *Checker) openScope(n syntax.Node, comment string) types.ScopeID {
	id := c.info.Scopes.New(c.scope, n.Span(), comment)
	c.scope = id
	c.info.NodeScopes[n.ID()] = id
	return id
}

// closeScope returns to the parent scope.
func (c *Checker) closeScope() {
	c.scope = c.info.Scopes.Parent(c.scope)
}

// lookup looks up a name in the current scope chain.
func (c *Checker) lookup(name string) *types.Symbol {
	return c.info.Scopes.Lookup(c.scope, name)
}

// declare binds sym in the current scope and records name as its
// definition. A name already bound in the same scope is reported; the
// earlier binding stays in effect.
func (c *Checker) declare(name *syntax.Name, sym *types.Symbol) {
	sym.Decl = name.Span()
	c.info.Defs[name.ID()] = sym
	if prev := c.info.Scopes.Insert(c.scope, sym); prev != nil {
		d := diag.New(diag.Redeclared, name.Span(), name.Value)
		if prev.Decl.IsValid() {
			d = d.WithRelated(prev.Decl, diag.NotePrevious, name.Value)
		}
		c.report(d)
	}
}

// record records the type of e.
func (c *Checker) record(e syntax.Expr, typ types.Type) {
	if typ == nil {
		typ = types.Typ[types.Invalid]
	}
	c.info.Types[e.ID()] = typ
}

// recordUse records that name refers to sym.
func (c *Checker) recordUse(name *syntax.Name, sym *types.Symbol) {
	c.info.Uses[name.ID()] = sym
}
