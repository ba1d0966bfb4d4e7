package types2

import (
	"log/slog"

	"github.com/seen-lang/seen/internal/diag"
	"github.com/seen-lang/seen/internal/syntax"
	"github.com/seen-lang/seen/internal/types"
)

// Config specifies the configuration for type checking.
type Config struct {
	// Diags, if non-nil, receives every diagnostic in addition to the
	// list returned by Check.
	Diags *diag.List

	// Logger receives stage-level debug records. Nil discards them.
	Logger *slog.Logger
}

// Info is the typed overlay of a file. It is keyed by node id; the
// syntax tree itself is never modified. Info is read-only once Check
// returns and may be shared between goroutines.
type Info struct {
	// Types maps every checked expression to its type. Expressions that
	// failed to check map to the invalid type.
	Types map[syntax.NodeID]types.Type

	// Defs maps declaring names to the symbols they declare.
	Defs map[syntax.NodeID]*types.Symbol

	// Uses maps referring names to the symbols they resolve to.
	Uses map[syntax.NodeID]*types.Symbol

	// Scopes is the scope arena for the file.
	Scopes *types.Scopes

	// NodeScopes maps the File, FuncDecl, BlockStmt and ForStmt nodes to
	// the scope they open.
	NodeScopes map[syntax.NodeID]types.ScopeID

	// FileScope is the scope holding top-level declarations.
	FileScope types.ScopeID
}

// TypeOf returns the type recorded for x, or nil.
func (info *Info) TypeOf(x syntax.Expr) types.Type {
	return info.Types[x.ID()]
}

// SymbolOf returns the symbol a name declares or refers to, or nil.
func (info *Info) SymbolOf(n *syntax.Name) *types.Symbol {
	if sym := info.Defs[n.ID()]; sym != nil {
		return sym
	}
	return info.Uses[n.ID()]
}

// IsGlobal reports whether sym is bound in the file scope.
func (info *Info) IsGlobal(sym *types.Symbol) bool {
	return sym.Scope == info.FileScope
}

// Check type-checks file and returns its typed overlay together with
// the diagnostics found. Check always returns a non-nil Info; erroneous
// subtrees are typed as invalid.
func Check(file *syntax.File, conf *Config) (*Info, diag.List) {
	if conf == nil {
		conf = &Config{}
	}
	logger := conf.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	info := &Info{
		Types:      make(map[syntax.NodeID]types.Type),
		Defs:       make(map[syntax.NodeID]*types.Symbol),
		Uses:       make(map[syntax.NodeID]*types.Symbol),
		Scopes:     types.NewScopes(),
		NodeScopes: make(map[syntax.NodeID]types.ScopeID),
	}

	c := &Checker{
		conf:   conf,
		info:   info,
		logger: logger,
		funcs:  make(map[*syntax.FuncDecl]*types.Symbol),
	}
	c.checkFile(file)

	if conf.Diags != nil {
		for _, d := range c.diags {
			conf.Diags.Add(d)
		}
	}
	logger.Debug("check",
		"file", file.Filename,
		"diagnostics", len(c.diags),
		"scopes", info.Scopes.Len(),
		"types", len(info.Types))
	return info, c.diags
}
