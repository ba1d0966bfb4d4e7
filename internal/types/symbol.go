package types

import (
	"fmt"

	"github.com/seen-lang/seen/internal/token"
)

// SymbolKind classifies what a name denotes.
type SymbolKind uint8

const (
	BadSymbol  SymbolKind = iota
	SymVal                // immutable binding
	SymVar                // mutable binding
	SymParam              // function parameter; immutable
	SymFunc               // function declaration
	SymStruct             // struct type name
	SymEnum               // enum type name
	SymType               // predeclared type name
	SymBuiltin            // builtin function
)

var symbolKindNames = [...]string{
	BadSymbol:  "bad",
	SymVal:     "val",
	SymVar:     "var",
	SymParam:   "param",
	SymFunc:    "func",
	SymStruct:  "struct",
	SymEnum:    "enum",
	SymType:    "type",
	SymBuiltin: "builtin",
}

func (k SymbolKind) String() string {
	if int(k) < len(symbolKindNames) {
		return symbolKindNames[k]
	}
	return fmt.Sprintf("SymbolKind(%d)", k)
}

// IsType reports whether a symbol of kind k names a type.
func (k SymbolKind) IsType() bool {
	return k == SymStruct || k == SymEnum || k == SymType
}

// IsValue reports whether a symbol of kind k can be used as a value.
func (k SymbolKind) IsValue() bool {
	return k == SymVal || k == SymVar || k == SymParam || k == SymFunc
}

// Symbol is a named entity bound in a scope. Symbols are created by the
// checker and never modified after checking completes.
type Symbol struct {
	Name    string
	Kind    SymbolKind
	Type    Type
	Mutable bool
	Decl    token.Span // span of the declaring name; invalid for predeclared symbols
	Scope   ScopeID    // scope the symbol is bound in
	Index   int        // parameter position for SymParam
}

func (s *Symbol) String() string {
	return fmt.Sprintf("%s %s: %s", s.Kind, s.Name, s.Type)
}

// IsPredeclared reports whether s belongs to the universe scope.
func (s *Symbol) IsPredeclared() bool {
	return s.Scope == Universe
}
