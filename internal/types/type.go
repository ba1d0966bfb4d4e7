// Package types describes Seen's type system: basic, array, optional,
// struct, enum and function types, and the symbols and scopes names
// resolve to. It has no dependency on the syntax tree.
package types

// Type is the interface implemented by all types.
type Type interface {
	// String returns the type as it is written in source.
	String() string

	aType()
}

type typ struct{}

func (typ) aType() {}
