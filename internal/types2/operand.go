package types2

import (
	"github.com/seen-lang/seen/internal/syntax"
	"github.com/seen-lang/seen/internal/types"
)

// operandMode describes the mode of an operand.
type operandMode int

const (
	invalid  operandMode = iota // operand is invalid
	novalue                     // operand has no value (Void call)
	builtin                     // operand is a builtin function
	typexpr                     // operand names a type
	variable                    // operand denotes a storage location
	value                       // operand is a computed value
)

// operand is the result of checking an expression.
type operand struct {
	mode operandMode
	typ  types.Type
	expr syntax.Expr
}

func (x *operand) String() string {
	if x.mode == invalid {
		return "invalid operand"
	}
	if x.typ == nil {
		return "operand without type"
	}
	return x.typ.String()
}

func (x *operand) setInvalid() {
	x.mode = invalid
	x.typ = types.Typ[types.Invalid]
}

func (x *operand) setValue(typ types.Type) {
	x.mode = value
	x.typ = typ
}

func (x *operand) setVar(typ types.Type) {
	x.mode = variable
	x.typ = typ
}

// isValue reports whether x can be used where a value is required.
func (x *operand) isValue() bool {
	return x.mode == variable || x.mode == value
}
