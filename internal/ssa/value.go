package ssa

import (
	"fmt"
	"strings"

	"github.com/seen-lang/seen/internal/token"
	"github.com/seen-lang/seen/internal/types"
)

// ID is a unique identifier for Values and Blocks within a Func.
type ID int32

// Value represents a single computation.
// Each Value has exactly one definition and may be used by other Values.
type Value struct {
	ID ID

	Op Op

	// Type is the result type. Nil for void operations, including calls
	// of Void functions.
	Type types.Type

	Args []*Value

	// Block is the basic block that contains this value.
	Block *Block

	AuxInt   int64
	AuxFloat float64
	Aux      any

	// Uses counts the references to this value from other values and
	// block controls.
	Uses int32

	// Span is the source range the value was lowered from, if any.
	Span token.Span
}

// String returns a short string representation of the value (e.g., "v5").
func (v *Value) String() string {
	return fmt.Sprintf("v%d", v.ID)
}

// LongString returns the value with its op, type, aux fields and args.
func (v *Value) LongString() string {
	var sb strings.Builder
	if v.Op.IsVoid() || v.Op.IsCall() && v.Type == nil {
		sb.WriteString(v.Op.String())
	} else {
		fmt.Fprintf(&sb, "v%d = %s", v.ID, v.Op)
	}
	if v.Type != nil {
		fmt.Fprintf(&sb, " <%s>", v.Type)
	}

	switch v.Op {
	case OpConstInt, OpConstBool, OpFieldPtr, OpArg:
		fmt.Fprintf(&sb, " [%d]", v.AuxInt)
	case OpConstFloat:
		fmt.Fprintf(&sb, " [%g]", v.AuxFloat)
	}

	if v.Aux != nil {
		fmt.Fprintf(&sb, " {%s}", formatAux(v.Aux))
	}
	for _, arg := range v.Args {
		sb.WriteByte(' ')
		sb.WriteString(arg.String())
	}
	return sb.String()
}

// AddArg appends a value to the argument list and increments the arg's use count.
func (v *Value) AddArg(arg *Value) {
	v.Args = append(v.Args, arg)
	arg.Uses++
}

// ReplaceArg replaces the argument at index i, adjusting use counts.
func (v *Value) ReplaceArg(i int, w *Value) {
	v.Args[i].Uses--
	v.Args[i] = w
	w.Uses++
}

// IsPure returns true if this value's op has no side effects.
func (v *Value) IsPure() bool {
	return v.Op.IsPure()
}

func formatAux(aux any) string {
	switch a := aux.(type) {
	case *Func:
		return a.Name
	case *Global:
		return a.Name
	case string:
		if len(a) > 0 && !isPrintable(a) {
			return fmt.Sprintf("%q", a)
		}
		return a
	case fmt.Stringer:
		return a.String()
	}
	return fmt.Sprint(aux)
}

func isPrintable(s string) bool {
	for _, r := range s {
		if r < ' ' || r == 0x7f {
			return false
		}
	}
	return true
}
