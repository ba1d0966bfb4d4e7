package types

// Identical reports whether x and y are identical types. Arrays,
// optionals and functions compare structurally; structs and enums by
// declaration.
func Identical(x, y Type) bool {
	if x == y {
		return true
	}
	if x == nil || y == nil {
		return false
	}

	switch x := x.(type) {
	case *Basic:
		if y, ok := y.(*Basic); ok {
			return x.kind == y.kind
		}
	case *Array:
		if y, ok := y.(*Array); ok {
			return Identical(x.elem, y.elem)
		}
	case *Optional:
		if y, ok := y.(*Optional); ok {
			return Identical(x.elem, y.elem)
		}
	case *Pointer:
		if y, ok := y.(*Pointer); ok {
			return Identical(x.elem, y.elem)
		}
	case *Func:
		if y, ok := y.(*Func); ok {
			return identicalFuncs(x, y)
		}
	}
	// Struct and Enum are identical only to themselves, handled by x == y.
	return false
}

func identicalFuncs(x, y *Func) bool {
	if len(x.params) != len(y.params) {
		return false
	}
	for i := range x.params {
		if !Identical(x.params[i], y.params[i]) {
			return false
		}
	}
	return Identical(x.result, y.result)
}

// AssignableTo reports whether a value of type V may be stored in a
// location of type T. Int widens to Float; V is assignable to V?; null is
// assignable to any optional. An optional is never assignable to its
// element type. Invalid is assignable both ways so that an erroneous
// operand does not produce a second diagnostic.
func AssignableTo(V, T Type) bool {
	if IsInvalid(V) || IsInvalid(T) {
		return true
	}
	if Identical(V, T) {
		return true
	}
	if isKind(V, Int) && isKind(T, Float) {
		return true
	}
	if opt, ok := T.(*Optional); ok {
		if isKind(V, Null) {
			return true
		}
		if _, vopt := V.(*Optional); !vopt {
			return AssignableTo(V, opt.elem)
		}
	}
	return false
}

// Widened returns the type both operands of an arithmetic or comparison
// operator convert to: the shared type if identical, Float if one is Int
// and the other Float, and nil otherwise.
func Widened(x, y Type) Type {
	if Identical(x, y) {
		return x
	}
	if isKind(x, Int) && isKind(y, Float) || isKind(x, Float) && isKind(y, Int) {
		return Typ[Float]
	}
	return nil
}

func isKind(t Type, k BasicKind) bool {
	b, ok := t.(*Basic)
	return ok && b.kind == k
}

// IsInvalid reports whether t is the invalid type. A nil type counts as
// invalid.
func IsInvalid(t Type) bool {
	return t == nil || isKind(t, Invalid)
}

// IsVoid reports whether t is Void.
func IsVoid(t Type) bool { return isKind(t, Void) }

// IsNull reports whether t is the type of the null literal.
func IsNull(t Type) bool { return isKind(t, Null) }

// IsBoolean reports whether t is Bool.
func IsBoolean(t Type) bool {
	b, ok := t.(*Basic)
	return ok && b.info&InfoBoolean != 0
}

// IsInteger reports whether t is Int.
func IsInteger(t Type) bool {
	b, ok := t.(*Basic)
	return ok && b.info&InfoInteger != 0
}

// IsFloat reports whether t is Float.
func IsFloat(t Type) bool {
	b, ok := t.(*Basic)
	return ok && b.info&InfoFloat != 0
}

// IsNumeric reports whether t is Int or Float.
func IsNumeric(t Type) bool {
	b, ok := t.(*Basic)
	return ok && b.info&InfoNumeric != 0
}

// IsString reports whether t is String.
func IsString(t Type) bool {
	b, ok := t.(*Basic)
	return ok && b.info&InfoString != 0
}

// IsOptional reports whether t is an optional type.
func IsOptional(t Type) bool {
	_, ok := t.(*Optional)
	return ok
}

// Comparable reports whether values of type t can be compared with ==
// and != against values of an identical type. Optionals only compare
// against null, which callers check separately.
func Comparable(t Type) bool {
	switch t := t.(type) {
	case *Basic:
		return t.info != 0
	case *Enum:
		return true
	}
	return false
}

// Ordered reports whether values of type t can be ordered with <, <=, >
// and >=.
func Ordered(t Type) bool {
	b, ok := t.(*Basic)
	return ok && b.info&(InfoNumeric|InfoString) != 0
}
