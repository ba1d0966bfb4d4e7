package types

import "github.com/seen-lang/seen/internal/rtabi"

// Sizes computes memory layout using the rtabi constants so that
// generated code and the runtime agree. Layouts are recomputed on each
// call; types stay immutable after checking and may be shared between
// goroutines.
type Sizes struct{}

// DefaultSizes is the default Sizes implementation.
var DefaultSizes = &Sizes{}

// Sizeof returns the size of t in bytes.
func (s *Sizes) Sizeof(t Type) int64 {
	switch t := t.(type) {
	case *Basic:
		return basicSize(t.kind)
	case *Array:
		return rtabi.SizeArray
	case *Enum:
		return rtabi.SizeEnum
	case *Pointer, *Func:
		return rtabi.SizePtr
	case *Optional:
		size, _, _ := s.layout([]Type{Typ[Bool], t.elem})
		return size
	case *Struct:
		size, _, _ := s.layout(fieldTypes(t))
		return size
	}
	return 0
}

// Alignof returns the alignment of t in bytes.
func (s *Sizes) Alignof(t Type) int64 {
	switch t := t.(type) {
	case *Basic:
		return basicAlign(t.kind)
	case *Array:
		return rtabi.AlignArray
	case *Enum:
		return rtabi.AlignEnum
	case *Pointer, *Func:
		return rtabi.AlignPtr
	case *Optional:
		_, a, _ := s.layout([]Type{Typ[Bool], t.elem})
		return a
	case *Struct:
		_, a, _ := s.layout(fieldTypes(t))
		return a
	}
	return 1
}

// Offsetsof returns the byte offset of each field of st.
func (s *Sizes) Offsetsof(st *Struct) []int64 {
	_, _, offsets := s.layout(fieldTypes(st))
	return offsets
}

// layout lays out a sequence of members the way a C struct would.
func (s *Sizes) layout(members []Type) (size, maxAlign int64, offsets []int64) {
	maxAlign = 1
	offsets = make([]int64, len(members))
	var offset int64
	for i, m := range members {
		a := s.Alignof(m)
		offset = align(offset, a)
		offsets[i] = offset
		offset += s.Sizeof(m)
		maxAlign = max(maxAlign, a)
	}
	return align(offset, maxAlign), maxAlign, offsets
}

func fieldTypes(st *Struct) []Type {
	ts := make([]Type, len(st.fields))
	for i, f := range st.fields {
		ts[i] = f.Type
	}
	return ts
}

func basicSize(kind BasicKind) int64 {
	switch kind {
	case Bool:
		return rtabi.SizeBool
	case Int:
		return rtabi.SizeInt
	case Float:
		return rtabi.SizeFloat
	case String:
		return rtabi.SizeString
	case Null:
		return rtabi.SizePtr
	}
	return 0
}

func basicAlign(kind BasicKind) int64 {
	switch kind {
	case Int:
		return rtabi.AlignInt
	case Float:
		return rtabi.AlignFloat
	case String:
		return rtabi.AlignString
	case Null:
		return rtabi.AlignPtr
	}
	return 1
}

// align returns x rounded up to a multiple of a.
func align(x, a int64) int64 {
	return (x + a - 1) &^ (a - 1)
}
