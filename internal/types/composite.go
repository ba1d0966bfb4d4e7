package types

import (
	"slices"
	"strings"

	"github.com/seen-lang/seen/internal/token"
)

// Array represents a dynamically sized array type [Elem].
type Array struct {
	typ
	elem Type
}

// NewArray returns the array type with the given element type.
func NewArray(elem Type) *Array {
	return &Array{elem: elem}
}

// Elem returns the element type.
func (a *Array) Elem() Type {
	return a.elem
}

func (a *Array) String() string {
	return "[" + a.elem.String() + "]"
}

// Optional represents Elem? : a value of Elem or null.
type Optional struct {
	typ
	elem Type
}

// NewOptional returns the optional type over elem.
func NewOptional(elem Type) *Optional {
	return &Optional{elem: elem}
}

// Elem returns the wrapped type.
func (o *Optional) Elem() Type {
	return o.elem
}

func (o *Optional) String() string {
	if _, ok := o.elem.(*Func); ok {
		return "(" + o.elem.String() + ")?"
	}
	return o.elem.String() + "?"
}

// Func represents a function signature. A function without a declared
// result has result Void.
type Func struct {
	typ
	params []Type
	result Type
}

// NewFunc returns a function type. A nil result means Void.
func NewFunc(params []Type, result Type) *Func {
	if result == nil {
		result = Typ[Void]
	}
	return &Func{params: params, result: result}
}

// Params returns the parameter types.
func (f *Func) Params() []Type {
	return f.params
}

// NumParams returns the number of parameters.
func (f *Func) NumParams() int {
	return len(f.params)
}

// Param returns the i'th parameter type.
func (f *Func) Param(i int) Type {
	return f.params[i]
}

// Result returns the result type.
func (f *Func) Result() Type {
	return f.result
}

func (f *Func) String() string {
	var buf strings.Builder
	buf.WriteByte('(')
	for i, p := range f.params {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(p.String())
	}
	buf.WriteString(") -> ")
	buf.WriteString(f.result.String())
	return buf.String()
}

// Pointer is the address of a storage slot. The checker never produces
// it; lowering uses it to type allocas and field addresses.
type Pointer struct {
	typ
	elem Type
}

// NewPointer returns the pointer type to elem.
func NewPointer(elem Type) *Pointer {
	return &Pointer{elem: elem}
}

// Elem returns the pointee type.
func (p *Pointer) Elem() Type {
	return p.elem
}

func (p *Pointer) String() string {
	return "*" + p.elem.String()
}

// Field is a struct field.
type Field struct {
	Name string
	Type Type
	Decl token.Span
}

// Struct is a nominal struct type: two Struct values are identical only
// if they are the same declaration.
type Struct struct {
	typ
	name   string
	decl   token.Span
	fields []*Field
}

// NewStruct returns a struct type without fields. Fields are attached
// with SetFields once every type name in the unit is known.
func NewStruct(name string, decl token.Span) *Struct {
	return &Struct{name: name, decl: decl}
}

// SetFields sets the fields of s. It must be called before s is shared.
func (s *Struct) SetFields(fields []*Field) {
	s.fields = fields
}

// Name returns the declared name.
func (s *Struct) Name() string {
	return s.name
}

// Decl returns the span of the declaring name.
func (s *Struct) Decl() token.Span {
	return s.decl
}

// NumFields returns the number of fields.
func (s *Struct) NumFields() int {
	return len(s.fields)
}

// Field returns the field at index i.
func (s *Struct) Field(i int) *Field {
	return s.fields[i]
}

// Fields returns all fields in declaration order.
func (s *Struct) Fields() []*Field {
	return s.fields
}

// FieldIndex returns the index of the named field, or -1.
func (s *Struct) FieldIndex(name string) int {
	return slices.IndexFunc(s.fields, func(f *Field) bool {
		return f.Name == name
	})
}

func (s *Struct) String() string {
	return s.name
}

// Enum is a nominal enumeration with payload-free variants.
type Enum struct {
	typ
	name     string
	decl     token.Span
	variants []string
}

// NewEnum returns an enum type.
func NewEnum(name string, decl token.Span, variants []string) *Enum {
	return &Enum{name: name, decl: decl, variants: variants}
}

// Name returns the declared name.
func (e *Enum) Name() string {
	return e.name
}

// Decl returns the span of the declaring name.
func (e *Enum) Decl() token.Span {
	return e.decl
}

// Variants returns the variant names in declaration order.
func (e *Enum) Variants() []string {
	return e.variants
}

// VariantIndex returns the ordinal of the named variant, or -1.
func (e *Enum) VariantIndex(name string) int {
	return slices.Index(e.variants, name)
}

func (e *Enum) String() string {
	return e.name
}
