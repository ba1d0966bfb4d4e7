package types

// BasicKind describes the kind of basic type.
type BasicKind int

const (
	Invalid BasicKind = iota // erroneous type; suppresses follow-on diagnostics

	Int
	Float
	Bool
	String
	Void

	// Null is the type of the null literal. It is assignable to any
	// optional type and to nothing else.
	Null
)

// BasicInfo describes properties of a basic type.
type BasicInfo int

const (
	InfoBoolean BasicInfo = 1 << iota
	InfoInteger
	InfoFloat
	InfoString
	InfoNumeric = InfoInteger | InfoFloat
)

// Basic represents a predeclared type.
type Basic struct {
	typ
	kind BasicKind
	info BasicInfo
	name string
}

// Kind returns the kind of the basic type.
func (b *Basic) Kind() BasicKind {
	return b.kind
}

// Info returns information about the basic type.
func (b *Basic) Info() BasicInfo {
	return b.info
}

// Name returns the name of the basic type.
func (b *Basic) Name() string {
	return b.name
}

func (b *Basic) String() string {
	return b.name
}

// Typ holds the predeclared basic types, indexed by BasicKind.
var Typ = [...]*Basic{
	Invalid: {kind: Invalid, name: "invalid type"},
	Int:     {kind: Int, info: InfoInteger, name: "Int"},
	Float:   {kind: Float, info: InfoFloat, name: "Float"},
	Bool:    {kind: Bool, info: InfoBoolean, name: "Bool"},
	String:  {kind: String, info: InfoString, name: "String"},
	Void:    {kind: Void, name: "Void"},
	Null:    {kind: Null, name: "Null"},
}
