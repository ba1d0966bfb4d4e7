package types

// PrintlnName is the name the println builtin is bound to. The parser
// resolves the language-specific keyword to it.
const PrintlnName = "println"

// predeclared lists the type names bound in every universe scope.
var predeclared = []BasicKind{Int, Float, Bool, String, Void}

// printlnType is the nominal signature of println. The checker accepts
// a single argument of any non-Void type.
var printlnType = NewFunc(nil, Typ[Void])

func populateUniverse(s *Scopes) {
	for _, kind := range predeclared {
		t := Typ[kind]
		s.Insert(Universe, &Symbol{Name: t.name, Kind: SymType, Type: t})
	}
	s.Insert(Universe, &Symbol{Name: PrintlnName, Kind: SymBuiltin, Type: printlnType})
}
