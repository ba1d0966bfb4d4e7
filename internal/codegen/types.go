package codegen

import (
	"fmt"
	"strings"

	"github.com/seen-lang/seen/internal/rtabi"
	"github.com/seen-lang/seen/internal/types"
)

// llvmType maps a Seen type to its LLVM IR type string. Structs are
// referenced by their named type; see structTypeName.
func llvmType(t types.Type) string {
	switch t := t.(type) {
	case *types.Basic:
		return llvmBasicType(t)
	case *types.Pointer, *types.Func:
		return rtabi.LLVMTypePtr
	case *types.Array:
		return rtabi.LLVMTypeArray
	case *types.Optional:
		return optionalType(t)
	case *types.Enum:
		return rtabi.LLVMTypeEnum
	case *types.Struct:
		return structTypeName(t)
	}
	return "void"
}

func llvmBasicType(b *types.Basic) string {
	switch b.Kind() {
	case types.Int:
		return rtabi.LLVMTypeInt
	case types.Float:
		return rtabi.LLVMTypeFloat
	case types.Bool:
		return rtabi.LLVMTypeBoolI1
	case types.String:
		return rtabi.LLVMTypeString
	case types.Null:
		return rtabi.LLVMTypePtr
	}
	return "void"
}

// optionalType is { i1, T }: the flag is true when a value is present.
func optionalType(o *types.Optional) string {
	return fmt.Sprintf("{ %s, %s }", rtabi.LLVMTypeBoolI1, llvmType(o.Elem()))
}

func structTypeName(s *types.Struct) string {
	return "%" + llvmName("struct."+s.Name())
}

// structBody returns the literal body of a struct's named type.
func structBody(s *types.Struct) string {
	if s.NumFields() == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{ ")
	for i, f := range s.Fields() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(llvmType(f.Type))
	}
	b.WriteString(" }")
	return b.String()
}

// llvmReturnType returns "void" for a Void or missing result.
func llvmReturnType(sig *types.Func) string {
	if sig == nil || types.IsVoid(sig.Result()) {
		return "void"
	}
	return llvmType(sig.Result())
}

// llvmName returns name as an LLVM identifier body, quoting it when it
// contains characters outside [-a-zA-Z$._0-9]. Arabic identifiers are
// always quoted.
func llvmName(name string) string {
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !isNameChar(c) || i == 0 && c >= '0' && c <= '9' {
			return `"` + llvmEscapeString(name) + `"`
		}
	}
	return name
}

func isNameChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' ||
		c == '-' || c == '$' || c == '.' || c == '_'
}

// collectStructs records every struct reachable from t, fields before
// the struct that contains them.
func (g *generator) collectStructs(t types.Type) {
	switch t := t.(type) {
	case *types.Struct:
		if g.structSet[t] {
			return
		}
		g.structSet[t] = true
		for _, f := range t.Fields() {
			g.collectStructs(f.Type)
		}
		g.structs = append(g.structs, t)
	case *types.Optional:
		g.collectStructs(t.Elem())
	case *types.Array:
		g.collectStructs(t.Elem())
	case *types.Pointer:
		g.collectStructs(t.Elem())
	case *types.Func:
		for _, p := range t.Params() {
			g.collectStructs(p)
		}
		g.collectStructs(t.Result())
	}
}
