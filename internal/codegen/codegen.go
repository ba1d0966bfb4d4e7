// Package codegen translates a lowered Seen program into textual LLVM IR.
//
// Values map to LLVM types as follows: Int is i64, Float is double, Bool
// is i1, String and arrays are { ptr, i64 }, an optional T? is { i1, T }
// with the flag set when a value is present, enums are their i64 ordinal
// and function values are ptr. Structs become named types %struct.Name.
//
// User functions and globals are prefixed with "seen." so they cannot
// collide with runtime or libc symbols; main becomes seen_main and the
// top-level initializer seen_init. A C-ABI main calls seen_rt_init,
// seen_init, seen_main and seen_rt_shutdown in that order.
package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/seen-lang/seen/internal/rtabi"
	"github.com/seen-lang/seen/internal/ssa"
	"github.com/seen-lang/seen/internal/types"
)

// Options configures code generation. Zero values select the rtabi
// defaults.
type Options struct {
	// SourceName is written as the module's source_filename.
	SourceName string
	Triple     string
	DataLayout string
	Sizes      *types.Sizes
}

// ErrMainSignature is returned when main takes parameters.
var ErrMainSignature = errors.New("codegen: main must not take parameters")

type generator struct {
	e     *emitter
	prog  *ssa.Program
	sizes *types.Sizes

	structs   []*types.Struct
	structSet map[*types.Struct]bool

	strings   []string
	stringMap map[string]int

	enums   []*types.Enum
	enumMap map[*types.Enum]int

	// Per-function state.
	exit    map[*ssa.Block]string // label control leaves each block from
	cur     string                // label currently being emitted
	labels  int
	allocas []string // entry-block allocas added while lowering
}

// Generate writes prog as an LLVM module to w. Every function is checked
// with ssa.Verify first.
func Generate(w io.Writer, prog *ssa.Program, opts Options) error {
	for _, fn := range prog.AllFuncs() {
		if err := ssa.Verify(fn); err != nil {
			return fmt.Errorf("codegen: %s: %w", fn.Name, err)
		}
	}
	if m := prog.Main(); m != nil && m.Sig != nil && m.Sig.NumParams() > 0 {
		return ErrMainSignature
	}

	g := &generator{
		prog:      prog,
		sizes:     opts.Sizes,
		structSet: make(map[*types.Struct]bool),
		stringMap: make(map[string]int),
		enumMap:   make(map[*types.Enum]int),
	}
	if g.sizes == nil {
		g.sizes = types.DefaultSizes
	}
	g.collectProgramTypes()

	// Functions are lowered first so the string and enum tables they
	// reference are complete before the module is written.
	var body bytes.Buffer
	g.e = &emitter{w: &body}
	for _, fn := range prog.AllFuncs() {
		g.lowerFunc(fn)
		g.e.emitLine()
	}
	g.emitMain()
	if g.e.err != nil {
		return g.e.err
	}

	g.e = &emitter{w: w}
	g.emitHeader(opts)
	g.emitTypes()
	g.emitGlobals()
	g.emitConstants()
	if g.e.err != nil {
		return g.e.err
	}
	if _, err := body.WriteTo(w); err != nil {
		return err
	}
	g.emitDeclarations()
	return g.e.err
}

func (g *generator) emitHeader(opts Options) {
	name := opts.SourceName
	if name == "" {
		name = "seen"
	}
	triple := opts.Triple
	if triple == "" {
		triple = rtabi.TargetTriple
	}
	layout := opts.DataLayout
	if layout == "" {
		layout = rtabi.DataLayout
	}
	g.e.emit("; ModuleID = '%s'", name)
	g.e.emit("source_filename = \"%s\"", llvmEscapeString(name))
	g.e.emit("target datalayout = \"%s\"", layout)
	g.e.emit("target triple = \"%s\"", triple)
	g.e.emitLine()
}

func (g *generator) collectProgramTypes() {
	for _, gl := range g.prog.Globals {
		g.collectStructs(gl.Type)
	}
	for _, fn := range g.prog.AllFuncs() {
		if fn.Sig != nil {
			g.collectStructs(fn.Sig)
		}
		for _, b := range fn.Blocks {
			for _, v := range b.Values {
				if v.Type != nil {
					g.collectStructs(v.Type)
				}
			}
		}
	}
}

func (g *generator) emitTypes() {
	for _, s := range g.structs {
		g.e.emit("%s = type %s", structTypeName(s), structBody(s))
	}
	if len(g.structs) > 0 {
		g.e.emitLine()
	}
}

func (g *generator) emitGlobals() {
	for _, gl := range g.prog.Globals {
		g.e.emit("%s = internal global %s zeroinitializer", globalSymbol(gl), llvmType(gl.Type))
	}
	if len(g.prog.Globals) > 0 {
		g.e.emitLine()
	}
}

// emitConstants writes the string literals and the enum name tables
// used by println.
func (g *generator) emitConstants() {
	for i, s := range g.strings {
		g.e.emit("@.str.%d = private unnamed_addr constant [%d x i8] c\"%s\"", i, len(s), llvmEscapeString(s))
	}
	for i, en := range g.enums {
		names := make([]string, len(en.Variants()))
		for j, v := range en.Variants() {
			names[j] = rtabi.LLVMTypeString + " " + g.stringConst(variantName(en, v))
		}
		g.e.emit("%s = private unnamed_addr constant [%d x %s] [%s]",
			enumTable(i), len(names), rtabi.LLVMTypeString, strings.Join(names, ", "))
	}
	if len(g.strings) > 0 || len(g.enums) > 0 {
		g.e.emitLine()
	}
}

func (g *generator) emitDeclarations() {
	for _, fn := range rtabi.RuntimeFunctions() {
		g.e.emit("declare %s @%s(%s)", fn.ReturnType, fn.Name, strings.Join(fn.ParamTypes, ", "))
	}
}

// emitMain writes the C entry point. When seen_main returns an Int it
// becomes the process exit status.
func (g *generator) emitMain() {
	g.e.emit("define i32 @main() {")
	g.e.emitLabel("entry")
	g.e.emitInst("call void @%s()", rtabi.FnInit)
	if g.prog.Init != nil {
		g.e.emitInst("call void @%s()", rtabi.SeenInit)
	}
	status := "0"
	if m := g.prog.Main(); m != nil {
		ret := llvmReturnType(m.Sig)
		switch {
		case ret == "void":
			g.e.emitInst("call void @%s()", rtabi.SeenMain)
		case types.IsInteger(m.Sig.Result()):
			r := g.e.nextTmp()
			g.e.emitInst("%s = call i64 @%s()", r, rtabi.SeenMain)
			status = g.e.nextTmp()
			g.e.emitInst("%s = trunc i64 %s to i32", status, r)
		default:
			g.e.emitInst("call %s @%s()", ret, rtabi.SeenMain)
		}
	}
	g.e.emitInst("call void @%s()", rtabi.FnShutdown)
	g.e.emitInst("ret i32 %s", status)
	g.e.emit("}")
}

// funcSymbol returns the global symbol a function is emitted as.
func (g *generator) funcSymbol(fn *ssa.Func) string {
	switch {
	case fn == g.prog.Init:
		return "@" + rtabi.SeenInit
	case fn.Name == "main":
		return "@" + rtabi.SeenMain
	}
	return "@" + llvmName("seen."+fn.Name)
}

func globalSymbol(gl *ssa.Global) string {
	return "@" + llvmName("seen."+gl.Name)
}

func enumTable(i int) string {
	return fmt.Sprintf("@.enum.%d", i)
}

// enumIndex returns the index of en's name table, adding it and its
// variant strings if needed.
func (g *generator) enumIndex(en *types.Enum) int {
	if i, ok := g.enumMap[en]; ok {
		return i
	}
	i := len(g.enums)
	g.enums = append(g.enums, en)
	g.enumMap[en] = i
	for _, v := range en.Variants() {
		g.stringIndex(variantName(en, v))
	}
	return i
}

func variantName(en *types.Enum, variant string) string {
	return en.Name() + "." + variant
}
