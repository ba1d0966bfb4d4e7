package codegen

import (
	"fmt"

	"github.com/seen-lang/seen/internal/rtabi"
	"github.com/seen-lang/seen/internal/ssa"
	"github.com/seen-lang/seen/internal/types"
)

// lowerPrintln prints the argument followed by a newline.
//
// Values print as Int and Float decimals, true or false, strings raw,
// null, an enum as Name.Variant, a struct as Name { f: v, ... }, an
// array as [a, b] and a function value as <function>.
func (g *generator) lowerPrintln(v *ssa.Value) {
	arg := v.Args[0]
	g.printValue(g.operand(arg), arg.Type)
	g.e.emitInst("call void @%s()", rtabi.FnPrintln)
}

func (g *generator) printValue(x string, t types.Type) {
	switch t := t.(type) {
	case *types.Basic:
		switch t.Kind() {
		case types.Int:
			g.e.emitInst("call void @%s(i64 %s)", rtabi.FnPrintI64, x)
		case types.Float:
			g.e.emitInst("call void @%s(double %s)", rtabi.FnPrintF64, x)
		case types.Bool:
			// The runtime takes Bool as i8.
			b := g.e.nextTmp()
			g.e.emitInst("%s = zext i1 %s to %s", b, x, rtabi.LLVMTypeBool)
			g.e.emitInst("call void @%s(%s %s)", rtabi.FnPrintBool, rtabi.LLVMTypeBool, b)
		case types.String:
			g.printString(x)
		default:
			g.printLiteral("null")
		}

	case *types.Enum:
		p, s := g.e.nextTmp(), g.e.nextTmp()
		table := fmt.Sprintf("[%d x %s]", len(t.Variants()), rtabi.LLVMTypeString)
		g.e.emitInst("%s = getelementptr %s, ptr %s, i64 0, i64 %s", p, table, enumTable(g.enumIndex(t)), x)
		g.e.emitInst("%s = load %s, ptr %s", s, rtabi.LLVMTypeString, p)
		g.printString(s)

	case *types.Struct:
		if t.NumFields() == 0 {
			g.printLiteral(t.Name() + " {}")
			return
		}
		g.printLiteral(t.Name() + " { ")
		for i, f := range t.Fields() {
			sep := f.Name + ": "
			if i > 0 {
				sep = ", " + sep
			}
			g.printLiteral(sep)
			fv := g.e.nextTmp()
			g.e.emitInst("%s = extractvalue %s %s, %d", fv, structTypeName(t), x, i)
			g.printValue(fv, f.Type)
		}
		g.printLiteral(" }")

	case *types.Optional:
		g.printOptional(x, t)

	case *types.Array:
		g.printArray(x, t)

	default:
		g.printLiteral("<function>")
	}
}

func (g *generator) printString(x string) {
	g.e.emitInst("call void @%s(%s %s)", rtabi.FnPrintString, rtabi.LLVMTypeString, x)
}

func (g *generator) printLiteral(s string) {
	g.printString(g.stringConst(s))
}

// printOptional branches on the presence flag.
//
//	br i1 %flag, label %opt.some.N, label %opt.none.N
//	opt.some.N: print the value; br label %opt.done.N
//	opt.none.N: print "null";    br label %opt.done.N
func (g *generator) printOptional(x string, t *types.Optional) {
	ot := optionalType(t)
	some, none, done := g.newLabel("opt.some"), g.newLabel("opt.none"), g.newLabel("opt.done")

	flag := g.e.nextTmp()
	g.e.emitInst("%s = extractvalue %s %s, 0", flag, ot, x)
	g.e.emitInst("br i1 %s, label %%%s, label %%%s", flag, some, none)

	g.startLabel(some)
	elem := g.e.nextTmp()
	g.e.emitInst("%s = extractvalue %s %s, 1", elem, ot, x)
	g.printValue(elem, t.Elem())
	g.e.emitInst("br label %%%s", done)

	g.startLabel(none)
	g.printLiteral("null")
	g.e.emitInst("br label %%%s", done)

	g.startLabel(done)
}

// printArray loops over the elements with a counter slot in the entry
// block. The separator is chosen with select so the loop body needs no
// extra branch.
func (g *generator) printArray(x string, t *types.Array) {
	at, et := rtabi.LLVMTypeArray, llvmType(t.Elem())
	head, body, done := g.newLabel("arr.head"), g.newLabel("arr.body"), g.newLabel("arr.done")

	idx := g.e.nextTmp()
	g.allocas = append(g.allocas, fmt.Sprintf("%s = alloca i64", idx))

	data, n := g.e.nextTmp(), g.e.nextTmp()
	g.e.emitInst("%s = extractvalue %s %s, 0", data, at, x)
	g.e.emitInst("%s = extractvalue %s %s, 1", n, at, x)
	g.e.emitInst("store i64 0, ptr %s", idx)
	g.printLiteral("[")
	g.e.emitInst("br label %%%s", head)

	g.startLabel(head)
	i, more := g.e.nextTmp(), g.e.nextTmp()
	g.e.emitInst("%s = load i64, ptr %s", i, idx)
	g.e.emitInst("%s = icmp slt i64 %s, %s", more, i, n)
	g.e.emitInst("br i1 %s, label %%%s, label %%%s", more, body, done)

	g.startLabel(body)
	first, sep := g.e.nextTmp(), g.e.nextTmp()
	g.e.emitInst("%s = icmp eq i64 %s, 0", first, i)
	g.e.emitInst("%s = select i1 %s, %s %s, %s %s", sep, first,
		rtabi.LLVMTypeString, g.stringConst(""), rtabi.LLVMTypeString, g.stringConst(", "))
	g.printString(sep)
	p, elem := g.e.nextTmp(), g.e.nextTmp()
	g.e.emitInst("%s = getelementptr %s, ptr %s, i64 %s", p, et, data, i)
	g.e.emitInst("%s = load %s, ptr %s", elem, et, p)
	g.printValue(elem, t.Elem())
	next := g.e.nextTmp()
	g.e.emitInst("%s = add i64 %s, 1", next, i)
	g.e.emitInst("store i64 %s, ptr %s", next, idx)
	g.e.emitInst("br label %%%s", head)

	g.startLabel(done)
	g.printLiteral("]")
}
