package codegen

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/seen-lang/seen/internal/rtabi"
	"github.com/seen-lang/seen/internal/ssa"
	"github.com/seen-lang/seen/internal/types"
)

// lowerFunc emits the LLVM IR for a single function.
//
// Lowering a value may split its block (println of an optional or an
// array needs control flow), so blocks are lowered into buffers first
// and phis are written last, naming the label each predecessor actually
// leaves from.
func (g *generator) lowerFunc(fn *ssa.Func) {
	params := make([]string, 0, len(fn.ParamNames))
	if fn.Sig != nil {
		for i, p := range fn.Sig.Params() {
			params = append(params, fmt.Sprintf("%s %%arg%d", llvmType(p), i))
		}
	}
	g.e.emit("define %s %s(%s) {", llvmReturnType(fn.Sig), g.funcSymbol(fn), strings.Join(params, ", "))

	g.exit = make(map[*ssa.Block]string, len(fn.Blocks))
	g.labels = 0
	g.allocas = g.allocas[:0]

	out := g.e.w
	bodies := make([]bytes.Buffer, len(fn.Blocks))
	for i, b := range fn.Blocks {
		g.e.w = &bodies[i]
		g.cur = blockName(b)
		for _, v := range b.Values {
			if v.Op != ssa.OpPhi {
				g.lowerValue(v)
			}
		}
		g.lowerTerminator(b)
		g.exit[b] = g.cur
	}
	g.e.w = out

	for i, b := range fn.Blocks {
		g.e.emitLabel(blockName(b))
		if i == 0 {
			for _, a := range g.allocas {
				g.e.emitInst("%s", a)
			}
		}
		for _, v := range b.Values {
			if v.Op == ssa.OpPhi {
				g.lowerPhi(v)
			}
		}
		if g.e.err == nil {
			_, g.e.err = bodies[i].WriteTo(out)
		}
	}
	g.e.emit("}")
}

// newLabel returns a fresh label for a block split out of the current
// SSA block. Hints contain a dot, so labels never collide with bN.
func (g *generator) newLabel(hint string) string {
	l := fmt.Sprintf("%s.%d", hint, g.labels)
	g.labels++
	return l
}

func (g *generator) startLabel(l string) {
	g.e.emitLabel(l)
	g.cur = l
}

func (g *generator) lowerValue(v *ssa.Value) {
	switch v.Op {
	// Constants and addresses are inlined at their uses.
	case ssa.OpConstInt, ssa.OpConstFloat, ssa.OpConstBool, ssa.OpConstString, ssa.OpConstNull,
		ssa.OpArg, ssa.OpGlobalAddr, ssa.OpFuncAddr:
		return

	case ssa.OpAdd64:
		g.emitBinOp("add", v)
	case ssa.OpSub64:
		g.emitBinOp("sub", v)
	case ssa.OpMul64:
		g.emitBinOp("mul", v)
	case ssa.OpDiv64:
		g.checkDivisor(v)
		g.emitBinOp("sdiv", v)
	case ssa.OpMod64:
		g.checkDivisor(v)
		g.emitBinOp("srem", v)
	case ssa.OpNeg64:
		g.e.emitInst("%s = sub i64 0, %s", valueName(v), g.operand(v.Args[0]))

	case ssa.OpAddF64:
		g.emitBinOp("fadd", v)
	case ssa.OpSubF64:
		g.emitBinOp("fsub", v)
	case ssa.OpMulF64:
		g.emitBinOp("fmul", v)
	case ssa.OpDivF64:
		g.emitBinOp("fdiv", v)
	case ssa.OpModF64:
		g.emitBinOp("frem", v)
	case ssa.OpNegF64:
		g.e.emitInst("%s = fneg double %s", valueName(v), g.operand(v.Args[0]))

	case ssa.OpEq64:
		g.emitCmp("icmp eq", v)
	case ssa.OpNeq64:
		g.emitCmp("icmp ne", v)
	case ssa.OpLt64:
		g.emitCmp("icmp slt", v)
	case ssa.OpLeq64:
		g.emitCmp("icmp sle", v)
	case ssa.OpGt64:
		g.emitCmp("icmp sgt", v)
	case ssa.OpGeq64:
		g.emitCmp("icmp sge", v)

	// All float comparisons are ordered and false on NaN.
	case ssa.OpEqF64:
		g.emitCmp("fcmp oeq", v)
	case ssa.OpNeqF64:
		g.emitCmp("fcmp one", v)
	case ssa.OpLtF64:
		g.emitCmp("fcmp olt", v)
	case ssa.OpLeqF64:
		g.emitCmp("fcmp ole", v)
	case ssa.OpGtF64:
		g.emitCmp("fcmp ogt", v)
	case ssa.OpGeqF64:
		g.emitCmp("fcmp oge", v)

	case ssa.OpNot:
		g.e.emitInst("%s = xor i1 %s, true", valueName(v), g.operand(v.Args[0]))
	case ssa.OpIntToFloat:
		g.e.emitInst("%s = sitofp i64 %s to double", valueName(v), g.operand(v.Args[0]))

	case ssa.OpStringConcat:
		g.e.emitInst("%s = call %s @%s(%s, %s)", valueName(v), rtabi.LLVMTypeString, rtabi.FnStringConcat,
			g.typedOperand(v.Args[0]), g.typedOperand(v.Args[1]))
	case ssa.OpStringCmp:
		g.e.emitInst("%s = call i64 @%s(%s, %s)", valueName(v), rtabi.FnStringCompare,
			g.typedOperand(v.Args[0]), g.typedOperand(v.Args[1]))

	case ssa.OpWrap:
		ot := llvmType(v.Type)
		t := g.e.nextTmp()
		g.e.emitInst("%s = insertvalue %s undef, i1 true, 0", t, ot)
		g.e.emitInst("%s = insertvalue %s %s, %s, 1", valueName(v), ot, t, g.typedOperand(v.Args[0]))
	case ssa.OpIsNull:
		t := g.e.nextTmp()
		g.e.emitInst("%s = extractvalue %s, 0", t, g.typedOperand(v.Args[0]))
		g.e.emitInst("%s = xor i1 %s, true", valueName(v), t)

	case ssa.OpAlloca:
		g.e.emitInst("%s = alloca %s", valueName(v), llvmType(elemOf(v.Type)))
	case ssa.OpLoad:
		g.e.emitInst("%s = load %s, ptr %s", valueName(v), llvmType(v.Type), g.operand(v.Args[0]))
	case ssa.OpStore:
		g.e.emitInst("store %s, ptr %s", g.typedOperand(v.Args[1]), g.operand(v.Args[0]))
	case ssa.OpFieldPtr:
		g.e.emitInst("%s = getelementptr %s, ptr %s, i32 0, i32 %d",
			valueName(v), llvmType(elemOf(v.Args[0].Type)), g.operand(v.Args[0]), v.AuxInt)

	case ssa.OpMakeArray:
		g.lowerMakeArray(v)
	case ssa.OpArrayLen:
		g.e.emitInst("%s = extractvalue %s, 1", valueName(v), g.typedOperand(v.Args[0]))
	case ssa.OpIndexPtr:
		g.lowerIndexPtr(v)

	case ssa.OpStaticCall:
		callee := v.Aux.(*ssa.Func)
		g.emitCall(v, callee.Sig, g.funcSymbol(callee), v.Args)
	case ssa.OpCall:
		sig, ok := v.Args[0].Type.(*types.Func)
		if !ok {
			g.fail(v, "call of non-function type %s", v.Args[0].Type)
			return
		}
		g.emitCall(v, sig, g.operand(v.Args[0]), v.Args[1:])

	case ssa.OpPrintln:
		g.lowerPrintln(v)

	default:
		g.fail(v, "unhandled op %s", v.Op)
	}
}

// fail records an internal error; Generate returns it.
func (g *generator) fail(v *ssa.Value, format string, args ...any) {
	if g.e.err == nil {
		g.e.err = fmt.Errorf("codegen: %s: %s", v, fmt.Sprintf(format, args...))
	}
}

func (g *generator) lowerTerminator(b *ssa.Block) {
	switch b.Kind {
	case ssa.BlockJump:
		g.e.emitInst("br label %%%s", blockName(b.Succs[0]))
	case ssa.BlockBranch:
		g.e.emitInst("br i1 %s, label %%%s, label %%%s",
			g.operand(b.Controls[0]), blockName(b.Succs[0]), blockName(b.Succs[1]))
	case ssa.BlockReturn:
		if len(b.Controls) > 0 && b.Controls[0] != nil {
			g.e.emitInst("ret %s", g.typedOperand(b.Controls[0]))
		} else {
			g.e.emitInst("ret void")
		}
	default:
		g.e.emitInst("unreachable")
	}
}

// operand returns the LLVM operand for v. Constants, arguments and
// symbol addresses are inlined; everything else is its %vN register.
func (g *generator) operand(v *ssa.Value) string {
	switch v.Op {
	case ssa.OpConstInt:
		return strconv.FormatInt(v.AuxInt, 10)
	case ssa.OpConstFloat:
		return formatFloat(v.AuxFloat)
	case ssa.OpConstBool:
		if v.AuxInt != 0 {
			return "true"
		}
		return "false"
	case ssa.OpConstString:
		return g.stringConst(v.Aux.(string))
	case ssa.OpConstNull:
		if types.IsOptional(v.Type) {
			return "zeroinitializer"
		}
		return "null"
	case ssa.OpArg:
		return fmt.Sprintf("%%arg%d", v.AuxInt)
	case ssa.OpGlobalAddr:
		return globalSymbol(v.Aux.(*ssa.Global))
	case ssa.OpFuncAddr:
		return g.funcSymbol(v.Aux.(*ssa.Func))
	}
	return valueName(v)
}

// typedOperand returns "T operand".
func (g *generator) typedOperand(v *ssa.Value) string {
	return llvmType(v.Type) + " " + g.operand(v)
}

// stringConst returns a constant { ptr, i64 } for s.
func (g *generator) stringConst(s string) string {
	return fmt.Sprintf("{ ptr @.str.%d, i64 %d }", g.stringIndex(s), len(s))
}

func (g *generator) emitBinOp(inst string, v *ssa.Value) {
	g.e.emitInst("%s = %s %s, %s", valueName(v), inst, g.typedOperand(v.Args[0]), g.operand(v.Args[1]))
}

// emitCmp compares at the operands' type, so Eq64 also serves Bool (i1)
// and enum (i64) operands.
func (g *generator) emitCmp(pred string, v *ssa.Value) {
	g.e.emitInst("%s = %s %s, %s", valueName(v), pred, g.typedOperand(v.Args[0]), g.operand(v.Args[1]))
}

func (g *generator) checkDivisor(v *ssa.Value) {
	g.e.emitInst("call void @%s(i64 %s, i64 %s)", rtabi.FnCheckDivisor, g.operand(v.Args[0]), g.operand(v.Args[1]))
}

func (g *generator) lowerPhi(v *ssa.Value) {
	parts := make([]string, len(v.Args))
	for i, arg := range v.Args {
		parts[i] = fmt.Sprintf("[ %s, %%%s ]", g.operand(arg), g.exit[v.Block.Preds[i]])
	}
	g.e.emitInst("%s = phi %s %s", valueName(v), llvmType(v.Type), strings.Join(parts, ", "))
}

// emitCall emits a direct or indirect call. A Void call has no result
// register.
func (g *generator) emitCall(v *ssa.Value, sig *types.Func, callee string, args []*ssa.Value) {
	list := make([]string, len(args))
	for i, a := range args {
		list[i] = llvmType(sig.Param(i)) + " " + g.operand(a)
	}
	ret := llvmReturnType(sig)
	if ret == "void" {
		g.e.emitInst("call void %s(%s)", callee, strings.Join(list, ", "))
		return
	}
	g.e.emitInst("%s = call %s %s(%s)", valueName(v), ret, callee, strings.Join(list, ", "))
}

// lowerMakeArray allocates the backing store with seen_rt_alloc and
// stores each element.
func (g *generator) lowerMakeArray(v *ssa.Value) {
	elem := v.Type.(*types.Array).Elem()
	et := llvmType(elem)
	n := len(v.Args)
	data := g.e.nextTmp()
	g.e.emitInst("%s = call ptr @%s(i64 %d)", data, rtabi.FnAlloc, int64(n)*g.sizes.Sizeof(elem))
	for i, a := range v.Args {
		p := g.e.nextTmp()
		g.e.emitInst("%s = getelementptr %s, ptr %s, i64 %d", p, et, data, i)
		g.e.emitInst("store %s %s, ptr %s", et, g.operand(a), p)
	}
	t := g.e.nextTmp()
	g.e.emitInst("%s = insertvalue %s undef, ptr %s, 0", t, rtabi.LLVMTypeArray, data)
	g.e.emitInst("%s = insertvalue %s %s, i64 %d, 1", valueName(v), rtabi.LLVMTypeArray, t, n)
}

// lowerIndexPtr bounds-checks the index and addresses the element.
func (g *generator) lowerIndexPtr(v *ssa.Value) {
	arr, idx := v.Args[0], v.Args[1]
	et := llvmType(elemOf(v.Type))
	data, n := g.e.nextTmp(), g.e.nextTmp()
	g.e.emitInst("%s = extractvalue %s, 0", data, g.typedOperand(arr))
	g.e.emitInst("%s = extractvalue %s, 1", n, g.typedOperand(arr))
	g.e.emitInst("call void @%s(i64 %s, i64 %s)", rtabi.FnBoundsCheck, g.operand(idx), n)
	g.e.emitInst("%s = getelementptr %s, ptr %s, i64 %s", valueName(v), et, data, g.operand(idx))
}

// elemOf returns the element type of a pointer type.
func elemOf(t types.Type) types.Type {
	if p, ok := t.(*types.Pointer); ok {
		return p.Elem()
	}
	return types.Typ[types.Invalid]
}

// formatFloat formats f as an exact LLVM hexadecimal double.
func formatFloat(f float64) string {
	return fmt.Sprintf("0x%016X", math.Float64bits(f))
}

// stringIndex returns the index of s in the string table, adding it if
// not present.
func (g *generator) stringIndex(s string) int {
	if idx, ok := g.stringMap[s]; ok {
		return idx
	}
	idx := len(g.strings)
	g.strings = append(g.strings, s)
	g.stringMap[s] = idx
	return idx
}

// llvmEscapeString escapes s for a c"..." literal or a quoted name:
// backslash, quote, control bytes and non-ASCII bytes become \HH.
func llvmEscapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || c == '"' || c < 0x20 || c >= 0x7f {
			fmt.Fprintf(&b, "\\%02X", c)
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}
