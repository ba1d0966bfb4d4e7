// Package ssa implements the basic-block intermediate representation of
// Seen programs. Each function is a graph of blocks holding typed values;
// every block ends in exactly one terminator. Variables live in stack
// slots read and written with Load and Store; no register promotion is
// performed.
//
// Binary operators map one-to-one onto ops, with distinct integer and
// floating-point forms. Every float comparison is ordered, != included,
// so any comparison with a NaN operand is false:
//
//	AST op   Int                  Float
//	+        Add64   (add)        AddF64 (fadd)
//	-        Sub64   (sub)        SubF64 (fsub)
//	*        Mul64   (mul)        MulF64 (fmul)
//	/        Div64   (sdiv)       DivF64 (fdiv)
//	%        Mod64   (srem)       ModF64 (frem)
//	==       Eq64    (icmp eq)    EqF64  (fcmp oeq)
//	!=       Neq64   (icmp ne)    NeqF64 (fcmp one)
//	<        Lt64    (icmp slt)   LtF64  (fcmp olt)
//	<=       Leq64   (icmp sle)   LeqF64 (fcmp ole)
//	>        Gt64    (icmp sgt)   GtF64  (fcmp ogt)
//	>=       Geq64   (icmp sge)   GeqF64 (fcmp oge)
//	-x       Neg64   (sub 0, x)   NegF64 (fneg)
//	!x       Not     (xor x, 1)
//
// && and || lower to short-circuit control flow through and.rhs/and.end
// (or.rhs/or.end) blocks joined by a Phi. Int operands of a Float
// operation are converted with IntToFloat (sitofp). Bool and enum
// operands of == and != use the integer comparisons; strings compare
// through StringCmp and an integer comparison of its result with zero.
package ssa

import "github.com/seen-lang/seen/internal/token"

// Op represents an IR operation code.
type Op int

const (
	OpInvalid Op = iota

	// Constants
	OpConstInt    // integer or enum constant; AuxInt = value
	OpConstFloat  // float constant; AuxFloat = value
	OpConstBool   // bool constant; AuxInt = 0 or 1
	OpConstString // string constant; Aux = string value
	OpConstNull   // empty optional of Type

	// Integer arithmetic
	OpAdd64
	OpSub64
	OpMul64
	OpDiv64
	OpMod64
	OpNeg64

	// Float arithmetic
	OpAddF64
	OpSubF64
	OpMulF64
	OpDivF64
	OpModF64
	OpNegF64

	// Integer comparison (also Bool and enum)
	OpEq64
	OpNeq64
	OpLt64
	OpLeq64
	OpGt64
	OpGeq64

	// Float comparison
	OpEqF64
	OpNeqF64
	OpLtF64
	OpLeqF64
	OpGtF64
	OpGeqF64

	// Boolean
	OpNot // !bool

	// Strings
	OpStringConcat // Args[0] + Args[1]
	OpStringCmp    // three-way comparison of Args[0] and Args[1]; Int

	// Conversion
	OpIntToFloat

	// Optionals
	OpWrap   // Args[0] wrapped in Type, an optional
	OpIsNull // Args[0], an optional, holds no value; Bool

	// Memory
	OpAlloca     // stack slot; Type = *T; Aux = variable name
	OpLoad       // Args[0] = ptr
	OpStore      // Args[0] = ptr, Args[1] = value; void
	OpFieldPtr   // &Args[0].field; AuxInt = field index
	OpGlobalAddr // address of a global; Aux = *Global

	// Arrays
	OpMakeArray // heap array of Args; Type = [T]
	OpArrayLen  // length of Args[0]; Int
	OpIndexPtr  // &Args[0][Args[1]], bounds-checked

	// Functions and calls
	OpArg        // function argument; AuxInt = param index; Aux = param name
	OpFuncAddr   // function value; Aux = *Func
	OpStaticCall // direct call; Aux = *Func; Args = arguments
	OpCall       // indirect call; Args[0] = function value, Args[1:] = arguments

	// SSA
	OpPhi // one arg per predecessor, in Preds order

	// Builtins
	OpPrintln // println(Args[0]); void

	opCount // sentinel; must be last
)

// OpInfo holds metadata about an IR operation.
type OpInfo struct {
	Name   string
	IsPure bool // no side effects
	IsVoid bool // produces no value
}

var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "Invalid"},

	OpConstInt:    {Name: "ConstInt", IsPure: true},
	OpConstFloat:  {Name: "ConstFloat", IsPure: true},
	OpConstBool:   {Name: "ConstBool", IsPure: true},
	OpConstString: {Name: "ConstString", IsPure: true},
	OpConstNull:   {Name: "ConstNull", IsPure: true},

	OpAdd64: {Name: "Add64", IsPure: true},
	OpSub64: {Name: "Sub64", IsPure: true},
	OpMul64: {Name: "Mul64", IsPure: true},
	// Division traps on zero.
	OpDiv64: {Name: "Div64"},
	OpMod64: {Name: "Mod64"},
	OpNeg64: {Name: "Neg64", IsPure: true},

	OpAddF64: {Name: "AddF64", IsPure: true},
	OpSubF64: {Name: "SubF64", IsPure: true},
	OpMulF64: {Name: "MulF64", IsPure: true},
	OpDivF64: {Name: "DivF64", IsPure: true},
	OpModF64: {Name: "ModF64", IsPure: true},
	OpNegF64: {Name: "NegF64", IsPure: true},

	OpEq64:  {Name: "Eq64", IsPure: true},
	OpNeq64: {Name: "Neq64", IsPure: true},
	OpLt64:  {Name: "Lt64", IsPure: true},
	OpLeq64: {Name: "Leq64", IsPure: true},
	OpGt64:  {Name: "Gt64", IsPure: true},
	OpGeq64: {Name: "Geq64", IsPure: true},

	OpEqF64:  {Name: "EqF64", IsPure: true},
	OpNeqF64: {Name: "NeqF64", IsPure: true},
	OpLtF64:  {Name: "LtF64", IsPure: true},
	OpLeqF64: {Name: "LeqF64", IsPure: true},
	OpGtF64:  {Name: "GtF64", IsPure: true},
	OpGeqF64: {Name: "GeqF64", IsPure: true},

	OpNot: {Name: "Not", IsPure: true},

	// String ops call into the runtime, which allocates.
	OpStringConcat: {Name: "StringConcat"},
	OpStringCmp:    {Name: "StringCmp", IsPure: true},

	OpIntToFloat: {Name: "IntToFloat", IsPure: true},

	OpWrap:   {Name: "Wrap", IsPure: true},
	OpIsNull: {Name: "IsNull", IsPure: true},

	OpAlloca:     {Name: "Alloca"},
	OpLoad:       {Name: "Load"},
	OpStore:      {Name: "Store", IsVoid: true},
	OpFieldPtr:   {Name: "FieldPtr", IsPure: true},
	OpGlobalAddr: {Name: "GlobalAddr", IsPure: true},

	OpMakeArray: {Name: "MakeArray"},
	OpArrayLen:  {Name: "ArrayLen", IsPure: true},
	OpIndexPtr:  {Name: "IndexPtr"}, // may panic

	OpArg:        {Name: "Arg", IsPure: true},
	OpFuncAddr:   {Name: "FuncAddr", IsPure: true},
	OpStaticCall: {Name: "StaticCall"},
	OpCall:       {Name: "Call"},

	OpPhi: {Name: "Phi", IsPure: true},

	OpPrintln: {Name: "Println", IsVoid: true},
}

// String returns the human-readable name of the op.
func (o Op) String() string {
	return o.Info().Name
}

// Info returns the OpInfo for this op.
func (o Op) Info() OpInfo {
	if o >= 0 && int(o) < len(opInfoTable) {
		return opInfoTable[o]
	}
	return OpInfo{Name: "unknown"}
}

// IsPure returns true if this op has no side effects.
func (o Op) IsPure() bool {
	return o.Info().IsPure
}

// IsVoid returns true if this op produces no value.
func (o Op) IsVoid() bool {
	return o.Info().IsVoid
}

// IsCall reports whether o is a call. A call of a Void function has a
// nil Type.
func (o Op) IsCall() bool {
	return o == OpStaticCall || o == OpCall
}

var intBinOps = map[token.Kind]Op{
	token.Plus:         OpAdd64,
	token.Minus:        OpSub64,
	token.Multiply:     OpMul64,
	token.Divide:       OpDiv64,
	token.Modulo:       OpMod64,
	token.Equal:        OpEq64,
	token.NotEqual:     OpNeq64,
	token.LessThan:     OpLt64,
	token.LessEqual:    OpLeq64,
	token.GreaterThan:  OpGt64,
	token.GreaterEqual: OpGeq64,
}

var floatBinOps = map[token.Kind]Op{
	token.Plus:         OpAddF64,
	token.Minus:        OpSubF64,
	token.Multiply:     OpMulF64,
	token.Divide:       OpDivF64,
	token.Modulo:       OpModF64,
	token.Equal:        OpEqF64,
	token.NotEqual:     OpNeqF64,
	token.LessThan:     OpLtF64,
	token.LessEqual:    OpLeqF64,
	token.GreaterThan:  OpGtF64,
	token.GreaterEqual: OpGeqF64,
}

// BinaryOp returns the op implementing the binary operator tok on
// integer (float false) or floating-point (float true) operands.
func BinaryOp(tok token.Kind, float bool) (Op, bool) {
	table := intBinOps
	if float {
		table = floatBinOps
	}
	op, ok := table[tok]
	return op, ok
}

// IsComparison reports whether o compares two operands and yields Bool.
func (o Op) IsComparison() bool {
	return o >= OpEq64 && o <= OpGeqF64
}
