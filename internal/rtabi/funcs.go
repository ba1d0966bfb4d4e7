// Package rtabi defines the symbol names and layouts shared between
// generated code and the Seen runtime library.
package rtabi

// Runtime function names.
const (
	FnInit     = "seen_rt_init"
	FnShutdown = "seen_rt_shutdown"

	FnAlloc = "seen_rt_alloc"

	// FnBoundsCheck aborts unless 0 <= index < length.
	FnBoundsCheck = "seen_rt_bounds_check"
	// FnCheckDivisor aborts on a zero divisor and on MinInt64 / -1.
	FnCheckDivisor = "seen_rt_check_divisor"

	FnPrintI64    = "seen_rt_print_i64"
	FnPrintF64    = "seen_rt_print_f64"
	FnPrintBool   = "seen_rt_print_bool"
	FnPrintString = "seen_rt_print_string"
	FnPrintln     = "seen_rt_println"

	FnStringConcat  = "seen_rt_string_concat"
	FnStringCompare = "seen_rt_string_compare"
)

// Generated entry points.
const (
	// SeenMain is the symbol the user's main function is emitted as.
	SeenMain = "seen_main"

	// SeenInit runs top-level statements and global initializers.
	SeenInit = "seen_init"
)

// FuncSignature describes a runtime function's signature for code generation.
type FuncSignature struct {
	Name       string
	ReturnType string
	ParamTypes []string
}

// RuntimeFunctions returns the signatures of all runtime functions.
func RuntimeFunctions() []FuncSignature {
	return []FuncSignature{
		{Name: FnInit, ReturnType: "void"},
		{Name: FnShutdown, ReturnType: "void"},

		{Name: FnAlloc, ReturnType: LLVMTypePtr, ParamTypes: []string{LLVMTypeInt}},

		{Name: FnBoundsCheck, ReturnType: "void", ParamTypes: []string{LLVMTypeInt, LLVMTypeInt}},
		{Name: FnCheckDivisor, ReturnType: "void", ParamTypes: []string{LLVMTypeInt, LLVMTypeInt}},

		{Name: FnPrintI64, ReturnType: "void", ParamTypes: []string{LLVMTypeInt}},
		{Name: FnPrintF64, ReturnType: "void", ParamTypes: []string{LLVMTypeFloat}},
		{Name: FnPrintBool, ReturnType: "void", ParamTypes: []string{LLVMTypeBool}},
		{Name: FnPrintString, ReturnType: "void", ParamTypes: []string{LLVMTypeString}},
		{Name: FnPrintln, ReturnType: "void"},

		{Name: FnStringConcat, ReturnType: LLVMTypeString, ParamTypes: []string{LLVMTypeString, LLVMTypeString}},
		{Name: FnStringCompare, ReturnType: LLVMTypeInt, ParamTypes: []string{LLVMTypeString, LLVMTypeString}},
	}
}
