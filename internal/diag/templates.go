package diag

import (
	"fmt"
	"sync"
)

// Template describes one diagnostic class. English is the format string
// used when no translation exists for the requested language.
type Template struct {
	ID       string
	Code     Code
	Severity Severity
	English  string
}

var (
	templatesMu sync.RWMutex
	templates   = map[string]*Template{}
)

// Register adds t to the template registry. Registering two templates
// with the same ID panics.
func Register(t *Template) *Template {
	templatesMu.Lock()
	defer templatesMu.Unlock()
	if _, ok := templates[t.ID]; ok {
		panic(fmt.Sprintf("diag: template %q registered twice", t.ID))
	}
	templates[t.ID] = t
	return t
}

// Lookup returns the template registered under id.
func Lookup(id string) (*Template, bool) {
	templatesMu.RLock()
	defer templatesMu.RUnlock()
	t, ok := templates[id]
	return t, ok
}

func note(id, english string) *Template {
	return Register(&Template{ID: id, Severity: Info, English: english})
}

func errorf(id string, code Code, english string) *Template {
	return Register(&Template{ID: id, Code: code, Severity: Error, English: english})
}

// Lexer
var (
	UnterminatedString  = errorf("lex.unterminated_string", "L0001", "string literal not terminated")
	UnexpectedChar      = errorf("lex.unexpected_char", "L0002", "unexpected character %q")
	MalformedNumber     = errorf("lex.malformed_number", "L0003", "malformed number literal %s: %s")
	UnknownEscape       = errorf("lex.unknown_escape", "L0004", "unknown escape sequence: \\%c")
	UnterminatedComment = errorf("lex.unterminated_comment", "L0005", "block comment not terminated")
	InvalidUTF8         = errorf("lex.invalid_utf8", "L0006", "invalid UTF-8 encoding")
)

// Parser
var (
	Expected        = errorf("parse.expected", "P0001", "expected %s, found %s")
	ExpectedExpr    = errorf("parse.expected_expr", "P0002", "expected expression, found %s")
	ExpectedType    = errorf("parse.expected_type", "P0003", "expected type, found %s")
	ReservedKeyword = errorf("parse.reserved_keyword", "P0004", "%s is reserved and not supported")
	IfExprNeedsElse = errorf("parse.if_expr_else", "P0005", "if expression requires an else branch")
	ExpectedStmt    = errorf("parse.expected_stmt", "P0006", "expected statement, found %s")
)

// Type checker
var (
	UndefinedSymbol    = errorf("check.undefined_symbol", "T0001", "undefined symbol: %s")
	MismatchedOperands = errorf("check.mismatched_operands", "T0002", "mismatched types %s and %s for operator %s")
	CannotUse          = errorf("check.cannot_use", "T0003", "cannot use %s as %s in %s")
	MissingField       = errorf("check.missing_field", "T0004", "missing field %s in %s literal")
	UnknownField       = errorf("check.unknown_field", "T0005", "unknown field %s in struct %s")
	DuplicateField     = errorf("check.duplicate_field", "T0006", "duplicate field %s in %s literal")
	WrongArgCount      = errorf("check.wrong_arg_count", "T0007", "wrong number of arguments in call to %s: expected %d, found %d")
	ArgumentType       = errorf("check.argument_type", "T0008", "cannot use %s as %s in argument %d to %s")
	NonBoolCondition   = errorf("check.non_bool_condition", "T0009", "non-boolean condition in %s statement: %s")
	BranchMismatch     = errorf("check.branch_mismatch", "T0010", "if branches have different types: %s and %s")
	Redeclared         = errorf("check.redeclared", "T0011", "%s redeclared in this scope")
	NotAType           = errorf("check.not_a_type", "T0012", "%s is not a type")
	UnknownType        = errorf("check.unknown_type", "T0013", "unknown type %s")
	NotCallable        = errorf("check.not_callable", "T0014", "cannot call non-function %s (type %s)")
	NoFieldOrVariant   = errorf("check.no_field", "T0015", "%s has no field or variant %s")
	NotIndexable       = errorf("check.not_indexable", "T0016", "cannot index %s (type %s)")
	IndexNotInt        = errorf("check.index_not_int", "T0017", "index must be Int, found %s")
	AssignToVal        = errorf("check.assign_to_val", "T0018", "cannot assign to %s (declared with val)")
	NotAssignable      = errorf("check.not_assignable", "T0019", "cannot assign to %s")
	ReturnMismatch     = errorf("check.return_mismatch", "T0020", "cannot use %s as %s in return statement")
	MissingReturn      = errorf("check.missing_return", "T0021", "missing return in function %s returning %s")
	BranchOutsideLoop  = errorf("check.branch_outside_loop", "T0022", "%s outside of a loop")
	InvalidUnary       = errorf("check.invalid_unary", "T0023", "operator %s not defined on %s")
	UntypedNull        = errorf("check.untyped_null", "T0024", "use of null requires an optional type annotation")
	NotIterable        = errorf("check.not_iterable", "T0025", "cannot range over %s (type %s)")
	VoidValue          = errorf("check.void_value", "T0026", "%s has no value")
	ArrayElement       = errorf("check.array_element", "T0027", "array element %d has type %s, expected %s")
	InvalidOperator    = errorf("check.invalid_operator", "T0028", "operator %s not defined on %s")
	NotAValue          = errorf("check.not_a_value", "T0029", "%s is not a value")
	EmptyArray         = errorf("check.empty_array", "T0030", "cannot infer element type of empty array literal")
	NotAStruct         = errorf("check.not_a_struct", "T0031", "%s is not a struct type")
	RecursiveStruct    = errorf("check.recursive_struct", "T0032", "invalid recursive struct %s")
	NotComparable      = errorf("check.not_comparable", "T0033", "operator %s not defined on %s and %s")
	IntOverflow        = errorf("check.int_overflow", "T0034", "constant %s overflows Int")
	NestedFunc         = errorf("check.nested_func", "T0035", "nested function %s is not supported; declare it at top level")
)

// Configuration
var (
	InvalidConfig = errorf("config.invalid", "C0001", "invalid project configuration: %s")
)

// Warnings
var (
	Unreachable = Register(&Template{ID: "check.unreachable", Code: "W0001", Severity: Warning, English: "unreachable code"})
)

// Notes and fix titles
var (
	NoteDeclaredHere = note("note.declared_here", "%s declared here")
	NotePrevious     = note("note.previous", "previous declaration of %s")
	NoteOpenedHere   = note("note.opened_here", "%s opened here")
	FixDidYouMean    = note("fix.did_you_mean", "did you mean %s?")
	FixInsert        = note("fix.insert", "insert %s")
)
