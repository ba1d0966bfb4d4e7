package types2

import (
	"strings"
	"testing"

	"github.com/seen-lang/seen/internal/diag"
	"github.com/seen-lang/seen/internal/syntax"
	"github.com/seen-lang/seen/internal/types"
)

// parseAndCheck parses src, failing the test on syntax errors, and
// type-checks the result.
func parseAndCheck(t *testing.T, src string) (*syntax.File, *Info, diag.List) {
	t.Helper()
	return parseAndCheckConfig(t, src, syntax.LexerConfig{})
}

func parseAndCheckConfig(t *testing.T, src string, cfg syntax.LexerConfig) (*syntax.File, *Info, diag.List) {
	t.Helper()
	file, perrs := syntax.Parse("test.seen", []byte(src), cfg)
	if perrs.Len() > 0 {
		t.Fatalf("parse errors:\n%s", messages(perrs))
	}
	info, diags := Check(file, nil)
	return file, info, diags
}

func messages(list diag.List) string {
	var b strings.Builder
	for _, d := range list {
		b.WriteString(d.Span.String())
		b.WriteString(": ")
		b.WriteString(d.Message())
		b.WriteByte('\n')
	}
	return b.String()
}

// expectNoErrors checks that src type-checks without errors. Warnings
// are allowed.
func expectNoErrors(t *testing.T, src string) *Info {
	t.Helper()
	_, info, diags := parseAndCheck(t, src)
	if errs := diags.Errors(); errs.Len() > 0 {
		t.Errorf("unexpected errors:\n%s", messages(errs))
	}
	return info
}

// expectErrors checks that type-checking src produces errors containing
// each of the expected substrings.
func expectErrors(t *testing.T, src string, expected ...string) diag.List {
	t.Helper()
	_, _, diags := parseAndCheck(t, src)
	errs := diags.Errors()
	if errs.Len() == 0 {
		t.Errorf("expected errors containing %q, got none", expected)
		return diags
	}
	text := messages(errs)
	for _, msg := range expected {
		if !strings.Contains(text, msg) {
			t.Errorf("expected error containing %q, got:\n%s", msg, text)
		}
	}
	return diags
}

// globalType returns the type of the top-level binding name.
func globalType(t *testing.T, info *Info, name string) types.Type {
	t.Helper()
	sym := info.Scopes.LookupLocal(info.FileScope, name)
	if sym == nil {
		t.Fatalf("no top-level binding %s", name)
	}
	return sym.Type
}

func TestHelloWorld(t *testing.T) {
	_, _, diags := parseAndCheck(t, `func main() { println("Hello, World!"); }`)
	if diags.Len() != 0 {
		t.Errorf("diagnostics:\n%s", messages(diags))
	}
}

func TestAssignmentWidening(t *testing.T) {
	t.Run("int_to_float", func(t *testing.T) {
		_, info, diags := parseAndCheck(t, `val x: Float = 3;`)
		if diags.Len() != 0 {
			t.Fatalf("diagnostics:\n%s", messages(diags))
		}
		if got := globalType(t, info, "x"); got != types.Typ[types.Float] {
			t.Errorf("x: %s, want Float", got)
		}
	})

	t.Run("float_to_int", func(t *testing.T) {
		_, _, diags := parseAndCheck(t, `val x: Int = 3.14;`)
		if diags.Len() != 1 {
			t.Fatalf("got %d diagnostics, want 1:\n%s", diags.Len(), messages(diags))
		}
		if got, want := diags[0].Message(), "cannot use Float as Int in variable declaration"; got != want {
			t.Errorf("message = %q, want %q", got, want)
		}
		if diags[0].Code != "T0003" {
			t.Errorf("code = %s, want T0003", diags[0].Code)
		}
	})

	t.Run("optional_not_to_elem", func(t *testing.T) {
		expectErrors(t, `val a: Int? = 1; val b: Int = a;`, "cannot use Int? as Int")
	})

	t.Run("elem_and_null_to_optional", func(t *testing.T) {
		expectNoErrors(t, `val a: Int? = 1; val b: Int? = null; val c: Float? = 2;`)
	})
}

func TestUndefinedSymbolScenario(t *testing.T) {
	_, _, diags := parseAndCheck(t, `{ val x = 1; } x + 1;`)
	if diags.Len() != 1 {
		t.Fatalf("got %d diagnostics, want 1:\n%s", diags.Len(), messages(diags))
	}
	if got := diags[0].Message(); got != "undefined symbol: x" {
		t.Errorf("message = %q", got)
	}
}

func TestArityMismatchScenario(t *testing.T) {
	src := `
func add(a: Int, b: Int) -> Int { return a + b; }
val r = add(1);
val s: Int = r * 2;
`
	_, info, diags := parseAndCheck(t, src)
	if diags.Len() != 1 {
		t.Fatalf("got %d diagnostics, want 1:\n%s", diags.Len(), messages(diags))
	}
	if got, want := diags[0].Message(), "wrong number of arguments in call to add: expected 2, found 1"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
	if got := globalType(t, info, "r"); got != types.Typ[types.Int] {
		t.Errorf("r: %s, want Int", got)
	}
}

func TestStructLiteralExhaustive(t *testing.T) {
	src := `
struct Point { x: Int, y: Int, z: Int }
val p = Point { x: 1, w: 2 };
`
	_, _, diags := parseAndCheck(t, src)
	if diags.Len() < 3 {
		t.Fatalf("got %d diagnostics, want at least 3:\n%s", diags.Len(), messages(diags))
	}
	if n := diags.WithCode("T0004").Len(); n != 2 {
		t.Errorf("missing field diagnostics = %d, want 2", n)
	}
	if n := diags.WithCode("T0005").Len(); n != 1 {
		t.Errorf("unknown field diagnostics = %d, want 1", n)
	}
	for _, d := range diags.WithCode("T0004") {
		if len(d.Related) != 1 {
			t.Errorf("%s: %d related notes, want 1", d.Message(), len(d.Related))
		}
	}
}

func TestCheckErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"mismatched_operands", `val a = 1 + "s";`, "mismatched types Int and String for operator +"},
		{"logical_needs_bool", `val a = 1 && true;`, "mismatched types Int and Bool for operator &&"},
		{"ordering_bool", `val a = true < false;`, "operator < not defined on Bool"},
		{"arith_bool", `val a = true * false;`, "operator * not defined on Bool"},
		{"struct_equality", `struct P { x: Int } val a = P { x: 1 } == P { x: 2 };`, "operator == not defined on P and P"},
		{"unary_minus", `val a = -"s";`, "operator - not defined on String"},
		{"unary_not", `val a = !1;`, "operator ! not defined on Int"},
		{"if_condition", `if 1 { }`, "non-boolean condition in if statement: Int"},
		{"while_condition", `while "x" { }`, "non-boolean condition in while statement: String"},
		{"branch_mismatch", `val a = if true { 1 } else { 1.5 };`, "if branches have different types: Int and Float"},
		{"break_outside_loop", `break;`, "break outside of a loop"},
		{"continue_outside_loop", `func f() { continue; }`, "continue outside of a loop"},
		{"missing_return", `func f(a: Int) -> Int { if a > 0 { return 1; } }`, "missing return in function f returning Int"},
		{"return_mismatch", `func f() -> Int { return "s"; }`, "cannot use String as Int in return statement"},
		{"return_value_from_void", `func f() { return 1; }`, "cannot use Int as Void in return statement"},
		{"bare_return", `func f() -> Int { return; }`, "cannot use Void as Int in return statement"},
		{"assign_to_val", `val a = 1; a = 2;`, "cannot assign to a (declared with val)"},
		{"assign_to_param", `func f(a: Int) { a = 2; }`, "cannot assign to a (declared with val)"},
		{"assign_field_of_val", `struct P { x: Int } val p = P { x: 1 }; p.x = 2;`, "cannot assign to p.x (declared with val)"},
		{"assign_to_func", `func f() { } func g() { f = g; }`, "cannot assign to f"},
		{"assign_type", `var a = 1; a = "s";`, "cannot use String as Int in assignment"},
		{"argument_type", `func f(a: Int, b: Bool) { } f(1, 2);`, "cannot use Int as Bool in argument 2 to f"},
		{"not_callable", `val a = 1; a();`, "cannot call non-function a (type Int)"},
		{"println_arity", `println(1, 2);`, "wrong number of arguments in call to println: expected 1, found 2"},
		{"println_void", `func f() { } println(f());`, "f(...) has no value"},
		{"void_initializer", `func f() { } val a = f();`, "f(...) has no value"},
		{"untyped_null", `val a = null;`, "use of null requires an optional type annotation"},
		{"redeclared", `val a = 1; val a = 2;`, "a redeclared in this scope"},
		{"unknown_type", `val a: Foo = 1;`, "unknown type Foo"},
		{"not_a_type", `val a = 1; val b: a = 1;`, "a is not a type"},
		{"type_as_value", `val a = Int;`, "Int is not a value"},
		{"unknown_field", `struct P { x: Int } val p = P { x: 1 }; val y = p.y;`, "P has no field or variant y"},
		{"unknown_variant", `enum C { Red } val c = C.Blue;`, "C has no field or variant Blue"},
		{"duplicate_field", `struct P { x: Int } val p = P { x: 1, x: 2 };`, "duplicate field x in P literal"},
		{"not_a_struct", `val a = 1; val p = a { x: 1 };`, "a is not a struct type"},
		{"field_type", `struct P { x: Int } val p = P { x: "s" };`, "cannot use String as Int in field x"},
		{"not_indexable", `val a = 1; val b = a[0];`, "cannot index a (type Int)"},
		{"index_not_int", `val a = [1, 2]; val b = a[true];`, "index must be Int, found Bool"},
		{"not_iterable", `for x in 5 { }`, "cannot range over 5 (type Int)"},
		{"array_element", `val a = [1, "s"];`, "array element 2 has type String, expected Int"},
		{"array_hint_element", `val a: [Int] = [1, 2.5];`, "array element 2 has type Float, expected Int"},
		{"empty_array", `val a = [];`, "cannot infer element type of empty array literal"},
		{"recursive_struct", `struct Node { next: Node? }`, "invalid recursive struct Node"},
		{"int_overflow", `val a = 99999999999999999999;`, "constant 99999999999999999999 overflows Int"},
		{"nested_func", `func f() { func g() { } }`, "nested function g is not supported"},
		{"void_param", `func f(a: Void) { }`, "Void has no value"},
		{"for_var_immutable", `for x in [1] { x = 2; }`, "cannot assign to x (declared with val)"},
		{"local_scope_ends", `func f() { if true { val a = 1; } println(a); }`, "undefined symbol: a"},
		{"forward_global", `val a = b; val b = 1;`, "undefined symbol: b"},
		{"optional_compare", `val a: Int? = 1; val b: Int? = 2; val c = a == b;`, "operator == not defined on Int? and Int?"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectErrors(t, tt.src, tt.want)
		})
	}
}

func TestCheckValid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"arith_widening", `val a = 1 + 2.5; val b: Float = a * 2;`},
		{"string_concat", `val s = "a" + "b";`},
		{"string_ordering", `val b = "a" < "b";`},
		{"float_modulo", `val m = 5.5 % 2;`},
		{"null_compare", `val a: Int? = null; val b = a == null; val c = null != a;`},
		{"enum_compare", `enum C { Red, Green } val b = C.Red == C.Green;`},
		{"forward_function", `func f() -> Int { return g(); } func g() -> Int { return 1; }`},
		{"forward_struct", `struct A { b: B } struct B { x: Int } val a = A { b: B { x: 1 } };`},
		{"recursion_through_array", `struct Tree { kids: [Tree] }`},
		{"globals_in_functions", `func get() -> Int { return n; } val n = 1;`},
		{"shadowing", `val x = 1; func f() { val x = "s"; println(x); } { val x = true; println(x); }`},
		{"assign_var_field", `struct P { x: Int } var p = P { x: 1 }; p.x = 2;`},
		{"assign_element_of_val", `val a = [1, 2]; a[0] = 3;`},
		{"assign_chain", `var a = 1; var b = 2; a = b = 3;`},
		{"for_element_type", `val xs = [1.5, 2]; var sum = 0.0; for x in xs { sum = sum + x; }`},
		{"empty_array_hint", `val xs: [Int] = [];`},
		{"if_expr", `val a = if 1 < 2 { "yes" } else { "no" };`},
		{"loop_terminates", `func f() -> Int { loop { return 1; } }`},
		{"if_else_terminates", `func f(a: Int) -> Int { if a > 0 { return 1; } else { return 2; } }`},
		{"local_struct", `func f() { struct P { x: Int } val p = P { x: 1 }; println(p.x); }`},
		{"func_value", `func inc(a: Int) -> Int { return a + 1; } val f: (Int) -> Int = inc; val b = f(1);`},
		{"optional_param", `func f(a: Int?) { } f(1); f(null);`},
		{"break_in_loops", `while true { break; } for x in [1] { continue; } loop { break; }`},
		{"top_level_return", `println(1); return;`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectNoErrors(t, tt.src)
		})
	}
}

func TestNoCascadeFromInvalid(t *testing.T) {
	tests := []string{
		`val a = undefinedName; val b = a + 1; val c: String = b;`,
		`val a = 1 + "s"; val b = a * 2;`,
		`val p = Missing { x: 1 }; val y = p.x;`,
		`val a = nope(); val b = a.field;`,
		`val a: Nope = 1; val b = a + 1;`,
	}
	for _, src := range tests {
		_, _, diags := parseAndCheck(t, src)
		if diags.Len() != 1 {
			t.Errorf("%s: got %d diagnostics, want 1:\n%s", src, diags.Len(), messages(diags))
		}
	}
}

func TestDidYouMean(t *testing.T) {
	_, _, diags := parseAndCheck(t, `val counter = 1; val b = countr + 1;`)
	if diags.Len() != 1 {
		t.Fatalf("got %d diagnostics:\n%s", diags.Len(), messages(diags))
	}
	fixes := diags[0].Fixes
	if len(fixes) != 1 || fixes[0].Replacement != "counter" {
		t.Fatalf("fixes = %+v, want one replacing with counter", fixes)
	}
}

func TestRedeclaredNote(t *testing.T) {
	_, _, diags := parseAndCheck(t, "val a = 1;\nval a = 2;")
	if diags.Len() != 1 {
		t.Fatalf("got %d diagnostics:\n%s", diags.Len(), messages(diags))
	}
	rel := diags[0].Related
	if len(rel) != 1 || rel[0].Span.Start.Line != 1 {
		t.Errorf("related = %+v, want a note on line 1", rel)
	}
}

func TestUnreachableWarning(t *testing.T) {
	_, _, diags := parseAndCheck(t, `func f() -> Int { return 1; println(1); println(2); }`)
	if diags.Len() != 1 {
		t.Fatalf("got %d diagnostics, want 1:\n%s", diags.Len(), messages(diags))
	}
	if diags[0].Severity != diag.Warning || diags[0].Code != "W0001" {
		t.Errorf("got %s %s, want warning W0001", diags[0].Severity, diags[0].Code)
	}
	if diags.HasErrors() {
		t.Error("unreachable code reported as error")
	}
}

func TestInfoTypes(t *testing.T) {
	src := `
struct P { x: Int, y: Float }
func f(p: P) -> Float { return p.x + p.y; }
val xs = [1, 2, 3];
var total = 0;
for x in xs { total = total + x; }
val q = f(P { x: 1, y: 2 });
val ok = !(q > 1.0) || total == 6;
println(if ok { "yes" } else { "no" });
`
	file, info := func() (*syntax.File, *Info) {
		f, info, diags := parseAndCheck(t, src)
		if diags.Len() != 0 {
			t.Fatalf("diagnostics:\n%s", messages(diags))
		}
		return f, info
	}()

	// Every expression that is not a bare name is typed.
	syntax.Inspect(file, func(n syntax.Node) bool {
		e, ok := n.(syntax.Expr)
		if !ok {
			return true
		}
		if _, isName := e.(*syntax.Name); isName {
			return true
		}
		if typ := info.TypeOf(e); typ == nil || types.IsInvalid(typ) {
			t.Errorf("%s: %T %s has type %v", e.Span(), e, syntax.ExprString(e), typ)
		}
		return true
	})

	wants := map[string]string{
		"xs":    "[Int]",
		"total": "Int",
		"q":     "Float",
		"ok":    "Bool",
		"f":     "(P) -> Float",
		"P":     "P",
	}
	for name, want := range wants {
		if got := globalType(t, info, name).String(); got != want {
			t.Errorf("%s: %s, want %s", name, got, want)
		}
	}
}

func TestInfoDefsAndUses(t *testing.T) {
	src := `val a = 1;
func f(b: Int) -> Int { return a + b; }
`
	file, info, diags := parseAndCheck(t, src)
	if diags.Len() != 0 {
		t.Fatalf("diagnostics:\n%s", messages(diags))
	}

	var uses []*types.Symbol
	syntax.Inspect(file, func(n syntax.Node) bool {
		if name, ok := n.(*syntax.Name); ok {
			if sym := info.Uses[name.ID()]; sym != nil && sym.Name != "Int" {
				uses = append(uses, sym)
			}
		}
		return true
	})
	if len(uses) != 2 {
		t.Fatalf("uses = %v, want a and b", uses)
	}
	if !info.IsGlobal(uses[0]) || uses[0].Kind != types.SymVal {
		t.Errorf("a resolves to %s, want global val", uses[0])
	}
	if info.IsGlobal(uses[1]) || uses[1].Kind != types.SymParam {
		t.Errorf("b resolves to %s, want param", uses[1])
	}
	decl := file.Body[1].(*syntax.FuncDecl)
	if info.SymbolOf(decl.Name) != info.Scopes.LookupLocal(info.FileScope, "f") {
		t.Error("SymbolOf(f) is not the file-scope symbol")
	}
	if info.NodeScopes[decl.ID()] != info.NodeScopes[decl.Body.ID()] {
		t.Error("function and body scopes differ")
	}
}

func TestScopesDump(t *testing.T) {
	_, info, _ := parseAndCheck(t, `val a = 1; func f(b: Int) { val c = b; }`)
	want := `scope file {
  val a: Int
  func f: (Int) -> Void
  scope func f {
    param b: Int
    val c: Int
  }
}
`
	if got := info.Scopes.String(); got != want {
		t.Errorf("scopes:\n%s\nwant:\n%s", got, want)
	}
}

const englishProgram = `struct Point { x: Int, y: Int }
func main() {
    val p = Point { x: 1, y: 2 };
    var i = 0;
    while i < 10 { i = i + 1; }
    if p.x == 1 { println("one"); } else { println("other"); }
    for c in [1, 2] { continue; }
    loop { break; }
}`

const arabicProgram = `هيكل Point { x: Int، y: Int }
دالة main() {
    ثابت p = Point { x: 1، y: 2 }؛
    متغير i = 0؛
    طالما i < 10 { i = i + 1؛ }
    إذا p.x == 1 { اطبع("one")؛ } وإلا { اطبع("other")؛ }
    لكل c في [1، 2] { استمر؛ }
    حلقة { اخرج؛ }
}`

func TestCheckBilingualEquivalence(t *testing.T) {
	_, en, enDiags := parseAndCheck(t, englishProgram)
	_, ar, arDiags := parseAndCheckConfig(t, arabicProgram, syntax.LexerConfig{Lang: "ar"})
	if enDiags.Len() != 0 || arDiags.Len() != 0 {
		t.Fatalf("diagnostics:\nen:\n%s\nar:\n%s", messages(enDiags), messages(arDiags))
	}
	if en.Scopes.String() != ar.Scopes.String() {
		t.Errorf("scopes differ:\nen:\n%s\nar:\n%s", en.Scopes, ar.Scopes)
	}
	if len(en.Types) != len(ar.Types) {
		t.Errorf("typed expressions: en %d, ar %d", len(en.Types), len(ar.Types))
	}
}

func TestCheckConfigDiags(t *testing.T) {
	file, _ := syntax.Parse("test.seen", []byte(`val a = b;`), syntax.LexerConfig{})
	var sink diag.List
	_, diags := Check(file, &Config{Diags: &sink})
	if diags.Len() != 1 || sink.Len() != 1 {
		t.Errorf("returned %d, sink %d; want 1 and 1", diags.Len(), sink.Len())
	}
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"counter", "countr", 1},
		{"kitten", "sitting", 3},
		{"ثابت", "ثابث", 1},
	}
	for _, tt := range tests {
		if got := editDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("editDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
