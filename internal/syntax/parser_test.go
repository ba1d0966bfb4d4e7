package syntax

import (
	"fmt"
	"strings"
	"testing"

	"github.com/seen-lang/seen/internal/diag"
	"github.com/seen-lang/seen/internal/token"
)

// ----------------------------------------------------------------------------
// Test helpers

func parseFile(t *testing.T, src string) *File {
	t.Helper()
	f, diags := Parse("test.seen", []byte(src), LexerConfig{})
	if f == nil {
		t.Fatal("Parse returned nil")
	}
	if diags.Len() > 0 {
		t.Fatalf("unexpected diagnostics for %q: %v", src, diags)
	}
	return f
}

func parseFileWithErrors(t *testing.T, src string, cfg LexerConfig) (*File, diag.List) {
	t.Helper()
	f, diags := Parse("test.seen", []byte(src), cfg)
	if f == nil {
		t.Fatal("Parse returned nil")
	}
	return f, diags
}

func parseExpr(t *testing.T, src string) Expr {
	t.Helper()
	x, diags := ParseExpr([]byte(src), LexerConfig{})
	if diags.Len() > 0 {
		t.Fatalf("unexpected diagnostics for %q: %v", src, diags)
	}
	return x
}

// paren renders x fully parenthesized so that tests can assert grouping.
func paren(x Expr) string {
	switch x := x.(type) {
	case *BinaryExpr:
		return "(" + paren(x.X) + " " + x.Op.Text() + " " + paren(x.Y) + ")"
	case *AssignExpr:
		return "(" + paren(x.Target) + " = " + paren(x.Value) + ")"
	case *UnaryExpr:
		return "(" + x.Op.Text() + paren(x.X) + ")"
	case *CallExpr:
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = paren(a)
		}
		return paren(x.Fun) + "(" + strings.Join(args, ", ") + ")"
	case *SelectorExpr:
		return paren(x.X) + "." + x.Sel.Value
	case *IndexExpr:
		return paren(x.X) + "[" + paren(x.Index) + "]"
	case *ParenExpr:
		return paren(x.X)
	default:
		return ExprString(x)
	}
}

// shape lists the node types of n in walk order.
func shape(n Node) []string {
	var out []string
	Inspect(n, func(n Node) bool {
		out = append(out, fmt.Sprintf("%T", n))
		return true
	})
	return out
}

func hasMessage(diags diag.List, substr string) bool {
	for _, d := range diags {
		if strings.Contains(d.Message(), substr) {
			return true
		}
	}
	return false
}

// ----------------------------------------------------------------------------
// Programs

func TestParseHelloWorld(t *testing.T) {
	f := parseFile(t, `func main() { println("Hello, World!"); }`)

	if len(f.Body) != 1 {
		t.Fatalf("body = %d statements, want 1", len(f.Body))
	}
	fn, ok := f.Body[0].(*FuncDecl)
	if !ok {
		t.Fatalf("body[0] = %T, want *FuncDecl", f.Body[0])
	}
	if fn.Name.Value != "main" || len(fn.Params) != 0 || fn.Result != nil {
		t.Errorf("func = %s/%d params/%v, want main/0/nil", fn.Name.Value, len(fn.Params), fn.Result)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("main body = %d statements, want 1", len(fn.Body.Stmts))
	}
	call := fn.Body.Stmts[0].(*ExprStmt).X.(*CallExpr)
	if fun := call.Fun.(*Name); fun.Builtin != token.Println {
		t.Errorf("callee builtin = %v, want Println", fun.Builtin)
	}
	lit := call.Args[0].(*BasicLit)
	if lit.Kind != token.StringLiteral || lit.Value != "Hello, World!" {
		t.Errorf("argument = %s %q", lit.Kind, lit.Value)
	}
	if f.Lang != "en" {
		t.Errorf("Lang = %q, want en", f.Lang)
	}
}

const englishProgram = `struct Point { x: Int, y: Int }
enum Color { Red, Green }
func main() {
    val p = Point { x: 1, y: 2 };
    var i = 0;
    while i < 10 { i = i + 1; }
    if p.x == 1 { println("one"); } else { println("other"); }
    for c in [1, 2] { continue; }
    loop { break; }
    return;
}`

const arabicProgram = `هيكل Point { x: Int، y: Int }
تعداد Color { Red، Green }
دالة main() {
    ثابت p = Point { x: 1، y: 2 }؛
    متغير i = 0؛
    طالما i < 10 { i = i + 1؛ }
    إذا p.x == 1 { اطبع("one")؛ } وإلا { اطبع("other")؛ }
    لكل c في [1، 2] { استمر؛ }
    حلقة { اخرج؛ }
    إرجاع؛
}`

func TestParseBilingualEquivalence(t *testing.T) {
	en := parseFile(t, englishProgram)
	ar, diags := parseFileWithErrors(t, arabicProgram, LexerConfig{Lang: "ar"})
	if diags.Len() > 0 {
		t.Fatalf("Arabic program: %v", diags)
	}

	enShape, arShape := shape(en), shape(ar)
	if strings.Join(enShape, " ") != strings.Join(arShape, " ") {
		t.Errorf("AST shapes differ:\n en %v\n ar %v", enShape, arShape)
	}
	if ar.Lang != "ar" {
		t.Errorf("Lang = %q, want ar", ar.Lang)
	}
}

func TestParseMixedLanguages(t *testing.T) {
	src := `دالة f() { return; } func g() { إرجاع؛ }`
	f, diags := parseFileWithErrors(t, src, LexerConfig{Lang: "ar", Mixed: true})
	if diags.Len() > 0 {
		t.Fatalf("diagnostics: %v", diags)
	}
	if len(f.Body) != 2 {
		t.Errorf("body = %d declarations, want 2", len(f.Body))
	}
}

// ----------------------------------------------------------------------------
// Declarations

func TestParseFuncDecl(t *testing.T) {
	f := parseFile(t, `func add(a: Int, b: Float) -> Float { return a + b; }`)
	fn := f.Body[0].(*FuncDecl)

	if len(fn.Params) != 2 {
		t.Fatalf("params = %d, want 2", len(fn.Params))
	}
	if fn.Params[1].Name.Value != "b" || TypeString(fn.Params[1].Type) != "Float" {
		t.Errorf("param 1 = %s: %s", fn.Params[1].Name.Value, TypeString(fn.Params[1].Type))
	}
	if TypeString(fn.Result) != "Float" {
		t.Errorf("result = %s, want Float", TypeString(fn.Result))
	}
	ret := fn.Body.Stmts[0].(*ReturnStmt)
	if paren(ret.Result) != "(a + b)" {
		t.Errorf("return = %s", paren(ret.Result))
	}
}

func TestParseVarDecl(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		mutable bool
		typ     string
		value   string
	}{
		{"val_inferred", "val x = 1;", false, "<nil>", "1"},
		{"var_inferred", "var x = 1.5;", true, "<nil>", "1.5"},
		{"annotated", "val x: Int = 1;", false, "Int", "1"},
		{"optional", "var x: Int? = null;", true, "Int?", "null"},
		{"array", "val xs: [Int] = [1, 2, 3];", false, "[Int]", "[...]"},
		{"nested", "val xs: [String?]? = null;", false, "[String?]?", "null"},
		{"func_type", "val f: (Int, Int) -> Bool = less;", false, "(Int, Int) -> Bool", "less"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := parseFile(t, tt.src).Body[0].(*VarDecl)
			if d.Mutable != tt.mutable {
				t.Errorf("Mutable = %v, want %v", d.Mutable, tt.mutable)
			}
			if got := TypeString(d.Type); got != tt.typ {
				t.Errorf("Type = %s, want %s", got, tt.typ)
			}
			if got := ExprString(d.Value); got != tt.value {
				t.Errorf("Value = %s, want %s", got, tt.value)
			}
		})
	}
}

func TestParseStructAndEnum(t *testing.T) {
	f := parseFile(t, `struct Pair { first: Int, second: [String], } enum Dir { North, South, }`)

	s := f.Body[0].(*StructDecl)
	if s.Name.Value != "Pair" || len(s.Fields) != 2 {
		t.Fatalf("struct = %s with %d fields", s.Name.Value, len(s.Fields))
	}
	if s.Fields[1].Name.Value != "second" || TypeString(s.Fields[1].Type) != "[String]" {
		t.Errorf("field 1 = %s: %s", s.Fields[1].Name.Value, TypeString(s.Fields[1].Type))
	}

	e := f.Body[1].(*EnumDecl)
	if e.Name.Value != "Dir" || len(e.Variants) != 2 || e.Variants[1].Value != "South" {
		t.Errorf("enum = %s %v", e.Name.Value, e.Variants)
	}
}

func TestParseEmptyDecls(t *testing.T) {
	f := parseFile(t, `struct Unit {} enum Never {} func nop() {}`)
	if len(f.Body) != 3 {
		t.Errorf("body = %d, want 3", len(f.Body))
	}
}

// ----------------------------------------------------------------------------
// Statements

func TestParseStatements(t *testing.T) {
	src := `func f(xs: [Int]) {
    if a { } else if b { } else { }
    while n > 0 { n = n - 1; }
    for x in xs { println(x); }
    loop { break; continue; }
    { val inner = 1; }
    ;
    return;
}`
	fn := parseFile(t, src).Body[0].(*FuncDecl)

	want := []string{"*syntax.IfStmt", "*syntax.WhileStmt", "*syntax.ForStmt", "*syntax.LoopStmt", "*syntax.BlockStmt", "*syntax.ReturnStmt"}
	if len(fn.Body.Stmts) != len(want) {
		t.Fatalf("body = %d statements, want %d", len(fn.Body.Stmts), len(want))
	}
	for i, s := range fn.Body.Stmts {
		if got := fmt.Sprintf("%T", s); got != want[i] {
			t.Errorf("stmt %d = %s, want %s", i, got, want[i])
		}
	}

	ifs := fn.Body.Stmts[0].(*IfStmt)
	if _, ok := ifs.Else.(*IfStmt); !ok {
		t.Errorf("else branch = %T, want *IfStmt", ifs.Else)
	}
	loop := fn.Body.Stmts[3].(*LoopStmt)
	if br := loop.Body.Stmts[1].(*BranchStmt); br.Tok != token.Continue {
		t.Errorf("branch = %v, want Continue", br.Tok)
	}
	forStmt := fn.Body.Stmts[2].(*ForStmt)
	if forStmt.Var.Value != "x" || ExprString(forStmt.Iter) != "xs" {
		t.Errorf("for = %s in %s", forStmt.Var.Value, ExprString(forStmt.Iter))
	}
}

func TestParseTopLevelStatements(t *testing.T) {
	f := parseFile(t, `val x = 1; println(x); x = 2;`)
	if len(f.Body) != 3 {
		t.Fatalf("body = %d, want 3", len(f.Body))
	}
	if _, ok := f.Body[2].(*ExprStmt).X.(*AssignExpr); !ok {
		t.Errorf("body[2] = %T, want assignment", f.Body[2].(*ExprStmt).X)
	}
}

// ----------------------------------------------------------------------------
// Expressions

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"a - b - c", "((a - b) - c)"},
		{"a / b % c", "((a / b) % c)"},
		{"a = b = c", "(a = (b = c))"},
		{"a = b + 1", "(a = (b + 1))"},
		{"a || b && c", "(a || (b && c))"},
		{"a && b || c && d", "((a && b) || (c && d))"},
		{"a == b < c", "(a == (b < c))"},
		{"a < b == c >= d", "((a < b) == (c >= d))"},
		{"a + b < c * d", "((a + b) < (c * d))"},
		{"-a * b", "((-a) * b)"},
		{"!a && b", "((!a) && b)"},
		{"--a", "(-(-a))"},
		{"!a.b", "(!a.b)"},
		{"-f(x)[0]", "(-f(x)[0])"},
		{"(a + b) * c", "((a + b) * c)"},
		{"f(a, b + c)(d)", "f(a, (b + c))(d)"},
		{"a.b.c", "a.b.c"},
		{"xs[i + 1].y", "xs[(i + 1)].y"},
		{"x = y == z", "(x = (y == z))"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := paren(parseExpr(t, tt.src)); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		src  string
		kind token.Kind
	}{
		{"42", token.IntLiteral},
		{"0xff", token.IntLiteral},
		{"4.2", token.FloatLiteral},
		{`"s"`, token.StringLiteral},
		{"true", token.True},
		{"false", token.False},
		{"null", token.Null},
	}
	for _, tt := range tests {
		lit, ok := parseExpr(t, tt.src).(*BasicLit)
		if !ok || lit.Kind != tt.kind {
			t.Errorf("%s: got %#v, want BasicLit %s", tt.src, lit, tt.kind)
		}
	}
}

func TestParseIfExpr(t *testing.T) {
	f := parseFile(t, `val m = if a > b { a } else if a == b { 0 } else { b };`)
	x, ok := f.Body[0].(*VarDecl).Value.(*IfExpr)
	if !ok {
		t.Fatalf("value = %T, want *IfExpr", f.Body[0].(*VarDecl).Value)
	}
	if paren(x.Cond) != "(a > b)" || ExprString(x.Then) != "a" {
		t.Errorf("if %s { %s }", paren(x.Cond), ExprString(x.Then))
	}
	if _, ok := x.Else.(*IfExpr); !ok {
		t.Errorf("else = %T, want chained *IfExpr", x.Else)
	}
}

func TestParseArrayLit(t *testing.T) {
	a := parseExpr(t, "[1, 2, 3,]").(*ArrayLit)
	if len(a.Elems) != 3 {
		t.Errorf("elems = %d, want 3", len(a.Elems))
	}
	if e := parseExpr(t, "[]").(*ArrayLit); len(e.Elems) != 0 {
		t.Errorf("empty literal has %d elems", len(e.Elems))
	}
}

// ----------------------------------------------------------------------------
// Struct literal disambiguation

func TestParseStructLiteral(t *testing.T) {
	f := parseFile(t, `val p = Point { x: 1, y: f(2), };`)
	lit, ok := f.Body[0].(*VarDecl).Value.(*StructLit)
	if !ok {
		t.Fatalf("value = %T, want *StructLit", f.Body[0].(*VarDecl).Value)
	}
	if lit.Type.Value != "Point" || len(lit.Fields) != 2 || lit.Fields[1].Name.Value != "y" {
		t.Errorf("literal = %s with %d fields", lit.Type.Value, len(lit.Fields))
	}
}

func TestParseStructLiteralDisambiguation(t *testing.T) {
	t.Run("if_condition_is_name", func(t *testing.T) {
		f := parseFile(t, `if ready { go(); }`)
		s := f.Body[0].(*IfStmt)
		if _, ok := s.Cond.(*Name); !ok {
			t.Errorf("cond = %T, want *Name", s.Cond)
		}
		if len(s.Then.Stmts) != 1 {
			t.Errorf("then = %d statements, want 1", len(s.Then.Stmts))
		}
	})

	t.Run("while_condition_is_name", func(t *testing.T) {
		s := parseFile(t, `while running { step(); }`).Body[0].(*WhileStmt)
		if _, ok := s.Cond.(*Name); !ok {
			t.Errorf("cond = %T, want *Name", s.Cond)
		}
	})

	t.Run("for_iterable_is_name", func(t *testing.T) {
		s := parseFile(t, `for x in items { use(x); }`).Body[0].(*ForStmt)
		if _, ok := s.Iter.(*Name); !ok {
			t.Errorf("iter = %T, want *Name", s.Iter)
		}
	})

	t.Run("parens_enable_literal", func(t *testing.T) {
		s := parseFile(t, `if (P { x: 1 }).x == 1 { }`).Body[0].(*IfStmt)
		if got := paren(s.Cond); got != "(P{...}.x == 1)" {
			t.Errorf("cond = %s", got)
		}
	})

	t.Run("call_args_enable_literal", func(t *testing.T) {
		s := parseFile(t, `if valid(P { x: 1 }) { }`).Body[0].(*IfStmt)
		call := s.Cond.(*CallExpr)
		if _, ok := call.Args[0].(*StructLit); !ok {
			t.Errorf("arg = %T, want *StructLit", call.Args[0])
		}
	})

	t.Run("literal_in_header_is_error", func(t *testing.T) {
		_, diags := parseFileWithErrors(t, `if p == P { y: 1 } { }`, LexerConfig{})
		if diags.Len() == 0 {
			t.Fatal("no diagnostics for unparenthesized struct literal in condition")
		}
	})

	t.Run("literal_in_block_after_header", func(t *testing.T) {
		s := parseFile(t, `if a { val p = P { x: 1 }; }`).Body[0].(*IfStmt)
		if _, ok := s.Then.Stmts[0].(*VarDecl).Value.(*StructLit); !ok {
			t.Error("struct literal inside if body not recognized")
		}
	})
}

// ----------------------------------------------------------------------------
// Positions and node ids

func TestParseSpans(t *testing.T) {
	b := parseExpr(t, "a + bc").(*BinaryExpr)
	if b.Span().Start.String() != "1:1" || b.Span().End.String() != "1:7" {
		t.Errorf("span = %s-%s, want 1:1-1:7", b.Span().Start, b.Span().End)
	}
	if b.OpAt.Start.String() != "1:3" {
		t.Errorf("operator at %s, want 1:3", b.OpAt.Start)
	}

	f := parseFile(t, "val x = 1;\nfunc f() {\n}")
	fn := f.Body[1].(*FuncDecl)
	if fn.Span().Start.String() != "2:1" || fn.Span().End.String() != "3:2" {
		t.Errorf("func span = %s-%s, want 2:1-3:2", fn.Span().Start, fn.Span().End)
	}
}

func TestParseNodeIDs(t *testing.T) {
	f := parseFile(t, englishProgram)

	seen := make(map[NodeID]bool)
	Inspect(f, func(n Node) bool {
		id := n.ID()
		if id < 1 || id > f.MaxID {
			t.Errorf("%T has id %d outside 1..%d", n, id, f.MaxID)
		}
		if seen[id] {
			t.Errorf("duplicate id %d on %T", id, n)
		}
		seen[id] = true
		return true
	})
	if NodeID(len(seen)) != f.MaxID {
		t.Errorf("visited %d nodes, MaxID = %d", len(seen), f.MaxID)
	}
}

func TestParseFromTokenSlice(t *testing.T) {
	src := []byte(englishProgram)
	want, _ := Parse("test.seen", src, LexerConfig{})

	toks, _ := Tokenize("test.seen", src, LexerConfig{})
	for _, in := range [][]token.Token{toks, toks[:len(toks)-1]} {
		var diags diag.List
		got := NewParser("test.seen", NewTokenSlice(in), &diags).Parse()
		got.Lang = want.Lang
		if diags.Len() > 0 {
			t.Errorf("diagnostics: %v", diags)
		}
		if Sprint(got) != Sprint(want) {
			t.Errorf("token slice parse differs:\n%s\nwant:\n%s", Sprint(got), Sprint(want))
		}
	}
}

func TestParseTokens(t *testing.T) {
	cfg := LexerConfig{Lang: "ar"}
	src := []byte(arabicProgram)
	want, wantDiags := Parse("test.seen", src, cfg)

	toks, lexDiags := Tokenize("test.seen", src, cfg)
	got, parseDiags := ParseTokens("test.seen", toks, cfg, lexDiags)
	if got.Lang != "ar" {
		t.Errorf("Lang = %q", got.Lang)
	}
	if n := lexDiags.Len() + parseDiags.Len(); n != wantDiags.Len() {
		t.Errorf("got %d diagnostics, want %d", n, wantDiags.Len())
	}
	if Sprint(got) != Sprint(want) {
		t.Errorf("ParseTokens differs:\n%s\nwant:\n%s", Sprint(got), Sprint(want))
	}

	// A malformed literal is reported by the lexer only.
	src = []byte("val x = 0x;")
	toks, lexDiags = Tokenize("test.seen", src, LexerConfig{})
	_, parseDiags = ParseTokens("test.seen", toks, LexerConfig{}, lexDiags)
	if lexDiags.Len() != 1 || parseDiags.Len() != 0 {
		t.Errorf("lexer %v, parser %v", lexDiags, parseDiags)
	}
}

// ----------------------------------------------------------------------------
// Error recovery

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		// Declarations
		{"unclosed_struct", "struct T { x: Int", `expected "}"`},
		{"bad_field_type", "struct T { x: }", "expected type"},
		{"missing_func_body", "func f()", `expected "{"`},
		{"param_without_type", "func f(x) {}", `expected ":"`},
		{"unclosed_params", "func f(x: Int {}", `expected ")"`},
		{"var_missing_init", "var x: Int;", `expected "=", found ";"`},
		{"bad_type", "val x: 1 = 1;", "expected type"},
		{"func_type_missing_arrow", "val f: (Int) Int = g;", `expected "->"`},

		// Expressions
		{"unclosed_paren", "val x = (1 + 2;", `expected ")"`},
		{"unclosed_bracket", "val x = a[0;", `expected "]"`},
		{"bad_selector", "val x = a.;", "expected identifier"},
		{"bad_call_args", "f(,);", "expected expression"},
		{"if_expr_without_else", "val x = if a { 1 };", "requires an else branch"},

		// Statements
		{"missing_semicolon", "val x = 1 val y = 2;", `expected ";", found "val"`},
		{"for_missing_in", "for x xs { }", "expected in"},
		{"stray_else", "else { }", "expected statement"},
		{"stray_rbrace", "} val x = 1;", "expected statement"},
		{"reserved_when", "when x { }", `"when" is reserved`},
		{"reserved_async", "async func f() {}", `"async" is reserved`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := parseFileWithErrors(t, tt.src, LexerConfig{})
			if diags.Len() == 0 {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !hasMessage(diags, tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, diags)
			}
		})
	}
}

func TestParseRecovery(t *testing.T) {
	t.Run("bad_initializer", func(t *testing.T) {
		f, diags := parseFileWithErrors(t, "val x = ;\nval y = 2;", LexerConfig{})
		if diags.Len() != 1 {
			t.Errorf("diagnostics = %v, want 1", diags)
		}
		if len(f.Body) != 2 {
			t.Fatalf("body = %d, want 2", len(f.Body))
		}
		if y := f.Body[1].(*VarDecl); y.Name.Value != "y" || ExprString(y.Value) != "2" {
			t.Errorf("second decl = %s = %s", y.Name.Value, ExprString(y.Value))
		}
	})

	t.Run("missing_semicolon", func(t *testing.T) {
		f, diags := parseFileWithErrors(t, "val x = 1\nval y = 2;", LexerConfig{})
		if diags.Len() != 1 || diags[0].Span.Start.String() != "2:1" {
			t.Errorf("diagnostics = %v, want one at 2:1", diags)
		}
		if len(f.Body) != 2 {
			t.Errorf("body = %d, want 2", len(f.Body))
		}
	})

	t.Run("error_inside_function", func(t *testing.T) {
		f, diags := parseFileWithErrors(t, "func f() { val = 1; g(); }\nfunc h() {}", LexerConfig{})
		if diags.Len() != 1 {
			t.Errorf("diagnostics = %v, want 1", diags)
		}
		if len(f.Body) != 2 {
			t.Fatalf("body = %d, want 2", len(f.Body))
		}
		if fn := f.Body[0].(*FuncDecl); len(fn.Body.Stmts) != 2 {
			t.Errorf("f body = %d statements, want 2", len(fn.Body.Stmts))
		}
	})

	t.Run("reserved_keyword_then_decl", func(t *testing.T) {
		f, diags := parseFileWithErrors(t, "async func f() {}", LexerConfig{})
		if diags.Len() != 1 || diags[0].Code != "P0004" {
			t.Errorf("diagnostics = %v, want one P0004", diags)
		}
		if _, ok := f.Body[len(f.Body)-1].(*FuncDecl); !ok {
			t.Errorf("declaration after reserved keyword was not parsed: %v", f.Body)
		}
	})

	t.Run("unclosed_block_note", func(t *testing.T) {
		_, diags := parseFileWithErrors(t, "func f() {\n  val x = 1;", LexerConfig{})
		if diags.Len() != 1 {
			t.Fatalf("diagnostics = %v, want 1", diags)
		}
		rel := diags[0].Related
		if len(rel) != 1 || rel[0].ID != diag.NoteOpenedHere.ID || rel[0].Span.Start.String() != "1:10" {
			t.Errorf("related = %v, want note at 1:10", rel)
		}
	})

	t.Run("lexer_errors_not_repeated", func(t *testing.T) {
		_, diags := parseFileWithErrors(t, "val x = 1 @ 2;", LexerConfig{})
		if diags.Len() == 0 || diags[0].Code != "L0002" {
			t.Errorf("diagnostics = %v, want lexer error first", diags)
		}
	})
}

var failSoftSeeds = []string{
	"",
	"func",
	"func (",
	"val = = = ;",
	"((((((",
	"}}}}",
	"if { } else",
	"struct S { x Int, y: }",
	"@@@ func main() { }",
	`"unterminated`,
	"val x = 1 +",
	"x.y.z(",
	"async await ref own",
	"0x 0b2 1e",
	"enum { , , }",
	"for in { }",
	"while { } loop",
	"return return return",
	"val p = P { x: , y 2 };",
	"func f(a: [Int, b: Int?) -> { }",
	"if (a { } ) else { }",
	"[[[]]",
	"val x = if a { 1 } else",
	"دالة ؛ ، ؟",
	"\xff\xfe func",
}

func TestParseFailSoft(t *testing.T) {
	for _, src := range failSoftSeeds {
		t.Run(fmt.Sprintf("%q", src), func(t *testing.T) {
			f, diags := parseFileWithErrors(t, src, LexerConfig{})
			if f.Body == nil && src != "" && diags.Len() == 0 {
				t.Error("empty result without diagnostics")
			}
			toks, _ := Tokenize("test.seen", []byte(src), LexerConfig{})
			if diags.Len() > len(toks) {
				t.Errorf("%d diagnostics for %d tokens: %v", diags.Len(), len(toks), diags)
			}
		})
	}
}

func TestParseExprTrailingTokens(t *testing.T) {
	_, diags := ParseExpr([]byte("a b"), LexerConfig{})
	if !hasMessage(diags, "expected EOF") {
		t.Errorf("diagnostics = %v, want trailing token error", diags)
	}
}

// ----------------------------------------------------------------------------
// Walk tests

func TestWalk(t *testing.T) {
	f := parseFile(t, `func main() { val x = 1 + 2; }`)

	var nodeCount, nameCount int
	Walk(f, func(n Node) bool {
		nodeCount++
		if _, ok := n.(*Name); ok {
			nameCount++
		}
		return true
	})

	// File, FuncDecl, main, BlockStmt, VarDecl, x, BinaryExpr, 1, 2
	if nodeCount != 9 {
		t.Errorf("visited %d nodes, want 9", nodeCount)
	}
	if nameCount != 2 {
		t.Errorf("visited %d names, want 2", nameCount)
	}
}

func TestInspectPrune(t *testing.T) {
	f := parseFile(t, `func f() { if x > 0 { return 1; } } if y { }`)

	var ifCount int
	Inspect(f, func(n Node) bool {
		if _, ok := n.(*IfStmt); ok {
			ifCount++
		}
		_, isFunc := n.(*FuncDecl)
		return !isFunc
	})

	if ifCount != 1 {
		t.Errorf("expected 1 IfStmt outside functions, got %d", ifCount)
	}
}

func TestWalkSkipsNilChildren(t *testing.T) {
	// hand-built tree with unset optional children
	fn := &FuncDecl{Name: &Name{Value: "f"}}
	var count int
	Walk(fn, func(Node) bool { count++; return true })
	if count != 2 {
		t.Errorf("visited %d nodes, want 2", count)
	}
}

// ----------------------------------------------------------------------------
// Printing

func TestFprint(t *testing.T) {
	f := parseFile(t, "val x: Int? = -1;")
	got := Sprint(f)
	want := `File test.seen en
  VarDecl 1:1 val x
    Type: Int?
    Value:
      UnaryExpr 1:15 -
        BasicLit 1:16 IntLiteral 1
`
	if got != want {
		t.Errorf("Sprint:\n%s\nwant:\n%s", got, want)
	}
}

func TestFprintJSON(t *testing.T) {
	f := parseFile(t, `println("hi");`)
	var b strings.Builder
	if err := FprintJSON(&b, f); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{`"type": "File"`, `"type": "CallExpr"`, `"builtin": "Println"`, `"value": "hi"`, `"start": "1:1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON output missing %s:\n%s", want, out)
		}
	}
}

// ----------------------------------------------------------------------------
// Fuzz test

func FuzzParse(f *testing.F) {
	for _, seed := range failSoftSeeds {
		f.Add(seed)
	}
	f.Add(englishProgram)
	f.Add(arabicProgram)

	f.Fuzz(func(t *testing.T, src string) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("parser panicked on input %q: %v", src, r)
			}
		}()

		file, diags := Parse("fuzz.seen", []byte(src), LexerConfig{Mixed: true})
		if file == nil {
			t.Fatal("Parse returned nil")
		}
		toks, _ := Tokenize("fuzz.seen", []byte(src), LexerConfig{Mixed: true})
		if diags.Len() > len(toks) {
			t.Errorf("%d diagnostics for %d tokens", diags.Len(), len(toks))
		}
	})
}
