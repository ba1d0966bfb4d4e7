package types2

import (
	"testing"

	"github.com/seen-lang/seen/internal/syntax"
	"github.com/seen-lang/seen/internal/types"
)

func TestMutuallyRecursiveStructsReportedOnce(t *testing.T) {
	diags := expectErrors(t, `
	struct A { b: B }
	struct B { a: A? }
	`, "invalid recursive struct A")
	if n := diags.WithCode("T0032").Len(); n != 1 {
		t.Errorf("recursive struct diagnostics = %d, want 1:\n%s", n, messages(diags))
	}
}

func TestRecursiveStructLayoutTerminates(t *testing.T) {
	_, info, _ := parseAndCheck(t, `struct Node { value: Int, next: Node }`)
	st := globalType(t, info, "Node").(*types.Struct)
	if got := types.DefaultSizes.Sizeof(st); got != 8 {
		t.Errorf("Sizeof(Node) = %d, want 8 once the cycle is cut", got)
	}
}

func TestParenthesizedStructLiteralInCondition(t *testing.T) {
	expectNoErrors(t, `
	struct P { x: Int }
	func main() {
		if (P { x: 1 }).x == 1 { println("one"); }
		while (P { x: 2 }).x < 0 { }
	}
	`)
}

func TestStructLiteralInsideIfBody(t *testing.T) {
	expectNoErrors(t, `
	struct P { x: Int }
	func main() {
		val ok = true;
		if ok { val p = P { x: 1 }; println(p.x); }
	}
	`)
}

func TestShadowedParameter(t *testing.T) {
	expectNoErrors(t, `
	func f(x: Int) -> String {
		{
			val x = "inner";
			return x;
		}
	}
	`)
}

func TestLocalRedeclarationInSameScope(t *testing.T) {
	expectErrors(t, `
	func f(x: Int) {
		val x = 2;
	}
	`, "x redeclared in this scope")
}

func TestDuplicateStructField(t *testing.T) {
	expectErrors(t, `struct P { x: Int, x: Float }`, "x redeclared in this scope")
}

func TestDuplicateEnumVariant(t *testing.T) {
	expectErrors(t, `enum C { Red, Red }`, "Red redeclared in this scope")
}

func TestMissingReturnAfterBreakingLoop(t *testing.T) {
	expectErrors(t, `
	func f() -> Int {
		loop {
			break;
		}
	}
	`, "missing return in function f returning Int")
}

func TestReturnInsideNestedLoopTerminates(t *testing.T) {
	expectNoErrors(t, `
	func f() -> Int {
		loop {
			while true { break; }
			return 1;
		}
	}
	`)
}

func TestArabicPrintlnResolvesToBuiltin(t *testing.T) {
	file, info, diags := parseAndCheckConfig(t, `اطبع(1)؛`, syntax.LexerConfig{Lang: "ar"})
	if diags.Len() != 0 {
		t.Fatalf("diagnostics:\n%s", messages(diags))
	}
	call := file.Body[0].(*syntax.ExprStmt).X.(*syntax.CallExpr)
	sym := info.SymbolOf(call.Fun.(*syntax.Name))
	if sym == nil || sym.Kind != types.SymBuiltin || sym.Name != types.PrintlnName {
		t.Errorf("println resolves to %v", sym)
	}
}

func TestArgumentErrorsStillTypeCall(t *testing.T) {
	_, info, diags := parseAndCheck(t, `
	func half(x: Float) -> Float { return x / 2; }
	val h = half("s");
	val d = h * 2;
	`)
	if diags.Len() != 1 {
		t.Fatalf("got %d diagnostics, want 1:\n%s", diags.Len(), messages(diags))
	}
	if got := globalType(t, info, "h"); got != types.Typ[types.Float] {
		t.Errorf("h: %s, want Float", got)
	}
}

func TestInvalidCalleeChecksArguments(t *testing.T) {
	_, _, diags := parseAndCheck(t, `missing(other);`)
	if diags.Len() != 2 {
		t.Errorf("got %d diagnostics, want 2 (callee and argument):\n%s", diags.Len(), messages(diags))
	}
}

func TestNullExpressionStatement(t *testing.T) {
	for _, src := range []string{
		`func main() { null; }`,
		`func main() { (null); }`,
		`null;`,
	} {
		diags := expectErrors(t, src, "use of null requires an optional type annotation")
		if n := diags.WithCode("T0024").Len(); n != 1 {
			t.Errorf("%s: untyped null diagnostics = %d, want 1:\n%s", src, n, messages(diags))
		}
	}

	expectNoErrors(t, `
	func f(a: Int?) { }
	func main() {
		var o: Int? = null;
		o == null;
		f(null);
	}
	`)
}

func TestForOverNonArrayDoesNotCascade(t *testing.T) {
	diags := expectErrors(t, `for x in 5 { val y: Int = x; val z: String = x; }`, "cannot range over 5 (type Int)")
	if n := diags.Errors().Len(); n != 1 {
		t.Fatalf("got %d errors, want 1:\n%s", n, messages(diags.Errors()))
	}
}
