package token

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{EOF, "EOF"},
		{Error, "Error"},
		{IntLiteral, "IntLiteral"},
		{Identifier, "Identifier"},
		{LessEqual, "LessEqual"},
		{Arrow, "Arrow"},
		{Func, "Func"},
		{Println, "Println"},
		{Await, "Await"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestKindText(t *testing.T) {
	if got := LessEqual.Text(); got != "<=" {
		t.Errorf("LessEqual.Text() = %q", got)
	}
	if got := Arrow.Text(); got != "->" {
		t.Errorf("Arrow.Text() = %q", got)
	}
	if got := Func.Text(); got != "Func" {
		t.Errorf("Func.Text() = %q", got)
	}
}

func TestKindClasses(t *testing.T) {
	for _, k := range Keywords() {
		if !k.IsKeyword() {
			t.Errorf("%s: IsKeyword() = false", k)
		}
		if k.IsOperator() || k.IsLiteral() {
			t.Errorf("%s: keyword classified as operator or literal", k)
		}
	}
	if len(Keywords()) != 24 {
		t.Errorf("len(Keywords()) = %d, want 24", len(Keywords()))
	}
	for _, k := range []Kind{Plus, Assign, Or, Not} {
		if !k.IsOperator() {
			t.Errorf("%s: IsOperator() = false", k)
		}
	}
	if Identifier.IsKeyword() || LeftBrace.IsKeyword() {
		t.Error("non-keywords classified as keywords")
	}
}

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		name string
		want Kind
		ok   bool
	}{
		{"func", Func, true},
		{"println", Println, true},
		{"continue", Continue, true},
		{"Func", 0, false},
		{"plus", 0, false},
		{"identifier", 0, false},
	}
	for _, tt := range tests {
		got, ok := LookupKeyword(tt.name)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("LookupKeyword(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPrecedenceOrder(t *testing.T) {
	// weakest to strongest
	levels := [][]Kind{
		{Assign},
		{Or},
		{And},
		{Equal, NotEqual},
		{LessThan, LessEqual, GreaterThan, GreaterEqual},
		{Plus, Minus},
		{Multiply, Divide, Modulo},
	}
	for i, level := range levels {
		for _, k := range level {
			if got := k.Precedence(); got != i+1 {
				t.Errorf("%s.Precedence() = %d, want %d", k, got, i+1)
			}
		}
	}
	if Not.Precedence() != 0 || LeftParen.Precedence() != 0 {
		t.Error("non-binary operators must have precedence 0")
	}
}

func TestFormatKinds(t *testing.T) {
	toks := []Token{{Kind: Func}, {Kind: Identifier, Lexeme: "main"}, {Kind: EOF}}
	if got := FormatKinds(Kinds(toks)); got != "Func, Identifier, EOF" {
		t.Errorf("FormatKinds = %q", got)
	}
	if got := toks[1].String(); got != `Identifier("main")` {
		t.Errorf("Token.String() = %q", got)
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"main", true},
		{"_x1", true},
		{"ثابت", true},
		{"غير_آمن", true},
		{"مُتغيّر", true},
		{"1abc", false},
		{"a-b", false},
		{"", false},
		{"a b", false},
	}
	for _, tt := range tests {
		if got := IsIdentifier(tt.s); got != tt.want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}
