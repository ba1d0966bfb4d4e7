// Package token defines the canonical, language-independent token kinds of
// Seen together with source positions and spans.
package token

import (
	"fmt"
	"strings"
)

// Kind is the canonical classification of a token. A kind never depends on
// which natural language spelled the token.
type Kind uint8

const (
	EOF Kind = iota
	Error

	// Literals
	IntLiteral
	FloatLiteral
	StringLiteral
	Identifier

	// Operators
	Plus         // +
	Minus        // -
	Multiply     // *
	Divide       // /
	Modulo       // %
	Assign       // =
	Equal        // ==
	NotEqual     // !=
	LessThan     // <
	GreaterThan  // >
	LessEqual    // <=
	GreaterEqual // >=
	And          // &&
	Or           // ||
	Not          // !

	// Delimiters
	LeftParen    // (
	RightParen   // )
	LeftBrace    // {
	RightBrace   // }
	LeftBracket  // [
	RightBracket // ]
	Semicolon    // ;
	Colon        // :
	Comma        // ,
	Dot          // .
	Arrow        // ->
	Question     // ?

	// Keywords
	keywordBeg
	Val
	Var
	Func
	If
	Else
	While
	For
	Return
	True
	False
	Null
	Println
	When
	In
	Loop
	Break
	Continue
	Struct
	Enum
	Unsafe
	Ref
	Own
	Async
	Await
	keywordEnd

	kindCount
)

var kindNames = [...]string{
	EOF:   "EOF",
	Error: "Error",

	IntLiteral:    "IntLiteral",
	FloatLiteral:  "FloatLiteral",
	StringLiteral: "StringLiteral",
	Identifier:    "Identifier",

	Plus:         "Plus",
	Minus:        "Minus",
	Multiply:     "Multiply",
	Divide:       "Divide",
	Modulo:       "Modulo",
	Assign:       "Assign",
	Equal:        "Equal",
	NotEqual:     "NotEqual",
	LessThan:     "LessThan",
	GreaterThan:  "GreaterThan",
	LessEqual:    "LessEqual",
	GreaterEqual: "GreaterEqual",
	And:          "And",
	Or:           "Or",
	Not:          "Not",

	LeftParen:    "LeftParen",
	RightParen:   "RightParen",
	LeftBrace:    "LeftBrace",
	RightBrace:   "RightBrace",
	LeftBracket:  "LeftBracket",
	RightBracket: "RightBracket",
	Semicolon:    "Semicolon",
	Colon:        "Colon",
	Comma:        "Comma",
	Dot:          "Dot",
	Arrow:        "Arrow",
	Question:     "Question",

	Val:      "Val",
	Var:      "Var",
	Func:     "Func",
	If:       "If",
	Else:     "Else",
	While:    "While",
	For:      "For",
	Return:   "Return",
	True:     "True",
	False:    "False",
	Null:     "Null",
	Println:  "Println",
	When:     "When",
	In:       "In",
	Loop:     "Loop",
	Break:    "Break",
	Continue: "Continue",
	Struct:   "Struct",
	Enum:     "Enum",
	Unsafe:   "Unsafe",
	Ref:      "Ref",
	Own:      "Own",
	Async:    "Async",
	Await:    "Await",
}

// operator and delimiter spellings; keywords are spelled by the keyword table.
var kindText = [...]string{
	Plus:         "+",
	Minus:        "-",
	Multiply:     "*",
	Divide:       "/",
	Modulo:       "%",
	Assign:       "=",
	Equal:        "==",
	NotEqual:     "!=",
	LessThan:     "<",
	GreaterThan:  ">",
	LessEqual:    "<=",
	GreaterEqual: ">=",
	And:          "&&",
	Or:           "||",
	Not:          "!",
	LeftParen:    "(",
	RightParen:   ")",
	LeftBrace:    "{",
	RightBrace:   "}",
	LeftBracket:  "[",
	RightBracket: "]",
	Semicolon:    ";",
	Colon:        ":",
	Comma:        ",",
	Dot:          ".",
	Arrow:        "->",
	Question:     "?",
}

// String returns the canonical name of the kind, e.g. "Func" or "LeftBrace".
func (k Kind) String() string {
	if k < kindCount && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Text returns the fixed spelling of an operator or delimiter, or the
// canonical name for every other kind.
func (k Kind) Text() string {
	if int(k) < len(kindText) && kindText[k] != "" {
		return kindText[k]
	}
	return k.String()
}

// IsKeyword reports whether k is a keyword kind.
func (k Kind) IsKeyword() bool {
	return k > keywordBeg && k < keywordEnd
}

// IsLiteral reports whether k is a literal kind.
func (k Kind) IsLiteral() bool {
	return k >= IntLiteral && k <= StringLiteral
}

// IsOperator reports whether k is an operator kind.
func (k Kind) IsOperator() bool {
	return k >= Plus && k <= Not
}

// Keywords returns every keyword kind in declaration order.
func Keywords() []Kind {
	kinds := make([]Kind, 0, keywordEnd-keywordBeg-1)
	for k := keywordBeg + 1; k < keywordEnd; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Precedence returns the binding power of a binary operator, or 0 for
// tokens that are not binary operators. Higher binds tighter.
//
//	1: =          (right-associative)
//	2: ||
//	3: &&
//	4: == !=
//	5: < <= > >=
//	6: + -
//	7: * / %
func (k Kind) Precedence() int {
	switch k {
	case Assign:
		return 1
	case Or:
		return 2
	case And:
		return 3
	case Equal, NotEqual:
		return 4
	case LessThan, LessEqual, GreaterThan, GreaterEqual:
		return 5
	case Plus, Minus:
		return 6
	case Multiply, Divide, Modulo:
		return 7
	}
	return 0
}

// Name returns the configuration key of a keyword kind, e.g. "func".
// Keyword tables are keyed by this name.
func (k Kind) Name() string {
	return strings.ToLower(k.String())
}

var keywordsByName = func() map[string]Kind {
	m := make(map[string]Kind, keywordEnd-keywordBeg)
	for _, k := range Keywords() {
		m[k.Name()] = k
	}
	return m
}()

// LookupKeyword returns the keyword kind whose configuration key is name.
func LookupKeyword(name string) (Kind, bool) {
	k, ok := keywordsByName[name]
	return k, ok
}
