package token

import (
	"fmt"
	"strings"
)

// Neutral is the language tag of tokens that no keyword table produced:
// literals, identifiers of unknown origin, operators and punctuation.
const Neutral = "neutral"

// Token is one lexical token. Lexeme is the source text exactly as written;
// Lang names the keyword language that matched it.
type Token struct {
	Kind   Kind
	Lexeme string
	Span   Span
	Lang   string
}

func (t Token) String() string {
	switch t.Kind {
	case Identifier, IntLiteral, FloatLiteral, StringLiteral, Error:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Lexeme)
	}
	return t.Kind.String()
}

// Kinds returns the kind sequence of toks.
func Kinds(toks []Token) []Kind {
	kinds := make([]Kind, len(toks))
	for i, t := range toks {
		kinds[i] = t.Kind
	}
	return kinds
}

// FormatKinds renders a kind sequence as "Func, Identifier, ...".
func FormatKinds(kinds []Kind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = k.String()
	}
	return strings.Join(parts, ", ")
}
