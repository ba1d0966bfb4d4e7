package syntax

import (
	"fmt"
	"strings"

	"github.com/seen-lang/seen/internal/diag"
	"github.com/seen-lang/seen/internal/keywords"
	"github.com/seen-lang/seen/internal/token"
)

// Arabic punctuation accepted in place of their ASCII forms.
const (
	arabicComma     = '\u060c' // ،
	arabicSemicolon = '\u061b' // ؛
	arabicQuestion  = '\u061f' // ؟
)

// LexerConfig selects the keyword language and lexical conventions.
type LexerConfig struct {
	// Table is the keyword table; nil means keywords.Default().
	Table *keywords.Table
	// Lang is the active keyword language; "" means "en".
	Lang string
	// Mixed accepts keywords of every language in Table.
	Mixed bool
	// TabWidth is the number of columns a tab advances; values below 1
	// mean 1.
	TabWidth int
}

func (c LexerConfig) table() *keywords.Table {
	if c.Table != nil {
		return c.Table
	}
	return keywords.Default()
}

func (c LexerConfig) lang() string {
	if c.Lang != "" {
		return c.Lang
	}
	return "en"
}

// Lexer converts Seen source text into canonical tokens.
// It never stops early: malformed input yields Error tokens and
// diagnostics, and the token stream always ends with EOF.
type Lexer struct {
	source

	table *keywords.Table
	lang  string
	mixed bool
	diags *diag.List
}

// NewLexer returns a lexer for src. Diagnostics are appended to diags,
// which may be nil to discard them.
func NewLexer(filename string, src []byte, cfg LexerConfig, diags *diag.List) *Lexer {
	l := &Lexer{
		table: cfg.table(),
		lang:  cfg.lang(),
		mixed: cfg.Mixed,
		diags: diags,
	}
	l.init(filename, src, cfg.TabWidth)
	return l
}

// Tokenize lexes the whole input. The last token is EOF.
func (l *Lexer) Tokenize() []token.Token {
	var toks []token.Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			return toks
		}
	}
}

// Tokenize lexes src with cfg and returns its tokens and diagnostics.
func Tokenize(filename string, src []byte, cfg LexerConfig) ([]token.Token, diag.List) {
	var diags diag.List
	toks := NewLexer(filename, src, cfg, &diags).Tokenize()
	return toks, diags
}

func (l *Lexer) report(t *diag.Template, span token.Span, args ...any) {
	if l.diags != nil {
		l.diags.Report(t, span, args...)
	}
}

func (l *Lexer) newToken(kind token.Kind, m mark, lang string) token.Token {
	return token.Token{
		Kind:   kind,
		Lexeme: l.textFrom(m),
		Span:   l.spanFrom(m),
		Lang:   lang,
	}
}

// Next returns the next token. After the end of input it keeps
// returning EOF.
func (l *Lexer) Next() token.Token {
redo:
	for isWhitespace(l.ch) {
		l.nextch()
	}

	m := l.mark()
	switch {
	case l.ch < 0:
		return l.newToken(token.EOF, m, token.Neutral)

	case l.bad:
		l.nextch()
		t := l.newToken(token.Error, m, token.Neutral)
		l.report(diag.InvalidUTF8, t.Span)
		return t

	case token.IsIdentStart(l.ch):
		return l.ident(m)

	case isDigit(l.ch):
		return l.number(m)

	case l.ch == '"':
		return l.stringLit(m)

	case l.ch == '/' && l.peek() == '/':
		l.lineComment()
		goto redo

	case l.ch == '/' && l.peek() == '*':
		l.blockComment(m)
		goto redo
	}

	if kind, ok := l.operator(); ok {
		return l.newToken(kind, m, token.Neutral)
	}

	ch := l.ch
	l.nextch()
	t := l.newToken(token.Error, m, token.Neutral)
	l.report(diag.UnexpectedChar, t.Span, ch)
	return t
}

// ident scans a maximal identifier run and classifies it through the
// keyword table.
func (l *Lexer) ident(m mark) token.Token {
	for token.IsIdentPart(l.ch) {
		l.nextch()
	}
	lexeme := l.textFrom(m)
	if l.mixed {
		if kind, lang, ok := l.table.LookupAny(lexeme); ok {
			return l.newToken(kind, m, lang)
		}
	} else if kind, ok := l.table.Lookup(lexeme, l.lang); ok {
		return l.newToken(kind, m, l.lang)
	}
	return l.newToken(token.Identifier, m, l.lang)
}

// number scans an integer or float literal. Integers may carry a 0x, 0o
// or 0b prefix; floats need a fraction or an exponent. At most one
// diagnostic is reported per literal.
func (l *Lexer) number(m mark) token.Token {
	kind := token.IntLiteral
	var problem string

	if l.ch == '0' {
		switch lower(l.peek()) {
		case 'x':
			l.nextch()
			l.nextch()
			problem = l.digits(isHexDigit, "hexadecimal")
			return l.numberToken(kind, m, problem)
		case 'o':
			l.nextch()
			l.nextch()
			problem = l.digits(isOctalDigit, "octal")
			return l.numberToken(kind, m, problem)
		case 'b':
			l.nextch()
			l.nextch()
			problem = l.digits(isBinaryDigit, "binary")
			return l.numberToken(kind, m, problem)
		}
	}

	for isDigit(l.ch) {
		l.nextch()
	}
	// A dot makes a float only when a digit follows, so 1.field stays
	// an integer followed by a field access.
	if l.ch == '.' && isDigit(l.peek()) {
		kind = token.FloatLiteral
		l.nextch()
		for isDigit(l.ch) {
			l.nextch()
		}
	}
	// An exponent marker not followed by an identifier part (1e, 1e+x)
	// is a malformed exponent rather than the start of a name.
	if lower(l.ch) == 'e' {
		next := l.peek()
		if isDigit(next) || next == '+' || next == '-' || !token.IsIdentPart(next) {
			kind = token.FloatLiteral
			l.nextch()
			if l.ch == '+' || l.ch == '-' {
				l.nextch()
			}
			if !isDigit(l.ch) {
				problem = "exponent has no digits"
			}
			for isDigit(l.ch) {
				l.nextch()
			}
		}
	}
	return l.numberToken(kind, m, problem)
}

// digits consumes a run of digits after a radix prefix. Decimal digits
// that do not belong to the radix are consumed too so the literal stays
// one token.
func (l *Lexer) digits(valid func(rune) bool, radix string) string {
	n := 0
	for valid(l.ch) {
		l.nextch()
		n++
	}
	var problem string
	if n == 0 {
		problem = radix + " literal has no digits"
	}
	for isHexDigit(l.ch) {
		if problem == "" {
			problem = fmt.Sprintf("invalid digit %q in %s literal", l.ch, radix)
		}
		l.nextch()
	}
	return problem
}

func (l *Lexer) numberToken(kind token.Kind, m mark, problem string) token.Token {
	t := l.newToken(kind, m, token.Neutral)
	if problem != "" {
		l.report(diag.MalformedNumber, t.Span, t.Lexeme, problem)
	}
	return t
}

// stringLit scans a string literal. The lexeme keeps the quotes and escapes
// exactly as written; Unquote decodes it. An unterminated literal ends at
// the end of its line and is reported once, from the opening quote.
func (l *Lexer) stringLit(m mark) token.Token {
	l.nextch() // opening quote

	var badEscape *token.Span
	var badRune rune
	for {
		switch l.ch {
		case '"':
			l.nextch()
			t := l.newToken(token.StringLiteral, m, token.Neutral)
			if badEscape != nil {
				l.report(diag.UnknownEscape, *badEscape, badRune)
			}
			return t

		case '\\':
			em := l.mark()
			l.nextch()
			if l.ch == '\n' || l.ch < 0 {
				continue
			}
			if !isEscape(l.ch) && badEscape == nil {
				badRune = l.ch
				l.nextch()
				sp := l.spanFrom(em)
				badEscape = &sp
				continue
			}
			l.nextch()

		case '\n', -1:
			t := l.newToken(token.StringLiteral, m, token.Neutral)
			l.report(diag.UnterminatedString, t.Span)
			return t

		default:
			l.nextch()
		}
	}
}

func isEscape(r rune) bool {
	switch r {
	case 'n', 't', 'r', '\\', '"', '0':
		return true
	}
	return false
}

// Unquote decodes the lexeme of a string literal. It is lenient: a
// missing closing quote and unknown escapes (already reported by the
// lexer) do not stop decoding.
func Unquote(lexeme string) string {
	s := strings.TrimPrefix(lexeme, `"`)
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if escaped {
			escaped = false
			switch r {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '0':
				b.WriteByte(0)
			default:
				b.WriteRune(r)
			}
			continue
		}
		switch r {
		case '\\':
			escaped = true
		case '"':
			return b.String()
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (l *Lexer) lineComment() {
	for l.ch != '\n' && l.ch >= 0 {
		l.nextch()
	}
}

func (l *Lexer) blockComment(m mark) {
	l.nextch() // /
	l.nextch() // *
	for l.ch >= 0 {
		if l.ch == '*' && l.peek() == '/' {
			l.nextch()
			l.nextch()
			return
		}
		l.nextch()
	}
	sp := l.spanFrom(m)
	l.report(diag.UnterminatedComment, sp)
}

// operator scans the longest operator or delimiter at the current
// character.
func (l *Lexer) operator() (token.Kind, bool) {
	two := func(next rune, long, short token.Kind) token.Kind {
		l.nextch()
		if l.ch == next {
			l.nextch()
			return long
		}
		return short
	}

	switch l.ch {
	case '+':
		l.nextch()
		return token.Plus, true
	case '-':
		return two('>', token.Arrow, token.Minus), true
	case '*':
		l.nextch()
		return token.Multiply, true
	case '/':
		l.nextch()
		return token.Divide, true
	case '%':
		l.nextch()
		return token.Modulo, true
	case '=':
		return two('=', token.Equal, token.Assign), true
	case '!':
		return two('=', token.NotEqual, token.Not), true
	case '<':
		return two('=', token.LessEqual, token.LessThan), true
	case '>':
		return two('=', token.GreaterEqual, token.GreaterThan), true
	case '&':
		if l.peek() == '&' {
			l.nextch()
			l.nextch()
			return token.And, true
		}
	case '|':
		if l.peek() == '|' {
			l.nextch()
			l.nextch()
			return token.Or, true
		}
	case '(':
		l.nextch()
		return token.LeftParen, true
	case ')':
		l.nextch()
		return token.RightParen, true
	case '{':
		l.nextch()
		return token.LeftBrace, true
	case '}':
		l.nextch()
		return token.RightBrace, true
	case '[':
		l.nextch()
		return token.LeftBracket, true
	case ']':
		l.nextch()
		return token.RightBracket, true
	case ';', arabicSemicolon:
		l.nextch()
		return token.Semicolon, true
	case ':':
		l.nextch()
		return token.Colon, true
	case ',', arabicComma:
		l.nextch()
		return token.Comma, true
	case '.':
		l.nextch()
		return token.Dot, true
	case '?', arabicQuestion:
		l.nextch()
		return token.Question, true
	}
	return 0, false
}
