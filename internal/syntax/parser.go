package syntax

import (
	"strconv"

	"github.com/seen-lang/seen/internal/diag"
	"github.com/seen-lang/seen/internal/token"
)

// TokenSource supplies tokens to the parser. After the last token it must
// keep returning EOF. *Lexer and *TokenSlice implement it.
type TokenSource interface {
	Next() token.Token
}

// TokenSlice is a TokenSource over pre-lexed tokens.
type TokenSlice struct {
	toks []token.Token
	i    int
}

// NewTokenSlice returns a TokenSource over toks. A missing trailing EOF is
// synthesized.
func NewTokenSlice(toks []token.Token) *TokenSlice {
	return &TokenSlice{toks: toks}
}

// Next returns the next token, or EOF once the slice is exhausted.
func (s *TokenSlice) Next() token.Token {
	if s.i < len(s.toks) {
		t := s.toks[s.i]
		s.i++
		return t
	}
	eof := token.Token{Kind: token.EOF, Lang: token.Neutral}
	if n := len(s.toks); n > 0 {
		last := s.toks[n-1].Span
		eof.Span = token.Span{File: last.File, Start: last.End, End: last.End, Offset: last.EndOffset, EndOffset: last.EndOffset}
	}
	return eof
}

// Parser performs syntax analysis on Seen tokens.
//
// The parser never gives up: every syntax error is reported once and
// followed by panic-mode recovery, and Parse always returns a File.
type Parser struct {
	src      TokenSource
	filename string
	diags    *diag.List

	tok  token.Token // current token
	prev token.Token // last consumed token

	nextID NodeID

	// Error handling
	panicking bool         // errors are suppressed until the next sync
	reported  map[int]bool // token offsets that already carry a diagnostic

	// noLit disables struct literals, so that the brace after an if,
	// while or for header opens the body. Parentheses re-enable them.
	noLit bool
}

// NewParser returns a parser reading from src. Diagnostics are appended
// to diags, which may be nil to discard them.
func NewParser(filename string, src TokenSource, diags *diag.List) *Parser {
	if diags == nil {
		diags = new(diag.List)
	}
	p := &Parser{
		src:      src,
		filename: filename,
		diags:    diags,
		reported: make(map[int]bool),
	}
	p.next() // prime the parser with first token
	return p
}

// Parse lexes and parses src as a complete file.
func Parse(filename string, src []byte, cfg LexerConfig) (*File, diag.List) {
	var diags diag.List
	lx := NewLexer(filename, src, cfg, &diags)
	f := NewParser(filename, lx, &diags).Parse()
	f.Lang = cfg.lang()
	return f, diags
}

// ParseTokens parses toks as produced by Tokenize with the same cfg.
// lexDiags are the lexer's diagnostics for toks; positions they cover are
// not reported again. Only the parser's diagnostics are returned.
func ParseTokens(filename string, toks []token.Token, cfg LexerConfig, lexDiags diag.List) (*File, diag.List) {
	var diags diag.List
	p := NewParser(filename, NewTokenSlice(toks), &diags)
	for _, d := range lexDiags {
		p.reported[d.Span.Offset] = true
	}
	f := p.Parse()
	f.Lang = cfg.lang()
	return f, diags
}

// ParseExpr parses src as a single expression.
func ParseExpr(src []byte, cfg LexerConfig) (Expr, diag.List) {
	var diags diag.List
	p := NewParser("", NewLexer("", src, cfg, &diags), &diags)
	x := p.expr()
	if p.tok.Kind != token.EOF {
		p.errorf(diag.Expected, p.tok.Span, "EOF", describe(p.tok))
	}
	return x, diags
}

// ----------------------------------------------------------------------------
// Token navigation

// next advances to the next token. Error tokens were already reported by
// the lexer and are skipped.
func (p *Parser) next() {
	p.prev = p.tok
	for {
		n := p.diags.Len()
		p.tok = p.src.Next()
		if p.diags.Len() > n {
			p.reported[p.tok.Span.Offset] = true
		}
		if p.tok.Kind != token.Error {
			return
		}
	}
}

// got reports whether the current token is kind.
// If so, it consumes the token and returns true.
func (p *Parser) got(kind token.Kind) bool {
	if p.tok.Kind == kind {
		p.next()
		return true
	}
	return false
}

// want consumes the current token if it is kind. Otherwise it reports
// an error and leaves the token for recovery.
func (p *Parser) want(kind token.Kind) bool {
	if p.got(kind) {
		return true
	}
	p.errorf(diag.Expected, p.tok.Span, expectText(kind), describe(p.tok))
	return false
}

// ----------------------------------------------------------------------------
// Nodes

func (p *Parser) open(n *node) {
	p.nextID++
	n.id = p.nextID
	n.span = p.tok.Span
}

// openAt starts n at the span of an already parsed node.
func (p *Parser) openAt(n *node, from Node) {
	p.nextID++
	n.id = p.nextID
	n.span = from.Span()
}

// close ends n at the last consumed token. A node that consumed nothing
// gets an empty span at its start.
func (p *Parser) close(n *node) {
	if p.prev.Span.EndOffset <= n.span.Offset {
		n.span.End = n.span.Start
		n.span.EndOffset = n.span.Offset
		return
	}
	n.span = token.MakeSpan(n.span, p.prev.Span)
}

// ----------------------------------------------------------------------------
// Error handling

// errorf reports a syntax error and enters panic mode. At most one
// diagnostic is reported per token, and none while already panicking.
func (p *Parser) errorf(t *diag.Template, span token.Span, args ...any) *diag.Diagnostic {
	if p.panicking || p.reported[span.Offset] {
		p.panicking = true
		return nil
	}
	p.panicking = true
	p.reported[span.Offset] = true
	p.diags.Report(t, span, args...)
	return &(*p.diags)[p.diags.Len()-1]
}

// sync ends panic mode. Unless the previous token closed a statement, it
// skips to the next synchronization point: a semicolon (consumed), a
// brace, or a keyword that starts a declaration or statement.
func (p *Parser) sync() {
	if !p.panicking {
		return
	}
	p.panicking = false
	if p.prev.Kind == token.Semicolon || p.prev.Kind == token.RightBrace {
		return
	}
	for {
		switch p.tok.Kind {
		case token.EOF, token.LeftBrace, token.RightBrace,
			token.Func, token.Val, token.Var, token.Struct, token.Enum,
			token.If, token.While, token.For, token.Return, token.Loop:
			return
		case token.Semicolon:
			p.next()
			return
		}
		p.next()
	}
}

func describe(t token.Token) string {
	if t.Kind == token.EOF {
		return "EOF"
	}
	return strconv.Quote(t.Lexeme)
}

func expectText(kind token.Kind) string {
	switch {
	case kind == token.Identifier:
		return "identifier"
	case kind.IsKeyword():
		return kind.Name()
	}
	return strconv.Quote(kind.Text())
}

func isReserved(kind token.Kind) bool {
	switch kind {
	case token.When, token.Unsafe, token.Ref, token.Own, token.Async, token.Await:
		return true
	}
	return false
}

// reserved reports a reserved keyword and consumes it.
func (p *Parser) reserved() {
	p.errorf(diag.ReservedKeyword, p.tok.Span, strconv.Quote(p.tok.Lexeme))
	p.next()
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses a complete file and returns its AST.
func (p *Parser) Parse() *File {
	f := &File{Filename: p.filename}
	p.open(&f.node)

	for p.tok.Kind != token.EOF {
		if p.tok.Kind == token.RightBrace {
			p.errorf(diag.ExpectedStmt, p.tok.Span, describe(p.tok))
			p.next()
			p.panicking = false
			continue
		}
		f.Body = p.stmtInto(f.Body)
	}

	f.span = token.MakeSpan(f.span, p.tok.Span)
	f.MaxID = p.nextID
	return f
}

// stmtInto parses one statement, appends it to list and recovers from any
// error it reported. It always makes progress.
func (p *Parser) stmtInto(list []Stmt) []Stmt {
	start := p.tok.Span.Offset
	if s := p.stmt(); s != nil {
		list = append(list, s)
	}
	p.sync()
	if p.tok.Span.Offset == start && p.tok.Kind != token.EOF && p.tok.Kind != token.RightBrace {
		p.next()
	}
	return list
}

// ----------------------------------------------------------------------------
// Helper methods

// name parses an identifier. On error it returns an empty Name.
func (p *Parser) name() *Name {
	n := &Name{Lang: p.tok.Lang}
	p.open(&n.node)
	if p.tok.Kind != token.Identifier {
		p.errorf(diag.Expected, p.tok.Span, "identifier", describe(p.tok))
		p.close(&n.node)
		return n
	}
	n.Value = p.tok.Lexeme
	p.next()
	p.close(&n.node)
	return n
}

// ----------------------------------------------------------------------------
// Declarations

// funcDecl parses: func Name(Params) (-> Result)? Block
func (p *Parser) funcDecl() *FuncDecl {
	d := &FuncDecl{}
	p.open(&d.node)

	p.want(token.Func)
	d.Name = p.name()

	if p.want(token.LeftParen) {
		for p.tok.Kind != token.RightParen && p.tok.Kind != token.EOF {
			d.Params = append(d.Params, p.param())
			if !p.got(token.Comma) {
				break
			}
		}
		p.want(token.RightParen)
	}

	if p.got(token.Arrow) {
		d.Result = p.typeExpr()
	}

	d.Body = p.blockStmt()
	p.close(&d.node)
	return d
}

// param parses Name: Type
func (p *Parser) param() *Param {
	f := &Param{}
	p.open(&f.node)
	f.Name = p.name()
	p.want(token.Colon)
	f.Type = p.typeExpr()
	p.close(&f.node)
	return f
}

// varDecl parses: val|var Name (: Type)? = Value ;
func (p *Parser) varDecl() *VarDecl {
	d := &VarDecl{Mutable: p.tok.Kind == token.Var}
	p.open(&d.node)
	p.next() // val or var

	d.Name = p.name()
	if p.got(token.Colon) {
		d.Type = p.typeExpr()
	}
	if p.want(token.Assign) {
		d.Value = p.expr()
	} else {
		d.Value = p.badExpr()
	}
	p.want(token.Semicolon)

	p.close(&d.node)
	return d
}

// structDecl parses: struct Name { (Field (, Field)* ,?)? }
func (p *Parser) structDecl() *StructDecl {
	d := &StructDecl{}
	p.open(&d.node)

	p.want(token.Struct)
	d.Name = p.name()

	if p.want(token.LeftBrace) {
		for p.tok.Kind != token.RightBrace && p.tok.Kind != token.EOF {
			f := &Field{}
			p.open(&f.node)
			f.Name = p.name()
			p.want(token.Colon)
			f.Type = p.typeExpr()
			p.close(&f.node)
			d.Fields = append(d.Fields, f)
			if !p.got(token.Comma) {
				break
			}
		}
		p.want(token.RightBrace)
	}

	p.close(&d.node)
	return d
}

// enumDecl parses: enum Name { (Variant (, Variant)* ,?)? }
func (p *Parser) enumDecl() *EnumDecl {
	d := &EnumDecl{}
	p.open(&d.node)

	p.want(token.Enum)
	d.Name = p.name()

	if p.want(token.LeftBrace) {
		for p.tok.Kind != token.RightBrace && p.tok.Kind != token.EOF {
			d.Variants = append(d.Variants, p.name())
			if !p.got(token.Comma) {
				break
			}
		}
		p.want(token.RightBrace)
	}

	p.close(&d.node)
	return d
}

// ----------------------------------------------------------------------------
// Types

// typeExpr parses a type followed by any number of ? suffixes.
func (p *Parser) typeExpr() TypeExpr {
	t := p.typeAtom()
	for p.tok.Kind == token.Question {
		o := &OptionalType{Elem: t}
		p.openAt(&o.node, t)
		p.next()
		p.close(&o.node)
		t = o
	}
	return t
}

func (p *Parser) typeAtom() TypeExpr {
	switch p.tok.Kind {
	case token.Identifier:
		t := &NamedType{}
		p.open(&t.node)
		t.Name = p.name()
		p.close(&t.node)
		return t

	case token.LeftBracket: // [Elem]
		t := &ArrayType{}
		p.open(&t.node)
		p.next()
		t.Elem = p.typeExpr()
		p.want(token.RightBracket)
		p.close(&t.node)
		return t

	case token.LeftParen: // (Params) -> Result
		t := &FuncType{}
		p.open(&t.node)
		p.next()
		for p.tok.Kind != token.RightParen && p.tok.Kind != token.EOF {
			t.Params = append(t.Params, p.typeExpr())
			if !p.got(token.Comma) {
				break
			}
		}
		p.want(token.RightParen)
		p.want(token.Arrow)
		t.Result = p.typeExpr()
		p.close(&t.node)
		return t

	default:
		p.errorf(diag.ExpectedType, p.tok.Span, describe(p.tok))
		t := &NamedType{}
		p.open(&t.node)
		t.Name = &Name{Lang: p.tok.Lang}
		p.open(&t.Name.node)
		p.close(&t.Name.node)
		p.close(&t.node)
		return t
	}
}

// ----------------------------------------------------------------------------
// Statements

// stmt parses a statement or declaration. It returns nil for an empty
// statement.
func (p *Parser) stmt() Stmt {
	switch k := p.tok.Kind; {
	case k == token.Func:
		return p.funcDecl()
	case k == token.Val || k == token.Var:
		return p.varDecl()
	case k == token.Struct:
		return p.structDecl()
	case k == token.Enum:
		return p.enumDecl()

	case k == token.LeftBrace:
		return p.blockStmt()
	case k == token.If:
		return p.ifStmt()
	case k == token.While:
		return p.whileStmt()
	case k == token.For:
		return p.forStmt()
	case k == token.Loop:
		return p.loopStmt()
	case k == token.Return:
		return p.returnStmt()
	case k == token.Break || k == token.Continue:
		return p.branchStmt()

	case k == token.Semicolon:
		p.next()
		return nil

	case isReserved(k):
		s := &BadStmt{}
		p.open(&s.node)
		p.reserved()
		p.close(&s.node)
		return s

	case !startsExpr(k):
		s := &BadStmt{}
		p.open(&s.node)
		p.errorf(diag.ExpectedStmt, p.tok.Span, describe(p.tok))
		p.close(&s.node)
		return s
	}

	s := &ExprStmt{}
	p.open(&s.node)
	s.X = p.expr()
	p.want(token.Semicolon)
	p.close(&s.node)
	return s
}

func startsExpr(k token.Kind) bool {
	switch k {
	case token.Identifier, token.IntLiteral, token.FloatLiteral, token.StringLiteral,
		token.True, token.False, token.Null, token.Println,
		token.LeftParen, token.LeftBracket, token.Minus, token.Not, token.If:
		return true
	}
	return false
}

// blockStmt parses { Stmts }
func (p *Parser) blockStmt() *BlockStmt {
	b := &BlockStmt{}
	p.open(&b.node)

	lbrace := p.tok.Span
	if !p.want(token.LeftBrace) {
		p.close(&b.node)
		return b
	}

	old := p.noLit
	p.noLit = false
	for p.tok.Kind != token.RightBrace && p.tok.Kind != token.EOF {
		b.Stmts = p.stmtInto(b.Stmts)
	}
	p.noLit = old

	if !p.got(token.RightBrace) {
		if d := p.errorf(diag.Expected, p.tok.Span, `"}"`, describe(p.tok)); d != nil {
			*d = d.WithRelated(lbrace, diag.NoteOpenedHere, `"{"`)
		}
	}
	p.close(&b.node)
	return b
}

// header parses the condition or iterable of a control statement, where
// a brace always opens the body.
func (p *Parser) header() Expr {
	old := p.noLit
	p.noLit = true
	x := p.expr()
	p.noLit = old
	return x
}

// ifStmt parses: if Cond Block (else (IfStmt | Block))?
func (p *Parser) ifStmt() *IfStmt {
	s := &IfStmt{}
	p.open(&s.node)

	p.want(token.If)
	s.Cond = p.header()
	s.Then = p.blockStmt()

	if p.got(token.Else) {
		if p.tok.Kind == token.If {
			s.Else = p.ifStmt()
		} else {
			s.Else = p.blockStmt()
		}
	}

	p.close(&s.node)
	return s
}

// whileStmt parses: while Cond Block
func (p *Parser) whileStmt() *WhileStmt {
	s := &WhileStmt{}
	p.open(&s.node)

	p.want(token.While)
	s.Cond = p.header()
	s.Body = p.blockStmt()

	p.close(&s.node)
	return s
}

// forStmt parses: for Name in Iter Block
func (p *Parser) forStmt() *ForStmt {
	s := &ForStmt{}
	p.open(&s.node)

	p.want(token.For)
	s.Var = p.name()
	p.want(token.In)
	s.Iter = p.header()
	s.Body = p.blockStmt()

	p.close(&s.node)
	return s
}

// loopStmt parses: loop Block
func (p *Parser) loopStmt() *LoopStmt {
	s := &LoopStmt{}
	p.open(&s.node)
	p.want(token.Loop)
	s.Body = p.blockStmt()
	p.close(&s.node)
	return s
}

// returnStmt parses: return Result? ;
func (p *Parser) returnStmt() *ReturnStmt {
	s := &ReturnStmt{}
	p.open(&s.node)

	p.want(token.Return)
	if p.tok.Kind != token.Semicolon && p.tok.Kind != token.RightBrace && p.tok.Kind != token.EOF {
		s.Result = p.expr()
	}
	p.want(token.Semicolon)

	p.close(&s.node)
	return s
}

// branchStmt parses: break ; or continue ;
func (p *Parser) branchStmt() *BranchStmt {
	s := &BranchStmt{Tok: p.tok.Kind}
	p.open(&s.node)
	p.next()
	p.want(token.Semicolon)
	p.close(&s.node)
	return s
}

// ----------------------------------------------------------------------------
// Expressions

// expr parses an expression.
func (p *Parser) expr() Expr {
	return p.binaryExpr(0)
}

// exprNoRestriction parses an expression with struct literals enabled.
func (p *Parser) exprNoRestriction() Expr {
	old := p.noLit
	p.noLit = false
	x := p.expr()
	p.noLit = old
	return x
}

// binaryExpr parses a binary expression whose operators bind tighter
// than prec (precedence climbing). Binary operators are left-associative;
// assignment is right-associative.
func (p *Parser) binaryExpr(prec int) Expr {
	x := p.unaryExpr()

	for {
		op := p.tok.Kind
		oprec := op.Precedence()
		if oprec <= prec {
			return x
		}

		if op == token.Assign {
			a := &AssignExpr{Target: x}
			p.openAt(&a.node, x)
			p.next()
			a.Value = p.binaryExpr(oprec - 1)
			p.close(&a.node)
			x = a
			continue
		}

		b := &BinaryExpr{Op: op, OpAt: p.tok.Span, X: x}
		p.openAt(&b.node, x)
		p.next()
		b.Y = p.binaryExpr(oprec)
		p.close(&b.node)
		x = b
	}
}

// unaryExpr parses: (- | !) UnaryExpr | PrimaryExpr
func (p *Parser) unaryExpr() Expr {
	switch p.tok.Kind {
	case token.Minus, token.Not:
		u := &UnaryExpr{Op: p.tok.Kind}
		p.open(&u.node)
		p.next()
		u.X = p.unaryExpr()
		p.close(&u.node)
		return u
	}
	return p.primaryExpr()
}

// primaryExpr parses an operand followed by calls, indexing and field
// selection.
func (p *Parser) primaryExpr() Expr {
	x := p.operand()

	for {
		switch p.tok.Kind {
		case token.LeftParen:
			call := &CallExpr{Fun: x}
			p.openAt(&call.node, x)
			p.next()
			call.Args = p.exprList(token.RightParen)
			p.want(token.RightParen)
			p.close(&call.node)
			x = call

		case token.LeftBracket:
			idx := &IndexExpr{X: x}
			p.openAt(&idx.node, x)
			p.next()
			idx.Index = p.exprNoRestriction()
			p.want(token.RightBracket)
			p.close(&idx.node)
			x = idx

		case token.Dot:
			sel := &SelectorExpr{X: x}
			p.openAt(&sel.node, x)
			p.next()
			sel.Sel = p.name()
			p.close(&sel.node)
			x = sel

		default:
			return x
		}
	}
}

// operand parses a literal, name, struct literal, array literal,
// parenthesized expression or if expression.
func (p *Parser) operand() Expr {
	switch k := p.tok.Kind; k {
	case token.Identifier:
		n := p.name()
		if p.tok.Kind == token.LeftBrace && !p.noLit {
			return p.structLit(n)
		}
		return n

	case token.Println:
		n := &Name{Value: p.tok.Lexeme, Lang: p.tok.Lang, Builtin: k}
		p.open(&n.node)
		p.next()
		p.close(&n.node)
		return n

	case token.IntLiteral, token.FloatLiteral, token.StringLiteral:
		lit := &BasicLit{Kind: k, Raw: p.tok.Lexeme, Value: p.tok.Lexeme, Lang: token.Neutral}
		if k == token.StringLiteral {
			lit.Value = Unquote(p.tok.Lexeme)
		}
		p.open(&lit.node)
		p.next()
		p.close(&lit.node)
		return lit

	case token.True, token.False, token.Null:
		lit := &BasicLit{Kind: k, Raw: p.tok.Lexeme, Value: p.tok.Lexeme, Lang: p.tok.Lang}
		p.open(&lit.node)
		p.next()
		p.close(&lit.node)
		return lit

	case token.LeftParen:
		x := &ParenExpr{}
		p.open(&x.node)
		p.next()
		x.X = p.exprNoRestriction()
		p.want(token.RightParen)
		p.close(&x.node)
		return x

	case token.LeftBracket:
		a := &ArrayLit{}
		p.open(&a.node)
		p.next()
		a.Elems = p.exprList(token.RightBracket)
		p.want(token.RightBracket)
		p.close(&a.node)
		return a

	case token.If:
		return p.ifExpr()
	}

	x := p.badExpr()
	if isReserved(p.tok.Kind) {
		p.reserved()
		p.close(&x.node)
		return x
	}
	p.errorf(diag.ExpectedExpr, p.tok.Span, describe(p.tok))
	return x
}

func (p *Parser) badExpr() *BadExpr {
	x := &BadExpr{}
	p.open(&x.node)
	p.close(&x.node)
	return x
}

// structLit parses the braced part of Type { Name: Value, ... }
func (p *Parser) structLit(typ *Name) *StructLit {
	lit := &StructLit{Type: typ}
	p.openAt(&lit.node, typ)

	p.want(token.LeftBrace)
	for p.tok.Kind != token.RightBrace && p.tok.Kind != token.EOF {
		f := &FieldInit{}
		p.open(&f.node)
		f.Name = p.name()
		p.want(token.Colon)
		f.Value = p.exprNoRestriction()
		p.close(&f.node)
		lit.Fields = append(lit.Fields, f)
		if !p.got(token.Comma) {
			break
		}
	}
	p.want(token.RightBrace)

	p.close(&lit.node)
	return lit
}

// ifExpr parses: if Cond { Expr } else ({ Expr } | IfExpr)
func (p *Parser) ifExpr() *IfExpr {
	x := &IfExpr{}
	p.open(&x.node)

	p.want(token.If)
	x.Cond = p.header()
	x.Then = p.branch()

	if p.got(token.Else) {
		if p.tok.Kind == token.If {
			x.Else = p.ifExpr()
		} else {
			x.Else = p.branch()
		}
	} else {
		p.errorf(diag.IfExprNeedsElse, p.tok.Span)
		x.Else = p.badExpr()
	}

	p.close(&x.node)
	return x
}

// branch parses { Expr } of an if expression.
func (p *Parser) branch() Expr {
	if !p.want(token.LeftBrace) {
		return p.badExpr()
	}
	x := p.exprNoRestriction()
	p.got(token.Semicolon)
	p.want(token.RightBrace)
	return x
}

// exprList parses a comma-separated list of expressions up to end,
// allowing a trailing comma.
func (p *Parser) exprList(end token.Kind) []Expr {
	var list []Expr
	for p.tok.Kind != end && p.tok.Kind != token.EOF {
		list = append(list, p.exprNoRestriction())
		if !p.got(token.Comma) {
			break
		}
	}
	return list
}
