// Package syntax implements lexical and syntactic analysis for the Seen
// programming language.
package syntax

import "github.com/seen-lang/seen/internal/token"

// NodeID identifies a node within one File. IDs are assigned by the parser
// in creation order, starting at 1; the zero ID is never used.
type NodeID int32

// ----------------------------------------------------------------------------
// Interfaces
//
// The node classes are Declarations, Statements, Expressions and Type
// expressions. Declarations are statements too, so a block holds both.

// Node is the interface implemented by all AST nodes.
type Node interface {
	ID() NodeID
	Span() token.Span
	aNode()
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// Decl is the interface for all declaration nodes.
type Decl interface {
	Stmt
	aDecl()
}

// TypeExpr is the interface for type expression nodes.
type TypeExpr interface {
	Node
	aType()
}

// ----------------------------------------------------------------------------
// Base node types

type node struct {
	id   NodeID
	span token.Span
}

func (n *node) ID() NodeID       { return n.id }
func (n *node) Span() token.Span { return n.span }
func (*node) aNode()             {}

type expr struct{ node }

func (*expr) aExpr() {}

type stmt struct{ node }

func (*stmt) aStmt() {}

type decl struct{ stmt }

func (*decl) aDecl() {}

type typ struct{ node }

func (*typ) aType() {}

// ----------------------------------------------------------------------------
// Files and Declarations

// File is a parsed compilation unit.
type File struct {
	node
	Filename string
	Lang     string // active keyword language
	Body     []Stmt // top-level declarations and statements, in source order
	MaxID    NodeID // largest node id in the file
}

// FuncDecl: func Name(Params) -> Result Body
type FuncDecl struct {
	decl
	Name   *Name
	Params []*Param
	Result TypeExpr // nil for Void
	Body   *BlockStmt
}

// Param is a function parameter: Name: Type
type Param struct {
	node
	Name *Name
	Type TypeExpr
}

// VarDecl: val|var Name (: Type)? = Value ;
type VarDecl struct {
	decl
	Mutable bool // declared with var
	Name    *Name
	Type    TypeExpr // nil if inferred
	Value   Expr
}

// StructDecl: struct Name { Fields }
type StructDecl struct {
	decl
	Name   *Name
	Fields []*Field
}

// Field is a struct field declaration: Name: Type
type Field struct {
	node
	Name *Name
	Type TypeExpr
}

// EnumDecl: enum Name { Variants }
type EnumDecl struct {
	decl
	Name     *Name
	Variants []*Name
}

// ----------------------------------------------------------------------------
// Statements

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	stmt
	X Expr
}

// BlockStmt: { Stmts }
type BlockStmt struct {
	stmt
	Stmts []Stmt
}

// ReturnStmt: return Result? ;
type ReturnStmt struct {
	stmt
	Result Expr // nil for a bare return
}

// IfStmt: if Cond Then (else Else)?
type IfStmt struct {
	stmt
	Cond Expr
	Then *BlockStmt
	Else Stmt // nil, *IfStmt or *BlockStmt
}

// WhileStmt: while Cond Body
type WhileStmt struct {
	stmt
	Cond Expr
	Body *BlockStmt
}

// ForStmt: for Var in Iter Body
type ForStmt struct {
	stmt
	Var  *Name
	Iter Expr
	Body *BlockStmt
}

// LoopStmt: loop Body
type LoopStmt struct {
	stmt
	Body *BlockStmt
}

// BranchStmt is a break or continue statement.
type BranchStmt struct {
	stmt
	Tok token.Kind // token.Break or token.Continue
}

// BadStmt stands in for a statement that could not be parsed.
type BadStmt struct {
	stmt
}

// ----------------------------------------------------------------------------
// Expressions

// Name is an identifier, spelled exactly as in the source.
type Name struct {
	expr
	Value   string
	Lang    string
	Builtin token.Kind // token.Println for the builtin, 0 otherwise
}

// BasicLit is a literal. Kind is one of token.IntLiteral,
// token.FloatLiteral, token.StringLiteral, token.True, token.False or
// token.Null.
type BasicLit struct {
	expr
	Kind  token.Kind
	Raw   string // lexeme as written
	Value string // decoded value for strings, Raw otherwise
	Lang  string // keyword language for true/false/null
}

// BinaryExpr: X Op Y
type BinaryExpr struct {
	expr
	Op   token.Kind
	OpAt token.Span
	X, Y Expr
}

// UnaryExpr: Op X
type UnaryExpr struct {
	expr
	Op token.Kind // token.Minus or token.Not
	X  Expr
}

// AssignExpr: Target = Value (right-associative)
type AssignExpr struct {
	expr
	Target Expr
	Value  Expr
}

// CallExpr: Fun(Args)
type CallExpr struct {
	expr
	Fun  Expr
	Args []Expr
}

// SelectorExpr: X.Sel (field access or enum variant)
type SelectorExpr struct {
	expr
	X   Expr
	Sel *Name
}

// IndexExpr: X[Index]
type IndexExpr struct {
	expr
	X     Expr
	Index Expr
}

// StructLit: Type { Name: Value, ... }
type StructLit struct {
	expr
	Type   *Name
	Fields []*FieldInit
}

// FieldInit is one Name: Value entry of a struct literal.
type FieldInit struct {
	node
	Name  *Name
	Value Expr
}

// ArrayLit: [Elems]
type ArrayLit struct {
	expr
	Elems []Expr
}

// ParenExpr: (X)
type ParenExpr struct {
	expr
	X Expr
}

// IfExpr is an if used as a value: if Cond { Then } else { Else }.
// Each branch holds exactly one expression; Else may be another *IfExpr.
type IfExpr struct {
	expr
	Cond Expr
	Then Expr
	Else Expr
}

// BadExpr stands in for an expression that could not be parsed.
type BadExpr struct {
	expr
}

// ----------------------------------------------------------------------------
// Type expressions

// NamedType is a type referenced by name: Int, Point.
type NamedType struct {
	typ
	Name *Name
}

// ArrayType: [Elem]
type ArrayType struct {
	typ
	Elem TypeExpr
}

// OptionalType: Elem?
type OptionalType struct {
	typ
	Elem TypeExpr
}

// FuncType: (Params) -> Result
type FuncType struct {
	typ
	Params []TypeExpr
	Result TypeExpr
}

// Unparen strips any enclosing parentheses from x.
func Unparen(x Expr) Expr {
	for {
		p, ok := x.(*ParenExpr)
		if !ok {
			return x
		}
		x = p.X
	}
}
