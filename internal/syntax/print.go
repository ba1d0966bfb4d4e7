package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes an indented textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

// Sprint returns the Fprint rendering of node.
func Sprint(node Node) string {
	var b strings.Builder
	Fprint(&b, node)
	return b.String()
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// child prints a labelled child one level deeper. Nil children are
// omitted.
func (p *printer) child(label string, n Node) {
	if isNil(n) {
		return
	}
	p.printf("%s:\n", label)
	p.indent++
	p.print(n)
	p.indent--
}

func (p *printer) print(node Node) {
	if isNil(node) {
		return
	}
	pos := node.Span().Start

	switch n := node.(type) {
	case *File:
		p.printf("File %s %s\n", n.Filename, n.Lang)
		p.indent++
		for _, s := range n.Body {
			p.print(s)
		}
		p.indent--

	case *FuncDecl:
		p.printf("FuncDecl %s %s\n", pos, n.Name.Value)
		p.indent++
		for _, prm := range n.Params {
			p.printf("Param %s: %s\n", prm.Name.Value, TypeString(prm.Type))
		}
		if n.Result != nil {
			p.printf("Result: %s\n", TypeString(n.Result))
		}
		p.child("Body", n.Body)
		p.indent--

	case *VarDecl:
		kw := "val"
		if n.Mutable {
			kw = "var"
		}
		p.printf("VarDecl %s %s %s\n", pos, kw, n.Name.Value)
		p.indent++
		if n.Type != nil {
			p.printf("Type: %s\n", TypeString(n.Type))
		}
		p.child("Value", n.Value)
		p.indent--

	case *StructDecl:
		p.printf("StructDecl %s %s\n", pos, n.Name.Value)
		p.indent++
		for _, f := range n.Fields {
			p.printf("Field %s: %s\n", f.Name.Value, TypeString(f.Type))
		}
		p.indent--

	case *EnumDecl:
		p.printf("EnumDecl %s %s\n", pos, n.Name.Value)
		p.indent++
		for _, v := range n.Variants {
			p.printf("Variant %s\n", v.Value)
		}
		p.indent--

	case *ExprStmt:
		p.printf("ExprStmt %s\n", pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *BlockStmt:
		p.printf("BlockStmt %s\n", pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *ReturnStmt:
		p.printf("ReturnStmt %s\n", pos)
		p.indent++
		p.print(n.Result)
		p.indent--

	case *IfStmt:
		p.printf("IfStmt %s\n", pos)
		p.indent++
		p.child("Cond", n.Cond)
		p.child("Then", n.Then)
		p.child("Else", n.Else)
		p.indent--

	case *WhileStmt:
		p.printf("WhileStmt %s\n", pos)
		p.indent++
		p.child("Cond", n.Cond)
		p.child("Body", n.Body)
		p.indent--

	case *ForStmt:
		p.printf("ForStmt %s %s\n", pos, n.Var.Value)
		p.indent++
		p.child("Iter", n.Iter)
		p.child("Body", n.Body)
		p.indent--

	case *LoopStmt:
		p.printf("LoopStmt %s\n", pos)
		p.indent++
		p.child("Body", n.Body)
		p.indent--

	case *BranchStmt:
		p.printf("BranchStmt %s %s\n", pos, n.Tok)

	case *BadStmt:
		p.printf("BadStmt %s\n", pos)

	case *Name:
		p.printf("Name %s %q\n", pos, n.Value)

	case *BasicLit:
		p.printf("BasicLit %s %s %s\n", pos, n.Kind, n.Raw)

	case *BinaryExpr:
		p.printf("BinaryExpr %s %s\n", pos, n.Op.Text())
		p.indent++
		p.print(n.X)
		p.print(n.Y)
		p.indent--

	case *UnaryExpr:
		p.printf("UnaryExpr %s %s\n", pos, n.Op.Text())
		p.indent++
		p.print(n.X)
		p.indent--

	case *AssignExpr:
		p.printf("AssignExpr %s\n", pos)
		p.indent++
		p.print(n.Target)
		p.print(n.Value)
		p.indent--

	case *CallExpr:
		p.printf("CallExpr %s\n", pos)
		p.indent++
		p.child("Fun", n.Fun)
		for _, a := range n.Args {
			p.child("Arg", a)
		}
		p.indent--

	case *SelectorExpr:
		p.printf("SelectorExpr %s .%s\n", pos, n.Sel.Value)
		p.indent++
		p.print(n.X)
		p.indent--

	case *IndexExpr:
		p.printf("IndexExpr %s\n", pos)
		p.indent++
		p.child("X", n.X)
		p.child("Index", n.Index)
		p.indent--

	case *StructLit:
		p.printf("StructLit %s %s\n", pos, n.Type.Value)
		p.indent++
		for _, f := range n.Fields {
			p.child(f.Name.Value, f.Value)
		}
		p.indent--

	case *ArrayLit:
		p.printf("ArrayLit %s\n", pos)
		p.indent++
		for _, e := range n.Elems {
			p.print(e)
		}
		p.indent--

	case *ParenExpr:
		p.printf("ParenExpr %s\n", pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *IfExpr:
		p.printf("IfExpr %s\n", pos)
		p.indent++
		p.child("Cond", n.Cond)
		p.child("Then", n.Then)
		p.child("Else", n.Else)
		p.indent--

	case *BadExpr:
		p.printf("BadExpr %s\n", pos)

	case TypeExpr:
		p.printf("Type %s %s\n", pos, TypeString(n))

	default:
		p.printf("<%T>\n", node)
	}
}

// TypeString renders a type expression in source form.
func TypeString(t TypeExpr) string {
	if isNil(t) {
		return "<nil>"
	}
	switch t := t.(type) {
	case *NamedType:
		return t.Name.Value
	case *ArrayType:
		return "[" + TypeString(t.Elem) + "]"
	case *OptionalType:
		return TypeString(t.Elem) + "?"
	case *FuncType:
		params := make([]string, len(t.Params))
		for i, prm := range t.Params {
			params[i] = TypeString(prm)
		}
		return "(" + strings.Join(params, ", ") + ") -> " + TypeString(t.Result)
	default:
		return fmt.Sprintf("<%T>", t)
	}
}

// ExprString renders a short source form of an expression for use in
// messages. Large subexpressions are elided.
func ExprString(x Expr) string {
	if isNil(x) {
		return "<nil>"
	}
	switch x := x.(type) {
	case *Name:
		return x.Value
	case *BasicLit:
		return x.Raw
	case *SelectorExpr:
		return ExprString(x.X) + "." + x.Sel.Value
	case *IndexExpr:
		return ExprString(x.X) + "[" + ExprString(x.Index) + "]"
	case *CallExpr:
		return ExprString(x.Fun) + "(...)"
	case *ParenExpr:
		return "(" + ExprString(x.X) + ")"
	case *UnaryExpr:
		return x.Op.Text() + ExprString(x.X)
	case *BinaryExpr:
		return ExprString(x.X) + " " + x.Op.Text() + " " + ExprString(x.Y)
	case *StructLit:
		return x.Type.Value + "{...}"
	case *ArrayLit:
		return "[...]"
	case *IfExpr:
		return "if ..."
	case *AssignExpr:
		return ExprString(x.Target) + " = " + ExprString(x.Value)
	default:
		return "_"
	}
}
