package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of the AST to w. Every object
// carries its node type, id and span.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(toJSON(node))
}

type object map[string]any

func obj(typ string, n Node, kv ...any) object {
	m := object{
		"type": typ,
		"id":   n.ID(),
		"span": spanJSON(n),
	}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}
	return m
}

func spanJSON(n Node) object {
	s := n.Span()
	return object{
		"start": s.Start.String(),
		"end":   s.End.String(),
	}
}

func listJSON[N Node](list []N) []any {
	out := make([]any, len(list))
	for i, n := range list {
		out[i] = toJSON(n)
	}
	return out
}

func toJSON(node Node) any {
	if isNil(node) {
		return nil
	}

	switch n := node.(type) {
	case *File:
		return obj("File", n, "filename", n.Filename, "lang", n.Lang, "body", listJSON(n.Body))

	case *FuncDecl:
		return obj("FuncDecl", n,
			"name", n.Name.Value,
			"params", listJSON(n.Params),
			"result", toJSON(n.Result),
			"body", toJSON(n.Body))

	case *Param:
		return obj("Param", n, "name", n.Name.Value, "paramtype", toJSON(n.Type))

	case *VarDecl:
		return obj("VarDecl", n,
			"mutable", n.Mutable,
			"name", n.Name.Value,
			"vartype", toJSON(n.Type),
			"value", toJSON(n.Value))

	case *StructDecl:
		return obj("StructDecl", n, "name", n.Name.Value, "fields", listJSON(n.Fields))

	case *Field:
		return obj("Field", n, "name", n.Name.Value, "fieldtype", toJSON(n.Type))

	case *EnumDecl:
		variants := make([]string, len(n.Variants))
		for i, v := range n.Variants {
			variants[i] = v.Value
		}
		return obj("EnumDecl", n, "name", n.Name.Value, "variants", variants)

	case *ExprStmt:
		return obj("ExprStmt", n, "x", toJSON(n.X))

	case *BlockStmt:
		return obj("BlockStmt", n, "stmts", listJSON(n.Stmts))

	case *ReturnStmt:
		return obj("ReturnStmt", n, "result", toJSON(n.Result))

	case *IfStmt:
		return obj("IfStmt", n, "cond", toJSON(n.Cond), "then", toJSON(n.Then), "else", toJSON(n.Else))

	case *WhileStmt:
		return obj("WhileStmt", n, "cond", toJSON(n.Cond), "body", toJSON(n.Body))

	case *ForStmt:
		return obj("ForStmt", n, "var", n.Var.Value, "iter", toJSON(n.Iter), "body", toJSON(n.Body))

	case *LoopStmt:
		return obj("LoopStmt", n, "body", toJSON(n.Body))

	case *BranchStmt:
		return obj("BranchStmt", n, "tok", n.Tok.String())

	case *BadStmt:
		return obj("BadStmt", n)

	case *Name:
		m := obj("Name", n, "value", n.Value, "lang", n.Lang)
		if n.Builtin != 0 {
			m["builtin"] = n.Builtin.String()
		}
		return m

	case *BasicLit:
		return obj("BasicLit", n, "kind", n.Kind.String(), "raw", n.Raw, "value", n.Value)

	case *BinaryExpr:
		return obj("BinaryExpr", n, "op", n.Op.Text(), "x", toJSON(n.X), "y", toJSON(n.Y))

	case *UnaryExpr:
		return obj("UnaryExpr", n, "op", n.Op.Text(), "x", toJSON(n.X))

	case *AssignExpr:
		return obj("AssignExpr", n, "target", toJSON(n.Target), "value", toJSON(n.Value))

	case *CallExpr:
		return obj("CallExpr", n, "fun", toJSON(n.Fun), "args", listJSON(n.Args))

	case *SelectorExpr:
		return obj("SelectorExpr", n, "x", toJSON(n.X), "sel", n.Sel.Value)

	case *IndexExpr:
		return obj("IndexExpr", n, "x", toJSON(n.X), "index", toJSON(n.Index))

	case *StructLit:
		return obj("StructLit", n, "structtype", n.Type.Value, "fields", listJSON(n.Fields))

	case *FieldInit:
		return obj("FieldInit", n, "name", n.Name.Value, "value", toJSON(n.Value))

	case *ArrayLit:
		return obj("ArrayLit", n, "elems", listJSON(n.Elems))

	case *ParenExpr:
		return obj("ParenExpr", n, "x", toJSON(n.X))

	case *IfExpr:
		return obj("IfExpr", n, "cond", toJSON(n.Cond), "then", toJSON(n.Then), "else", toJSON(n.Else))

	case *BadExpr:
		return obj("BadExpr", n)

	case *NamedType:
		return obj("NamedType", n, "name", n.Name.Value)

	case *ArrayType:
		return obj("ArrayType", n, "elem", toJSON(n.Elem))

	case *OptionalType:
		return obj("OptionalType", n, "elem", toJSON(n.Elem))

	case *FuncType:
		return obj("FuncType", n, "params", listJSON(n.Params), "result", toJSON(n.Result))

	default:
		return obj("Unknown", n)
	}
}
