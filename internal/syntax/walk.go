package syntax

import "reflect"

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first source order.
// If visitor returns false, children are not visited. Nil children are
// skipped.
func Walk(node Node, v Visitor) {
	if isNil(node) || !v(node) {
		return
	}

	switch n := node.(type) {
	case *File:
		walkList(n.Body, v)

	case *FuncDecl:
		Walk(n.Name, v)
		for _, p := range n.Params {
			Walk(p, v)
		}
		Walk(n.Result, v)
		Walk(n.Body, v)

	case *Param:
		Walk(n.Name, v)
		Walk(n.Type, v)

	case *VarDecl:
		Walk(n.Name, v)
		Walk(n.Type, v)
		Walk(n.Value, v)

	case *StructDecl:
		Walk(n.Name, v)
		for _, f := range n.Fields {
			Walk(f, v)
		}

	case *Field:
		Walk(n.Name, v)
		Walk(n.Type, v)

	case *EnumDecl:
		Walk(n.Name, v)
		walkList(n.Variants, v)

	case *ExprStmt:
		Walk(n.X, v)

	case *BlockStmt:
		walkList(n.Stmts, v)

	case *ReturnStmt:
		Walk(n.Result, v)

	case *IfStmt:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		Walk(n.Else, v)

	case *WhileStmt:
		Walk(n.Cond, v)
		Walk(n.Body, v)

	case *ForStmt:
		Walk(n.Var, v)
		Walk(n.Iter, v)
		Walk(n.Body, v)

	case *LoopStmt:
		Walk(n.Body, v)

	case *BinaryExpr:
		Walk(n.X, v)
		Walk(n.Y, v)

	case *UnaryExpr:
		Walk(n.X, v)

	case *AssignExpr:
		Walk(n.Target, v)
		Walk(n.Value, v)

	case *CallExpr:
		Walk(n.Fun, v)
		walkList(n.Args, v)

	case *SelectorExpr:
		Walk(n.X, v)
		Walk(n.Sel, v)

	case *IndexExpr:
		Walk(n.X, v)
		Walk(n.Index, v)

	case *StructLit:
		Walk(n.Type, v)
		for _, f := range n.Fields {
			Walk(f, v)
		}

	case *FieldInit:
		Walk(n.Name, v)
		Walk(n.Value, v)

	case *ArrayLit:
		walkList(n.Elems, v)

	case *ParenExpr:
		Walk(n.X, v)

	case *IfExpr:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		Walk(n.Else, v)

	case *NamedType:
		Walk(n.Name, v)

	case *ArrayType:
		Walk(n.Elem, v)

	case *OptionalType:
		Walk(n.Elem, v)

	case *FuncType:
		walkList(n.Params, v)
		Walk(n.Result, v)

		// Leaf nodes: Name, BasicLit, BranchStmt, BadStmt, BadExpr
	}
}

func walkList[N Node](list []N, v Visitor) {
	for _, n := range list {
		Walk(n, v)
	}
}

// isNil reports whether n is nil or a typed nil pointer, such as an
// unset *BlockStmt in a hand-built tree.
func isNil(n Node) bool {
	return n == nil || reflect.ValueOf(n).IsNil()
}

// Inspect traverses an AST and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}
