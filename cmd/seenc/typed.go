package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/seen-lang/seen/internal/syntax"
	"github.com/seen-lang/seen/internal/token"
	"github.com/seen-lang/seen/internal/types2"
)

// printTypedAST outputs the AST with type annotations, one node per line
// indented by depth.
func printTypedAST(w io.Writer, file *syntax.File, info *types2.Info) {
	var stack []token.Span
	syntax.Inspect(file, func(n syntax.Node) bool {
		span := n.Span()
		for len(stack) > 0 && !stack[len(stack)-1].Contains(span) {
			stack = stack[:len(stack)-1]
		}
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", len(stack)), typedNodeString(n, info))
		stack = append(stack, span)
		return true
	})
}

func typedNodeString(n syntax.Node, info *types2.Info) string {
	kind := strings.TrimPrefix(fmt.Sprintf("%T", n), "*syntax.")
	switch n := n.(type) {
	case *syntax.File:
		return fmt.Sprintf("File %s (lang %s)", n.Filename, n.Lang)
	case *syntax.Name:
		if sym := info.Defs[n.ID()]; sym != nil {
			return fmt.Sprintf("Name %q def %s (%s)", n.Value, sym.Kind, sym.Type)
		}
		if sym := info.Uses[n.ID()]; sym != nil {
			s := fmt.Sprintf("Name %q (%s) use %s", n.Value, sym.Type, sym.Kind)
			if sym.Decl.IsValid() {
				s += " declared at " + sym.Decl.Start.String()
			}
			return s
		}
		if t := info.Types[n.ID()]; t != nil {
			return fmt.Sprintf("Name %q (%s)", n.Value, t)
		}
		return fmt.Sprintf("Name %q", n.Value)
	case syntax.Expr:
		if t := info.Types[n.ID()]; t != nil {
			return fmt.Sprintf("%s (%s) %s", kind, t, syntax.ExprString(n))
		}
		return fmt.Sprintf("%s %s", kind, syntax.ExprString(n))
	case syntax.TypeExpr:
		return fmt.Sprintf("%s %s", kind, syntax.TypeString(n))
	}
	return kind
}
