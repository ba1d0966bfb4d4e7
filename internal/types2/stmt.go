package types2

import (
	"github.com/seen-lang/seen/internal/diag"
	"github.com/seen-lang/seen/internal/syntax"
	"github.com/seen-lang/seen/internal/token"
	"github.com/seen-lang/seen/internal/types"
)

// block checks the statements of a block in the current scope. Struct
// and enum declarations in the block are visible throughout it.
func (c *Checker) block(list []syntax.Stmt) {
	c.collectDecls(list)
	c.resolveDecls(list)
	c.stmts(list)
}

// stmts checks a list of statements. The first statement following one
// that never completes normally is reported as unreachable.
func (c *Checker) stmts(list []syntax.Stmt) {
	dead, reported := false, false
	for _, s := range list {
		if dead && !reported {
			c.errorf(diag.Unreachable, s.Span())
			reported = true
		}
		c.stmt(s)
		if endsFlow(s) {
			dead = true
		}
	}
}

func (c *Checker) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.BadStmt:
		// reported by the parser

	case *syntax.FuncDecl, *syntax.StructDecl, *syntax.EnumDecl:
		// handled by collectDecls and resolveDecls

	case *syntax.VarDecl:
		c.varDecl(s)

	case *syntax.ExprStmt:
		var x operand
		c.rawExpr(&x, s.X, nil)
		switch {
		case x.mode == typexpr || x.mode == builtin:
			c.singleValue(&x)
		case x.isValue() && types.IsNull(x.typ):
			// nothing gives the null an optional type to lower to
			c.errorf(diag.UntypedNull, s.X.Span())
		}

	case *syntax.BlockStmt:
		c.openScope(s, "block")
		c.block(s.Stmts)
		c.closeScope()

	case *syntax.IfStmt:
		c.cond(s.Cond, "if")
		c.openScope(s.Then, "if")
		c.block(s.Then.Stmts)
		c.closeScope()
		if s.Else != nil {
			c.stmt(s.Else)
		}

	case *syntax.WhileStmt:
		c.cond(s.Cond, "while")
		c.loopBody(s.Body, "while")

	case *syntax.ForStmt:
		c.forStmt(s)

	case *syntax.LoopStmt:
		c.loopBody(s.Body, "loop")

	case *syntax.BranchStmt:
		if c.loopDepth == 0 {
			c.errorf(diag.BranchOutsideLoop, s.Span(), s.Tok.Name())
		}

	case *syntax.ReturnStmt:
		c.returnStmt(s)
	}
}

// cond checks a condition of the named statement kind.
func (c *Checker) cond(e syntax.Expr, kind string) {
	var x operand
	c.expr(&x, e)
	if x.mode != invalid && !types.IsBoolean(x.typ) {
		c.errorf(diag.NonBoolCondition, e.Span(), kind, x.typ)
	}
}

func (c *Checker) loopBody(body *syntax.BlockStmt, comment string) {
	c.loopDepth++
	c.openScope(body, comment)
	c.block(body.Stmts)
	c.closeScope()
	c.loopDepth--
}

// forStmt checks for x in e. The loop variable and the body share one
// scope; the variable is immutable and typed as the element type.
func (c *Checker) forStmt(s *syntax.ForStmt) {
	var x operand
	c.expr(&x, s.Iter)
	var elem types.Type = types.Typ[types.Invalid]
	if x.mode != invalid {
		if arr, ok := x.typ.(*types.Array); ok {
			elem = arr.Elem()
		} else {
			c.errorf(diag.NotIterable, s.Iter.Span(), syntax.ExprString(s.Iter), x.typ)
		}
	}

	c.loopDepth++
	c.openScope(s, "for")
	c.info.NodeScopes[s.Body.ID()] = c.scope
	c.declare(s.Var, &types.Symbol{Name: s.Var.Value, Kind: types.SymVal, Type: elem})
	c.block(s.Body.Stmts)
	c.closeScope()
	c.loopDepth--
}

// returnStmt checks a return against the enclosing function's result.
// At top level the result is Void.
func (c *Checker) returnStmt(s *syntax.ReturnStmt) {
	result := types.Type(types.Typ[types.Void])
	if c.funcSig != nil {
		result = c.funcSig.Result()
	}

	if s.Result == nil {
		if !types.IsVoid(result) {
			c.errorf(diag.ReturnMismatch, s.Span(), types.Typ[types.Void], result)
		}
		return
	}

	var x operand
	c.exprWithHint(&x, s.Result, result)
	if x.mode == invalid || types.IsInvalid(result) {
		return
	}
	if types.IsVoid(result) || !types.AssignableTo(x.typ, result) {
		c.errorf(diag.ReturnMismatch, s.Result.Span(), x.typ, result)
	}
}

// isTerminating reports whether s always ends by returning from the
// function: a return, a block whose first exit is terminating, an if
// whose branches both terminate, or a loop without a break.
func isTerminating(s syntax.Stmt) bool {
	switch s := s.(type) {
	case *syntax.ReturnStmt:
		return true
	case *syntax.BlockStmt:
		exit := firstExit(s.Stmts)
		return exit != nil && isTerminating(exit)
	case *syntax.IfStmt:
		return s.Else != nil && isTerminating(s.Then) && isTerminating(s.Else)
	case *syntax.LoopStmt:
		return !hasBreak(s.Body)
	}
	return false
}

// endsFlow reports whether control never reaches the statement after s.
func endsFlow(s syntax.Stmt) bool {
	switch s := s.(type) {
	case *syntax.BranchStmt:
		return true
	case *syntax.BlockStmt:
		return firstExit(s.Stmts) != nil
	case *syntax.IfStmt:
		return s.Else != nil && endsFlow(s.Then) && endsFlow(s.Else)
	}
	return isTerminating(s)
}

// firstExit returns the first statement of list after which control
// does not continue, or nil.
func firstExit(list []syntax.Stmt) syntax.Stmt {
	for _, s := range list {
		if endsFlow(s) {
			return s
		}
	}
	return nil
}

// hasBreak reports whether body contains a break that exits the loop
// owning body.
func hasBreak(body *syntax.BlockStmt) bool {
	found := false
	syntax.Inspect(body, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.WhileStmt, *syntax.ForStmt, *syntax.LoopStmt:
			return false
		case *syntax.BranchStmt:
			if n.Tok == token.Break {
				found = true
			}
		}
		return !found
	})
	return found
}
