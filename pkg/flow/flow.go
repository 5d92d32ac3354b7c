// Package flow implements spec.md §4.5's definite-assignment and
// constant-safety passes: E300 (read before initialization on some
// control path), E301 (constant divide/modulo by zero), E302
// (non-positive constant shift amount), E303 (non-positive constant
// for-loop step).
package flow

import (
	"github.com/what386/lash-sub001/pkg/ast"
	"github.com/what386/lash-sub001/pkg/diag"
	"github.com/what386/lash-sub001/pkg/source"
)

// uninit tracks the set of names declared without an initializer that
// have not yet been definitely assigned on the current control-flow
// path. Only let/const declarations without a Value populate it; every
// other kind of binding (parameters, argv, function/enum names) is
// assumed always initialized and is never tracked here.
type uninit map[string]bool

func (u uninit) clone() uninit {
	c := make(uninit, len(u))
	for k := range u {
		c[k] = true
	}
	return c
}

// Checker runs the definite-assignment and constant-safety passes.
type Checker struct {
	bag *diag.Bag
}

// Check walks prog, reporting into bag.
func Check(prog *ast.Program, bag *diag.Bag) {
	c := &Checker{bag: bag}
	c.walkBlock(prog.Statements, make(uninit))
}

func (c *Checker) errorf(code diag.Code, loc source.Location, format string, args ...any) {
	c.bag.Addf(diag.Error, code, loc.Line, loc.Column, format, args...)
}

// walkBlock threads an uninitialized-name set sequentially through
// stmts and returns the set as it stands after the last statement.
func (c *Checker) walkBlock(stmts []ast.Statement, u uninit) uninit {
	for _, s := range stmts {
		u = c.walkStmt(s, u)
	}
	return u
}

func (c *Checker) walkStmt(stmt ast.Statement, u uninit) uninit {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		if s.Value != nil {
			c.checkExpr(s.Value, u)
			delete(u, s.Name)
		} else {
			u[s.Name] = true
		}
	case *ast.Assignment:
		c.checkExpr(s.Value, u)
		c.checkExpr(s.Target, u)
		if name, ok := s.Target.(*ast.IdentifierExpression); ok {
			delete(u, name.Name)
		}
	case *ast.FunctionDeclaration:
		c.walkBlock(s.Body, make(uninit))
	case *ast.EnumDeclaration:
	case *ast.IfStatement:
		c.checkExpr(s.Cond, u)
		branches := make([]uninit, 0, len(s.Elifs)+2)
		branches = append(branches, c.walkBlock(s.Then, u.clone()))
		for _, elif := range s.Elifs {
			c.checkExpr(elif.Cond, u)
			branches = append(branches, c.walkBlock(elif.Body, u.clone()))
		}
		if s.HasElse {
			branches = append(branches, c.walkBlock(s.Else, u.clone()))
		} else {
			branches = append(branches, u.clone())
		}
		u = unionAll(branches)
	case *ast.SwitchStatement:
		c.checkExpr(s.Scrutinee, u)
		branches := []uninit{u.clone()} // no case may match
		for _, cs := range s.Cases {
			c.checkExpr(cs.Pattern, u)
			branches = append(branches, c.walkBlock(cs.Body, u.clone()))
		}
		u = unionAll(branches)
	case *ast.ForLoop:
		c.checkExpr(s.Iterable, u)
		if s.Step != nil {
			c.checkConstantForStep(s.Step)
			c.checkExpr(s.Step, u)
		}
		c.walkBlock(s.Body, u.clone()) // loop may run zero times
	case *ast.WhileLoop:
		c.checkExpr(s.Cond, u)
		c.walkBlock(s.Body, u.clone())
	case *ast.UntilLoop:
		c.checkExpr(s.Cond, u)
		c.walkBlock(s.Body, u.clone())
	case *ast.ReturnStatement:
		if s.Value != nil {
			c.checkExpr(s.Value, u)
		}
	case *ast.ShiftStatement:
		if s.Amount != nil {
			c.checkConstantShiftAmount(s.Amount)
			c.checkExpr(s.Amount, u)
		}
	case *ast.SubshellStatement:
		// A subshell forks; assignments inside never escape to the
		// parent, so its effect on u is discarded after the walk.
		c.walkBlock(s.Body, u.clone())
	case *ast.WaitStatement:
		if s.Kind == ast.WaitTarget {
			c.checkExpr(s.Target, u)
		}
	case *ast.BreakStatement, *ast.ContinueStatement:
	case *ast.ExpressionStatement:
		c.checkExpr(s.Expr, u)
	case *ast.ShellStatement:
		c.checkExpr(s.Payload, u)
	case *ast.TestStatement:
		c.checkExpr(s.Cond, u)
	case *ast.CommandStatement:
	case *ast.TrapStatement:
		c.checkExpr(s.Handler, u)
	case *ast.UntrapStatement:
	}
	return u
}

func unionAll(sets []uninit) uninit {
	out := make(uninit)
	for _, s := range sets {
		for k := range s {
			out[k] = true
		}
	}
	return out
}

// checkExpr reports E300 for any read of a name still in u, and
// recurses into subexpressions and constant-safety checks for division
// and modulo.
func (c *Checker) checkExpr(e ast.Expression, u uninit) {
	switch x := e.(type) {
	case *ast.IdentifierExpression:
		if u[x.Name] {
			c.errorf(diag.EDefiniteAssignment, x.Location(), "%q may be read before it is initialized", x.Name)
			delete(u, x.Name) // report once per path
		}
	case *ast.BinaryExpression:
		c.checkExpr(x.Left, u)
		c.checkExpr(x.Right, u)
		if x.Op == ast.OpDiv || x.Op == ast.OpMod {
			if v, ok := constantInt(x.Right); ok && v == 0 {
				c.errorf(diag.EDivModByZero, x.Location(), "division or modulo by constant zero")
			}
		}
	case *ast.UnaryExpression:
		c.checkExpr(x.Operand, u)
	case *ast.RangeExpression:
		c.checkExpr(x.Start, u)
		c.checkExpr(x.End, u)
	case *ast.PipeExpression:
		for _, stage := range x.Stages {
			c.checkExpr(stage, u)
		}
	case *ast.RedirectExpression:
		c.checkExpr(x.Source, u)
		if x.Target != nil {
			c.checkExpr(x.Target, u)
		}
	case *ast.FunctionCallExpression:
		for _, a := range x.Args {
			c.checkExpr(a, u)
		}
	case *ast.ShellCaptureExpression:
		c.checkExpr(x.Payload, u)
	case *ast.IndexAccessExpression:
		c.checkExpr(x.Target, u)
		c.checkExpr(x.Index, u)
	case *ast.ArrayLiteral:
		for _, el := range x.Elements {
			c.checkExpr(el, u)
		}
	}
}

func (c *Checker) checkConstantShiftAmount(amount ast.Expression) {
	if v, ok := constantInt(amount); ok && v <= 0 {
		c.errorf(diag.EBadShiftAmount, amount.Location(), "shift amount must be a positive constant, got %d", v)
	}
}

func (c *Checker) checkConstantForStep(step ast.Expression) {
	if v, ok := constantInt(step); ok && v <= 0 {
		c.errorf(diag.EBadForStep, step.Location(), "for-loop step must be a positive constant, got %d", v)
	}
}

// constantInt folds the narrow family of expressions built entirely
// from integer literals and +/-/*//% /unary +/- that the constant-safety
// checks above need to look through (e.g. "shift 1 - 1", "for i in 1..10
// step 2 - 2"); anything else reports not-constant rather than guessing.
func constantInt(e ast.Expression) (int, bool) {
	switch x := e.(type) {
	case *ast.LiteralExpression:
		if x.LiteralType != ast.IntLiteral {
			return 0, false
		}
		return parseDecimal(x.Value)
	case *ast.UnaryExpression:
		v, ok := constantInt(x.Operand)
		if !ok {
			return 0, false
		}
		switch x.Op {
		case ast.OpNeg:
			return -v, true
		case ast.OpPos:
			return v, true
		default:
			return 0, false
		}
	case *ast.BinaryExpression:
		l, lok := constantInt(x.Left)
		r, rok := constantInt(x.Right)
		if !lok || !rok {
			return 0, false
		}
		switch x.Op {
		case ast.OpAdd:
			return l + r, true
		case ast.OpSub:
			return l - r, true
		case ast.OpMul:
			return l * r, true
		case ast.OpDiv:
			if r == 0 {
				return 0, false
			}
			return l / r, true
		case ast.OpMod:
			if r == 0 {
				return 0, false
			}
			return l % r, true
		default:
			return 0, false
		}
	default:
		return 0, false
	}
}

func parseDecimal(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
