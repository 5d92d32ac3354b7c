// Package codegen lowers an error-free, fully-analyzed ast.Program into
// POSIX-ish Bash text, per spec.md §4.7's emission contracts. It assumes
// every earlier phase (resolve, typecheck, flow, feasibility) has
// already run clean; it does not re-validate anything, it only renders.
//
// Constructs the generator genuinely cannot lower are recorded into an
// Unsupported list returned alongside the generated text rather than
// into a diag.Bag — spec.md §4.7 treats this as a best-effort final
// stage, not a blocking analysis.
package codegen

import (
	"strings"

	"github.com/what386/lash-sub001/pkg/ast"
)

// Generator renders one Program into Bash source text.
type Generator struct {
	buf         strings.Builder
	indentLevel int
	inFunction  bool
	hasWaitJobs bool
	// assocArrays holds every array variable name the program ever
	// indexes with a string key, computed once up front so genVarDecl can
	// emit `declare -A` for it instead of the plain indexed-array form.
	assocArrays map[string]bool
	unsupported []string
}

// Generate renders prog and returns the Bash source plus any
// unsupported-construct warnings encountered along the way.
func Generate(prog *ast.Program) (string, []string) {
	g := &Generator{}
	g.hasWaitJobs = programHasWaitJobs(prog.Statements)
	g.assocArrays = programAssocArrays(prog.Statements)

	g.writeLine("#!/usr/bin/env bash")
	if programUsesArgv(prog.Statements) {
		g.writeLine(`declare -a __lash_argv=("$@")`)
	}
	if g.hasWaitJobs {
		g.writeLine(`declare -a __lash_jobs=()`)
	}
	g.genBlock(prog.Statements)

	return g.buf.String(), g.unsupported
}

func (g *Generator) addUnsupported(msg string) {
	g.unsupported = append(g.unsupported, msg)
}

func (g *Generator) writeLine(line string) {
	g.buf.WriteString(strings.Repeat("  ", g.indentLevel))
	g.buf.WriteString(line)
	g.buf.WriteByte('\n')
}

func (g *Generator) genBlock(stmts []ast.Statement) {
	for _, s := range stmts {
		g.genStmt(s)
	}
}

// foldBool folds the narrow family of compile-time-boolean expressions
// spec.md §4.7's "dead-branch elimination" needs: bare bool/int literals
// and `!` over a foldable operand. Anything else is reported not
// foldable rather than guessed at.
func foldBool(e ast.Expression) (bool, bool) {
	switch x := e.(type) {
	case *ast.LiteralExpression:
		switch x.LiteralType {
		case ast.BoolLiteral:
			return x.Value == "true", true
		case ast.IntLiteral:
			return x.Value != "0" && x.Value != "", true
		}
	case *ast.UnaryExpression:
		if x.Op == ast.OpNot {
			if v, ok := foldBool(x.Operand); ok {
				return !v, true
			}
		}
	}
	return false, false
}

// foldInt folds integer-literal arithmetic built only from +/-/*//%,
// unary +/-, and int literals — the same narrow family pkg/flow folds
// for its constant-safety checks. genArith uses it, so literal-only
// arithmetic (including `seq`/`shift` operands) renders as its value.
func foldInt(e ast.Expression) (int, bool) {
	switch x := e.(type) {
	case *ast.LiteralExpression:
		if x.LiteralType != ast.IntLiteral {
			return 0, false
		}
		return parseDecimal(x.Value)
	case *ast.UnaryExpression:
		v, ok := foldInt(x.Operand)
		if !ok {
			return 0, false
		}
		switch x.Op {
		case ast.OpNeg:
			return -v, true
		case ast.OpPos:
			return v, true
		}
	case *ast.BinaryExpression:
		l, lok := foldInt(x.Left)
		r, rok := foldInt(x.Right)
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
		}
	}
	return 0, false
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

// isArgvIdent reports whether e is a bare reference to the built-in
// argv frame.
func isArgvIdent(e ast.Expression) bool {
	id, ok := e.(*ast.IdentifierExpression)
	return ok && id.Name == "argv"
}

// anyExprMatch reports whether pred holds for e or any expression
// nested inside it.
func anyExprMatch(e ast.Expression, pred func(ast.Expression) bool) bool {
	if e == nil {
		return false
	}
	if pred(e) {
		return true
	}
	switch x := e.(type) {
	case *ast.BinaryExpression:
		return anyExprMatch(x.Left, pred) || anyExprMatch(x.Right, pred)
	case *ast.UnaryExpression:
		return anyExprMatch(x.Operand, pred)
	case *ast.RangeExpression:
		return anyExprMatch(x.Start, pred) || anyExprMatch(x.End, pred)
	case *ast.PipeExpression:
		for _, s := range x.Stages {
			if anyExprMatch(s, pred) {
				return true
			}
		}
	case *ast.RedirectExpression:
		return anyExprMatch(x.Source, pred) || anyExprMatch(x.Target, pred)
	case *ast.FunctionCallExpression:
		for _, a := range x.Args {
			if anyExprMatch(a, pred) {
				return true
			}
		}
	case *ast.ShellCaptureExpression:
		return anyExprMatch(x.Payload, pred)
	case *ast.IndexAccessExpression:
		return anyExprMatch(x.Target, pred) || anyExprMatch(x.Index, pred)
	case *ast.ArrayLiteral:
		for _, el := range x.Elements {
			if anyExprMatch(el, pred) {
				return true
			}
		}
	}
	return false
}

// programUsesArgv scans the whole program for any reference to the
// argv built-in, including an implicit one via `shift`, so the preamble
// only declares __lash_argv when something will actually read it.
func programUsesArgv(stmts []ast.Statement) bool {
	for _, s := range stmts {
		switch x := s.(type) {
		case *ast.ShiftStatement:
			return true
		case *ast.VariableDeclaration:
			if x.Value != nil && anyExprMatch(x.Value, isArgvIdent) {
				return true
			}
		case *ast.Assignment:
			if anyExprMatch(x.Value, isArgvIdent) || anyExprMatch(x.Target, isArgvIdent) {
				return true
			}
		case *ast.FunctionDeclaration:
			for _, p := range x.Params {
				if p.Default != nil && anyExprMatch(p.Default, isArgvIdent) {
					return true
				}
			}
			if programUsesArgv(x.Body) {
				return true
			}
		case *ast.IfStatement:
			if anyExprMatch(x.Cond, isArgvIdent) || programUsesArgv(x.Then) {
				return true
			}
			for _, elif := range x.Elifs {
				if anyExprMatch(elif.Cond, isArgvIdent) || programUsesArgv(elif.Body) {
					return true
				}
			}
			if x.HasElse && programUsesArgv(x.Else) {
				return true
			}
		case *ast.SwitchStatement:
			if anyExprMatch(x.Scrutinee, isArgvIdent) {
				return true
			}
			for _, cs := range x.Cases {
				if anyExprMatch(cs.Pattern, isArgvIdent) || programUsesArgv(cs.Body) {
					return true
				}
			}
		case *ast.ForLoop:
			if anyExprMatch(x.Iterable, isArgvIdent) {
				return true
			}
			if x.Step != nil && anyExprMatch(x.Step, isArgvIdent) {
				return true
			}
			if programUsesArgv(x.Body) {
				return true
			}
		case *ast.WhileLoop:
			if anyExprMatch(x.Cond, isArgvIdent) || programUsesArgv(x.Body) {
				return true
			}
		case *ast.UntilLoop:
			if anyExprMatch(x.Cond, isArgvIdent) || programUsesArgv(x.Body) {
				return true
			}
		case *ast.ReturnStatement:
			if x.Value != nil && anyExprMatch(x.Value, isArgvIdent) {
				return true
			}
		case *ast.SubshellStatement:
			if programUsesArgv(x.Body) {
				return true
			}
		case *ast.WaitStatement:
			if x.Kind == ast.WaitTarget && anyExprMatch(x.Target, isArgvIdent) {
				return true
			}
		case *ast.ExpressionStatement:
			if anyExprMatch(x.Expr, isArgvIdent) {
				return true
			}
		case *ast.ShellStatement:
			if anyExprMatch(x.Payload, isArgvIdent) {
				return true
			}
		case *ast.TestStatement:
			if anyExprMatch(x.Cond, isArgvIdent) {
				return true
			}
		case *ast.TrapStatement:
			if anyExprMatch(x.Handler, isArgvIdent) {
				return true
			}
		}
	}
	return false
}

// programHasWaitJobs scans the whole program for any `wait jobs`, which
// decides whether the preamble declares __lash_jobs and whether
// background subshells append their pid to it.
func programHasWaitJobs(stmts []ast.Statement) bool {
	for _, s := range stmts {
		if w, ok := s.(*ast.WaitStatement); ok && w.Kind == ast.WaitJobs {
			return true
		}
		for _, body := range nestedBodies(s) {
			if programHasWaitJobs(body) {
				return true
			}
		}
	}
	return false
}

// programAssocArrays scans the whole program for every string-keyed index
// access against a named array (e.g. `m["k"]`) and returns the set of
// names that must be declared associative: Bash treats `name["k"]=v` as
// an indexed-array assignment, silently coercing "k" to 0, unless `name`
// was already declared with `declare -A` (spec.md §4.7 "Declarations").
func programAssocArrays(stmts []ast.Statement) map[string]bool {
	set := make(map[string]bool)
	markAssoc := func(e ast.Expression) bool {
		if x, ok := e.(*ast.IndexAccessExpression); ok {
			if id, ok := x.Target.(*ast.IdentifierExpression); ok && x.Index.Type() == ast.StringType {
				set[id.Name] = true
			}
		}
		return false
	}
	var walk func(stmts []ast.Statement)
	walk = func(stmts []ast.Statement) {
		for _, s := range stmts {
			switch x := s.(type) {
			case *ast.VariableDeclaration:
				if x.Value != nil {
					anyExprMatch(x.Value, markAssoc)
				}
			case *ast.Assignment:
				anyExprMatch(x.Target, markAssoc)
				anyExprMatch(x.Value, markAssoc)
			case *ast.FunctionDeclaration:
				for _, p := range x.Params {
					if p.Default != nil {
						anyExprMatch(p.Default, markAssoc)
					}
				}
			case *ast.IfStatement:
				anyExprMatch(x.Cond, markAssoc)
				for _, elif := range x.Elifs {
					anyExprMatch(elif.Cond, markAssoc)
				}
			case *ast.SwitchStatement:
				anyExprMatch(x.Scrutinee, markAssoc)
				for _, cs := range x.Cases {
					anyExprMatch(cs.Pattern, markAssoc)
				}
			case *ast.ForLoop:
				anyExprMatch(x.Iterable, markAssoc)
				if x.Step != nil {
					anyExprMatch(x.Step, markAssoc)
				}
			case *ast.WhileLoop:
				anyExprMatch(x.Cond, markAssoc)
			case *ast.UntilLoop:
				anyExprMatch(x.Cond, markAssoc)
			case *ast.ReturnStatement:
				if x.Value != nil {
					anyExprMatch(x.Value, markAssoc)
				}
			case *ast.ShiftStatement:
				if x.Amount != nil {
					anyExprMatch(x.Amount, markAssoc)
				}
			case *ast.WaitStatement:
				if x.Kind == ast.WaitTarget {
					anyExprMatch(x.Target, markAssoc)
				}
			case *ast.ExpressionStatement:
				anyExprMatch(x.Expr, markAssoc)
			case *ast.ShellStatement:
				anyExprMatch(x.Payload, markAssoc)
			case *ast.TestStatement:
				anyExprMatch(x.Cond, markAssoc)
			case *ast.TrapStatement:
				anyExprMatch(x.Handler, markAssoc)
			}
			for _, body := range nestedBodies(s) {
				walk(body)
			}
		}
	}
	walk(stmts)
	return set
}

// nestedBodies returns every statement list directly nested in s.
func nestedBodies(s ast.Statement) [][]ast.Statement {
	switch x := s.(type) {
	case *ast.FunctionDeclaration:
		return [][]ast.Statement{x.Body}
	case *ast.IfStatement:
		bodies := [][]ast.Statement{x.Then}
		for _, elif := range x.Elifs {
			bodies = append(bodies, elif.Body)
		}
		if x.HasElse {
			bodies = append(bodies, x.Else)
		}
		return bodies
	case *ast.SwitchStatement:
		var bodies [][]ast.Statement
		for _, cs := range x.Cases {
			bodies = append(bodies, cs.Body)
		}
		return bodies
	case *ast.ForLoop:
		return [][]ast.Statement{x.Body}
	case *ast.WhileLoop:
		return [][]ast.Statement{x.Body}
	case *ast.UntilLoop:
		return [][]ast.Statement{x.Body}
	case *ast.SubshellStatement:
		return [][]ast.Statement{x.Body}
	default:
		return nil
	}
}
