// Package warn implements spec.md §4.6's non-fatal warning pass: W500
// (unreachable statement), W501 (shadowed variable), W502 (wait jobs
// with nothing to wait on), W503/W504/W505 (unused variable/parameter/
// function), W509 (non-global let never reassigned).
//
// Unlike pkg/resolve through pkg/feasibility, a bad pass here never
// blocks codegen: every diagnostic pushed is Warning severity.
package warn

import (
	"github.com/what386/lash-sub001/pkg/ast"
	"github.com/what386/lash-sub001/pkg/diag"
	"github.com/what386/lash-sub001/pkg/source"
	"github.com/what386/lash-sub001/pkg/symbols"
)

// Check runs every warning rule over prog, reporting into bag. idx is
// the symbols.Index pkg/resolve built over the same prog.
func Check(prog *ast.Program, idx symbols.Index, bag *diag.Bag) {
	warnf := func(code diag.Code, loc source.Location, format string, args ...any) {
		bag.Addf(diag.Warning, code, loc.Line, loc.Column, format, args...)
	}

	checkUnreachable(prog.Statements, warnf)

	hasBgSubshell := anyBackgroundSubshell(prog.Statements)
	checkWaitJobs(prog.Statements, hasBgSubshell, warnf)

	checkShadowing(prog.Statements, nil, warnf)

	checkUnused(idx, warnf)
	checkNeverReassigned(prog.Statements, warnf)
}

type warnFunc func(code diag.Code, loc source.Location, format string, args ...any)

func isTerminator(s ast.Statement) bool {
	switch s.(type) {
	case *ast.ReturnStatement, *ast.BreakStatement, *ast.ContinueStatement:
		return true
	default:
		return false
	}
}

// checkUnreachable flags the first statement following an unconditional
// return/break/continue in the same statement list, then recurses into
// every nested body regardless of reachability (each block is checked
// on its own terms).
func checkUnreachable(stmts []ast.Statement, warnf warnFunc) {
	terminated := false
	for _, s := range stmts {
		if terminated {
			warnf(diag.WUnreachable, s.Location(), "statement is unreachable")
			terminated = false // only flag the first one per run
		}
		if isTerminator(s) {
			terminated = true
		}
		for _, body := range nestedBodies(s) {
			checkUnreachable(body, warnf)
		}
	}
}

// nestedBodies returns every statement list directly nested in s, for
// passes that need to recurse without otherwise caring about s's shape.
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

func anyBackgroundSubshell(stmts []ast.Statement) bool {
	for _, s := range stmts {
		if sub, ok := s.(*ast.SubshellStatement); ok && sub.RunInBackground {
			return true
		}
		for _, body := range nestedBodies(s) {
			if anyBackgroundSubshell(body) {
				return true
			}
		}
	}
	return false
}

// checkWaitJobs flags a `wait jobs` with no background subshell anywhere
// in the program to track, per spec.md §4.6 W502.
func checkWaitJobs(stmts []ast.Statement, hasBgSubshell bool, warnf warnFunc) {
	for _, s := range stmts {
		if w, ok := s.(*ast.WaitStatement); ok && w.Kind == ast.WaitJobs && !hasBgSubshell {
			warnf(diag.WWaitJobsUnused, w.Location(), "'wait jobs' has no background subshell to wait on")
		}
		for _, body := range nestedBodies(s) {
			checkWaitJobs(body, hasBgSubshell, warnf)
		}
	}
}

// checkShadowing walks nested blocks with a stack of name sets, warning
// W501 when a declaration's name already exists in an enclosing frame.
// The innermost frame's own duplicates are pkg/resolve's E112, not this
// pass's concern.
func checkShadowing(stmts []ast.Statement, outer []map[string]bool, warnf warnFunc) {
	frame := make(map[string]bool)
	stack := append(outer, frame)

	declare := func(name string, loc source.Location) {
		for _, f := range stack[:len(stack)-1] {
			if f[name] {
				warnf(diag.WShadowed, loc, "%q shadows a declaration from an enclosing scope", name)
				break
			}
		}
		frame[name] = true
	}

	for _, s := range stmts {
		switch x := s.(type) {
		case *ast.VariableDeclaration:
			declare(x.Name, x.Location())
		case *ast.FunctionDeclaration:
			declare(x.Name, x.Location())
			inner := append(append([]map[string]bool{}, stack...))
			paramFrame := make(map[string]bool)
			inner = append(inner, paramFrame)
			for _, p := range x.Params {
				for _, f := range inner[:len(inner)-1] {
					if f[p.Name] {
						warnf(diag.WShadowed, x.Location(), "parameter %q shadows a declaration from an enclosing scope", p.Name)
						break
					}
				}
				paramFrame[p.Name] = true
			}
			checkShadowing(x.Body, inner, warnf)
		case *ast.EnumDeclaration:
			declare(x.Name, x.Location())
		case *ast.ForLoop:
			loopStack := append(append([]map[string]bool{}, stack...), map[string]bool{})
			for _, f := range loopStack[:len(loopStack)-1] {
				if f[x.Variable] {
					warnf(diag.WShadowed, x.Location(), "%q shadows a declaration from an enclosing scope", x.Variable)
					break
				}
			}
			loopStack[len(loopStack)-1][x.Variable] = true
			checkShadowing(x.Body, loopStack, warnf)
		case *ast.WhileLoop:
			checkShadowing(x.Body, stack, warnf)
		case *ast.UntilLoop:
			checkShadowing(x.Body, stack, warnf)
		case *ast.IfStatement:
			checkShadowing(x.Then, stack, warnf)
			for _, elif := range x.Elifs {
				checkShadowing(elif.Body, stack, warnf)
			}
			if x.HasElse {
				checkShadowing(x.Else, stack, warnf)
			}
		case *ast.SwitchStatement:
			for _, cs := range x.Cases {
				checkShadowing(cs.Body, stack, warnf)
			}
		case *ast.SubshellStatement:
			if x.Into.Present && x.Into.Mode != ast.CaptureAuto {
				declare(x.Into.Name, x.Location())
			}
			checkShadowing(x.Body, stack, warnf)
		case *ast.WaitStatement:
			if x.Into.Present && x.Into.Mode != ast.CaptureAuto {
				declare(x.Into.Name, x.Location())
			}
		}
	}
}

// checkUnused reports W503/W504/W505 for any declaration idx recorded
// that no reference resolved back to, matched by (name, declaration
// span) rather than pointer identity since pkg/symbols.Builder stores
// declarations by value.
func checkUnused(idx symbols.Index, warnf warnFunc) {
	for _, d := range idx.Declarations {
		used := false
		for _, ref := range idx.References {
			if ref.Resolved != nil && ref.Resolved.Name == d.Name && ref.Resolved.DeclarationSpan == d.DeclarationSpan {
				used = true
				break
			}
		}
		if used {
			continue
		}
		loc := source.Location{Line: d.DeclarationSpan.Line, Column: d.DeclarationSpan.Column}
		switch d.Kind {
		case symbols.Variable, symbols.Constant:
			warnf(diag.WUnusedVariable, loc, "%q is never used", d.Name)
		case symbols.Parameter:
			warnf(diag.WUnusedParameter, loc, "parameter %q is never used", d.Name)
		case symbols.Function:
			warnf(diag.WUnusedFunction, loc, "function %q is never called", d.Name)
		}
	}
}

// checkNeverReassigned flags a non-global `let` whose name is never the
// target of a later plain-identifier assignment anywhere in the
// program, suggesting `const` (W509). Matching is by name text alone,
// a deliberately coarse heuristic consistent with a non-fatal pass.
func checkNeverReassigned(stmts []ast.Statement, warnf warnFunc) {
	reassigned := make(map[string]bool)
	var collect func([]ast.Statement)
	collect = func(ss []ast.Statement) {
		for _, s := range ss {
			if a, ok := s.(*ast.Assignment); ok && !a.IsGlobal {
				if id, ok := a.Target.(*ast.IdentifierExpression); ok {
					reassigned[id.Name] = true
				}
			}
			for _, body := range nestedBodies(s) {
				collect(body)
			}
		}
	}
	collect(stmts)

	var check func([]ast.Statement)
	check = func(ss []ast.Statement) {
		for _, s := range ss {
			if d, ok := s.(*ast.VariableDeclaration); ok && d.Kind == ast.Let && !d.IsGlobal && d.Value != nil {
				if !reassigned[d.Name] {
					warnf(diag.WLetNeverReassigned, d.Location(), "%q is never reassigned; consider 'const'", d.Name)
				}
			}
			for _, body := range nestedBodies(s) {
				check(body)
			}
		}
	}
	check(stmts)
}
