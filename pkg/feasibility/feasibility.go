// Package feasibility runs spec.md §4.5's codegen-feasibility gate: the
// last semantic pass before emission, rejecting AST shapes that parsed,
// resolved and type-checked cleanly but that pkg/codegen still cannot
// lower to Bash. It reports E400 (unsupported construct) and E401
// (mutually incompatible construct combination).
package feasibility

import (
	"github.com/bmatcuk/doublestar/v4"

	"github.com/what386/lash-sub001/pkg/ast"
	"github.com/what386/lash-sub001/pkg/diag"
	"github.com/what386/lash-sub001/pkg/source"
	"github.com/what386/lash-sub001/pkg/symbols"
)

// Checker walks a Program after resolve/typecheck/flow have all run
// clean, using the symbol index resolve built to answer "is this name a
// mutable, declared binding" without re-resolving scopes from scratch.
type Checker struct {
	bag      *diag.Bag
	byLine   map[int][]symbols.Reference
	inBgSink bool // true while walking a SubshellStatement that is both `into` and background
}

// Check walks prog, reporting into bag. idx is the symbols.Index built
// by pkg/resolve over the same prog.
func Check(prog *ast.Program, idx symbols.Index, bag *diag.Bag) {
	c := &Checker{bag: bag, byLine: make(map[int][]symbols.Reference)}
	for _, ref := range idx.References {
		c.byLine[ref.Span.Line] = append(c.byLine[ref.Span.Line], ref)
	}
	c.walkBlock(prog.Statements)
}

func (c *Checker) errorf(code diag.Code, loc source.Location, format string, args ...any) {
	c.bag.Addf(diag.Error, code, loc.Line, loc.Column, format, args...)
}

// refAt finds the reference the resolver recorded at exactly this
// location, if any.
func (c *Checker) refAt(loc source.Location) *symbols.Reference {
	for _, ref := range c.byLine[loc.Line] {
		if ref.Span.Column == loc.Column {
			return &ref
		}
	}
	return nil
}

func (c *Checker) walkBlock(stmts []ast.Statement) {
	for _, s := range stmts {
		c.walkStmt(s)
	}
}

func (c *Checker) walkStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.FunctionDeclaration:
		c.walkBlock(s.Body)
	case *ast.IfStatement:
		c.walkBlock(s.Then)
		for _, elif := range s.Elifs {
			c.walkBlock(elif.Body)
		}
		if s.HasElse {
			c.walkBlock(s.Else)
		}
	case *ast.SwitchStatement:
		for _, cs := range s.Cases {
			c.walkBlock(cs.Body)
		}
	case *ast.ForLoop:
		c.checkGlobIterable(s.Iterable)
		c.walkBlock(s.Body)
	case *ast.WhileLoop:
		c.walkBlock(s.Body)
	case *ast.UntilLoop:
		c.walkBlock(s.Body)
	case *ast.SubshellStatement:
		c.walkSubshell(s)
	case *ast.ExpressionStatement:
		c.checkPipeSink(s)
	}
}

// walkSubshell flags E401 when a subshell that both captures its value
// (`into`) and runs in the background (implicit job-status capture via
// `wait jobs`) nests another subshell, at any depth, requesting the same
// combination: both want their exit status recorded into the single
// implicit job array, and codegen cannot tell which one a later
// `wait jobs into` result refers to.
func (c *Checker) walkSubshell(s *ast.SubshellStatement) {
	isBgSink := s.Into.Present && s.RunInBackground
	if isBgSink && c.inBgSink {
		c.errorf(diag.ECodegenConflict, s.Location(),
			"nested background subshell with 'into' conflicts with the enclosing subshell's implicit job capture")
	}
	prev := c.inBgSink
	if isBgSink {
		c.inBgSink = true
	}
	c.walkBlock(s.Body)
	c.inBgSink = prev
}

// checkPipeSink validates the pipe-with-assignment-sink rewriting from
// spec.md §4.2: an ExpressionStatement wrapping a PipeExpression whose
// final stage is a bare identifier lowers to "tail=$(...)", which
// requires that identifier to already be a declared, mutable binding.
func (c *Checker) checkPipeSink(s *ast.ExpressionStatement) {
	pipe, ok := s.Expr.(*ast.PipeExpression)
	if !ok || len(pipe.Stages) < 2 {
		return
	}
	tail, ok := pipe.Stages[len(pipe.Stages)-1].(*ast.IdentifierExpression)
	if !ok {
		return
	}
	ref := c.refAt(tail.Location())
	if ref == nil || ref.Resolved == nil {
		// Unresolved already reported as E111 by pkg/resolve.
		return
	}
	if ref.Resolved.Kind != symbols.Variable {
		c.errorf(diag.ECodegenUnsupported, tail.Location(),
			"pipe assignment sink %q must name a variable, not a %s", tail.Name, ref.Resolved.Kind)
		return
	}
	if ref.Resolved.IsConst {
		c.errorf(diag.ECodegenUnsupported, tail.Location(),
			"pipe assignment sink %q cannot target a const binding", tail.Name)
	}
}

// checkGlobIterable validates a `for x in <glob-pattern>` where the
// iterable is a plain (non-interpolated) string literal, per spec.md
// §4.7 "for x in <glob-pattern> lowers the pattern literally".
func (c *Checker) checkGlobIterable(iterable ast.Expression) {
	lit, ok := iterable.(*ast.LiteralExpression)
	if !ok || lit.LiteralType != ast.StringLiteral || lit.IsInterpolated {
		return
	}
	if !doublestar.ValidatePattern(lit.Value) {
		c.errorf(diag.ECodegenUnsupported, lit.Location(), "malformed glob pattern %q in for-loop", lit.Value)
	}
}
