// Package resolve implements the name resolver described in spec.md §4.3:
// a single AST walk that maintains a stack of scopes (global, function,
// block), pre-declares functions and enums per block so forward
// references work, and binds every identifier reference to its nearest
// declaration. It builds the editor-facing pkg/symbols.Index alongside
// the diagnostics it reports, generalizing the teacher's scope/visitor
// shape (`GenerateUniqueName`, an `ast.Inspect`-style recursive walk)
// from Go scopes to Lash's own (spec.md §9 "Cyclic AST graphs": no
// back-references on AST nodes, lookup is keyed by a scope stack).
package resolve

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/what386/lash-sub001/pkg/ast"
	"github.com/what386/lash-sub001/pkg/diag"
	"github.com/what386/lash-sub001/pkg/source"
	"github.com/what386/lash-sub001/pkg/symbols"
)

// posixSignals is the closed set of signal names SPEC_FULL §4 requires
// trap/untrap to validate against.
var posixSignals = map[string]bool{
	"HUP": true, "INT": true, "QUIT": true, "ILL": true, "TRAP": true,
	"ABRT": true, "BUS": true, "FPE": true, "KILL": true, "USR1": true,
	"SEGV": true, "USR2": true, "PIPE": true, "ALRM": true, "TERM": true,
	"CHLD": true, "CONT": true, "STOP": true, "TSTP": true, "TTIN": true,
	"TTOU": true, "URG": true, "XCPU": true, "XFSZ": true, "VTALRM": true,
	"PROF": true, "WINCH": true, "IO": true, "PWR": true, "SYS": true,
	"EXIT": true,
}

// Resolver walks one Program, accumulating diagnostics into bag and
// building a symbols.Index via builder.
type Resolver struct {
	bag            *diag.Bag
	builder        *symbols.Builder
	scopes         []*scope
	inParamDefault bool
}

// New returns a Resolver reporting into bag.
func New(bag *diag.Bag) *Resolver {
	return &Resolver{bag: bag, builder: symbols.NewBuilder()}
}

// Resolve walks prog and returns the finished symbol index.
func Resolve(prog *ast.Program, bag *diag.Bag) symbols.Index {
	r := New(bag)
	r.push(scopeGlobal)
	r.preDeclare(prog.Statements)
	for _, s := range prog.Statements {
		r.resolveStmt(s)
	}
	r.pop()
	return r.builder.Build()
}

func (r *Resolver) push(kind scopeKind) *scope {
	s := newScope(kind)
	r.scopes = append(r.scopes, s)
	return s
}

func (r *Resolver) pop() { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) current() *scope { return r.scopes[len(r.scopes)-1] }

func (r *Resolver) global() *scope { return r.scopes[0] }

func (r *Resolver) errorf(code diag.Code, loc source.Location, format string, args ...any) {
	r.bag.Addf(diag.Error, code, loc.Line, loc.Column, format, args...)
}

func (r *Resolver) spanFor(loc source.Location, name string) symbols.Span {
	return symbols.SpanAt(loc, loc.Column+len(name))
}

// lookup searches the scope chain innermost-first.
func (r *Resolver) lookup(name string) *binding {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if b, ok := r.scopes[i].names[name]; ok {
			return b
		}
	}
	return nil
}

// declare binds name in scope s, reporting E112 on an existing binding in
// that same scope (shadowing an outer scope's binding is allowed).
func (r *Resolver) declare(s *scope, name string, b *binding, loc source.Location) bool {
	if _, exists := s.names[name]; exists {
		r.errorf(diag.EDuplicateDecl, loc, "%q is already declared in this scope", name)
		return false
	}
	s.names[name] = b
	r.builder.Declare(b.info)
	return true
}

// inLoopContext reports whether break/continue are valid here: some
// enclosing scope up to (and not past) the nearest function boundary is
// a loop body.
func (r *Resolver) inLoopContext() bool {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if r.scopes[i].inLoop {
			return true
		}
		if r.scopes[i].kind == scopeFunction {
			return false
		}
	}
	return false
}

// inFunctionContext reports whether return is valid here.
func (r *Resolver) inFunctionContext() bool {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if r.scopes[i].kind == scopeFunction {
			return true
		}
	}
	return false
}

// preDeclare hoists this block's direct FunctionDeclaration and
// EnumDeclaration statements (not nested blocks' own) so forward
// references within the block resolve, per spec.md §4.3.
func (r *Resolver) preDeclare(stmts []ast.Statement) {
	s := r.current()
	for _, stmt := range stmts {
		switch d := stmt.(type) {
		case *ast.FunctionDeclaration:
			min, max := 0, len(d.Params)
			seenDefault := false
			for _, p := range d.Params {
				if p.Default == nil && !seenDefault {
					min++
				} else {
					seenDefault = true
				}
			}
			b := &binding{
				info: symbols.Info{
					Name: d.Name, Kind: symbols.Function,
					DeclarationSpan: r.spanFor(d.Location(), d.Name),
				},
				minArgs: min, maxArgs: max,
			}
			r.declare(s, d.Name, b, d.Location())
		case *ast.EnumDeclaration:
			members := make(map[string]bool, len(d.Members))
			for _, m := range d.Members {
				members[m] = true
			}
			b := &binding{
				info: symbols.Info{
					Name: d.Name, Kind: symbols.Enum,
					DeclarationSpan: r.spanFor(d.Location(), d.Name),
				},
				enumMembers: members,
			}
			r.declare(s, d.Name, b, d.Location())
		}
	}
}

func (r *Resolver) resolveBlock(stmts []ast.Statement, kind scopeKind, inLoop bool) {
	s := r.push(kind)
	s.inLoop = inLoop
	r.preDeclare(stmts)
	for _, stmt := range stmts {
		r.resolveStmt(stmt)
	}
	r.pop()
}

func (r *Resolver) resolveStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		r.resolveVarDecl(s)
	case *ast.Assignment:
		r.resolveAssignment(s)
	case *ast.FunctionDeclaration:
		r.resolveFunctionBody(s)
	case *ast.EnumDeclaration:
		// Already hoisted by preDeclare; nothing further to resolve.
	case *ast.IfStatement:
		r.resolveExpr(s.Cond)
		r.resolveBlock(s.Then, scopeBlock, false)
		for _, elif := range s.Elifs {
			r.resolveExpr(elif.Cond)
			r.resolveBlock(elif.Body, scopeBlock, false)
		}
		if s.HasElse {
			r.resolveBlock(s.Else, scopeBlock, false)
		}
	case *ast.SwitchStatement:
		r.resolveExpr(s.Scrutinee)
		for _, c := range s.Cases {
			r.validateCasePattern(c.Pattern)
			r.resolveExpr(c.Pattern)
			r.resolveBlock(c.Body, scopeBlock, false)
		}
	case *ast.ForLoop:
		r.resolveExpr(s.Iterable)
		if s.Step != nil {
			r.resolveExpr(s.Step)
		}
		blockScope := r.push(scopeBlock)
		blockScope.inLoop = true
		loc := s.Location()
		b := &binding{
			info:    symbols.Info{Name: s.Variable, Kind: symbols.Variable, DeclarationSpan: r.spanFor(loc, s.Variable)},
			mutable: true,
		}
		r.declare(blockScope, s.Variable, b, loc)
		r.preDeclare(s.Body)
		for _, stmt := range s.Body {
			r.resolveStmt(stmt)
		}
		r.pop()
	case *ast.WhileLoop:
		r.resolveExpr(s.Cond)
		r.resolveBlock(s.Body, scopeBlock, true)
	case *ast.UntilLoop:
		r.resolveExpr(s.Cond)
		r.resolveBlock(s.Body, scopeBlock, true)
	case *ast.ReturnStatement:
		if !r.inFunctionContext() {
			r.errorf(diag.EControlFlowContext, s.Location(), "'return' used outside a function")
		}
		if s.Value != nil {
			r.resolveExpr(s.Value)
		}
	case *ast.ShiftStatement:
		if s.Amount != nil {
			r.resolveExpr(s.Amount)
		}
	case *ast.SubshellStatement:
		r.resolveCapture(s.Into, s.Location())
		r.resolveBlock(s.Body, scopeBlock, r.current().inLoop)
	case *ast.WaitStatement:
		if s.Kind == ast.WaitTarget {
			r.resolveExpr(s.Target)
		}
		r.resolveCapture(s.Into, s.Location())
	case *ast.BreakStatement:
		if !r.inLoopContext() {
			r.errorf(diag.EControlFlowContext, s.Location(), "'break' used outside a loop")
		}
	case *ast.ContinueStatement:
		if !r.inLoopContext() {
			r.errorf(diag.EControlFlowContext, s.Location(), "'continue' used outside a loop")
		}
	case *ast.ExpressionStatement:
		r.resolveExpr(s.Expr)
	case *ast.ShellStatement:
		r.resolveExpr(s.Payload)
	case *ast.TestStatement:
		r.resolveExpr(s.Cond)
	case *ast.CommandStatement:
		if strings.TrimSpace(s.Script) == "" {
			r.errorf(diag.EBadCommandUsage, s.Location(), "empty command statement")
		}
	case *ast.TrapStatement:
		r.resolveExpr(s.Handler)
		for _, sig := range s.Signals {
			if !posixSignals[sig] {
				r.errorf(diag.ETrapSignal, s.Location(), "unknown trap signal %q", sig)
			}
		}
	case *ast.UntrapStatement:
		if !posixSignals[s.Signal] {
			r.errorf(diag.ETrapSignal, s.Location(), "unknown trap signal %q", s.Signal)
		}
	}
}

func (r *Resolver) resolveVarDecl(d *ast.VariableDeclaration) {
	if d.Value != nil {
		r.resolveExpr(d.Value)
	}
	target := r.current()
	if d.IsGlobal {
		target = r.global()
	}
	b := &binding{
		info: symbols.Info{
			Name: d.Name, Kind: symbols.Variable, DeclarationSpan: r.spanFor(d.Location(), d.Name),
			IsConst: d.Kind == ast.Const,
		},
		mutable: d.Kind == ast.Let,
	}
	if b.info.IsConst {
		b.info.Kind = symbols.Constant
	}
	r.declare(target, d.Name, b, d.Location())
}

// resolveAssignment handles both "x = expr" (requires x already declared)
// and "global x = expr" (binds into the global scope on first use,
// otherwise requires the existing global binding to be mutable), per
// spec.md §4.3's "global declarations/assignments bind into the
// outermost scope" rule.
func (r *Resolver) resolveAssignment(a *ast.Assignment) {
	r.resolveExpr(a.Value)
	name, loc := assignTargetName(a.Target)
	if name == "" {
		r.errorf(diag.EInvalidAssignTarget, a.Location(), "invalid assignment target")
		r.resolveExpr(a.Target)
		return
	}

	if a.IsGlobal {
		b, exists := r.global().names[name]
		if !exists {
			nb := &binding{
				info:    symbols.Info{Name: name, Kind: symbols.Variable, DeclarationSpan: r.spanFor(loc, name)},
				mutable: true,
			}
			r.declare(r.global(), name, nb, loc)
			r.resolveIndexChain(a.Target)
			return
		}
		if !b.mutable {
			r.errorf(diag.EInvalidAssignTarget, loc, "cannot assign to const %q", name)
		}
		r.resolveIndexChain(a.Target)
		return
	}

	b := r.lookup(name)
	if b == nil {
		r.errorf(diag.EUndeclared, loc, "undeclared identifier %q", name)
		return
	}
	if !b.mutable {
		r.errorf(diag.EInvalidAssignTarget, loc, "cannot assign to const %q", name)
	}
	r.resolveIndexChain(a.Target)
}

// assignTargetName returns the base identifier name of an assignment
// target, which is always an IdentifierExpression or a chain of
// IndexAccessExpression rooted at one.
func assignTargetName(target ast.Expression) (string, source.Location) {
	switch t := target.(type) {
	case *ast.IdentifierExpression:
		return t.Name, t.Location()
	case *ast.IndexAccessExpression:
		return assignTargetName(t.Target)
	default:
		return "", target.Location()
	}
}

// resolveIndexChain resolves the index expressions of an assignment
// target's bracket chain (the base identifier itself was already
// validated by the caller).
func (r *Resolver) resolveIndexChain(target ast.Expression) {
	idx, ok := target.(*ast.IndexAccessExpression)
	if !ok {
		return
	}
	r.resolveExpr(idx.Index)
	r.resolveIndexChain(idx.Target)
}

func (r *Resolver) resolveFunctionBody(d *ast.FunctionDeclaration) {
	s := r.push(scopeFunction)
	for _, p := range d.Params {
		if _, exists := s.names[p.Name]; exists {
			r.errorf(diag.EBadParameter, d.Location(), "duplicate parameter %q", p.Name)
		} else {
			b := &binding{
				info:    symbols.Info{Name: p.Name, Kind: symbols.Parameter, DeclarationSpan: r.spanFor(d.Location(), p.Name)},
				mutable: true,
			}
			s.names[p.Name] = b
			r.builder.Declare(b.info)
		}
		if p.Default != nil {
			r.inParamDefault = true
			r.resolveExpr(p.Default)
			r.inParamDefault = false
		}
	}
	r.preDeclare(d.Body)
	for _, stmt := range d.Body {
		r.resolveStmt(stmt)
	}
	r.pop()
}

// resolveCapture resolves a "into [let|const] NAME" clause shared by
// SubshellStatement and WaitStatement: Let/Const declare a fresh binding
// in the enclosing scope, while the auto form requires NAME to already
// be a declared, mutable binding there.
func (r *Resolver) resolveCapture(c ast.Capture, loc source.Location) {
	if !c.Present {
		return
	}
	switch c.Mode {
	case ast.CaptureLet, ast.CaptureConst:
		b := &binding{
			info: symbols.Info{
				Name: c.Name, Kind: symbols.Variable, DeclarationSpan: r.spanFor(loc, c.Name),
				IsConst: c.Mode == ast.CaptureConst,
			},
			mutable: c.Mode == ast.CaptureLet,
		}
		r.declare(r.current(), c.Name, b, loc)
	default:
		b := r.lookup(c.Name)
		if b == nil {
			r.errorf(diag.EUndeclared, loc, "undeclared identifier %q", c.Name)
			return
		}
		if !b.mutable {
			r.errorf(diag.EInvalidAssignTarget, loc, "cannot assign to const %q", c.Name)
		}
	}
}

// validateCasePattern checks a switch-case pattern that looks like a
// glob (contains *, ?, or [) against doublestar's grammar, per
// SPEC_FULL §3's "switch/case glob-style string patterns" wiring.
func (r *Resolver) validateCasePattern(pattern ast.Expression) {
	lit, ok := pattern.(*ast.LiteralExpression)
	if !ok || lit.LiteralType != ast.StringLiteral || lit.IsInterpolated {
		return
	}
	if !strings.ContainsAny(lit.Value, "*?[") {
		return
	}
	if !doublestar.ValidatePattern(lit.Value) {
		r.errorf(diag.ECodegenUnsupported, lit.Location(), "malformed glob pattern %q in switch case", lit.Value)
	}
}

func (r *Resolver) resolveExpr(e ast.Expression) {
	switch x := e.(type) {
	case *ast.IdentifierExpression:
		r.resolveIdentifier(x.Name, x.Location())
	case *ast.LiteralExpression:
		if x.IsInterpolated {
			r.resolvePlaceholders(x.Value, x.Location())
		}
	case *ast.NullLiteral:
	case *ast.BinaryExpression:
		r.resolveExpr(x.Left)
		r.resolveExpr(x.Right)
	case *ast.UnaryExpression:
		r.resolveExpr(x.Operand)
	case *ast.RangeExpression:
		r.resolveExpr(x.Start)
		r.resolveExpr(x.End)
	case *ast.PipeExpression:
		for _, stage := range x.Stages {
			r.resolveExpr(stage)
		}
	case *ast.RedirectExpression:
		r.resolveExpr(x.Source)
		if x.Target != nil {
			r.resolveExpr(x.Target)
		}
	case *ast.FunctionCallExpression:
		r.resolveCall(x)
	case *ast.ShellCaptureExpression:
		r.resolveExpr(x.Payload)
	case *ast.IndexAccessExpression:
		r.resolveExpr(x.Target)
		r.resolveExpr(x.Index)
	case *ast.EnumAccessExpression:
		r.resolveEnumAccess(x)
	case *ast.ArrayLiteral:
		for _, el := range x.Elements {
			r.resolveExpr(el)
		}
	}
}

func (r *Resolver) resolveCall(call *ast.FunctionCallExpression) {
	b := r.lookup(call.Name)
	if b == nil || b.info.Kind != symbols.Function {
		r.errorf(diag.EUnknownFunction, call.Location(), "call to undeclared function %q", call.Name)
	} else {
		n := len(call.Args)
		if n < b.minArgs || n > b.maxArgs {
			r.errorf(diag.EArity, call.Location(), "function %q expects between %d and %d arguments, got %d",
				call.Name, b.minArgs, b.maxArgs, n)
		}
		r.builder.Reference(call.Name, r.spanFor(call.Location(), call.Name), &b.info)
	}
	for _, a := range call.Args {
		r.resolveExpr(a)
	}
}

func (r *Resolver) resolveEnumAccess(acc *ast.EnumAccessExpression) {
	b := r.lookup(acc.EnumName)
	if b == nil || b.info.Kind != symbols.Enum {
		r.errorf(diag.EUndeclared, acc.Location(), "unknown enum %q", acc.EnumName)
		return
	}
	if !b.enumMembers[acc.Member] {
		r.errorf(diag.EUndeclared, acc.Location(), "unknown enum member %q::%q", acc.EnumName, acc.Member)
		return
	}
	r.builder.Reference(acc.EnumName+"::"+acc.Member, r.spanFor(acc.Location(), acc.Member), &b.info)
}

func (r *Resolver) resolveIdentifier(name string, loc source.Location) {
	if name == "argv" {
		info := symbols.Info{Name: "argv", Kind: symbols.Variable, TypeText: "argv frame"}
		r.builder.Reference(name, r.spanFor(loc, name), &info)
		return
	}
	b := r.lookup(name)
	if b == nil {
		code := diag.EUndeclared
		if r.inParamDefault {
			code = diag.EBadParameter
		}
		r.errorf(code, loc, "undeclared identifier %q", name)
		r.builder.Reference(name, r.spanFor(loc, name), nil)
		return
	}
	r.builder.Reference(name, r.spanFor(loc, name), &b.info)
}

// resolvePlaceholders scans an interpolated string's decoded body for
// "{identifier[.path]}" placeholders and resolves each leading
// identifier; the optional ".path" suffix is a codegen-level field
// access, not a separate binding.
func (r *Resolver) resolvePlaceholders(body string, loc source.Location) {
	for {
		start := strings.IndexByte(body, '{')
		if start < 0 {
			return
		}
		end := strings.IndexByte(body[start:], '}')
		if end < 0 {
			return
		}
		inner := body[start+1 : start+end]
		name := inner
		if dot := strings.IndexByte(inner, '.'); dot >= 0 {
			name = inner[:dot]
		}
		if name != "" {
			r.resolveIdentifier(name, loc)
		}
		body = body[start+end+1:]
	}
}
