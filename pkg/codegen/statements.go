package codegen

import (
	"fmt"
	"strings"

	"github.com/what386/lash-sub001/pkg/ast"
)

func (g *Generator) genStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		g.genVarDecl(s)
	case *ast.Assignment:
		g.genAssignment(s)
	case *ast.FunctionDeclaration:
		g.genFunctionDeclaration(s)
	case *ast.EnumDeclaration:
		// Enums are a compile-time-only construct: member access lowers
		// to a concatenated string literal at the use site, so the
		// declaration itself emits nothing.
	case *ast.IfStatement:
		g.genIf(s)
	case *ast.SwitchStatement:
		g.genSwitch(s)
	case *ast.ForLoop:
		g.genFor(s)
	case *ast.WhileLoop:
		g.genWhile(s)
	case *ast.UntilLoop:
		g.genUntil(s)
	case *ast.ReturnStatement:
		g.genReturn(s)
	case *ast.ShiftStatement:
		g.genShift(s)
	case *ast.SubshellStatement:
		g.genSubshell(s)
	case *ast.WaitStatement:
		g.genWait(s)
	case *ast.BreakStatement:
		g.writeLine("break")
	case *ast.ContinueStatement:
		g.writeLine("continue")
	case *ast.ExpressionStatement:
		g.genExpressionStatement(s)
	case *ast.ShellStatement:
		g.writeLine(g.renderShellPayload(s.Payload))
	case *ast.TestStatement:
		g.writeLine(g.genCond(s.Cond))
	case *ast.CommandStatement:
		g.genCommandStatement(s)
	case *ast.TrapStatement:
		g.genTrap(s)
	case *ast.UntrapStatement:
		g.writeLine("trap - " + s.Signal)
	default:
		g.addUnsupported(fmt.Sprintf("unsupported statement kind: %T", stmt))
	}
}

// genVarDecl lowers a declaration per spec.md §4.7 "Declarations": plain
// or readonly at top level, local/local -r inside a function, and a
// `global` declaration bypassing `local` entirely even inside a
// function. A name the program ever indexes with a string key is
// declared associative instead, per "first string-key assignment forces
// declare -A name=()".
func (g *Generator) genVarDecl(d *ast.VariableDeclaration) {
	if g.assocArrays[d.Name] {
		g.genAssocVarDecl(d)
		return
	}
	prefix := ""
	switch {
	case d.IsGlobal:
		if d.Kind == ast.Const {
			prefix = "readonly "
		}
	case g.inFunction:
		if d.Kind == ast.Const {
			prefix = "local -r "
		} else {
			prefix = "local "
		}
	default:
		if d.Kind == ast.Const {
			prefix = "readonly "
		}
	}
	if d.Value == nil {
		g.writeLine(prefix + d.Name)
		return
	}
	g.writeLine(prefix + d.Name + "=" + g.genAssignRHS(d.Value))
}

// genAssocVarDecl lowers the declaration of a name programAssocArrays
// flagged as associative, mirroring genVarDecl's scope prefixes but with
// Bash's `-A` declare flag instead of a bare `local`/`readonly`.
func (g *Generator) genAssocVarDecl(d *ast.VariableDeclaration) {
	flags := "A"
	if d.Kind == ast.Const {
		flags += "r"
	}
	prefix := "declare -" + flags + " "
	switch {
	case d.IsGlobal:
		prefix = "declare -g" + flags + " "
	case g.inFunction:
		prefix = "local -" + flags + " "
	}
	if d.Value == nil {
		g.writeLine(prefix + d.Name)
		return
	}
	g.writeLine(prefix + d.Name + "=()")
}

func (g *Generator) genAssignment(a *ast.Assignment) {
	target := g.genAssignTargetText(a.Target)
	if a.Operator == ast.OpPlusAssign {
		g.writeLine(target + `+=( "` + g.genStringInline(a.Value) + `" )`)
		return
	}
	g.writeLine(target + "=" + g.genAssignRHS(a.Value))
}

func (g *Generator) genFunctionDeclaration(d *ast.FunctionDeclaration) {
	g.writeLine(d.Name + "() {")
	g.indentLevel++
	prevInFunction := g.inFunction
	g.inFunction = true
	for i, p := range d.Params {
		pos := i + 1
		if p.Default != nil {
			g.writeLine(fmt.Sprintf(`local %s="${%d:-%s}"`, p.Name, pos, g.genStringInline(p.Default)))
		} else {
			g.writeLine(fmt.Sprintf(`local %s="${%d}"`, p.Name, pos))
		}
	}
	g.genBlock(d.Body)
	g.inFunction = prevInFunction
	g.indentLevel--
	g.writeLine("}")
}

// genIf eliminates a single-arm dead branch when the condition folds to
// a compile-time boolean and there are no elif arms to reconcile;
// anything richer than that is emitted in full (spec.md §4.7 "dead-
// branch elimination on constant-foldable conditions").
func (g *Generator) genIf(s *ast.IfStatement) {
	if v, ok := foldBool(s.Cond); ok && len(s.Elifs) == 0 {
		if v {
			g.genBlock(s.Then)
		} else if s.HasElse {
			g.genBlock(s.Else)
		}
		return
	}

	g.writeLine("if " + g.genCond(s.Cond) + "; then")
	g.indentLevel++
	g.genBlock(s.Then)
	g.indentLevel--
	for _, elif := range s.Elifs {
		g.writeLine("elif " + g.genCond(elif.Cond) + "; then")
		g.indentLevel++
		g.genBlock(elif.Body)
		g.indentLevel--
	}
	if s.HasElse {
		g.writeLine("else")
		g.indentLevel++
		g.genBlock(s.Else)
		g.indentLevel--
	}
	g.writeLine("fi")
}

func (g *Generator) genSwitch(s *ast.SwitchStatement) {
	g.writeLine("case " + g.genStringInline(s.Scrutinee) + " in")
	g.indentLevel++
	for _, cs := range s.Cases {
		g.writeLine(g.genCasePattern(cs.Pattern) + ")")
		g.indentLevel++
		g.genBlock(cs.Body)
		g.writeLine(";;")
		g.indentLevel--
	}
	g.indentLevel--
	g.writeLine("esac")
}

// genCasePattern renders a case arm's pattern unquoted when it is a
// plain glob-looking string literal, so Bash's own `case` globbing
// applies, and quoted otherwise.
func (g *Generator) genCasePattern(pattern ast.Expression) string {
	lit, ok := pattern.(*ast.LiteralExpression)
	if ok && lit.LiteralType == ast.StringLiteral && !lit.IsInterpolated {
		if needsCaseQuoting(lit.Value) {
			return "\"" + escapeForDoubleQuotes(lit.Value) + "\""
		}
		return lit.Value
	}
	return g.genStringInline(pattern)
}

func needsCaseQuoting(s string) bool {
	return strings.ContainsAny(s, " \t)\"'")
}

func (g *Generator) genFor(s *ast.ForLoop) {
	switch iter := s.Iterable.(type) {
	case *ast.RangeExpression:
		start := g.genArith(iter.Start)
		end := g.genArith(iter.End)
		seqArgs := start
		if s.Step != nil {
			seqArgs += " " + g.genArith(s.Step) + " " + end
		} else {
			seqArgs += " " + end
		}
		g.writeLine(fmt.Sprintf("for %s in $(seq %s); do", s.Variable, seqArgs))
	case *ast.IdentifierExpression:
		if iter.Name == "argv" {
			g.writeLine(fmt.Sprintf(`for %s in "$@"; do`, s.Variable))
		} else {
			g.writeLine(fmt.Sprintf(`for %s in "${%s[@]}"; do`, s.Variable, iter.Name))
		}
	case *ast.LiteralExpression:
		if iter.LiteralType == ast.StringLiteral && !iter.IsInterpolated {
			g.writeLine(fmt.Sprintf("for %s in %s; do", s.Variable, iter.Value))
		} else {
			g.addUnsupported("interpolated string used as a for-loop iterable")
			g.writeLine(fmt.Sprintf(`for %s in "%s"; do`, s.Variable, g.genStringInline(iter)))
		}
	default:
		g.addUnsupported(fmt.Sprintf("unsupported for-loop iterable shape: %T", iter))
		g.writeLine(fmt.Sprintf(`for %s in "%s"; do`, s.Variable, g.genStringInline(s.Iterable)))
	}
	g.indentLevel++
	g.genBlock(s.Body)
	g.indentLevel--
	g.writeLine("done")
}

func (g *Generator) genWhile(s *ast.WhileLoop) {
	g.writeLine("while " + g.genCond(s.Cond) + "; do")
	g.indentLevel++
	g.genBlock(s.Body)
	g.indentLevel--
	g.writeLine("done")
}

func (g *Generator) genUntil(s *ast.UntilLoop) {
	g.writeLine("until " + g.genCond(s.Cond) + "; do")
	g.indentLevel++
	g.genBlock(s.Body)
	g.indentLevel--
	g.writeLine("done")
}

func (g *Generator) genReturn(s *ast.ReturnStatement) {
	if s.Value == nil {
		g.writeLine("return 0")
		return
	}
	g.writeLine(fmt.Sprintf(`echo "%s"`, g.genStringInline(s.Value)))
	g.writeLine("return 0")
}

func (g *Generator) genShift(s *ast.ShiftStatement) {
	amount := "1"
	if s.Amount != nil {
		amount = g.genArith(s.Amount)
	}
	g.writeLine(fmt.Sprintf("__lash_shift_n=$(( %s ))", amount))
	g.writeLine("if (( __lash_shift_n > 0 )); then")
	g.indentLevel++
	g.writeLine(`__lash_argv=("${__lash_argv[@]:__lash_shift_n}")`)
	g.indentLevel--
	g.writeLine("fi")
}

// genSubshell lowers `subshell ... end [&]`, threading the foreground/
// background exit-status capture and the implicit job-array bookkeeping
// `wait jobs` depends on elsewhere in the program (spec.md §4.7
// "Subshell and wait").
func (g *Generator) genSubshell(s *ast.SubshellStatement) {
	g.writeLine("(")
	g.indentLevel++
	g.genBlock(s.Body)
	g.indentLevel--
	closing := ")"
	if s.RunInBackground {
		closing += " &"
	}
	g.writeLine(closing)

	switch {
	case s.Into.Present && s.RunInBackground:
		g.writeLine(s.Into.Name + "=$!")
		if g.hasWaitJobs {
			g.writeLine(fmt.Sprintf(`__lash_jobs+=("${%s}")`, s.Into.Name))
		}
	case s.Into.Present:
		g.writeLine(s.Into.Name + "=$?")
	case s.RunInBackground && g.hasWaitJobs:
		g.writeLine(`__lash_jobs+=("$!")`)
	}
}

func (g *Generator) genWait(s *ast.WaitStatement) {
	switch s.Kind {
	case ast.WaitDefault:
		g.writeLine("wait")
	case ast.WaitTarget:
		g.writeLine(fmt.Sprintf(`wait "%s"`, g.genStringInline(s.Target)))
		if s.Into.Present {
			g.writeLine(s.Into.Name + "=$?")
		}
	case ast.WaitJobs:
		g.writeLine(`for __lash_pid in "${__lash_jobs[@]}"; do`)
		g.indentLevel++
		g.writeLine(`wait "${__lash_pid}"`)
		g.indentLevel--
		g.writeLine("done")
		if s.Into.Present {
			g.writeLine(s.Into.Name + "=$?")
		}
	}
}

// genExpressionStatement lowers a statement-level expression, handling
// the pipe-with-assignment-sink rewrite (spec.md §4.2/§4.7): a pipeline
// whose last stage is a bare identifier becomes `tail=$(stages...)`
// instead of an ordinary piped command line.
func (g *Generator) genExpressionStatement(s *ast.ExpressionStatement) {
	if pipe, ok := s.Expr.(*ast.PipeExpression); ok && len(pipe.Stages) >= 2 {
		if tail, ok2 := pipe.Stages[len(pipe.Stages)-1].(*ast.IdentifierExpression); ok2 {
			cmdStages := pipe.Stages[:len(pipe.Stages)-1]
			parts := make([]string, len(cmdStages))
			for i, st := range cmdStages {
				parts[i] = g.renderCommandExpr(st)
			}
			g.writeLine(tail.Name + "=$(" + strings.Join(parts, " | ") + ")")
			return
		}
	}
	g.writeLine(g.renderCommandExpr(s.Expr))
}

// genCommandStatement emits a bare command line the parser captured
// verbatim: raw-literal scripts emit unchanged, ordinary ones get their
// `{name}` placeholders substituted to `${name}` (spec.md §4.7 "Command
// statements").
func (g *Generator) genCommandStatement(s *ast.CommandStatement) {
	if s.IsRawLiteral {
		g.writeLine(s.Script)
		return
	}
	g.writeLine(g.substituteBraces(s.Script))
}

func (g *Generator) substituteBraces(text string) string {
	var out strings.Builder
	i := 0
	for i < len(text) {
		if text[i] == '{' {
			if end := strings.IndexByte(text[i:], '}'); end >= 0 {
				path := text[i+1 : i+end]
				if isPlaceholderPath(path) {
					out.WriteString("${")
					out.WriteString(strings.ReplaceAll(path, ".", "_"))
					out.WriteString("}")
					i += end + 1
					continue
				}
			}
		}
		out.WriteByte(text[i])
		i++
	}
	return out.String()
}

// genTrap lowers `trap EXPR on SIGNAL (, SIGNAL)*` to a native Bash trap
// registration (SPEC_FULL §4, E117).
func (g *Generator) genTrap(s *ast.TrapStatement) {
	handler := escapeForSingleQuotes(g.genStringInline(s.Handler))
	g.writeLine(fmt.Sprintf("trap '%s' %s", handler, strings.Join(s.Signals, " ")))
}
