package codegen

import (
	"fmt"
	"strings"

	"github.com/what386/lash-sub001/pkg/ast"
)

// genAssignRHS renders value as the text that follows "=" in a
// declaration or assignment, choosing array, arithmetic or quoted-string
// form by the node's shape and inferred type (spec.md §4.7
// "Assignments").
func (g *Generator) genAssignRHS(value ast.Expression) string {
	switch v := value.(type) {
	case *ast.ArrayLiteral:
		return g.genArrayLiteral(v)
	case *ast.RangeExpression:
		start := g.genArith(v.Start)
		end := g.genArith(v.End)
		return fmt.Sprintf("($(seq %s %s))", start, end)
	default:
		if value.Type() == ast.NumberType {
			return fmt.Sprintf("$(( %s ))", g.genArith(value))
		}
		return "\"" + g.genStringInline(value) + "\""
	}
}

func (g *Generator) genArrayLiteral(v *ast.ArrayLiteral) string {
	parts := make([]string, len(v.Elements))
	for i, el := range v.Elements {
		parts[i] = "\"" + g.genStringInline(el) + "\""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// genAssignTargetText renders the left-hand side of an assignment: a
// bare name, or name[index] for an indexed target.
func (g *Generator) genAssignTargetText(target ast.Expression) string {
	switch t := target.(type) {
	case *ast.IdentifierExpression:
		return t.Name
	case *ast.IndexAccessExpression:
		base := g.genAssignTargetText(t.Target)
		return base + "[" + g.genIndexKeyText(t.Index) + "]"
	default:
		g.addUnsupported("unsupported assignment target shape")
		return "__lash_unsupported"
	}
}

func (g *Generator) genIndexKeyText(idx ast.Expression) string {
	if idx.Type() == ast.StringType {
		return "\"" + g.genStringInline(idx) + "\""
	}
	return g.genArith(idx)
}

// genArith renders e for use inside a Bash arithmetic context, `$(( ... ))`
// or `(( ... ))`.
func (g *Generator) genArith(e ast.Expression) string {
	switch x := e.(type) {
	case *ast.LiteralExpression:
		switch x.LiteralType {
		case ast.IntLiteral:
			return x.Value
		case ast.BoolLiteral:
			return boolToArith(x.Value)
		default:
			g.addUnsupported("string literal used in an arithmetic context")
			return "0"
		}
	case *ast.IdentifierExpression:
		if x.Name == "argv" {
			g.addUnsupported("argv used directly in an arithmetic context")
			return "0"
		}
		return x.Name
	case *ast.UnaryExpression:
		switch x.Op {
		case ast.OpNeg:
			return "-" + g.genArith(x.Operand)
		case ast.OpPos:
			return "+" + g.genArith(x.Operand)
		case ast.OpNot:
			return "!" + g.genArith(x.Operand)
		case ast.OpLen:
			return g.genLen(x.Operand)
		}
	case *ast.BinaryExpression:
		if v, ok := foldInt(x); ok {
			return fmt.Sprintf("%d", v)
		}
		return fmt.Sprintf("(%s %s %s)", g.genArith(x.Left), binArithSymbol(x.Op), g.genArith(x.Right))
	case *ast.IndexAccessExpression:
		return g.genIndexValue(x)
	case *ast.FunctionCallExpression:
		return "$(" + g.genCallArgs(x) + ")"
	case *ast.ShellCaptureExpression:
		return g.genShellCapture(x)
	}
	g.addUnsupported(fmt.Sprintf("unsupported expression in arithmetic context: %T", e))
	return "0"
}

func boolToArith(v string) string {
	if v == "true" {
		return "1"
	}
	return "0"
}

func binArithSymbol(op ast.BinaryOp) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	case ast.OpMod:
		return "%"
	case ast.OpEq:
		return "=="
	case ast.OpNotEq:
		return "!="
	case ast.OpLt:
		return "<"
	case ast.OpGt:
		return ">"
	case ast.OpLtEq:
		return "<="
	case ast.OpGtEq:
		return ">="
	case ast.OpAnd:
		return "&&"
	case ast.OpOr:
		return "||"
	}
	return "+"
}

// genLen renders `#operand`: an array length, a string length, or the
// argv-frame length.
func (g *Generator) genLen(operand ast.Expression) string {
	if id, ok := operand.(*ast.IdentifierExpression); ok {
		if id.Name == "argv" {
			return "${#__lash_argv[@]}"
		}
		if operand.Type() == ast.ArrayType {
			return fmt.Sprintf("${#%s[@]}", id.Name)
		}
		return fmt.Sprintf("${#%s}", id.Name)
	}
	g.addUnsupported("length of a non-identifier expression")
	return "0"
}

// genIndexValue renders `target[index]` as a value: ${__lash_argv[i]} for
// argv, ${name[i]} for a numeric key, ${name["k"]} for a string key.
func (g *Generator) genIndexValue(x *ast.IndexAccessExpression) string {
	id, ok := x.Target.(*ast.IdentifierExpression)
	if !ok {
		g.addUnsupported("indexing a non-identifier target")
		return "\"\""
	}
	name := id.Name
	if name == "argv" {
		return fmt.Sprintf("${__lash_argv[%s]}", g.genArith(x.Index))
	}
	if x.Index.Type() == ast.StringType {
		return fmt.Sprintf("${%s[\"%s\"]}", name, g.genStringInline(x.Index))
	}
	return fmt.Sprintf("${%s[%s]}", name, g.genArith(x.Index))
}

// genCond renders e as a Bash boolean test usable after `if`/`while`/
// `until`/`elif` (spec.md §4.7 "Control flow").
func (g *Generator) genCond(e ast.Expression) string {
	switch x := e.(type) {
	case *ast.BinaryExpression:
		switch x.Op {
		case ast.OpEq, ast.OpNotEq:
			sym := "=="
			if x.Op == ast.OpNotEq {
				sym = "!="
			}
			if x.Left.Type() == ast.StringType || x.Right.Type() == ast.StringType {
				return fmt.Sprintf("[[ %s %s %s ]]", g.genStringInline(x.Left), sym, g.genStringInline(x.Right))
			}
			return fmt.Sprintf("(( %s %s %s ))", g.genArith(x.Left), sym, g.genArith(x.Right))
		case ast.OpLt, ast.OpGt, ast.OpLtEq, ast.OpGtEq:
			return fmt.Sprintf("(( %s %s %s ))", g.genArith(x.Left), binArithSymbol(x.Op), g.genArith(x.Right))
		case ast.OpAnd, ast.OpOr:
			sym := "&&"
			if x.Op == ast.OpOr {
				sym = "||"
			}
			return fmt.Sprintf("%s %s %s", g.genCond(x.Left), sym, g.genCond(x.Right))
		default:
			return fmt.Sprintf("(( %s ))", g.genArith(e))
		}
	case *ast.UnaryExpression:
		if x.Op == ast.OpNot {
			return "! " + g.genCond(x.Operand)
		}
		return fmt.Sprintf("(( %s ))", g.genArith(e))
	case *ast.LiteralExpression:
		if x.LiteralType == ast.StringLiteral {
			return fmt.Sprintf("[ -n \"%s\" ]", g.genStringInline(x))
		}
		return fmt.Sprintf("(( %s ))", g.genArith(e))
	default:
		if e.Type() == ast.StringType {
			return fmt.Sprintf("[ -n \"%s\" ]", g.genStringInline(e))
		}
		return fmt.Sprintf("[ %s -ne 0 ]", g.genArith(e))
	}
}

// genStringInline renders e as text that belongs inside an already-open
// double-quoted Bash string (no surrounding quotes of its own).
func (g *Generator) genStringInline(e ast.Expression) string {
	switch x := e.(type) {
	case *ast.LiteralExpression:
		switch x.LiteralType {
		case ast.StringLiteral:
			if x.IsInterpolated {
				return g.renderInterpolated(x.Value)
			}
			return escapeForDoubleQuotes(x.Value)
		case ast.IntLiteral, ast.BoolLiteral:
			return x.Value
		}
	case *ast.NullLiteral:
		return ""
	case *ast.IdentifierExpression:
		if x.Name == "argv" {
			return "${__lash_argv[*]}"
		}
		return "${" + x.Name + "}"
	case *ast.BinaryExpression:
		if x.Op == ast.OpAdd && (x.Left.Type() == ast.StringType || x.Right.Type() == ast.StringType) {
			return g.genStringInline(x.Left) + g.genStringInline(x.Right)
		}
		return "$(( " + g.genArith(e) + " ))"
	case *ast.UnaryExpression:
		if x.Op == ast.OpLen {
			return g.genLen(x.Operand)
		}
		return "$(( " + g.genArith(e) + " ))"
	case *ast.IndexAccessExpression:
		return g.genIndexValue(x)
	case *ast.EnumAccessExpression:
		return x.EnumName + x.Member
	case *ast.FunctionCallExpression:
		return "$(" + g.genCallArgs(x) + ")"
	case *ast.ShellCaptureExpression:
		return g.genShellCapture(x)
	case *ast.PipeExpression:
		parts := make([]string, len(x.Stages))
		for i, s := range x.Stages {
			parts[i] = g.renderCommandExpr(s)
		}
		return "$(" + strings.Join(parts, " | ") + ")"
	case *ast.RedirectExpression:
		return g.renderCommandExpr(x)
	case *ast.RangeExpression, *ast.ArrayLiteral:
		g.addUnsupported("array-shaped expression used in a scalar string context")
		return ""
	}
	g.addUnsupported(fmt.Sprintf("unsupported expression in string context: %T", e))
	return ""
}

// genCallArgs renders a function call as `name "a" "b"`, the form used
// both as a statement and inside `$( ... )`.
func (g *Generator) genCallArgs(call *ast.FunctionCallExpression) string {
	parts := []string{call.Name}
	for _, a := range call.Args {
		parts = append(parts, "\""+g.genStringInline(a)+"\"")
	}
	return strings.Join(parts, " ")
}

// genShellCapture renders `$sh expr` as `$( <payload> )`.
func (g *Generator) genShellCapture(x *ast.ShellCaptureExpression) string {
	return "$( " + g.renderShellPayload(x.Payload) + " )"
}

// renderShellPayload renders the raw-shell-text payload of a ShellCapture
// or Shell statement, expanding `{name}` placeholders and `name...`
// spreads per spec.md §4.7's "shell capture" rules, without wrapping the
// whole thing in its own quotes (the caller's own quoting, if any, is
// preserved verbatim in the literal body).
func (g *Generator) renderShellPayload(e ast.Expression) string {
	lit, ok := e.(*ast.LiteralExpression)
	if !ok {
		return g.genStringInline(e)
	}
	return g.expandShellPlaceholders(lit.Value)
}

// renderCommandExpr renders e as a full command-line fragment: the
// shape used for a bare call, a pipeline stage, or a redirected command
// (spec.md §4.7 "Command statements").
func (g *Generator) renderCommandExpr(e ast.Expression) string {
	switch x := e.(type) {
	case *ast.FunctionCallExpression:
		return g.genCallArgs(x)
	case *ast.PipeExpression:
		parts := make([]string, len(x.Stages))
		for i, s := range x.Stages {
			parts[i] = g.renderCommandExpr(s)
		}
		return strings.Join(parts, " | ")
	case *ast.RedirectExpression:
		return g.renderCommandExpr(x.Source) + " " + g.renderRedirectOp(x)
	case *ast.IdentifierExpression:
		return x.Name
	default:
		return g.genStringInline(e)
	}
}

// renderRedirectOp renders one RedirectExpression's operator and target.
func (g *Generator) renderRedirectOp(x *ast.RedirectExpression) string {
	switch x.Kind {
	case ast.RedirStdout:
		return "> " + g.redirTargetText(x.Target)
	case ast.RedirStdoutAppend:
		return ">> " + g.redirTargetText(x.Target)
	case ast.RedirStderr:
		return "2> " + g.redirTargetText(x.Target)
	case ast.RedirStderrAppend:
		return "2>> " + g.redirTargetText(x.Target)
	case ast.RedirBoth:
		return "&> " + g.redirTargetText(x.Target)
	case ast.RedirBothAppend:
		return "&>> " + g.redirTargetText(x.Target)
	case ast.RedirStdin:
		return "< " + g.redirTargetText(x.Target)
	case ast.RedirStdinStdout:
		return "<> " + g.redirTargetText(x.Target)
	case ast.RedirHeredocStr:
		return "<<< " + g.redirTargetText(x.Target)
	case ast.RedirHeredoc:
		return fmt.Sprintf("<<'LASH_HEREDOC'\n%s\nLASH_HEREDOC", g.genStringInline(x.Target))
	case ast.RedirFdDup:
		return fmt.Sprintf("%d>&%d", x.Fd, x.TargetFd)
	case ast.RedirFdClose:
		return fmt.Sprintf("%d>&-", x.Fd)
	}
	g.addUnsupported("unsupported redirection kind")
	return ""
}

func (g *Generator) redirTargetText(target ast.Expression) string {
	return "\"" + g.genStringInline(target) + "\""
}

// escapeForDoubleQuotes escapes the four characters that are special
// inside a Bash double-quoted string: backslash first, then the rest.
func escapeForDoubleQuotes(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"$", "\\$",
		"`", "\\`",
	)
	return r.Replace(s)
}

// escapeForSingleQuotes breaks out of a single-quoted span to escape an
// embedded single quote: ' -> '\''.
func escapeForSingleQuotes(s string) string {
	return strings.ReplaceAll(s, `'`, `'\''`)
}

// renderInterpolated lowers an interpolated string literal's decoded
// body into Bash double-quote-context text: `{name}` and dotted
// `{a.b.c}` placeholders become `${name}`/`${a_b_c}`, everything else is
// escaped literally (spec.md §4.7 "Interpolated strings").
func (g *Generator) renderInterpolated(body string) string {
	var out strings.Builder
	i := 0
	for i < len(body) {
		if body[i] == '{' {
			if end := strings.IndexByte(body[i:], '}'); end >= 0 {
				path := body[i+1 : i+end]
				if isPlaceholderPath(path) {
					out.WriteString("${")
					out.WriteString(strings.ReplaceAll(path, ".", "_"))
					out.WriteString("}")
					i += end + 1
					continue
				}
			}
		}
		out.WriteString(escapeForDoubleQuotes(string(body[i])))
		i++
	}
	return out.String()
}

// expandShellPlaceholders lowers a $sh/sh payload's raw body: `{name}`
// placeholders expand to ${name} (escaping out of a single-quoted span
// with '"${name}"' when encountered inside one), and `name...` spreads
// expand to "${name[@]}" inside double quotes or ${name[@]} outside any
// quoting.
func (g *Generator) expandShellPlaceholders(body string) string {
	var out strings.Builder
	inSingle, inDouble := false, false
	i := 0
	for i < len(body) {
		c := body[i]
		switch {
		case c == '\'' && !inDouble:
			inSingle = !inSingle
			out.WriteByte(c)
			i++
		case c == '"' && !inSingle:
			inDouble = !inDouble
			out.WriteByte(c)
			i++
		case c == '{' && !inSingle:
			if end := strings.IndexByte(body[i:], '}'); end >= 0 {
				path := body[i+1 : i+end]
				if isPlaceholderPath(path) {
					out.WriteString("${")
					out.WriteString(strings.ReplaceAll(path, ".", "_"))
					out.WriteString("}")
					i += end + 1
					continue
				}
			}
			out.WriteByte(c)
			i++
		case c == '{' && inSingle:
			if end := strings.IndexByte(body[i:], '}'); end >= 0 {
				path := body[i+1 : i+end]
				if isPlaceholderPath(path) {
					out.WriteString(`'"${`)
					out.WriteString(strings.ReplaceAll(path, ".", "_"))
					out.WriteString(`}"'`)
					i += end + 1
					continue
				}
			}
			out.WriteByte(c)
			i++
		case c == '$' && !inSingle:
			name, rest, ok := scanSpreadName(body[i+1:])
			if ok {
				if inDouble {
					out.WriteString(fmt.Sprintf(`"${%s[@]}"`, name))
				} else {
					out.WriteString(fmt.Sprintf("${%s[@]}", name))
				}
				i += 1 + (len(body[i+1:]) - len(rest))
				continue
			}
			out.WriteByte(c)
			i++
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// isPlaceholderPath reports whether path is a dotted identifier chain
// suitable for a `{name}`/`{a.b.c}` placeholder.
func isPlaceholderPath(path string) bool {
	if path == "" {
		return false
	}
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			return false
		}
		for j, r := range seg {
			if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (j > 0 && r >= '0' && r <= '9') {
				continue
			}
			return false
		}
	}
	return true
}

// scanSpreadName recognizes a `name...` spread immediately following a
// `$`, returning the bare name and the remainder of the string after the
// "...".
func scanSpreadName(rest string) (name string, remainder string, ok bool) {
	i := 0
	for i < len(rest) {
		r := rest[i]
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9') {
			i++
			continue
		}
		break
	}
	if i == 0 || !strings.HasPrefix(rest[i:], "...") {
		return "", rest, false
	}
	return rest[:i], rest[i+3:], true
}
