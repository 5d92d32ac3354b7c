package parser

import (
	"strconv"
	"strings"

	"github.com/what386/lash-sub001/pkg/ast"
	"github.com/what386/lash-sub001/pkg/token"
)

// parseExpr is the entry point of the precedence-climbing expression
// grammar (spec.md §6.1), lowest precedence first:
// logical || / && < comparison < range(..) < additive < multiplicative
// < unary < postfix.
func (p *Parser) parseExpr() ast.Expression {
	return p.parseLogicalOr()
}

func (p *Parser) parseLogicalOr() ast.Expression {
	left := p.parseLogicalAnd()
	for p.is(token.OrOr) {
		loc := p.advance().Loc
		right := p.parseLogicalAnd()
		left = &ast.BinaryExpression{ExprBase: ast.ExprBase{Loc: loc}, Op: ast.OpOr, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseLogicalAnd() ast.Expression {
	left := p.parseComparison()
	for p.is(token.AndAnd) {
		loc := p.advance().Loc
		right := p.parseComparison()
		left = &ast.BinaryExpression{ExprBase: ast.ExprBase{Loc: loc}, Op: ast.OpAnd, Left: left, Right: right}
	}
	return left
}

var comparisonOps = map[token.Kind]ast.BinaryOp{
	token.EqEq:  ast.OpEq,
	token.NotEq: ast.OpNotEq,
	token.Lt:    ast.OpLt,
	token.Gt:    ast.OpGt,
	token.LtEq:  ast.OpLtEq,
	token.GtEq:  ast.OpGtEq,
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseRange()
	for {
		op, ok := comparisonOps[p.cur().Kind]
		if !ok {
			return left
		}
		loc := p.advance().Loc
		right := p.parseRange()
		left = &ast.BinaryExpression{ExprBase: ast.ExprBase{Loc: loc}, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseRange() ast.Expression {
	left := p.parseAdditive()
	if p.is(token.DotDot) {
		loc := p.advance().Loc
		right := p.parseAdditive()
		return &ast.RangeExpression{ExprBase: ast.ExprBase{Loc: loc}, Start: left, End: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseMultiplicative()
	for p.is(token.Plus) || p.is(token.Minus) {
		op := ast.OpAdd
		if p.cur().Kind == token.Minus {
			op = ast.OpSub
		}
		loc := p.advance().Loc
		right := p.parseMultiplicative()
		left = &ast.BinaryExpression{ExprBase: ast.ExprBase{Loc: loc}, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expression {
	left := p.parseUnary()
	for p.is(token.Star) || p.is(token.Slash) || p.is(token.Percent) {
		var op ast.BinaryOp
		switch p.cur().Kind {
		case token.Star:
			op = ast.OpMul
		case token.Slash:
			op = ast.OpDiv
		default:
			op = ast.OpMod
		}
		loc := p.advance().Loc
		right := p.parseUnary()
		left = &ast.BinaryExpression{ExprBase: ast.ExprBase{Loc: loc}, Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	switch p.cur().Kind {
	case token.Bang:
		loc := p.advance().Loc
		return &ast.UnaryExpression{ExprBase: ast.ExprBase{Loc: loc}, Op: ast.OpNot, Operand: p.parseUnary()}
	case token.Minus:
		loc := p.advance().Loc
		return &ast.UnaryExpression{ExprBase: ast.ExprBase{Loc: loc}, Op: ast.OpNeg, Operand: p.parseUnary()}
	case token.Plus:
		loc := p.advance().Loc
		return &ast.UnaryExpression{ExprBase: ast.ExprBase{Loc: loc}, Op: ast.OpPos, Operand: p.parseUnary()}
	case token.Hash:
		loc := p.advance().Loc
		return &ast.UnaryExpression{ExprBase: ast.ExprBase{Loc: loc}, Op: ast.OpLen, Operand: p.parseUnary()}
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parsePrimary()
	for {
		switch {
		case p.is(token.LBracket):
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBracket, "index expression")
			expr = &ast.IndexAccessExpression{ExprBase: ast.ExprBase{Loc: expr.Location()}, Target: expr, Index: idx}
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur()
	switch tok.Kind {
	case token.Int:
		p.advance()
		return &ast.LiteralExpression{ExprBase: ast.ExprBase{Loc: tok.Loc}, Value: tok.Literal, LiteralType: ast.IntLiteral}
	case token.String:
		p.advance()
		return &ast.LiteralExpression{ExprBase: ast.ExprBase{Loc: tok.Loc}, Value: tok.Literal, LiteralType: ast.StringLiteral}
	case token.InterpString:
		p.advance()
		return &ast.LiteralExpression{ExprBase: ast.ExprBase{Loc: tok.Loc}, Value: tok.Literal, LiteralType: ast.StringLiteral, IsInterpolated: true}
	case token.RawString:
		p.advance()
		return &ast.LiteralExpression{ExprBase: ast.ExprBase{Loc: tok.Loc}, Value: tok.Literal, LiteralType: ast.StringLiteral, IsMultiline: true}
	case token.KwTrue, token.KwFalse:
		p.advance()
		return &ast.LiteralExpression{ExprBase: ast.ExprBase{Loc: tok.Loc}, Value: tok.Literal, LiteralType: ast.BoolLiteral}
	case token.DollarSh:
		p.advance()
		payload := p.parseExpr()
		return &ast.ShellCaptureExpression{ExprBase: ast.ExprBase{Loc: tok.Loc}, Payload: payload}
	case token.LBracket:
		return p.parseArrayLiteral()
	case token.LParen:
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RParen, "parenthesized expression")
		return inner
	case token.Ident:
		return p.parseIdentLed()
	default:
		p.errorf(tok.Loc, "expected expression, found %s", tok.Kind)
		p.advance()
		return &ast.NullLiteral{ExprBase: ast.ExprBase{Loc: tok.Loc}}
	}
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	loc := p.advance().Loc // '['
	var elems []ast.Expression
	if !p.is(token.RBracket) {
		for {
			elems = append(elems, p.parseExpr())
			if p.is(token.Comma) {
				p.advance()
				p.skipNewlines()
				continue
			}
			break
		}
	}
	p.expect(token.RBracket, "array literal")
	return &ast.ArrayLiteral{ExprBase: ast.ExprBase{Loc: loc}, Elements: elems}
}

// parseIdentLed resolves an identifier-headed primary into a function
// call, an enum-member access, or a plain identifier reference.
func (p *Parser) parseIdentLed() ast.Expression {
	nameTok := p.advance()
	switch {
	case p.is(token.LParen):
		p.advance()
		var args []ast.Expression
		if !p.is(token.RParen) {
			for {
				args = append(args, p.parseExpr())
				if p.is(token.Comma) {
					p.advance()
					continue
				}
				break
			}
		}
		p.expect(token.RParen, "function call arguments")
		return &ast.FunctionCallExpression{ExprBase: ast.ExprBase{Loc: nameTok.Loc}, Name: nameTok.Literal, Args: args}
	case p.is(token.ColonColon):
		p.advance()
		memberTok, _ := p.expect(token.Ident, "enum member access")
		return &ast.EnumAccessExpression{ExprBase: ast.ExprBase{Loc: nameTok.Loc}, EnumName: nameTok.Literal, Member: memberTok.Literal}
	default:
		return &ast.IdentifierExpression{ExprBase: ast.ExprBase{Loc: nameTok.Loc}, Name: nameTok.Literal}
	}
}

var redirectKinds = map[token.Kind]ast.RedirectKind{
	token.RedirOut:         ast.RedirStdout,
	token.RedirAppend:      ast.RedirStdoutAppend,
	token.RedirErr:         ast.RedirStderr,
	token.RedirErrAppend:   ast.RedirStderrAppend,
	token.RedirBoth:        ast.RedirBoth,
	token.RedirBothAppend:  ast.RedirBothAppend,
	token.RedirIn:          ast.RedirStdin,
	token.RedirInOut:       ast.RedirStdinStdout,
	token.RedirHeredocStr:  ast.RedirHeredocStr,
	token.RedirHeredoc:     ast.RedirHeredoc,
	token.RedirFdDup:       ast.RedirFdDup,
	token.RedirFdClose:     ast.RedirFdClose,
}

func (p *Parser) isRedirectToken() bool {
	_, ok := redirectKinds[p.cur().Kind]
	return ok
}

// parsePipelineExpression parses a statement-level expression: a single
// stage or a "|"-chained pipeline, with trailing redirection operators
// attached to the resulting expression (spec.md §4.2). A pipeline whose
// final stage is a bare identifier (rather than a call) is a pipe-sink
// assignment target, left for pkg/codegen to detect and lower.
func (p *Parser) parsePipelineExpression() ast.Expression {
	first := p.parseExpr()
	stages := []ast.Expression{first}
	for p.is(token.Pipe) {
		p.advance()
		stages = append(stages, p.parseExpr())
	}
	var expr ast.Expression
	if len(stages) == 1 {
		expr = stages[0]
	} else {
		expr = &ast.PipeExpression{ExprBase: ast.ExprBase{Loc: stages[0].Location()}, Stages: stages}
	}
	for p.isRedirectToken() {
		expr = p.parseOneRedirect(expr)
	}
	if p.is(token.Amp) {
		// Trailing background marker on an expression statement; consumed
		// here so callers never see a stray Amp token left on the line.
		p.advance()
	}
	return expr
}

// parseOneRedirect consumes a single redirection operator applying to
// src, decoding any embedded file-descriptor digits from the operator's
// literal text for the fd-prefixed and fd-dup/close forms.
func (p *Parser) parseOneRedirect(src ast.Expression) ast.Expression {
	tok := p.advance()
	kind := redirectKinds[tok.Kind]
	loc := tok.Loc

	switch tok.Kind {
	case token.RedirFdDup:
		fd, tfd := splitFdDup(tok.Literal)
		return &ast.RedirectExpression{ExprBase: ast.ExprBase{Loc: loc}, Source: src, Kind: kind, Fd: fd, TargetFd: tfd}
	case token.RedirFdClose:
		fd := splitFdClose(tok.Literal)
		return &ast.RedirectExpression{ExprBase: ast.ExprBase{Loc: loc}, Source: src, Kind: kind, Fd: fd}
	case token.RedirErr, token.RedirErrAppend:
		fd := leadingFd(tok.Literal)
		target := p.parseUnary()
		return &ast.RedirectExpression{ExprBase: ast.ExprBase{Loc: loc}, Source: src, Kind: kind, Fd: fd, Target: target}
	default:
		target := p.parseUnary()
		return &ast.RedirectExpression{ExprBase: ast.ExprBase{Loc: loc}, Source: src, Kind: kind, Target: target}
	}
}

// leadingFd extracts the leading decimal run of a redirect literal like
// "2>" or "2>>" ("" never reaches here with no digits, see
// Lexer.scanNumberOrRedirect).
func leadingFd(lit string) int {
	n := 0
	for n < len(lit) && lit[n] >= '0' && lit[n] <= '9' {
		n++
	}
	v, _ := strconv.Atoi(lit[:n])
	return v
}

// splitFdDup decodes "n>&m" into (n, m).
func splitFdDup(lit string) (int, int) {
	i := strings.Index(lit, ">&")
	if i < 0 {
		return 0, 0
	}
	fd, _ := strconv.Atoi(lit[:i])
	tfd, _ := strconv.Atoi(lit[i+2:])
	return fd, tfd
}

// splitFdClose decodes "n>&-" into n.
func splitFdClose(lit string) int {
	i := strings.Index(lit, ">&")
	if i < 0 {
		return 0
	}
	fd, _ := strconv.Atoi(lit[:i])
	return fd
}
