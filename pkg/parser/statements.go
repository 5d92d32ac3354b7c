package parser

import (
	"strings"

	"github.com/what386/lash-sub001/pkg/ast"
	"github.com/what386/lash-sub001/pkg/source"
	"github.com/what386/lash-sub001/pkg/token"
)

// parseBody parses statements until the current token is one of enders,
// EOF, or a genuine parse failure stalls progress.
func (p *Parser) parseBody(enders ...token.Kind) []ast.Statement {
	var stmts []ast.Statement
	p.skipNewlines()
	for !p.atEOF() && !p.atAny(enders...) {
		start := p.pos
		if s := p.parseStatement(); s != nil {
			stmts = append(stmts, s)
		}
		if p.pos == start {
			p.advance()
		}
		p.skipToNextLine()
		p.skipNewlines()
	}
	return stmts
}

func (p *Parser) atAny(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.is(k) {
			return true
		}
	}
	return false
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Kind {
	case token.KwGlobal:
		return p.parseGlobalLed()
	case token.KwLet, token.KwConst:
		return p.parseVarDecl(false)
	case token.KwFn:
		return p.parseFnDecl()
	case token.KwEnum:
		return p.parseEnumDecl()
	case token.KwIf:
		return p.parseIf()
	case token.KwSwitch:
		return p.parseSwitch()
	case token.KwFor:
		return p.parseFor()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwUntil:
		return p.parseUntil()
	case token.KwSh:
		return p.parseSh()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwShift:
		return p.parseShift()
	case token.KwSubshell:
		return p.parseSubshell()
	case token.KwWait:
		return p.parseWait()
	case token.KwBreak:
		loc := p.advance().Loc
		return &ast.BreakStatement{StmtBase: ast.StmtBase{Loc: loc}}
	case token.KwContinue:
		loc := p.advance().Loc
		return &ast.ContinueStatement{StmtBase: ast.StmtBase{Loc: loc}}
	case token.KwTrap:
		return p.parseTrap()
	case token.KwUntrap:
		return p.parseUntrap()
	default:
		return p.parseAssignmentExprOrCommand()
	}
}

func (p *Parser) parseGlobalLed() ast.Statement {
	p.advance() // 'global'
	if p.is(token.KwLet) || p.is(token.KwConst) {
		return p.parseVarDecl(true)
	}
	return p.parseAssignmentTarget(true)
}

func (p *Parser) parseVarDecl(isGlobal bool) ast.Statement {
	loc := p.cur().Loc
	kind := ast.Let
	if p.is(token.KwConst) {
		kind = ast.Const
	}
	p.advance()
	nameTok, _ := p.expect(token.Ident, "variable declaration")
	var value ast.Expression
	if p.is(token.Assign) {
		p.advance()
		value = p.parseExpr()
	}
	return &ast.VariableDeclaration{
		StmtBase: ast.StmtBase{Loc: loc}, Kind: kind, IsGlobal: isGlobal,
		Name: nameTok.Literal, Value: value,
	}
}

func (p *Parser) parseFnDecl() ast.Statement {
	loc := p.cur().Loc
	fnTok := p.advance()
	nameTok, _ := p.expect(token.Ident, "function name")
	p.expect(token.LParen, "function parameter list")
	var params []ast.Param
	if !p.is(token.RParen) {
		for {
			pname, _ := p.expect(token.Ident, "parameter name")
			var def ast.Expression
			if p.is(token.Assign) {
				p.advance()
				def = p.parseExpr()
			}
			params = append(params, ast.Param{Name: pname.Literal, Default: def})
			if p.is(token.Comma) {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.RParen, "function parameter list")
	body := p.parseBody(token.KwEnd)
	p.expectEnd(fnTok)
	return &ast.FunctionDeclaration{StmtBase: ast.StmtBase{Loc: loc}, Name: nameTok.Literal, Params: params, Body: body}
}

func (p *Parser) parseEnumDecl() ast.Statement {
	loc := p.cur().Loc
	enumTok := p.advance()
	nameTok, _ := p.expect(token.Ident, "enum name")
	var members []string
	for p.is(token.Ident) {
		members = append(members, p.advance().Literal)
	}
	p.expectEnd(enumTok)
	return &ast.EnumDeclaration{StmtBase: ast.StmtBase{Loc: loc}, Name: nameTok.Literal, Members: members}
}

func (p *Parser) parseIf() ast.Statement {
	loc := p.cur().Loc
	ifTok := p.advance()
	cond := p.parseExpr()
	then := p.parseBody(token.KwElif, token.KwElse, token.KwEnd)
	var elifs []ast.ElifClause
	for p.is(token.KwElif) {
		p.advance()
		c := p.parseExpr()
		b := p.parseBody(token.KwElif, token.KwElse, token.KwEnd)
		elifs = append(elifs, ast.ElifClause{Cond: c, Body: b})
	}
	var elseBody []ast.Statement
	hasElse := false
	if p.is(token.KwElse) {
		p.advance()
		hasElse = true
		elseBody = p.parseBody(token.KwEnd)
	}
	p.expectEnd(ifTok)
	return &ast.IfStatement{StmtBase: ast.StmtBase{Loc: loc}, Cond: cond, Then: then, Elifs: elifs, Else: elseBody, HasElse: hasElse}
}

func (p *Parser) parseSwitch() ast.Statement {
	loc := p.cur().Loc
	swTok := p.advance()
	scrutinee := p.parseExpr()
	p.skipNewlines()
	var cases []ast.CaseClause
	for p.is(token.KwCase) {
		p.advance()
		pattern := p.parseExpr()
		p.expect(token.Colon, "switch case clause")
		body := p.parseBody(token.KwCase, token.KwEnd)
		cases = append(cases, ast.CaseClause{Pattern: pattern, Body: body})
	}
	p.expectEnd(swTok)
	return &ast.SwitchStatement{StmtBase: ast.StmtBase{Loc: loc}, Scrutinee: scrutinee, Cases: cases}
}

func (p *Parser) parseFor() ast.Statement {
	loc := p.cur().Loc
	forTok := p.advance()
	varTok, _ := p.expect(token.Ident, "for-loop variable")
	p.expect(token.KwIn, "for loop")
	iter := p.parseExpr()
	var step ast.Expression
	if p.is(token.KwStep) {
		p.advance()
		step = p.parseExpr()
	}
	body := p.parseBody(token.KwEnd)
	p.expectEnd(forTok)
	return &ast.ForLoop{StmtBase: ast.StmtBase{Loc: loc}, Variable: varTok.Literal, Iterable: iter, Step: step, Body: body}
}

func (p *Parser) parseWhile() ast.Statement {
	loc := p.cur().Loc
	whileTok := p.advance()
	cond := p.parseExpr()
	body := p.parseBody(token.KwEnd)
	p.expectEnd(whileTok)
	return &ast.WhileLoop{StmtBase: ast.StmtBase{Loc: loc}, Cond: cond, Body: body}
}

func (p *Parser) parseUntil() ast.Statement {
	loc := p.cur().Loc
	untilTok := p.advance()
	cond := p.parseExpr()
	body := p.parseBody(token.KwEnd)
	p.expectEnd(untilTok)
	return &ast.UntilLoop{StmtBase: ast.StmtBase{Loc: loc}, Cond: cond, Body: body}
}

func (p *Parser) parseSh() ast.Statement {
	loc := p.cur().Loc
	p.advance()
	payload := p.parseExpr()
	return &ast.ShellStatement{StmtBase: ast.StmtBase{Loc: loc}, Payload: payload}
}

func (p *Parser) parseReturn() ast.Statement {
	loc := p.cur().Loc
	p.advance()
	var value ast.Expression
	if !p.is(token.Newline) && !p.atEOF() {
		value = p.parseExpr()
	}
	return &ast.ReturnStatement{StmtBase: ast.StmtBase{Loc: loc}, Value: value}
}

func (p *Parser) parseShift() ast.Statement {
	loc := p.cur().Loc
	p.advance()
	var amount ast.Expression
	if !p.is(token.Newline) && !p.atEOF() {
		amount = p.parseExpr()
	}
	return &ast.ShiftStatement{StmtBase: ast.StmtBase{Loc: loc}, Amount: amount}
}

// parseCapture parses an optional "into [let|const] name" clause shared
// by subshell and wait statements.
func (p *Parser) parseCapture() ast.Capture {
	if !p.is(token.KwInto) {
		return ast.Capture{}
	}
	p.advance()
	mode := ast.CaptureAuto
	if p.is(token.KwLet) {
		p.advance()
		mode = ast.CaptureLet
	} else if p.is(token.KwConst) {
		p.advance()
		mode = ast.CaptureConst
	}
	nameTok, _ := p.expect(token.Ident, "'into' capture name")
	return ast.Capture{Present: true, Mode: mode, Name: nameTok.Literal}
}

func (p *Parser) parseSubshell() ast.Statement {
	loc := p.cur().Loc
	subTok := p.advance()
	into := p.parseCapture()
	body := p.parseBody(token.KwEnd)
	p.expectEnd(subTok)
	background := false
	if p.is(token.Amp) {
		p.advance()
		background = true
	}
	return &ast.SubshellStatement{StmtBase: ast.StmtBase{Loc: loc}, Into: into, RunInBackground: background, Body: body}
}

func (p *Parser) parseWait() ast.Statement {
	loc := p.cur().Loc
	p.advance()
	kind := ast.WaitDefault
	var target ast.Expression
	switch {
	case p.is(token.KwJobs):
		p.advance()
		kind = ast.WaitJobs
	case !p.is(token.KwInto) && !p.is(token.Newline) && !p.atEOF():
		kind = ast.WaitTarget
		target = p.parseExpr()
	}
	into := p.parseCapture()
	return &ast.WaitStatement{StmtBase: ast.StmtBase{Loc: loc}, Kind: kind, Target: target, Into: into}
}

// parseTrap parses `trap expr on SIGNAL (, SIGNAL)*`. 'on' has meaning
// only in this one construct, so the lexer emits it as a plain Ident
// rather than a dedicated keyword; the parser checks its literal text.
func (p *Parser) parseTrap() ast.Statement {
	loc := p.cur().Loc
	p.advance()
	handler := p.parseExpr()
	if p.is(token.Ident) && p.cur().Literal == "on" {
		p.advance()
	} else {
		p.errorf(p.cur().Loc, "expected 'on' in trap statement, found %s", p.cur().Kind)
	}
	var signals []string
	for {
		sigTok, ok := p.expect(token.Ident, "trap signal name")
		if !ok {
			break
		}
		signals = append(signals, sigTok.Literal)
		if p.is(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	return &ast.TrapStatement{StmtBase: ast.StmtBase{Loc: loc}, Handler: handler, Signals: signals}
}

func (p *Parser) parseUntrap() ast.Statement {
	loc := p.cur().Loc
	p.advance()
	sigTok, _ := p.expect(token.Ident, "untrap signal name")
	return &ast.UntrapStatement{StmtBase: ast.StmtBase{Loc: loc}, Signal: sigTok.Literal}
}

// parseAssignmentExprOrCommand resolves the ambiguity at the head of a
// top-level logical line between an assignment, a parenthesized-call
// expression statement (possibly piped/redirected), and a bare shell
// command line that the grammar otherwise has no production for
// (spec.md §4.2 "Bare command rewriting").
func (p *Parser) parseAssignmentExprOrCommand() ast.Statement {
	loc := p.cur().Loc
	if p.is(token.RawString) {
		return p.parseRawBlockStatement(loc)
	}
	if p.is(token.Ident) {
		save := p.pos
		target := p.parseAssignTargetExpr()
		if p.is(token.Assign) || p.is(token.PlusAssign) {
			op := ast.OpAssign
			if p.cur().Kind == token.PlusAssign {
				op = ast.OpPlusAssign
			}
			p.advance()
			value := p.parseExpr()
			return &ast.Assignment{StmtBase: ast.StmtBase{Loc: loc}, Operator: op, Target: target, Value: value}
		}
		p.pos = save
	}

	if p.is(token.Ident) && p.peekAt(1).Kind == token.LParen {
		expr := p.parsePipelineExpression()
		return &ast.ExpressionStatement{StmtBase: ast.StmtBase{Loc: loc}, Expr: expr}
	}

	return p.parseCommandStatement(loc)
}

// parseAssignmentTarget is the 'global'-prefixed sibling of
// parseAssignmentExprOrCommand's assignment branch: 'global' always
// precedes a genuine assignment or var-decl, never a bare command.
func (p *Parser) parseAssignmentTarget(isGlobal bool) ast.Statement {
	loc := p.cur().Loc
	target := p.parseAssignTargetExpr()
	op := ast.OpAssign
	if p.is(token.PlusAssign) {
		op = ast.OpPlusAssign
	}
	p.expectOneOf(token.Assign, token.PlusAssign)
	value := p.parseExpr()
	return &ast.Assignment{StmtBase: ast.StmtBase{Loc: loc}, IsGlobal: isGlobal, Operator: op, Target: target, Value: value}
}

func (p *Parser) expectOneOf(kinds ...token.Kind) {
	if p.atAny(kinds...) {
		p.advance()
		return
	}
	p.errorf(p.cur().Loc, "expected assignment operator, found %s", p.cur().Kind)
}

// parseAssignTargetExpr parses an assignment target: a bare identifier
// optionally followed by one or more index-access brackets.
func (p *Parser) parseAssignTargetExpr() ast.Expression {
	nameTok, _ := p.expect(token.Ident, "assignment target")
	var target ast.Expression = &ast.IdentifierExpression{ExprBase: ast.ExprBase{Loc: nameTok.Loc}, Name: nameTok.Literal}
	for p.is(token.LBracket) {
		p.advance()
		idx := p.parseExpr()
		p.expect(token.RBracket, "index expression")
		target = &ast.IndexAccessExpression{ExprBase: ast.ExprBase{Loc: nameTok.Loc}, Target: target, Index: idx}
	}
	return target
}

// parseRawBlockStatement turns a statement that starts with a whole
// '[[ ... ]]' raw-string token into an opaque CommandStatement built
// straight from the token's already-verbatim Literal, rather than falling
// through to parseCommandStatement's single-physical-line capture, which
// would truncate a raw-string spanning multiple lines (as pkg/preprocess
// emits for an '@raw ... @end' block, spec.md §4.1).
func (p *Parser) parseRawBlockStatement(loc source.Location) ast.Statement {
	tok := p.advance()
	script := strings.Trim(tok.Literal, "\n")
	return &ast.CommandStatement{StmtBase: ast.StmtBase{Loc: loc}, Script: script, IsRawLiteral: true}
}

// parseCommandStatement captures the original text of the current
// physical line verbatim as a CommandStatement, per spec.md §4.2, then
// advances the cursor past every token on that line.
func (p *Parser) parseCommandStatement(loc source.Location) ast.Statement {
	text := strings.TrimSpace(p.sourceLine(loc.Line))
	isRaw := strings.Contains(text, "[[") && strings.Contains(text, "]]")
	for !p.is(token.Newline) && !p.atEOF() {
		p.advance()
	}
	return &ast.CommandStatement{StmtBase: ast.StmtBase{Loc: loc}, Script: text, IsRawLiteral: isRaw}
}
