// Package parser implements the recursive-descent, precedence-climbing
// parser that turns a pkg/token stream into a pkg/ast tree (spec.md
// §4.2, grammar in §6.1). There is no parser in the teacher repo to
// generalize (it consumes go/parser directly), so this package is
// original within the teacher's package-shape convention: one parser
// struct, small per-production methods, and diagnostics pushed into the
// shared bag rather than returned as Go errors.
package parser

import (
	"strconv"
	"strings"

	"github.com/what386/lash-sub001/pkg/ast"
	"github.com/what386/lash-sub001/pkg/diag"
	"github.com/what386/lash-sub001/pkg/source"
	"github.com/what386/lash-sub001/pkg/token"
)

// Parser consumes a token stream (always EOF-terminated, see
// pkg/lexer.Lexer.Tokenize) and produces an *ast.Program.
type Parser struct {
	toks  []token.Token
	pos   int
	bag   *diag.Bag
	lines []string // original source lines, 0-indexed, for CommandStatement text capture
}

// New returns a Parser over toks, reporting into bag. src is the
// preprocessed source text the tokens were scanned from, used only to
// recover a bare command line's original text verbatim.
func New(toks []token.Token, src string, bag *diag.Bag) *Parser {
	return &Parser{toks: toks, bag: bag, lines: strings.Split(src, "\n")}
}

// ParseProgram parses the entire token stream into a Program, recovering
// from statement-level syntax errors by resynchronizing to the next
// line so multiple errors can surface in one pass (spec.md §4.2).
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	p.skipNewlines()
	for !p.atEOF() {
		start := p.pos
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		if p.pos == start {
			// No production consumed any token; avoid an infinite loop by
			// forcing progress past the offending token.
			p.advance()
		}
		p.skipToNextLine()
		p.skipNewlines()
	}
	return prog
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF sentinel
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(off int) token.Token {
	i := p.pos + off
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool { return p.cur().Kind == token.EOF }

func (p *Parser) is(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) skipNewlines() {
	for p.is(token.Newline) {
		p.advance()
	}
}

// skipToNextLine advances past any remaining tokens on the current
// logical line (error-recovery resync point), stopping before the
// terminating Newline/EOF.
func (p *Parser) skipToNextLine() {
	for !p.is(token.Newline) && !p.atEOF() {
		p.advance()
	}
}

func (p *Parser) errorf(loc source.Location, format string, args ...any) {
	p.bag.Addf(diag.Error, diag.ESyntax, loc.Line, loc.Column, format, args...)
}

// expect consumes the current token if it has kind k, else reports E001
// and leaves the cursor in place for recovery.
func (p *Parser) expect(k token.Kind, context string) (token.Token, bool) {
	if p.is(k) {
		return p.advance(), true
	}
	p.errorf(p.cur().Loc, "expected %s in %s, found %s", k, context, p.cur().Kind)
	return token.Token{}, false
}

// expectEnd consumes a closing 'end' keyword, reporting the specialized
// missing-end message plus an I001 hint at the opener's line when the
// stream runs out first (spec.md §4.2).
func (p *Parser) expectEnd(opener token.Token) {
	if p.is(token.KwEnd) {
		p.advance()
		return
	}
	p.errorf(p.cur().Loc, "Unexpected end of file: missing 'end' to close an open block")
	p.bag.Addf(diag.Info, diag.IUnclosedBlockHint, opener.Loc.Line, opener.Loc.Column,
		"block opened here with %q is never closed", opener.Literal)
}

// sourceLine returns the original text of a 1-based line number, used by
// bare-command rewriting to recover the line verbatim.
func (p *Parser) sourceLine(lineNo int) string {
	if lineNo-1 < 0 || lineNo-1 >= len(p.lines) {
		return ""
	}
	return p.lines[lineNo-1]
}

func parseIntLiteral(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
