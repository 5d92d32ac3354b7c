// Package lexer implements the hand-written, cursor-based scanner that
// turns preprocessed Lash source into a flat token stream for pkg/parser.
//
// The scanning style (a byte cursor plus a switch on the lookahead
// character, with position tracked by a small line/column cursor helper)
// is grounded on EngFlow-gazelle_cc's C lexer
// (language/internal/cc/lexer/lexer.go); this lexer is simpler because
// comment stripping already happened in pkg/preprocess before the text
// reaches here (spec.md §4.1), so Next never has to special-case
// comments.
package lexer

import (
	"strings"

	"github.com/what386/lash-sub001/pkg/diag"
	"github.com/what386/lash-sub001/pkg/source"
	"github.com/what386/lash-sub001/pkg/token"
)

// Lexer scans preprocessed Lash source text into token.Token values.
type Lexer struct {
	src  string
	pos  int
	loc  source.Location
	bag  *diag.Bag
}

// New creates a Lexer over src, reporting lexical errors into bag.
func New(src string, bag *diag.Bag) *Lexer {
	return &Lexer{src: src, pos: 0, loc: source.Location{Line: 1, Column: 0}, bag: bag}
}

// Tokenize scans the entire input and returns the resulting token stream,
// always terminated by a single token.EOF token.
func (l *Lexer) Tokenize() []token.Token {
	var out []token.Token
	for {
		t := l.Next()
		out = append(out, t)
		if t.Kind == token.EOF {
			return out
		}
	}
}

func (l *Lexer) rest() string { return l.src[l.pos:] }

func (l *Lexer) peekByte(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

// consume advances the cursor past n bytes of src, updating loc, and
// returns the consumed text.
func (l *Lexer) consume(n int) string {
	text := l.src[l.pos : l.pos+n]
	l.pos += n
	l.loc = advance(l.loc, text)
	return text
}

func (l *Lexer) emit(kind token.Kind, startLoc source.Location, n int) token.Token {
	text := l.consume(n)
	return token.Token{Kind: kind, Literal: text, Loc: startLoc}
}

// Next scans and returns the next token, skipping horizontal whitespace
// (newlines are significant — see pkg/parser's use of token.Newline to
// delimit bare CommandStatement lines, spec.md §4.2).
func (l *Lexer) Next() token.Token {
	l.skipHorizontalSpace()

	if l.pos >= len(l.src) {
		return token.Token{Kind: token.EOF, Loc: l.loc}
	}

	start := l.loc
	c := l.src[l.pos]

	switch {
	case c == '\n':
		return l.emit(token.Newline, start, 1)
	case c == '\r':
		// normalized away by the preprocessor in practice; skip defensively.
		l.consume(1)
		return l.Next()
	case isDigit(c):
		return l.scanNumberOrRedirect(start)
	case c == '"':
		return l.scanString(start, false)
	case c == '$' && l.peekByte(1) == '"':
		l.consume(1)
		return l.scanString(start, true)
	case c == '$' && strings.HasPrefix(l.rest()[1:], "sh") && !isIdentCont(l.peekByte(3)):
		return l.emit(token.DollarSh, start, 3)
	case c == '[' && l.peekByte(1) == '[':
		return l.scanRawString(start)
	case isIdentStart(c):
		return l.scanIdentOrKeyword(start)
	default:
		return l.scanOperator(start)
	}
}

func (l *Lexer) skipHorizontalSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t':
			l.consume(1)
		default:
			return
		}
	}
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentCont(c byte) bool  { return isIdentStart(c) || isDigit(c) }

func (l *Lexer) scanIdentOrKeyword(start source.Location) token.Token {
	n := 0
	for n < len(l.rest()) && isIdentCont(l.rest()[n]) {
		n++
	}
	text := l.consume(n)
	if kw, ok := token.Keywords[text]; ok {
		return token.Token{Kind: kw, Literal: text, Loc: start}
	}
	return token.Token{Kind: token.Ident, Literal: text, Loc: start}
}

// scanNumberOrRedirect scans a decimal digit run and decides, based on what
// immediately follows with no intervening whitespace, whether this is a
// plain integer literal or the leading file-descriptor number of a
// redirection operator (2>, 2>>, n>&m, n>&-) per spec.md §4.2's lexical
// rule list.
func (l *Lexer) scanNumberOrRedirect(start source.Location) token.Token {
	n := 0
	for n < len(l.rest()) && isDigit(l.rest()[n]) {
		n++
	}
	numText := l.rest()[:n]

	if n < len(l.rest()) && l.rest()[n] == '>' {
		switch {
		case n+1 < len(l.rest()) && l.rest()[n+1] == '>':
			return l.emit(token.RedirErrAppend, start, n+2)
		case n+1 < len(l.rest()) && l.rest()[n+1] == '&':
			return l.scanFdDupOrClose(start, numText, n)
		default:
			return l.emit(token.RedirErr, start, n+1)
		}
	}

	return l.emit(token.Int, start, n)
}

// scanFdDupOrClose completes "n>&m" or "n>&-" once the prefix "n>&" is
// known to be present at offset fdLen in the remaining input.
func (l *Lexer) scanFdDupOrClose(start source.Location, numText string, fdLen int) token.Token {
	after := fdLen + 2 // past "n>&"
	rest := l.rest()
	if after < len(rest) && rest[after] == '-' {
		return l.emit(token.RedirFdClose, start, after+1)
	}
	m := 0
	for after+m < len(rest) && isDigit(rest[after+m]) {
		m++
	}
	if m > 0 {
		return l.emit(token.RedirFdDup, start, after+m)
	}
	// Malformed "n>&" with no '-' or digit following; report and recover by
	// treating the number alone as an integer literal.
	l.bag.Addf(diag.Error, diag.ELex, start.Line, start.Column, "invalid file-descriptor redirection after %q", numText+">&")
	return l.emit(token.Int, start, fdLen)
}

// scanOperator scans a symbolic operator or punctuation token.
func (l *Lexer) scanOperator(start source.Location) token.Token {
	rest := l.rest()
	two := ""
	if len(rest) >= 2 {
		two = rest[:2]
	}
	three := ""
	if len(rest) >= 3 {
		three = rest[:3]
	}

	switch {
	case three == "<<<":
		return l.emit(token.RedirHeredocStr, start, 3)
	case three == "&>>":
		return l.emit(token.RedirBothAppend, start, 3)
	case two == "<<":
		return l.emit(token.RedirHeredoc, start, 2)
	case two == "<>":
		return l.emit(token.RedirInOut, start, 2)
	case two == "&>":
		return l.emit(token.RedirBoth, start, 2)
	case two == ">>":
		return l.emit(token.RedirAppend, start, 2)
	case two == "&&":
		return l.emit(token.AndAnd, start, 2)
	case two == "||":
		return l.emit(token.OrOr, start, 2)
	case two == "==":
		return l.emit(token.EqEq, start, 2)
	case two == "!=":
		return l.emit(token.NotEq, start, 2)
	case two == "<=":
		return l.emit(token.LtEq, start, 2)
	case two == ">=":
		return l.emit(token.GtEq, start, 2)
	case two == "+=":
		return l.emit(token.PlusAssign, start, 2)
	case two == "::":
		return l.emit(token.ColonColon, start, 2)
	case two == "..":
		return l.emit(token.DotDot, start, 2)
	}

	switch rest[0] {
	case '(':
		return l.emit(token.LParen, start, 1)
	case ')':
		return l.emit(token.RParen, start, 1)
	case '[':
		return l.emit(token.LBracket, start, 1)
	case ']':
		return l.emit(token.RBracket, start, 1)
	case ',':
		return l.emit(token.Comma, start, 1)
	case ':':
		return l.emit(token.Colon, start, 1)
	case '.':
		return l.emit(token.Dot, start, 1)
	case '=':
		return l.emit(token.Assign, start, 1)
	case '+':
		return l.emit(token.Plus, start, 1)
	case '-':
		return l.emit(token.Minus, start, 1)
	case '*':
		return l.emit(token.Star, start, 1)
	case '/':
		return l.emit(token.Slash, start, 1)
	case '%':
		return l.emit(token.Percent, start, 1)
	case '#':
		return l.emit(token.Hash, start, 1)
	case '!':
		return l.emit(token.Bang, start, 1)
	case '<':
		return l.emit(token.RedirIn, start, 1)
	case '>':
		return l.emit(token.RedirOut, start, 1)
	case '|':
		return l.emit(token.Pipe, start, 1)
	case '&':
		return l.emit(token.Amp, start, 1)
	default:
		l.bag.Addf(diag.Error, diag.ELex, start.Line, start.Column, "unexpected character %q", rest[0])
		return l.emit(token.Invalid, start, 1)
	}
}

// scanString scans a "..." or (when interp is true) the body of a $"..."
// literal, decoding backslash escapes. Interpolation placeholders
// ("{identifier.path}") are left untouched in the decoded literal; they
// are expanded later by pkg/codegen.
func (l *Lexer) scanString(start source.Location, interp bool) token.Token {
	quoteLoc := l.loc
	l.consume(1) // opening quote
	var b strings.Builder
	closed := false
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '"' {
			l.consume(1)
			closed = true
			break
		}
		if c == '\n' {
			break // unterminated; stop before consuming the newline
		}
		if c == '\\' && l.pos+1 < len(l.src) {
			esc := l.src[l.pos+1]
			l.consume(2)
			b.WriteByte(decodeEscape(esc))
			continue
		}
		b.WriteByte(c)
		l.consume(1)
	}
	if !closed {
		l.bag.Addf(diag.Error, diag.ELex, quoteLoc.Line, quoteLoc.Column, "unterminated string literal")
	}
	kind := token.String
	if interp {
		kind = token.InterpString
	}
	return token.Token{Kind: kind, Literal: b.String(), Loc: start}
}

func decodeEscape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	default:
		return c // \\, \", \$, \{, \} and anything else pass through literally.
	}
}

// scanRawString scans a [[ ... ]] multiline literal, preserving interior
// content (including newlines) verbatim up to the matching "]]".
func (l *Lexer) scanRawString(start source.Location) token.Token {
	openLoc := l.loc
	l.consume(2) // "[["
	end := strings.Index(l.rest(), "]]")
	if end == -1 {
		l.bag.Addf(diag.Error, diag.ELex, openLoc.Line, openLoc.Column, "unterminated raw string literal, missing closing ']]'")
		text := l.consume(len(l.rest()))
		return token.Token{Kind: token.RawString, Literal: text, Loc: start}
	}
	text := l.consume(end)
	l.consume(2) // "]]"
	return token.Token{Kind: token.RawString, Literal: text, Loc: start}
}
