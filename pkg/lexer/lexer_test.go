package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/what386/lash-sub001/pkg/diag"
	"github.com/what386/lash-sub001/pkg/token"
)

func tokenize(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	bag := diag.New()
	toks := New(src, bag).Tokenize()
	return toks, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func TestNextToken_IdentifiersAndKeywords(t *testing.T) {
	testCases := []struct {
		input        string
		expectedKind token.Kind
	}{
		{"let", token.KwLet},
		{"const", token.KwConst},
		{"fn", token.KwFn},
		{"enum", token.KwEnum},
		{"for", token.KwFor},
		{"in", token.KwIn},
		{"step", token.KwStep},
		{"subshell", token.KwSubshell},
		{"into", token.KwInto},
		{"trap", token.KwTrap},
		{"true", token.KwTrue},
		{"false", token.KwFalse},
		{"counter_1", token.Ident},
		{"_private", token.Ident},
		{"X", token.Ident},
	}
	for _, tc := range testCases {
		toks, bag := tokenize(t, tc.input)
		assert.Equal(t, 0, bag.Len(), "input %q", tc.input)
		assert.Equal(t, []token.Kind{tc.expectedKind, token.EOF}, kinds(toks), "input %q", tc.input)
		assert.Equal(t, tc.input, toks[0].Literal)
	}
}

func TestNextToken_IntLiteral(t *testing.T) {
	toks, bag := tokenize(t, "42")
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, []token.Kind{token.Int, token.EOF}, kinds(toks))
	assert.Equal(t, "42", toks[0].Literal)
}

func TestNextToken_StringLiteralWithEscapes(t *testing.T) {
	toks, bag := tokenize(t, `"hello\nworld\t\"quoted\""`)
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, []token.Kind{token.String, token.EOF}, kinds(toks))
	assert.Equal(t, "hello\nworld\t\"quoted\"", toks[0].Literal)
}

func TestNextToken_UnterminatedStringReportsError(t *testing.T) {
	toks, bag := tokenize(t, `"unterminated`)
	assert.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.ELex, bag.Items()[0].Code)
	assert.Equal(t, []token.Kind{token.String, token.EOF}, kinds(toks))
}

func TestNextToken_InterpolatedStringPreservesPlaceholders(t *testing.T) {
	toks, bag := tokenize(t, `$"hi {user.name}, count={counter}"`)
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, []token.Kind{token.InterpString, token.EOF}, kinds(toks))
	assert.Equal(t, "hi {user.name}, count={counter}", toks[0].Literal)
}

func TestNextToken_RawStringSpansMultipleLines(t *testing.T) {
	toks, bag := tokenize(t, "[[\nline one\n  line two\n]]")
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, []token.Kind{token.RawString, token.EOF}, kinds(toks))
	assert.Equal(t, "\nline one\n  line two\n", toks[0].Literal)
}

func TestNextToken_UnterminatedRawStringReportsError(t *testing.T) {
	toks, bag := tokenize(t, "[[ still open")
	assert.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.ELex, bag.Items()[0].Code)
	assert.Equal(t, []token.Kind{token.RawString, token.EOF}, kinds(toks))
}

func TestNextToken_DollarSh(t *testing.T) {
	toks, bag := tokenize(t, `$sh "echo hi"`)
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, []token.Kind{token.DollarSh, token.String, token.EOF}, kinds(toks))
}

func TestNextToken_Operators(t *testing.T) {
	testCases := []struct {
		input        string
		expectedKind token.Kind
	}{
		{"&&", token.AndAnd},
		{"||", token.OrOr},
		{"==", token.EqEq},
		{"!=", token.NotEq},
		{"<=", token.LtEq},
		{">=", token.GtEq},
		{"+=", token.PlusAssign},
		{"::", token.ColonColon},
		{"..", token.DotDot},
		{"+", token.Plus},
		{"-", token.Minus},
		{"!", token.Bang},
		{"|", token.Pipe},
		{"&", token.Amp},
	}
	for _, tc := range testCases {
		toks, bag := tokenize(t, tc.input)
		assert.Equal(t, 0, bag.Len(), "input %q", tc.input)
		assert.Equal(t, []token.Kind{tc.expectedKind, token.EOF}, kinds(toks), "input %q", tc.input)
	}
}

func TestNextToken_RedirectionOperators(t *testing.T) {
	testCases := []struct {
		input        string
		expectedKind token.Kind
	}{
		{">", token.RedirOut},
		{">>", token.RedirAppend},
		{"<", token.RedirIn},
		{"<<", token.RedirHeredoc},
		{"<<<", token.RedirHeredocStr},
		{"<>", token.RedirInOut},
		{"&>", token.RedirBoth},
		{"&>>", token.RedirBothAppend},
		{"2>", token.RedirErr},
		{"2>>", token.RedirErrAppend},
	}
	for _, tc := range testCases {
		toks, bag := tokenize(t, tc.input)
		assert.Equal(t, 0, bag.Len(), "input %q", tc.input)
		assert.Equal(t, []token.Kind{tc.expectedKind, token.EOF}, kinds(toks), "input %q", tc.input)
		assert.Equal(t, tc.input, toks[0].Literal)
	}
}

func TestNextToken_FdDupAndClose(t *testing.T) {
	toks, bag := tokenize(t, "2>&1")
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, []token.Kind{token.RedirFdDup, token.EOF}, kinds(toks))
	assert.Equal(t, "2>&1", toks[0].Literal)

	toks, bag = tokenize(t, "3>&-")
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, []token.Kind{token.RedirFdClose, token.EOF}, kinds(toks))
	assert.Equal(t, "3>&-", toks[0].Literal)
}

func TestNextToken_BareIntNotFollowedByRedirectIsPlainInt(t *testing.T) {
	toks, bag := tokenize(t, "2 + 2")
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, []token.Kind{token.Int, token.Plus, token.Int, token.EOF}, kinds(toks))
}

func TestNextToken_NewlineIsSignificant(t *testing.T) {
	toks, bag := tokenize(t, "let x = 1\nlet y = 2\n")
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, []token.Kind{
		token.KwLet, token.Ident, token.Assign, token.Int, token.Newline,
		token.KwLet, token.Ident, token.Assign, token.Int, token.Newline,
		token.EOF,
	}, kinds(toks))
}

func TestNextToken_TracksLineAndColumn(t *testing.T) {
	toks, _ := tokenize(t, "let x\n  = 1")
	assert.Equal(t, 1, toks[0].Loc.Line) // "let"
	assert.Equal(t, 0, toks[0].Loc.Column)
	assert.Equal(t, 1, toks[1].Loc.Line) // "x"
	assert.Equal(t, 4, toks[1].Loc.Column)
	// toks[2] is the Newline token itself; the "=" on line 2 is toks[3].
	assert.Equal(t, 2, toks[3].Loc.Line)
	assert.Equal(t, 2, toks[3].Loc.Column)
}

func TestNextToken_UnexpectedCharacterReportsError(t *testing.T) {
	toks, bag := tokenize(t, "@")
	assert.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.ELex, bag.Items()[0].Code)
	assert.Equal(t, []token.Kind{token.Invalid, token.EOF}, kinds(toks))
}
