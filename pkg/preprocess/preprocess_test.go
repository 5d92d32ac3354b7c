package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/what386/lash-sub001/pkg/diag"
)

func run(t *testing.T, src string) (string, *diag.Bag) {
	t.Helper()
	bag := diag.New()
	out := New(bag, "", nil).Run(src)
	return out, bag
}

func TestRun_StripsShebangKeepingLineSlot(t *testing.T) {
	out, bag := run(t, "#!/usr/bin/env lash\nlet x = 1\n")
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, "\nlet x = 1\n", out)
}

func TestRun_StripsLineComment(t *testing.T) {
	out, bag := run(t, "let x = 1 // comment\n")
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, "let x = 1 \n", out)
}

func TestRun_LineCommentInsideStringIsPreserved(t *testing.T) {
	out, bag := run(t, `let x = "http://example.com"` + "\n")
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, "let x = \"http://example.com\"\n", out)
}

func TestRun_BlockCommentSpansLines(t *testing.T) {
	out, bag := run(t, "let x /* mid\ncomment */ = 1\n")
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, "let x \n = 1\n", out)
}

func TestRun_RawLiteralContentIsNeverStripped(t *testing.T) {
	out, bag := run(t, "let x = [[ // not a comment\n/* still not */ ]]\n")
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, "let x = [[ // not a comment\n/* still not */ ]]\n", out)
}

func TestRun_IfDefinedTrueBranch(t *testing.T) {
	out, bag := run(t, "@define DEBUG\n@if defined(DEBUG)\nlet x = 1\n@else\nlet x = 2\n@end\n")
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, "\n\nlet x = 1\n\n\n\n", out)
}

func TestRun_IfUndefinedFalseBranch(t *testing.T) {
	out, bag := run(t, "@if defined(DEBUG)\nlet x = 1\n@else\nlet x = 2\n@end\n")
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, "\n\n\nlet x = 2\n\n", out)
}

func TestRun_ElifChain(t *testing.T) {
	out, bag := run(t, "@define LEVEL=2\n@if LEVEL == 1\nlet x = 1\n@elif LEVEL == 2\nlet x = 2\n@else\nlet x = 3\n@end\n")
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, "\n\n\n\nlet x = 2\n\n\n\n", out)
}

func TestRun_ElifAfterElseIsError(t *testing.T) {
	_, bag := run(t, "@if true\nlet x = 1\n@else\nlet x = 2\n@elif false\nlet x = 3\n@end\n")
	assert.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.EDirectiveStructure, bag.Items()[0].Code)
}

func TestRun_UnclosedIfReportsError(t *testing.T) {
	_, bag := run(t, "@if true\nlet x = 1\n")
	assert.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.EDirectiveStructure, bag.Items()[0].Code)
}

func TestRun_UnknownDirective(t *testing.T) {
	_, bag := run(t, "@bogus\n")
	assert.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.EDirectiveUnknown, bag.Items()[0].Code)
}

func TestRun_RawBlockCopiesVerbatim(t *testing.T) {
	out, bag := run(t, "@raw\nfoo() { bar; }\n@end\n")
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, "[[\nfoo() { bar; }\n]]\n", out)
}

// TestRun_RawBlockForcesOpacityEvenForValidLashGrammar proves the raw
// block's content is wrapped in the '[[ ... ]]' sentinel unconditionally,
// not merely because the body happens to fail Lash's grammar: this body
// is itself a valid 'let' declaration, which must still surface wrapped
// for the lexer/parser rather than be handed back as plain text.
func TestRun_RawBlockForcesOpacityEvenForValidLashGrammar(t *testing.T) {
	out, bag := run(t, "@raw\nlet x = 5\n@end\n")
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, "[[\nlet x = 5\n]]\n", out)
}

func TestRun_RawBlockInsideInactiveIfIsBlanked(t *testing.T) {
	out, bag := run(t, "@if defined(DEBUG)\n@raw\nlet x = 5\n@end\n@end\n")
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, "\n\n\n\n\n", out)
}

func TestRun_ImportMissingFileReportsIOError(t *testing.T) {
	_, bag := run(t, `@import "missing.lash"` + "\n")
	assert.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.EImportIO, bag.Items()[0].Code)
}

func TestRun_ImportInsideRuntimeBlockIsRejected(t *testing.T) {
	_, bag := run(t, "fn f()\n@import \"x.lash\"\nend\n")
	assert.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.EImportUsage, bag.Items()[0].Code)
}

func TestRun_ImportWithIntoSplicesRawAssignment(t *testing.T) {
	bag := diag.New()
	importer := func(path string) (string, error) { return "hello\nworld", nil }
	out := New(bag, "/base", importer).Run(`@import "data.txt" into config` + "\n")
	assert.Equal(t, 0, bag.Len())
	assert.Equal(t, "let config = [[hello\nworld]]\n", out)
}

func TestCondEvaluator_Comparisons(t *testing.T) {
	testCases := []struct {
		define map[string]string
		expr   string
		want   bool
	}{
		{expr: "true && !false", want: true},
		{expr: "1 == 1", want: true},
		{expr: "1 == 2", want: false},
		{expr: `"a" == "a"`, want: true},
		{define: map[string]string{"X": "5"}, expr: "X == 5", want: true},
		{define: map[string]string{"X": "5"}, expr: "defined(X)", want: true},
		{expr: "defined(Y)", want: false},
	}
	for _, tc := range testCases {
		table := NewSymbolTable()
		for k, v := range tc.define {
			table.Define(k, ParseDefine(v))
		}
		got, err := newCondEvaluator(tc.expr, table).Eval()
		assert.NoError(t, err, tc.expr)
		assert.Equal(t, tc.want, got, tc.expr)
	}
}
