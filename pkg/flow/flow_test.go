package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/what386/lash-sub001/pkg/diag"
	"github.com/what386/lash-sub001/pkg/lexer"
	"github.com/what386/lash-sub001/pkg/parser"
)

func run(t *testing.T, src string) *diag.Bag {
	t.Helper()
	bag := diag.New()
	toks := lexer.New(src, bag).Tokenize()
	prog := parser.New(toks, src, bag).ParseProgram()
	Check(prog, bag)
	return bag
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestFlow_DeclareWithInitializerThenReadIsFine(t *testing.T) {
	bag := run(t, "let x = 1\nlet y = x + 1\n")
	assert.Equal(t, 0, bag.Len())
}

func TestFlow_ReadBeforeInitializationIsError(t *testing.T) {
	bag := run(t, "let x\nlet y = x + 1\n")
	assert.Contains(t, codes(bag), diag.EDefiniteAssignment)
}

func TestFlow_AssignmentAfterUninitializedDeclSatisfiesLaterRead(t *testing.T) {
	bag := run(t, "let x\nx = 1\nlet y = x + 1\n")
	assert.Equal(t, 0, bag.Len())
}

func TestFlow_AssignedOnBothIfBranchesIsDefinite(t *testing.T) {
	src := "let x\nif true\n  x = 1\nelse\n  x = 2\nend\nlet y = x\n"
	bag := run(t, src)
	assert.Equal(t, 0, bag.Len())
}

func TestFlow_AssignedOnOnlyOneIfBranchIsNotDefinite(t *testing.T) {
	src := "let x\nif true\n  x = 1\nend\nlet y = x\n"
	bag := run(t, src)
	assert.Contains(t, codes(bag), diag.EDefiniteAssignment)
}

func TestFlow_AssignmentInsideLoopDoesNotEscapeAsDefinite(t *testing.T) {
	src := "let x\nwhile true\n  x = 1\nend\nlet y = x\n"
	bag := run(t, src)
	assert.Contains(t, codes(bag), diag.EDefiniteAssignment)
}

func TestFlow_AssignmentInsideSubshellDoesNotEscape(t *testing.T) {
	src := "let x\nsubshell\n  x = 1\nend\nlet y = x\n"
	bag := run(t, src)
	assert.Contains(t, codes(bag), diag.EDefiniteAssignment)
}

func TestFlow_DivideByConstantZeroIsError(t *testing.T) {
	bag := run(t, "let x = 1 / 0\n")
	assert.Contains(t, codes(bag), diag.EDivModByZero)
}

func TestFlow_ModByFoldedConstantZeroIsError(t *testing.T) {
	bag := run(t, "let x = 1 % (2 - 2)\n")
	assert.Contains(t, codes(bag), diag.EDivModByZero)
}

func TestFlow_DivideByNonZeroIsFine(t *testing.T) {
	bag := run(t, "let x = 1 / 2\n")
	assert.Equal(t, 0, bag.Len())
}

func TestFlow_NonPositiveShiftAmountIsError(t *testing.T) {
	bag := run(t, "fn f()\n  shift 0\nend\n")
	assert.Contains(t, codes(bag), diag.EBadShiftAmount)
}

func TestFlow_PositiveShiftAmountIsFine(t *testing.T) {
	bag := run(t, "fn f()\n  shift 2\nend\n")
	assert.Equal(t, 0, bag.Len())
}

func TestFlow_NonPositiveForStepIsError(t *testing.T) {
	bag := run(t, "for i in 1..10 step 0\nend\n")
	assert.Contains(t, codes(bag), diag.EBadForStep)
}

func TestFlow_PositiveForStepIsFine(t *testing.T) {
	bag := run(t, "for i in 1..10 step 2\nend\n")
	assert.Equal(t, 0, bag.Len())
}
