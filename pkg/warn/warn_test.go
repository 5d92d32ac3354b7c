package warn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/what386/lash-sub001/pkg/diag"
	"github.com/what386/lash-sub001/pkg/lexer"
	"github.com/what386/lash-sub001/pkg/parser"
	"github.com/what386/lash-sub001/pkg/resolve"
)

func run(t *testing.T, src string) *diag.Bag {
	t.Helper()
	bag := diag.New()
	toks := lexer.New(src, bag).Tokenize()
	prog := parser.New(toks, src, bag).ParseProgram()
	idx := resolve.Resolve(prog, bag)
	Check(prog, idx, bag)
	return bag
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestWarn_UnreachableAfterReturn(t *testing.T) {
	bag := run(t, "fn f()\n  return 1\n  let x = 2\nend\n")
	assert.Contains(t, codes(bag), diag.WUnreachable)
}

func TestWarn_NoUnreachableWithoutTerminator(t *testing.T) {
	bag := run(t, "fn f()\n  let x = 1\n  return x\nend\n")
	assert.NotContains(t, codes(bag), diag.WUnreachable)
}

func TestWarn_UnreachableAfterBreakInLoop(t *testing.T) {
	bag := run(t, "while true\n  break\n  let x = 1\nend\n")
	assert.Contains(t, codes(bag), diag.WUnreachable)
}

func TestWarn_ShadowedVariableInNestedBlock(t *testing.T) {
	bag := run(t, "let x = 1\nif true\n  let x = 2\nend\n")
	assert.Contains(t, codes(bag), diag.WShadowed)
}

func TestWarn_NoShadowWarningForUnrelatedNames(t *testing.T) {
	bag := run(t, "let x = 1\nif true\n  let y = 2\nend\n")
	assert.NotContains(t, codes(bag), diag.WShadowed)
}

func TestWarn_WaitJobsWithoutBackgroundSubshell(t *testing.T) {
	bag := run(t, "wait jobs\n")
	assert.Contains(t, codes(bag), diag.WWaitJobsUnused)
}

func TestWarn_WaitJobsWithBackgroundSubshellIsFine(t *testing.T) {
	bag := run(t, "subshell\n  let x = 1\nend &\nwait jobs\n")
	assert.NotContains(t, codes(bag), diag.WWaitJobsUnused)
}

func TestWarn_UnusedVariable(t *testing.T) {
	bag := run(t, "let x = 1\n")
	assert.Contains(t, codes(bag), diag.WUnusedVariable)
}

func TestWarn_UsedVariableIsFine(t *testing.T) {
	bag := run(t, "let x = 1\nlet y = x + 1\n")
	assert.NotContains(t, codes(bag), diag.WUnusedVariable)
}

func TestWarn_UnusedParameter(t *testing.T) {
	bag := run(t, "fn f(a)\n  return 1\nend\n")
	assert.Contains(t, codes(bag), diag.WUnusedParameter)
}

func TestWarn_UnusedFunction(t *testing.T) {
	bag := run(t, "fn f()\n  return 1\nend\n")
	assert.Contains(t, codes(bag), diag.WUnusedFunction)
}

func TestWarn_CalledFunctionIsNotUnused(t *testing.T) {
	bag := run(t, "fn f()\n  return 1\nend\nlet x = f()\n")
	assert.NotContains(t, codes(bag), diag.WUnusedFunction)
}

func TestWarn_LetNeverReassignedSuggestsConst(t *testing.T) {
	bag := run(t, "let x = 1\nlet y = x\n")
	assert.Contains(t, codes(bag), diag.WLetNeverReassigned)
}

func TestWarn_LetReassignedIsNotFlagged(t *testing.T) {
	bag := run(t, "let x = 1\nx = 2\nconst y = x\n")
	assert.NotContains(t, codes(bag), diag.WLetNeverReassigned)
}

func TestWarn_ConstIsNeverFlaggedForReassignment(t *testing.T) {
	bag := run(t, "const x = 1\nconst y = x\n")
	assert.NotContains(t, codes(bag), diag.WLetNeverReassigned)
}
