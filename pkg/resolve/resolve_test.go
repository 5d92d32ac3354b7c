package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/what386/lash-sub001/pkg/ast"
	"github.com/what386/lash-sub001/pkg/diag"
	"github.com/what386/lash-sub001/pkg/lexer"
	"github.com/what386/lash-sub001/pkg/parser"
	"github.com/what386/lash-sub001/pkg/symbols"
)

func resolveSrc(t *testing.T, src string) (symbols.Index, *diag.Bag) {
	t.Helper()
	bag := diag.New()
	toks := lexer.New(src, bag).Tokenize()
	prog := parser.New(toks, src, bag).ParseProgram()
	idx := Resolve(prog, bag)
	return idx, bag
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestResolve_DeclareThenReference(t *testing.T) {
	_, bag := resolveSrc(t, "let x = 1\nlet y = x + 1\n")
	assert.Equal(t, 0, bag.Len())
}

func TestResolve_UndeclaredReference(t *testing.T) {
	_, bag := resolveSrc(t, "let y = x + 1\n")
	assert.Contains(t, codes(bag), diag.EUndeclared)
}

func TestResolve_DuplicateDeclarationInSameScope(t *testing.T) {
	_, bag := resolveSrc(t, "let x = 1\nlet x = 2\n")
	assert.Contains(t, codes(bag), diag.EDuplicateDecl)
}

func TestResolve_ShadowingInNestedBlockIsAllowed(t *testing.T) {
	_, bag := resolveSrc(t, "let x = 1\nif true\n  let x = 2\nend\n")
	assert.Equal(t, 0, bag.Len())
}

func TestResolve_UnknownFunctionCall(t *testing.T) {
	_, bag := resolveSrc(t, "let x = foo()\n")
	assert.Contains(t, codes(bag), diag.EUnknownFunction)
}

func TestResolve_ArityMismatch(t *testing.T) {
	src := "fn add(a, b)\n  return a + b\nend\nlet x = add(1)\n"
	_, bag := resolveSrc(t, src)
	assert.Contains(t, codes(bag), diag.EArity)
}

func TestResolve_ArityWithDefaultParamAllowsFewerArgs(t *testing.T) {
	src := "fn greet(name, greeting = \"hi\")\n  return name\nend\nlet x = greet(\"a\")\n"
	_, bag := resolveSrc(t, src)
	assert.Equal(t, 0, bag.Len())
}

func TestResolve_FunctionForwardReference(t *testing.T) {
	src := "fn caller()\n  return callee()\nend\nfn callee()\n  return 1\nend\n"
	_, bag := resolveSrc(t, src)
	assert.Equal(t, 0, bag.Len())
}

func TestResolve_BreakOutsideLoop(t *testing.T) {
	_, bag := resolveSrc(t, "break\n")
	assert.Contains(t, codes(bag), diag.EControlFlowContext)
}

func TestResolve_ContinueInsideWhileIsValid(t *testing.T) {
	_, bag := resolveSrc(t, "while true\n  continue\nend\n")
	assert.Equal(t, 0, bag.Len())
}

func TestResolve_ReturnOutsideFunction(t *testing.T) {
	_, bag := resolveSrc(t, "return 1\n")
	assert.Contains(t, codes(bag), diag.EControlFlowContext)
}

func TestResolve_BreakInsideFunctionNestedInLoopStillErrors(t *testing.T) {
	src := "while true\n  fn f()\n    break\n  end\nend\n"
	_, bag := resolveSrc(t, src)
	assert.Contains(t, codes(bag), diag.EControlFlowContext)
}

func TestResolve_AssignToConstIsError(t *testing.T) {
	_, bag := resolveSrc(t, "const x = 1\nx = 2\n")
	assert.Contains(t, codes(bag), diag.EInvalidAssignTarget)
}

func TestResolve_AssignToUndeclaredIsError(t *testing.T) {
	_, bag := resolveSrc(t, "x = 2\n")
	assert.Contains(t, codes(bag), diag.EUndeclared)
}

func TestResolve_GlobalAssignmentAutoDeclaresAtOutermostScope(t *testing.T) {
	src := "fn f()\n  global count = 1\nend\n"
	idx, bag := resolveSrc(t, src)
	assert.Equal(t, 0, bag.Len())
	found := false
	for _, d := range idx.Declarations {
		if d.Name == "count" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestResolve_EnumAccessValidMember(t *testing.T) {
	src := "enum Color Red Green Blue end\nlet c = Color::Red\n"
	_, bag := resolveSrc(t, src)
	assert.Equal(t, 0, bag.Len())
}

func TestResolve_EnumAccessUnknownMember(t *testing.T) {
	src := "enum Color Red Green Blue end\nlet c = Color::Purple\n"
	_, bag := resolveSrc(t, src)
	assert.Contains(t, codes(bag), diag.EUndeclared)
}

func TestResolve_DuplicateParameterName(t *testing.T) {
	src := "fn f(a, a)\n  return a\nend\n"
	_, bag := resolveSrc(t, src)
	assert.Contains(t, codes(bag), diag.EBadParameter)
}

func TestResolve_UnresolvedIdentifierInParamDefault(t *testing.T) {
	src := "fn f(a = missing)\n  return a\nend\n"
	_, bag := resolveSrc(t, src)
	assert.Contains(t, codes(bag), diag.EBadParameter)
}

func TestResolve_UnknownTrapSignal(t *testing.T) {
	_, bag := resolveSrc(t, "trap \"cleanup\" on BOGUS\n")
	assert.Contains(t, codes(bag), diag.ETrapSignal)
}

func TestResolve_KnownTrapSignalIsValid(t *testing.T) {
	_, bag := resolveSrc(t, "trap \"cleanup\" on INT, TERM\n")
	assert.Equal(t, 0, bag.Len())
}

func TestResolve_UnknownUntrapSignal(t *testing.T) {
	_, bag := resolveSrc(t, "untrap BOGUS\n")
	assert.Contains(t, codes(bag), diag.ETrapSignal)
}

func TestResolve_MalformedGlobCasePattern(t *testing.T) {
	src := "switch x\ncase \"win-[\"\n  let y = 1\nend\n"
	_, bag := resolveSrc(t, src)
	assert.Contains(t, codes(bag), diag.ECodegenUnsupported)
}

func TestResolve_ArgvNeverUndeclared(t *testing.T) {
	_, bag := resolveSrc(t, "let n = #argv\n")
	assert.Equal(t, 0, bag.Len())
}

func TestResolve_ForLoopVariableScopedToBody(t *testing.T) {
	src := "for i in 1..3\n  let y = i\nend\n"
	_, bag := resolveSrc(t, src)
	assert.Equal(t, 0, bag.Len())
}

func TestResolve_SubshellCaptureIntoLetDeclares(t *testing.T) {
	src := "subshell into let result\n  let z = 1\nend\n"
	idx, bag := resolveSrc(t, src)
	assert.Equal(t, 0, bag.Len())
	found := false
	for _, d := range idx.Declarations {
		if d.Name == "result" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestResolve_WaitJobsIntoConstDeclares(t *testing.T) {
	_, bag := resolveSrc(t, "wait jobs into const statuses\n")
	assert.Equal(t, 0, bag.Len())
	_ = ast.WaitJobs
}

func TestResolve_EmptySourceReportsNothing(t *testing.T) {
	idx, bag := resolveSrc(t, "")
	_ = idx
	assert.Equal(t, 0, bag.Len())
}
