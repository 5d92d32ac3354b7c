package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/what386/lash-sub001/pkg/diag"
	"github.com/what386/lash-sub001/pkg/lexer"
	"github.com/what386/lash-sub001/pkg/parser"
	"github.com/what386/lash-sub001/pkg/resolve"
	"github.com/what386/lash-sub001/pkg/typecheck"
)

// gen parses, resolves and type-checks src before generating, since
// codegen relies on pkg/typecheck having already annotated every
// expression's inferred type.
func gen(t *testing.T, src string) (string, []string) {
	t.Helper()
	bag := diag.New()
	toks := lexer.New(src, bag).Tokenize()
	prog := parser.New(toks, src, bag).ParseProgram()
	resolve.Resolve(prog, bag)
	typecheck.Check(prog, bag)
	assert.Empty(t, bag.Items(), "fixture must be diagnostic-free")
	return Generate(prog)
}

func TestCodegen_Preamble(t *testing.T) {
	out, _ := gen(t, "let x = 1\n")
	assert.Contains(t, out, "#!/usr/bin/env bash")
	assert.NotContains(t, out, "__lash_argv")
	assert.NotContains(t, out, "__lash_jobs")
}

func TestCodegen_PreambleDeclaresArgvWhenReferenced(t *testing.T) {
	out, _ := gen(t, "let x = argv[0]\n")
	assert.Contains(t, out, `declare -a __lash_argv=("$@")`)
}

func TestCodegen_TopLevelLetAndConst(t *testing.T) {
	out, _ := gen(t, "let x = 1\nconst y = 2\n")
	assert.Contains(t, out, "x=$(( 1 ))")
	assert.Contains(t, out, "readonly y=$(( 2 ))")
}

func TestCodegen_LocalInsideFunction(t *testing.T) {
	out, _ := gen(t, "fn f()\n  let x = 1\n  return x\nend\n")
	assert.Contains(t, out, "local x=$(( 1 ))")
}

func TestCodegen_GlobalInsideFunctionBypassesLocal(t *testing.T) {
	out, _ := gen(t, "let x = 1\nfn f()\n  global x = 2\nend\n")
	assert.Contains(t, out, "x=$(( 2 ))")
	assert.NotContains(t, out, "local x=$(( 2 ))")
}

func TestCodegen_StringConcatenation(t *testing.T) {
	out, _ := gen(t, `let a = "x"
let b = a + "y"
`)
	assert.Contains(t, out, `b="${a}y"`)
}

func TestCodegen_ArrayLiteral(t *testing.T) {
	out, _ := gen(t, `let xs = [1, 2, 3]
`)
	assert.Contains(t, out, `xs=("1" "2" "3")`)
}

func TestCodegen_ArrayAppend(t *testing.T) {
	out, _ := gen(t, `let xs = [1]
xs += 2
`)
	assert.Contains(t, out, `xs+=( "2" )`)
}

func TestCodegen_IfElse(t *testing.T) {
	out, _ := gen(t, `let x = 1
if x > 0
  let y = 1
else
  let y = 2
end
`)
	assert.Contains(t, out, "if (( x > 0 )); then")
	assert.Contains(t, out, "else")
	assert.Contains(t, out, "fi")
}

func TestCodegen_DeadBranchElimination(t *testing.T) {
	out, _ := gen(t, `if true
  let x = 1
else
  let x = 2
end
`)
	assert.Contains(t, out, "x=$(( 1 ))")
	assert.NotContains(t, out, "x=$(( 2 ))")
	assert.NotContains(t, out, "if")
}

func TestCodegen_ForRange(t *testing.T) {
	out, _ := gen(t, `for i in 1..5
  let x = i
end
`)
	assert.Contains(t, out, "for i in $(seq 1 5); do")
	assert.Contains(t, out, "done")
}

func TestCodegen_ForRangeWithStep(t *testing.T) {
	out, _ := gen(t, `for i in 1..10 step 2
end
`)
	assert.Contains(t, out, "for i in $(seq 1 2 10); do")
}

func TestCodegen_ForArgv(t *testing.T) {
	out, _ := gen(t, `for a in argv
end
`)
	assert.Contains(t, out, `for a in "$@"; do`)
}

func TestCodegen_WhileLoop(t *testing.T) {
	out, _ := gen(t, `let x = 1
while x > 0
  x = 0
end
`)
	assert.Contains(t, out, "while (( x > 0 )); do")
}

func TestCodegen_SwitchCase(t *testing.T) {
	out, _ := gen(t, `let x = "a"
switch x
case "a":
  let y = 1
case "b":
  let y = 2
end
`)
	assert.Contains(t, out, "case ${x} in")
	assert.Contains(t, out, "esac")
}

func TestCodegen_ReturnWithValue(t *testing.T) {
	out, _ := gen(t, `fn f()
  return 1
end
`)
	assert.Contains(t, out, `echo "1"`)
	assert.Contains(t, out, "return 0")
}

func TestCodegen_ReturnBare(t *testing.T) {
	out, _ := gen(t, `fn f()
  return
end
`)
	assert.Contains(t, out, "return 0")
}

func TestCodegen_Shift(t *testing.T) {
	out, _ := gen(t, "shift\n")
	assert.Contains(t, out, "__lash_shift_n=$(( 1 ))")
	assert.Contains(t, out, `__lash_argv=("${__lash_argv[@]:__lash_shift_n}")`)
}

func TestCodegen_ForegroundSubshellInto(t *testing.T) {
	out, _ := gen(t, `subshell into let s
  let x = 1
end
`)
	assert.Contains(t, out, "(")
	assert.Contains(t, out, "s=$?")
}

func TestCodegen_BackgroundSubshellTracksJobs(t *testing.T) {
	out, _ := gen(t, `subshell
  let x = 1
end &
wait jobs
`)
	assert.Contains(t, out, ") &")
	assert.Contains(t, out, `__lash_jobs+=("$!")`)
	assert.Contains(t, out, `declare -a __lash_jobs=()`)
}

func TestCodegen_WaitJobsLoop(t *testing.T) {
	out, _ := gen(t, `subshell
end &
wait jobs into let s
`)
	assert.Contains(t, out, `for __lash_pid in "${__lash_jobs[@]}"; do`)
	assert.Contains(t, out, "s=$?")
}

func TestCodegen_FunctionCallStatement(t *testing.T) {
	out, _ := gen(t, `fn f(a)
  return a
end
f("x")
`)
	assert.Contains(t, out, `f() {`)
	assert.Contains(t, out, `f "x"`)
}

func TestCodegen_PipeIntoVariableSink(t *testing.T) {
	out, _ := gen(t, `let out = ""
fn f()
  return "1"
end
f() | out
`)
	assert.Contains(t, out, `out=$(f)`)
}

func TestCodegen_StringKeyedArrayDeclaresAssociative(t *testing.T) {
	out, _ := gen(t, `let m = []
m["k"] = "v"
`)
	assert.Contains(t, out, `declare -A m=()`)
	assert.Contains(t, out, `m["k"]="v"`)
}

func TestCodegen_StringEqualityBetweenVariablesUsesTestForm(t *testing.T) {
	out, _ := gen(t, `let a = "foo"
let b = "foo"
if a == b
  let c = 1
end
`)
	assert.Contains(t, out, `[[ ${a} == ${b} ]]`)
}

func TestCodegen_UnsupportedIsRecorded(t *testing.T) {
	_, unsupported := gen(t, `let xs = [1, 2]
let z = xs[0][0]
`)
	assert.NotEmpty(t, unsupported)
}
