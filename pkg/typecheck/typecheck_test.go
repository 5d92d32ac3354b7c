package typecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/what386/lash-sub001/pkg/ast"
	"github.com/what386/lash-sub001/pkg/diag"
	"github.com/what386/lash-sub001/pkg/lexer"
	"github.com/what386/lash-sub001/pkg/parser"
)

func check(t *testing.T, src string) (*ast.Program, *diag.Bag) {
	t.Helper()
	bag := diag.New()
	toks := lexer.New(src, bag).Tokenize()
	prog := parser.New(toks, src, bag).ParseProgram()
	Check(prog, bag)
	return prog, bag
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestCheck_NumberArithmeticIsFine(t *testing.T) {
	_, bag := check(t, "let x = 1 + 2 * 3\n")
	assert.Equal(t, 0, bag.Len())
}

func TestCheck_StringConcatenationViaPlus(t *testing.T) {
	prog, bag := check(t, `let x = "a" + "b"` + "\n")
	assert.Equal(t, 0, bag.Len())
	decl := prog.Statements[0].(*ast.VariableDeclaration)
	assert.Equal(t, ast.StringType, decl.Value.Type())
}

func TestCheck_BoolMinusNumberIsError(t *testing.T) {
	_, bag := check(t, "let x = true - 1\n")
	assert.Contains(t, codes(bag), diag.ETypeMismatch)
}

func TestCheck_RelationalRequiresNumber(t *testing.T) {
	_, bag := check(t, `let x = "a" < "b"` + "\n")
	assert.Contains(t, codes(bag), diag.ETypeMismatch)
}

func TestCheck_EqualityAllowsHomogeneousStrings(t *testing.T) {
	_, bag := check(t, `let x = "a" == "b"` + "\n")
	assert.Equal(t, 0, bag.Len())
}

func TestCheck_LogicalAndOnNumbersIsFine(t *testing.T) {
	_, bag := check(t, "let x = 1 && 0\n")
	assert.Equal(t, 0, bag.Len())
}

func TestCheck_UnaryLenRequiresArrayOrString(t *testing.T) {
	_, bag := check(t, "let x = #true\n")
	assert.Contains(t, codes(bag), diag.ETypeMismatch)
}

func TestCheck_UnaryLenOnStringIsFine(t *testing.T) {
	prog, bag := check(t, `let x = #"hello"` + "\n")
	assert.Equal(t, 0, bag.Len())
	decl := prog.Statements[0].(*ast.VariableDeclaration)
	assert.Equal(t, ast.NumberType, decl.Value.Type())
}

func TestCheck_RangeRequiresNumberEndpoints(t *testing.T) {
	_, bag := check(t, `let r = "a".."b"` + "\n")
	assert.Contains(t, codes(bag), diag.ETypeMismatch)
}

func TestCheck_RangeResultIsArray(t *testing.T) {
	prog, bag := check(t, "let r = 1..5\n")
	assert.Equal(t, 0, bag.Len())
	decl := prog.Statements[0].(*ast.VariableDeclaration)
	assert.Equal(t, ast.ArrayType, decl.Value.Type())
}

func TestCheck_MixedArrayKeyKindsIsError(t *testing.T) {
	src := "let arr = [1, 2, 3]\n" +
		"let a = arr[0]\n" +
		"let b = arr[\"k\"]\n"
	_, bag := check(t, src)
	assert.Contains(t, codes(bag), diag.EInvalidIndexing)
}

func TestCheck_ConsistentNumericIndexingIsFine(t *testing.T) {
	src := "let arr = [1, 2, 3]\n" +
		"let a = arr[0]\n" +
		"let b = arr[1]\n"
	_, bag := check(t, src)
	assert.Equal(t, 0, bag.Len())
}

func TestCheck_ArrayLiteralTypeIsArray(t *testing.T) {
	prog, bag := check(t, "let arr = [1, 2, 3]\n")
	assert.Equal(t, 0, bag.Len())
	decl := prog.Statements[0].(*ast.VariableDeclaration)
	assert.Equal(t, ast.ArrayType, decl.Value.Type())
}

func TestCheck_EnumAccessIsString(t *testing.T) {
	prog, bag := check(t, "enum Color Red Green end\nlet c = Color::Red\n")
	assert.Equal(t, 0, bag.Len())
	decl := prog.Statements[1].(*ast.VariableDeclaration)
	assert.Equal(t, ast.StringType, decl.Value.Type())
}

func TestCheck_ShellCaptureIsString(t *testing.T) {
	prog, bag := check(t, `let out = $sh "ls"` + "\n")
	assert.Equal(t, 0, bag.Len())
	decl := prog.Statements[0].(*ast.VariableDeclaration)
	assert.Equal(t, ast.StringType, decl.Value.Type())
}

func TestCheck_IdentifierInheritsDeclaredType(t *testing.T) {
	prog, bag := check(t, "let a = \"foo\"\nlet b = a\n")
	assert.Equal(t, 0, bag.Len())
	decl := prog.Statements[1].(*ast.VariableDeclaration)
	assert.Equal(t, ast.StringType, decl.Value.Type())
}

func TestCheck_EqualityBetweenStringVariablesIsTypedString(t *testing.T) {
	src := "let a = \"foo\"\n" +
		"let b = \"foo\"\n" +
		"let c = a == b\n"
	prog, bag := check(t, src)
	assert.Equal(t, 0, bag.Len())
	decl := prog.Statements[2].(*ast.VariableDeclaration)
	cmp := decl.Value.(*ast.BinaryExpression)
	assert.Equal(t, ast.StringType, cmp.Left.Type())
	assert.Equal(t, ast.StringType, cmp.Right.Type())
}

func TestCheck_UndeclaredIdentifierIsUnknownNotDoubleReported(t *testing.T) {
	_, bag := check(t, "let x = undeclared_name + 1\n")
	assert.Equal(t, 0, bag.Len())
}
