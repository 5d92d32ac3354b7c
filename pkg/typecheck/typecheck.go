// Package typecheck assigns each expression an ast.ExprType from
// spec.md §4.4's lattice {Number, String, Bool, Array, Unknown} and
// reports E200 and E202. It runs after pkg/resolve, which has already
// rejected undeclared identifiers, so this pass can afford to treat an
// unresolved reference as Unknown rather than re-diagnosing it.
package typecheck

import (
	"github.com/what386/lash-sub001/pkg/ast"
	"github.com/what386/lash-sub001/pkg/diag"
	"github.com/what386/lash-sub001/pkg/source"
)

// Checker walks a Program, assigning types via ast.Expression.SetType and
// reporting type diagnostics into bag.
type Checker struct {
	bag *diag.Bag
	// arrayKeyKind remembers the first index-access key kind ("numeric" or
	// "string") seen for each array-typed variable name, so a later access
	// with the other kind can be flagged E202.
	arrayKeyKind map[string]string
	// varTypes remembers the last type assigned to each plain-identifier
	// variable, so a later bare reference to it (e.g. the left side of an
	// `==` comparison) infers that type instead of defaulting to Unknown.
	varTypes map[string]ast.ExprType
}

// Check type-checks prog, reporting into bag.
func Check(prog *ast.Program, bag *diag.Bag) {
	c := &Checker{bag: bag, arrayKeyKind: make(map[string]string), varTypes: make(map[string]ast.ExprType)}
	c.checkBlock(prog.Statements)
}

func (c *Checker) errorf(code diag.Code, loc source.Location, format string, args ...any) {
	c.bag.Addf(diag.Error, code, loc.Line, loc.Column, format, args...)
}

func (c *Checker) checkBlock(stmts []ast.Statement) {
	for _, s := range stmts {
		c.checkStmt(s)
	}
}

func (c *Checker) checkStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		if s.Value != nil {
			vt := c.checkExpr(s.Value)
			c.varTypes[s.Name] = vt
		}
	case *ast.Assignment:
		c.checkExpr(s.Target)
		vt := c.checkExpr(s.Value)
		if id, ok := s.Target.(*ast.IdentifierExpression); ok {
			c.varTypes[id.Name] = vt
		}
	case *ast.FunctionDeclaration:
		for _, p := range s.Params {
			if p.Default != nil {
				c.checkExpr(p.Default)
			}
		}
		c.checkBlock(s.Body)
	case *ast.EnumDeclaration:
		// No expressions to type.
	case *ast.IfStatement:
		c.checkExpr(s.Cond)
		c.checkBlock(s.Then)
		for _, elif := range s.Elifs {
			c.checkExpr(elif.Cond)
			c.checkBlock(elif.Body)
		}
		if s.HasElse {
			c.checkBlock(s.Else)
		}
	case *ast.SwitchStatement:
		c.checkExpr(s.Scrutinee)
		for _, cs := range s.Cases {
			c.checkExpr(cs.Pattern)
			c.checkBlock(cs.Body)
		}
	case *ast.ForLoop:
		c.checkExpr(s.Iterable)
		if s.Step != nil {
			c.checkExpr(s.Step)
		}
		c.checkBlock(s.Body)
	case *ast.WhileLoop:
		c.checkExpr(s.Cond)
		c.checkBlock(s.Body)
	case *ast.UntilLoop:
		c.checkExpr(s.Cond)
		c.checkBlock(s.Body)
	case *ast.ReturnStatement:
		if s.Value != nil {
			c.checkExpr(s.Value)
		}
	case *ast.ShiftStatement:
		if s.Amount != nil {
			c.checkExpr(s.Amount)
		}
	case *ast.SubshellStatement:
		c.checkBlock(s.Body)
	case *ast.WaitStatement:
		if s.Kind == ast.WaitTarget {
			c.checkExpr(s.Target)
		}
	case *ast.BreakStatement, *ast.ContinueStatement:
	case *ast.ExpressionStatement:
		c.checkExpr(s.Expr)
	case *ast.ShellStatement:
		c.checkExpr(s.Payload)
	case *ast.TestStatement:
		c.checkExpr(s.Cond)
	case *ast.CommandStatement:
	case *ast.TrapStatement:
		c.checkExpr(s.Handler)
	case *ast.UntrapStatement:
	}
}

// checkExpr infers e's type, stores it via e.SetType, and returns it.
func (c *Checker) checkExpr(e ast.Expression) ast.ExprType {
	var t ast.ExprType
	switch x := e.(type) {
	case *ast.LiteralExpression:
		switch x.LiteralType {
		case ast.IntLiteral:
			t = ast.NumberType
		case ast.BoolLiteral:
			t = ast.BoolType
		default:
			t = ast.StringType
		}
	case *ast.NullLiteral:
		t = ast.Unknown
	case *ast.IdentifierExpression:
		if x.Name == "argv" {
			t = ast.ArrayType
		} else if vt, seen := c.varTypes[x.Name]; seen {
			t = vt
		} else {
			t = ast.Unknown
		}
	case *ast.BinaryExpression:
		t = c.checkBinary(x)
	case *ast.UnaryExpression:
		t = c.checkUnary(x)
	case *ast.RangeExpression:
		start := c.checkExpr(x.Start)
		end := c.checkExpr(x.End)
		if !isNumberOrUnknown(start) || !isNumberOrUnknown(end) {
			c.errorf(diag.ETypeMismatch, x.Location(), "range endpoints must be Number")
		}
		t = ast.ArrayType
	case *ast.PipeExpression:
		for _, stage := range x.Stages {
			c.checkExpr(stage)
		}
		t = ast.StringType
	case *ast.RedirectExpression:
		srcType := c.checkExpr(x.Source)
		if x.Target != nil {
			c.checkExpr(x.Target)
		}
		t = srcType
	case *ast.FunctionCallExpression:
		for _, a := range x.Args {
			c.checkExpr(a)
		}
		t = ast.Unknown
	case *ast.ShellCaptureExpression:
		c.checkExpr(x.Payload)
		t = ast.StringType
	case *ast.IndexAccessExpression:
		t = c.checkIndexAccess(x)
	case *ast.EnumAccessExpression:
		t = ast.StringType
	case *ast.ArrayLiteral:
		for _, el := range x.Elements {
			c.checkExpr(el)
		}
		t = ast.ArrayType
	default:
		t = ast.Unknown
	}
	e.SetType(t)
	return t
}

func isNumberOrUnknown(t ast.ExprType) bool { return t == ast.NumberType || t == ast.Unknown }

func (c *Checker) checkBinary(x *ast.BinaryExpression) ast.ExprType {
	left := c.checkExpr(x.Left)
	right := c.checkExpr(x.Right)

	switch x.Op {
	case ast.OpAdd:
		if left == ast.StringType || right == ast.StringType {
			return ast.StringType
		}
		if left == ast.Unknown || right == ast.Unknown {
			return ast.Unknown
		}
		if left != ast.NumberType || right != ast.NumberType {
			c.errorf(diag.ETypeMismatch, x.Location(), "'+' requires Number operands, or a String operand for concatenation")
			return ast.Unknown
		}
		return ast.NumberType
	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		if left == ast.Unknown || right == ast.Unknown {
			return ast.Unknown
		}
		if left != ast.NumberType || right != ast.NumberType {
			c.errorf(diag.ETypeMismatch, x.Location(), "arithmetic operator requires Number operands")
			return ast.Unknown
		}
		return ast.NumberType
	case ast.OpLt, ast.OpGt, ast.OpLtEq, ast.OpGtEq:
		if left == ast.Unknown || right == ast.Unknown {
			return ast.BoolType
		}
		if left != ast.NumberType || right != ast.NumberType {
			c.errorf(diag.ETypeMismatch, x.Location(), "relational comparison requires Number operands")
		}
		return ast.BoolType
	case ast.OpEq, ast.OpNotEq:
		if left != ast.Unknown && right != ast.Unknown && left != right {
			c.errorf(diag.ETypeMismatch, x.Location(), "cannot compare %s with %s", left, right)
		}
		return ast.BoolType
	case ast.OpAnd, ast.OpOr:
		if !isBoolOrNumberOrUnknown(left) || !isBoolOrNumberOrUnknown(right) {
			c.errorf(diag.ETypeMismatch, x.Location(), "logical operator requires Bool or Number operands")
		}
		return ast.BoolType
	}
	return ast.Unknown
}

func isBoolOrNumberOrUnknown(t ast.ExprType) bool {
	return t == ast.BoolType || t == ast.NumberType || t == ast.Unknown
}

func (c *Checker) checkUnary(x *ast.UnaryExpression) ast.ExprType {
	operand := c.checkExpr(x.Operand)
	switch x.Op {
	case ast.OpNot:
		if !isBoolOrNumberOrUnknown(operand) {
			c.errorf(diag.ETypeMismatch, x.Location(), "'!' requires a Bool or Number operand")
		}
		return ast.BoolType
	case ast.OpNeg, ast.OpPos:
		if operand != ast.NumberType && operand != ast.Unknown {
			c.errorf(diag.ETypeMismatch, x.Location(), "unary '%s' requires a Number operand", unarySymbol(x.Op))
		}
		return ast.NumberType
	case ast.OpLen:
		if operand != ast.ArrayType && operand != ast.StringType && operand != ast.Unknown {
			c.errorf(diag.ETypeMismatch, x.Location(), "'#' requires an Array or String operand")
		}
		return ast.NumberType
	}
	return ast.Unknown
}

func unarySymbol(op ast.UnaryOp) string {
	switch op {
	case ast.OpNeg:
		return "-"
	case ast.OpPos:
		return "+"
	default:
		return "!"
	}
}

// checkIndexAccess implements spec.md §4.4's array/associative split: a
// numeric index keeps the target in homogeneous-array semantics, a
// string index switches it to associative semantics, and using both
// kinds against the same named array is E202.
func (c *Checker) checkIndexAccess(x *ast.IndexAccessExpression) ast.ExprType {
	c.checkExpr(x.Target)
	indexType := c.checkExpr(x.Index)

	if name, ok := x.Target.(*ast.IdentifierExpression); ok {
		kind := "numeric"
		if indexType == ast.StringType {
			kind = "string"
		}
		if indexType == ast.NumberType || indexType == ast.StringType {
			if prev, seen := c.arrayKeyKind[name.Name]; seen && prev != kind {
				c.errorf(diag.EInvalidIndexing, x.Location(),
					"array %q is indexed with both numeric and string keys", name.Name)
			} else if !seen {
				c.arrayKeyKind[name.Name] = kind
			}
		}
	}
	if indexType != ast.NumberType && indexType != ast.StringType && indexType != ast.Unknown {
		c.errorf(diag.EInvalidIndexing, x.Location(), "index must be Number or String")
	}
	return ast.Unknown
}
