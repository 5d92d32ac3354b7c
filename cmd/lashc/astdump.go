package main

import "github.com/what386/lash-sub001/pkg/ast"

// dumpProgram renders prog as a JSON-marshalable tree for --ast. It exists
// because pkg/ast's tagged-variant interfaces carry no type discriminator
// of their own; json.Marshal on an Expression/Statement value alone would
// flatten its fields with no indication of which variant produced them.
func dumpProgram(prog *ast.Program) any {
	stmts := make([]any, len(prog.Statements))
	for i, s := range prog.Statements {
		stmts[i] = dumpStmt(s)
	}
	return map[string]any{"statements": stmts}
}

func dumpBlock(body []ast.Statement) []any {
	out := make([]any, len(body))
	for i, s := range body {
		out[i] = dumpStmt(s)
	}
	return out
}

func dumpStmt(s ast.Statement) any {
	if s == nil {
		return nil
	}
	switch n := s.(type) {
	case *ast.VariableDeclaration:
		return map[string]any{"kind": "VariableDeclaration", "declKind": declKindName(n.Kind), "global": n.IsGlobal, "name": n.Name, "value": dumpExpr(n.Value)}
	case *ast.Assignment:
		return map[string]any{"kind": "Assignment", "global": n.IsGlobal, "op": assignOpName(n.Operator), "target": dumpExpr(n.Target), "value": dumpExpr(n.Value)}
	case *ast.FunctionDeclaration:
		params := make([]any, len(n.Params))
		for i, p := range n.Params {
			params[i] = map[string]any{"name": p.Name, "default": dumpExpr(p.Default)}
		}
		return map[string]any{"kind": "FunctionDeclaration", "name": n.Name, "params": params, "body": dumpBlock(n.Body)}
	case *ast.EnumDeclaration:
		return map[string]any{"kind": "EnumDeclaration", "name": n.Name, "members": n.Members}
	case *ast.IfStatement:
		elifs := make([]any, len(n.Elifs))
		for i, e := range n.Elifs {
			elifs[i] = map[string]any{"cond": dumpExpr(e.Cond), "body": dumpBlock(e.Body)}
		}
		return map[string]any{"kind": "IfStatement", "cond": dumpExpr(n.Cond), "then": dumpBlock(n.Then), "elifs": elifs, "hasElse": n.HasElse, "else": dumpBlock(n.Else)}
	case *ast.SwitchStatement:
		cases := make([]any, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = map[string]any{"pattern": dumpExpr(c.Pattern), "body": dumpBlock(c.Body)}
		}
		return map[string]any{"kind": "SwitchStatement", "scrutinee": dumpExpr(n.Scrutinee), "cases": cases}
	case *ast.ForLoop:
		return map[string]any{"kind": "ForLoop", "variable": n.Variable, "iterable": dumpExpr(n.Iterable), "step": dumpExpr(n.Step), "body": dumpBlock(n.Body)}
	case *ast.WhileLoop:
		return map[string]any{"kind": "WhileLoop", "cond": dumpExpr(n.Cond), "body": dumpBlock(n.Body)}
	case *ast.UntilLoop:
		return map[string]any{"kind": "UntilLoop", "cond": dumpExpr(n.Cond), "body": dumpBlock(n.Body)}
	case *ast.ReturnStatement:
		return map[string]any{"kind": "ReturnStatement", "value": dumpExpr(n.Value)}
	case *ast.ShiftStatement:
		return map[string]any{"kind": "ShiftStatement", "amount": dumpExpr(n.Amount)}
	case *ast.SubshellStatement:
		return map[string]any{"kind": "SubshellStatement", "into": dumpCapture(n.Into), "background": n.RunInBackground, "body": dumpBlock(n.Body)}
	case *ast.WaitStatement:
		return map[string]any{"kind": "WaitStatement", "waitKind": waitKindName(n.Kind), "target": dumpExpr(n.Target), "into": dumpCapture(n.Into)}
	case *ast.BreakStatement:
		return map[string]any{"kind": "BreakStatement"}
	case *ast.ContinueStatement:
		return map[string]any{"kind": "ContinueStatement"}
	case *ast.ExpressionStatement:
		return map[string]any{"kind": "ExpressionStatement", "expr": dumpExpr(n.Expr)}
	case *ast.ShellStatement:
		return map[string]any{"kind": "ShellStatement", "payload": dumpExpr(n.Payload)}
	case *ast.TestStatement:
		return map[string]any{"kind": "TestStatement", "cond": dumpExpr(n.Cond)}
	case *ast.CommandStatement:
		return map[string]any{"kind": "CommandStatement", "script": n.Script, "rawLiteral": n.IsRawLiteral}
	case *ast.TrapStatement:
		return map[string]any{"kind": "TrapStatement", "handler": dumpExpr(n.Handler), "signals": n.Signals}
	case *ast.UntrapStatement:
		return map[string]any{"kind": "UntrapStatement", "signal": n.Signal}
	default:
		return map[string]any{"kind": "unknown"}
	}
}

func dumpCapture(c ast.Capture) any {
	if !c.Present {
		return nil
	}
	return map[string]any{"mode": captureModeName(c.Mode), "name": c.Name}
}

func dumpExpr(e ast.Expression) any {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *ast.LiteralExpression:
		return map[string]any{"kind": "LiteralExpression", "type": n.Type().String(), "literalType": literalTypeName(n.LiteralType), "value": n.Value, "interpolated": n.IsInterpolated, "multiline": n.IsMultiline}
	case *ast.NullLiteral:
		return map[string]any{"kind": "NullLiteral", "type": n.Type().String()}
	case *ast.IdentifierExpression:
		return map[string]any{"kind": "IdentifierExpression", "type": n.Type().String(), "name": n.Name}
	case *ast.BinaryExpression:
		return map[string]any{"kind": "BinaryExpression", "type": n.Type().String(), "op": binaryOpName(n.Op), "left": dumpExpr(n.Left), "right": dumpExpr(n.Right)}
	case *ast.UnaryExpression:
		return map[string]any{"kind": "UnaryExpression", "type": n.Type().String(), "op": unaryOpName(n.Op), "operand": dumpExpr(n.Operand)}
	case *ast.RangeExpression:
		return map[string]any{"kind": "RangeExpression", "type": n.Type().String(), "start": dumpExpr(n.Start), "end": dumpExpr(n.End)}
	case *ast.PipeExpression:
		stages := make([]any, len(n.Stages))
		for i, s := range n.Stages {
			stages[i] = dumpExpr(s)
		}
		return map[string]any{"kind": "PipeExpression", "type": n.Type().String(), "stages": stages}
	case *ast.RedirectExpression:
		return map[string]any{"kind": "RedirectExpression", "type": n.Type().String(), "source": dumpExpr(n.Source), "redirKind": redirKindName(n.Kind), "fd": n.Fd, "targetFd": n.TargetFd, "target": dumpExpr(n.Target)}
	case *ast.FunctionCallExpression:
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			args[i] = dumpExpr(a)
		}
		return map[string]any{"kind": "FunctionCallExpression", "type": n.Type().String(), "name": n.Name, "args": args}
	case *ast.ShellCaptureExpression:
		return map[string]any{"kind": "ShellCaptureExpression", "type": n.Type().String(), "payload": dumpExpr(n.Payload)}
	case *ast.IndexAccessExpression:
		return map[string]any{"kind": "IndexAccessExpression", "type": n.Type().String(), "target": dumpExpr(n.Target), "index": dumpExpr(n.Index)}
	case *ast.EnumAccessExpression:
		return map[string]any{"kind": "EnumAccessExpression", "type": n.Type().String(), "enum": n.EnumName, "member": n.Member}
	case *ast.ArrayLiteral:
		elems := make([]any, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = dumpExpr(el)
		}
		return map[string]any{"kind": "ArrayLiteral", "type": n.Type().String(), "elements": elems}
	default:
		return map[string]any{"kind": "unknown"}
	}
}

func declKindName(k ast.DeclKind) string {
	if k == ast.Const {
		return "const"
	}
	return "let"
}

func assignOpName(op ast.AssignOp) string {
	if op == ast.OpPlusAssign {
		return "+="
	}
	return "="
}

func captureModeName(m ast.CaptureMode) string {
	switch m {
	case ast.CaptureLet:
		return "let"
	case ast.CaptureConst:
		return "const"
	default:
		return "auto"
	}
}

func waitKindName(k ast.WaitTargetKind) string {
	switch k {
	case ast.WaitTarget:
		return "target"
	case ast.WaitJobs:
		return "jobs"
	default:
		return "default"
	}
}

func literalTypeName(t ast.LiteralType) string {
	switch t {
	case ast.StringLiteral:
		return "string"
	case ast.BoolLiteral:
		return "bool"
	default:
		return "int"
	}
}

func binaryOpName(op ast.BinaryOp) string {
	names := [...]string{"+", "-", "*", "/", "%", "==", "!=", "<", ">", "<=", ">=", "&&", "||"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

func unaryOpName(op ast.UnaryOp) string {
	names := [...]string{"!", "-", "+", "#"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

func redirKindName(k ast.RedirectKind) string {
	names := [...]string{">", ">>", "2>", "2>>", "&>", "&>>", "<", "<>", "<<<", "<<", "fd-dup", "fd-close"}
	if int(k) < len(names) {
		return names[k]
	}
	return "?"
}
