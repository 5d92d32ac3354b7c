package ast

// DeclKind distinguishes a mutable "let" binding from an immutable
// "const" one.
type DeclKind int

const (
	Let DeclKind = iota
	Const
)

// VariableDeclaration is `[global]? (let|const) IDENT [= expr]`.
type VariableDeclaration struct {
	StmtBase
	Kind     DeclKind
	IsGlobal bool
	Name     string
	Value    Expression // nil when no initializer
}

// AssignOp distinguishes plain assignment from append-assignment.
type AssignOp int

const (
	OpAssign AssignOp = iota
	OpPlusAssign
)

// Assignment is `[global]? (IDENT|indexAccess) (=|+=) expr`.
type Assignment struct {
	StmtBase
	IsGlobal bool
	Operator AssignOp
	Target   Expression // IdentifierExpression or IndexAccessExpression
	Value    Expression
}

// Param is one formal parameter, with an optional default expression.
type Param struct {
	Name    string
	Default Expression // nil when required
}

// FunctionDeclaration is `fn IDENT ( params? ) statement* end`.
type FunctionDeclaration struct {
	StmtBase
	Name   string
	Params []Param
	Body   []Statement
}

// EnumDeclaration is `enum IDENT IDENT* end`.
type EnumDeclaration struct {
	StmtBase
	Name    string
	Members []string
}

// ElifClause is one `elif expr block` arm of an IfStatement.
type ElifClause struct {
	Cond Expression
	Body []Statement
}

// IfStatement is `if expr block (elif expr block)* (else block)? end`.
type IfStatement struct {
	StmtBase
	Cond     Expression
	Then     []Statement
	Elifs    []ElifClause
	Else     []Statement // nil when no else clause
	HasElse  bool
}

// CaseClause is one `case expr : statement*` arm of a SwitchStatement.
type CaseClause struct {
	Pattern Expression
	Body    []Statement
}

// SwitchStatement is `switch expr (case expr : statement*)+ end`.
type SwitchStatement struct {
	StmtBase
	Scrutinee Expression
	Cases     []CaseClause
}

// ForLoop is `for IDENT in expr (step expr)? statement* end`. Iterable
// may be a RangeExpression, a glob-pattern string literal, or any other
// iterable expression; Step is nil when absent.
type ForLoop struct {
	StmtBase
	Variable string
	Iterable Expression
	Step     Expression
	Body     []Statement
}

// WhileLoop is `while expr statement* end`.
type WhileLoop struct {
	StmtBase
	Cond Expression
	Body []Statement
}

// UntilLoop is `until expr statement* end`.
type UntilLoop struct {
	StmtBase
	Cond Expression
	Body []Statement
}

// ReturnStatement is `return expr?`.
type ReturnStatement struct {
	StmtBase
	Value Expression // nil for bare "return"
}

// ShiftStatement is `shift expr?`.
type ShiftStatement struct {
	StmtBase
	Amount Expression // nil defaults to 1
}

// CaptureMode is the binding mode of a subshell/wait "into" clause.
type CaptureMode int

const (
	CaptureAuto CaptureMode = iota
	CaptureLet
	CaptureConst
)

// Capture names an optional "into [let|const] name" clause.
type Capture struct {
	Present bool
	Mode    CaptureMode
	Name    string
}

// SubshellStatement is `subshell (into capture)? statement* end &?`.
type SubshellStatement struct {
	StmtBase
	Into            Capture
	RunInBackground bool
	Body            []Statement
}

// WaitTargetKind distinguishes bare `wait`, `wait expr`, and `wait jobs`.
type WaitTargetKind int

const (
	WaitDefault WaitTargetKind = iota
	WaitTarget
	WaitJobs
)

// WaitStatement is `wait (expr|jobs)? (into capture)?`.
type WaitStatement struct {
	StmtBase
	Kind   WaitTargetKind
	Target Expression // set when Kind == WaitTarget
	Into   Capture
}

// BreakStatement is `break`.
type BreakStatement struct{ StmtBase }

// ContinueStatement is `continue`.
type ContinueStatement struct{ StmtBase }

// ExpressionStatement wraps a statement-level expression: a bare call, a
// pipeline, or a pipe-with-assignment sink (spec.md §4.2).
type ExpressionStatement struct {
	StmtBase
	Expr Expression
}

// ShellStatement is `sh expr`, a shell-capture used for its side effects
// rather than its value.
type ShellStatement struct {
	StmtBase
	Payload Expression
}

// TestStatement is reserved for `[[ ... ]]`-style boolean test forms used
// directly as a statement rather than as part of an expression.
type TestStatement struct {
	StmtBase
	Cond Expression
}

// CommandStatement is a bare shell command line the parser could not
// match to any other statement production; Script is the original line
// text (spec.md §4.2 "Bare command rewriting"). IsRawLiteral is set when
// the statement came from a standalone [[ ... ]] literal — either one
// written inline by the programmer, or the whole body of an '@raw ...
// @end' block, which pkg/preprocess wraps in '[[ ]]' for exactly this
// purpose (spec.md §4.1) — and is emitted unchanged rather than having
// its '{name}' placeholders substituted.
type CommandStatement struct {
	StmtBase
	Script       string
	IsRawLiteral bool
}

// TrapStatement is `trap expr on SIGNAL (, SIGNAL)*` (SPEC_FULL §4).
type TrapStatement struct {
	StmtBase
	Handler Expression
	Signals []string
}

// UntrapStatement is `untrap SIGNAL` (SPEC_FULL §4).
type UntrapStatement struct {
	StmtBase
	Signal string
}

var (
	_ Statement = (*VariableDeclaration)(nil)
	_ Statement = (*Assignment)(nil)
	_ Statement = (*FunctionDeclaration)(nil)
	_ Statement = (*EnumDeclaration)(nil)
	_ Statement = (*IfStatement)(nil)
	_ Statement = (*SwitchStatement)(nil)
	_ Statement = (*ForLoop)(nil)
	_ Statement = (*WhileLoop)(nil)
	_ Statement = (*UntilLoop)(nil)
	_ Statement = (*ReturnStatement)(nil)
	_ Statement = (*ShiftStatement)(nil)
	_ Statement = (*SubshellStatement)(nil)
	_ Statement = (*WaitStatement)(nil)
	_ Statement = (*BreakStatement)(nil)
	_ Statement = (*ContinueStatement)(nil)
	_ Statement = (*ExpressionStatement)(nil)
	_ Statement = (*ShellStatement)(nil)
	_ Statement = (*TestStatement)(nil)
	_ Statement = (*CommandStatement)(nil)
	_ Statement = (*TrapStatement)(nil)
	_ Statement = (*UntrapStatement)(nil)
)
