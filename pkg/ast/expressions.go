package ast

// LiteralType distinguishes the primitive literal kinds.
type LiteralType int

const (
	IntLiteral LiteralType = iota
	StringLiteral
	BoolLiteral
)

// LiteralExpression covers Int, String and Bool literals, including
// interpolated ($"...") and multiline/raw ([[ ... ]]) string forms.
type LiteralExpression struct {
	ExprBase
	Value         string // raw text for Int/Bool; decoded body for String
	LiteralType   LiteralType
	IsInterpolated bool
	IsMultiline    bool
}

// NullLiteral is the literal absence of a value.
type NullLiteral struct {
	ExprBase
}

// IdentifierExpression is a bare name reference.
type IdentifierExpression struct {
	ExprBase
	Name string
}

// BinaryOp enumerates the binary operator spellings.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNotEq
	OpLt
	OpGt
	OpLtEq
	OpGtEq
	OpAnd
	OpOr
)

// BinaryExpression is a left-associative binary operation.
type BinaryExpression struct {
	ExprBase
	Op    BinaryOp
	Left  Expression
	Right Expression
}

// UnaryOp enumerates the unary operator spellings.
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNeg
	OpPos
	OpLen
)

// UnaryExpression is a prefix unary operation.
type UnaryExpression struct {
	ExprBase
	Op      UnaryOp
	Operand Expression
}

// RangeExpression is `start..end`, used by ForLoop.
type RangeExpression struct {
	ExprBase
	Start Expression
	End   Expression
}

// PipeExpression is `left | right`, left-associative at statement level.
type PipeExpression struct {
	ExprBase
	Stages []Expression
}

// RedirectKind names which redirection operator a RedirectExpression uses.
type RedirectKind int

const (
	RedirStdout RedirectKind = iota
	RedirStdoutAppend
	RedirStderr
	RedirStderrAppend
	RedirBoth
	RedirBothAppend
	RedirStdin
	RedirStdinStdout
	RedirHeredocStr
	RedirHeredoc
	RedirFdDup
	RedirFdClose
)

// RedirectExpression is `expr <redir-op> target`, binding at statement
// level alongside PipeExpression. For RedirFdDup/RedirFdClose the whole
// operator is self-contained in the source token (e.g. "2>&1"); Target
// is nil and TargetFd carries the destination descriptor (unused, 0, for
// RedirFdClose, whose destination is "-").
type RedirectExpression struct {
	ExprBase
	Source   Expression
	Kind     RedirectKind
	Fd       int // source file descriptor for fd-prefixed forms; 0 if unused
	TargetFd int // destination descriptor for RedirFdDup
	Target   Expression
}

// FunctionCallExpression is `name(args...)`.
type FunctionCallExpression struct {
	ExprBase
	Name string
	Args []Expression
}

// ShellCaptureExpression is `$sh expr`: EXPR's string payload is rendered
// as a Bash command substitution.
type ShellCaptureExpression struct {
	ExprBase
	Payload Expression
}

// IndexAccessExpression is `target[index]`.
type IndexAccessExpression struct {
	ExprBase
	Target Expression
	Index  Expression
}

// EnumAccessExpression is `EnumName::Member`.
type EnumAccessExpression struct {
	ExprBase
	EnumName string
	Member   string
}

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	ExprBase
	Elements []Expression
}

var (
	_ Expression = (*LiteralExpression)(nil)
	_ Expression = (*NullLiteral)(nil)
	_ Expression = (*IdentifierExpression)(nil)
	_ Expression = (*BinaryExpression)(nil)
	_ Expression = (*UnaryExpression)(nil)
	_ Expression = (*RangeExpression)(nil)
	_ Expression = (*PipeExpression)(nil)
	_ Expression = (*RedirectExpression)(nil)
	_ Expression = (*FunctionCallExpression)(nil)
	_ Expression = (*ShellCaptureExpression)(nil)
	_ Expression = (*IndexAccessExpression)(nil)
	_ Expression = (*EnumAccessExpression)(nil)
	_ Expression = (*ArrayLiteral)(nil)
)
