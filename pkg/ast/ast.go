// Package ast defines the tagged-variant syntax tree produced by
// pkg/parser and consumed read-only by every later phase (pkg/resolve,
// pkg/typecheck, pkg/flow, pkg/feasibility, pkg/warn, pkg/symbols,
// pkg/codegen).
//
// Variants are modeled as Go interfaces implemented by small structs,
// each carrying its own source.Location, rather than a class hierarchy:
// callers switch on concrete type (spec.md §9 "Polymorphism").
package ast

import "github.com/what386/lash-sub001/pkg/source"

// Node is implemented by every Statement and Expression variant.
type Node interface {
	Location() source.Location
}

// Statement is the tagged-variant interface for the Statement category in
// spec.md §3's AST table.
type Statement interface {
	Node
	statementNode()
}

// Expression is the tagged-variant interface for the Expression category.
// Every Expression carries an inferred Type, initially Unknown and filled
// in by pkg/typecheck.
type Expression interface {
	Node
	expressionNode()
	Type() ExprType
	SetType(ExprType)
}

// ExprType is the inferred type lattice from spec.md §4.4.
type ExprType int

const (
	Unknown ExprType = iota
	NumberType
	StringType
	BoolType
	ArrayType
)

func (t ExprType) String() string {
	switch t {
	case NumberType:
		return "Number"
	case StringType:
		return "String"
	case BoolType:
		return "Bool"
	case ArrayType:
		return "Array"
	default:
		return "Unknown"
	}
}

// Program is the root node: an ordered list of top-level statements.
type Program struct {
	Statements []Statement
}

// ExprBase factors the mutable inferred-type field shared by every
// Expression variant so each variant only declares its own payload. It is
// exported so pkg/parser can populate it directly in struct literals.
type ExprBase struct {
	Loc source.Location
	Typ ExprType
}

func (e *ExprBase) Location() source.Location { return e.Loc }
func (e *ExprBase) Type() ExprType             { return e.Typ }
func (e *ExprBase) SetType(t ExprType)         { e.Typ = t }
func (*ExprBase) expressionNode()              {}

// StmtBase carries the source position shared by every Statement variant.
type StmtBase struct {
	Loc source.Location
}

func (s StmtBase) Location() source.Location { return s.Loc }
func (StmtBase) statementNode()              {}
