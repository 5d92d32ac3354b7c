// Package symbols builds the editor/LSP-facing symbol index described in
// spec.md §3 "Symbol model": flat lists of declarations and references
// keyed by 1-line spans, separate from the diagnostic-producing analyses.
package symbols

import "github.com/what386/lash-sub001/pkg/source"

// Kind classifies a declared symbol.
type Kind int

const (
	Variable Kind = iota
	Constant
	Function
	Parameter
	Enum
)

func (k Kind) String() string {
	switch k {
	case Variable:
		return "variable"
	case Constant:
		return "constant"
	case Function:
		return "function"
	case Parameter:
		return "parameter"
	case Enum:
		return "enum"
	default:
		return "unknown"
	}
}

// Span is a single-line range: (line, startColumn, endColumn), both
// columns 0-based.
type Span struct {
	Line      int
	Column    int
	EndColumn int
}

// Info describes one declaration.
type Info struct {
	Name            string
	Kind            Kind
	DeclarationSpan Span
	IsConst         bool
	TypeText        string // empty when unknown
}

// Reference describes one identifier occurrence, resolved to its
// declaring Info when name resolution succeeded.
type Reference struct {
	Name     string
	Span     Span
	Resolved *Info // nil if unresolved (already reported elsewhere as E111)
}

// Index groups every declaration and reference collected over one
// program, filled in during pkg/resolve's AST walk (see Builder).
type Index struct {
	Declarations []Info
	References   []Reference
}

// Builder accumulates declarations and references while resolve's AST
// walk runs; Index packages the end result for pkg/analyzer.
type Builder struct {
	idx Index
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

// Declare records a new declaration.
func (b *Builder) Declare(info Info) { b.idx.Declarations = append(b.idx.Declarations, info) }

// Reference records an identifier occurrence; resolved may be nil.
func (b *Builder) Reference(name string, span Span, resolved *Info) {
	b.idx.References = append(b.idx.References, Reference{Name: name, Span: span, Resolved: resolved})
}

// Build returns the finished Index.
func (b *Builder) Build() Index { return b.idx }

// SpanAt builds a single-line Span from a source.Location and an end
// column, the shape every caller in pkg/resolve constructs spans with.
func SpanAt(loc source.Location, endColumn int) Span {
	return Span{Line: loc.Line, Column: loc.Column, EndColumn: endColumn}
}
