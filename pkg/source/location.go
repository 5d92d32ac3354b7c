// Package source provides the shared position types threaded through every
// compiler phase, from the lexer down to the Bash generator.
package source

import "fmt"

// Location identifies a single point in source text. Line is 1-based,
// Column is 0-based, matching the field conventions of Diagnostic in
// pkg/diag so the two can be compared and sorted directly.
type Location struct {
	Line   int
	Column int
}

// String renders the location as "line:column" for error messages.
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Before reports whether l sorts strictly before other, ordering first by
// line then by column.
func (l Location) Before(other Location) bool {
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Column < other.Column
}

// Span is a half-open source range used by the symbol index, where
// declarations and references are always reported as single-line ranges.
type Span struct {
	Line      int
	Column    int
	EndColumn int
}
