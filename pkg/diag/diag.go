// Package diag implements the diagnostic bag shared across every compiler
// phase: a single accumulator of severity-tagged, positioned messages that
// is passed explicitly from the preprocessor through to the Bash generator
// and never mutated once a diagnostic has been pushed.
package diag

import (
	"fmt"
	"sort"
	"sync"
)

// Severity classifies a Diagnostic. Warnings never fail a compile; errors
// halt the pipeline at the phase boundary that produced them.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

// String renders the severity the way it appears in CLI and report output.
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is a single compiler message. File is optional: diagnostics
// produced while analyzing a source string with no backing path (see
// pkg/analyzer.AnalyzeSource) leave it empty.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	File     string
	Line     int // 1-based
	Column   int // 0-based
}

// String renders a Diagnostic as "file:line:col: severity CODE: message",
// omitting the file segment when File is empty.
func (d Diagnostic) String() string {
	loc := fmt.Sprintf("%d:%d", d.Line, d.Column)
	if d.File != "" {
		loc = d.File + ":" + loc
	}
	return fmt.Sprintf("%s: %s %s: %s", loc, d.Severity, d.Code, d.Message)
}

// Bag accumulates diagnostics produced by any phase. It is the only
// cross-phase mutable object in the compiler (spec.md §9 "Global state");
// every phase receives it explicitly rather than through a package-level
// global, and every analyzer run constructs a fresh Bag.
//
// Bag is safe for concurrent use, though the core pipeline itself never
// pushes to it from more than one goroutine (spec.md §5).
type Bag struct {
	mu    sync.Mutex
	items []Diagnostic
}

// New returns an empty Bag.
func New() *Bag {
	return &Bag{}
}

// Push appends a diagnostic. It never mutates or removes prior entries.
func (b *Bag) Push(d Diagnostic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, d)
}

// Add is a convenience wrapper around Push that builds the Diagnostic from
// its parts.
func (b *Bag) Add(sev Severity, code Code, line, column int, message string) {
	b.Push(Diagnostic{Severity: sev, Code: code, Message: message, Line: line, Column: column})
}

// Addf is Add with a formatted message.
func (b *Bag) Addf(sev Severity, code Code, line, column int, format string, args ...any) {
	b.Add(sev, code, line, column, fmt.Sprintf(format, args...))
}

// SetFile stamps every diagnostic currently in the bag with the given file
// path. Used by pkg/analyzer after running a phase over a known-named
// source file, mirroring how import-spliced content still reports
// diagnostics against a single logical file.
func (b *Bag) SetFile(file string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].File == "" {
			b.items[i].File = file
		}
	}
}

// Items returns a sorted copy of the accumulated diagnostics, ordered by
// (line, column) as required by spec.md §3's Diagnostic invariant. The
// sort is stable so diagnostics emitted at the same position preserve
// phase order (earlier phases first).
func (b *Bag) Items() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Column < out[j].Column
	})
	return out
}

// HasErrors reports whether any accumulated diagnostic has Error severity.
func (b *Bag) HasErrors() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, d := range b.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Len returns the number of accumulated diagnostics.
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Merge appends every diagnostic in other into b, preserving each item's
// original severity/code/position. A nil other is a no-op.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.Items() {
		b.Push(d)
	}
}
