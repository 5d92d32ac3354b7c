// Package report renders an analyzer.Result as a JSON document for CI
// and editor tooling, the way the teacher's own report package turns an
// in-memory accumulator into one deterministic, sorted JSON document.
package report

import (
	"encoding/json"
	"io"
	"sort"
	"sync"

	"github.com/what386/lash-sub001/pkg/diag"
)

// DiagnosticEntry is one diagnostic's JSON shape.
type DiagnosticEntry struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Data is the top-level JSON document a compile run produces.
type Data struct {
	HasErrors        bool              `json:"has_errors"`
	ErrorCount       int               `json:"error_count"`
	WarningCount     int               `json:"warning_count"`
	UnsupportedCount int               `json:"unsupported_count"`
	Diagnostics      []DiagnosticEntry `json:"diagnostics"`
	Unsupported      []string          `json:"unsupported,omitempty"`
}

// Reporter accumulates one run's diagnostics and unsupported-construct
// notes and serializes them deterministically. It is safe for
// concurrent use, though a single analyzer.Result is produced by one
// goroutine in practice.
type Reporter struct {
	mu   sync.Mutex
	data Data
}

// New returns an empty Reporter.
func New() *Reporter {
	return &Reporter{data: Data{Diagnostics: []DiagnosticEntry{}}}
}

// AddDiagnostic records one diagnostic, updating the error/warning
// tallies and HasErrors.
func (r *Reporter) AddDiagnostic(d diag.Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data.Diagnostics = append(r.data.Diagnostics, DiagnosticEntry{
		Severity: d.Severity.String(),
		Code:     string(d.Code),
		Message:  d.Message,
		File:     d.File,
		Line:     d.Line,
		Column:   d.Column,
	})
	switch d.Severity {
	case diag.Error:
		r.data.ErrorCount++
		r.data.HasErrors = true
	case diag.Warning:
		r.data.WarningCount++
	}
}

// AddDiagnostics records every diagnostic in ds, in order.
func (r *Reporter) AddDiagnostics(ds []diag.Diagnostic) {
	for _, d := range ds {
		r.AddDiagnostic(d)
	}
}

// AddUnsupported records one pkg/codegen unsupported-construct note.
// These never set HasErrors: spec.md §4.7 treats them as a best-effort
// partial-output signal, not a diagnostic.
func (r *Reporter) AddUnsupported(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.Unsupported = append(r.data.Unsupported, msg)
	r.data.UnsupportedCount++
}

// AddUnsupportedAll records every unsupported-construct note in msgs.
func (r *Reporter) AddUnsupportedAll(msgs []string) {
	for _, m := range msgs {
		r.AddUnsupported(m)
	}
}

// sortDiagnosticsLocked sorts the accumulated diagnostics by (line,
// column) in place. Callers must hold r.mu.
func (r *Reporter) sortDiagnosticsLocked() {
	sort.SliceStable(r.data.Diagnostics, func(i, j int) bool {
		if r.data.Diagnostics[i].Line != r.data.Diagnostics[j].Line {
			return r.data.Diagnostics[i].Line < r.data.Diagnostics[j].Line
		}
		return r.data.Diagnostics[i].Column < r.data.Diagnostics[j].Column
	})
}

// WriteJSON serializes the accumulated report to w in indented JSON,
// sorting diagnostics by (line, column) first so output is
// deterministic regardless of accumulation order.
func (r *Reporter) WriteJSON(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sortDiagnosticsLocked()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.data)
}

// GetData returns a sorted copy of the accumulated report, primarily for
// tests and programmatic access outside of JSON serialization.
func (r *Reporter) GetData() Data {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sortDiagnosticsLocked()

	diags := make([]DiagnosticEntry, len(r.data.Diagnostics))
	copy(diags, r.data.Diagnostics)
	unsupported := make([]string, len(r.data.Unsupported))
	copy(unsupported, r.data.Unsupported)

	return Data{
		HasErrors:        r.data.HasErrors,
		ErrorCount:       r.data.ErrorCount,
		WarningCount:     r.data.WarningCount,
		UnsupportedCount: r.data.UnsupportedCount,
		Diagnostics:      diags,
		Unsupported:      unsupported,
	}
}
