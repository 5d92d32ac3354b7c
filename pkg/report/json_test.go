package report

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/what386/lash-sub001/pkg/diag"
)

// TestReporter_Workflow verifies the full lifecycle of the reporter:
// accumulation, tallying, and JSON generation.
func TestReporter_Workflow(t *testing.T) {
	r := New()
	r.AddDiagnostic(diag.Diagnostic{
		Severity: diag.Error,
		Code:     diag.EUndeclared,
		Message:  "undeclared identifier 'y'",
		File:     "t.lash",
		Line:     3,
		Column:   8,
	})
	r.AddDiagnostic(diag.Diagnostic{
		Severity: diag.Warning,
		Code:     diag.WUnusedVariable,
		Message:  "unused variable 'x'",
		File:     "t.lash",
		Line:     1,
		Column:   4,
	})
	r.AddUnsupported("indexing a non-identifier target")

	data := r.GetData()
	assert.True(t, data.HasErrors)
	assert.Equal(t, 1, data.ErrorCount)
	assert.Equal(t, 1, data.WarningCount)
	assert.Equal(t, 1, data.UnsupportedCount)
	assert.Len(t, data.Diagnostics, 2)

	var buf bytes.Buffer
	assert.NoError(t, r.WriteJSON(&buf))
	out := buf.String()
	assert.Contains(t, out, `"has_errors": true`)
	assert.Contains(t, out, "E111")
	assert.Contains(t, out, "W503")

	var decoded Data
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, data, decoded)
}

// TestReporter_Concurrency checks strict thread safety for the reporter.
func TestReporter_Concurrency(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r.AddDiagnostic(diag.Diagnostic{
				Severity: diag.Warning,
				Code:     diag.WUnusedVariable,
				Message:  "unused",
				Line:     n,
			})
		}(i)
	}
	wg.Wait()

	data := r.GetData()
	assert.Equal(t, 100, data.WarningCount)
	assert.Len(t, data.Diagnostics, 100)
}

// TestReporter_Sorting verifies diagnostics are sorted by (line, column)
// regardless of the order they were added in.
func TestReporter_Sorting(t *testing.T) {
	r := New()
	r.AddDiagnostic(diag.Diagnostic{Severity: diag.Error, Code: diag.ESyntax, Line: 5, Column: 2})
	r.AddDiagnostic(diag.Diagnostic{Severity: diag.Error, Code: diag.ESyntax, Line: 1, Column: 9})
	r.AddDiagnostic(diag.Diagnostic{Severity: diag.Error, Code: diag.ESyntax, Line: 1, Column: 0})

	data := r.GetData()
	assert.Equal(t, 1, data.Diagnostics[0].Line)
	assert.Equal(t, 0, data.Diagnostics[0].Column)
	assert.Equal(t, 1, data.Diagnostics[1].Line)
	assert.Equal(t, 9, data.Diagnostics[1].Column)
	assert.Equal(t, 5, data.Diagnostics[2].Line)
}

// TestReporter_Empty verifies behavior when no diagnostics are added.
func TestReporter_Empty(t *testing.T) {
	r := New()
	var buf bytes.Buffer
	assert.NoError(t, r.WriteJSON(&buf))

	var decoded Data
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.False(t, decoded.HasErrors)
	assert.Empty(t, decoded.Diagnostics)
	assert.Empty(t, decoded.Unsupported)
}
