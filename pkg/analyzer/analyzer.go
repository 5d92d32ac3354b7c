// Package analyzer implements spec.md §6.3's Analyzer API: the single
// entry point the CLI, tests, and (eventually) an LSP server all drive
// the compiler pipeline through. It sequences every phase from
// pkg/preprocess through pkg/warn into one pass over a single
// diag.Bag, gating each semantic phase on the previous one having run
// clean, the way the teacher's pkg/runner.Run sequences fix passes over
// a single accumulating error set.
package analyzer

import (
	"os"
	"path/filepath"

	"github.com/what386/lash-sub001/pkg/ast"
	"github.com/what386/lash-sub001/pkg/diag"
	"github.com/what386/lash-sub001/pkg/feasibility"
	"github.com/what386/lash-sub001/pkg/flow"
	"github.com/what386/lash-sub001/pkg/lexer"
	"github.com/what386/lash-sub001/pkg/parser"
	"github.com/what386/lash-sub001/pkg/preprocess"
	"github.com/what386/lash-sub001/pkg/resolve"
	"github.com/what386/lash-sub001/pkg/symbols"
	"github.com/what386/lash-sub001/pkg/typecheck"
	"github.com/what386/lash-sub001/pkg/warn"
)

// Options controls which optional, non-diagnostic-blocking work a run
// does, per spec.md §6.3's AnalysisOptions.
type Options struct {
	// IncludeWarnings runs pkg/warn and folds its W5xx diagnostics into
	// the result. Skipped entirely when false, since an LSP "on save"
	// pass may want errors only.
	IncludeWarnings bool
	// BuildSymbolIndex exposes the symbols.Index pkg/resolve already
	// built internally (every run needs it for pkg/feasibility) on the
	// returned Result, for editor-facing callers (go-to-definition,
	// find-references). When false, Result.Symbols is nil.
	BuildSymbolIndex bool
}

// Result is spec.md §6.3's AnalysisResult: everything a caller needs to
// report diagnostics, inspect the tree, or hand off to pkg/codegen.
type Result struct {
	Program     *ast.Program
	Diagnostics []diag.Diagnostic
	Symbols     *symbols.Index
	HasErrors   bool
}

// AnalyzePath reads path from disk and analyzes it, resolving any
// relative @import directives against path's directory.
func AnalyzePath(path string, opts Options) (Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	return analyze(string(src), path, filepath.Dir(path), opts), nil
}

// AnalyzeSource analyzes text directly, with no backing file on disk.
// virtualPath is stamped onto diagnostics for display purposes only; any
// @import directive in text reports E013, since there is no directory to
// resolve it against.
func AnalyzeSource(text, virtualPath string, opts Options) Result {
	return analyze(text, virtualPath, "", opts)
}

func analyze(src, file, baseDir string, opts Options) Result {
	bag := diag.New()

	pre := preprocess.New(bag, baseDir, nil)
	processed := pre.Run(src)

	toks := lexer.New(processed, bag).Tokenize()
	prog := parser.New(toks, processed, bag).ParseProgram()

	var idx symbols.Index
	if !bag.HasErrors() {
		idx = resolve.Resolve(prog, bag)
	}
	if !bag.HasErrors() {
		typecheck.Check(prog, bag)
	}
	if !bag.HasErrors() {
		flow.Check(prog, bag)
	}
	if !bag.HasErrors() {
		feasibility.Check(prog, idx, bag)
	}
	if opts.IncludeWarnings && !bag.HasErrors() {
		warn.Check(prog, idx, bag)
	}

	if file != "" {
		bag.SetFile(file)
	}

	result := Result{
		Program:     prog,
		Diagnostics: bag.Items(),
		HasErrors:   bag.HasErrors(),
	}
	if opts.BuildSymbolIndex {
		idxCopy := idx
		result.Symbols = &idxCopy
	}
	return result
}
