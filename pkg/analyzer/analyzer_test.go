package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/what386/lash-sub001/pkg/diag"
)

func codes(res Result) []diag.Code {
	var out []diag.Code
	for _, d := range res.Diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func TestAnalyzer_CleanSourceHasNoErrors(t *testing.T) {
	res := AnalyzeSource("let x = 1\nlet y = x + 1\n", "t.lash", Options{})
	assert.False(t, res.HasErrors)
	assert.NotNil(t, res.Program)
}

func TestAnalyzer_SyntaxErrorStopsLaterPhases(t *testing.T) {
	res := AnalyzeSource("let x = \n", "t.lash", Options{})
	assert.True(t, res.HasErrors)
}

func TestAnalyzer_UndeclaredReferenceIsReported(t *testing.T) {
	res := AnalyzeSource("let x = y\n", "t.lash", Options{})
	assert.True(t, res.HasErrors)
	assert.Contains(t, codes(res), diag.EUndeclared)
}

func TestAnalyzer_TypeErrorGatedAfterResolve(t *testing.T) {
	res := AnalyzeSource("let x = true - 1\n", "t.lash", Options{})
	assert.True(t, res.HasErrors)
	assert.Contains(t, codes(res), diag.ETypeMismatch)
}

func TestAnalyzer_WarningsOnlyIncludedWhenRequested(t *testing.T) {
	without := AnalyzeSource("let x = 1\n", "t.lash", Options{IncludeWarnings: false})
	assert.NotContains(t, codes(without), diag.WUnusedVariable)

	with := AnalyzeSource("let x = 1\n", "t.lash", Options{IncludeWarnings: true})
	assert.Contains(t, codes(with), diag.WUnusedVariable)
}

func TestAnalyzer_DiagnosticsStampedWithVirtualPath(t *testing.T) {
	res := AnalyzeSource("let x = y\n", "virtual.lash", Options{})
	for _, d := range res.Diagnostics {
		assert.Equal(t, "virtual.lash", d.File)
	}
}

func TestAnalyzer_SymbolIndexOnlyBuiltWhenRequested(t *testing.T) {
	without := AnalyzeSource("let x = 1\n", "t.lash", Options{})
	assert.Nil(t, without.Symbols)

	with := AnalyzeSource("let x = 1\n", "t.lash", Options{BuildSymbolIndex: true})
	if assert.NotNil(t, with.Symbols) {
		assert.NotEmpty(t, with.Symbols.Declarations)
	}
}

func TestAnalyzer_AnalyzePathReadsFileAndStampsItsPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.lash")
	if err := os.WriteFile(path, []byte("let x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := AnalyzePath(path, Options{})
	if assert.NoError(t, err) {
		assert.False(t, res.HasErrors)
		for _, d := range res.Diagnostics {
			assert.Equal(t, path, d.File)
		}
	}
}

func TestAnalyzer_AnalyzePathMissingFileReturnsError(t *testing.T) {
	_, err := AnalyzePath(filepath.Join(t.TempDir(), "missing.lash"), Options{})
	assert.Error(t, err)
}
