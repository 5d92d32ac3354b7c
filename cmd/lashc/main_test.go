package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeFixture(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.lash")
	assert.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRun_VersionPrintsAndExits(t *testing.T) {
	var buf bytes.Buffer
	err := run([]string{"--version"}, &buf)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "lashc")
}

func TestRun_MissingInputIsAnError(t *testing.T) {
	var buf bytes.Buffer
	err := run([]string{}, &buf)
	assert.Error(t, err)
}

func TestRun_CleanSourcePrintsBashToStdout(t *testing.T) {
	path := writeFixture(t, "let x = 1\n")
	var buf bytes.Buffer
	err := run([]string{path}, &buf)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "#!/usr/bin/env bash")
}

func TestRun_ErrorSourceReturnsErrAndPrintsDiagnostic(t *testing.T) {
	path := writeFixture(t, "let x = y\n")
	var buf bytes.Buffer
	err := run([]string{path}, &buf)
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "E111")
}

func TestRun_EmitBashWritesFile(t *testing.T) {
	path := writeFixture(t, "let x = 1\n")
	out := filepath.Join(filepath.Dir(path), "out.sh")
	var buf bytes.Buffer
	err := run([]string{path, "--emit-bash", out}, &buf)
	assert.NoError(t, err)

	written, readErr := os.ReadFile(out)
	assert.NoError(t, readErr)
	assert.Contains(t, string(written), "#!/usr/bin/env bash")
}

func TestRun_AST_PrintsJSON(t *testing.T) {
	path := writeFixture(t, "let x = 1\n")
	var buf bytes.Buffer
	err := run([]string{path, "--ast"}, &buf)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"kind": "VariableDeclaration"`)
}

func TestRun_CheckFlagsUpToDateFileAsClean(t *testing.T) {
	path := writeFixture(t, "let x = 1\n")
	out := filepath.Join(filepath.Dir(path), "out.sh")

	var first bytes.Buffer
	assert.NoError(t, run([]string{path, "--emit-bash", out}, &first))

	var second bytes.Buffer
	err := run([]string{path, "--check", "--emit-bash", out}, &second)
	assert.NoError(t, err)
}

func TestRun_CheckFlagsStaleFileAsError(t *testing.T) {
	path := writeFixture(t, "let x = 1\n")
	out := filepath.Join(filepath.Dir(path), "out.sh")
	assert.NoError(t, os.WriteFile(out, []byte("stale\n"), 0o644))

	var buf bytes.Buffer
	err := run([]string{path, "--check", "--emit-bash", out}, &buf)
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "@@")
}

func TestRun_UnsupportedConstructReturnsErrorAfterWritingPartialOutput(t *testing.T) {
	path := writeFixture(t, "let xs = [1, 2]\nlet z = xs[0][0]\n")
	out := filepath.Join(filepath.Dir(path), "out.sh")
	var buf bytes.Buffer
	err := run([]string{path, "--emit-bash", out}, &buf)
	assert.Error(t, err)

	written, readErr := os.ReadFile(out)
	assert.NoError(t, readErr)
	assert.NotEmpty(t, written)
}

func TestRun_UnknownFlagIsAnError(t *testing.T) {
	var buf bytes.Buffer
	err := run([]string{"--not-a-real-flag"}, &buf)
	assert.Error(t, err)
}
