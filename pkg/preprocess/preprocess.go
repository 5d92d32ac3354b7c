// Package preprocess implements the line-oriented pass that runs over
// raw source text before pkg/lexer ever sees it: CRLF/shebang
// normalization, comment stripping, and evaluation of "@"-prefixed
// directives (spec.md §4.1). It is structured as an ordered sequence of
// passes over the text the way other_examples' dingo preprocessor
// chains per-concern processors, and its directive dispatch is a
// prefix-keyword table in the style of imnive-design-inco-go's
// ParseDirective.
package preprocess

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/what386/lash-sub001/pkg/diag"
)

// Importer resolves an @import path (relative to the importing file)
// to its raw contents. The default, used by New, reads from disk.
type Importer func(path string) (string, error)

// Processor runs the full preprocessing pipeline over one top-level
// file, recursively invoking itself for spliced @import targets.
type Processor struct {
	bag      *diag.Bag
	table    *SymbolTable
	importer Importer
	baseDir  string

	frames       frameStack
	runtimeDepth int
	inRawBlock   bool
	rawBlockLine int
	rawBlockActive bool // whether the enclosing frame was active when '@raw' was seen

	inBlockComment bool
	inRawLiteral   bool
}

// New returns a Processor reporting into bag. baseDir is used to resolve
// relative @import paths; pass "" when the source has no backing file
// (pkg/analyzer.AnalyzeSource), in which case any @import reports E013.
func New(bag *diag.Bag, baseDir string, importer Importer) *Processor {
	if importer == nil {
		importer = DiskImporter
	}
	return &Processor{bag: bag, table: NewSymbolTable(), importer: importer, baseDir: baseDir}
}

func defaultImporter(path string) (string, error) {
	return "", fmt.Errorf("no importer configured for path %q", path)
}

// Run preprocesses src and returns the resulting text, ready for
// pkg/lexer. Diagnostics are pushed into the Processor's bag; Run never
// returns an error itself (spec.md §9: failures are diagnostics, not
// Go errors, once inside the compiler pipeline proper).
func (p *Processor) Run(src string) string {
	src = normalizeCRLF(src)
	lines := strings.Split(src, "\n")
	lines = p.stripShebang(lines)

	var out strings.Builder
	for i, line := range lines {
		lineNo := i + 1
		rendered := p.processLine(lineNo, line)
		out.WriteString(rendered)
		if i != len(lines)-1 {
			out.WriteByte('\n')
		}
	}

	p.checkUnclosed()
	return out.String()
}

func normalizeCRLF(src string) string {
	return strings.ReplaceAll(src, "\r\n", "\n")
}

// stripShebang blanks a leading "#!" line, keeping its slot so line
// numbers are unaffected.
func (p *Processor) stripShebang(lines []string) []string {
	if len(lines) > 0 && strings.HasPrefix(lines[0], "#!") {
		lines[0] = ""
	}
	return lines
}

// processLine renders one physical line's contribution to the
// preprocessed output, consulting and updating cross-line state for
// block comments, raw multiline literals, and @raw verbatim blocks.
func (p *Processor) processLine(lineNo int, line string) string {
	if p.inRawBlock {
		return p.continueRawBlock(lineNo, line)
	}
	if p.inRawLiteral {
		return p.continueRawLiteral(lineNo, line)
	}
	if p.inBlockComment {
		return p.continueBlockComment(lineNo, line)
	}

	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "@") {
		return p.handleDirective(lineNo, trimmed)
	}

	stripped := p.stripInline(lineNo, line)
	return p.emitOrBlank(stripped)
}

// emitOrBlank returns rendered unless the current conditional frame is
// inactive, in which case an empty line is substituted to preserve line
// numbering (spec.md §4.1: "subsequent branches ... emit empty lines").
func (p *Processor) emitOrBlank(rendered string) string {
	if top, ok := p.frames.top(); ok && !top.active() {
		return ""
	}
	p.trackRuntimeDepth(rendered)
	return rendered
}

func (p *Processor) trackRuntimeDepth(rendered string) {
	tok := leadingToken(strings.TrimSpace(rendered))
	if runtimeBlockOpeners[tok] {
		p.runtimeDepth++
	} else if tok == "end" {
		if p.runtimeDepth > 0 {
			p.runtimeDepth--
		}
	}
}

// continueRawLiteral handles a physical line that begins already inside
// an open "[[ ... ]]" span.
func (p *Processor) continueRawLiteral(lineNo int, line string) string {
	if idx := strings.Index(line, "]]"); idx >= 0 {
		p.inRawLiteral = false
		rest := p.stripInline(lineNo, line[idx+2:])
		return line[:idx+2] + rest
	}
	return line
}

// continueBlockComment handles a physical line that begins already
// inside an open "/* ... */" span.
func (p *Processor) continueBlockComment(lineNo int, line string) string {
	if idx := strings.Index(line, "*/"); idx >= 0 {
		p.inBlockComment = false
		rest := p.stripInline(lineNo, line[idx+2:])
		return rest
	}
	return ""
}

// stripInline removes "//" and "/* */" comments from line, respecting
// double-quoted string spans and "[[ ... ]]" raw-literal spans (neither
// of which may have their contents treated as commentable text), per
// spec.md §4.1 generalized to this language's own raw-literal syntax.
// Sets p.inBlockComment / p.inRawLiteral when a span is left open at the
// end of the line.
func (p *Processor) stripInline(lineNo int, line string) string {
	var out strings.Builder
	i := 0
	for i < len(line) {
		switch {
		case strings.HasPrefix(line[i:], "//"):
			return out.String()
		case strings.HasPrefix(line[i:], "/*"):
			if idx := strings.Index(line[i+2:], "*/"); idx >= 0 {
				i = i + 2 + idx + 2
				continue
			}
			p.inBlockComment = true
			return out.String()
		case line[i] == '"':
			end := scanStringSpan(line, i)
			out.WriteString(line[i:end])
			i = end
		case strings.HasPrefix(line[i:], "[["):
			if idx := strings.Index(line[i+2:], "]]"); idx >= 0 {
				end := i + 2 + idx + 2
				out.WriteString(line[i:end])
				i = end
				continue
			}
			out.WriteString(line[i:])
			p.inRawLiteral = true
			return out.String()
		default:
			out.WriteByte(line[i])
			i++
		}
	}
	return out.String()
}

// scanStringSpan returns the index just past the closing quote of the
// double-quoted string starting at line[start], handling backslash
// escapes; if unterminated, returns len(line).
func scanStringSpan(line string, start int) int {
	i := start + 1
	for i < len(line) {
		if line[i] == '\\' && i+1 < len(line) {
			i += 2
			continue
		}
		if line[i] == '"' {
			return i + 1
		}
		i++
	}
	return len(line)
}

// continueRawBlock passes an '@raw' body line through untouched (spec.md
// §4.1: its content bypasses Lash interpretation entirely, not merely the
// comment/directive stripping the rest of this file does). The body is
// wrapped between the '[[' / ']]' sentinels the lexer already treats as
// an opaque multiline raw-string token (pkg/lexer.scanRawString), so the
// parser captures the whole block as one CommandStatement rather than
// re-parsing each line against Lash grammar.
func (p *Processor) continueRawBlock(lineNo int, line string) string {
	if strings.TrimSpace(line) == "@end" {
		p.inRawBlock = false
		if p.rawBlockActive {
			return "]]"
		}
		return ""
	}
	if !p.rawBlockActive {
		return ""
	}
	return line
}

func (p *Processor) checkUnclosed() {
	if !p.frames.empty() {
		f, _ := p.frames.top()
		p.bag.Add(diag.Error, diag.EDirectiveStructure, f.line, 0,
			"unclosed '@if' directive, missing matching '@end'")
	}
	if p.inRawBlock {
		p.bag.Add(diag.Error, diag.EDirectiveStructure, p.rawBlockLine, 0,
			"unclosed '@raw' directive, missing matching '@end'")
	}
}

func (p *Processor) resolveImportPath(path string) (string, error) {
	if p.baseDir == "" {
		return "", fmt.Errorf("no base directory available to resolve %q", path)
	}
	return p.importer(filepath.Join(p.baseDir, path))
}
