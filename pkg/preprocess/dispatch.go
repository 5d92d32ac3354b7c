package preprocess

import (
	"os"
	"strings"

	"github.com/what386/lash-sub001/pkg/diag"
)

// DiskImporter is the disk-backed Importer used by cmd/lashc: path is
// already resolved to an absolute/relative filesystem path by the
// caller (Processor.resolveImportPath joins it against baseDir first).
func DiskImporter(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// handleDirective parses and applies one "@..." directive line, always
// returning the text (if any) that should replace it in the
// preprocessed output: empty for directives that are pure control-flow
// (@if/@elif/@else/@end/@define/@undef/@warning/@error), spliced content
// for @import, and a '[[' raw-string opener for an active '@raw'.
func (p *Processor) handleDirective(lineNo int, trimmed string) string {
	keyword, rest := splitDirective(trimmed)
	if !directiveKeywords[keyword] {
		p.bag.Addf(diag.Error, diag.EDirectiveUnknown, lineNo, 0, "unknown directive %q", keyword)
		return ""
	}

	switch keyword {
	case "@if":
		p.handleIf(lineNo, rest)
	case "@elif":
		p.handleElif(lineNo, rest)
	case "@else":
		p.handleElse(lineNo, rest)
	case "@end":
		p.handleEnd(lineNo)
	case "@define":
		p.handleDefine(lineNo, rest)
	case "@undef":
		p.handleUndef(lineNo, rest)
	case "@import":
		return p.handleImport(lineNo, rest)
	case "@raw":
		return p.handleRaw(lineNo, rest)
	case "@warning":
		p.bag.Add(diag.Warning, diag.EDirectiveSyntax, lineNo, 0, directiveMessage(rest, "warning"))
	case "@error":
		p.bag.Add(diag.Error, diag.EDirectiveSyntax, lineNo, 0, directiveMessage(rest, "error"))
	}
	return ""
}

func directiveMessage(rest, kind string) string {
	rest = strings.Trim(rest, `"`)
	if rest == "" {
		return kind + " directive"
	}
	return rest
}

func (p *Processor) evalCond(lineNo int, expr string) bool {
	if expr == "" {
		p.bag.Add(diag.Error, diag.EDirectiveSyntax, lineNo, 0, "missing condition expression")
		return false
	}
	v, err := newCondEvaluator(expr, p.table).Eval()
	if err != nil {
		p.bag.Addf(diag.Error, diag.EDirectiveSyntax, lineNo, 0, "bad condition: %s", err)
		return false
	}
	return v
}

func (p *Processor) handleIf(lineNo int, rest string) {
	matched := p.evalCond(lineNo, rest)
	p.frames.push(condFrame{
		parentActive:     p.frames.parentIsActive(),
		anyBranchMatched: matched,
		isActive:         matched,
		line:             lineNo,
	})
}

func (p *Processor) handleElif(lineNo int, rest string) {
	top, ok := p.frames.top()
	if !ok {
		p.bag.Add(diag.Error, diag.EDirectiveStructure, lineNo, 0, "'@elif' with no matching '@if'")
		return
	}
	if top.elseSeen {
		p.bag.Add(diag.Error, diag.EDirectiveStructure, lineNo, 0, "'@elif' after '@else'")
		return
	}
	if top.anyBranchMatched {
		top.isActive = false
		return
	}
	matched := p.evalCond(lineNo, rest)
	top.isActive = matched
	top.anyBranchMatched = matched
}

func (p *Processor) handleElse(lineNo int, rest string) {
	top, ok := p.frames.top()
	if !ok {
		p.bag.Add(diag.Error, diag.EDirectiveStructure, lineNo, 0, "'@else' with no matching '@if'")
		return
	}
	if top.elseSeen {
		p.bag.Add(diag.Error, diag.EDirectiveStructure, lineNo, 0, "duplicate '@else'")
		return
	}
	top.elseSeen = true
	top.isActive = !top.anyBranchMatched
	if !top.anyBranchMatched {
		top.anyBranchMatched = true
	}
}

func (p *Processor) handleEnd(lineNo int) {
	if _, ok := p.frames.pop(); !ok {
		p.bag.Add(diag.Error, diag.EDirectiveStructure, lineNo, 0, "'@end' with no matching '@if'")
	}
}

func (p *Processor) handleDefine(lineNo int, rest string) {
	if rest == "" {
		p.bag.Add(diag.Error, diag.EDirectiveSyntax, lineNo, 0, "missing name in '@define'")
		return
	}
	name, value := splitDefine(rest)
	if !isValidSymbolName(name) {
		p.bag.Addf(diag.Error, diag.EDirectiveSyntax, lineNo, 0, "bad symbol name %q", name)
		return
	}
	p.table.Define(name, ParseDefine(value))
}

// splitDefine separates "NAME=value" or "NAME value" into its two
// halves, per spec.md §4.1's "@define NAME[=value|<space>value]" form.
// The '=' form (no surrounding space required) takes precedence when
// both an '=' and whitespace appear before it.
func splitDefine(rest string) (name, value string) {
	eq := strings.IndexByte(rest, '=')
	sp := strings.IndexAny(rest, " \t")
	switch {
	case eq >= 0 && (sp < 0 || eq < sp):
		return strings.TrimSpace(rest[:eq]), strings.TrimSpace(rest[eq+1:])
	case sp >= 0:
		return rest[:sp], strings.TrimSpace(rest[sp+1:])
	default:
		return rest, ""
	}
}

func (p *Processor) handleUndef(lineNo int, rest string) {
	name := strings.TrimSpace(rest)
	if !isValidSymbolName(name) {
		p.bag.Addf(diag.Error, diag.EDirectiveSyntax, lineNo, 0, "bad symbol name %q", name)
		return
	}
	p.table.Undef(name)
}

func isValidSymbolName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9') {
			continue
		}
		return false
	}
	return true
}

// handleRaw opens an '@raw' block, returning the text (if any) that
// replaces the '@raw' line itself. When the enclosing frame is active, it
// emits the '[[' sentinel that opens a raw-string token spanning every
// following body line up to '@end' (see continueRawBlock); an inactive
// frame blanks the whole block instead, same as any other directive body.
func (p *Processor) handleRaw(lineNo int, rest string) string {
	if rest != "" {
		p.bag.Add(diag.Error, diag.ERawUsage, lineNo, 0, "'@raw' takes no arguments")
	}
	p.inRawBlock = true
	p.rawBlockLine = lineNo
	p.rawBlockActive = p.frames.parentIsActive()
	if p.rawBlockActive {
		return "[["
	}
	return ""
}

// handleImport implements "@import \"path\" [into [let|const] name]".
func (p *Processor) handleImport(lineNo int, rest string) string {
	if p.runtimeDepth > 0 {
		p.bag.Add(diag.Error, diag.EImportUsage, lineNo, 0, "'@import' is not allowed inside a runtime block")
		return ""
	}
	path, tail, ok := parseQuotedPath(rest)
	if !ok {
		p.bag.Add(diag.Error, diag.EDirectiveSyntax, lineNo, 0, "expected a quoted path after '@import'")
		return ""
	}

	content, err := p.resolveImportPath(path)
	if err != nil {
		p.bag.Addf(diag.Error, diag.EImportIO, lineNo, 0, "could not read import %q: %s", path, err)
		return ""
	}

	intoKind, intoName, ok := parseIntoClause(tail)
	if !ok {
		p.bag.Add(diag.Error, diag.EDirectiveSyntax, lineNo, 0, "malformed 'into' clause on '@import'")
		return ""
	}

	if intoName == "" {
		child := New(p.bag, p.baseDir, p.importer)
		child.table = p.table
		return child.Run(content)
	}

	kw := "let"
	if intoKind == Const {
		kw = "const"
	}
	return kw + " " + intoName + " = [[" + normalizeCRLF(content) + "]]"
}

// parseQuotedPath extracts a leading "\"...\"" path literal and returns
// it along with the remaining (trimmed) tail text.
func parseQuotedPath(s string) (path, tail string, ok bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || s[0] != '"' {
		return "", "", false
	}
	end := scanStringSpan(s, 0)
	if end > len(s) || end == 0 || s[end-1] != '"' || end == 1 {
		return "", "", false
	}
	return s[1 : end-1], strings.TrimSpace(s[end:]), true
}

// parseIntoClause parses an optional "into [let|const] name" suffix.
func parseIntoClause(tail string) (kind DeclKindAlias, name string, ok bool) {
	if tail == "" {
		return 0, "", true
	}
	fields := strings.Fields(tail)
	if len(fields) == 0 || fields[0] != "into" {
		return 0, "", false
	}
	fields = fields[1:]
	if len(fields) == 0 {
		return 0, "", false
	}
	kind = Let
	if fields[0] == "let" || fields[0] == "const" {
		if fields[0] == "const" {
			kind = Const
		}
		fields = fields[1:]
	}
	if len(fields) != 1 {
		return 0, "", false
	}
	return kind, fields[0], true
}

// DeclKindAlias mirrors ast.DeclKind without importing pkg/ast, keeping
// pkg/preprocess independent of the parser/AST layer (it runs strictly
// before them in the pipeline).
type DeclKindAlias int

const (
	Let DeclKindAlias = iota
	Const
)
