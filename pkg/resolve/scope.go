package resolve

import "github.com/what386/lash-sub001/pkg/symbols"

// scopeKind distinguishes the three nesting levels spec.md §4.3 calls out:
// the single program-wide global scope, one scope per function body, and
// one scope per block (if/for/while/switch/subshell body).
type scopeKind int

const (
	scopeGlobal scopeKind = iota
	scopeFunction
	scopeBlock
)

// binding is what a scope maps a name to: enough to resolve later
// references, validate assignment targets, and check call arity, without
// re-walking the declaring AST node.
type binding struct {
	info        symbols.Info
	mutable     bool
	minArgs     int             // meaningful only for Kind == symbols.Function
	maxArgs     int             // meaningful only for Kind == symbols.Function
	enumMembers map[string]bool // meaningful only for Kind == symbols.Enum
}

type scope struct {
	kind   scopeKind
	names  map[string]*binding
	inLoop bool
}

func newScope(kind scopeKind) *scope {
	return &scope{kind: kind, names: make(map[string]*binding)}
}
