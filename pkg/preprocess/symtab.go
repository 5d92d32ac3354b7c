package preprocess

// SymbolTable holds the preprocessor's @define/@undef symbols for one
// run; it is scoped to a single top-level file and its @import splices
// (spec.md §4.1).
type SymbolTable struct {
	values map[string]Value
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{values: make(map[string]Value)}
}

// Define records NAME's value, overwriting any prior definition.
func (t *SymbolTable) Define(name string, v Value) { t.values[name] = v }

// Undef removes NAME's definition, if any.
func (t *SymbolTable) Undef(name string) { delete(t.values, name) }

// Lookup returns NAME's Value, or the zero (Undefined) Value if unset.
func (t *SymbolTable) Lookup(name string) Value {
	if v, ok := t.values[name]; ok {
		return v
	}
	return Value{Kind: Undefined}
}

// Raw returns NAME's Value and whether it is currently defined, for
// defined(NAME) conditions.
func (t *SymbolTable) Raw(name string) (Value, bool) {
	v, ok := t.values[name]
	return v, ok
}
