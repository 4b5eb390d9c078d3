package tython

// SymbolTable holds variable bindings for a single lexical scope, chained
// to its enclosing scope via Parent. Lookups walk outward; Set always
// writes to the local table, matching the original implementation's
// "assignment creates or overwrites in the current scope" rule.
type SymbolTable struct {
	symbols map[string]*Value
	Parent  *SymbolTable
}

// NewSymbolTable creates a scope, optionally chained to a parent. A nil
// parent marks the global scope.
func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Value), Parent: parent}
}

// Get looks up name in this table, then each enclosing table in turn.
func (t *SymbolTable) Get(name string) (*Value, bool) {
	if v, ok := t.symbols[name]; ok {
		return v, true
	}
	if t.Parent != nil {
		return t.Parent.Get(name)
	}
	return nil, false
}

// Set binds name to value in this table, shadowing any outer binding of
// the same name.
func (t *SymbolTable) Set(name string, value *Value) {
	t.symbols[name] = value
}

// Remove deletes a local binding. Parent tables are not touched.
func (t *SymbolTable) Remove(name string) {
	delete(t.symbols, name)
}

// Context names a single frame of execution: the program itself, or a
// call to a user-defined function. A Function value closes over the
// Context in which it was defined, so every call creates a fresh child
// Context of that captured frame rather than of the caller — Tython has
// lexical, not dynamic, scoping. Parent therefore tracks lexical nesting
// (and feeds traceback rendering), which is *not* the same thing as how
// deep the actual call stack is: a recursive function's DefContext is the
// same object on every call, so walking Parent can never see recursion.
// CallDepth is the dedicated, separate counter for that: it is carried
// from the caller's Context at each call site, independent of Parent.
type Context struct {
	DisplayName    string
	Parent         *Context
	ParentEntryPos *Position
	SymbolTable    *SymbolTable
	CallDepth      int
}

// NewContext builds a frame. parent/parentEntryPos are nil for the
// top-level program context. CallDepth starts at 0; callers that invoke a
// function must set the callee's Context.CallDepth explicitly from their
// own, since it is not derived from parent.
func NewContext(displayName string, parent *Context, parentEntryPos *Position) *Context {
	return &Context{DisplayName: displayName, Parent: parent, ParentEntryPos: parentEntryPos}
}
