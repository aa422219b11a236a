package lang

// Env implements a lexical environment chain. Scopes live in an arena and
// refer to their parent by index; the global scope is index 0 and has no
// parent. An Env is not safe for concurrent use.
type Env struct {
	scopes  []scope
	current int
}

type scope struct {
	parent int // -1 for the global scope
	values map[string]Value
}

// NewEnv creates an environment holding only the global scope.
func NewEnv() *Env {
	return &Env{
		scopes: []scope{{parent: -1, values: make(map[string]Value)}},
	}
}

// Define binds name to val in the current scope, replacing any binding
// of the same name there.
func (e *Env) Define(name string, val Value) {
	e.scopes[e.current].values[name] = val
}

// Get retrieves a binding, searching outward from the current scope.
func (e *Env) Get(name string) (Value, bool) {
	for i := e.current; i >= 0; i = e.scopes[i].parent {
		if val, ok := e.scopes[i].values[name]; ok {
			return val, true
		}
	}
	return Nil, false
}

// Assign updates the innermost existing binding of name and returns the
// value it replaced. It never creates a binding; ok is false when name is
// not bound in any enclosing scope.
func (e *Env) Assign(name string, val Value) (old Value, ok bool) {
	for i := e.current; i >= 0; i = e.scopes[i].parent {
		values := e.scopes[i].values
		if prev, found := values[name]; found {
			values[name] = val
			return prev, true
		}
	}
	return Nil, false
}

// Push enters a new empty scope nested in the current one.
func (e *Env) Push() {
	e.scopes = append(e.scopes, scope{
		parent: e.current,
		values: make(map[string]Value),
	})
	e.current = len(e.scopes) - 1
}

// Pop leaves the current scope, discarding its bindings. It reports false
// and does nothing at the global scope.
func (e *Env) Pop() bool {
	if e.current == 0 {
		return false
	}
	parent := e.scopes[e.current].parent
	// Scopes are strictly nested, so the current scope is always the
	// last one in the arena.
	e.scopes[e.current] = scope{}
	e.scopes = e.scopes[:e.current]
	e.current = parent
	return true
}

// Depth returns the number of scopes above the global one.
func (e *Env) Depth() int {
	depth := 0
	for i := e.current; e.scopes[i].parent >= 0; i = e.scopes[i].parent {
		depth++
	}
	return depth
}
