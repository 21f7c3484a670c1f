package procinfo

// Environment holds a process's environment variables, preserving the
// order the kernel reported them in. Keys are unique; setting an existing
// key updates the value but keeps the original position.
type Environment struct {
	keys   []string
	values map[string]string
}

// NewEnvironment creates an empty Environment
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]string)}
}

// Set inserts or updates a variable
func (e *Environment) Set(key, value string) {
	if e.values == nil {
		e.values = make(map[string]string)
	}
	if _, ok := e.values[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
}

// Get returns the value for key and whether it is present
func (e *Environment) Get(key string) (string, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Keys returns the variable names in insertion order
func (e *Environment) Keys() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Len returns the number of variables
func (e *Environment) Len() int {
	return len(e.keys)
}

// Clone returns an independent copy
func (e *Environment) Clone() *Environment {
	c := &Environment{
		keys:   make([]string, len(e.keys)),
		values: make(map[string]string, len(e.values)),
	}
	copy(c.keys, e.keys)
	for k, v := range e.values {
		c.values[k] = v
	}
	return c
}
