package catalog

import (
	"strings"
	"sync"
)

// Registry resolves function names to descriptors. Names are matched
// case-insensitively.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Function
}

func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Function, 32)}
}

// NewBuiltinRegistry returns a registry holding the builtin scalar,
// aggregate and analytic functions.
func NewBuiltinRegistry() *Registry {
	r := NewRegistry()
	for _, name := range []string{"ABS", "UPPER", "LOWER", "COALESCE", "CONCAT", "IF"} {
		r.Register(NewScalarFunction(name))
	}
	for k, info := range kindTable {
		if info.name == "" {
			continue
		}
		r.Register(NewAggregateFunction(info.name, AnalyticKind(k).Windowed()))
	}
	return r
}

func (r *Registry) Register(fn Function) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[strings.ToUpper(fn.Name())] = fn
}

func (r *Registry) Lookup(name string) (Function, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[strings.ToUpper(name)]
	return fn, ok
}
