package ast

// SubstitutionMap maps expressions, by identity, to their replacements.
type SubstitutionMap struct {
	entries map[Expr]Expr
	order   []Expr
}

func NewSubstitutionMap() *SubstitutionMap {
	return &SubstitutionMap{entries: make(map[Expr]Expr)}
}

// Put maps from to to. from is matched by identity, not by Equals.
func (m *SubstitutionMap) Put(from, to Expr) {
	if _, ok := m.entries[from]; !ok {
		m.order = append(m.order, from)
	}
	m.entries[from] = to
}

func (m *SubstitutionMap) Get(e Expr) (Expr, bool) {
	if m == nil {
		return nil, false
	}
	r, ok := m.entries[e]
	return r, ok
}

func (m *SubstitutionMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Keys returns the mapped expressions in insertion order.
func (m *SubstitutionMap) Keys() []Expr {
	if m == nil {
		return nil
	}
	return append([]Expr(nil), m.order...)
}

type substituter interface {
	substitute(m *SubstitutionMap) Expr
}

// Substitute rewrites e with m. A mapped expression is replaced by a clone
// of its replacement; anything else has its children substituted in place
// and its analysis state reset. The returned expression may differ from e
// in type.
func Substitute(e Expr, m *SubstitutionMap) Expr {
	if e == nil {
		return nil
	}
	if r, ok := m.Get(e); ok {
		return r.Clone()
	}
	if s, ok := e.(substituter); ok {
		return s.substitute(m)
	}
	return substituteChildren(e, m)
}

func substituteChildren(e Expr, m *SubstitutionMap) Expr {
	for i, child := range e.Children() {
		e.SetChild(i, Substitute(child, m))
	}
	e.ResetAnalysisState()
	return e
}

// Walk calls fn for e and then, if fn returns true, for each of e's
// children in order.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	for _, child := range e.Children() {
		Walk(child, fn)
	}
}
