package catalog

import "strings"

// Function is a resolved function descriptor.
type Function interface {
	Name() string
}

// ScalarFunction is a row-at-a-time builtin.
type ScalarFunction struct {
	name string
}

func NewScalarFunction(name string) *ScalarFunction {
	return &ScalarFunction{name: strings.ToUpper(name)}
}

func (f *ScalarFunction) Name() string { return f.name }

// AggregateFunction is an aggregate builtin. Its AnalyticKind is resolved
// once, here, from the name.
type AggregateFunction struct {
	name     string
	analytic bool
	kind     AnalyticKind
}

// NewAggregateFunction creates a descriptor. analytic marks the aggregate
// as usable in front of an OVER clause.
func NewAggregateFunction(name string, analytic bool) *AggregateFunction {
	return &AggregateFunction{
		name:     strings.ToUpper(name),
		analytic: analytic,
		kind:     LookupKind(name),
	}
}

func (f *AggregateFunction) Name() string       { return f.name }
func (f *AggregateFunction) IsAnalytic() bool   { return f.analytic }
func (f *AggregateFunction) Kind() AnalyticKind { return f.kind }
