package ast

import "github.com/Konsultn-Engineering/sqlexpr/catalog"

// IsAnalyticFunction reports whether fn is an aggregate that may be used
// with an OVER clause.
func IsAnalyticFunction(fn catalog.Function) bool {
	agg, ok := fn.(*catalog.AggregateFunction)
	return ok && agg != nil && agg.IsAnalytic()
}

// AnalyticKindOf returns fn's analytic kind, or KindNone when fn is not
// analytic.
func AnalyticKindOf(fn catalog.Function) catalog.AnalyticKind {
	if !IsAnalyticFunction(fn) {
		return catalog.KindNone
	}
	return fn.(*catalog.AggregateFunction).Kind()
}

// IsOffsetFunction reports LEAD and LAG.
func IsOffsetFunction(fn catalog.Function) bool { return AnalyticKindOf(fn).IsOffset() }

func IsNtileFunction(fn catalog.Function) bool { return AnalyticKindOf(fn).IsNtile() }

func IsRowNumberFunction(fn catalog.Function) bool { return AnalyticKindOf(fn).IsRowNumber() }

// CheckDefaultValue validates the default (third) argument of LEAD/LAG
// against the declared type of the first argument. Only the type's upper
// bound is checked. Non-literal defaults, non-numeric first arguments and
// LARGEINT/DECIMAL columns are not checked.
func CheckDefaultValue(call *FunctionCallExpr) error {
	args := call.Args()
	if len(args) < 3 {
		return nil
	}

	lit, ok := args[2].(*Literal)
	if !ok {
		return nil
	}

	colType := args[0].ResultType()
	if !colType.IsNumeric() {
		return nil
	}

	value, ok := lit.NumericValue()
	if !ok {
		return nil
	}

	limit, ok := colType.MaxValue()
	if !ok {
		return nil
	}

	if value > limit {
		return &AnalysisError{Type: colType, Value: value, Err: ErrValueOutOfRange}
	}
	return nil
}
