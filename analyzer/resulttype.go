package analyzer

import (
	"strings"

	"github.com/Konsultn-Engineering/sqlexpr/ast"
	"github.com/Konsultn-Engineering/sqlexpr/catalog"
	"github.com/Konsultn-Engineering/sqlexpr/types"
)

// callType derives the result type of a bound call from its arguments.
func callType(f *ast.FunctionCallExpr) types.PrimitiveType {
	args := f.Args()
	first := types.InvalidType
	if len(args) > 0 {
		first = args[0].ResultType()
	}

	switch ast.AnalyticKindOf(f.Fn()) {
	case catalog.KindRank, catalog.KindDenseRank, catalog.KindRowNumber, catalog.KindNtile, catalog.KindCount:
		return types.BigInt
	case catalog.KindAvg:
		return types.Double
	case catalog.KindSum:
		switch {
		case first == types.LargeInt || first == types.Decimal:
			return first
		case first.IsInteger():
			return types.BigInt
		}
		return types.Double
	case catalog.KindNone:
	default:
		return first
	}

	if _, ok := f.Fn().(*catalog.AggregateFunction); ok {
		// COUNT-like aggregates outside the builtin table
		return types.BigInt
	}

	switch strings.ToUpper(f.Name) {
	case "UPPER", "LOWER", "CONCAT":
		return types.Varchar
	case "IF":
		if len(args) > 1 {
			return args[1].ResultType()
		}
	case "COALESCE":
		for _, arg := range args {
			if t := arg.ResultType(); t != types.NullType && t != types.InvalidType {
				return t
			}
		}
	}
	return first
}

// binaryType derives the result type of l <op> r.
func binaryType(b *ast.BinaryExpr) types.PrimitiveType {
	switch strings.ToUpper(b.Operator) {
	case ast.OpEqual, ast.OpNotEqual, ast.OpLessThan, ast.OpLessThanOrEqual,
		ast.OpGreaterThan, ast.OpGreaterThanOrEqual, ast.OpAnd, ast.OpOr:
		return types.Boolean
	case ast.OpConcat:
		return types.Varchar
	case ast.OpDivide:
		return types.Double
	}
	return widen(b.Left().ResultType(), b.Right().ResultType())
}

// widen returns the numeric type able to hold both l and r.
func widen(l, r types.PrimitiveType) types.PrimitiveType {
	switch {
	case !l.IsNumeric():
		return r
	case !r.IsNumeric():
		return l
	case l.IsFloat() || r.IsFloat():
		return types.Double
	case l == types.Decimal || r == types.Decimal:
		return types.Decimal
	case l > r:
		return l
	}
	return r
}
