package ast

import (
	"testing"

	"github.com/Konsultn-Engineering/sqlexpr/catalog"
	"github.com/Konsultn-Engineering/sqlexpr/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireConsistent checks that the flattened children line up with the
// logical groups, slot by slot, by identity.
func requireConsistent(t *testing.T, a *AnalyticExpr) {
	t.Helper()

	args := a.FnCall().Args()
	partitions := a.PartitionExprs()
	orderBy := a.OrderByElements()
	var offsets []Expr
	if w := a.Window(); w != nil {
		if w.Left != nil && w.Left.Offset != nil {
			offsets = append(offsets, w.Left.Offset)
		}
		if w.Right != nil && w.Right.Offset != nil {
			offsets = append(offsets, w.Right.Offset)
		}
	}

	children := a.Children()
	require.Len(t, children, len(args)+len(partitions)+len(orderBy)+len(offsets))

	pos := 0
	for _, arg := range args {
		assert.Same(t, arg, children[pos], "function arg at child %d", pos)
		pos++
	}
	for _, p := range partitions {
		assert.Same(t, p, children[pos], "partition expr at child %d", pos)
		pos++
	}
	for _, o := range orderBy {
		assert.Same(t, o.Expr, children[pos], "order-by expr at child %d", pos)
		pos++
	}
	for _, off := range offsets {
		assert.Same(t, off, children[pos], "frame offset at child %d", pos)
		pos++
	}
}

func col(name string) *Column { return NewColumn("", name) }

func typedCol(name string, typ types.PrimitiveType) *Column {
	return NewTypedColumn("", name, typ)
}

func analyticFn(name string) *catalog.AggregateFunction {
	return catalog.NewAggregateFunction(name, true)
}

// rankByDept is RANK() OVER (PARTITION BY dept ORDER BY salary DESC).
func rankByDept() *AnalyticExpr {
	return NewAnalyticExpr(
		NewFunctionCall("RANK"),
		[]Expr{col("dept")},
		[]*OrderByElement{Desc(col("salary"))},
		nil,
	)
}

// movingSum is SUM(amount) OVER (PARTITION BY region, dept ORDER BY ts
// ROWS BETWEEN 2 PRECEDING AND 1 FOLLOWING).
func movingSum() *AnalyticExpr {
	return NewAnalyticExpr(
		NewFunctionCall("SUM", col("amount")),
		[]Expr{col("region"), col("dept")},
		[]*OrderByElement{Asc(col("ts"))},
		RowsBetween(PrecedingBoundary(NewIntLiteral(2)), FollowingBoundary(NewIntLiteral(1))),
	)
}
