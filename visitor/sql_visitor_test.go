package visitor

import (
	"errors"
	"testing"

	"github.com/Konsultn-Engineering/sqlexpr/ast"
	"github.com/Konsultn-Engineering/sqlexpr/cache"
	"github.com/Konsultn-Engineering/sqlexpr/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) cache.QueryCache {
	t.Helper()
	c, err := cache.NewQueryCache(16)
	require.NoError(t, err)
	return c
}

func rankByDept() *ast.AnalyticExpr {
	return ast.NewAnalyticExpr(
		ast.NewFunctionCall("RANK"),
		[]ast.Expr{ast.NewColumn("e", "dept")},
		[]*ast.OrderByElement{ast.Desc(ast.NewColumn("e", "salary"))},
		nil,
	)
}

func lagWithFrame() *ast.AnalyticExpr {
	return ast.NewAnalyticExpr(
		ast.NewFunctionCall("LAG", ast.NewColumn("", "price"), ast.NewIntLiteral(1), ast.NewIntLiteral(0)),
		[]ast.Expr{ast.NewColumn("", "sym")},
		[]*ast.OrderByElement{{Expr: ast.NewColumn("", "day"), Nulls: ast.NullsFirst}},
		ast.RowsBetween(ast.UnboundedPrecedingBoundary(), ast.PrecedingBoundary(ast.NewIntLiteral(1))),
	)
}

func TestSQLVisitor_Build(t *testing.T) {
	tests := []struct {
		name    string
		dialect dialect.Dialect
		node    ast.Node
		sql     string
		args    []any
	}{
		{
			name:    "postgres rank",
			dialect: dialect.NewPostgresDialect(),
			node:    rankByDept(),
			sql:     `RANK() OVER (PARTITION BY "e"."dept" ORDER BY "e"."salary" DESC)`,
		},
		{
			name:    "postgres lag with frame",
			dialect: dialect.NewPostgresDialect(),
			node:    lagWithFrame(),
			sql:     `LAG("price", $1, $2) OVER (PARTITION BY "sym" ORDER BY "day" ASC NULLS FIRST ROWS BETWEEN UNBOUNDED PRECEDING AND 1 PRECEDING)`,
			args:    []any{int64(1), int64(0)},
		},
		{
			name:    "mysql lag with frame",
			dialect: dialect.NewMySQLDialect(),
			node:    lagWithFrame(),
			sql:     "LAG(`price`, ?, ?) OVER (PARTITION BY `sym` ORDER BY `day` ASC NULLS FIRST ROWS BETWEEN UNBOUNDED PRECEDING AND 1 PRECEDING)",
			args:    []any{int64(1), int64(0)},
		},
		{
			name:    "empty over clause",
			dialect: dialect.NewTiDBDialect(),
			node:    ast.NewAnalyticExpr(ast.NewFunctionCall("ROW_NUMBER"), nil, nil, nil),
			sql:     "ROW_NUMBER() OVER ()",
		},
		{
			name:    "analytic inside arithmetic",
			dialect: dialect.NewPostgresDialect(),
			node: ast.NewBinaryExpr(
				ast.NewAnalyticExpr(ast.NewFunctionCall("SUM", ast.NewColumn("", "x")), nil, nil,
					ast.NewAnalyticWindow(ast.FrameRows, ast.CurrentRowBoundary(), nil)),
				"/",
				ast.NewIntLiteral(2),
			),
			sql:  `SUM("x") OVER (ROWS CURRENT ROW) / $1`,
			args: []any{int64(2)},
		},
		{
			name:    "null literal is inlined",
			dialect: dialect.NewPostgresDialect(),
			node:    ast.NewFunctionCall("COALESCE", ast.NewColumn("", "x"), ast.NewNullLiteral()),
			sql:     `COALESCE("x", NULL)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewSQLVisitor(tt.dialect, newCache(t))
			defer v.Release()

			sql, args, err := v.Build(tt.node)
			require.NoError(t, err)
			assert.Equal(t, tt.sql, sql)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestSQLVisitor_FrozenSQLIsVerbatim(t *testing.T) {
	a := rankByDept()
	require.True(t, a.FreezeSQL(a.ToSQL()))
	a.SetWindow(ast.RowsBetween(ast.UnboundedPrecedingBoundary(), ast.CurrentRowBoundary()))

	v := NewSQLVisitor(dialect.NewPostgresDialect(), nil)
	defer v.Release()

	sql, args, err := v.Build(a)
	require.NoError(t, err)
	assert.Equal(t, "RANK() OVER (PARTITION BY e.dept ORDER BY e.salary DESC)", sql)
	assert.Nil(t, args)
}

func TestSQLVisitor_Cache(t *testing.T) {
	c := newCache(t)
	node := lagWithFrame()

	pg := NewSQLVisitor(dialect.NewPostgresDialect(), c)
	defer pg.Release()

	sql1, args1, err := pg.Build(node)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	sql2, args2, err := pg.Build(lagWithFrame())
	require.NoError(t, err)
	assert.Equal(t, sql1, sql2)
	assert.Equal(t, args1, args2)
	assert.Equal(t, 1, c.Len(), "equal trees share an entry")

	my := NewSQLVisitor(dialect.NewMySQLDialect(), c)
	defer my.Release()

	sql3, _, err := my.Build(node)
	require.NoError(t, err)
	assert.NotEqual(t, sql1, sql3)
	assert.Equal(t, 2, c.Len(), "entries are per dialect")
}

func TestSQLVisitor_CacheKeepsIdentifierCase(t *testing.T) {
	sumOver := func(name string) *ast.AnalyticExpr {
		return ast.NewAnalyticExpr(
			ast.NewFunctionCall("SUM", ast.NewColumn("", name)),
			nil,
			[]*ast.OrderByElement{{Expr: ast.NewColumn("", "ts")}},
			nil,
		)
	}

	c := newCache(t)
	v := NewSQLVisitor(dialect.NewPostgresDialect(), c)
	defer v.Release()

	upper, _, err := v.Build(sumOver("Amount"))
	require.NoError(t, err)
	lower, _, err := v.Build(sumOver("amount"))
	require.NoError(t, err)

	assert.Equal(t, `SUM("Amount") OVER (ORDER BY "ts" ASC)`, upper)
	assert.Equal(t, `SUM("amount") OVER (ORDER BY "ts" ASC)`, lower)
	assert.Equal(t, 2, c.Len())
}

func TestSQLVisitor_CacheSeparatesFrozenSQL(t *testing.T) {
	a := ast.NewAnalyticExpr(
		ast.NewFunctionCall("SUM", ast.NewColumn("", "x")),
		nil,
		[]*ast.OrderByElement{{Expr: ast.NewColumn("", "t")}},
		ast.DefaultWindow(),
	)
	frozen := a.Clone().(*ast.AnalyticExpr)
	require.True(t, frozen.FreezeSQL("SUM(x) OVER (ORDER BY t ASC)"))

	c := newCache(t)
	v := NewSQLVisitor(dialect.NewPostgresDialect(), c)
	defer v.Release()

	sql, _, err := v.Build(a)
	require.NoError(t, err)
	assert.Equal(t, `SUM("x") OVER (ORDER BY "t" ASC RANGE BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW)`, sql)

	sql, _, err = v.Build(frozen)
	require.NoError(t, err)
	assert.Equal(t, "SUM(x) OVER (ORDER BY t ASC)", sql)

	sql, _, err = v.Build(a)
	require.NoError(t, err)
	assert.Equal(t, `SUM("x") OVER (ORDER BY "t" ASC RANGE BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW)`, sql)
	assert.Equal(t, 2, c.Len())
}

type failingNode struct{}

var errRender = errors.New("cannot render")

func (failingNode) Type() ast.NodeType       { return ast.NodeColumn }
func (failingNode) Accept(ast.Visitor) error { return errRender }
func (failingNode) Fingerprint() uint64      { return 42 }

func TestSQLVisitor_BuildError(t *testing.T) {
	c := newCache(t)
	v := NewSQLVisitor(dialect.NewPostgresDialect(), c)
	defer v.Release()

	_, _, err := v.Build(failingNode{})
	assert.ErrorIs(t, err, errRender)
	assert.Equal(t, 0, c.Len())
}

func TestSQLVisitor_ReleaseResetsState(t *testing.T) {
	v := NewSQLVisitor(dialect.NewPostgresDialect(), nil)
	_, _, err := v.Build(lagWithFrame())
	require.NoError(t, err)
	v.Release()

	v = NewSQLVisitor(dialect.NewMySQLDialect(), nil)
	defer v.Release()
	assert.Equal(t, 0, v.GetSB().Len())

	sql, args, err := v.Build(ast.NewColumn("", "x"))
	require.NoError(t, err)
	assert.Equal(t, "`x`", sql)
	assert.Nil(t, args)
}
