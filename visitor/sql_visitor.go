package visitor

import (
	"strings"
	"sync"

	"github.com/Konsultn-Engineering/sqlexpr/ast"
	"github.com/Konsultn-Engineering/sqlexpr/cache"
	"github.com/Konsultn-Engineering/sqlexpr/dialect"
	"github.com/Konsultn-Engineering/sqlexpr/utils"
)

var visitorPool = sync.Pool{
	New: func() any {
		return &SQLVisitor{
			args: make([]any, 0, 8),
		}
	},
}

// SQLVisitor renders expression trees for a dialect. Identifiers are
// quoted and literals become bind placeholders.
type SQLVisitor struct {
	sb      strings.Builder
	args    []any
	dialect dialect.Dialect
	qcache  cache.QueryCache
}

// NewSQLVisitor takes a visitor from the pool. q may be nil to disable
// caching.
func NewSQLVisitor(d dialect.Dialect, q cache.QueryCache) *SQLVisitor {
	v := visitorPool.Get().(*SQLVisitor)
	v.dialect = d
	v.qcache = q
	v.sb.Reset()
	v.args = v.args[:0]
	return v
}

func (v *SQLVisitor) GetSB() *strings.Builder {
	return &v.sb
}

func (v *SQLVisitor) Release() {
	v.dialect = nil
	v.qcache = nil
	v.sb.Reset()
	v.args = v.args[:0]
	visitorPool.Put(v)
}

func (v *SQLVisitor) Reset() {
	v.sb.Reset()
	v.args = v.args[:0]
}

// Build renders root. Results are cached per dialect by cacheKey.
func (v *SQLVisitor) Build(root ast.Node) (string, []any, error) {
	key := cacheKey(root, v.dialect)

	if v.qcache != nil {
		if cached, ok := v.qcache.Get(key); ok && cached != nil {
			return cached.SQL, cached.Args, nil
		}
	}

	// Slow path: render and cache
	v.Reset()
	if err := root.Accept(v); err != nil {
		return "", nil, err
	}

	sql := v.sb.String()
	var args []any
	if len(v.args) > 0 {
		args = make([]any, len(v.args))
		copy(args, v.args)
	}

	if v.qcache != nil {
		v.qcache.Set(key, &cache.CachedQuery{SQL: sql, Args: args})
	}
	return sql, args, nil
}

// cacheKey extends the node fingerprint with what rendering depends on
// but node equality ignores: the exact spelling of quoted identifiers and
// frozen analytic SQL, which replaces the subtree it covers.
func cacheKey(root ast.Node, d dialect.Dialect) uint64 {
	key := utils.Mix64(root.Fingerprint(), utils.FingerprintString(d.Name()))
	e, ok := root.(ast.Expr)
	if !ok {
		return key
	}
	ast.Walk(e, func(n ast.Expr) bool {
		switch n := n.(type) {
		case *ast.Column:
			key = utils.Mix64(key, utils.FingerprintString("col:"+n.Table+"."+n.Name))
		case *ast.AnalyticExpr:
			if sql, frozen := n.CanonicalSQL(); frozen {
				key = utils.Mix64(key, utils.FingerprintString("frozen:"+sql))
				return false
			}
		}
		return true
	})
	return key
}

func (v *SQLVisitor) Arg(a any) {
	v.args = append(v.args, a)
}

func (v *SQLVisitor) VisitColumn(c *ast.Column) error {
	if c.Table != "" {
		v.sb.WriteString(v.dialect.QuoteIdentifier(c.Table))
		v.sb.WriteByte('.')
	}
	v.sb.WriteString(v.dialect.QuoteIdentifier(c.Name))
	return nil
}

func (v *SQLVisitor) VisitLiteral(l *ast.Literal) error {
	if l.IsNull() {
		v.sb.WriteString("NULL")
		return nil
	}
	v.sb.WriteString(v.dialect.Placeholder(len(v.args) + 1))
	v.Arg(l.Val)
	return nil
}

func (v *SQLVisitor) VisitFunctionCall(f *ast.FunctionCallExpr) error {
	v.sb.WriteString(f.Name)
	v.sb.WriteByte('(')
	if f.Distinct {
		v.sb.WriteString("DISTINCT ")
	}
	if err := v.writeList(f.Args()); err != nil {
		return err
	}
	v.sb.WriteByte(')')
	return nil
}

func (v *SQLVisitor) VisitBinaryExpr(expr *ast.BinaryExpr) error {
	if err := expr.Left().Accept(v); err != nil {
		return err
	}

	v.sb.WriteByte(' ')
	v.sb.WriteString(expr.Operator)
	v.sb.WriteByte(' ')

	return expr.Right().Accept(v)
}

// VisitAnalyticExpr writes frozen SQL verbatim. Otherwise frame offsets
// are inlined, since most engines reject placeholders there.
func (v *SQLVisitor) VisitAnalyticExpr(a *ast.AnalyticExpr) error {
	if sql, frozen := a.CanonicalSQL(); frozen {
		v.sb.WriteString(sql)
		return nil
	}

	if err := a.FnCall().Accept(v); err != nil {
		return err
	}
	v.sb.WriteString(" OVER (")

	needsSpace := false
	if partition := a.PartitionExprs(); len(partition) > 0 {
		v.sb.WriteString("PARTITION BY ")
		if err := v.writeList(partition); err != nil {
			return err
		}
		needsSpace = true
	}

	if orderBy := a.OrderByElements(); len(orderBy) > 0 {
		if needsSpace {
			v.sb.WriteByte(' ')
		}
		v.sb.WriteString("ORDER BY ")
		for i, o := range orderBy {
			if i > 0 {
				v.sb.WriteString(", ")
			}
			if err := v.writeOrderBy(o); err != nil {
				return err
			}
		}
		needsSpace = true
	}

	if w := a.Window(); w != nil {
		if needsSpace {
			v.sb.WriteByte(' ')
		}
		if err := v.writeWindow(w); err != nil {
			return err
		}
	}

	v.sb.WriteByte(')')
	return nil
}

// --- helpers ---

func (v *SQLVisitor) writeList(exprs []ast.Expr) error {
	for i, e := range exprs {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		if err := e.Accept(v); err != nil {
			return err
		}
	}
	return nil
}

func (v *SQLVisitor) writeOrderBy(o *ast.OrderByElement) error {
	if err := o.Expr.Accept(v); err != nil {
		return err
	}
	if o.Desc {
		v.sb.WriteString(" DESC")
	} else {
		v.sb.WriteString(" ASC")
	}
	switch o.Nulls {
	case ast.NullsFirst:
		v.sb.WriteString(" NULLS FIRST")
	case ast.NullsLast:
		v.sb.WriteString(" NULLS LAST")
	}
	return nil
}

func (v *SQLVisitor) writeWindow(w *ast.AnalyticWindow) error {
	v.sb.WriteString(w.Frame.String())
	v.sb.WriteByte(' ')
	if w.Right == nil {
		return v.writeBoundary(w.Left)
	}
	v.sb.WriteString("BETWEEN ")
	if err := v.writeBoundary(w.Left); err != nil {
		return err
	}
	v.sb.WriteString(" AND ")
	return v.writeBoundary(w.Right)
}

func (v *SQLVisitor) writeBoundary(b *ast.Boundary) error {
	if b.Offset != nil {
		if lit, ok := b.Offset.(*ast.Literal); ok {
			v.sb.WriteString(v.dialect.RenderValue(lit.Val))
		} else if err := b.Offset.Accept(v); err != nil {
			return err
		}
		v.sb.WriteByte(' ')
	}
	v.sb.WriteString(b.Type.String())
	return nil
}

var _ ast.Visitor = (*SQLVisitor)(nil)
