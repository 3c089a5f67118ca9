package analyzer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/sqlexpr/ast"
	"github.com/Konsultn-Engineering/sqlexpr/catalog"
)

// Analyzer binds expression trees against a function registry and a
// column resolver, and validates and rewrites analytic expressions.
// An Analyzer may be shared; the trees it is given may not.
type Analyzer struct {
	reg          *catalog.Registry
	cols         catalog.ColumnResolver
	logger       *zap.Logger
	defaultTable string
	ids          *passIDs
}

type Option func(*Analyzer)

// WithDefaultTable resolves unqualified columns against table.
func WithDefaultTable(table string) Option {
	return func(a *Analyzer) { a.defaultTable = table }
}

// New returns an Analyzer. A nil logger discards output.
func New(reg *catalog.Registry, cols catalog.ColumnResolver, logger *zap.Logger, opts ...Option) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Analyzer{
		reg:    reg,
		cols:   cols,
		logger: logger,
		ids:    newPassIDs(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze binds every column and function in e, bottom up, and validates
// each analytic expression. Nodes already analyzed are kept as they are.
func (a *Analyzer) Analyze(ctx context.Context, e ast.Expr) error {
	logger := a.logger.With(zap.Stringer("pass", a.ids.next()))
	logger.Debug("analyze", zap.String("expr", e.ToSQL()))

	if err := a.analyze(ctx, e, logger); err != nil {
		logger.Debug("analysis failed", zap.Error(err))
		return err
	}
	return nil
}

func (a *Analyzer) analyze(ctx context.Context, e ast.Expr, logger *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, child := range e.Children() {
		if err := a.analyze(ctx, child, logger); err != nil {
			return err
		}
	}

	switch n := e.(type) {
	case *ast.Column:
		return a.bindColumn(ctx, n)
	case *ast.FunctionCallExpr:
		return a.bindCall(n)
	case *ast.BinaryExpr:
		n.SetResultType(binaryType(n))
		n.SetAnalyzed()
	case *ast.AnalyticExpr:
		return a.analyzeAnalytic(n, logger)
	}
	return nil
}

func (a *Analyzer) bindColumn(ctx context.Context, c *ast.Column) error {
	if c.IsAnalyzed() {
		return nil
	}
	table := c.Table
	if table == "" {
		table = a.defaultTable
	}
	typ, err := a.cols.ColumnType(ctx, table, c.Name)
	if err != nil {
		return fmt.Errorf("failed to resolve column %s: %w", c.ToSQL(), err)
	}
	c.SetResultType(typ)
	c.SetAnalyzed()
	return nil
}

func (a *Analyzer) bindCall(f *ast.FunctionCallExpr) error {
	if f.IsAnalyzed() && f.Fn() != nil {
		return nil
	}
	fn, ok := a.reg.Lookup(f.Name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFunction, f.Name)
	}
	f.BindFn(fn)
	f.SetResultType(callType(f))
	f.SetAnalyzed()
	return nil
}

func (a *Analyzer) analyzeAnalytic(e *ast.AnalyticExpr, logger *zap.Logger) error {
	call := e.FnCall()
	if err := a.bindCall(call); err != nil {
		return err
	}
	if err := validate(e); err != nil {
		return err
	}
	e.SetResultType(call.ResultType())
	e.SetAnalyzed()
	logger.Debug("analytic expression analyzed",
		zap.String("fn", call.Name),
		zap.Stringer("kind", ast.AnalyticKindOf(call.Fn())),
		zap.Stringer("type", e.ResultType()))
	return nil
}

// Standardize rewrites e into the form execution expects. The surface SQL
// is frozen first so later renderings still show what the user wrote.
//
// LEAD and LAG get ROWS BETWEEN UNBOUNDED PRECEDING AND <offset>
// FOLLOWING|PRECEDING and ranking functions get ROWS BETWEEN UNBOUNDED
// PRECEDING AND CURRENT ROW. Neither is legal user SQL, so both are
// dropped again by the next reset. Any other ordered window without a
// frame gets the implicit RANGE frame spelled out.
func (a *Analyzer) Standardize(e *ast.AnalyticExpr) error {
	call := e.FnCall()
	if call.Fn() == nil {
		return fmt.Errorf("%w: %s", ErrNotAnalyzed, e.ToSQL())
	}
	e.FreezeSQL(e.ToSQL())

	kind := ast.AnalyticKindOf(call.Fn())
	switch {
	case kind.IsOffset():
		offset := ast.Expr(ast.NewIntLiteral(1))
		if args := call.Args(); len(args) > 1 {
			offset = args[1].Clone()
		}
		right := ast.PrecedingBoundary(offset)
		if kind == catalog.KindLead {
			right = ast.FollowingBoundary(offset)
		}
		e.SetWindow(ast.RowsBetween(ast.UnboundedPrecedingBoundary(), right))
		e.SetResetWindow(true)
	case kind.IsRanking():
		e.SetWindow(ast.RowsBetween(ast.UnboundedPrecedingBoundary(), ast.CurrentRowBoundary()))
		e.SetResetWindow(true)
	case len(e.OrderByElements()) > 0 && e.Window() == nil:
		e.SetWindow(ast.DefaultWindow())
	default:
		return nil
	}

	a.logger.Debug("standardized analytic expression",
		zap.String("sql", e.ToSQL()),
		zap.String("digest", e.ToDigest()),
		zap.Bool("reset_window", e.ResetWindowPending()))
	return nil
}

// SubstituteAll applies m to each expression. Results replace the inputs
// positionally and may be of a different node type.
func (a *Analyzer) SubstituteAll(exprs []ast.Expr, m *ast.SubstitutionMap) []ast.Expr {
	out := make([]ast.Expr, len(exprs))
	for i, e := range exprs {
		out[i] = ast.Substitute(e, m)
	}
	a.logger.Debug("substituted expressions",
		zap.Int("exprs", len(exprs)),
		zap.Int("mappings", m.Len()))
	return out
}

// Collect returns the analytic expressions in e, in preorder. Analytic
// expressions nested in another one's arguments are included.
func Collect(e ast.Expr) []*ast.AnalyticExpr {
	var out []*ast.AnalyticExpr
	ast.Walk(e, func(n ast.Expr) bool {
		if a, ok := n.(*ast.AnalyticExpr); ok {
			out = append(out, a)
		}
		return true
	})
	return out
}

// Dedup drops analytic expressions whose digest repeats an earlier one.
func Dedup(exprs []*ast.AnalyticExpr) []*ast.AnalyticExpr {
	seen := make(map[string]struct{}, len(exprs))
	out := make([]*ast.AnalyticExpr, 0, len(exprs))
	for _, e := range exprs {
		d := e.ToDigest()
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, e)
	}
	return out
}
