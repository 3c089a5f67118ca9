package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Konsultn-Engineering/sqlexpr/analyzer"
	"github.com/Konsultn-Engineering/sqlexpr/ast"
	"github.com/Konsultn-Engineering/sqlexpr/cache"
	"github.com/Konsultn-Engineering/sqlexpr/catalog"
	"github.com/Konsultn-Engineering/sqlexpr/config"
	"github.com/Konsultn-Engineering/sqlexpr/connector"
	"github.com/Konsultn-Engineering/sqlexpr/visitor"
)

// AddRenderCommand adds the render subcommand to root.
func AddRenderCommand(root *cobra.Command, ac *AnalyticfmtCommand) {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Analyze expressions and print their SQL renderings",
		Long: `Analyze every expression of --file and print, for each one, its SQL,
its digest and its rendering for the configured dialect with bind
arguments.

With --standardize, analytic expressions are rewritten into their
execution form first. SQL and the dialect query keep what was written
while the digest shows the installed frame.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ac.runRender(cmd)
		},
	}

	cmd.Flags().String("file", "", "YAML file of expressions to render (required)")
	cmd.Flags().Bool("standardize", false, "Rewrite analytic expressions into their execution form")
	cmd.Flags().Bool("dedup", false, "Drop analytic expressions whose digest repeats an earlier one")
	_ = cmd.MarkFlagRequired("file")

	root.AddCommand(cmd)
}

// rendered is one expression of render's output.
type rendered struct {
	SQL     string `yaml:"sql"`
	Digest  string `yaml:"digest"`
	Dialect string `yaml:"dialect"`
	Query   string `yaml:"query"`
	Args    []any  `yaml:"args,omitempty"`
}

func (ac *AnalyticfmtCommand) runRender(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	path, _ := cmd.Flags().GetString("file")
	standardize, _ := cmd.Flags().GetBool("standardize")
	dedup, _ := cmd.Flags().GetBool("dedup")

	logger, err := ac.cfg.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	exprs, err := loadExprFile(path)
	if err != nil {
		return err
	}

	cols, closeCols, err := columnResolver(ctx, ac.cfg)
	if err != nil {
		return err
	}
	defer closeCols()

	a := analyzer.New(catalog.NewBuiltinRegistry(), cols, logger, analyzer.WithDefaultTable(ac.cfg.DefaultTable))
	for i, e := range exprs {
		if err := a.Analyze(ctx, e); err != nil {
			return fmt.Errorf("expression %d: %w", i+1, err)
		}
		if !standardize {
			continue
		}
		for _, analytic := range analyzer.Collect(e) {
			if err := a.Standardize(analytic); err != nil {
				return fmt.Errorf("expression %d: %w", i+1, err)
			}
		}
	}

	if dedup {
		exprs = dedupTopLevel(exprs)
	}

	d, err := ac.cfg.ResolveDialect()
	if err != nil {
		return err
	}
	qc, err := cache.NewQueryCache(ac.cfg.QueryCacheSize)
	if err != nil {
		return err
	}
	v := visitor.NewSQLVisitor(d, qc)
	defer v.Release()

	out := make([]rendered, 0, len(exprs))
	for i, e := range exprs {
		query, args, err := v.Build(e)
		if err != nil {
			return fmt.Errorf("expression %d: %w", i+1, err)
		}
		out = append(out, rendered{
			SQL:     e.ToSQL(),
			Digest:  e.ToDigest(),
			Dialect: d.Name(),
			Query:   query,
			Args:    args,
		})
	}
	logger.Debug("rendered expressions", zap.Int("count", len(out)), zap.String("dialect", d.Name()))

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return enc.Close()
}

// dedupTopLevel drops top-level analytic expressions that repeat an
// earlier one. Other expressions are kept in place.
func dedupTopLevel(exprs []ast.Expr) []ast.Expr {
	var analytics []*ast.AnalyticExpr
	for _, e := range exprs {
		if a, ok := e.(*ast.AnalyticExpr); ok {
			analytics = append(analytics, a)
		}
	}
	keep := make(map[*ast.AnalyticExpr]bool, len(analytics))
	for _, a := range analyzer.Dedup(analytics) {
		keep[a] = true
	}

	out := exprs[:0]
	for _, e := range exprs {
		if a, ok := e.(*ast.AnalyticExpr); ok && !keep[a] {
			continue
		}
		out = append(out, e)
	}
	return out
}

// columnResolver returns the configured column resolver and a func
// releasing it.
func columnResolver(ctx context.Context, cfg *config.Config) (catalog.ColumnResolver, func(), error) {
	if cfg.Catalog == nil {
		cols, err := cfg.StaticColumns()
		return cols, func() {}, err
	}

	pool, err := connector.OpenPool(ctx, *cfg.Catalog)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	r, err := catalog.NewPgColumnResolver(pool, cfg.TableCacheSize)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return r, pool.Close, nil
}
