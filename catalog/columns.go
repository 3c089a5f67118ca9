package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Konsultn-Engineering/sqlexpr/cache"
	"github.com/Konsultn-Engineering/sqlexpr/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUnknownColumn = errors.New("unknown column")

// ColumnResolver supplies declared column types to the analyzer.
type ColumnResolver interface {
	ColumnType(ctx context.Context, table, column string) (types.PrimitiveType, error)
}

// StaticColumns resolves from a fixed map. Keys are "table.column" or a
// bare "column"; qualified keys win.
type StaticColumns map[string]types.PrimitiveType

func (s StaticColumns) ColumnType(_ context.Context, table, column string) (types.PrimitiveType, error) {
	if table != "" {
		if t, ok := s[strings.ToLower(table+"."+column)]; ok {
			return t, nil
		}
	}
	if t, ok := s[strings.ToLower(column)]; ok {
		return t, nil
	}
	return types.InvalidType, fmt.Errorf("%w: %s", ErrUnknownColumn, qualified(table, column))
}

func qualified(table, column string) string {
	if table == "" {
		return column
	}
	return table + "." + column
}

// pgColumnsQuery resolves the table name like the server does: a
// schema-qualified name names one relation, a bare name the first match
// on the search_path. Unknown tables yield no rows.
const pgColumnsQuery = `SELECT a.attname, a.atttypid
FROM pg_attribute a
WHERE a.attrelid = to_regclass($1) AND a.attnum > 0 AND NOT a.attisdropped`

type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// DefaultTableCacheSize bounds how many tables a PgColumnResolver keeps.
const DefaultTableCacheSize = 256

// PgColumnResolver reads column types from the Postgres catalog, one
// query per table, and keeps recently used tables in an LRU cache.
type PgColumnResolver struct {
	q      pgQuerier
	tables *cache.TableCache
}

func NewPgColumnResolver(pool *pgxpool.Pool, cacheSize int) (*PgColumnResolver, error) {
	return newPgColumnResolver(pool, cacheSize)
}

func newPgColumnResolver(q pgQuerier, cacheSize int) (*PgColumnResolver, error) {
	tables, err := cache.NewTableCache(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create table cache: %w", err)
	}
	return &PgColumnResolver{q: q, tables: tables}, nil
}

func (r *PgColumnResolver) ColumnType(ctx context.Context, table, column string) (types.PrimitiveType, error) {
	if table == "" {
		return types.InvalidType, fmt.Errorf("%w: %s has no table", ErrUnknownColumn, column)
	}

	cols, err := r.tables.GetOrLoad(table, func() (cache.TableColumns, error) {
		return r.load(ctx, table)
	})
	if err != nil {
		return types.InvalidType, err
	}

	t, ok := cols[column]
	if !ok {
		return types.InvalidType, fmt.Errorf("%w: %s", ErrUnknownColumn, qualified(table, column))
	}
	return t, nil
}

func (r *PgColumnResolver) load(ctx context.Context, table string) (cache.TableColumns, error) {
	rows, err := r.q.Query(ctx, pgColumnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("failed to load columns of %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(cache.TableColumns)
	for rows.Next() {
		var name string
		var oid uint32
		if err := rows.Scan(&name, &oid); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", table, err)
		}
		// Columns of types we cannot analyze stay unresolved.
		if t, err := types.FromOID(oid); err == nil {
			cols[name] = t
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load columns of %s: %w", table, err)
	}
	return cols, nil
}
