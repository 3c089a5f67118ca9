package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/sqlexpr/dialect"
	"github.com/Konsultn-Engineering/sqlexpr/types"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
dialect: mysql
log_level: debug
default_table: emp
columns:
  emp.salary: int
  Dept: varchar
catalog:
  host: localhost
  database: hr
  connect_timeout: 5s
  retry:
    max_retries: 3
`))
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Dialect)
	assert.Equal(t, 1024, cfg.QueryCacheSize, "defaults survive")
	assert.Equal(t, "emp", cfg.DefaultTable)
	require.NotNil(t, cfg.Catalog)
	assert.Equal(t, 5*time.Second, cfg.Catalog.ConnectTimeout)
	assert.Equal(t, 3, cfg.Catalog.Retry.MaxRetries)

	d, err := cfg.ResolveDialect()
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	cols, err := cfg.StaticColumns()
	require.NoError(t, err)
	assert.Equal(t, types.Int, cols["emp.salary"])
	assert.Equal(t, types.Varchar, cols["dept"])
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{name: "unknown dialect", yaml: "dialect: oracle", err: dialect.ErrUnknownDialect},
		{name: "bad cache size", yaml: "query_cache_size: 0"},
		{name: "bad table cache size", yaml: "table_cache_size: -1"},
		{name: "bad log level", yaml: "log_level: loud"},
		{name: "unknown column type", yaml: "columns: {x: blob}", err: types.ErrUnknownType},
		{name: "catalog without host", yaml: "catalog: {database: hr}"},
		{name: "malformed", yaml: "dialect: [postgres"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analyticfmt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dialect: tidb\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tidb", cfg.Dialect)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Nil(t, cfg.Catalog)

	d, err := cfg.ResolveDialect()
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "warn"

	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.ErrorLevel))
}
