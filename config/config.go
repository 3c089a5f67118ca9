package config

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Konsultn-Engineering/sqlexpr/catalog"
	"github.com/Konsultn-Engineering/sqlexpr/connector"
	"github.com/Konsultn-Engineering/sqlexpr/dialect"
	"github.com/Konsultn-Engineering/sqlexpr/types"
)

// Config is the analyticfmt configuration file.
type Config struct {
	Dialect        string `json:"dialect" yaml:"dialect"`
	QueryCacheSize int    `json:"query_cache_size" yaml:"query_cache_size"`
	LogLevel       string `json:"log_level" yaml:"log_level"`
	DefaultTable   string `json:"default_table" yaml:"default_table"`

	// Columns maps "table.column" or "column" to a SQL type name.
	Columns map[string]string `json:"columns,omitempty" yaml:"columns,omitempty"`

	// Catalog, when set, resolves column types from a live Postgres
	// catalog instead of Columns.
	Catalog        *connector.Config `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	TableCacheSize int               `json:"table_cache_size" yaml:"table_cache_size"`
}

func Default() *Config {
	return &Config{
		Dialect:        "postgres",
		QueryCacheSize: 1024,
		LogLevel:       "info",
		TableCacheSize: catalog.DefaultTableCacheSize,
	}
}

// Load reads a YAML file. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := dialect.ByName(c.Dialect); err != nil {
		return err
	}
	if c.QueryCacheSize <= 0 {
		return fmt.Errorf("query_cache_size must be positive, got %d", c.QueryCacheSize)
	}
	if c.TableCacheSize <= 0 {
		return fmt.Errorf("table_cache_size must be positive, got %d", c.TableCacheSize)
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if _, err := c.StaticColumns(); err != nil {
		return err
	}
	if c.Catalog != nil {
		if err := c.Catalog.Validate(); err != nil {
			return fmt.Errorf("invalid catalog: %w", err)
		}
	}
	return nil
}

func (c *Config) ResolveDialect() (dialect.Dialect, error) {
	return dialect.ByName(c.Dialect)
}

// StaticColumns converts Columns into a resolver.
func (c *Config) StaticColumns() (catalog.StaticColumns, error) {
	cols := make(catalog.StaticColumns, len(c.Columns))
	for name, typeName := range c.Columns {
		t, err := types.Parse(typeName)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		cols[strings.ToLower(name)] = t
	}
	return cols, nil
}

// NewLogger builds a console logger at the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = level
	zc.DisableStacktrace = true
	return zc.Build()
}
