package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Konsultn-Engineering/sqlexpr/types"
)

// TableColumns maps a column name to its declared type.
type TableColumns map[string]types.PrimitiveType

// TableCache keeps the column types of recently used tables.
type TableCache struct {
	cache *lru.Cache[string, TableColumns]
	mu    sync.RWMutex
}

func NewTableCache(size int) (*TableCache, error) {
	c, err := lru.New[string, TableColumns](size)
	if err != nil {
		return nil, err
	}
	return &TableCache{cache: c}, nil
}

func (t *TableCache) Get(table string) (TableColumns, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cache.Get(table)
}

// GetOrLoad returns the cached columns of table, calling load on a miss.
// A failed load is not cached.
func (t *TableCache) GetOrLoad(table string, load func() (TableColumns, error)) (TableColumns, error) {
	// Fast path: read lock only
	t.mu.RLock()
	if cols, ok := t.cache.Get(table); ok {
		t.mu.RUnlock()
		return cols, nil
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()

	// Double-check after acquiring write lock
	if cols, ok := t.cache.Get(table); ok {
		return cols, nil
	}

	cols, err := load()
	if err != nil {
		return nil, err
	}

	t.cache.Add(table, cols)
	return cols, nil
}

func (t *TableCache) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cache.Len()
}

func (t *TableCache) Purge() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cache.Purge()
}
