package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedQuery is rendered SQL with its bind arguments.
type CachedQuery struct {
	SQL  string
	Args []any
}

type QueryCache interface {
	Get(fingerprint uint64) (*CachedQuery, bool)
	Set(fingerprint uint64, q *CachedQuery)
	Len() int
	Purge()
}

type lruQueryCache struct {
	cache *lru.Cache[uint64, *CachedQuery]
}

// NewQueryCache returns a QueryCache holding at most size entries.
func NewQueryCache(size int) (QueryCache, error) {
	c, err := lru.New[uint64, *CachedQuery](size)
	if err != nil {
		return nil, err
	}
	return &lruQueryCache{cache: c}, nil
}

func (c *lruQueryCache) Get(f uint64) (*CachedQuery, bool) {
	return c.cache.Get(f)
}

func (c *lruQueryCache) Set(f uint64, q *CachedQuery) {
	c.cache.Add(f, q)
}

func (c *lruQueryCache) Len() int { return c.cache.Len() }

func (c *lruQueryCache) Purge() { c.cache.Purge() }
