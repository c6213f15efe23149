package likestate

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultCacheSize = 1024

// CachedStats 缓存的统计值
type CachedStats struct {
	Snapshot
	FetchedAt time.Time
}

// StatsCache 客户端统计缓存，变更成功后显式失效
type StatsCache struct {
	lruCache *lru.Cache[Key, CachedStats]
	now      func() time.Time
}

func NewStatsCache(size int) (*StatsCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	l, err := lru.New[Key, CachedStats](size)
	if err != nil {
		return nil, err
	}
	return &StatsCache{lruCache: l, now: time.Now}, nil
}

// Get 取不超过 maxAge 的缓存，maxAge <= 0 表示不限制
func (c *StatsCache) Get(key Key, maxAge time.Duration) (Snapshot, bool) {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return Snapshot{}, false
	}
	if maxAge > 0 && c.now().Sub(val.FetchedAt) > maxAge {
		c.lruCache.Remove(key)
		return Snapshot{}, false
	}
	return val.Snapshot, true
}

func (c *StatsCache) Put(key Key, s Snapshot) {
	c.lruCache.Add(key, CachedStats{Snapshot: s, FetchedAt: c.now()})
}

func (c *StatsCache) Invalidate(key Key) {
	c.lruCache.Remove(key)
}

func (c *StatsCache) Purge() {
	c.lruCache.Purge()
}

func (c *StatsCache) Len() int {
	return c.lruCache.Len()
}
