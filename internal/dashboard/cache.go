package dashboard

import (
	"sync"

	"kpidash/internal/model"
)

// loadCache 数据加载缓存
// 以数据源指纹为键，只保留当前数据源这一份；
// 参数一变指纹就变，旧数据随之显式失效。
type loadCache struct {
	mu  sync.Mutex
	key string
	ds  *model.Dataset
}

func newLoadCache() *loadCache {
	return &loadCache{}
}

func (c *loadCache) get(key string) (*model.Dataset, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ds == nil || c.key != key {
		return nil, false
	}
	return c.ds, true
}

func (c *loadCache) put(key string, ds *model.Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = key
	c.ds = ds
}

func (c *loadCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = ""
	c.ds = nil
}
