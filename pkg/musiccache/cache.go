package musiccache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value   []byte
	expires time.Time // 零值表示永久有效
}

// Cache 进程内缓存，过期条目在读取时清除
type Cache struct {
	m   sync.Map
	now func() time.Time
}

// New 创建空缓存
func New() *Cache {
	return &Cache{now: time.Now}
}

// Get 获取值，不存在或已过期时 ok 为 false
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.m.Load(key)
	if !ok {
		return nil, false, nil
	}
	e := v.(*entry)
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.m.CompareAndDelete(key, v)
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set 写入值，ttl <= 0 表示永久有效
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := &entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}
	c.m.Store(key, e)
	return nil
}

// Delete 删除键
func (c *Cache) Delete(_ context.Context, key string) error {
	c.m.Delete(key)
	return nil
}

// Close 实现与 Redis 后端相同的生命周期接口
func (c *Cache) Close() error { return nil }
