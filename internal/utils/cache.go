package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// TTLCache 带默认过期时间的内存缓存
type TTLCache struct {
	store *cache.Cache
	ttl   time.Duration
}

// NewTTLCache 创建缓存，清理间隔为过期时间的两倍
func NewTTLCache(ttl time.Duration) *TTLCache {
	return &TTLCache{
		store: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (c *TTLCache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

func (c *TTLCache) Set(key string, value interface{}) {
	c.store.Set(key, value, c.ttl)
}

// Flush 清空所有缓存
func (c *TTLCache) Flush() {
	c.store.Flush()
}

// lruItem 包装实际的数据，增加过期时间
type lruItem[T any] struct {
	value     T
	expiredAt time.Time
}

// LRUCache 定长 LRU 缓存，条目超过 ttl 视为失效
type LRUCache[T any] struct {
	storage *lru.Cache[string, lruItem[T]]
	ttl     time.Duration
}

// NewLRUCache size 是最大缓存条数，ttl 是数据有效期
func NewLRUCache[T any](size int, ttl time.Duration) *LRUCache[T] {
	c, err := lru.New[string, lruItem[T]](size)
	if err != nil {
		// 仅在 size <= 0 时出错
		c, _ = lru.New[string, lruItem[T]](1)
	}
	return &LRUCache[T]{storage: c, ttl: ttl}
}

func (c *LRUCache[T]) Set(key string, value T) {
	c.storage.Add(key, lruItem[T]{value: value, expiredAt: time.Now().Add(c.ttl)})
}

// Get 读取缓存，过期条目会被移除
func (c *LRUCache[T]) Get(key string) (T, bool) {
	var zero T
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}
	if time.Now().After(item.expiredAt) {
		c.storage.Remove(key)
		return zero, false
	}
	return item.value, true
}

// Purge 清空
func (c *LRUCache[T]) Purge() {
	c.storage.Purge()
}

func (c *LRUCache[T]) Len() int {
	return c.storage.Len()
}
