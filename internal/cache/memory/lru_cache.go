package memory

import (
	"container/list"
	"sync"
	"time"

	"github.com/Gunvolt24/wb_cart/pkg/metrics"
)

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// Option — настройка LRUCacheTTL.
type Option[V any] func(*LRUCacheTTL[V])

// WithClone — копировать значения на входе и выходе (для изменяемых структур).
func WithClone[V any](clone func(V) V) Option[V] {
	return func(c *LRUCacheTTL[V]) { c.clone = clone }
}

// WithEvictHook — вызывается после вытеснения или истечения TTL (вне блокировки кэша).
func WithEvictHook[V any](hook func(key string, value V)) Option[V] {
	return func(c *LRUCacheTTL[V]) { c.onEvict = hook }
}

// LRUCacheTTL — потокобезопасный LRU-кэш со скользящим TTL.
// name — метка cache в метриках.
type LRUCacheTTL[V any] struct {
	name     string
	capacity int
	ttl      time.Duration
	clone    func(V) V
	onEvict  func(key string, value V)

	ll    *list.List
	index map[string]*list.Element

	mu sync.Mutex
}

func NewLRUCacheTTL[V any](name string, capacity int, ttl time.Duration, opts ...Option[V]) *LRUCacheTTL[V] {
	if capacity <= 0 {
		capacity = 1
	}
	c := &LRUCacheTTL[V]{
		name:     name,
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		index:    make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get — значение по ключу; попадание продлевает TTL.
func (c *LRUCacheTTL[V]) Get(key string) (V, bool) {
	now := time.Now()

	c.mu.Lock()
	value, ok, dropped := c.lookup(key, now)
	c.mu.Unlock()

	c.notify(dropped)
	if !ok {
		return value, false
	}
	return c.copyOf(value), true
}

// Set — вставить или обновить значение.
func (c *LRUCacheTTL[V]) Set(key string, value V) {
	if key == "" {
		return
	}
	now := time.Now()

	c.mu.Lock()
	dropped := c.insert(key, c.copyOf(value), now)
	c.mu.Unlock()

	c.notify(dropped)
}

// GetOrCreate — атомарно вернуть живое значение или создать новое через create.
// created = true, если значение создано этим вызовом.
func (c *LRUCacheTTL[V]) GetOrCreate(key string, create func() V) (value V, created bool) {
	now := time.Now()

	c.mu.Lock()
	value, ok, dropped := c.lookup(key, now)
	if !ok {
		value = create()
		dropped = append(dropped, c.insert(key, value, now)...)
		created = true
	}
	c.mu.Unlock()

	c.notify(dropped)
	return c.copyOf(value), created
}

// Peek — значение без продления TTL и без изменения порядка LRU.
func (c *LRUCacheTTL[V]) Peek(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.index[key]
	if !ok {
		return zero, false
	}
	ent := elem.Value.(*entry[V])
	if c.isExpired(ent, time.Now()) {
		return zero, false
	}
	return c.copyOf(ent.value), true
}

// Delete — удалить ключ (без хука вытеснения).
func (c *LRUCacheTTL[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.index[key]; ok {
		c.removeElement(elem)
		c.reportSize()
	}
}

// Values — живые значения, от самых свежих к самым старым.
func (c *LRUCacheTTL[V]) Values() []V {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]V, 0, c.ll.Len())
	for elem := c.ll.Front(); elem != nil; elem = elem.Next() {
		ent := elem.Value.(*entry[V])
		if c.isExpired(ent, now) {
			continue
		}
		out = append(out, c.copyOf(ent.value))
	}
	return out
}

func (c *LRUCacheTTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// lookup — под блокировкой; истёкший элемент удаляется и возвращается в dropped.
func (c *LRUCacheTTL[V]) lookup(key string, now time.Time) (V, bool, []*entry[V]) {
	var zero V

	elem, ok := c.index[key]
	if !ok {
		metrics.CacheOps.WithLabelValues(c.name, "miss").Inc()
		return zero, false, nil
	}
	ent := elem.Value.(*entry[V])
	if c.isExpired(ent, now) {
		metrics.CacheOps.WithLabelValues(c.name, "expired").Inc()
		c.removeElement(elem)
		c.reportSize()
		return zero, false, []*entry[V]{ent}
	}
	c.ll.MoveToFront(elem)
	ent.expiresAt = c.expiryFrom(now)

	metrics.CacheOps.WithLabelValues(c.name, "hit").Inc()
	return ent.value, true, nil
}

// insert — под блокировкой; возвращает вытесненные элементы.
func (c *LRUCacheTTL[V]) insert(key string, value V, now time.Time) []*entry[V] {
	if elem, ok := c.index[key]; ok {
		ent := elem.Value.(*entry[V])
		ent.value = value
		ent.expiresAt = c.expiryFrom(now)
		c.ll.MoveToFront(elem)
		return nil
	}

	dropped := c.pruneExpiredFromBack(now)

	elem := c.ll.PushFront(&entry[V]{
		key:       key,
		value:     value,
		expiresAt: c.expiryFrom(now),
	})
	c.index[key] = elem

	if c.ll.Len() > c.capacity {
		if ent := c.evictLRU(); ent != nil {
			dropped = append(dropped, ent)
		}
	}
	c.reportSize()
	return dropped
}

func (c *LRUCacheTTL[V]) notify(dropped []*entry[V]) {
	if c.onEvict == nil {
		return
	}
	for _, ent := range dropped {
		c.onEvict(ent.key, ent.value)
	}
}
