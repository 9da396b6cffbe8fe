package memory

import (
	"container/list"
	"time"

	"github.com/Gunvolt24/wb_cart/pkg/metrics"
)

// evictLRU — удаляет наименее используемый элемент.
func (c *LRUCacheTTL[V]) evictLRU() *entry[V] {
	back := c.ll.Back()
	if back == nil {
		return nil
	}
	ent := back.Value.(*entry[V])
	c.removeElement(back)
	metrics.CacheOps.WithLabelValues(c.name, "evicted").Inc()
	return ent
}

// removeElement — удаляет элемент из списка и индекса.
func (c *LRUCacheTTL[V]) removeElement(elem *list.Element) {
	if ent, ok := elem.Value.(*entry[V]); ok {
		delete(c.index, ent.key)
	}
	c.ll.Remove(elem)
}

// isExpired — проверяет истечение TTL.
func (c *LRUCacheTTL[V]) isExpired(ent *entry[V], now time.Time) bool {
	if c.ttl <= 0 {
		return false
	}
	return now.After(ent.expiresAt)
}

// expiryFrom — момент истечения для текущего времени.
func (c *LRUCacheTTL[V]) expiryFrom(now time.Time) time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(c.ttl)
}

// pruneExpiredFromBack — удаляет истёкшие элементы с хвоста до первого актуального.
func (c *LRUCacheTTL[V]) pruneExpiredFromBack(now time.Time) []*entry[V] {
	if c.ttl <= 0 {
		return nil
	}
	var dropped []*entry[V]
	for {
		back := c.ll.Back()
		if back == nil {
			return dropped
		}
		ent := back.Value.(*entry[V])
		if !now.After(ent.expiresAt) {
			return dropped
		}
		c.removeElement(back)
		metrics.CacheOps.WithLabelValues(c.name, "expired").Inc()
		dropped = append(dropped, ent)
	}
}

func (c *LRUCacheTTL[V]) reportSize() {
	metrics.CacheSize.WithLabelValues(c.name).Set(float64(c.ll.Len()))
}

// copyOf — копия значения, если задана функция клонирования.
func (c *LRUCacheTTL[V]) copyOf(v V) V {
	if c.clone == nil {
		return v
	}
	return c.clone(v)
}
