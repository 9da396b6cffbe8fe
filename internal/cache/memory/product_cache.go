package memory

import (
	"context"
	"time"

	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/Gunvolt24/wb_cart/internal/ports"
)

var _ ports.ProductCache = (*ProductCache)(nil)

// ProductCache — кэш записей каталога поверх LRUCacheTTL.
type ProductCache struct {
	lru *LRUCacheTTL[domain.Product]
}

func NewProductCache(capacity int, ttl time.Duration) *ProductCache {
	return &ProductCache{
		lru: NewLRUCacheTTL("products", capacity, ttl, WithClone(cloneProduct)),
	}
}

func (c *ProductCache) Get(_ context.Context, id string) (domain.Product, bool) {
	return c.lru.Get(id)
}

func (c *ProductCache) Set(_ context.Context, product domain.Product) {
	c.lru.Set(product.ID, product)
}

// cloneProduct — копия записи, чтобы изменения снаружи не попадали в кэш.
func cloneProduct(p domain.Product) domain.Product {
	if p.Images != nil {
		p.Images = append([]string(nil), p.Images...)
	}
	return p
}
