package memory

import (
	"context"
	"sync"

	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/Gunvolt24/wb_cart/internal/ports"
)

var _ ports.ProductCatalog = (*Catalog)(nil)

// Catalog — каталог товаров в памяти.
type Catalog struct {
	mu       sync.RWMutex
	products map[string]domain.Product
}

func NewCatalog(products ...domain.Product) *Catalog {
	c := &Catalog{products: make(map[string]domain.Product, len(products))}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

// Upsert — добавить или заменить запись.
func (c *Catalog) Upsert(p domain.Product) {
	c.mu.Lock()
	c.products[p.ID] = p
	c.mu.Unlock()
}

// FindByIDs — по одной записи на каждый найденный id, в порядке первого появления.
func (c *Catalog) FindByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{}, len(ids))
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := c.products[id]; ok {
			p.Images = append([]string(nil), p.Images...)
			out = append(out, p)
		}
	}
	return out, nil
}
