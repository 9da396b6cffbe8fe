package usecase

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/Gunvolt24/wb_cart/internal/ports"
)

var _ ports.ProductLookup = (*CatalogService)(nil)

// CatalogService — поиск цен и деталей товаров с кэшем записей.
type CatalogService struct {
	catalog ports.ProductCatalog
	cache   ports.ProductCache
	log     ports.Logger
}

func NewCatalogService(catalog ports.ProductCatalog, cache ports.ProductCache, log ports.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, cache: cache, log: log}
}

// FindByIDs — по одной записи на каждый найденный id (повторы схлопываются,
// порядок первого появления сохраняется); ненайденные id пропускаются.
// Сбой каталога — domain.ErrNetwork: запрос можно повторить.
func (s *CatalogService) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	distinct := domain.Snapshot(ids).Distinct()
	if len(distinct) == 0 {
		return []domain.Product{}, nil
	}

	found := make(map[string]domain.Product, len(distinct))
	misses := make([]string, 0, len(distinct))
	for _, id := range distinct {
		if p, ok := s.cache.Get(ctx, id); ok {
			found[id] = p
			continue
		}
		misses = append(misses, id)
	}

	if len(misses) > 0 {
		fetched, err := s.catalog.FindByIDs(ctx, misses)
		if err != nil {
			s.log.Errorf(ctx, "catalog.FindByIDs failed ids=%d err=%v", len(misses), err)
			return nil, fmt.Errorf("%w: catalog lookup: %w", domain.ErrNetwork, err)
		}
		for _, p := range fetched {
			found[p.ID] = p
			s.cache.Set(ctx, p)
		}
		s.log.Debugf(ctx, "catalog lookup hits=%d fetched=%d", len(distinct)-len(misses), len(fetched))
	}

	out := make([]domain.Product, 0, len(found))
	for _, id := range distinct {
		if p, ok := found[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
