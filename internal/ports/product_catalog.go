package ports

import (
	"context"

	"github.com/Gunvolt24/wb_cart/internal/domain"
)

// ProductCatalog — источник цен и остатков.
// Возвращает по одной записи на каждый найденный id; ненайденные просто пропускаются.
type ProductCatalog interface {
	FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
}

// ProductCache — кэш записей каталога.
type ProductCache interface {
	Get(ctx context.Context, id string) (domain.Product, bool)
	Set(ctx context.Context, product domain.Product)
}

// ProductLookup — поиск цен/деталей по списку id (возможны повторы) с кэшем.
type ProductLookup interface {
	FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
}
