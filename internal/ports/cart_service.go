package ports

import (
	"context"

	"github.com/Gunvolt24/wb_cart/internal/domain"
)

// CartService — операции над сессиями корзины для транспортного слоя.
type CartService interface {
	View(ctx context.Context, sessionID string) (domain.CartView, error)
	Hydrate(ctx context.Context, sessionID string) (domain.CartView, error)
	Add(ctx context.Context, sessionID, productID string) (bool, domain.CartView, error)
	Remove(ctx context.Context, sessionID, productID string) (bool, domain.CartView, error)
	Clear(ctx context.Context, sessionID string) (domain.CartView, error)
	RegisterStock(ctx context.Context, sessionID string, limits map[string]int) (domain.CartView, error)
	Item(ctx context.Context, sessionID, productID string) (domain.CartItemView, error)
	Snapshot(ctx context.Context, sessionID string) (domain.Snapshot, error)
	AcknowledgeSuccess(ctx context.Context, sessionID, orderRef string) (bool, domain.CartView, error)
}

// CheckoutService — оценка корзины и передача заказа на оплату.
type CheckoutService interface {
	Summary(ctx context.Context, cart domain.Snapshot) (*domain.CartSummary, error)
	Submit(ctx context.Context, sessionID string, customer domain.Customer, cart domain.Snapshot) (*domain.CheckoutResult, error)
}
