package ports

import (
	"context"

	"github.com/Gunvolt24/wb_cart/internal/domain"
)

// PaymentGateway — внешний коллаборатор оформления заказа.
// Отвечает за подсчёт количеств по cartProducts и за авторитетную проверку остатков.
type PaymentGateway interface {
	// CreateCheckout — вернуть URL для перенаправления покупателя на оплату.
	CreateCheckout(ctx context.Context, order *domain.CheckoutOrder) (string, error)
}

// OrderPublisher — публикация переданного на оплату заказа (fire-and-forget).
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *domain.OrderPlacedEvent) error
}
