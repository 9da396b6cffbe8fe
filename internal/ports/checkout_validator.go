package ports

import (
	"context"

	"github.com/Gunvolt24/wb_cart/internal/domain"
)

// CheckoutValidator — проверка полей покупателя и корзины перед оформлением.
// Возвращает *domain.ValidationError со всеми проблемными полями сразу.
type CheckoutValidator interface {
	Validate(ctx context.Context, req *domain.CheckoutRequest) error
}
