// Пакет payment — коллабораторы оформления заказа.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/Gunvolt24/wb_cart/internal/ports"
)

// ErrUnknownProduct — товара из заказа нет в каталоге.
var ErrUnknownProduct = errors.New("unknown product")

var _ ports.PaymentGateway = Disabled{}

// Disabled — заглушка без ключа платёжного провайдера: любой вызов — сетевая ошибка.
type Disabled struct{}

func (Disabled) CreateCheckout(context.Context, *domain.CheckoutOrder) (string, error) {
	return "", fmt.Errorf("%w: payments are not configured", domain.ErrNetwork)
}
