package rest

import (
	"time"

	"github.com/Gunvolt24/wb_cart/internal/ports"
)

// Handler — HTTP-обработчики корзины и оформления заказа.
type Handler struct {
	carts    ports.CartService
	checkout ports.CheckoutService
	catalog  ports.ProductLookup
	log      ports.Logger
	timeout  time.Duration // 0 — без ограничения
}

func NewHandler(
	carts ports.CartService,
	checkout ports.CheckoutService,
	catalog ports.ProductLookup,
	log ports.Logger,
	timeout time.Duration,
) *Handler {
	return &Handler{carts: carts, checkout: checkout, catalog: catalog, log: log, timeout: timeout}
}
