package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer — контактные данные и адрес покупателя. Все поля обязательны.
type Customer struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required"`
	Phone         string `json:"phone" validate:"required"`
	City          string `json:"city" validate:"required"`
	PostalCode    string `json:"postalCode" validate:"required"`
	StreetAddress string `json:"streetAddress" validate:"required"`
	Country       string `json:"country" validate:"required"`
}

// CheckoutRequest — полезная нагрузка, которую принимает платёжный коллаборатор.
type CheckoutRequest struct {
	Customer
	CartProducts Snapshot `json:"cartProducts" validate:"min=1"`
}

// CheckoutOrder — заказ, собранный для одной попытки оплаты. Локально не хранится.
type CheckoutOrder struct {
	Reference    string
	Customer     Customer
	CartProducts Snapshot
	Total        decimal.Decimal
}

// CheckoutResult — успешная передача заказа коллаборатору.
type CheckoutResult struct {
	Reference   string          `json:"reference"`
	RedirectURL string          `json:"url"`
	Total       decimal.Decimal `json:"total"`
}

// CartLine — строка страницы корзины.
type CartLine struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Image     string          `json:"image,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// CartSummary — оценённая корзина.
type CartSummary struct {
	Lines []CartLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// OrderPlacedEvent — событие передачи заказа на оплату (уходит в Kafka).
type OrderPlacedEvent struct {
	Reference    string          `json:"reference"`
	SessionID    string          `json:"sessionId"`
	Customer     Customer        `json:"customer"`
	CartProducts Snapshot        `json:"cartProducts"`
	Total        decimal.Decimal `json:"total"`
	PlacedAt     time.Time       `json:"placedAt"`
}
