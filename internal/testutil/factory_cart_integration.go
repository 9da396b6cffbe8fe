//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/shopspring/decimal"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakeProduct — товар каталога с уникальным id.
func MakeProduct(opts ...func(*domain.Product)) domain.Product {
	p := domain.Product{
		ID:       "prod-" + UniqSuffix(),
		Title:    "Ceramic mug",
		Price:    decimal.RequireFromString("12.50"),
		Images:   []string{"https://cdn.example.com/mug.png"},
		Quantity: 10,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// MakeCustomer — покупатель, проходящий валидацию.
func MakeCustomer(opts ...func(*domain.Customer)) domain.Customer {
	c := domain.Customer{
		Name:          "John Smith",
		Email:         "john@example.com",
		Phone:         "+1-202-555-01",
		City:          "Metropolis",
		PostalCode:    "000000",
		StreetAddress: "Main st 1",
		Country:       "US",
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
