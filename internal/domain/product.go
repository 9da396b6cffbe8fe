package domain

import "github.com/shopspring/decimal"

// Product — запись каталога, которую потребляет корзина (цена, остаток).
type Product struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Images   []string        `json:"images"`
	Quantity int             `json:"quantity"`
}

// PriceList — индекс цен по идентификатору.
type PriceList map[string]decimal.Decimal

// NewPriceList — строит индекс из списка товаров (последняя запись выигрывает).
func NewPriceList(products []Product) PriceList {
	pl := make(PriceList, len(products))
	for i := range products {
		pl[products[i].ID] = products[i].Price
	}
	return pl
}

// ComputeTotal — сумма цен по каждому вхождению в корзине.
// Товар, которого нет в прайс-листе, даёт 0 (не ошибка).
func ComputeTotal(prices PriceList, cart Snapshot) decimal.Decimal {
	total := decimal.Zero
	for _, id := range cart {
		if price, ok := prices[id]; ok {
			total = total.Add(price)
		}
	}
	return total
}

// StockEvent — сообщение фида остатков.
type StockEvent struct {
	ID       string `json:"id"`
	Quantity *int   `json:"quantity"`
}
