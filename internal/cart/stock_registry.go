package cart

import (
	"sync"

	"github.com/Gunvolt24/wb_cart/internal/domain"
)

// StockLimits — потолки количества по идентификатору товара.
type StockLimits map[string]int

// Clone — независимая копия.
func (l StockLimits) Clone() StockLimits {
	out := make(StockLimits, len(l))
	for id, q := range l {
		out[id] = q
	}
	return out
}

// StockRegistry — известные клиенту остатки товаров.
// Регистрация — upsert, последняя запись выигрывает; итог не зависит от порядка
// регистрации разных товаров. Тот же тип служит общей книгой остатков фида Kafka,
// поэтому доступ защищён RWMutex.
type StockRegistry struct {
	mu     sync.RWMutex
	limits StockLimits
}

func NewStockRegistry() *StockRegistry {
	return &StockRegistry{limits: make(StockLimits)}
}

// RegisterStock — записывает потолок для id. Пустой id и отрицательное количество игнорируются.
// Ноль допустим: товара нет в наличии, добавить его нельзя.
func (r *StockRegistry) RegisterStock(id string, quantity int) bool {
	if id == "" || quantity < 0 {
		return false
	}
	r.mu.Lock()
	r.limits[id] = quantity
	r.mu.Unlock()
	return true
}

// RegisterBatch — пакетная регистрация; возвращает число принятых записей.
func (r *StockRegistry) RegisterBatch(limits StockLimits) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	accepted := 0
	for id, q := range limits {
		if id == "" || q < 0 {
			continue
		}
		r.limits[id] = q
		accepted++
	}
	return accepted
}

// Ceiling — потолок для id, если зарегистрирован.
func (r *StockRegistry) Ceiling(id string) (int, bool) {
	r.mu.RLock()
	q, ok := r.limits[id]
	r.mu.RUnlock()
	return q, ok
}

// Limits — копия всех потолков.
func (r *StockRegistry) Limits() StockLimits {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.limits.Clone()
}

func (r *StockRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.limits)
}

// IsAtLimit — true, если потолок зарегистрирован и в корзине уже не меньше.
// Без зарегистрированного потолка добавление не ограничено.
func (r *StockRegistry) IsAtLimit(id string, cart domain.Snapshot) bool {
	ceiling, ok := r.Ceiling(id)
	if !ok {
		return false
	}
	return cart.Count(id) >= ceiling
}
