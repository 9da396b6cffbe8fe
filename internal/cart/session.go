package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/Gunvolt24/wb_cart/internal/domain"
)

// ErrSessionClosed — сессия вытеснена из реестра; мутации нужно повторить на новой.
var ErrSessionClosed = errors.New("cart session closed")

// Session — корзина одной сессии браузера: store, остатки, гидратация, запросы.
// Все операции сессии выполняются последовательно под одним мьютексом.
// После Close мутации и гидратация отклоняются, слот не перезаписывается.
type Session struct {
	id string

	mu       sync.Mutex
	closed   bool
	store    *Store
	registry *StockRegistry
	guard    *HydrationGuard
	query    *QueryFacade
}

// NewSession — явно созданная корзина; persist может быть без хранилища.
func NewSession(id string, persist *PersistenceAdapter) *Session {
	registry := NewStockRegistry()
	store := NewStore(registry, persist)
	guard := NewHydrationGuard(store, persist)
	return &Session{
		id:       id,
		store:    store,
		registry: registry,
		guard:    guard,
		query:    NewQueryFacade(store, registry, guard),
	}
}

func (s *Session) ID() string { return s.id }

// Close — завершение сессии (вытеснение). Дожидается текущей мутации.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Activate — гидратация при первом обращении; true, если выполнена сейчас.
func (s *Session) Activate(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrSessionClosed
	}
	return s.guard.Activate(ctx), nil
}

func (s *Session) AddProduct(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrSessionClosed
	}
	return s.store.AddProduct(ctx, id), nil
}

func (s *Session) RemoveProduct(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrSessionClosed
	}
	return s.store.RemoveProduct(ctx, id), nil
}

func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.store.Clear(ctx)
	return nil
}

func (s *Session) RegisterStock(id string, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.RegisterStock(id, quantity)
}

func (s *Session) RegisterBatch(limits StockLimits) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.RegisterBatch(limits)
}

// UpdateKnownStock — обновить потолок, только если сессия уже знает этот товар.
func (s *Session) UpdateKnownStock(id string, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.registry.Ceiling(id); !ok {
		return false
	}
	return s.registry.RegisterStock(id, quantity)
}

func (s *Session) View() domain.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query.View(s.id)
}

func (s *Session) Item(id string) domain.CartItemView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query.Item(id)
}

// Snapshot — копия корзины на текущий момент; последующие мутации её не меняют.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query.Products()
}

func (s *Session) Quantity(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query.Quantity(id)
}

func (s *Session) IsAtLimit(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query.IsAtLimit(id)
}

func (s *Session) State() domain.HydrationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guard.State()
}
