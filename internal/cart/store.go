package cart

import (
	"context"

	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/Gunvolt24/wb_cart/pkg/metrics"
)

// readiness — разрешение на запись в слот (выставляет HydrationGuard).
type readiness interface {
	Ready() bool
}

// Store — содержимое корзины одной сессии.
// Каждая мутация — редьюсер над текущим состоянием, а не перезапись сохранённой копией.
type Store struct {
	items    domain.Snapshot
	registry *StockRegistry
	persist  *PersistenceAdapter
	gate     readiness
}

// NewStore — пустая корзина. Пока к ней не подключён HydrationGuard, мутации в слот не пишутся.
func NewStore(registry *StockRegistry, persist *PersistenceAdapter) *Store {
	if registry == nil {
		registry = NewStockRegistry()
	}
	return &Store{items: domain.Snapshot{}, registry: registry, persist: persist}
}

// AddProduct — добавить одно вхождение id. Отказ (пустой id или достигнут потолок) — тихий: false.
func (s *Store) AddProduct(ctx context.Context, id string) bool {
	return s.mutate(ctx, "add", func(prev domain.Snapshot) (domain.Snapshot, bool) {
		if id == "" || s.registry.IsAtLimit(id, prev) {
			return prev, false
		}
		return append(prev, id), true
	})
}

// RemoveProduct — удалить первое вхождение id; false, если его нет.
func (s *Store) RemoveProduct(ctx context.Context, id string) bool {
	return s.mutate(ctx, "remove", func(prev domain.Snapshot) (domain.Snapshot, bool) {
		for i, p := range prev {
			if p == id {
				next := make(domain.Snapshot, 0, len(prev)-1)
				next = append(next, prev[:i]...)
				return append(next, prev[i+1:]...), true
			}
		}
		return prev, false
	})
}

// Clear — пустая корзина и пустой снимок в слоте, независимо от стадии гидратации.
func (s *Store) Clear(ctx context.Context) {
	s.items = domain.Snapshot{}
	metrics.CartMutations.WithLabelValues("clear", "accepted").Inc()
	s.persist.Save(ctx, s.items)
}

// Replace — применить загруженный снимок (только для HydrationGuard, без записи).
func (s *Store) Replace(snap domain.Snapshot) {
	s.items = snap.Clone()
}

// Snapshot — копия содержимого.
func (s *Store) Snapshot() domain.Snapshot { return s.items.Clone() }

// Count — количество вхождений id.
func (s *Store) Count(id string) int { return s.items.Count(id) }

// Len — общее число позиций.
func (s *Store) Len() int { return len(s.items) }

func (s *Store) mutate(ctx context.Context, op string, reduce func(prev domain.Snapshot) (domain.Snapshot, bool)) bool {
	next, accepted := reduce(s.items)
	if !accepted {
		metrics.CartMutations.WithLabelValues(op, "rejected").Inc()
		return false
	}
	s.items = next
	metrics.CartMutations.WithLabelValues(op, "accepted").Inc()

	if s.gate != nil && s.gate.Ready() {
		s.persist.Save(ctx, s.items)
	}
	return true
}
