package cart

import "github.com/Gunvolt24/wb_cart/internal/domain"

// QueryFacade — производные значения для слоя представления.
// До READY отдаются заглушки (0, false, пусто), чтобы пререндер совпал с первым клиентским видом.
type QueryFacade struct {
	store    *Store
	registry *StockRegistry
	guard    *HydrationGuard
}

func NewQueryFacade(store *Store, registry *StockRegistry, guard *HydrationGuard) *QueryFacade {
	return &QueryFacade{store: store, registry: registry, guard: guard}
}

func (q *QueryFacade) Ready() bool { return q.guard.Ready() }

func (q *QueryFacade) Size() int {
	if !q.Ready() {
		return 0
	}
	return q.store.Len()
}

func (q *QueryFacade) Quantity(id string) int {
	if !q.Ready() {
		return 0
	}
	return q.store.Count(id)
}

func (q *QueryFacade) IsAtLimit(id string) bool {
	if !q.Ready() {
		return false
	}
	return q.registry.IsAtLimit(id, q.store.items)
}

func (q *QueryFacade) Products() domain.Snapshot {
	if !q.Ready() {
		return domain.Snapshot{}
	}
	return q.store.Snapshot()
}

// Item — состояние одного товара.
func (q *QueryFacade) Item(id string) domain.CartItemView {
	item := domain.CartItemView{ID: id, Quantity: q.Quantity(id), AtLimit: q.IsAtLimit(id)}
	if !q.Ready() {
		return item
	}
	if ceiling, ok := q.registry.Ceiling(id); ok {
		item.Ceiling = &ceiling
	}
	return item
}

// View — DTO корзины: позиции в порядке первого добавления.
func (q *QueryFacade) View(sessionID string) domain.CartView {
	products := q.Products()
	view := domain.CartView{
		SessionID: sessionID,
		Ready:     q.Ready(),
		State:     q.guard.State(),
		Products:  products,
		Size:      len(products),
		Items:     make([]domain.CartItemView, 0),
	}
	for _, id := range products.Distinct() {
		view.Items = append(view.Items, q.Item(id))
	}
	return view
}
