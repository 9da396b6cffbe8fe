package cart

import (
	"context"

	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/Gunvolt24/wb_cart/pkg/metrics"
)

// HydrationGuard — однократное восстановление корзины из слота.
// UNMOUNTED → LOADING → READY; запись в слот разрешена только в READY.
type HydrationGuard struct {
	state   domain.HydrationState
	store   *Store
	persist *PersistenceAdapter
}

// NewHydrationGuard — подключается к store как условие записи.
func NewHydrationGuard(store *Store, persist *PersistenceAdapter) *HydrationGuard {
	g := &HydrationGuard{state: domain.HydrationUnmounted, store: store, persist: persist}
	store.gate = g
	return g
}

// Activate — при первом вызове загружает снимок и переводит в READY.
// Возвращает true, если гидратация выполнена этим вызовом.
func (g *HydrationGuard) Activate(ctx context.Context) bool {
	if g.state != domain.HydrationUnmounted {
		return false
	}
	g.state = domain.HydrationLoading

	snap, _ := g.persist.Load(ctx)
	g.store.Replace(snap)

	g.state = domain.HydrationReady
	metrics.CartHydrations.Inc()
	return true
}

func (g *HydrationGuard) State() domain.HydrationState { return g.state }

func (g *HydrationGuard) Ready() bool { return g.state == domain.HydrationReady }
