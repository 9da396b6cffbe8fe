package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/Gunvolt24/wb_cart/internal/ports"
	"github.com/Gunvolt24/wb_cart/pkg/metrics"
)

// SlotKey — имя долговременного слота для сессии.
func SlotKey(sessionID string) string { return "cart:" + sessionID }

// PersistenceAdapter — чтение и запись снимка корзины в долговременный слот.
// Ошибки хранилища не поднимаются наверх: они логируются и считаются в метриках,
// корзина продолжает работать в памяти.
type PersistenceAdapter struct {
	store   ports.SnapshotStore
	slot    string
	timeout time.Duration
	log     ports.Logger
}

// NewPersistenceAdapter — store может быть nil: тогда загрузка ничего не находит, а запись отбрасывается.
func NewPersistenceAdapter(store ports.SnapshotStore, slot string, timeout time.Duration, log ports.Logger) *PersistenceAdapter {
	return &PersistenceAdapter{store: store, slot: slot, timeout: timeout, log: log}
}

// Slot — ключ слота.
func (p *PersistenceAdapter) Slot() string { return p.slot }

// Load — снимок из слота. Отсутствующий слот, null и нечитаемое содержимое дают (пусто, false).
func (p *PersistenceAdapter) Load(ctx context.Context) (domain.Snapshot, bool) {
	if p == nil || p.store == nil {
		metrics.CartPersistenceOps.WithLabelValues("load", "skipped").Inc()
		return domain.Snapshot{}, false
	}

	opCtx, cancel := p.opContext(ctx)
	defer cancel()

	raw, found, err := p.store.Get(opCtx, p.slot)
	if err != nil {
		metrics.CartPersistenceOps.WithLabelValues("load", "error").Inc()
		p.warnf(ctx, "snapshot load slot=%s: %v", p.slot, err)
		return domain.Snapshot{}, false
	}
	if !found {
		metrics.CartPersistenceOps.WithLabelValues("load", "absent").Inc()
		return domain.Snapshot{}, false
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		metrics.CartPersistenceOps.WithLabelValues("load", "error").Inc()
		p.warnf(ctx, "snapshot decode slot=%s: %v", p.slot, err)
		return domain.Snapshot{}, false
	}

	metrics.CartPersistenceOps.WithLabelValues("load", "ok").Inc()
	snap := make(domain.Snapshot, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			snap = append(snap, id)
		}
	}
	return snap, true
}

// Save — перезаписывает слот снимком. Подтверждения никто не ждёт.
func (p *PersistenceAdapter) Save(ctx context.Context, snap domain.Snapshot) {
	if p == nil || p.store == nil {
		metrics.CartPersistenceOps.WithLabelValues("save", "skipped").Inc()
		return
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		metrics.CartPersistenceOps.WithLabelValues("save", "error").Inc()
		p.warnf(ctx, "snapshot encode slot=%s: %v", p.slot, err)
		return
	}

	opCtx, cancel := p.opContext(ctx)
	defer cancel()

	if err := p.store.Put(opCtx, p.slot, raw); err != nil {
		metrics.CartPersistenceOps.WithLabelValues("save", "error").Inc()
		p.warnf(ctx, "snapshot save slot=%s: %v", p.slot, err)
		return
	}
	metrics.CartPersistenceOps.WithLabelValues("save", "ok").Inc()
}

// opContext — отдельный таймаут на каждое обращение; отмена клиентского запроса запись не прерывает.
func (p *PersistenceAdapter) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if p.timeout <= 0 {
		return context.WithCancel(base)
	}
	return context.WithTimeout(base, p.timeout)
}

func (p *PersistenceAdapter) warnf(ctx context.Context, format string, args ...any) {
	if p.log != nil {
		p.log.Warnf(ctx, format, args...)
	}
}
