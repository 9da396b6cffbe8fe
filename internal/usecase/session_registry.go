package usecase

import (
	"context"
	"time"

	cachemem "github.com/Gunvolt24/wb_cart/internal/cache/memory"
	"github.com/Gunvolt24/wb_cart/internal/cart"
	"github.com/Gunvolt24/wb_cart/internal/ports"
	"github.com/Gunvolt24/wb_cart/pkg/metrics"
)

// SessionRegistry — живые сессии корзин.
type SessionRegistry interface {
	GetOrCreate(key string, create func() *cart.Session) (*cart.Session, bool)
	Peek(key string) (*cart.Session, bool)
	Values() []*cart.Session
	Len() int
}

// NewSessionRegistry — LRU+TTL кэш сессий. Вытеснение — это завершение сессии:
// она закрывается для мутаций, её состояние остаётся только в долговременном слоте.
func NewSessionRegistry(capacity int, ttl time.Duration, log ports.Logger) *cachemem.LRUCacheTTL[*cart.Session] {
	return cachemem.NewLRUCacheTTL("sessions", capacity, ttl,
		cachemem.WithEvictHook(func(key string, sess *cart.Session) {
			sess.Close()
			metrics.CartSessions.Dec()
			log.Debugf(context.Background(), "cart session torn down sid=%s", key)
		}),
	)
}
