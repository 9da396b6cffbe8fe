package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/wb_cart/internal/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore — отметки «обработано» в памяти; ttl <= 0 — бессрочно.
type IdempotencyStore struct {
	mu   sync.Mutex
	now  func() time.Time
	keys map[string]time.Time // key → момент истечения (нулевой — без срока)
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{now: time.Now, keys: make(map[string]time.Time)}
}

func (s *IdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if exp, ok := s.keys[key]; ok && (exp.IsZero() || now.Before(exp)) {
		return false, nil
	}

	var exp time.Time
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	s.keys[key] = exp
	return true, nil
}
