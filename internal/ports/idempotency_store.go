package ports

import (
	"context"
	"time"
)

// IdempotencyStore — отметки «уже обработано» (подтверждение успешной оплаты).
type IdempotencyStore interface {
	// MarkProcessed — true, если ключ отмечен впервые; false, если уже был.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
