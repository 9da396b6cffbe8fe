package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/wb_cart/internal/ports"
	goredis "github.com/redis/go-redis/v9"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

const defaultIdempotencyPrefix = "cart:processed:"

// IdempotencyStore — отметки «обработано» на SETNX: общие для всех экземпляров сервиса.
type IdempotencyStore struct {
	client    *goredis.Client
	keyPrefix string
}

func NewIdempotencyStoreWithClient(client *goredis.Client, keyPrefix string) *IdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = defaultIdempotencyPrefix
	}
	return &IdempotencyStore{client: client, keyPrefix: keyPrefix}
}

// MarkProcessed — true, если ключ поставлен этим вызовом; false, если уже был.
func (s *IdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}
