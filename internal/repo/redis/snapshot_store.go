package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/wb_cart/internal/ports"
	goredis "github.com/redis/go-redis/v9"
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

const snapshotKeyPrefix = "cart:snapshot:"

// SnapshotStore — слоты корзин в Redis; ttl > 0 — брошенные корзины истекают сами.
type SnapshotStore struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewSnapshotStoreWithClient(client *goredis.Client, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{client: client, ttl: ttl}
}

func (s *SnapshotStore) Get(ctx context.Context, slot string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, snapshotKeyPrefix+slot).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get snapshot: %w", err)
	}
	return data, true, nil
}

// Put — перезапись слота; каждая запись продлевает ttl.
func (s *SnapshotStore) Put(ctx context.Context, slot string, data []byte) error {
	if err := s.client.Set(ctx, snapshotKeyPrefix+slot, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set snapshot: %w", err)
	}
	return nil
}
