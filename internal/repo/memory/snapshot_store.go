package memory

import (
	"context"
	"sync"

	"github.com/Gunvolt24/wb_cart/internal/ports"
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore — слоты корзин в памяти процесса (dev, тесты).
type SnapshotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{slots: make(map[string][]byte)}
}

func (s *SnapshotStore) Get(_ context.Context, slot string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.slots[slot]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

func (s *SnapshotStore) Put(_ context.Context, slot string, data []byte) error {
	s.mu.Lock()
	s.slots[slot] = append([]byte(nil), data...)
	s.mu.Unlock()
	return nil
}
