package ports

import "context"

// SnapshotStore — долговременный слот «ключ → снимок корзины» (сырые байты JSON).
type SnapshotStore interface {
	// Get — (данные, true, nil) если слот есть; (nil, false, nil) если слота нет.
	Get(ctx context.Context, slot string) ([]byte, bool, error)

	// Put — создать/перезаписать слот.
	Put(ctx context.Context, slot string, data []byte) error
}
