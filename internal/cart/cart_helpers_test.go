package cart_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Gunvolt24/wb_cart/internal/cart"
	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/Gunvolt24/wb_cart/internal/repo/memory"
	"github.com/stretchr/testify/require"
)

// логгер-заглушка
type nopLogger struct{}

func (nopLogger) Debugf(context.Context, string, ...any) {}
func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

func newAdapter(store *memory.SnapshotStore, sessionID string) *cart.PersistenceAdapter {
	return cart.NewPersistenceAdapter(store, cart.SlotKey(sessionID), time.Second, nopLogger{})
}

// readySession — активированная сессия поверх in-memory слота.
func readySession(t *testing.T, store *memory.SnapshotStore, id string) *cart.Session {
	t.Helper()
	s := cart.NewSession(id, newAdapter(store, id))
	_, err := s.Activate(context.Background())
	require.NoError(t, err)
	return s
}

// add — AddProduct открытой сессии.
func add(t *testing.T, s *cart.Session, id string) bool {
	t.Helper()
	ok, err := s.AddProduct(context.Background(), id)
	require.NoError(t, err)
	return ok
}

func persisted(t *testing.T, store *memory.SnapshotStore, id string) (domain.Snapshot, bool) {
	t.Helper()
	raw, found, err := store.Get(context.Background(), cart.SlotKey(id))
	if err != nil {
		t.Fatalf("get slot: %v", err)
	}
	if !found {
		return nil, false
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("decode slot %q: %v", raw, err)
	}
	return snap, true
}

// remove — RemoveProduct открытой сессии.
func remove(t *testing.T, s *cart.Session, id string) bool {
	t.Helper()
	ok, err := s.RemoveProduct(context.Background(), id)
	require.NoError(t, err)
	return ok
}
