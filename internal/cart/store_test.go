package cart_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/Gunvolt24/wb_cart/internal/cart"
	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/Gunvolt24/wb_cart/internal/repo/memory"
	"github.com/stretchr/testify/require"
)

func TestStore_AddStopsAtCeiling(t *testing.T) {
	s := readySession(t, memory.NewSnapshotStore(), "s1")
	s.RegisterStock("p1", 2)

	require.True(t, add(t, s, "p1"))
	require.True(t, add(t, s, "p1"))
	require.False(t, add(t, s, "p1")) // третий вызов — no-op

	require.Equal(t, 2, s.Quantity("p1"))
	require.True(t, s.IsAtLimit("p1"))
}

func TestStore_AddWithoutCeilingIsUnbounded(t *testing.T) {
	s := readySession(t, memory.NewSnapshotStore(), "s1")

	for i := 0; i < 50; i++ {
		require.True(t, add(t, s, "p1"))
	}
	require.Equal(t, 50, s.Quantity("p1"))
	require.False(t, s.IsAtLimit("p1"))
}

func TestStore_AddEmptyIDRejected(t *testing.T) {
	s := readySession(t, memory.NewSnapshotStore(), "s1")
	require.False(t, add(t, s, ""))
	require.Empty(t, s.Snapshot())
}

func TestStore_OutOfStockBlocksAdd(t *testing.T) {
	s := readySession(t, memory.NewSnapshotStore(), "s1")
	s.RegisterStock("p1", 0)
	require.False(t, add(t, s, "p1"))
}

func TestStore_RemoveFirstOccurrence(t *testing.T) {
	ctx := context.Background()
	s := readySession(t, memory.NewSnapshotStore(), "s1")
	for _, id := range []string{"p1", "p1", "p2"} {
		s.AddProduct(ctx, id)
	}

	require.True(t, remove(t, s, "p1"))
	require.Equal(t, domain.Snapshot{"p1", "p2"}, s.Snapshot())

	require.False(t, remove(t, s, "ghost"))
	require.Equal(t, domain.Snapshot{"p1", "p2"}, s.Snapshot())
}

func TestStore_ClearPersistsEmpty(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSnapshotStore()
	s := readySession(t, slots, "s1")
	s.AddProduct(ctx, "p1")
	s.AddProduct(ctx, "p2")

	require.NoError(t, s.Clear(ctx))

	require.Equal(t, 0, s.Quantity("p1"))
	require.Equal(t, 0, s.Quantity("p2"))
	snap, found := persisted(t, slots, "s1")
	require.True(t, found)
	require.Empty(t, snap)
}

func TestStore_ClearEmptyCartIsNoError(t *testing.T) {
	s := readySession(t, memory.NewSnapshotStore(), "s1")
	require.NoError(t, s.Clear(context.Background()))
	require.NoError(t, s.Clear(context.Background()))
	require.Empty(t, s.Snapshot())
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	ctx := context.Background()
	s := readySession(t, memory.NewSnapshotStore(), "s1")
	s.AddProduct(ctx, "p1")

	snap := s.Snapshot()
	s.AddProduct(ctx, "p2") // мутация после снятия копии

	require.Equal(t, domain.Snapshot{"p1"}, snap)
}

// Случайные последовательности add/remove: счётчики не отрицательны,
// add увеличивает на 1 или упирается в потолок, remove уменьшает на 1 или ничего не делает.
func TestStore_RandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ids := []string{"a", "b", "c"}

	for round := 0; round < 20; round++ {
		s := readySession(t, memory.NewSnapshotStore(), "s")
		s.RegisterStock("a", 3)
		s.RegisterStock("b", 1)

		for step := 0; step < 200; step++ {
			id := ids[rng.Intn(len(ids))]
			before := s.Quantity(id)
			atLimit := s.IsAtLimit(id)

			if rng.Intn(2) == 0 {
				added := add(t, s, id)
				if atLimit {
					require.False(t, added)
					require.Equal(t, before, s.Quantity(id))
				} else {
					require.True(t, added)
					require.Equal(t, before+1, s.Quantity(id))
				}
			} else {
				removed := remove(t, s, id)
				if before > 0 {
					require.True(t, removed)
					require.Equal(t, before-1, s.Quantity(id))
				} else {
					require.False(t, removed)
					require.Equal(t, 0, s.Quantity(id))
				}
			}
			require.GreaterOrEqual(t, s.Quantity(id), 0)
		}
	}
}

func TestStore_StandaloneWithoutGuardNeverSaves(t *testing.T) {
	ctx := context.Background()
	slots := memory.NewSnapshotStore()
	st := cart.NewStore(nil, newAdapter(slots, "raw"))

	require.True(t, st.AddProduct(ctx, "p1"))
	_, found := persisted(t, slots, "raw")
	require.False(t, found)
	require.Equal(t, 1, st.Count("p1"))
}
