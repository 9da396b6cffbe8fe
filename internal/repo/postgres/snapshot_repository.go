package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/wb_cart/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ ports.SnapshotStore = (*SnapshotRepository)(nil)

// SnapshotRepository — слоты корзин в таблице cart_snapshots (jsonb).
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// Get — содержимое слота; (nil, false, nil), если слота нет.
func (r *SnapshotRepository) Get(ctx context.Context, slot string) ([]byte, bool, error) {
	var data []byte
	err := r.pool.QueryRow(ctx, `
		SELECT products::text FROM cart_snapshots WHERE slot = $1
	`, slot).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select snapshot: %w", err)
	}
	return data, true, nil
}

// Put — upsert слота; updated_at обновляется при каждой записи.
func (r *SnapshotRepository) Put(ctx context.Context, slot string, data []byte) error {
	if _, err := r.pool.Exec(ctx, `
		INSERT INTO cart_snapshots (slot, products, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (slot) DO UPDATE SET
			products = EXCLUDED.products,
			updated_at = EXCLUDED.updated_at
	`, slot, string(data)); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}
