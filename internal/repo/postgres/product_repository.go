package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/Gunvolt24/wb_cart/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var _ ports.ProductCatalog = (*ProductRepository)(nil)

// ProductRepository — каталог товаров (цены, изображения, остатки).
type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// FindByIDs — записи по списку id; ненайденные пропускаются, порядок не гарантирован.
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, title, price::text, images, quantity
		FROM products
		WHERE id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Product, 0, len(ids))
	for rows.Next() {
		var (
			p     domain.Product
			price string
		)
		if err := rows.Scan(&p.ID, &p.Title, &price, &p.Images, &p.Quantity); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if p.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse price id=%s: %w", p.ID, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// Upsert — транзакционно сохраняет записи каталога (идемпотентно).
func (r *ProductRepository) Upsert(ctx context.Context, products []domain.Product) error {
	transaction, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		// При уже завершённой транзакции Rollback вернёт ErrTxClosed — игнорируем.
		if rbErr := transaction.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	batch := &pgx.Batch{}
	for i := range products {
		p := &products[i]
		if p.ID == "" {
			return errors.New("product id is required")
		}
		images := p.Images
		if images == nil {
			images = []string{}
		}
		batch.Queue(`
			INSERT INTO products (id, title, price, images, quantity)
			VALUES ($1, $2, $3::numeric, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				price = EXCLUDED.price,
				images = EXCLUDED.images,
				quantity = EXCLUDED.quantity
		`, p.ID, p.Title, p.Price.String(), images, p.Quantity)
	}

	if err := transaction.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert products: %w", err)
	}
	return transaction.Commit(ctx)
}
