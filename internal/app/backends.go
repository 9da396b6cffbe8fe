package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gunvolt24/wb_cart/config"
	"github.com/Gunvolt24/wb_cart/internal/payment"
	"github.com/Gunvolt24/wb_cart/internal/payment/stripe"
	"github.com/Gunvolt24/wb_cart/internal/ports"
	"github.com/Gunvolt24/wb_cart/internal/repo/memory"
	"github.com/Gunvolt24/wb_cart/internal/repo/postgres"
	redisrepo "github.com/Gunvolt24/wb_cart/internal/repo/redis"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
)

// backends — внешние подключения, открываемые по требованию конфигурации.
type backends struct {
	cfg   *config.Config
	log   ports.Logger
	pool  *pgxpool.Pool
	redis *goredis.Client
}

func (b *backends) postgres(ctx context.Context) (*pgxpool.Pool, error) {
	if b.pool == nil {
		if b.cfg.Postgres.AutoMigrate {
			if err := postgres.Migrate(ctx, b.cfg.Postgres.DSN); err != nil {
				return nil, fmt.Errorf("postgres migrate: %w", err)
			}
		}
		pool, err := postgres.NewPool(ctx, b.cfg.Postgres.DSN, b.cfg.Postgres.MaxConns)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		b.pool = pool
	}
	return b.pool, nil
}

func (b *backends) redisClient(ctx context.Context) (*goredis.Client, error) {
	if b.redis == nil {
		client, err := redisrepo.NewClient(ctx, b.cfg.Redis.Addr, b.cfg.Redis.Password, b.cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		b.redis = client
	}
	return b.redis, nil
}

func (b *backends) close() {
	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			b.log.Warnf(context.Background(), "redis close: %v", err)
		}
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

// snapshotStore — долговременный слот корзины: postgres | redis | memory | none (nil).
func (b *backends) snapshotStore(ctx context.Context) (ports.SnapshotStore, error) {
	switch kind := normalize(b.cfg.Cart.Persistence); kind {
	case "postgres":
		pool, err := b.postgres(ctx)
		if err != nil {
			return nil, err
		}
		return postgres.NewSnapshotRepository(pool), nil
	case "redis":
		client, err := b.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		return redisrepo.NewSnapshotStoreWithClient(client, b.cfg.Redis.SnapshotTTL), nil
	case "memory":
		return memory.NewSnapshotStore(), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cart persistence %q", kind)
	}
}

// productCatalog — источник цен и остатков: postgres | memory.
func (b *backends) productCatalog(ctx context.Context) (ports.ProductCatalog, error) {
	switch kind := normalize(b.cfg.Cart.Catalog); kind {
	case "postgres":
		pool, err := b.postgres(ctx)
		if err != nil {
			return nil, err
		}
		return postgres.NewProductRepository(pool), nil
	case "memory":
		return memory.NewCatalog(), nil
	default:
		return nil, fmt.Errorf("unknown catalog %q", kind)
	}
}

// idempotencyStore — учёт сигналов успешной оплаты: redis | memory | none (nil).
func (b *backends) idempotencyStore(ctx context.Context) (ports.IdempotencyStore, error) {
	switch kind := normalize(b.cfg.Cart.Idempotency); kind {
	case "redis":
		client, err := b.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		return redisrepo.NewIdempotencyStoreWithClient(client, ""), nil
	case "memory":
		return memory.NewIdempotencyStore(), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown idempotency store %q", kind)
	}
}

// paymentGateway — Stripe при заданном ключе, иначе заглушка с сетевой ошибкой.
func (b *backends) paymentGateway(catalog ports.ProductLookup) (ports.PaymentGateway, error) {
	if b.cfg.Stripe.SecretKey == "" {
		b.log.Warnf(context.Background(), "stripe secret key is empty: checkout disabled")
		return payment.Disabled{}, nil
	}
	return stripe.NewGateway(stripe.Options{
		SecretKey:  b.cfg.Stripe.SecretKey,
		Currency:   b.cfg.Stripe.Currency,
		SuccessURL: b.cfg.Stripe.SuccessURL,
		CancelURL:  b.cfg.Stripe.CancelURL,
	}, catalog, b.log, nil)
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
