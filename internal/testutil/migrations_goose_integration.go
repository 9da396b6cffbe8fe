//go:build integration

package testutil

import (
	"context"
	"time"

	"github.com/Gunvolt24/wb_cart/internal/repo/postgres"
)

// ApplyMigrationsGoose — схема корзин и каталога в тестовой базе.
func ApplyMigrationsGoose(dsn string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return postgres.Migrate(ctx, dsn)
}
