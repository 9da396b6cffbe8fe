package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gunvolt24/wb_cart/migrations"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver name = "pgx"
	"github.com/pressly/goose/v3"
)

// Migrate — применяет встроенные миграции (слоты корзин, каталог) к базе по DSN.
func Migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
