package config_test

import (
	"slices"
	"testing"
	"time"

	cfg "github.com/Gunvolt24/wb_cart/config"
)

// TestLoadWithPrefix_Defaults — проверка наличия значений по умолчанию.
func TestLoadWithPrefix_Defaults(t *testing.T) {
	t.Parallel()

	c, err := cfg.LoadWithPrefix("CART_TEST_DEFAULTS")
	if err != nil {
		t.Fatalf("LoadWithPrefix error: %v", err)
	}

	// HTTP
	if c.HTTP.Addr != ":8080" || c.HTTP.GinMode != "debug" {
		t.Fatalf("HTTP defaults wrong: %+v", c.HTTP)
	}
	if c.HTTP.ReadTimeout != 10*time.Second || c.HTTP.WriteTimeout != 10*time.Second {
		t.Fatalf("HTTP timeouts wrong: %+v", c.HTTP)
	}
	if c.HTTP.HandlerTimeout != 3*time.Second || c.HTTP.GracefulTimeout != 5*time.Second {
		t.Fatalf("HTTP handler/graceful timeouts wrong: %+v", c.HTTP)
	}

	// Tracing
	if c.Tracing.Enabled || c.Tracing.ServiceName != "cart-engine" || c.Tracing.SampleRatio != 1 {
		t.Fatalf("Tracing defaults wrong: %+v", c.Tracing)
	}

	// Postgres / Redis
	if c.Postgres.DSN == "" || c.Postgres.MaxConns != 10 || !c.Postgres.AutoMigrate {
		t.Fatalf("Postgres defaults wrong: %+v", c.Postgres)
	}
	if c.Redis.Addr != "redis:6379" || c.Redis.SnapshotTTL != 720*time.Hour {
		t.Fatalf("Redis defaults wrong: %+v", c.Redis)
	}

	// Kafka
	if !slices.Equal(c.Kafka.Brokers, []string{"kafka:9092"}) {
		t.Fatalf("Kafka.Brokers: want [kafka:9092], got %v", c.Kafka.Brokers)
	}
	if c.Kafka.StockTopic != "stock" || c.Kafka.OrdersTopic != "orders" || c.Kafka.GroupID != "cart-engine" {
		t.Fatalf("Kafka topics wrong: %+v", c.Kafka)
	}
	if c.Kafka.ProcessTimeout != 5*time.Second || c.Kafka.RetryInitial != time.Second || c.Kafka.RetryMax != 30*time.Second {
		t.Fatalf("Kafka timeouts wrong: %+v", c.Kafka)
	}

	// Cache
	if c.Cache.Capacity != 1000 || c.Cache.TTL != 10*time.Minute {
		t.Fatalf("Cache defaults wrong: %+v", c.Cache)
	}
	if c.Cache.SessionCapacity != 10000 || c.Cache.SessionTTL != 30*time.Minute {
		t.Fatalf("Session cache defaults wrong: %+v", c.Cache)
	}

	// Cart
	if c.Cart.Persistence != "postgres" || c.Cart.PreloadStock || c.Cart.PersistTimeout != 2*time.Second {
		t.Fatalf("Cart defaults wrong: %+v", c.Cart)
	}
	if c.Cart.Idempotency != "redis" || c.Cart.SuccessTTL != 168*time.Hour {
		t.Fatalf("Cart idempotency defaults wrong: %+v", c.Cart)
	}

	// Stripe
	if c.Stripe.SecretKey != "" || c.Stripe.Currency != "usd" {
		t.Fatalf("Stripe defaults wrong: %+v", c.Stripe)
	}

	if c.Logger.IsProd {
		t.Fatalf("Logger.IsProd: want false, got true")
	}
}

// Меняем окружение.
func TestLoadWithPrefix_Overrides(t *testing.T) {
	const p = "CART_TEST_OVR"

	t.Setenv(p+"_HTTP_ADDR", ":9999")
	t.Setenv(p+"_HTTP_HANDLER_TIMEOUT", "4500ms")
	t.Setenv(p+"_TRACING_OTEL_ENABLED", "true")
	t.Setenv(p+"_TRACING_OTEL_SAMPLE_RATIO", "0.25")
	t.Setenv(p+"_REDIS_ADDR", "cache:6380")
	t.Setenv(p+"_REDIS_DB", "3")
	t.Setenv(p+"_KAFKA_BROKERS", "k1:9092,k2:9093")
	t.Setenv(p+"_KAFKA_STOCK_TOPIC", "stock-test")
	t.Setenv(p+"_KAFKA_ORDERS_TOPIC", "orders-test")
	t.Setenv(p+"_CACHE_SESSION_TTL", "5m")
	t.Setenv(p+"_CART_PERSISTENCE", "redis")
	t.Setenv(p+"_CART_PRELOAD_STOCK", "true")
	t.Setenv(p+"_CART_PERSIST_TIMEOUT", "750ms")
	t.Setenv(p+"_STRIPE_SECRET_KEY", "sk_test_x")
	t.Setenv(p+"_LOGGER_IS_PROD", "true")

	c, err := cfg.LoadWithPrefix(p)
	if err != nil {
		t.Fatalf("LoadWithPrefix error: %v", err)
	}

	if c.HTTP.Addr != ":9999" || c.HTTP.HandlerTimeout != 4500*time.Millisecond {
		t.Fatalf("HTTP overrides wrong: %+v", c.HTTP)
	}
	if !c.Tracing.Enabled || c.Tracing.SampleRatio != 0.25 {
		t.Fatalf("Tracing overrides wrong: %+v", c.Tracing)
	}
	if c.Redis.Addr != "cache:6380" || c.Redis.DB != 3 {
		t.Fatalf("Redis overrides wrong: %+v", c.Redis)
	}
	if !slices.Equal(c.Kafka.Brokers, []string{"k1:9092", "k2:9093"}) ||
		c.Kafka.StockTopic != "stock-test" || c.Kafka.OrdersTopic != "orders-test" {
		t.Fatalf("Kafka overrides wrong: %+v", c.Kafka)
	}
	if c.Cache.SessionTTL != 5*time.Minute {
		t.Fatalf("Cache overrides wrong: %+v", c.Cache)
	}
	if c.Cart.Persistence != "redis" || !c.Cart.PreloadStock || c.Cart.PersistTimeout != 750*time.Millisecond {
		t.Fatalf("Cart overrides wrong: %+v", c.Cart)
	}
	if c.Stripe.SecretKey != "sk_test_x" || !c.Logger.IsProd {
		t.Fatalf("Stripe/Logger overrides wrong: %+v %+v", c.Stripe, c.Logger)
	}
}

// Тоже меняем окружение — но с невалидным значением.
func TestLoadWithPrefix_InvalidValue_ReturnsError(t *testing.T) {
	const p = "CART_TEST_BAD"
	t.Setenv(p+"_CART_PERSIST_TIMEOUT", "not-a-duration")

	if _, err := cfg.LoadWithPrefix(p); err == nil {
		t.Fatalf("expected error for invalid duration, got nil")
	}
}
