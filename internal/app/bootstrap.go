package app

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/wb_cart/config"
	cachemem "github.com/Gunvolt24/wb_cart/internal/cache/memory"
	"github.com/Gunvolt24/wb_cart/internal/kafka"
	"github.com/Gunvolt24/wb_cart/internal/ports"
	rest "github.com/Gunvolt24/wb_cart/internal/transport/http"
	"github.com/Gunvolt24/wb_cart/internal/usecase"
	"github.com/Gunvolt24/wb_cart/pkg/logger"
	"github.com/Gunvolt24/wb_cart/pkg/metrics"
	"github.com/Gunvolt24/wb_cart/pkg/telemetry"
	"github.com/Gunvolt24/wb_cart/pkg/validate"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App — собранное приложение и его внешние интерфейсы.
type App struct {
	Logger        ports.Logger
	HTTPServer    *http.Server
	MetricsServer *http.Server          // nil — метрики только на основном сервере
	KafkaConsumer ports.MessageConsumer // nil — фид остатков выключен

	gracefulTimeout time.Duration
}

// Cleanup — освобождение ресурсов.
type Cleanup func()

// applyGinMode — режим Gin по строке; неизвестное значение → debug и предупреждение.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// Bootstrap — собирает зависимости по конфигурации.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}
	metrics.MustRegister()

	deps := &backends{cfg: cfg, log: logg}
	fail := func(err error) (*App, Cleanup, error) {
		deps.close()
		_ = cleanupLogger()
		return nil, func() {}, err
	}

	slots, err := deps.snapshotStore(ctx)
	if err != nil {
		return fail(err)
	}
	catalog, err := deps.productCatalog(ctx)
	if err != nil {
		return fail(err)
	}
	processed, err := deps.idempotencyStore(ctx)
	if err != nil {
		return fail(err)
	}
	gateway, err := deps.paymentGateway(catalog)
	if err != nil {
		return fail(err)
	}

	shutdownTrace := func(context.Context) error { return nil }
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, telemetry.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
			otelServiceName = cfg.Tracing.ServiceName
		}
	}

	// Kafka: фид остатков на вход, события заказов на выход.
	var (
		publisher ports.OrderPublisher
		producer  *kafka.OrderProducer
	)
	if cfg.Kafka.Enabled {
		producer = kafka.NewOrderProducer(kafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			Topic:        cfg.Kafka.OrdersTopic,
			WriteTimeout: cfg.Kafka.WriteTimeout,
		}, logg)
		publisher = producer
	}

	catalogService := usecase.NewCatalogService(catalog, cachemem.NewProductCache(cfg.Cache.Capacity, cfg.Cache.TTL), logg)
	cartService := usecase.NewCartService(
		usecase.NewSessionRegistry(cfg.Cache.SessionCapacity, cfg.Cache.SessionTTL, logg),
		slots,
		processed,
		logg,
		usecase.CartOptions{
			PersistTimeout: cfg.Cart.PersistTimeout,
			PreloadStock:   cfg.Cart.PreloadStock,
			SuccessTTL:     cfg.Cart.SuccessTTL,
		},
	)
	checkoutService := usecase.NewCheckoutService(validate.NewCheckoutValidator(), catalogService, gateway, publisher, logg)

	var consumer ports.MessageConsumer
	if cfg.Kafka.Enabled {
		consumer = kafka.NewStockConsumer(&kafka.ConsumerConfig{
			Brokers:        cfg.Kafka.Brokers,
			Topic:          cfg.Kafka.StockTopic,
			GroupID:        cfg.Kafka.GroupID,
			StartOffset:    cfg.Kafka.StartOffset,
			ProcessTimeout: cfg.Kafka.ProcessTimeout,
			RetryInitial:   cfg.Kafka.RetryInitial,
			RetryMax:       cfg.Kafka.RetryMax,
		}, cartService, logg)
	}

	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	handler := rest.NewHandler(cartService, checkoutService, catalogService, logg, cfg.HTTP.HandlerTimeout)
	app := &App{
		Logger: logg,
		HTTPServer: &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           rest.NewRouter(handler, otelServiceName),
			ReadTimeout:       cfg.HTTP.ReadTimeout,
			WriteTimeout:      cfg.HTTP.WriteTimeout,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
			IdleTimeout:       cfg.HTTP.IdleTimeout,
		},
		KafkaConsumer:   consumer,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		app.MetricsServer = &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout}
	}

	logg.Infof(ctx, "cart engine assembled persistence=%s catalog=%s idempotency=%s kafka=%t stripe=%t",
		cfg.Cart.Persistence, cfg.Cart.Catalog, cfg.Cart.Idempotency, cfg.Kafka.Enabled, cfg.Stripe.SecretKey != "")

	// Очистка в обратном порядке.
	cleanup := func() {
		if err := shutdownTrace(context.Background()); err != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", err)
		}
		if consumer != nil {
			if err := consumer.Close(); err != nil {
				logg.Warnf(ctx, "kafka consumer close error: %v", err)
			}
		}
		if producer != nil {
			if err := producer.Close(); err != nil {
				logg.Warnf(ctx, "kafka producer close error: %v", err)
			}
		}
		deps.close()
		_ = cleanupLogger()
	}

	return app, cleanup, nil
}
