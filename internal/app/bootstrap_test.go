package app_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Gunvolt24/wb_cart/internal/app"
)

type nopLogger struct{}

func (nopLogger) Debugf(context.Context, string, ...any) {}
func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// фейковый консьюмер, который ждёт отмены контекста
type fakeConsumer struct {
	runCalls   int32
	closeCalls int32
}

func (f *fakeConsumer) Run(ctx context.Context) error {
	atomic.AddInt32(&f.runCalls, 1)
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeConsumer) Close() error {
	atomic.AddInt32(&f.closeCalls, 1)
	return nil
}

func TestAppRun_GracefulShutdown(t *testing.T) {
	fc := &fakeConsumer{}
	a := &app.App{
		Logger:        nopLogger{},
		HTTPServer:    &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()},
		MetricsServer: &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()},
		KafkaConsumer: fc,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if atomic.LoadInt32(&fc.runCalls) == 0 {
		t.Fatalf("consumer.Run should be called")
	}
	if atomic.LoadInt32(&fc.closeCalls) == 0 {
		t.Fatalf("consumer.Close should be called")
	}
}

func TestAppRun_WithoutConsumer(t *testing.T) {
	a := &app.App{
		Logger:     nopLogger{},
		HTTPServer: &http.Server{Addr: "127.0.0.1:0", Handler: http.NewServeMux()},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}

// Порт занят — фоновая ошибка завершает Run без паники.
func TestAppRun_ListenErrorStops(t *testing.T) {
	busy := &http.Server{Addr: "127.0.0.1:-1", Handler: http.NewServeMux()}
	a := &app.App{Logger: nopLogger{}, HTTPServer: busy}

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run must stop on listen error")
	}
}
