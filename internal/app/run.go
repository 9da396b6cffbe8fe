package app

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Run — запускает HTTP-сервер(ы) и консьюмера; ждёт отмены контекста или фоновой ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 3)

	if a.KafkaConsumer != nil {
		go func() {
			a.Logger.Infof(ctx, "kafka consumer starting")
			if err := a.KafkaConsumer.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	for _, srv := range a.servers() {
		go func(srv *http.Server) {
			a.Logger.Infof(ctx, "http server starting (addr=%s)", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(srv)
	}

	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	for _, srv := range a.servers() {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warnf(ctx, "http server shutdown failed addr=%s: %v", srv.Addr, err)
		}
	}

	if a.KafkaConsumer != nil {
		if err := a.KafkaConsumer.Close(); err != nil {
			a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
		}
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}

func (a *App) servers() []*http.Server {
	out := []*http.Server{a.HTTPServer}
	if a.MetricsServer != nil {
		out = append(out, a.MetricsServer)
	}
	return out
}
