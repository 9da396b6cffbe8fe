package logger_test

import (
	"context"
	"testing"

	"github.com/Gunvolt24/wb_cart/pkg/ctxmeta"
	"github.com/Gunvolt24/wb_cart/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_AddsRequestID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := logger.NewFromZap(zap.New(core), false)

	ctx := ctxmeta.WithRequestID(context.Background(), "req-7")
	l.Infof(ctx, "cart %s hydrated", "s-1")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(entries))
	}
	if entries[0].Message != "cart s-1 hydrated" {
		t.Fatalf("unexpected message %q", entries[0].Message)
	}
	if got := entries[0].ContextMap()["request_id"]; got != "req-7" {
		t.Fatalf("request_id field: got %v", got)
	}
}

func TestZapLogger_Levels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := logger.NewFromZap(zap.New(core), true)
	ctx := context.Background()

	l.Debugf(ctx, "d")
	l.Warnf(ctx, "w")
	l.Errorf(ctx, "e")

	if logs.FilterLevelExact(zap.DebugLevel).Len() != 1 ||
		logs.FilterLevelExact(zap.WarnLevel).Len() != 1 ||
		logs.FilterLevelExact(zap.ErrorLevel).Len() != 1 {
		t.Fatalf("unexpected levels: %+v", logs.All())
	}
	if _, ok := logs.All()[0].ContextMap()["request_id"]; ok {
		t.Fatalf("request_id must be absent without ctxmeta")
	}
}

func TestZapLogger_Accessors(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := logger.NewFromZap(zap.New(core), false)

	l.Base().Info("base")
	l.Sugared().Infow("sugared", "sid", "s-2")

	if logs.Len() != 2 {
		t.Fatalf("want 2 entries, got %d", logs.Len())
	}
	if got := logs.All()[1].ContextMap()["sid"]; got != "s-2" {
		t.Fatalf("sid field: got %v", got)
	}
}
