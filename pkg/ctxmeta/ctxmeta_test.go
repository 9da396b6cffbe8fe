package ctxmeta_test

import (
	"context"
	"testing"

	"github.com/Gunvolt24/wb_cart/pkg/ctxmeta"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestWithRequestID_PutAndGet(t *testing.T) {
	parent := context.Background()

	ctx := ctxmeta.WithRequestID(parent, "req-123")
	got, ok := ctxmeta.RequestIDFromContext(ctx)
	if !ok || got != "req-123" {
		t.Fatalf("want ok=true, id=req-123; got ok=%v id=%q", ok, got)
	}

	// Родитель не должен содержать request_id
	if _, parentOk := ctxmeta.RequestIDFromContext(parent); parentOk {
		t.Fatalf("parent context must not contain request_id")
	}
}

func TestWithSessionID_PutAndGet(t *testing.T) {
	ctx := ctxmeta.WithSessionID(context.Background(), "sess-1")
	got, ok := ctxmeta.SessionIDFromContext(ctx)
	if !ok || got != "sess-1" {
		t.Fatalf("want sess-1, got ok=%v id=%q", ok, got)
	}
	// разные ключи не пересекаются
	if _, ok := ctxmeta.RequestIDFromContext(ctx); ok {
		t.Fatalf("session id must not leak into request id")
	}
}

func TestWithRequestID_EmptyID_NoChange(t *testing.T) {
	parent := context.Background()
	ctx := ctxmeta.WithRequestID(parent, "")
	if ctx != parent {
		t.Fatalf("WithRequestID with empty id must return the same ctx")
	}
}

func TestWithRequestID_NilCtx(t *testing.T) {
	var nilCtx context.Context
	if ctx := ctxmeta.WithRequestID(nilCtx, "req-1"); ctx != nil {
		t.Fatalf("WithRequestID(nil, ...) must return nil")
	}
	if id, ok := ctxmeta.RequestIDFromContext(nilCtx); ok || id != "" {
		t.Fatalf("RequestIDFromContext(nil) must be empty/false, got id=%q ok=%v", id, ok)
	}
}

func TestRequestIDFromContext_EmptyStoredValue(t *testing.T) {
	// Даже если ключ верный, пустое значение считаем отсутствующим
	ctx := context.WithValue(context.Background(), ctxmeta.KeyRequestID, "")
	if id, ok := ctxmeta.RequestIDFromContext(ctx); ok || id != "" {
		t.Fatalf("empty stored value must be treated as absent, got id=%q ok=%v", id, ok)
	}
}

func TestTraceAndSpanIDs_FromContext(t *testing.T) {
	// Локальный TracerProvider — без глобальной настройки.
	tp := sdktrace.NewTracerProvider()
	tr := tp.Tracer("test")

	ctx, span := tr.Start(context.Background(), "op")
	defer span.End()

	traceID, ok := ctxmeta.TraceIDFromContext(ctx)
	if !ok || traceID != span.SpanContext().TraceID().String() {
		t.Fatalf("traceID=%s ok=%v", traceID, ok)
	}
	spanID, ok := ctxmeta.SpanIDFromContext(ctx)
	if !ok || spanID != span.SpanContext().SpanID().String() {
		t.Fatalf("spanID=%s ok=%v", spanID, ok)
	}
}

func TestTraceAndSpanIDs_NoSpan(t *testing.T) {
	if id, ok := ctxmeta.TraceIDFromContext(context.Background()); ok || id != "" {
		t.Fatalf("TraceIDFromContext(background) => %q,%v; want \"\", false", id, ok)
	}
	if id, ok := ctxmeta.SpanIDFromContext(context.Background()); ok || id != "" {
		t.Fatalf("SpanIDFromContext(background) => %q,%v; want \"\", false", id, ok)
	}
}
