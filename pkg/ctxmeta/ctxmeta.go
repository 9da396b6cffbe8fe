// Пакет ctxmeta — нейтральный слой для метаданных запроса,
// которые прокидываются через context.Context (request_id, session_id, trace_id).
// HTTP-слой и логгер зависят от него, но не друг от друга.
package ctxmeta

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

const (
	// Ключи контекста (неэкспортируемый тип — чтобы избежать коллизий).
	KeyRequestID ctxKey = "request_id"
	KeySessionID ctxKey = "session_id"
)

// WithRequestID кладёт request_id в контекст (если пусто — ничего не делает).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withString(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyRequestID)
}

// WithSessionID кладёт идентификатор сессии корзины.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return withString(ctx, KeySessionID, sessionID)
}

// SessionIDFromContext достаёт идентификатор сессии корзины.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeySessionID)
}

// TraceIDFromContext — trace_id активного спана (если спан валиден).
func TraceIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", false
	}
	return sc.TraceID().String(), true
}

// SpanIDFromContext — span_id активного спана.
func SpanIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", false
	}
	return sc.SpanID().String(), true
}

func withString(ctx context.Context, key ctxKey, v string) context.Context {
	if ctx == nil || v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func stringFrom(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
