package ports

import "context"

// Logger — минимальный контракт логгера для внешних слоёв.
// Контекст нужен, чтобы реализация могла достать request_id/trace_id.
type Logger interface {
	Debugf(ctx context.Context, format string, args ...any) // Debugf — подробности (персистентность, кэш).
	Infof(ctx context.Context, format string, args ...any)  // Infof — информационные сообщения.
	Warnf(ctx context.Context, format string, args ...any)  // Warnf — предупреждения.
	Errorf(ctx context.Context, format string, args ...any) // Errorf — ошибки.
}
