package ports

import "context"

// MessageConsumer — фоновый потребитель сообщений (фид остатков).
// Run блокируется до отмены контекста; Close можно вызывать повторно.
type MessageConsumer interface {
	Run(ctx context.Context) error
	Close() error
}
