package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/Gunvolt24/wb_cart/internal/ports"
	"github.com/Gunvolt24/wb_cart/pkg/ctxmeta"
	"github.com/Gunvolt24/wb_cart/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

var _ ports.OrderPublisher = (*OrderProducer)(nil)

// HeaderEventType — тип события в заголовке сообщения.
const HeaderEventType = "event-type"

const eventOrderPlaced = "order.placed"

type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type ProducerConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// OrderProducer — события о переданных на оплату заказах.
// Ключ сообщения — номер заказа: события одного заказа попадают в одну партицию.
type OrderProducer struct {
	writer       writer
	topic        string
	writeTimeout time.Duration
	log          ports.Logger
	closeOnce    sync.Once
}

func NewOrderProducer(cfg ProducerConfig, log ports.Logger) *OrderProducer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: cfg.WriteTimeout,
	}
	return newOrderProducer(w, cfg, log)
}

func newOrderProducer(w writer, cfg ProducerConfig, log ports.Logger) *OrderProducer {
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &OrderProducer{writer: w, topic: cfg.Topic, writeTimeout: timeout, log: log}
}

func (p *OrderProducer) PublishOrderPlaced(ctx context.Context, event *domain.OrderPlacedEvent) error {
	if event == nil {
		return fmt.Errorf("publish order placed: nil event")
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode order placed: %w", err)
	}

	msg := kafka.Message{
		Key:     []byte(event.Reference),
		Value:   payload,
		Headers: []kafka.Header{{Key: HeaderEventType, Value: []byte(eventOrderPlaced)}},
	}
	if rid, ok := ctxmeta.RequestIDFromContext(ctx); ok {
		msg.Headers = append(msg.Headers, kafka.Header{Key: HeaderRequestID, Value: []byte(rid)})
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msg); err != nil {
		metrics.KafkaMessagesPublished.WithLabelValues(p.topic, "error").Inc()
		return fmt.Errorf("write order placed ref=%s: %w", event.Reference, err)
	}
	metrics.KafkaMessagesPublished.WithLabelValues(p.topic, "ok").Inc()
	p.log.Debugf(ctx, "order placed published ref=%s topic=%s", event.Reference, p.topic)
	return nil
}

func (p *OrderProducer) Close() (err error) {
	p.closeOnce.Do(func() { err = p.writer.Close() })
	return err
}
