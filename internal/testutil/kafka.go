//go:build integration

package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/wb_cart/internal/domain"
)

// CartTopics — пара топиков корзины (остатки на вход, заказы на выход) и группа консьюмера.
type CartTopics struct {
	Stock  string
	Orders string
	Group  string
}

// NewCartTopics — уникальные имена на тест, чтобы прогоны не читали чужие сообщения.
func NewCartTopics(base string) CartTopics {
	suffix := UniqSuffix()
	return CartTopics{
		Stock:  fmt.Sprintf("%s-stock-%s", base, suffix),
		Orders: fmt.Sprintf("%s-orders-%s", base, suffix),
		Group:  fmt.Sprintf("%s-cart-%s", base, suffix),
	}
}

// EnsureCartTopics — создаёт оба топика через контроллер кластера и ждёт метаданных.
// Уже существующий топик не ошибка.
func (e *KafkaEnv) EnsureCartTopics(ctx context.Context, topics CartTopics) error {
	conn, err := kafka.DialContext(ctx, "tcp", e.Brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	ctrl, err := conn.Controller()
	if err != nil {
		return err
	}
	admin, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(ctrl.Host, strconv.Itoa(ctrl.Port)))
	if err != nil {
		return err
	}
	defer admin.Close()

	err = admin.CreateTopics(
		kafka.TopicConfig{Topic: topics.Stock, NumPartitions: 1, ReplicationFactor: 1},
		kafka.TopicConfig{Topic: topics.Orders, NumPartitions: 1, ReplicationFactor: 1},
	)
	if err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return err
	}

	for _, topic := range []string{topics.Stock, topics.Orders} {
		if err := e.waitTopic(ctx, topic); err != nil {
			return err
		}
	}
	return nil
}

// PublishStock — пишет события остатков в том виде, в каком их шлёт склад.
// Сырые []byte идут как есть, чтобы можно было подсунуть мусор.
func (e *KafkaEnv) PublishStock(ctx context.Context, topic string, events ...any) error {
	w := &kafka.Writer{
		Addr:         kafka.TCP(e.Brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.LeastBytes{},
	}
	defer w.Close()

	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		var value []byte
		switch v := ev.(type) {
		case []byte:
			value = v
		case domain.StockEvent:
			b, err := json.Marshal(v)
			if err != nil {
				return err
			}
			value = b
		default:
			return fmt.Errorf("unsupported stock payload %T", ev)
		}
		msgs = append(msgs, kafka.Message{Value: value})
	}
	return w.WriteMessages(ctx, msgs...)
}

// ReadOrderPlaced — читает первое событие заказа из топика; возвращает ключ сообщения и тело.
func (e *KafkaEnv) ReadOrderPlaced(ctx context.Context, topics CartTopics) (string, domain.OrderPlacedEvent, error) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     e.Brokers,
		Topic:       topics.Orders,
		GroupID:     topics.Group + "-orders",
		StartOffset: kafka.FirstOffset,
	})
	defer r.Close()

	var event domain.OrderPlacedEvent
	msg, err := r.ReadMessage(ctx)
	if err != nil {
		return "", event, err
	}
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return "", event, fmt.Errorf("decode order event: %w", err)
	}
	return string(msg.Key), event, nil
}

// StockQty — указатель на количество для domain.StockEvent.
func StockQty(n int) *int { return &n }

func (e *KafkaEnv) waitTopic(ctx context.Context, topic string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		c, err := kafka.DialContext(ctx, "tcp", e.Brokers[0])
		if err == nil {
			var parts []kafka.Partition
			parts, err = c.ReadPartitions(topic)
			_ = c.Close()
			if err == nil && len(parts) > 0 {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("topic %q not ready: %w", topic, errors.Join(ctx.Err(), err))
		case <-ticker.C:
		}
	}
}
