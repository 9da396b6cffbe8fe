package kafka

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/Gunvolt24/wb_cart/internal/domain"
	"github.com/Gunvolt24/wb_cart/internal/ports"
	"github.com/Gunvolt24/wb_cart/pkg/ctxmeta"
	"github.com/Gunvolt24/wb_cart/pkg/metrics"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ ports.MessageConsumer = (*StockConsumer)(nil)

var tracer = otel.Tracer("github.com/Gunvolt24/wb_cart/internal/kafka")

// HeaderRequestID — заголовок сообщения с идентификатором запроса-источника.
const HeaderRequestID = "X-Request-ID"

type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// stockSaver — применение сообщения фида остатков к корзинам.
type stockSaver interface {
	SaveStockFromMessage(ctx context.Context, raw []byte) error
}

type verdict int

const (
	commit verdict = iota // обработано
	skip                  // мусор: коммитим и забываем
	retry                 // временная ошибка: без коммита
)

// StockConsumer — читает фид остатков, at-least-once.
type StockConsumer struct {
	reader         reader
	saver          stockSaver
	log            ports.Logger
	processTimeout time.Duration
	backoff        *backoff
	closeOnce      sync.Once
}

func NewStockConsumer(cfg *ConsumerConfig, saver stockSaver, log ports.Logger) *StockConsumer {
	c := cfg.withDefaults()
	return newStockConsumer(kafka.NewReader(c.ReaderConfig()), saver, log, c,
		rand.New(rand.NewSource(time.Now().UnixNano())))
}

func newStockConsumer(r reader, saver stockSaver, log ports.Logger, cfg ConsumerConfig, rnd *rand.Rand) *StockConsumer {
	return &StockConsumer{
		reader:         r,
		saver:          saver,
		log:            log,
		processTimeout: cfg.ProcessTimeout,
		backoff:        newBackoff(cfg.RetryInitial, cfg.RetryMax, rnd),
	}
}

// Run — цикл до отмены контекста. Оффсет коммитится после успешной обработки
// и после невалидного сообщения; временная ошибка оставляет сообщение на повтор.
func (c *StockConsumer) Run(ctx context.Context) error {
	rc := c.reader.Config()
	c.log.Infof(ctx, "stock consumer started topic=%s group_id=%s brokers=%v", rc.Topic, rc.GroupID, rc.Brokers)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			delay := c.backoff.Next()
			c.log.Warnf(ctx, "fetch failed: %v (retry in %s)", err, delay)
			if !sleepCtx(ctx, delay) {
				return ctx.Err()
			}
			continue
		}

		c.backoff.Reset()
		metrics.KafkaMessagesConsumed.WithLabelValues(rc.Topic).Inc()

		switch c.handle(ctx, &msg) {
		case commit, skip:
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.log.Warnf(ctx, "commit failed offset=%d: %v", msg.Offset, err)
			}
		case retry:
			_ = sleepCtx(ctx, c.backoff.Short())
		}
	}
}

func (c *StockConsumer) handle(ctx context.Context, msg *kafka.Message) verdict {
	ctx = ctxmeta.WithRequestID(ctx, headerValue(msg, HeaderRequestID))
	ctx, span := tracer.Start(ctx, "kafka.stock.process",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.destination.name", msg.Topic),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.String("messaging.kafka.offset", strconv.FormatInt(msg.Offset, 10)),
		))
	defer span.End()

	procCtx, cancel := context.WithTimeout(ctx, c.processTimeout)
	err := c.saver.SaveStockFromMessage(procCtx, msg.Value)
	cancel()

	switch {
	case err == nil:
		metrics.KafkaMessagesProcessed.WithLabelValues(msg.Topic).Inc()
		return commit
	case errors.Is(err, domain.ErrInvalidStockEvent):
		metrics.KafkaMessagesFailed.WithLabelValues(msg.Topic, "invalid").Inc()
		span.SetStatus(codes.Error, "invalid stock event")
		c.log.Warnf(ctx, "invalid stock event offset=%d: %v (skipped)", msg.Offset, err)
		return skip
	default:
		metrics.KafkaMessagesFailed.WithLabelValues(msg.Topic, "retry").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Warnf(ctx, "stock event offset=%d failed: %v (no commit)", msg.Offset, err)
		return retry
	}
}

func (c *StockConsumer) Close() (err error) {
	c.closeOnce.Do(func() { err = c.reader.Close() })
	return err
}

func headerValue(msg *kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
