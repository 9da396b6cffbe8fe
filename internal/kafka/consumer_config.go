package kafka

import (
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// ConsumerConfig — параметры подписки на фид остатков.
type ConsumerConfig struct {
	Brokers     []string
	Topic       string
	GroupID     string
	StartOffset string // first | last (по умолчанию)

	ProcessTimeout time.Duration
	RetryInitial   time.Duration
	RetryMax       time.Duration
}

// ReaderConfig — конфигурация kafka.Reader с ручным коммитом оффсетов.
func (c *ConsumerConfig) ReaderConfig() kafka.ReaderConfig {
	rc := kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        c.GroupID,
		Topic:          c.Topic,
		CommitInterval: 0,
		StartOffset:    kafka.LastOffset,
	}
	if strings.EqualFold(strings.TrimSpace(c.StartOffset), "first") {
		rc.StartOffset = kafka.FirstOffset
	}
	return rc
}

func (c *ConsumerConfig) withDefaults() ConsumerConfig {
	out := *c
	if out.ProcessTimeout <= 0 {
		out.ProcessTimeout = 5 * time.Second
	}
	if out.RetryInitial <= 0 {
		out.RetryInitial = time.Second
	}
	if out.RetryMax < out.RetryInitial {
		out.RetryMax = 30 * time.Second
	}
	return out
}
