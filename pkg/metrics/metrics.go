package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Корзина: мутации, персистентность, гидратация.
var (
	CartMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_mutations_total",
			Help: "Cart mutations by operation and result",
		},
		[]string{"op", "result"}, // op: add|remove|clear; result: accepted|rejected
	)
	CartPersistenceOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_persistence_ops_total",
			Help: "Snapshot slot operations",
		},
		[]string{"op", "result"}, // op: load|save; result: ok|absent|error|skipped
	)
	CartHydrations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cart_hydrations_total",
			Help: "Sessions that reached READY",
		},
	)
	CartSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cart_sessions",
			Help: "Number of live cart sessions",
		},
	)
)

// Оформление заказа.
var (
	CheckoutSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_submissions_total",
			Help: "Checkout attempts by result",
		},
		[]string{"result"}, // ok|invalid|network
	)
	CheckoutSuccessAcks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_success_acks_total",
			Help: "Success signals by outcome",
		},
		[]string{"outcome"}, // cleared|duplicate
	)
)

// Kafka: фид остатков и публикация заказов.
var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to process (reason=invalid|retry)",
		},
		[]string{"topic", "reason"},
	)
	KafkaMessagesPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_published_total",
			Help: "Number of messages written to Kafka",
		},
		[]string{"topic", "result"},
	)
)

// Кэш (товары, сессии).
var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache operations",
		},
		[]string{"cache", "op"}, // op: hit|miss|evicted|expired
	)
	CacheSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Number of items currently in cache",
		},
		[]string{"cache"},
	)
)

var registerOnce sync.Once

// MustRegister — регистрирует все метрики в глобальном реестре (повторный вызов безопасен).
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			CartMutations, CartPersistenceOps, CartHydrations, CartSessions,
			CheckoutSubmissions, CheckoutSuccessAcks,
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed, KafkaMessagesPublished,
			CacheOps, CacheSize,
		)
	})
}
