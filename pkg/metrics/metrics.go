package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Наблюдатель заказов.
var (
	PollCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_poll_cycles_total",
			Help: "Order poll cycles by result",
		},
		[]string{"result"}, // ok|error|in_flight|expired
	)
	PollDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "order_poll_duration_seconds",
			Help:    "Duration of one order fetch",
			Buckets: prometheus.DefBuckets,
		},
	)
	NewOrdersDetected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_new_detected_total",
			Help: "Orders with status NEW seen for the first time",
		},
	)
	SeenOrders = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "orders_seen",
			Help: "Size of the seen-order set",
		},
	)
)

// Оповещения и подписка.
var (
	AlertsFired = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_fired_total",
			Help: "Alerts delivered by sink",
		},
		[]string{"sink"},
	)
	AlertsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alerts_failed_total",
			Help: "Alerts failed by sink",
		},
		[]string{"sink"},
	)
	SubscriptionExpired = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "subscription_expired",
			Help: "1 when the merchant subscription is expired",
		},
	)
)

// Kafka.
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
			Help: "Number of messages failed to process",
		},
		[]string{"topic"},
	)
	KafkaAlertsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_alerts_published_total",
			Help: "Alert messages written to Kafka",
		},
		[]string{"topic"},
	)
)

// Кэш товаров.
var (
	CacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Cache operations",
		},
		[]string{"op"}, // hit|miss|evicted|expired
	)
	CacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Number of items currently in cache",
		},
	)
)

var registerOnce sync.Once

// MustRegister регистрирует метрики в default registry; повторный вызов — no-op.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			PollCycles, PollDuration, NewOrdersDetected, SeenOrders,
			AlertsFired, AlertsFailed, SubscriptionExpired,
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed, KafkaAlertsPublished,
			CacheOps, CacheSize,
		)
	})
}
