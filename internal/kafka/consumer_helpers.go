package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"time"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/watcher"
	"github.com/Gunvolt24/merchant_dash/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

// Типы событий, после которых имеет смысл опросить заказы.
const (
	EventOrderCreated  = "order.created"
	EventOrderUpdated  = "order.updated"
	EventOrderCanceled = "order.canceled"
)

// OrderEvent — подсказка от платформы: у мерчанта что-то поменялось в заказах.
type OrderEvent struct {
	Type    string `json:"type"`
	OrderID string `json:"orderId"`
}

// concernsOrders — пустой тип считаем событием заказа (старые продюсеры его не пишут).
func (e OrderEvent) concernsOrders() bool {
	switch e.Type {
	case "", EventOrderCreated, EventOrderUpdated, EventOrderCanceled:
		return true
	}
	return false
}

type verdict int

const (
	verdictCommit verdict = iota
	verdictRetry
)

func (c *Consumer) handleMessage(ctx context.Context, topic string, msg *kafka.Message) verdict {
	var ev OrderEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "invalid order event offset=%d: %v (skipped)", msg.Offset, err)
		return verdictCommit
	}
	if !ev.concernsOrders() {
		c.log.Infof(ctx, "event offset=%d type=%s is not about orders (skipped)", msg.Offset, ev.Type)
		return verdictCommit
	}
	if c.coalesce > 0 && !c.lastPoll.IsZero() && c.now().Sub(c.lastPoll) < c.coalesce {
		metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
		return verdictCommit
	}

	nctx, cancel := context.WithTimeout(ctx, c.processTimeout)
	err := c.trigger.Nudge(nctx)
	cancel()

	switch {
	case err == nil:
		c.lastPoll = c.now()
		metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
		return verdictCommit
	case errors.Is(err, watcher.ErrPollInFlight):
		// идущий опрос и так увидит изменения
		metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
		return verdictCommit
	case errors.Is(err, domain.ErrSubscriptionExpired):
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "order event offset=%d type=%s: subscription expired (skipped)", msg.Offset, ev.Type)
		return verdictCommit
	default:
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "nudge failed offset=%d type=%s: %v (no commit)", msg.Offset, ev.Type, err)
		return verdictRetry
	}
}

// backoff — экспонента с equal-jitter: половина задержки фиксирована, половина случайна.
type backoff struct {
	initial, max, cur time.Duration
	rnd               *rand.Rand
}

func newBackoff(initial, maxDelay time.Duration, rnd *rand.Rand) *backoff {
	return &backoff{initial: initial, max: maxDelay, cur: initial, rnd: rnd}
}

// next — задержка для текущей попытки; следующая будет вдвое больше (до max).
func (b *backoff) next() time.Duration {
	d := b.cur
	b.cur = min(b.cur*2, b.max)
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + time.Duration(b.rnd.Int63n(int64(d-half)+1))
}

func (b *backoff) reset() { b.cur = b.initial }

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
