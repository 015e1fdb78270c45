package kafka

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/Gunvolt24/merchant_dash/internal/ports"
	"github.com/Gunvolt24/merchant_dash/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

var _ ports.MessageConsumer = (*Consumer)(nil)

// reader — то, что нужно консьюмеру от kafka.Reader.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// pollTrigger — наблюдатель заказов: внеочередной опрос по подсказке.
type pollTrigger interface {
	Nudge(ctx context.Context) error
}

// Consumer читает подсказки «заказы изменились» и просит наблюдатель опросить API.
// Подсказка только ускоряет опрос: источник истины — список заказов с сервера.
type Consumer struct {
	reader         reader
	trigger        pollTrigger
	log            ports.Logger
	processTimeout time.Duration

	// подсказки чаще coalesce после удачного опроса коммитятся без нового опроса
	coalesce time.Duration
	lastPoll time.Time
	now      func() time.Time

	fetchRetry *backoff
	nudgeRetry *backoff
	closeOnce  sync.Once
}

// NewConsumer — reader с ручным коммитом, незаданные интервалы берутся по умолчанию.
func NewConsumer(cfg *ConsumerConfig, trigger pollTrigger, log ports.Logger) *Consumer {
	pt := cfg.ProcessTimeout
	if pt <= 0 {
		pt = 10 * time.Second
	}
	initial, maxDelay := cfg.RetryInitial, cfg.RetryMax
	if initial <= 0 {
		initial = time.Second
	}
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}
	maxDelay = max(maxDelay, initial)

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Consumer{
		reader:         kafka.NewReader(cfg.ReaderConfig()),
		trigger:        trigger,
		log:            log,
		processTimeout: pt,
		coalesce:       cfg.Coalesce,
		now:            time.Now,
		fetchRetry:     newBackoff(initial, maxDelay, rnd),
		// повтор подсказки не чаще раза в полсекунды, но и не реже retryMax
		nudgeRetry: newBackoff(min(initial, 500*time.Millisecond), maxDelay, rnd),
	}
}

// Run читает до отмены ctx. Оффсет коммитится, когда подсказка отработана
// или повтор бессмыслен; при временной ошибке опроса сообщение перечитывается.
func (c *Consumer) Run(ctx context.Context) error {
	rc := c.reader.Config()
	c.log.Infof(ctx, "kafka consumer started topic=%s group_id=%s brokers=%v", rc.Topic, rc.GroupID, rc.Brokers)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			delay := c.fetchRetry.next()
			c.log.Warnf(ctx, "fetch failed: %v (retry in %s)", err, delay)
			if !sleepCtx(ctx, delay) {
				return ctx.Err()
			}
			continue
		}
		c.fetchRetry.reset()
		metrics.KafkaMessagesConsumed.WithLabelValues(rc.Topic).Inc()

		switch c.handleMessage(ctx, rc.Topic, &msg) {
		case verdictCommit:
			c.nudgeRetry.reset()
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.log.Warnf(ctx, "commit failed offset=%d: %v", msg.Offset, err)
			}
		case verdictRetry:
			if !sleepCtx(ctx, c.nudgeRetry.next()) {
				return ctx.Err()
			}
		}
	}
}

// Close закрывает reader; повторные вызовы ничего не делают.
func (c *Consumer) Close() (err error) {
	c.closeOnce.Do(func() { err = c.reader.Close() })
	return err
}
