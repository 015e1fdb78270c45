package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/ports"
	"github.com/Gunvolt24/merchant_dash/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

// writer — минимальный контракт над kafka.Writer.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// identity — кто сейчас вошёл (ключ сообщения).
type identity interface {
	User() *domain.User
}

// AlertMessage — одно сообщение на цикл с новыми заказами.
type AlertMessage struct {
	Merchant string    `json:"merchant"`
	OrderIDs []string  `json:"orderIds"`
	At       time.Time `json:"at"`
}

// AlertPublisher — AlertSink, который дублирует оповещение в Kafka для других устройств.
type AlertPublisher struct {
	writer    writer
	topic     string
	who       identity
	now       func() time.Time
	closeOnce sync.Once
}

var _ ports.AlertSink = (*AlertPublisher)(nil)

// NewAlertPublisher — конструктор поверх kafka.Writer.
func NewAlertPublisher(cfg *ProducerConfig, who identity) *AlertPublisher {
	return &AlertPublisher{writer: cfg.writer(), topic: cfg.Topic, who: who, now: time.Now}
}

// Alert — публикует id новых заказов одним сообщением.
func (p *AlertPublisher) Alert(ctx context.Context, orders []domain.Order) error {
	msg := AlertMessage{OrderIDs: make([]string, 0, len(orders)), At: p.now().UTC()}
	if p.who != nil {
		if u := p.who.User(); u != nil {
			msg.Merchant = u.ID
		}
	}
	for i := range orders {
		msg.OrderIDs = append(msg.OrderIDs, orders[i].ID)
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode alert: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(msg.Merchant), Value: raw}); err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}
	metrics.KafkaAlertsPublished.WithLabelValues(p.topic).Inc()
	return nil
}

// Close закрывает writer.
func (p *AlertPublisher) Close() (retErr error) {
	p.closeOnce.Do(func() {
		retErr = p.writer.Close()
	})
	return retErr
}
