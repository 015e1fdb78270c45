package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/kafka/mocks"
)

type fixedUser struct{ u *domain.User }

func (f fixedUser) User() *domain.User { return f.u }

func TestAlertPublisher_OneMessagePerAlert(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mocks.NewMockwriter(ctrl)

	at := time.Date(2025, 4, 1, 18, 30, 0, 0, time.UTC)
	p := &AlertPublisher{writer: w, topic: "order-alerts", who: fixedUser{&domain.User{ID: "m-42"}}, now: func() time.Time { return at }}

	w.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, msgs ...kafka.Message) error {
			if len(msgs) != 1 {
				t.Fatalf("want 1 message, got %d", len(msgs))
			}
			if string(msgs[0].Key) != "m-42" {
				t.Fatalf("key: got %q", msgs[0].Key)
			}
			var got AlertMessage
			if err := json.Unmarshal(msgs[0].Value, &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Merchant != "m-42" || len(got.OrderIDs) != 2 || got.OrderIDs[1] != "b" || !got.At.Equal(at) {
				t.Fatalf("unexpected payload: %+v", got)
			}
			return nil
		})

	err := p.Alert(context.Background(), []domain.Order{{ID: "a"}, {ID: "b"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAlertPublisher_WriteError(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mocks.NewMockwriter(ctrl)

	boom := errors.New("leader not available")
	w.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(boom)

	p := &AlertPublisher{writer: w, topic: "order-alerts", now: time.Now}
	if err := p.Alert(context.Background(), []domain.Order{{ID: "a"}}); !errors.Is(err, boom) {
		t.Fatalf("want wrapped write error, got %v", err)
	}
}

func TestAlertPublisher_CloseOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := mocks.NewMockwriter(ctrl)
	w.EXPECT().Close().Return(nil).Times(1)

	p := &AlertPublisher{writer: w}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestProducerConfig_Writer(t *testing.T) {
	cfg := &ProducerConfig{Brokers: []string{"k1:9092"}, Topic: "order-alerts"}
	w := cfg.writer()
	if w.Topic != "order-alerts" || w.WriteTimeout != 5*time.Second {
		t.Fatalf("unexpected writer: topic=%s timeout=%s", w.Topic, w.WriteTimeout)
	}
}
