//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	ikafka "github.com/Gunvolt24/merchant_dash/internal/kafka"
	"github.com/Gunvolt24/merchant_dash/internal/testutil"
	"github.com/Gunvolt24/merchant_dash/internal/watcher"
	"github.com/Gunvolt24/merchant_dash/pkg/logger"
)

// 1) Событие из Kafka запускает внеочередной опрос, новый заказ даёт сигнал
func TestKafka_Event_NudgesWatcher_TC(t *testing.T) {
	ctx, cancel, kf := newKafka(t)
	defer cancel()

	topic, group, err := kf.Topic(ctx, t.Name())
	require.NoError(t, err)

	logg, closer, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	defer func() { _ = closer() }()

	api := &fakeOrders{}
	sink := &countingSink{}
	// таймер большой: сигнал может прийти только от подсказки
	w := watcher.New(api, sink, nil, logg, watcher.Config{Interval: time.Hour})
	require.NoError(t, w.Activate(ctx))
	defer w.Stop()

	consumer := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:        kf.Brokers,
		Topic:          topic,
		GroupID:        group,
		StartOffset:    "first",
		ProcessTimeout: 5 * time.Second,
		RetryInitial:   200 * time.Millisecond,
		RetryMax:       2 * time.Second,
	}, w, logg)
	defer consumer.Close()

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	go func() { _ = consumer.Run(runCtx) }()

	time.Sleep(1500 * time.Millisecond)

	ord := testutil.MakeOrder()
	api.set([]domain.Order{ord})
	writeEvent(t, ctx, kf.Brokers, topic, ikafka.OrderEvent{Type: "order.created", OrderID: ord.ID})

	require.Eventually(t, func() bool { return sink.calls.Load() == 1 }, 20*time.Second, 200*time.Millisecond)
	require.True(t, w.Seen(ord.ID))
}

// 2) Не-JSON сообщение пропускается, следующее событие обрабатывается
func TestKafka_Skip_InvalidJSON_Then_Nudge_TC(t *testing.T) {
	ctx, cancel, kf := newKafka(t)
	defer cancel()

	topic, group, err := kf.Topic(ctx, t.Name())
	require.NoError(t, err)

	logg, closer, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	defer func() { _ = closer() }()

	trg := &recordingTrigger{}
	consumer := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:        kf.Brokers,
		Topic:          topic,
		GroupID:        group,
		StartOffset:    "first",
		ProcessTimeout: 3 * time.Second,
		RetryInitial:   200 * time.Millisecond,
		RetryMax:       2 * time.Second,
	}, trg, logg)
	defer consumer.Close()

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	go func() { _ = consumer.Run(runCtx) }()

	writeMsg(t, ctx, kf.Brokers, topic, []byte("not-a-json"))
	writeEvent(t, ctx, kf.Brokers, topic, ikafka.OrderEvent{Type: "order.created", OrderID: "ord-1"})

	require.Eventually(t, func() bool { return trg.calls.Load() == 1 }, 20*time.Second, 200*time.Millisecond)
	// мусор до триггера не дошёл
	time.Sleep(500 * time.Millisecond)
	require.EqualValues(t, 1, trg.calls.Load())
}

// 3) At-least-once через рестарт: при временной ошибке оффсет не коммитится
func TestKafka_Redelivery_AfterRestart_NoCommit_TC(t *testing.T) {
	ctx, cancel, kf := newKafka(t)
	defer cancel()

	topic, group, err := kf.Topic(ctx, t.Name())
	require.NoError(t, err)

	logg, closer, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	defer func() { _ = closer() }()

	writeEvent(t, ctx, kf.Brokers, topic, ikafka.OrderEvent{Type: "order.created", OrderID: "ord-2"})

	cfg := &ikafka.ConsumerConfig{
		Brokers:        kf.Brokers,
		Topic:          topic,
		GroupID:        group,
		StartOffset:    "first",
		ProcessTimeout: 300 * time.Millisecond,
		RetryInitial:   100 * time.Millisecond,
		RetryMax:       300 * time.Millisecond,
	}

	// Фаза 1: опрос всегда падает => оффсет НЕ коммитится
	failing := &recordingTrigger{err: errors.New("upstream unavailable")}
	c1 := ikafka.NewConsumer(cfg, failing, logg)
	runCtx1, cancelRun1 := context.WithCancel(ctx)
	go func() { _ = c1.Run(runCtx1) }()

	require.Eventually(t, func() bool { return failing.calls.Load() > 0 }, 20*time.Second, 100*time.Millisecond)
	cancelRun1()
	_ = c1.Close()

	// Фаза 2: та же группа получает некоммиченное сообщение
	ok := &recordingTrigger{}
	c2 := ikafka.NewConsumer(cfg, ok, logg)
	defer c2.Close()
	runCtx2, cancelRun2 := context.WithCancel(ctx)
	defer cancelRun2()
	go func() { _ = c2.Run(runCtx2) }()

	require.Eventually(t, func() bool { return ok.calls.Load() > 0 }, 25*time.Second, 250*time.Millisecond)
}

// 4) AlertPublisher пишет одно сообщение с ключом мерчанта
func TestKafka_AlertPublisher_RoundTrip_TC(t *testing.T) {
	ctx, cancel, kf := newKafka(t)
	defer cancel()

	topic, _, err := kf.Topic(ctx, t.Name())
	require.NoError(t, err)

	pub := ikafka.NewAlertPublisher(&ikafka.ProducerConfig{Brokers: kf.Brokers, Topic: topic}, staticUser{ID: "m-7"})
	defer pub.Close()

	a, b := testutil.MakeOrder(), testutil.MakeOrder()
	require.NoError(t, pub.Alert(ctx, []domain.Order{a, b}))

	r := kafka.NewReader(kafka.ReaderConfig{Brokers: kf.Brokers, Topic: topic, StartOffset: kafka.FirstOffset})
	defer r.Close()

	readCtx, cancelRead := context.WithTimeout(ctx, 20*time.Second)
	defer cancelRead()
	msg, err := r.ReadMessage(readCtx)
	require.NoError(t, err)
	require.Equal(t, "m-7", string(msg.Key))

	var got ikafka.AlertMessage
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	require.Equal(t, "m-7", got.Merchant)
	require.Equal(t, []string{a.ID, b.ID}, got.OrderIDs)
}

// -----------------функции-помощники-----------------

func newKafka(t *testing.T) (context.Context, func(), *testutil.KafkaEnv) {
	t.Helper()

	// Длинный контекст — на контейнер
	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancelStart)

	kf, stopKF, err := testutil.StartKafkaTC(ctxStart, "order-events-itc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopKF(context.Background()) })

	// Короткий контекст — сам тест
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	return ctx, cancel, kf
}

func writeEvent(t *testing.T, ctx context.Context, brokers []string, topic string, ev ikafka.OrderEvent) {
	t.Helper()
	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	writeMsg(t, ctx, brokers, topic, raw)
}

func writeMsg(t *testing.T, ctx context.Context, brokers []string, topic string, payload []byte) {
	t.Helper()
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.LeastBytes{},
	}
	defer w.Close()
	require.NoError(t, w.WriteMessages(ctx, kafka.Message{Value: payload}))
}

type fakeOrders struct {
	mu     sync.Mutex
	orders []domain.Order
}

func (f *fakeOrders) set(orders []domain.Order) {
	f.mu.Lock()
	f.orders = orders
	f.mu.Unlock()
}

func (f *fakeOrders) ListOrders(context.Context) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Order, len(f.orders))
	copy(out, f.orders)
	return out, nil
}

func (f *fakeOrders) UpdateOrderStatus(context.Context, string, domain.OrderStatus) (domain.Order, error) {
	return domain.Order{}, errors.New("not supported")
}

type countingSink struct{ calls atomic.Int32 }

func (s *countingSink) Alert(context.Context, []domain.Order) error {
	s.calls.Add(1)
	return nil
}

type recordingTrigger struct {
	calls atomic.Int32
	err   error
}

func (r *recordingTrigger) Nudge(context.Context) error {
	r.calls.Add(1)
	return r.err
}

type staticUser domain.User

func (s staticUser) User() *domain.User {
	u := domain.User(s)
	return &u
}
