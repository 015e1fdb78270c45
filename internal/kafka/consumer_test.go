package kafka

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/kafka/mocks"
	"github.com/Gunvolt24/merchant_dash/internal/watcher"
	"github.com/Gunvolt24/merchant_dash/pkg/logger"
)

var testReaderCfg = kafka.ReaderConfig{Topic: "order-events", GroupID: "g1", Brokers: []string{"b:9092"}}

func newTestConsumer(r reader, s pollTrigger) *Consumer {
	rnd := rand.New(rand.NewSource(1))
	return &Consumer{
		reader: r, trigger: s, log: logger.NewNop(),
		processTimeout: 30 * time.Millisecond,
		now:            time.Now,
		fetchRetry:     newBackoff(5*time.Millisecond, 10*time.Millisecond, rnd),
		nudgeRetry:     newBackoff(5*time.Millisecond, 10*time.Millisecond, rnd),
	}
}

// blockUntilDone — следующий FetchMessage ждёт отмены контекста.
func blockUntilDone(r *mocks.Mockreader) {
	r.EXPECT().FetchMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, error) {
			<-ctx.Done()
			return kafka.Message{}, ctx.Err()
		})
}

// runBriefly — Run в горутине, отмена через 20мс; Run обязан выйти с context.Canceled.
func runBriefly(t *testing.T, c *Consumer) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for Run to stop")
	}
}

func TestRun_Verdicts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		value      string
		nudge      bool  // ожидается вызов Nudge
		nudgeErr   error // что вернёт Nudge
		wantCommit bool
	}{
		{"created_commits", `{"type":"order.created","orderId":"A"}`, true, nil, true},
		{"untyped_treated_as_order", `{"orderId":"A"}`, true, nil, true},
		{"poll_in_flight_commits", `{"type":"order.updated"}`, true, watcher.ErrPollInFlight, true},
		{"expired_commits", `{"type":"order.updated"}`, true, domain.ErrSubscriptionExpired, true},
		{"temporary_failure_no_commit", `{"type":"order.created"}`, true, errors.New("remote api: status 503"), false},
		{"garbage_commits_without_poll", `bad`, false, nil, true},
		{"foreign_event_commits_without_poll", `{"type":"product.updated"}`, false, nil, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			r := mocks.NewMockreader(ctrl)
			s := mocks.NewMockpollTrigger(ctrl)

			r.EXPECT().Config().Return(testReaderCfg).AnyTimes()
			r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{Offset: 1, Value: []byte(tt.value)}, nil)
			if tt.nudge {
				s.EXPECT().Nudge(gomock.Any()).Return(tt.nudgeErr)
			}
			// без EXPECT лишний CommitMessages падает как unexpected call
			if tt.wantCommit {
				r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(nil)
			}
			blockUntilDone(r)

			runBriefly(t, newTestConsumer(r, s))
		})
	}
}

// Ошибка коммита только логируется; цикл продолжает читать.
func TestRun_CommitErrorKeepsLoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockpollTrigger(ctrl)

	r.EXPECT().Config().Return(testReaderCfg).AnyTimes()
	r.EXPECT().FetchMessage(gomock.Any()).
		Return(kafka.Message{Offset: 3, Value: []byte(`{"type":"order.created"}`)}, nil)
	s.EXPECT().Nudge(gomock.Any()).Return(nil)
	r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(errors.New("temporary"))
	blockUntilDone(r)

	runBriefly(t, newTestConsumer(r, s))
}

// Пачка подсказок сразу после удачного опроса даёт один опрос.
func TestRun_CoalescesBurst(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockpollTrigger(ctrl)

	r.EXPECT().Config().Return(testReaderCfg).AnyTimes()
	for i := int64(1); i <= 3; i++ {
		r.EXPECT().FetchMessage(gomock.Any()).
			Return(kafka.Message{Offset: i, Value: []byte(`{"type":"order.created"}`)}, nil)
	}
	s.EXPECT().Nudge(gomock.Any()).Return(nil).Times(1)
	r.EXPECT().CommitMessages(gomock.Any(), gomock.Any()).Return(nil).Times(3)
	blockUntilDone(r)

	c := newTestConsumer(r, s)
	c.coalesce = time.Minute
	runBriefly(t, c)
}

func TestRun_FetchErrorRetriesUntilDeadline(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	s := mocks.NewMockpollTrigger(ctrl)

	r.EXPECT().Config().Return(testReaderCfg).AnyTimes()
	r.EXPECT().FetchMessage(gomock.Any()).Return(kafka.Message{}, errors.New("broker error")).MinTimes(2)

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, newTestConsumer(r, s).Run(ctx), context.DeadlineExceeded)
}

func TestClose_Once(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := mocks.NewMockreader(ctrl)
	r.EXPECT().Close().Return(nil).Times(1)

	c := newTestConsumer(r, nil)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestBackoff(t *testing.T) {
	t.Parallel()
	b := newBackoff(4*time.Millisecond, 10*time.Millisecond, rand.New(rand.NewSource(7)))

	d := b.next()
	assert.True(t, d >= 2*time.Millisecond && d <= 4*time.Millisecond, "first delay %s", d)
	_ = b.next()
	assert.Equal(t, 10*time.Millisecond, b.cur, "capped by max")
	for i := 0; i < 50; i++ {
		d := b.next()
		assert.True(t, d >= 5*time.Millisecond && d <= 10*time.Millisecond, "equal jitter out of range: %s", d)
	}

	b.reset()
	assert.Equal(t, 4*time.Millisecond, b.cur)
	assert.Zero(t, newBackoff(0, 0, rand.New(rand.NewSource(1))).next())
}
