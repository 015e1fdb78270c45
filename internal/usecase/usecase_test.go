package usecase_test

import (
	"context"
	"sync"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/watcher"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

// memSessions — хранилище сессии в памяти.
type memSessions struct {
	mu      sync.Mutex
	sess    *domain.Session
	setErr  error
	cleared int
}

func (m *memSessions) SetSession(_ context.Context, s domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = &s
	return m.setErr
}

func (m *memSessions) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess = nil
	m.cleared++
	return nil
}

func (m *memSessions) Restore(context.Context) (domain.Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return domain.Session{}, false, nil
	}
	return *m.sess, true, nil
}

type fakeGate struct{ expired bool }

func (g *fakeGate) Expired() bool { return g.expired }

func (g *fakeGate) Restore() bool {
	was := g.expired
	g.expired = false
	return was
}

// fakeWatcher — наблюдатель с заранее заданным ответом.
type fakeWatcher struct {
	orders    []domain.Order
	pollErr   error
	snap      watcher.Snapshot
	polls     []bool
	updated   []string
	updateErr error
}

func (f *fakeWatcher) Poll(_ context.Context, notify bool) ([]domain.Order, error) {
	f.polls = append(f.polls, notify)
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	return f.orders, nil
}

func (f *fakeWatcher) UpdateOrderStatus(_ context.Context, id string, st domain.OrderStatus) (domain.Order, error) {
	f.updated = append(f.updated, id+"->"+string(st))
	if f.updateErr != nil {
		return domain.Order{}, f.updateErr
	}
	return domain.Order{ID: id, Status: st}, nil
}

func (f *fakeWatcher) Snapshot() watcher.Snapshot { return f.snap }
