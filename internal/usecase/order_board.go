package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/watcher"
)

// orderWatcher — наблюдатель заказов (internal/watcher.Watcher).
type orderWatcher interface {
	Poll(ctx context.Context, notifyOnNew bool) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error)
	Snapshot() watcher.Snapshot
}

// Summary — счётчики для шапки экрана заказов.
type Summary struct {
	NewCount  int       `json:"newCount"`
	Total     int       `json:"total"`
	Running   bool      `json:"running"`
	LastSync  time.Time `json:"lastSync"`
	SeenCount int       `json:"seenCount"`
}

// OrderBoard — экран заказов поверх наблюдателя.
type OrderBoard struct {
	watcher orderWatcher
}

// NewOrderBoard — DI-конструктор.
func NewOrderBoard(w orderWatcher) *OrderBoard {
	return &OrderBoard{watcher: w}
}

// List — обновляет список через наблюдатель и отдаёт его в порядке для экрана.
// Если опрос уже идёт, отдаётся последний известный список.
func (b *OrderBoard) List(ctx context.Context, status domain.OrderStatus, notifyOnNew bool) ([]domain.Order, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}

	orders, err := b.watcher.Poll(ctx, notifyOnNew)
	if errors.Is(err, watcher.ErrPollInFlight) {
		orders, err = b.watcher.Snapshot().Orders, nil
	}
	if err != nil {
		return nil, err
	}
	return domain.FilterByStatus(domain.SortForDisplay(orders), status), nil
}

// SetStatus — переход статуса. Заведомо недопустимый переход для известного заказа
// отклоняется без запроса; остальное решает сервер.
func (b *OrderBoard) SetStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, fmt.Errorf("%w: empty order id", domain.ErrInvalidInput)
	}
	if !status.Valid() {
		return domain.Order{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, status)
	}
	for _, o := range b.watcher.Snapshot().Orders {
		if o.ID == orderID && !o.Status.CanTransitionTo(status) {
			return domain.Order{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, o.Status, status)
		}
	}
	return b.watcher.UpdateOrderStatus(ctx, orderID, status)
}

// Summary — по последнему опросу, без запроса к серверу.
func (b *OrderBoard) Summary() Summary {
	snap := b.watcher.Snapshot()
	return Summary{
		NewCount:  domain.CountByStatus(snap.Orders, domain.StatusNew),
		Total:     len(snap.Orders),
		Running:   snap.Running,
		LastSync:  snap.LastSync,
		SeenCount: snap.SeenCount,
	}
}
