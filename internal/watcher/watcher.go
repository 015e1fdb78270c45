// Пакет watcher — наблюдатель заказов: периодический опрос удалённого API,
// учёт уже виденных заказов и один сигнал на цикл, если пришли новые.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/ports"
	"github.com/Gunvolt24/merchant_dash/pkg/ctxmeta"
	"github.com/Gunvolt24/merchant_dash/pkg/metrics"
	"github.com/Gunvolt24/merchant_dash/pkg/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultInterval — период опроса по умолчанию.
const DefaultInterval = 5 * time.Second

// DefaultAlertTimeout — сколько цикл ждёт получателя оповещения.
const DefaultAlertTimeout = 10 * time.Second

// ErrPollInFlight — опрос уже идёт, новый запрос не отправлялся.
var ErrPollInFlight = errors.New("order poll already in flight")

// Gate — глобальный флаг «подписка истекла».
type Gate interface {
	MarkExpired() bool
	Restore() bool
}

// Config — параметры наблюдателя.
type Config struct {
	Interval time.Duration
	// CatchUpOnResume — повторная активация сигналит о заказах, пришедших за время простоя.
	CatchUpOnResume bool
	// AlertTimeout — предел ожидания AlertSink; зависший звук или брокер не держат цикл.
	AlertTimeout time.Duration
}

// Event — новые заказы, о которых был подан сигнал.
type Event struct {
	At     time.Time      `json:"at"`
	Orders []domain.Order `json:"orders"`
}

// Snapshot — состояние для сводки в UI (только отображение).
type Snapshot struct {
	Running   bool           `json:"running"`
	LastSync  time.Time      `json:"lastSync"`
	SeenCount int            `json:"seenCount"`
	Orders    []domain.Order `json:"orders"`
}

// Watcher — наблюдатель заказов одного мерчанта.
type Watcher struct {
	api  ports.OrderAPI
	sink ports.AlertSink
	gate Gate
	log  ports.Logger
	cfg  Config

	inFlight atomic.Bool

	mu         sync.Mutex
	seen       map[string]struct{}
	lastOrders []domain.Order
	lastSync   time.Time
	activated  bool
	epoch      uint64 // растёт на Reset; опрос старой эпохи не пишет в seen-set
	stopCh     chan struct{}
	onError    func(error)
	subs       map[int]chan Event
	nextSub    int
}

// New — DI-конструктор. gate может быть nil.
func New(api ports.OrderAPI, sink ports.AlertSink, gate Gate, log ports.Logger, cfg Config) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.AlertTimeout <= 0 {
		cfg.AlertTimeout = DefaultAlertTimeout
	}
	return &Watcher{
		api:  api,
		sink: sink,
		gate: gate,
		log:  log,
		cfg:  cfg,
		seen: make(map[string]struct{}),
		subs: make(map[int]chan Event),
	}
}

// Start запускает периодический опрос. Повторный вызов ничего не делает.
// Цикл живёт до Stop или отмены ctx.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.stopCh != nil {
		w.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	w.stopCh = stop
	w.mu.Unlock()

	go w.loop(ctx, stop)
	w.log.Infof(ctx, "order watcher started interval=%s", w.cfg.Interval)
}

// Stop останавливает опрос по таймеру. Безопасен, если наблюдатель не запущен.
// Уже отправленный запрос может завершиться и обновить seen-set, но сигнала не будет.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopCh == nil {
		return
	}
	close(w.stopCh)
	w.stopCh = nil
}

// Running — идёт ли опрос по таймеру.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopCh != nil
}

// Poll — один цикл опроса. Возвращает список заказов в том виде, в каком его отдал сервер.
// Если цикл уже идёт, возвращает ErrPollInFlight без запроса.
func (w *Watcher) Poll(ctx context.Context, notifyOnNew bool) ([]domain.Order, error) {
	return w.poll(ctx, notifyOnNew, nil)
}

// Activate — экран стал активным: немедленный опрос, затем периодический.
// Первая активация сигнал не подаёт; последующие — по CatchUpOnResume.
// Если опрос по таймеру уже идёт, ничего не делает.
func (w *Watcher) Activate(ctx context.Context) error {
	w.mu.Lock()
	if w.stopCh != nil {
		w.mu.Unlock()
		return nil
	}
	first := !w.activated
	w.activated = true
	w.mu.Unlock()

	notify := !first && w.cfg.CatchUpOnResume
	_, err := w.Poll(ctx, notify)

	// цикл не должен зависеть от контекста запроса, который его включил
	w.Start(context.WithoutCancel(ctx))

	if err != nil && !errors.Is(err, ErrPollInFlight) {
		return err
	}
	return nil
}

// Deactivate — экран ушёл в фон.
func (w *Watcher) Deactivate() {
	w.Stop()
}

// Reset — выход из аккаунта: опрос остановлен, seen-set и последний список забыты.
// Следующая активация снова первая и сигнала не подаёт.
func (w *Watcher) Reset() {
	w.Stop()

	w.mu.Lock()
	w.seen = make(map[string]struct{})
	w.lastOrders = nil
	w.lastSync = time.Time{}
	w.activated = false
	w.epoch++
	w.mu.Unlock()

	metrics.SeenOrders.Set(0)
}

// Nudge — внешняя подсказка «есть изменения»: сигнализирующий опрос вне расписания.
// Пока наблюдатель не активен, подсказки игнорируются.
func (w *Watcher) Nudge(ctx context.Context) error {
	if !w.Running() {
		return nil
	}
	_, err := w.Poll(ctx, true)
	return err
}

// UpdateOrderStatus меняет статус заказа и обновляет список без сигнала.
// Ошибка обновления списка только логируется.
func (w *Watcher) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	order, err := w.api.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, domain.ErrSubscriptionExpired) {
			w.markExpired(ctx)
		}
		return domain.Order{}, fmt.Errorf("update order status id=%s: %w", orderID, err)
	}

	if _, err := w.Poll(ctx, false); err != nil && !errors.Is(err, ErrPollInFlight) {
		w.log.Warnf(ctx, "refresh after status update failed id=%s err=%v", orderID, err)
	}
	return order, nil
}

// Subscribe — канал событий о новых заказах. Медленный подписчик теряет события.
func (w *Watcher) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	w.mu.Lock()
	w.nextSub++
	id := w.nextSub
	w.subs[id] = ch
	w.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			w.mu.Lock()
			delete(w.subs, id)
			w.mu.Unlock()
			close(ch)
		})
	}
}

// OnError — наблюдатель ошибок опроса (заменяет предыдущий).
func (w *Watcher) OnError(fn func(error)) {
	w.mu.Lock()
	w.onError = fn
	w.mu.Unlock()
}

// Seen — видел ли наблюдатель заказ с таким id.
func (w *Watcher) Seen(orderID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.seen[orderID]
	return ok
}

// SeenCount — размер seen-set.
func (w *Watcher) SeenCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.seen)
}

// Snapshot — копия последнего состояния.
func (w *Watcher) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	orders := make([]domain.Order, len(w.lastOrders))
	copy(orders, w.lastOrders)
	return Snapshot{
		Running:   w.stopCh != nil,
		LastSync:  w.lastSync,
		SeenCount: len(w.seen),
		Orders:    orders,
	}
}

func (w *Watcher) loop(ctx context.Context, stop chan struct{}) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	alive := func() bool {
		select {
		case <-stop:
			return false
		default:
			return ctx.Err() == nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.stopCh == stop {
				w.stopCh = nil
			}
			w.mu.Unlock()
			return
		case <-stop:
			return
		case <-ticker.C:
			if !alive() {
				continue
			}
			if _, err := w.poll(ctx, true, alive); err != nil && !errors.Is(err, ErrPollInFlight) {
				w.log.Warnf(ctx, "scheduled poll failed err=%v", err)
			}
		}
	}
}

// poll — тело цикла. alive == nil — цикл не привязан к таймеру.
func (w *Watcher) poll(ctx context.Context, notifyOnNew bool, alive func() bool) ([]domain.Order, error) {
	if !w.inFlight.CompareAndSwap(false, true) {
		metrics.PollCycles.WithLabelValues("in_flight").Inc()
		return nil, ErrPollInFlight
	}
	defer w.inFlight.Store(false)

	w.mu.Lock()
	epoch := w.epoch
	w.mu.Unlock()

	ctx = ctxmeta.WithCycleID(ctx, uuid.NewString())
	ctx, span := telemetry.StartSpan(ctx, "watcher.poll", attribute.Bool("notify", notifyOnNew))
	defer span.End()

	start := time.Now()
	orders, err := w.api.ListOrders(ctx)
	metrics.PollDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list orders")
		if errors.Is(err, domain.ErrSubscriptionExpired) {
			metrics.PollCycles.WithLabelValues("expired").Inc()
			w.markExpired(ctx)
		} else {
			metrics.PollCycles.WithLabelValues("error").Inc()
		}
		w.reportError(err)
		return nil, fmt.Errorf("list orders: %w", err)
	}
	metrics.PollCycles.WithLabelValues("ok").Inc()

	if w.gate != nil && w.gate.Restore() {
		w.log.Infof(ctx, "subscription restored")
	}

	fresh := w.record(epoch, orders)
	span.SetAttributes(attribute.Int("orders", len(orders)), attribute.Int("new", len(fresh)))

	if len(fresh) == 0 || !notifyOnNew {
		return orders, nil
	}
	if alive != nil && !alive() {
		w.log.Infof(ctx, "poll finished after stop, alert suppressed new=%d", len(fresh))
		return orders, nil
	}

	metrics.NewOrdersDetected.Add(float64(len(fresh)))
	w.alert(ctx, fresh)
	w.publish(Event{At: time.Now(), Orders: fresh})
	return orders, nil
}

// record добавляет все id в seen-set и возвращает впервые увиденные заказы в статусе NEW.
// Ответ, пришедший после Reset, отбрасывается.
func (w *Watcher) record(epoch uint64, orders []domain.Order) []domain.Order {
	w.mu.Lock()
	defer w.mu.Unlock()
	if epoch != w.epoch {
		return nil
	}

	var fresh []domain.Order
	for i := range orders {
		if _, ok := w.seen[orders[i].ID]; ok {
			continue
		}
		w.seen[orders[i].ID] = struct{}{}
		if orders[i].Status == domain.StatusNew {
			fresh = append(fresh, orders[i])
		}
	}
	w.lastOrders = orders
	w.lastSync = time.Now()
	metrics.SeenOrders.Set(float64(len(w.seen)))
	return fresh
}

// alert ждёт получателя не дольше AlertTimeout. Получатель, не слушающий ctx,
// дорабатывает в своей горутине, цикл опроса его не ждёт.
func (w *Watcher) alert(ctx context.Context, orders []domain.Order) {
	if w.sink == nil {
		return
	}
	actx, cancel := context.WithTimeout(ctx, w.cfg.AlertTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("alert sink panic: %v", r)
			}
		}()
		done <- w.sink.Alert(actx, orders)
	}()

	select {
	case err := <-done:
		if err != nil {
			w.log.Warnf(ctx, "alert failed new=%d err=%v", len(orders), err)
		}
	case <-actx.Done():
		w.log.Warnf(ctx, "alert timed out new=%d after %s", len(orders), w.cfg.AlertTimeout)
	}
}

func (w *Watcher) publish(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, ch := range w.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (w *Watcher) markExpired(ctx context.Context) {
	if w.gate != nil && w.gate.MarkExpired() {
		w.log.Warnf(ctx, "subscription expired")
	}
}

func (w *Watcher) reportError(err error) {
	w.mu.Lock()
	fn := w.onError
	w.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}
