// Пакет subscription — глобальный флаг «подписка истекла».
// Сигнал подаётся один раз на переход состояния, а не на каждый цикл опроса.
package subscription

import (
	"sync"

	"github.com/Gunvolt24/merchant_dash/pkg/metrics"
)

// Listener — обработчик смены состояния подписки.
type Listener func()

// Gate — потокобезопасный флаг подписки с подписчиками на переходы.
type Gate struct {
	mu        sync.Mutex
	expired   bool
	nextID    int
	onExpired map[int]Listener
	onRestore map[int]Listener
}

// NewGate — новый шлюз в состоянии «подписка активна».
func NewGate() *Gate {
	return &Gate{
		onExpired: make(map[int]Listener),
		onRestore: make(map[int]Listener),
	}
}

// Expired — текущее состояние.
func (g *Gate) Expired() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.expired
}

// MarkExpired переводит шлюз в «истекла». Возвращает true только при реальном переходе.
func (g *Gate) MarkExpired() bool {
	return g.set(true)
}

// Restore переводит шлюз в «активна». Возвращает true только при реальном переходе.
func (g *Gate) Restore() bool {
	return g.set(false)
}

// OnExpired подписывает fn на переход в «истекла».
// Если подписка уже истекла, fn вызывается сразу. Возвращает функцию отписки.
func (g *Gate) OnExpired(fn Listener) func() {
	g.mu.Lock()
	id := g.add(g.onExpired, fn)
	already := g.expired
	g.mu.Unlock()

	if already {
		fn()
	}
	return func() { g.remove(g.onExpired, id) }
}

// OnRestore подписывает fn на переход в «активна».
func (g *Gate) OnRestore(fn Listener) func() {
	g.mu.Lock()
	id := g.add(g.onRestore, fn)
	g.mu.Unlock()
	return func() { g.remove(g.onRestore, id) }
}

func (g *Gate) set(expired bool) bool {
	g.mu.Lock()
	if g.expired == expired {
		g.mu.Unlock()
		return false
	}
	g.expired = expired

	src := g.onRestore
	if expired {
		src = g.onExpired
	}
	listeners := make([]Listener, 0, len(src))
	for _, fn := range src {
		listeners = append(listeners, fn)
	}
	g.mu.Unlock()

	if expired {
		metrics.SubscriptionExpired.Set(1)
	} else {
		metrics.SubscriptionExpired.Set(0)
	}

	// вызываем вне блокировки: слушатель может читать состояние шлюза
	for _, fn := range listeners {
		fn()
	}
	return true
}

func (g *Gate) add(m map[int]Listener, fn Listener) int {
	g.nextID++
	m[g.nextID] = fn
	return g.nextID
}

func (g *Gate) remove(m map[int]Listener, id int) {
	g.mu.Lock()
	delete(m, id)
	g.mu.Unlock()
}
