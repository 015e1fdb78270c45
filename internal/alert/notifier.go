// Пакет alert — локальные оповещения о новых заказах: короткая вибрация и звук.
package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/ports"
	"github.com/Gunvolt24/merchant_dash/pkg/metrics"
)

// DefaultPulse — длительность вибрации.
const DefaultPulse = 200 * time.Millisecond

// SettingsLoader — источник настроек оповещений.
type SettingsLoader interface {
	Load(ctx context.Context) (domain.Settings, error)
}

// Player — проигрывает звук номер choice (1..domain.SoundChoices).
type Player interface {
	Play(ctx context.Context, choice int) error
}

// Vibrator — короткий импульс вибрации.
type Vibrator interface {
	Vibrate(ctx context.Context, d time.Duration) error
}

// Notifier — AlertSink, который читает настройки на каждое оповещение.
// Ошибки и паники звука и вибрации не выходят наружу.
type Notifier struct {
	settings SettingsLoader
	player   Player
	vibrator Vibrator
	pulse    time.Duration
	log      ports.Logger
}

var _ ports.AlertSink = (*Notifier)(nil)

// NewNotifier — DI-конструктор. player и vibrator могут быть nil.
func NewNotifier(settings SettingsLoader, player Player, vibrator Vibrator, pulse time.Duration, log ports.Logger) *Notifier {
	if pulse <= 0 {
		pulse = DefaultPulse
	}
	return &Notifier{settings: settings, player: player, vibrator: vibrator, pulse: pulse, log: log}
}

// Alert — всегда nil: оповещение best effort.
func (n *Notifier) Alert(ctx context.Context, orders []domain.Order) error {
	s, err := n.settings.Load(ctx)
	if err != nil {
		n.log.Warnf(ctx, "load alert settings failed, using defaults err=%v", err)
		s = domain.DefaultSettings()
	}

	if s.VibrationEnabled && n.vibrator != nil {
		n.run(ctx, "vibration", func() error { return n.vibrator.Vibrate(ctx, n.pulse) })
	}
	if s.SoundEnabled && n.player != nil {
		n.run(ctx, "sound", func() error { return n.player.Play(ctx, s.SoundChoice) })
	}

	n.log.Infof(ctx, "new orders alert n=%d sound=%t vibration=%t", len(orders), s.SoundEnabled, s.VibrationEnabled)
	return nil
}

func (n *Notifier) run(ctx context.Context, sink string, fn func() error) {
	err := safeCall(fn)
	if err != nil {
		metrics.AlertsFailed.WithLabelValues(sink).Inc()
		n.log.Warnf(ctx, "%s alert failed err=%v", sink, err)
		return
	}
	metrics.AlertsFired.WithLabelValues(sink).Inc()
}

// safeCall — паника превращается в ошибку.
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
