package alert

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/ports"
	"github.com/Gunvolt24/merchant_dash/pkg/metrics"
)

// Named — получатель оповещений с именем для метрик.
type Named struct {
	Name string
	Sink ports.AlertSink
}

// Fanout — рассылает одно оповещение всем получателям; отказ одного не мешает остальным.
type Fanout struct {
	sinks []Named
}

var _ ports.AlertSink = (*Fanout)(nil)

func NewFanout(sinks ...Named) *Fanout {
	return &Fanout{sinks: sinks}
}

// Alert — ошибки всех получателей собираются в одну.
func (f *Fanout) Alert(ctx context.Context, orders []domain.Order) error {
	var errs []error
	for _, s := range f.sinks {
		if err := safeCall(func() error { return s.Sink.Alert(ctx, orders) }); err != nil {
			metrics.AlertsFailed.WithLabelValues(s.Name).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, err))
			continue
		}
		metrics.AlertsFired.WithLabelValues(s.Name).Inc()
	}
	return errors.Join(errs...)
}
