package ports

import (
	"context"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
)

// AlertSink — получатель сигнала «пришёл новый заказ».
// Вызывается не чаще одного раза за цикл опроса; ошибки не пробрасываются наружу.
type AlertSink interface {
	Alert(ctx context.Context, orders []domain.Order) error
}
