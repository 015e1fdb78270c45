package ports

import (
	"context"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
)

// OrderAPI — удалённый API заказов (источник истины).
type OrderAPI interface {
	// ListOrders — полный список заказов мерчанта, без пагинации.
	ListOrders(ctx context.Context) ([]domain.Order, error)

	// UpdateOrderStatus — запрос перехода статуса; недостижимые переходы отклоняются.
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error)
}
