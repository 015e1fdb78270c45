package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
)

// ListOrders — GET /orders. Сервер может вернуть массив или один объект.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &raw); err != nil {
		return nil, err
	}
	return decodeOrders(raw)
}

// UpdateOrderStatus — PATCH /orders/:id/status.
// NEW и неизвестные статусы отклоняются локально, остальное проверяет сервер.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error) {
	if orderID == "" {
		return domain.Order{}, fmt.Errorf("empty order id: %w", domain.ErrInvalidInput)
	}
	if !status.Valid() || status == domain.StatusNew {
		return domain.Order{}, fmt.Errorf("status %q: %w", status, domain.ErrInvalidTransition)
	}

	var out domain.Order
	path := "/orders/" + url.PathEscape(orderID) + "/status"
	if err := c.do(ctx, http.MethodPatch, path, map[string]domain.OrderStatus{"status": status}, &out); err != nil {
		return domain.Order{}, err
	}
	return out, nil
}

func decodeOrders(raw json.RawMessage) ([]domain.Order, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []domain.Order{}, nil
	}
	if trimmed[0] == '[' {
		var list []domain.Order
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode orders: %w", err)
		}
		return list, nil
	}
	var one domain.Order
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return []domain.Order{one}, nil
}
