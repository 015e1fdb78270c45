//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakeOrder — мини-генератор заказа в статусе NEW с одной позицией.
func MakeOrder(opts ...func(*domain.Order)) domain.Order {
	now := time.Now().UTC().Truncate(time.Second)
	name := "Cliente " + UniqSuffix()

	o := domain.Order{
		ID:           "ord-" + UniqSuffix(),
		Status:       domain.StatusNew,
		CustomerName: &name,
		TotalCents:   3990,
		CreatedAt:    now,
		Items: []domain.Item{{
			ID:             "it-" + UniqSuffix(),
			ProductID:      "prod-" + UniqSuffix(),
			Quantity:       1,
			UnitPriceCents: 3990,
			NameSnapshot:   "Pizza",
		}},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithStatus — опция для MakeOrder.
func WithStatus(s domain.OrderStatus) func(*domain.Order) {
	return func(o *domain.Order) { o.Status = s }
}
