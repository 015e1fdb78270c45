package domain

import (
	"sort"
	"strings"
	"time"
)

// OrderStatus — статус заказа на стороне сервера.
type OrderStatus string

const (
	StatusNew            OrderStatus = "NEW"
	StatusPreparing      OrderStatus = "PREPARING"
	StatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusCanceled       OrderStatus = "CANCELED"
)

// forward — единственный следующий шаг «вперёд» для каждого нетерминального статуса.
var forward = map[OrderStatus]OrderStatus{
	StatusNew:            StatusPreparing,
	StatusPreparing:      StatusOutForDelivery,
	StatusOutForDelivery: StatusDelivered,
}

// Valid — статус входит в известный набор.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusNew, StatusPreparing, StatusOutForDelivery, StatusDelivered, StatusCanceled:
		return true
	}
	return false
}

// Terminal — DELIVERED и CANCELED не имеют переходов.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCanceled
}

// CanTransitionTo — допустим ли переход s -> next.
// Движение только вперёд на один шаг; CANCELED достижим из любого нетерминального статуса.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() || s.Terminal() {
		return false
	}
	if next == StatusCanceled {
		return true
	}
	return forward[s] == next
}

// NextStatuses — доступные действия для заказа (кнопки в интерфейсе).
func (s OrderStatus) NextStatuses() []OrderStatus {
	if !s.Valid() || s.Terminal() {
		return nil
	}
	return []OrderStatus{forward[s], StatusCanceled}
}

// Item — позиция заказа; NameSnapshot фиксируется в момент заказа
// и не следит за переименованием товара.
type Item struct {
	ID             string `json:"id"`
	ProductID      string `json:"productId"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	NameSnapshot   string `json:"nameSnapshot"`
}

// Order — заказ в представлении удалённого API.
// TotalCents авторитетен и локально не пересчитывается.
type Order struct {
	ID              string      `json:"id"`
	Status          OrderStatus `json:"status"`
	CustomerName    *string     `json:"customerName"`
	CustomerPhone   *string     `json:"customerPhone"`
	DeliveryAddress *string     `json:"deliveryAddress"`
	TotalCents      int64       `json:"totalCents"`
	CreatedAt       time.Time   `json:"createdAt"`
	Items           []Item      `json:"items"`
}

// ShortID — короткий номер для отображения: первые 6 символов в верхнем регистре.
func (o *Order) ShortID() string {
	id := o.ID
	if len(id) > 6 {
		id = id[:6]
	}
	return strings.ToUpper(id)
}

// SortForDisplay — копия списка: сначала NEW, затем по createdAt по убыванию.
func SortForDisplay(orders []Order) []Order {
	out := make([]Order, len(orders))
	copy(out, orders)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		aNew, bNew := a.Status == StatusNew, b.Status == StatusNew
		if aNew != bNew {
			return aNew
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

// FilterByStatus — пустой статус означает «все».
func FilterByStatus(orders []Order, status OrderStatus) []Order {
	if status == "" {
		return orders
	}
	out := make([]Order, 0, len(orders))
	for i := range orders {
		if orders[i].Status == status {
			out = append(out, orders[i])
		}
	}
	return out
}

// CountByStatus — сколько заказов в заданном статусе.
func CountByStatus(orders []Order, status OrderStatus) int {
	n := 0
	for i := range orders {
		if orders[i].Status == status {
			n++
		}
	}
	return n
}
