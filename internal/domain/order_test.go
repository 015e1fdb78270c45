package domain_test

import (
	"testing"
	"time"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to domain.OrderStatus
		want     bool
	}{
		{domain.StatusNew, domain.StatusPreparing, true},
		{domain.StatusPreparing, domain.StatusOutForDelivery, true},
		{domain.StatusOutForDelivery, domain.StatusDelivered, true},
		{domain.StatusNew, domain.StatusCanceled, true},
		{domain.StatusPreparing, domain.StatusCanceled, true},
		{domain.StatusOutForDelivery, domain.StatusCanceled, true},

		{domain.StatusNew, domain.StatusDelivered, false},
		{domain.StatusPreparing, domain.StatusNew, false},
		{domain.StatusDelivered, domain.StatusCanceled, false},
		{domain.StatusCanceled, domain.StatusNew, false},
		{domain.StatusNew, "UNKNOWN", false},
		{"UNKNOWN", domain.StatusPreparing, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			t.Parallel()
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Fatalf("CanTransitionTo: want %v, got %v", tt.want, got)
			}
		})
	}
}

func TestOrderStatus_NextStatuses(t *testing.T) {
	if got := domain.StatusNew.NextStatuses(); len(got) != 2 || got[0] != domain.StatusPreparing || got[1] != domain.StatusCanceled {
		t.Fatalf("NEW next statuses wrong: %v", got)
	}
	if got := domain.StatusDelivered.NextStatuses(); got != nil {
		t.Fatalf("terminal status must have no actions, got %v", got)
	}
}

func TestSortForDisplay_NewFirstThenNewest(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	orders := []domain.Order{
		{ID: "a", Status: domain.StatusDelivered, CreatedAt: base.Add(3 * time.Hour)},
		{ID: "b", Status: domain.StatusNew, CreatedAt: base},
		{ID: "c", Status: domain.StatusPreparing, CreatedAt: base.Add(time.Hour)},
		{ID: "d", Status: domain.StatusNew, CreatedAt: base.Add(2 * time.Hour)},
	}

	got := domain.SortForDisplay(orders)

	want := []string{"d", "b", "a", "c"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: want %s, got %s (all=%v)", i, id, got[i].ID, got)
		}
	}
	if orders[0].ID != "a" {
		t.Fatalf("input slice must not be reordered")
	}
}

func TestFilterAndCount(t *testing.T) {
	orders := []domain.Order{
		{ID: "1", Status: domain.StatusNew},
		{ID: "2", Status: domain.StatusCanceled},
		{ID: "3", Status: domain.StatusNew},
	}

	if got := domain.FilterByStatus(orders, ""); len(got) != 3 {
		t.Fatalf("empty filter must return all, got %d", len(got))
	}
	if got := domain.FilterByStatus(orders, domain.StatusNew); len(got) != 2 {
		t.Fatalf("NEW filter: want 2, got %d", len(got))
	}
	if n := domain.CountByStatus(orders, domain.StatusCanceled); n != 1 {
		t.Fatalf("CountByStatus: want 1, got %d", n)
	}
}

func TestOrder_ShortID(t *testing.T) {
	o := domain.Order{ID: "ab12cd34ef"}
	if got := o.ShortID(); got != "AB12CD" {
		t.Fatalf("ShortID: want AB12CD, got %s", got)
	}
	short := domain.Order{ID: "x1"}
	if got := short.ShortID(); got != "X1" {
		t.Fatalf("ShortID short: want X1, got %s", got)
	}
}

func TestRestaurant_MenuURL(t *testing.T) {
	r := &domain.Restaurant{ID: "r-1"}
	if got := r.MenuURL("https://menu.example/"); got != "https://menu.example/m/r-1" {
		t.Fatalf("MenuURL wrong: %s", got)
	}
	var none *domain.Restaurant
	if got := none.MenuURL("https://menu.example"); got != "" {
		t.Fatalf("nil restaurant must give empty url, got %q", got)
	}
}
