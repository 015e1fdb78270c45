package rest

import (
	"io"
	"net/http"
	"time"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/pkg/httpx"
	"github.com/gin-gonic/gin"
)

type statusRequest struct {
	Status domain.OrderStatus `json:"status" validate:"required"`
}

// GET /orders?status=&notify=
func (h *Handler) listOrders(c *gin.Context) {
	ctx, cancel := h.reqCtx(c)
	defer cancel()

	notify, err := httpx.QueryBool(c, "notify", false)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	orders, err := h.svc.Orders.List(ctx, domain.OrderStatus(c.Query("status")), notify)
	if err != nil {
		h.writeError(c, "list orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) ordersSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Orders.Summary())
}

// PATCH /orders/:id/status {"status": "PREPARING"}
func (h *Handler) setOrderStatus(c *gin.Context) {
	req, ok := bindStrict[statusRequest](c)
	if !ok {
		return
	}
	ctx, cancel := h.reqCtx(c)
	defer cancel()

	order, err := h.svc.Orders.SetStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		h.writeError(c, "set order status", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// POST /watcher/activate — экран заказов на переднем плане.
// Ошибка первого опроса не мешает запуску таймера.
func (h *Handler) activateWatcher(c *gin.Context) {
	if err := h.svc.Watcher.Activate(c.Request.Context()); err != nil {
		h.writeError(c, "activate watcher", err)
		return
	}
	c.JSON(http.StatusOK, h.svc.Orders.Summary())
}

func (h *Handler) deactivateWatcher(c *gin.Context) {
	h.svc.Watcher.Deactivate()
	c.Status(http.StatusNoContent)
}

// GET /events — SSE: "orders" на каждый сигнал о новых заказах, "ping" как heartbeat.
func (h *Handler) events(c *gin.Context) {
	ch, unsubscribe := h.svc.Watcher.Subscribe()
	defer unsubscribe()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("orders", ev)
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"expired": h.svc.Billing.Expired()})
			return true
		}
	})
}
