package rest

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/Gunvolt24/merchant_dash/internal/ports"
	"github.com/Gunvolt24/merchant_dash/pkg/validate"
	"github.com/gin-gonic/gin"
)

// maxBody — предел тела JSON-запроса.
const maxBody = 1 << 20

// Services — всё, что нужно хендлерам.
type Services struct {
	Auth       AuthService
	Orders     OrderBoard
	Watcher    WatcherControl
	Products   ProductService
	Settings   SettingsStore
	Billing    BillingService
	Restaurant RestaurantService
	Alerts     AlertPreview
}

// Handler — HTTP-слой локального API для оболочки UI.
type Handler struct {
	svc       Services
	log       ports.Logger
	timeout   time.Duration
	heartbeat time.Duration
}

// NewHandler — timeout ограничивает обработку одного запроса (кроме SSE); 0 — без ограничения.
func NewHandler(svc Services, log ports.Logger, timeout time.Duration) *Handler {
	return &Handler{svc: svc, log: log, timeout: timeout, heartbeat: 15 * time.Second}
}

// reqCtx — контекст запроса с таймаутом хендлера.
func (h *Handler) reqCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// bindStrict — тело запроса в T со строгим разбором и проверкой тегов.
func bindStrict[T any](c *gin.Context) (*T, bool) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read body"})
		return nil, false
	}
	v, err := validate.DecodeStrict[T](raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return v, true
}
