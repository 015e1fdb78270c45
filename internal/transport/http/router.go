// Пакет rest — локальный HTTP API, через который оболочка UI работает с агентом.
package rest

import (
	"path/filepath"

	"github.com/Gunvolt24/merchant_dash/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// NewRouter — staticDir: собранная оболочка UI (пусто — не отдаём);
// otelServiceName: пусто — без трейсинга запросов.
func NewRouter(h *Handler, staticDir, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log, "/ping", "/metrics", "/orders/summary"))

	r.GET("/ping", func(c *gin.Context) { c.String(200, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/auth/login", h.login)
	r.POST("/auth/logout", h.logout)
	r.GET("/me", h.me)

	r.GET("/orders", h.listOrders)
	r.GET("/orders/summary", h.ordersSummary)
	r.PATCH("/orders/:id/status", h.setOrderStatus)
	r.GET("/events", h.events)
	r.POST("/watcher/activate", h.activateWatcher)
	r.POST("/watcher/deactivate", h.deactivateWatcher)

	r.GET("/products", h.listProducts)
	r.POST("/products", h.createProduct)
	r.GET("/products/:id", h.getProduct)
	r.PATCH("/products/:id", h.updateProduct)
	r.DELETE("/products/:id", h.deleteProduct)
	r.POST("/products/:id/toggle", h.toggleProduct)
	r.POST("/uploads/image", h.uploadImage)

	r.GET("/settings", h.getSettings)
	r.PUT("/settings", h.putSettings)
	r.POST("/settings/test-alert", h.testAlert)

	r.GET("/subscription", h.subscription)
	r.GET("/billing/whatsapp", h.billingWhatsApp)
	r.POST("/billing/activate", h.activateSubscription)

	if staticDir != "" {
		r.Static("/static", staticDir)
		r.StaticFile("/", filepath.Join(staticDir, "index.html"))
	}

	return r
}
