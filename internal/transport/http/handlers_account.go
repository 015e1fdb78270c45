package rest

import (
	"net/http"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type activateRequest struct {
	Code string `json:"code"`
}

func (h *Handler) login(c *gin.Context) {
	req, ok := bindStrict[loginRequest](c)
	if !ok {
		return
	}
	ctx, cancel := h.reqCtx(c)
	defer cancel()

	user, err := h.svc.Auth.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		h.writeError(c, "login", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// POST /auth/logout — наблюдатель останавливается вместе с сессией
// и забывает виденные заказы: после входа первый опрос снова тихий.
func (h *Handler) logout(c *gin.Context) {
	h.svc.Watcher.Reset()
	if err := h.svc.Auth.SignOut(c.Request.Context()); err != nil {
		h.log.Errorf(c.Request.Context(), "logout failed err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) me(c *gin.Context) {
	ctx, cancel := h.reqCtx(c)
	defer cancel()

	r, err := h.svc.Restaurant.Me(ctx)
	if err != nil {
		h.writeError(c, "me", err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) getSettings(c *gin.Context) {
	s, err := h.svc.Settings.Load(c.Request.Context())
	if err != nil {
		h.log.Errorf(c.Request.Context(), "load settings failed err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) putSettings(c *gin.Context) {
	in, ok := bindStrict[domain.Settings](c)
	if !ok {
		return
	}
	if err := h.svc.Settings.Save(c.Request.Context(), *in); err != nil {
		h.log.Errorf(c.Request.Context(), "save settings failed err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, in)
}

// POST /settings/test-alert — звук и вибрация с сохранёнными настройками, мимо наблюдателя.
func (h *Handler) testAlert(c *gin.Context) {
	if h.svc.Alerts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "alerts are not configured"})
		return
	}
	ctx, cancel := h.reqCtx(c)
	defer cancel()

	if err := h.svc.Alerts.Alert(ctx, nil); err != nil {
		h.log.Warnf(ctx, "test alert failed err=%v", err)
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) subscription(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"expired": h.svc.Billing.Expired()})
}

// GET /billing/whatsapp?plan=monthly|yearly
func (h *Handler) billingWhatsApp(c *gin.Context) {
	ctx, cancel := h.reqCtx(c)
	defer cancel()

	link, err := h.svc.Billing.WhatsAppLink(ctx, domain.BillingPlan(c.Query("plan")))
	if err != nil {
		h.writeError(c, "billing whatsapp", err)
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h *Handler) activateSubscription(c *gin.Context) {
	req, ok := bindStrict[activateRequest](c)
	if !ok {
		return
	}
	ctx, cancel := h.reqCtx(c)
	defer cancel()

	act, err := h.svc.Billing.Activate(ctx, req.Code)
	if err != nil {
		h.writeError(c, "activate subscription", err)
		return
	}
	c.JSON(http.StatusOK, act)
}
