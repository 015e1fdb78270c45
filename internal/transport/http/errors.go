package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/remote"
	"github.com/Gunvolt24/merchant_dash/internal/usecase"
	"github.com/gin-gonic/gin"
)

// Коды ошибок в теле ответа: по ним UI выбирает экран.
const (
	codeSubscriptionExpired = "subscription_expired"
	codeUnauthorized        = "unauthorized"
)

// writeError — доменная ошибка в HTTP-статус.
func (h *Handler) writeError(c *gin.Context, op string, err error) {
	status, body := mapError(err)
	if status >= http.StatusInternalServerError {
		h.log.Errorf(c.Request.Context(), "%s failed err=%v", op, err)
	} else {
		h.log.Warnf(c.Request.Context(), "%s rejected status=%d err=%v", op, status, err)
	}
	c.JSON(status, body)
}

func mapError(err error) (int, gin.H) {
	var apiErr *remote.APIError
	switch {
	case errors.Is(err, domain.ErrSubscriptionExpired):
		return http.StatusPaymentRequired, gin.H{"error": "subscription expired", "code": codeSubscriptionExpired}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": codeUnauthorized}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, gin.H{"error": "not found"}
	case errors.Is(err, domain.ErrProductInUse):
		return http.StatusConflict, gin.H{"error": "product is used by existing orders, deactivate it instead"}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, gin.H{"error": err.Error()}
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusBadRequest, gin.H{"error": err.Error()}
	case errors.Is(err, remote.ErrRateLimited):
		return http.StatusTooManyRequests, gin.H{"error": "too many requests"}
	case errors.Is(err, usecase.ErrUploadDisabled):
		return http.StatusNotImplemented, gin.H{"error": "image upload is not configured"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, gin.H{"error": "upstream timeout"}
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, gin.H{"error": "upstream error"}
	default:
		return http.StatusBadGateway, gin.H{"error": "upstream unavailable"}
	}
}
