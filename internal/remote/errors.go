package remote

import (
	"fmt"
	"net/http"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
)

// APIError — не-2xx ответ удалённого API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote api: status %d: %s", e.StatusCode, e.Message)
}

// Unwrap — доменный sentinel по коду ответа (для errors.Is).
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusPaymentRequired:
		return domain.ErrSubscriptionExpired
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	}
	return nil
}
