// Пакет validate — проверка входных данных (товары, настройки) и строгий разбор JSON.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		// имена полей в ошибках — как в JSON
		instance.RegisterTagNameFunc(jsonName)
	})
	return instance
}

// Struct — проверка по тегам validate. Любая проблема оборачивает domain.ErrInvalidInput.
func Struct(v any) error {
	err := get().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, describe(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(parts, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " обязателен"
	case "min":
		return fmt.Sprintf("%s должен быть не меньше %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s должен быть не больше %s", fe.Field(), fe.Param())
	case "url":
		return fe.Field() + " должен быть URL"
	case "email":
		return fe.Field() + " должен быть e-mail"
	}
	return fmt.Sprintf("%s: нарушено правило %s", fe.Field(), fe.Tag())
}
