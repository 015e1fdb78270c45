package domain

import "errors"

// Базовые (sentinel) ошибки домена. Транспортные слои оборачивают их через %w,
// верхние слои сравнивают через errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrSubscriptionExpired = errors.New("subscription expired")
	ErrInvalidTransition   = errors.New("invalid order status transition")
	ErrProductInUse        = errors.New("product is referenced by orders")
)
