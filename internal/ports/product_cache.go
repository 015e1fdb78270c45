package ports

import (
	"context"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
)

// ProductCache — кэш товаров каталога.
// Требования к реализации: потокобезопасность; доступ по ключу не хуже O(1); возврат копий сущности.
type ProductCache interface {
	Get(ctx context.Context, id string) (*domain.Product, bool)
	Set(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string)
	WarmUp(ctx context.Context, products []domain.Product) error
}
