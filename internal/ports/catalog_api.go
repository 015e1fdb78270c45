package ports

import (
	"context"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
)

// CatalogAPI — удалённый API каталога товаров.
type CatalogAPI interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(ctx context.Context, in *domain.ProductInput) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch *domain.ProductPatch) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}
