package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
)

// ListProducts — GET /products.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Product{}
	}
	return out, nil
}

// GetProduct — GET /products/:id.
func (c *Client) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, http.MethodGet, productPath(id), nil, &out)
	return out, err
}

// CreateProduct — POST /products.
func (c *Client) CreateProduct(ctx context.Context, in *domain.ProductInput) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, http.MethodPost, "/products", in, &out)
	return out, err
}

// UpdateProduct — PATCH /products/:id (только заданные поля).
func (c *Client) UpdateProduct(ctx context.Context, id string, patch *domain.ProductPatch) (domain.Product, error) {
	var out domain.Product
	err := c.do(ctx, http.MethodPatch, productPath(id), patch, &out)
	return out, err
}

// DeleteProduct — DELETE /products/:id. 409 — товар используется в заказах.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, productPath(id), nil, nil)
}

func productPath(id string) string {
	return "/products/" + url.PathEscape(id)
}
