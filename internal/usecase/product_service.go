package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/ports"
	"github.com/Gunvolt24/merchant_dash/pkg/validate"
)

// ErrUploadDisabled — загрузка изображений не настроена.
var ErrUploadDisabled = errors.New("image upload is not configured")

// ProductService — каталог товаров мерчанта.
type ProductService struct {
	catalog  ports.CatalogAPI
	cache    ports.ProductCache
	uploader ports.ImageUploader
	log      ports.Logger
}

// NewProductService — DI-конструктор. uploader может быть nil.
func NewProductService(catalog ports.CatalogAPI, cache ports.ProductCache, uploader ports.ImageUploader, log ports.Logger) *ProductService {
	return &ProductService{catalog: catalog, cache: cache, uploader: uploader, log: log}
}

// List — каталог с сервера; заодно прогревает кэш.
func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if err := s.cache.WarmUp(ctx, products); err != nil {
		s.log.Warnf(ctx, "cache.WarmUp failed err=%v", err)
	}
	return products, nil
}

// Get — сначала кэш, при промахе сервер с записью в кэш.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	if p, ok := s.cache.Get(ctx, id); ok {
		return p, nil
	}

	p, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.cache.Delete(ctx, id)
		}
		return nil, fmt.Errorf("get product id=%s: %w", id, err)
	}
	s.remember(ctx, &p)
	return &p, nil
}

// Create — новый товар. Имя обрезается по краям до проверки.
func (s *ProductService) Create(ctx context.Context, in *domain.ProductInput) (*domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	p, err := s.catalog.CreateProduct(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.remember(ctx, &p)
	s.log.Infof(ctx, "product created id=%s", p.ID)
	return &p, nil
}

// Update — частичное обновление; пустой патч отклоняется без запроса.
func (s *ProductService) Update(ctx context.Context, id string, patch *domain.ProductPatch) (*domain.Product, error) {
	if patch == nil || patch.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}
	if err := validate.Struct(patch); err != nil {
		return nil, err
	}

	p, err := s.catalog.UpdateProduct(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.cache.Delete(ctx, id)
		}
		return nil, fmt.Errorf("update product id=%s: %w", id, err)
	}
	s.remember(ctx, &p)
	return &p, nil
}

// ToggleActive — включает или выключает товар в меню.
func (s *ProductService) ToggleActive(ctx context.Context, id string) (*domain.Product, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	active := !cur.Active
	return s.Update(ctx, id, &domain.ProductPatch{Active: &active})
}

// Delete — удаление товара. Товар из существующих заказов удалить нельзя (ErrProductInUse).
func (s *ProductService) Delete(ctx context.Context, id string) error {
	err := s.catalog.DeleteProduct(ctx, id)
	switch {
	case err == nil:
		s.cache.Delete(ctx, id)
		s.log.Infof(ctx, "product deleted id=%s", id)
		return nil
	case errors.Is(err, domain.ErrConflict):
		return fmt.Errorf("delete product id=%s: %w: %w", id, domain.ErrProductInUse, err)
	case errors.Is(err, domain.ErrNotFound):
		s.cache.Delete(ctx, id)
		return fmt.Errorf("delete product id=%s: %w", id, err)
	default:
		return fmt.Errorf("delete product id=%s: %w", id, err)
	}
}

// UploadImage — загружает картинку и возвращает публичный URL для imageUrl.
func (s *ProductService) UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if s.uploader == nil {
		return "", ErrUploadDisabled
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: content type %q is not an image", domain.ErrInvalidInput, contentType)
	}
	url, err := s.uploader.Upload(ctx, filename, contentType, body)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return url, nil
}

// ImportResult — итог импорта из файла.
type ImportResult struct {
	validate.Result
	Created int
}

// Import — создаёт товары из JSON/JSONL. Невалидные строки пропускаются,
// первая ошибка сервера прерывает импорт.
func (s *ProductService) Import(ctx context.Context, path string, format validate.InputFormat) (ImportResult, error) {
	var out ImportResult
	res, err := validate.ProductsFromFile(path, format, func(_ int, in *domain.ProductInput) error {
		if _, err := s.Create(ctx, in); err != nil {
			return err
		}
		out.Created++
		return nil
	})
	out.Result = res
	if err != nil {
		return out, fmt.Errorf("import products: %w", err)
	}
	s.log.Infof(ctx, "products imported %s created=%d", res, out.Created)
	return out, nil
}

func (s *ProductService) remember(ctx context.Context, p *domain.Product) {
	if err := s.cache.Set(ctx, p); err != nil {
		s.log.Warnf(ctx, "cache.Set failed id=%s err=%v", p.ID, err)
	}
}
