package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/ports/mocks"
	"github.com/Gunvolt24/merchant_dash/internal/usecase"
	"github.com/Gunvolt24/merchant_dash/pkg/validate"
)

const productID = "prod-1"

func newProductSvc(ctrl *gomock.Controller) (*usecase.ProductService, *mocks.MockCatalogAPI, *mocks.MockProductCache, *mocks.MockImageUploader) {
	catalog := mocks.NewMockCatalogAPI(ctrl)
	cache := mocks.NewMockProductCache(ctrl)
	uploader := mocks.NewMockImageUploader(ctrl)
	return usecase.NewProductService(catalog, cache, uploader, noopLogger{}), catalog, cache, uploader
}

func TestGetProduct_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, catalog, cache, _ := newProductSvc(ctrl)

	cache.EXPECT().Get(gomock.Any(), productID).Return(&domain.Product{ID: productID}, true)
	catalog.EXPECT().GetProduct(gomock.Any(), gomock.Any()).Times(0)

	got, err := svc.Get(context.Background(), productID)
	if err != nil || got.ID != productID {
		t.Fatalf("expected hit, got err=%v, product=%+v", err, got)
	}
}

func TestGetProduct_CacheMiss_FetchAndCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, catalog, cache, _ := newProductSvc(ctrl)

	p := domain.Product{ID: productID, Name: "Margherita"}
	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), productID).Return(nil, false),
		catalog.EXPECT().GetProduct(gomock.Any(), productID).Return(p, nil),
		cache.EXPECT().Set(gomock.Any(), gomock.AssignableToTypeOf(&domain.Product{})).Return(nil),
	)

	got, err := svc.Get(context.Background(), productID)
	if err != nil || got.Name != "Margherita" {
		t.Fatalf("expected fetched product, got err=%v, product=%+v", err, got)
	}
}

func TestListProducts_WarmsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, catalog, cache, _ := newProductSvc(ctrl)

	list := []domain.Product{{ID: "a"}, {ID: "b"}}
	catalog.EXPECT().ListProducts(gomock.Any()).Return(list, nil)
	cache.EXPECT().WarmUp(gomock.Any(), list).Return(nil)

	got, err := svc.List(context.Background())
	if err != nil || len(got) != 2 {
		t.Fatalf("list: %v %v", got, err)
	}
}

func TestCreateProduct_InvalidInput_NoRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, catalog, _, _ := newProductSvc(ctrl)

	catalog.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Create(context.Background(), &domain.ProductInput{Name: "   ", PriceCents: 100})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestCreateProduct_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, catalog, cache, _ := newProductSvc(ctrl)

	catalog.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in *domain.ProductInput) (domain.Product, error) {
			if in.Name != "Calabresa" {
				t.Fatalf("name must be trimmed, got %q", in.Name)
			}
			return domain.Product{ID: productID, Name: in.Name, PriceCents: in.PriceCents, Active: true}, nil
		})
	cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.Create(context.Background(), &domain.ProductInput{Name: " Calabresa ", PriceCents: 4590})
	if err != nil || got.ID != productID {
		t.Fatalf("create: %+v %v", got, err)
	}
}

func TestUpdateProduct_EmptyPatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, catalog, _, _ := newProductSvc(ctrl)
	catalog.EXPECT().UpdateProduct(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	if _, err := svc.Update(context.Background(), productID, &domain.ProductPatch{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestToggleActive(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, catalog, cache, _ := newProductSvc(ctrl)

	cache.EXPECT().Get(gomock.Any(), productID).Return(&domain.Product{ID: productID, Active: true}, true)
	catalog.EXPECT().UpdateProduct(gomock.Any(), productID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, patch *domain.ProductPatch) (domain.Product, error) {
			if patch.Active == nil || *patch.Active {
				t.Fatalf("toggle must send active=false, got %+v", patch)
			}
			return domain.Product{ID: productID, Active: false}, nil
		})
	cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.ToggleActive(context.Background(), productID)
	if err != nil || got.Active {
		t.Fatalf("toggle: %+v %v", got, err)
	}
}

func TestDeleteProduct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		remoteErr error
		evict     bool
		wantIs    []error
	}{
		{name: "ok", evict: true},
		{name: "in use", remoteErr: domain.ErrConflict, wantIs: []error{domain.ErrProductInUse, domain.ErrConflict}},
		{name: "not found", remoteErr: domain.ErrNotFound, evict: true, wantIs: []error{domain.ErrNotFound}},
		{name: "other", remoteErr: errors.New("boom")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			svc, catalog, cache, _ := newProductSvc(ctrl)

			catalog.EXPECT().DeleteProduct(gomock.Any(), productID).Return(tt.remoteErr)
			if tt.evict {
				cache.EXPECT().Delete(gomock.Any(), productID)
			}

			err := svc.Delete(context.Background(), productID)
			if tt.remoteErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error")
			}
			for _, want := range tt.wantIs {
				if !errors.Is(err, want) {
					t.Fatalf("want %v in chain, got %v", want, err)
				}
			}
		})
	}
}

func TestUploadImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, _, _, uploader := newProductSvc(ctrl)

	if _, err := svc.UploadImage(context.Background(), "menu.pdf", "application/pdf", strings.NewReader("x")); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("non-image must be rejected, got %v", err)
	}

	uploader.EXPECT().Upload(gomock.Any(), "pizza.jpg", "image/jpeg", gomock.Any()).Return("https://cdn/pizza.jpg", nil)
	url, err := svc.UploadImage(context.Background(), "pizza.jpg", "image/jpeg", strings.NewReader("jpeg"))
	if err != nil || url != "https://cdn/pizza.jpg" {
		t.Fatalf("upload: %q %v", url, err)
	}

	disabled := usecase.NewProductService(mocks.NewMockCatalogAPI(ctrl), mocks.NewMockProductCache(ctrl), nil, noopLogger{})
	if _, err := disabled.UploadImage(context.Background(), "a.png", "image/png", strings.NewReader("x")); !errors.Is(err, usecase.ErrUploadDisabled) {
		t.Fatalf("want ErrUploadDisabled, got %v", err)
	}
}

func TestImportProducts_SkipsInvalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, catalog, cache, _ := newProductSvc(ctrl)

	path := filepath.Join(t.TempDir(), "menu.jsonl")
	body := `{"name":"Margherita","priceCents":3990}
{"name":"","priceCents":100}
{"name":"Calabresa","priceCents":4590,"extra":true}
{"name":"Portuguesa","priceCents":4290}
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	catalog.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).Return(domain.Product{ID: "x"}, nil).Times(2)
	cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	res, err := svc.Import(context.Background(), path, validate.FormatAuto)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Created != 2 || res.Valid != 2 || res.Invalid != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
}
