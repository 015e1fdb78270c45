package rest

import (
	"context"
	"io"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/usecase"
	"github.com/Gunvolt24/merchant_dash/internal/watcher"
)

//go:generate mockgen -source=services.go -destination=./mocks/mock_services.go -package=mocks

// AuthService — вход и выход.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (domain.User, error)
	SignOut(ctx context.Context) error
}

// OrderBoard — экран заказов.
type OrderBoard interface {
	List(ctx context.Context, status domain.OrderStatus, notifyOnNew bool) ([]domain.Order, error)
	SetStatus(ctx context.Context, orderID string, status domain.OrderStatus) (domain.Order, error)
	Summary() usecase.Summary
}

// WatcherControl — жизненный цикл наблюдателя и поток событий о новых заказах.
type WatcherControl interface {
	Activate(ctx context.Context) error
	Deactivate()
	Reset()
	Subscribe() (<-chan watcher.Event, func())
}

// AlertPreview — пробное оповещение с текущими настройками звука и вибрации.
type AlertPreview interface {
	Alert(ctx context.Context, orders []domain.Order) error
}

// ProductService — каталог.
type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, in *domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, patch *domain.ProductPatch) (*domain.Product, error)
	ToggleActive(ctx context.Context, id string) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// SettingsStore — настройки оповещений.
type SettingsStore interface {
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, s domain.Settings) error
}

// BillingService — подписка.
type BillingService interface {
	Expired() bool
	WhatsAppLink(ctx context.Context, plan domain.BillingPlan) (domain.WhatsAppLink, error)
	Activate(ctx context.Context, code string) (domain.Activation, error)
}

// RestaurantService — профиль заведения.
type RestaurantService interface {
	Me(ctx context.Context) (*usecase.RestaurantView, error)
}
