package ports

import (
	"context"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
)

// AccountAPI — аккаунт мерчанта: логин, профиль заведения, биллинг.
type AccountAPI interface {
	Login(ctx context.Context, email, password string) (domain.Session, error)
	Me(ctx context.Context) (*domain.Restaurant, error)
	BillingWhatsApp(ctx context.Context, plan domain.BillingPlan) (domain.WhatsAppLink, error)
	ActivateSubscription(ctx context.Context, code string) (domain.Activation, error)
}
