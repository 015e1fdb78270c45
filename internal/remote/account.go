package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
)

// Login — POST /auth/login.
func (c *Client) Login(ctx context.Context, email, password string) (domain.Session, error) {
	var out domain.Session
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return domain.Session{}, err
	}
	return out, nil
}

// Me — GET /me, заведение текущего мерчанта (nil, если его ещё нет).
func (c *Client) Me(ctx context.Context) (*domain.Restaurant, error) {
	var out struct {
		Restaurant *domain.Restaurant `json:"restaurant"`
	}
	if err := c.do(ctx, http.MethodGet, "/me", nil, &out); err != nil {
		return nil, err
	}
	return out.Restaurant, nil
}

// BillingWhatsApp — GET /billing/whatsapp?plan=.
func (c *Client) BillingWhatsApp(ctx context.Context, plan domain.BillingPlan) (domain.WhatsAppLink, error) {
	path := "/billing/whatsapp"
	if plan != "" {
		path += "?plan=" + url.QueryEscape(string(plan))
	}
	var out domain.WhatsAppLink
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// ActivateSubscription — POST /billing/activate.
func (c *Client) ActivateSubscription(ctx context.Context, code string) (domain.Activation, error) {
	var out domain.Activation
	err := c.do(ctx, http.MethodPost, "/billing/activate", map[string]string{"code": code}, &out)
	return out, err
}
