package usecase

import (
	"context"
	"fmt"

	"github.com/Gunvolt24/merchant_dash/internal/domain"
	"github.com/Gunvolt24/merchant_dash/internal/ports"
)

// RestaurantView — заведение вместе с публичной ссылкой на меню.
type RestaurantView struct {
	domain.Restaurant
	MenuURL string `json:"menuUrl"`
}

// RestaurantService — профиль заведения.
type RestaurantService struct {
	accounts ports.AccountAPI
	webBase  string
}

// NewRestaurantService — webBase: адрес публичного сайта с меню.
func NewRestaurantService(accounts ports.AccountAPI, webBase string) *RestaurantService {
	return &RestaurantService{accounts: accounts, webBase: webBase}
}

// Me — заведение текущего мерчанта.
func (s *RestaurantService) Me(ctx context.Context) (*RestaurantView, error) {
	r, err := s.accounts.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("me: %w", err)
	}
	if r == nil {
		return nil, fmt.Errorf("me: %w", domain.ErrNotFound)
	}
	return &RestaurantView{Restaurant: *r, MenuURL: r.MenuURL(s.webBase)}, nil
}
