package domain

// Product — товар каталога мерчанта.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	PriceCents  int64   `json:"priceCents"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Active      bool    `json:"active"`
}

// ProductInput — данные для создания товара.
type ProductInput struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description,omitempty" validate:"max=1000"`
	PriceCents  int64  `json:"priceCents" validate:"min=1"`
	ImageURL    string `json:"imageUrl,omitempty" validate:"omitempty,url"`
}

// ProductPatch — частичное обновление: nil-поля не отправляются.
type ProductPatch struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	PriceCents  *int64  `json:"priceCents,omitempty" validate:"omitempty,min=1"`
	ImageURL    *string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Active      *bool   `json:"active,omitempty"`
}

// Empty — в патче нет ни одного поля.
func (p *ProductPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.PriceCents == nil && p.ImageURL == nil && p.Active == nil
}
