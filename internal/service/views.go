package service

import (
	"time"

	"catalogo-api/internal/domain"

	"github.com/shopspring/decimal"
)

// CategoryView is the read projection of a category
type CategoryView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SubcategoryView is the read projection of a subcategory with its category embedded
type SubcategoryView struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    CategoryView `json:"category"`
}

// ProductView is the read projection of a product with its subcategory (and, through it, category) embedded
type ProductView struct {
	ID          int64           `json:"id"`
	SKU         int64           `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
	ModifiedAt  time.Time       `json:"modifiedAt"`
	Subcategory SubcategoryView `json:"subcategory"`
}

func toCategoryView(c *domain.Category) CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name}
}

func toSubcategoryView(s *domain.SubcategoryDetail) SubcategoryView {
	return SubcategoryView{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Category:    toCategoryView(&s.Category),
	}
}

func toProductView(p *domain.ProductDetail) ProductView {
	return ProductView{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   p.UnitPrice,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		ModifiedAt:  p.ModifiedAt,
		Subcategory: toSubcategoryView(&p.Subcategory),
	}
}
