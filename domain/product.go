package domain

import "time"

type Category string

const (
	CategoryCosmetic    Category = "cosmetic"
	CategoryParamedical Category = "paramedical"
	CategorySupplement  Category = "supplement"
	CategoryVitamin     Category = "vitamin"
)

// Categories lists every catalog category in display order.
var Categories = []Category{CategoryCosmetic, CategoryParamedical, CategorySupplement, CategoryVitamin}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    Category  `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductInput holds the fields a caller supplies for a new product.
type ProductInput struct {
	Name        string
	Image       string
	Description string
	Price       float64
	Category    Category
}

// ProductPatch is a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name        *string
	Image       *string
	Description *string
	Price       *float64
	Category    *Category
}

// Apply merges the non-nil fields of patch into p.
func (p *Product) Apply(patch ProductPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
}
