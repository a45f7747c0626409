package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emekaorji/cartify-backend/pkg/db/models"
)

// ProductDTO is the transport shape for catalog listings.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	SellerID    uuid.UUID       `json:"seller_id"`
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateProductInput holds the fields accepted when listing a product.
type CreateProductInput struct {
	SellerID    uuid.UUID
	Title       string
	Description *string
	Category    string
	Price       decimal.Decimal
}

// UpdateProductInput carries the mutable product fields. Nil means unchanged.
type UpdateProductInput struct {
	Title       *string
	Description *string
	Category    *string
	Price       *decimal.Decimal
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		SellerID:    p.SellerID,
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromModels(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *FromModel(&products[i]))
	}
	return out
}
