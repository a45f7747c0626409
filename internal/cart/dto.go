package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emekaorji/cartify-backend/pkg/db/models"
)

// ItemDTO is one product line in the cart response.
type ItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// CartDTO is the transport shape of a user's cart.
type CartDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Items     []ItemDTO `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromModel(c *models.Cart) *CartDTO {
	if c == nil {
		return nil
	}
	items := make([]ItemDTO, 0, len(c.Items))
	for _, item := range c.Items {
		dto := ItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			dto.Title = item.Product.Title
			dto.UnitPrice = item.Product.Price
		}
		items = append(items, dto)
	}
	return &CartDTO{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     items,
		UpdatedAt: c.UpdatedAt,
	}
}
