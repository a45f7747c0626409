package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog listing. Prices are stored as exact decimals
// and converted to minor units only at order creation.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID    uuid.UUID       `gorm:"column:seller_id;type:uuid;not null"`
	Title       string          `gorm:"column:title;not null"`
	Description *string         `gorm:"column:description"`
	Category    string          `gorm:"column:category;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// PriceCents converts the catalog price to minor currency units.
func (p Product) PriceCents() int64 {
	return p.Price.Shift(2).IntPart()
}
