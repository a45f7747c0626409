package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/emekaorji/cartify-backend/pkg/enums"
)

// Payment tracks the gateway transaction for an order. Reference is the
// provider-issued idempotency key; each order carries at most one payment.
type Payment struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID           `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	UserID      uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	AmountCents int64               `gorm:"column:amount_cents;not null"`
	PaymentType enums.PaymentType   `gorm:"column:payment_type;type:payment_type;not null"`
	Status      enums.PaymentStatus `gorm:"column:status;type:payment_status;not null;default:'pending'"`
	Reference   string              `gorm:"column:reference;not null;uniqueIndex"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
