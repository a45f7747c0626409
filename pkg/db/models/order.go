package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/emekaorji/cartify-backend/pkg/enums"
)

// Order captures a placed order. Core fields are immutable after creation;
// only the two status columns change over the order's lifetime.
type Order struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	AddressID      uuid.UUID            `gorm:"column:address_id;type:uuid;not null"`
	PaymentType    enums.PaymentType    `gorm:"column:payment_type;type:payment_type;not null"`
	Status         enums.OrderStatus    `gorm:"column:status;type:order_status;not null;default:'pending'"`
	DeliveryStatus enums.DeliveryStatus `gorm:"column:delivery_status;type:delivery_status;not null;default:'pending'"`
	TotalCents     int64                `gorm:"column:total_cents;not null"`
	Items          []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Address        *Address             `gorm:"foreignKey:AddressID"`
	Payment        *Payment             `gorm:"foreignKey:OrderID"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
