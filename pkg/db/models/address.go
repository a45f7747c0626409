package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is the denormalized shipping snapshot taken at order creation.
// One row per order; later edits to a user's address never touch it.
type Address struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	Street     string    `gorm:"column:street;not null"`
	City       string    `gorm:"column:city;not null"`
	State      string    `gorm:"column:state;not null"`
	PostalCode string    `gorm:"column:postal_code;not null"`
	Country    string    `gorm:"column:country;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
