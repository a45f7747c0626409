package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/emekaorji/cartify-backend/pkg/db/models"
	"github.com/emekaorji/cartify-backend/pkg/enums"
)

// Actor is the authenticated principal performing an order operation.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.UserRoleAdmin
}

// AddressInput captures the shipping destination at order creation.
type AddressInput struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// CreateOrderInput carries everything needed to place an order.
type CreateOrderInput struct {
	Address     AddressInput      `json:"address" validate:"required"`
	PaymentType enums.PaymentType `json:"payment_type" validate:"required"`
}

// ItemDTO is one frozen line on an order.
type ItemDTO struct {
	ID             uuid.UUID `json:"id"`
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
}

// AddressDTO is the shipping snapshot on an order.
type AddressDTO struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// PaymentSummary exposes payment state on an order view.
type PaymentSummary struct {
	Status    enums.PaymentStatus `json:"status"`
	Reference string              `json:"reference"`
}

// OrderDTO is the transport shape of an order.
type OrderDTO struct {
	ID             uuid.UUID            `json:"id"`
	UserID         uuid.UUID            `json:"user_id"`
	Status         enums.OrderStatus    `json:"status"`
	DeliveryStatus enums.DeliveryStatus `json:"delivery_status"`
	PaymentType    enums.PaymentType    `json:"payment_type"`
	TotalCents     int64                `json:"total_cents"`
	Items          []ItemDTO            `json:"items"`
	Address        *AddressDTO          `json:"address,omitempty"`
	Payment        *PaymentSummary      `json:"payment,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	items := make([]ItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, ItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Name:           item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
		})
	}

	dto := &OrderDTO{
		ID:             o.ID,
		UserID:         o.UserID,
		Status:         o.Status,
		DeliveryStatus: o.DeliveryStatus,
		PaymentType:    o.PaymentType,
		TotalCents:     o.TotalCents,
		Items:          items,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
	if o.Address != nil {
		dto.Address = &AddressDTO{
			Street:     o.Address.Street,
			City:       o.Address.City,
			State:      o.Address.State,
			PostalCode: o.Address.PostalCode,
			Country:    o.Address.Country,
		}
	}
	if o.Payment != nil {
		dto.Payment = &PaymentSummary{
			Status:    o.Payment.Status,
			Reference: o.Payment.Reference,
		}
	}
	return dto
}

func FromModels(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, *FromModel(&orders[i]))
	}
	return out
}
