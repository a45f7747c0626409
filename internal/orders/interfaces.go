package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emekaorji/cartify-backend/pkg/db/models"
	"github.com/emekaorji/cartify-backend/pkg/enums"
)

// Repository defines persistence operations for order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateAddress(ctx context.Context, address *models.Address) (*models.Address, error)
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	UpdateStatusFrom(ctx context.Context, orderID uuid.UUID, from, to enums.OrderStatus) (bool, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) error
	UpdateDeliveryStatus(ctx context.Context, orderID uuid.UUID, status enums.DeliveryStatus) error
	MarkProcessing(ctx context.Context, orderID uuid.UUID) (bool, error)
}
