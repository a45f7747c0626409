package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emekaorji/cartify-backend/pkg/db/models"
	"github.com/emekaorji/cartify-backend/pkg/enums"
)

// Repository exposes payment persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a payments repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new payment row.
func (r *Repository) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

// FindByReference loads the payment keyed by the gateway reference.
func (r *Repository) FindByReference(ctx context.Context, reference string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("reference = ?", reference).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindByOrder loads the payment attached to an order, if any.
func (r *Repository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// SettleFromPending flips a pending payment to the given terminal status.
// The boolean reports whether this call performed the transition; false
// means the payment was absent or had already left pending.
func (r *Repository) SettleFromPending(ctx context.Context, reference string, to enums.PaymentStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("reference = ? AND status = ?", reference, enums.PaymentStatusPending).
		UpdateColumn("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
