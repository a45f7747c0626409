package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dbpkg "github.com/emekaorji/cartify-backend/pkg/db"
	"github.com/emekaorji/cartify-backend/pkg/db/models"
	"github.com/emekaorji/cartify-backend/pkg/enums"
)

func seedTestPayment(t *testing.T, db *gorm.DB, reference string, status enums.PaymentStatus) *models.Payment {
	t.Helper()
	payment := &models.Payment{
		ID:          uuid.New(),
		OrderID:     uuid.New(),
		UserID:      uuid.New(),
		AmountCents: 25100,
		PaymentType: enums.PaymentTypeCard,
		Status:      status,
		Reference:   reference,
	}
	require.NoError(t, db.Create(payment).Error)
	return payment
}

func TestSettleFromPendingAppliesOnce(t *testing.T) {
	db := setupPaymentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	seedTestPayment(t, db, "ref_1", enums.PaymentStatusPending)

	changed, err := repo.SettleFromPending(ctx, "ref_1", enums.PaymentStatusSuccess)
	require.NoError(t, err)
	assert.True(t, changed)

	// Replays and late failure events find nothing left to update.
	changed, err = repo.SettleFromPending(ctx, "ref_1", enums.PaymentStatusSuccess)
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = repo.SettleFromPending(ctx, "ref_1", enums.PaymentStatusFailed)
	require.NoError(t, err)
	assert.False(t, changed)

	payment, err := repo.FindByReference(ctx, "ref_1")
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusSuccess, payment.Status)
}

func TestSettleFromPendingUnknownReference(t *testing.T) {
	db := setupPaymentsTestDB(t)
	repo := NewRepository(db)

	changed, err := repo.SettleFromPending(context.Background(), "ref_missing", enums.PaymentStatusSuccess)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestFindByReferenceAndOrder(t *testing.T) {
	db := setupPaymentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	payment := seedTestPayment(t, db, "ref_1", enums.PaymentStatusPending)

	byRef, err := repo.FindByReference(ctx, "ref_1")
	require.NoError(t, err)
	assert.Equal(t, payment.ID, byRef.ID)

	byOrder, err := repo.FindByOrder(ctx, payment.OrderID)
	require.NoError(t, err)
	assert.Equal(t, payment.ID, byOrder.ID)

	_, err = repo.FindByReference(ctx, "ref_missing")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCreateEnforcesUniqueness(t *testing.T) {
	db := setupPaymentsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	existing := seedTestPayment(t, db, "ref_1", enums.PaymentStatusPending)

	_, err := repo.Create(ctx, &models.Payment{
		OrderID:     existing.OrderID,
		UserID:      existing.UserID,
		AmountCents: 100,
		PaymentType: enums.PaymentTypeCard,
		Status:      enums.PaymentStatusPending,
		Reference:   "ref_other",
	})
	require.Error(t, err)
	assert.True(t, dbpkg.IsUniqueViolation(err, ""))

	_, err = repo.Create(ctx, &models.Payment{
		OrderID:     uuid.New(),
		UserID:      uuid.New(),
		AmountCents: 100,
		PaymentType: enums.PaymentTypeCard,
		Status:      enums.PaymentStatusPending,
		Reference:   "ref_1",
	})
	require.Error(t, err)
	assert.True(t, dbpkg.IsUniqueViolation(err, ""))
}
