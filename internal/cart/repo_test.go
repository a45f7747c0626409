package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/emekaorji/cartify-backend/pkg/db/models"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:cart_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT,
  category TEXT NOT NULL,
  price NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	carts := `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartItems := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (cart_id, product_id)
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(carts).Error)
	require.NoError(t, db.Exec(cartItems).Error)
	return db
}

func seedCartItem(t *testing.T, db *gorm.DB, cartID uuid.UUID, qty int) *models.CartItem {
	t.Helper()

	product := &models.Product{
		ID:       uuid.New(),
		SellerID: uuid.New(),
		Title:    "Seeded",
		Category: "misc",
	}
	require.NoError(t, db.Create(product).Error)

	item := &models.CartItem{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: product.ID,
		Quantity:  qty,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestGetOrCreateIsLazyAndStable(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	first, err := repo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.Empty(t, first.Items)

	second, err := repo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestFindItemScopedToCart(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mine, err := repo.GetOrCreate(ctx, uuid.New())
	require.NoError(t, err)
	theirs, err := repo.GetOrCreate(ctx, uuid.New())
	require.NoError(t, err)

	item := seedCartItem(t, db, theirs.ID, 2)

	_, err = repo.FindItem(ctx, mine.ID, item.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := repo.FindItem(ctx, theirs.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.Quantity)
}

func TestDeleteItemScopedToCart(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mine, err := repo.GetOrCreate(ctx, uuid.New())
	require.NoError(t, err)
	theirs, err := repo.GetOrCreate(ctx, uuid.New())
	require.NoError(t, err)

	item := seedCartItem(t, db, theirs.ID, 1)

	// Deleting through the wrong cart is a no-op.
	require.NoError(t, repo.DeleteItem(ctx, mine.ID, item.ID))
	_, err = repo.FindItem(ctx, theirs.ID, item.ID)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteItem(ctx, theirs.ID, item.ID))
	_, err = repo.FindItem(ctx, theirs.ID, item.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestClearItemsKeepsCartRow(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	cart, err := repo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	seedCartItem(t, db, cart.ID, 1)
	seedCartItem(t, db, cart.ID, 3)

	require.NoError(t, repo.ClearItems(ctx, cart.ID))

	reloaded, err := repo.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, reloaded.ID)
	assert.Empty(t, reloaded.Items)
}
