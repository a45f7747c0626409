package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emekaorji/cartify-backend/internal/catalog"
	"github.com/emekaorji/cartify-backend/pkg/db/models"
	pkgerrors "github.com/emekaorji/cartify-backend/pkg/errors"
)

type stubCartRepo struct {
	cart  *models.Cart
	items map[uuid.UUID]*models.CartItem
}

func newStubCartRepo(userID uuid.UUID) *stubCartRepo {
	return &stubCartRepo{
		cart:  &models.Cart{ID: uuid.New(), UserID: userID},
		items: map[uuid.UUID]*models.CartItem{},
	}
}

func (s *stubCartRepo) GetOrCreate(_ context.Context, _ uuid.UUID) (*models.Cart, error) {
	cart := *s.cart
	cart.Items = nil
	for _, item := range s.items {
		cart.Items = append(cart.Items, *item)
	}
	return &cart, nil
}

func (s *stubCartRepo) FindItem(_ context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	item, ok := s.items[itemID]
	if !ok || item.CartID != cartID {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (s *stubCartRepo) FindItemByProduct(_ context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	for _, item := range s.items {
		if item.CartID == cartID && item.ProductID == productID {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) CreateItem(_ context.Context, item *models.CartItem) (*models.CartItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items[item.ID] = item
	return item, nil
}

func (s *stubCartRepo) UpdateItemQuantity(_ context.Context, itemID uuid.UUID, quantity int) error {
	s.items[itemID].Quantity = quantity
	return nil
}

func (s *stubCartRepo) DeleteItem(_ context.Context, cartID, itemID uuid.UUID) error {
	if item, ok := s.items[itemID]; ok && item.CartID == cartID {
		delete(s.items, itemID)
	}
	return nil
}

func (s *stubCartRepo) ClearItems(_ context.Context, cartID uuid.UUID) error {
	for id, item := range s.items {
		if item.CartID == cartID {
			delete(s.items, id)
		}
	}
	return nil
}

type stubProductFinder struct {
	known map[uuid.UUID]bool
}

func (s *stubProductFinder) FindByID(_ context.Context, id uuid.UUID) (*catalog.ProductDTO, error) {
	if !s.known[id] {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &catalog.ProductDTO{ID: id}, nil
}

func newCartTestService(t *testing.T, userID uuid.UUID, productIDs ...uuid.UUID) (Service, *stubCartRepo) {
	t.Helper()
	repo := newStubCartRepo(userID)
	known := map[uuid.UUID]bool{}
	for _, id := range productIDs {
		known[id] = true
	}
	svc, err := NewService(repo, &stubProductFinder{known: known})
	require.NoError(t, err)
	return svc, repo
}

func TestAddItemMergesSameProduct(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	svc, repo := newCartTestService(t, userID, productID)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, userID, productID, 2)
	require.NoError(t, err)

	dto, err := svc.AddItem(ctx, userID, productID, 3)
	require.NoError(t, err)

	require.Len(t, dto.Items, 1)
	assert.Equal(t, 5, dto.Items[0].Quantity)
	assert.Len(t, repo.items, 1)
}

func TestAddItemRejectsUnknownProduct(t *testing.T) {
	userID := uuid.New()
	svc, _ := newCartTestService(t, userID)

	_, err := svc.AddItem(context.Background(), userID, uuid.New(), 1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	svc, _ := newCartTestService(t, userID, productID)

	for _, qty := range []int{0, -1} {
		_, err := svc.AddItem(context.Background(), userID, productID, qty)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	}
}

func TestUpdateItemQuantityValidates(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	svc, repo := newCartTestService(t, userID, productID)
	ctx := context.Background()

	dto, err := svc.AddItem(ctx, userID, productID, 1)
	require.NoError(t, err)
	itemID := dto.Items[0].ID

	_, err = svc.UpdateItemQuantity(ctx, userID, itemID, 0)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	updated, err := svc.UpdateItemQuantity(ctx, userID, itemID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Items[0].Quantity)
	assert.Equal(t, 7, repo.items[itemID].Quantity)
}

func TestUpdateItemQuantityForeignLineIsNotFound(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	svc, repo := newCartTestService(t, userID, productID)

	// A line belonging to a different cart must be invisible.
	foreign := &models.CartItem{ID: uuid.New(), CartID: uuid.New(), ProductID: uuid.New(), Quantity: 1}
	repo.items[foreign.ID] = foreign

	_, err := svc.UpdateItemQuantity(context.Background(), userID, foreign.ID, 3)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestRemoveItemAndClear(t *testing.T) {
	userID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()
	svc, repo := newCartTestService(t, userID, productA, productB)
	ctx := context.Background()

	dto, err := svc.AddItem(ctx, userID, productA, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, userID, productB, 2)
	require.NoError(t, err)

	after, err := svc.RemoveItem(ctx, userID, dto.Items[0].ID)
	require.NoError(t, err)
	assert.Len(t, after.Items, 1)

	require.NoError(t, svc.Clear(ctx, userID))
	assert.Empty(t, repo.items)
}
