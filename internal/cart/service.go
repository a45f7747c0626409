package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emekaorji/cartify-backend/internal/catalog"
	"github.com/emekaorji/cartify-backend/pkg/db/models"
	pkgerrors "github.com/emekaorji/cartify-backend/pkg/errors"
)

// Service defines the cart operations exposed to controllers. Every
// operation is scoped to the calling user's own cart.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type repository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error)
	FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
	ClearItems(ctx context.Context, cartID uuid.UUID) error
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductDTO, error)
}

type service struct {
	repo    repository
	catalog productFinder
}

// NewService constructs a cart service.
func NewService(repo repository, catalogSvc productFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service is required")
	}
	return &service{repo: repo, catalog: catalogSvc}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return FromModel(cart), nil
}

func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	if _, err := s.catalog.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	existing, err := s.repo.FindItemByProduct(ctx, cart.ID, productID)
	switch {
	case err == nil:
		// Same product twice merges into one line.
		if err := s.repo.UpdateItemQuantity(ctx, existing.ID, existing.Quantity+quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "merge cart line")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		_, err := s.repo.CreateItem(ctx, &models.CartItem{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart line")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup cart line")
	}

	return s.Get(ctx, userID)
}

func (s *service) UpdateItemQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	item, err := s.findOwnedItem(ctx, cart.ID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart line")
	}
	return s.Get(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error) {
	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	item, err := s.findOwnedItem(ctx, cart.ID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteItem(ctx, cart.ID, item.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart line")
	}
	return s.Get(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if err := s.repo.ClearItems(ctx, cart.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}

func (s *service) findOwnedItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	item, err := s.repo.FindItem(ctx, cartID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup cart line")
	}
	return item, nil
}
