package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emekaorji/cartify-backend/internal/cart"
	"github.com/emekaorji/cartify-backend/internal/catalog"
	"github.com/emekaorji/cartify-backend/pkg/db/models"
	"github.com/emekaorji/cartify-backend/pkg/enums"
	pkgerrors "github.com/emekaorji/cartify-backend/pkg/errors"
)

const (
	cartEmptyMessage        = "cart is empty"
	cancelBarredMessage     = "order can no longer be cancelled"
	orderNotFoundMessage    = "order not found"
	illegalTransitionFormat = "cannot transition order from %s to %s"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductDTO, error)
}

// Service defines the order lifecycle operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*OrderDTO, error)
	Get(ctx context.Context, orderID uuid.UUID, actor Actor) (*OrderDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	ListAll(ctx context.Context) ([]OrderDTO, error)
	Cancel(ctx context.Context, orderID uuid.UUID, actor Actor, force bool) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, force bool) (*OrderDTO, error)
	UpdateDeliveryStatus(ctx context.Context, orderID uuid.UUID, status enums.DeliveryStatus, force bool) (*OrderDTO, error)
}

type service struct {
	repo    Repository
	carts   *cart.Repository
	catalog productFinder
	tx      txRunner
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, carts *cart.Repository, catalogSvc productFinder, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, carts: carts, catalog: catalogSvc, tx: tx}, nil
}

// Create places an order from the user's cart. The cart lines, address
// snapshot, frozen prices, order row, and cart clear all commit in one
// transaction or not at all.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*OrderDTO, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		carts := s.carts.WithTx(tx)

		userCart, err := carts.FindByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeConflict, cartEmptyMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}
		if len(userCart.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, cartEmptyMessage)
		}

		address, err := repo.CreateAddress(ctx, &models.Address{
			ID:         uuid.New(),
			UserID:     userID,
			Street:     strings.TrimSpace(input.Address.Street),
			City:       strings.TrimSpace(input.Address.City),
			State:      strings.TrimSpace(input.Address.State),
			PostalCode: strings.TrimSpace(input.Address.PostalCode),
			Country:    strings.TrimSpace(input.Address.Country),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "snapshot address")
		}

		// Prices are read from the catalog at this instant and frozen on
		// the order items.
		var totalCents int64
		items := make([]models.OrderItem, 0, len(userCart.Items))
		for _, line := range userCart.Items {
			product, err := s.catalog.FindByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			unitCents := product.Price.Shift(2).IntPart()
			totalCents += unitCents * int64(line.Quantity)
			items = append(items, models.OrderItem{
				ID:             uuid.New(),
				ProductID:      product.ID,
				Name:           product.Title,
				UnitPriceCents: unitCents,
				Quantity:       line.Quantity,
			})
		}

		order, err := repo.CreateOrder(ctx, &models.Order{
			ID:             uuid.New(),
			UserID:         userID,
			AddressID:      address.ID,
			PaymentType:    input.PaymentType,
			Status:         enums.OrderStatusPending,
			DeliveryStatus: enums.DeliveryStatusPending,
			TotalCents:     totalCents,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order items")
		}

		if err := carts.ClearItems(ctx, userCart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}

		order.Items = items
		order.Address = address
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID, actor Actor) (*OrderDTO, error) {
	order, err := s.loadVisible(ctx, orderID, actor)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return FromModels(orders), nil
}

func (s *service) ListAll(ctx context.Context) ([]OrderDTO, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return FromModels(orders), nil
}

// Cancel applies the cancellation policy: owners may cancel until shipment,
// admins may force past shipped/delivered, and nobody cancels twice.
func (s *service) Cancel(ctx context.Context, orderID uuid.UUID, actor Actor, force bool) (*OrderDTO, error) {
	order, err := s.loadVisible(ctx, orderID, actor)
	if err != nil {
		return nil, err
	}

	if order.Status == enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, cancelBarredMessage)
	}
	if order.Status.IsTerminalForCancellation() && !(force && actor.IsAdmin()) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, cancelBarredMessage)
	}

	changed, err := s.repo.UpdateStatusFrom(ctx, order.ID, order.Status, enums.OrderStatusCancelled)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel order")
	}
	if !changed {
		// Lost a race with another status change.
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, cancelBarredMessage)
	}

	return s.Get(ctx, orderID, actor)
}

// UpdateStatus is the admin path for moving an order through its lifecycle.
// Illegal transitions are rejected unless force is set.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, force bool) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.loadByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == status {
		return FromModel(order), nil
	}
	if !canTransitionOrderStatus(order.Status, status) && !force {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf(illegalTransitionFormat, order.Status, status))
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
	}
	return s.adminView(ctx, orderID)
}

// UpdateDeliveryStatus advances the forward-only delivery chain.
func (s *service) UpdateDeliveryStatus(ctx context.Context, orderID uuid.UUID, status enums.DeliveryStatus, force bool) (*OrderDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery status")
	}

	order, err := s.loadByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.DeliveryStatus == status {
		return FromModel(order), nil
	}
	if !canTransitionDeliveryStatus(order.DeliveryStatus, status) && !force {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot transition delivery from %s to %s", order.DeliveryStatus, status))
	}

	if err := s.repo.UpdateDeliveryStatus(ctx, orderID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update delivery status")
	}
	return s.adminView(ctx, orderID)
}

// loadVisible loads an order enforcing visibility: owners see their own,
// admins see everything, and anyone else gets not-found rather than a
// forbidden that would leak existence.
func (s *service) loadVisible(ctx context.Context, orderID uuid.UUID, actor Actor) (*models.Order, error) {
	if actor.IsAdmin() {
		return s.loadByID(ctx, orderID)
	}
	order, err := s.repo.FindByIDAndUser(ctx, orderID, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, orderNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func (s *service) loadByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, orderNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func (s *service) adminView(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func validateCreateInput(input CreateOrderInput) error {
	if !input.PaymentType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment type")
	}
	addr := input.Address
	for field, value := range map[string]string{
		"street":      addr.Street,
		"city":        addr.City,
		"state":       addr.State,
		"postal_code": addr.PostalCode,
		"country":     addr.Country,
	} {
		if strings.TrimSpace(value) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("address %s is required", field))
		}
	}
	return nil
}
