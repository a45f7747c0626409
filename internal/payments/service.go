package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emekaorji/cartify-backend/internal/orders"
	dbpkg "github.com/emekaorji/cartify-backend/pkg/db"
	"github.com/emekaorji/cartify-backend/pkg/db/models"
	"github.com/emekaorji/cartify-backend/pkg/enums"
	pkgerrors "github.com/emekaorji/cartify-backend/pkg/errors"
	"github.com/emekaorji/cartify-backend/pkg/logger"
	"github.com/emekaorji/cartify-backend/pkg/metrics"
	"github.com/emekaorji/cartify-backend/pkg/paystack"
)

const (
	// WebhookScope namespaces the Redis dedup keys for provider deliveries.
	WebhookScope = "webhook:paystack"

	sourceWebhook = "webhook"
	sourceVerify  = "verify"

	paymentNotInitializedMessage = "payment must be initialized first"
	paymentAlreadyOpenMessage    = "payment already initialized"

	eventChargeSuccess = "charge.success"
	eventChargeFailed  = "charge.failed"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gateway interface {
	Initialize(ctx context.Context, params paystack.InitializeParams) (*paystack.InitResult, error)
	Verify(ctx context.Context, reference string) (*paystack.VerifyResult, error)
}

type dedupGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

// Service owns payment initialization and reconciliation.
type Service struct {
	payments *Repository
	orders   orders.Repository
	gateway  gateway
	tx       txRunner
	guard    dedupGuard
	metrics  *metrics.PaymentMetrics
	logger   *logger.Logger
}

// ServiceParams bundles the dependencies required to build a payment service.
type ServiceParams struct {
	PaymentRepo *Repository
	OrderRepo   orders.Repository
	Gateway     gateway
	TxRunner    txRunner
	Guard       dedupGuard
	Metrics     *metrics.PaymentMetrics
	Logger      *logger.Logger
}

// NewService constructs a payment service. The guard and metrics are
// optional; everything else is required.
func NewService(params ServiceParams) (*Service, error) {
	if params.PaymentRepo == nil {
		return nil, fmt.Errorf("payment repository required")
	}
	if params.OrderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &Service{
		payments: params.PaymentRepo,
		orders:   params.OrderRepo,
		gateway:  params.Gateway,
		tx:       params.TxRunner,
		guard:    params.Guard,
		metrics:  params.Metrics,
		logger:   params.Logger,
	}, nil
}

// Initialize opens a gateway transaction for the order and records the
// pending payment. The amount always comes from the frozen order total. The
// payment row is only written after the provider has confirmed a reference,
// so a gateway failure leaves no orphaned row behind.
func (s *Service) Initialize(ctx context.Context, userID uuid.UUID, req InitializeRequest) (*InitializeResult, error) {
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id")
	}

	order, err := s.orders.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	if _, err := s.payments.FindByOrder(ctx, order.ID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, paymentAlreadyOpenMessage)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing payment")
	}

	initResult, err := s.gateway.Initialize(ctx, paystack.InitializeParams{
		Email:       req.Email,
		AmountCents: order.TotalCents,
		Metadata: paystack.Metadata{
			OrderID: order.ID.String(),
			UserID:  userID.String(),
		},
	})
	if err != nil {
		return nil, err
	}

	_, err = s.payments.Create(ctx, &models.Payment{
		ID:          uuid.New(),
		OrderID:     order.ID,
		UserID:      userID,
		AmountCents: order.TotalCents,
		PaymentType: order.PaymentType,
		Status:      enums.PaymentStatusPending,
		Reference:   initResult.Reference,
	})
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "") {
			// Concurrent initialize won the race for this order.
			return nil, pkgerrors.New(pkgerrors.CodeConflict, paymentAlreadyOpenMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record payment")
	}

	return &InitializeResult{
		AuthorizationURL: initResult.AuthorizationURL,
		AccessCode:       initResult.AccessCode,
		Reference:        initResult.Reference,
		OrderID:          order.ID,
		AmountCents:      order.TotalCents,
	}, nil
}

// Verify polls the provider for the referenced transaction and applies the
// reconciliation transition when the provider reports success. The provider
// outcome is returned either way so callers can render the result.
func (s *Service) Verify(ctx context.Context, reference string) (*VerifyOutcome, error) {
	result, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}

	outcome := &VerifyOutcome{
		Reference:     result.Reference,
		GatewayStatus: result.GatewayStatus,
		AmountCents:   result.AmountCents,
	}

	if !result.Succeeded() {
		// A provider-reported failure settles the pending payment; a still
		// pending charge is left alone.
		if result.GatewayStatus == "failed" {
			if _, err := s.payments.SettleFromPending(ctx, result.Reference, enums.PaymentStatusFailed); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "settle failed payment")
			}
		}
		return outcome, nil
	}

	orderID, err := uuid.Parse(result.Metadata.OrderID)
	if err != nil {
		s.metrics.IncRejected(sourceVerify)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction metadata missing order id")
	}
	outcome.OrderID = orderID

	if err := s.reconcileSuccess(ctx, result.Reference, sourceVerify); err != nil {
		return nil, err
	}
	outcome.Settled = true
	return outcome, nil
}

// HandleWebhook processes a provider delivery. Deliveries are at-least-once;
// everything here has to tolerate duplicates and concurrent verify calls.
func (s *Service) HandleWebhook(ctx context.Context, event WebhookEvent) error {
	reference := event.Data.Reference
	if reference == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "event reference required")
	}

	switch event.Event {
	case eventChargeSuccess:
		if s.guard != nil {
			seen, err := s.guard.CheckAndMark(ctx, reference)
			if err != nil {
				// Redis being down must not drop the event; the conditional
				// update still dedupes.
				if s.logger != nil {
					s.logger.Warn(ctx, "webhook dedup guard unavailable")
				}
			} else if seen {
				s.metrics.IncDuplicate(sourceWebhook)
				return nil
			}
		}
		if err := s.reconcileSuccess(ctx, reference, sourceWebhook); err != nil {
			if s.guard != nil {
				_ = s.guard.Delete(ctx, reference)
			}
			return err
		}
		return nil

	case eventChargeFailed:
		changed, err := s.payments.SettleFromPending(ctx, reference, enums.PaymentStatusFailed)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "settle failed payment")
		}
		if !changed {
			s.metrics.IncDuplicate(sourceWebhook)
		}
		return nil

	default:
		// Unhandled event types are acknowledged so the provider stops
		// retrying them.
		return nil
	}
}

// reconcileSuccess is the shared idempotent transition: flip the payment
// pending -> success and the order pending -> processing in one transaction.
// Replays and races collapse onto the conditional update.
func (s *Service) reconcileSuccess(ctx context.Context, reference, source string) error {
	start := time.Now()
	var duplicate bool

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		payments := s.payments.WithTx(tx)

		changed, err := payments.SettleFromPending(ctx, reference, enums.PaymentStatusSuccess)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "settle payment")
		}

		payment, err := payments.FindByReference(ctx, reference)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, paymentNotInitializedMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load payment")
		}

		if !changed {
			switch payment.Status {
			case enums.PaymentStatusSuccess:
				// Duplicate delivery or verify race; already settled.
				duplicate = true
				return nil
			case enums.PaymentStatusFailed:
				return pkgerrors.New(pkgerrors.CodeStateConflict, "payment already failed")
			default:
				return pkgerrors.New(pkgerrors.CodeInternal, "payment settle raced without settling")
			}
		}

		// Both writes commit or roll back together. A false return means
		// the order already left pending, which is fine.
		if _, err := s.orders.WithTx(tx).MarkProcessing(ctx, payment.OrderID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark order processing")
		}
		return nil
	})

	s.metrics.ObserveDuration(source, time.Since(start))
	switch {
	case err != nil:
		s.metrics.IncRejected(source)
	case duplicate:
		s.metrics.IncDuplicate(source)
	default:
		s.metrics.IncApplied(source)
		if s.logger != nil {
			s.logger.Info(s.logger.WithReference(ctx, reference), "payment reconciled")
		}
	}
	return err
}
