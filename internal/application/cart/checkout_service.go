package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CheckoutService moves a draft order through checkout:
// Active -> AddressAttached, then records the payment option. Taking the
// payment itself is left to an external gateway.
type CheckoutService struct {
	orderRepo      cart.DraftOrderRepository
	locker         OwnerLocker
	lockTimeout    time.Duration
	validator      *AddressValidator
	eventPublisher shared.EventPublisher
	summary        summarizer
	logger         *zap.Logger
}

// NewCheckoutService creates a new CheckoutService. Pass the same locker as
// the CartService so checkout and cart mutations of one owner serialize.
func NewCheckoutService(
	orderRepo cart.DraftOrderRepository,
	productRepo catalog.ProductRepository,
	locker OwnerLocker,
	logger *zap.Logger,
) *CheckoutService {
	if locker == nil {
		locker = NewInMemoryOwnerLocker()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		orderRepo:   orderRepo,
		locker:      locker,
		lockTimeout: DefaultLockTimeout,
		validator:   NewAddressValidator(),
		summary:     summarizer{productRepo: productRepo},
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLockTimeout overrides DefaultLockTimeout
func (s *CheckoutService) SetLockTimeout(timeout time.Duration) {
	if timeout > 0 {
		s.lockTimeout = timeout
	}
}

// SubmitBillingAddress validates the form, stores a new billing address and
// links it to the owner's draft order. On validation failure nothing is saved.
func (s *CheckoutService) SubmitBillingAddress(ctx context.Context, ownerID uuid.UUID, input BillingAddressInput) (_ *CheckoutResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "submit_billing_address", telemetry.SpanAttrOwnerID, ownerID)
	defer func() { telemetry.EndSpan(span, err) }()
	ctx = logger.WithOwnerID(ctx, ownerID.String())

	unlock, err := lockOwner(ctx, s.locker, ownerID, s.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer unlock()

	order, err := findActiveOrder(ctx, s.orderRepo, ownerID)
	if err != nil {
		return nil, err
	}

	input = s.validator.Normalize(input)
	if err := s.validator.Validate(input); err != nil {
		logger.L(ctx, s.logger).Debug("Billing address rejected",
			zap.Error(err),
		)
		return nil, err
	}

	address, err := cart.NewBillingAddress(ownerID, input.StreetAddress, input.ApartmentAddress, input.Country, input.Zip)
	if err != nil {
		return nil, err
	}
	if err := order.AttachBillingAddress(address); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		logger.L(ctx, s.logger).Error("Failed to save billing address",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, order)

	logger.L(ctx, s.logger).Info("Billing address attached",
		zap.String("order_id", order.ID.String()),
		zap.String("billing_address_id", address.ID.String()),
	)

	return s.result(ctx, order, infoMessage(msgAddressSaved))
}

// SelectPaymentOption records the chosen payment method on the draft order.
// No payment is taken.
func (s *CheckoutService) SelectPaymentOption(ctx context.Context, ownerID uuid.UUID, option string) (_ *CheckoutResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "select_payment_option", telemetry.SpanAttrOwnerID, ownerID, "payment_option", option)
	defer func() { telemetry.EndSpan(span, err) }()
	ctx = logger.WithOwnerID(ctx, ownerID.String())

	unlock, err := lockOwner(ctx, s.locker, ownerID, s.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer unlock()

	order, err := findActiveOrder(ctx, s.orderRepo, ownerID)
	if err != nil {
		return nil, err
	}

	if err := order.SelectPaymentOption(cart.PaymentOption(option)); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, order)

	logger.L(ctx, s.logger).Info("Payment option selected",
		zap.String("order_id", order.ID.String()),
		zap.String("payment_option", option),
	)

	return s.result(ctx, order, infoMessage(msgPaymentSelected))
}

func (s *CheckoutService) result(ctx context.Context, order *cart.DraftOrder, message Message) (*CheckoutResult, error) {
	summary, err := s.summary.summarize(ctx, order)
	if err != nil {
		return nil, err
	}
	return &CheckoutResult{Cart: summary, Message: message}, nil
}
