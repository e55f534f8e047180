package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultLockTimeout bounds how long a cart mutation waits for the owner lock
const DefaultLockTimeout = 5 * time.Second

// CartService handles cart mutations. Every mutation for one owner runs under
// that owner's lock, so the read-modify-write of the draft order never
// interleaves with another request of the same owner.
type CartService struct {
	productRepo    catalog.ProductRepository
	orderRepo      cart.DraftOrderRepository
	locker         OwnerLocker
	lockTimeout    time.Duration
	eventPublisher shared.EventPublisher
	summary        summarizer
	logger         *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(
	productRepo catalog.ProductRepository,
	orderRepo cart.DraftOrderRepository,
	locker OwnerLocker,
	logger *zap.Logger,
) *CartService {
	if locker == nil {
		locker = NewInMemoryOwnerLocker()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		locker:      locker,
		lockTimeout: DefaultLockTimeout,
		summary:     summarizer{productRepo: productRepo},
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CartService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLockTimeout overrides DefaultLockTimeout
func (s *CartService) SetLockTimeout(timeout time.Duration) {
	if timeout > 0 {
		s.lockTimeout = timeout
	}
}

// AddToCart puts one unit of the product into the owner's cart, opening a
// draft order first when the owner has none.
func (s *CartService) AddToCart(ctx context.Context, ownerID uuid.UUID, slug string) (_ *CartResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "add_to_cart", telemetry.SpanAttrOwnerID, ownerID, telemetry.SpanAttrSlug, slug)
	defer func() { telemetry.EndSpan(span, err) }()
	ctx = logger.WithOwnerID(ctx, ownerID.String())

	product, err := s.findProduct(ctx, slug)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lock(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	created := false
	order, err := s.orderRepo.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		order, err = cart.NewDraftOrder(ownerID)
		if err != nil {
			return nil, err
		}
		created = true
	}

	line, incremented, err := order.AddProduct(product.ID)
	if err != nil {
		return nil, err
	}
	state := toLineState(*line, false)

	if err := s.save(ctx, order); err != nil {
		return nil, err
	}

	outcome, message := OutcomeAdded, infoMessage(msgItemAdded)
	switch {
	case created:
		outcome = OutcomeOrderCreated
	case incremented:
		outcome, message = OutcomeIncremented, infoMessage(msgQuantityUpdated)
	}

	logger.L(ctx, s.logger).Info("Cart item added",
		zap.String("order_id", order.ID.String()),
		zap.String("slug", product.Slug),
		zap.String("outcome", string(outcome)),
		zap.Int("quantity", state.Quantity),
	)

	return s.result(ctx, order, outcome, state, message)
}

// RemoveFromCart deletes the product's line from the owner's cart regardless
// of its quantity.
func (s *CartService) RemoveFromCart(ctx context.Context, ownerID uuid.UUID, slug string) (_ *CartResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "remove_from_cart", telemetry.SpanAttrOwnerID, ownerID, telemetry.SpanAttrSlug, slug)
	defer func() { telemetry.EndSpan(span, err) }()
	ctx = logger.WithOwnerID(ctx, ownerID.String())

	product, err := s.findProduct(ctx, slug)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lock(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	order, err := s.activeOrder(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	removed, err := order.RemoveProduct(product.ID)
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, order); err != nil {
		return nil, err
	}

	logger.L(ctx, s.logger).Info("Cart item removed",
		zap.String("order_id", order.ID.String()),
		zap.String("slug", product.Slug),
	)

	return s.result(ctx, order, OutcomeRemoved, toLineState(removed, true), warningMessage(msgItemRemoved))
}

// DecrementCartLine lowers the product's quantity by one, removing the line
// when it was at quantity 1.
func (s *CartService) DecrementCartLine(ctx context.Context, ownerID uuid.UUID, slug string) (_ *CartResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cart", "decrement_cart_line", telemetry.SpanAttrOwnerID, ownerID, telemetry.SpanAttrSlug, slug)
	defer func() { telemetry.EndSpan(span, err) }()
	ctx = logger.WithOwnerID(ctx, ownerID.String())

	product, err := s.findProduct(ctx, slug)
	if err != nil {
		return nil, err
	}

	unlock, err := s.lock(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	order, err := s.activeOrder(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	line, removed, err := order.DecrementProduct(product.ID)
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, order); err != nil {
		return nil, err
	}

	outcome, message := OutcomeDecremented, infoMessage(msgQuantityUpdated)
	if removed {
		outcome, message = OutcomeRemoved, warningMessage(msgItemRemoved)
	}

	logger.L(ctx, s.logger).Info("Cart line decremented",
		zap.String("order_id", order.ID.String()),
		zap.String("slug", product.Slug),
		zap.String("outcome", string(outcome)),
	)

	return s.result(ctx, order, outcome, toLineState(line, removed), message)
}

// GetCart returns the owner's order summary
func (s *CartService) GetCart(ctx context.Context, ownerID uuid.UUID) (*CartResponse, error) {
	order, err := s.activeOrder(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.summary.summarize(ctx, order)
}

// OrderTotal sums quantity × effective price over the order's lines
func (s *CartService) OrderTotal(ctx context.Context, order *cart.DraftOrder) (decimal.Decimal, error) {
	return s.summary.orderTotal(ctx, order)
}

func (s *CartService) findProduct(ctx context.Context, slug string) (*catalog.Product, error) {
	product, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Product not found: "+slug)
		}
		return nil, err
	}
	return product, nil
}

func (s *CartService) activeOrder(ctx context.Context, ownerID uuid.UUID) (*cart.DraftOrder, error) {
	return findActiveOrder(ctx, s.orderRepo, ownerID)
}

func (s *CartService) lock(ctx context.Context, ownerID uuid.UUID) (func(), error) {
	return lockOwner(ctx, s.locker, ownerID, s.lockTimeout)
}

func (s *CartService) save(ctx context.Context, order *cart.DraftOrder) error {
	if err := s.orderRepo.Save(ctx, order); err != nil {
		logger.L(ctx, s.logger).Error("Failed to save draft order",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
		return err
	}
	publishEvents(ctx, s.eventPublisher, s.logger, order)
	return nil
}

func (s *CartService) result(ctx context.Context, order *cart.DraftOrder, outcome Outcome, line LineState, message Message) (*CartResult, error) {
	summary, err := s.summary.summarize(ctx, order)
	if err != nil {
		return nil, err
	}
	return &CartResult{
		Outcome: outcome,
		Line:    line,
		Cart:    summary,
		Message: message,
	}, nil
}

func findActiveOrder(ctx context.Context, repo cart.DraftOrderRepository, ownerID uuid.UUID) (*cart.DraftOrder, error) {
	order, err := repo.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNoActiveOrder
		}
		return nil, err
	}
	return order, nil
}

// lockOwner bounds only the wait for the lock; the caller's ctx still governs
// the work done while holding it.
func lockOwner(ctx context.Context, locker OwnerLocker, ownerID uuid.UUID, timeout time.Duration) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return locker.Lock(lockCtx, ownerID)
}

// publishEvents hands the order's pending events to the publisher. Publish
// failures are logged; the cart change is already committed.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, log *zap.Logger, order *cart.DraftOrder) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	if publisher == nil || len(events) == 0 {
		return
	}
	if err := publisher.Publish(ctx, events...); err != nil {
		logger.L(ctx, log).Warn("Failed to publish cart events",
			zap.String("order_id", order.ID.String()),
			zap.Int("events", len(events)),
			zap.Error(err),
		)
	}
}
