package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// summarizer prices a draft order against the current catalog
type summarizer struct {
	productRepo catalog.ProductRepository
}

func (s summarizer) products(ctx context.Context, order *cart.DraftOrder) (map[uuid.UUID]*catalog.Product, error) {
	byID := make(map[uuid.UUID]*catalog.Product, len(order.Lines))
	if order.IsEmpty() {
		return byID, nil
	}

	products, err := s.productRepo.FindByIDs(ctx, order.ProductIDs())
	if err != nil {
		return nil, err
	}
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

func (s summarizer) priceBook(products map[uuid.UUID]*catalog.Product) cart.PriceBook {
	prices := make(cart.PriceBook, len(products))
	for id, p := range products {
		prices[id] = p.EffectivePrice()
	}
	return prices
}

func (s summarizer) orderTotal(ctx context.Context, order *cart.DraftOrder) (decimal.Decimal, error) {
	products, err := s.products(ctx, order)
	if err != nil {
		return decimal.Zero, err
	}
	return cart.OrderTotal(order, s.priceBook(products))
}

func (s summarizer) summarize(ctx context.Context, order *cart.DraftOrder) (*CartResponse, error) {
	products, err := s.products(ctx, order)
	if err != nil {
		return nil, err
	}

	total, err := cart.OrderTotal(order, s.priceBook(products))
	if err != nil {
		return nil, err
	}

	lines := make([]CartLineResponse, 0, len(order.Lines))
	for _, line := range order.Lines {
		p, ok := products[line.ProductID]
		if !ok {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Product not found for cart line "+line.ID.String())
		}
		lines = append(lines, toCartLineResponse(line, p))
	}

	return &CartResponse{
		OrderID:        order.ID,
		OwnerID:        order.OwnerID,
		State:          string(order.State()),
		Lines:          lines,
		ItemCount:      order.ItemCount(),
		TotalQuantity:  order.TotalQuantity(),
		Total:          total,
		StartedAt:      order.StartedAt,
		BillingAddress: toBillingAddressResponse(order.BillingAddress),
		PaymentOption:  string(order.PaymentOption),
	}, nil
}
