package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// PriceBook maps a product to its effective price (discount price when set,
// else unit price)
type PriceBook map[uuid.UUID]decimal.Decimal

// OrderTotal sums quantity × effective price over every line of the order.
// Every product in the order must be present in prices.
func OrderTotal(order *DraftOrder, prices PriceBook) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range order.Lines {
		price, ok := prices[line.ProductID]
		if !ok {
			return decimal.Zero, shared.NewDomainError(shared.CodeNotFound, "Price not found for product "+line.ProductID.String())
		}
		total = total.Add(line.Total(price))
	}
	return total, nil
}
