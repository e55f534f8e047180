package cart

import (
	"context"

	"github.com/google/uuid"
)

// DraftOrderRepository defines the interface for draft order persistence
type DraftOrderRepository interface {
	// FindActiveByOwner returns the owner's non-finalized draft order with its
	// lines and billing address. Returns shared.ErrNotFound when none exists.
	FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) (*DraftOrder, error)

	// Save creates or updates the order, its lines and a newly attached
	// billing address in one transaction. Lines no longer in the order are
	// deleted.
	Save(ctx context.Context, order *DraftOrder) error
}
