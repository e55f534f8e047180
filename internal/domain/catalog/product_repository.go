package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence.
// Listing methods order by id ascending so pages are stable.
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySlug finds a product by its slug
	FindBySlug(ctx context.Context, slug string) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// FindAll finds all products for the filter's page
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindByCategory finds products with exactly the given category
	FindByCategory(ctx context.Context, category Category, filter shared.Filter) ([]Product, error)

	// SearchByTitle finds products whose title contains filter.Search, case-insensitively
	SearchByTitle(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Count counts all products
	Count(ctx context.Context) (int64, error)

	// CountByCategory counts products in a category
	CountByCategory(ctx context.Context, category Category) (int64, error)

	// CountByTitle counts products matching a title search
	CountByTitle(ctx context.Context, search string) (int64, error)

	// ExistsBySlug checks whether a product with the slug exists
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}
