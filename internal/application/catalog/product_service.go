package catalog

import (
	"context"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles catalog management writes
type ProductService struct {
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo: productRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds a product to the catalog. The slug is derived from the title
// when the request leaves it empty and must not already be taken.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(
		req.Title,
		req.Price,
		catalog.Category(req.Category),
		catalog.Label(req.Label),
		req.Slug,
		req.Description,
	)
	if err != nil {
		return nil, err
	}
	if req.DiscountPrice != nil {
		if err := product.SetDiscountPrice(req.DiscountPrice); err != nil {
			return nil, err
		}
	}

	exists, err := s.productRepo.ExistsBySlug(ctx, product.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Product with this slug already exists")
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to create product", zap.String("slug", product.Slug), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("slug", product.Slug),
		zap.String("category", string(product.Category)),
	)

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, product.GetDomainEvents()...); err != nil {
			s.logger.Warn("Failed to publish product events", zap.Error(err))
		}
	}
	product.ClearDomainEvents()

	response := ToProductResponse(product)
	return &response, nil
}
