package catalog

import (
	"context"
	"strings"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PageLimits bounds listing page sizes
type PageLimits struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultPageLimits returns the storefront's default limits
func DefaultPageLimits() PageLimits {
	return PageLimits{DefaultPageSize: 12, MaxPageSize: 100}
}

// ListingService serves read-only catalog queries: the home listing, product
// detail, category listing and title search. Every listing orders by product
// id so repeated calls over unchanged data return identical pages.
type ListingService struct {
	productRepo catalog.ProductRepository
	limits      PageLimits
	logger      *zap.Logger
}

// NewListingService creates a new ListingService
func NewListingService(productRepo catalog.ProductRepository, limits PageLimits, logger *zap.Logger) *ListingService {
	if limits.DefaultPageSize <= 0 {
		limits.DefaultPageSize = DefaultPageLimits().DefaultPageSize
	}
	if limits.MaxPageSize < limits.DefaultPageSize {
		limits.MaxPageSize = limits.DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingService{
		productRepo: productRepo,
		limits:      limits,
		logger:      logger,
	}
}

// ListProducts returns a page of the whole catalog
func (s *ListingService) ListProducts(ctx context.Context, page, pageSize int) (*ProductPage, error) {
	filter := s.filter(page, pageSize, "")

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return toPage(products, total, filter), nil
}

// GetProduct returns a product by slug
func (s *ListingService) GetProduct(ctx context.Context, slug string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// ListByCategory returns a page of products whose category equals category
func (s *ListingService) ListByCategory(ctx context.Context, category string, page, pageSize int) (_ *ProductPage, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "list_by_category", telemetry.SpanAttrCategory, category)
	defer func() { telemetry.EndSpan(span, err) }()

	c := catalog.Category(strings.ToLower(strings.TrimSpace(category)))
	if !c.IsValid() {
		return nil, shared.NewValidationError(shared.FieldError{
			Field:   "category",
			Message: "Unknown category: " + category,
		})
	}

	filter := s.filter(page, pageSize, "")
	products, err := s.productRepo.FindByCategory(ctx, c, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.CountByCategory(ctx, c)
	if err != nil {
		return nil, err
	}

	logger.L(ctx, s.logger).Debug("Listed products by category",
		zap.String("category", string(c)),
		zap.Int("page", filter.Page),
		zap.Int("count", len(products)),
	)

	return toPage(products, total, filter), nil
}

// Search returns products whose title contains query, ignoring case.
// A blank query yields an empty page rather than an error.
func (s *ListingService) Search(ctx context.Context, query string, page, pageSize int) (_ *ProductPage, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "search")
	defer func() { telemetry.EndSpan(span, err) }()

	query = strings.TrimSpace(query)
	filter := s.filter(page, pageSize, query)
	if query == "" {
		return toPage(nil, 0, filter), nil
	}

	products, err := s.productRepo.SearchByTitle(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.CountByTitle(ctx, query)
	if err != nil {
		return nil, err
	}

	return toPage(products, total, filter), nil
}

func (s *ListingService) filter(page, pageSize int, search string) shared.Filter {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.limits.DefaultPageSize
	}
	if pageSize > s.limits.MaxPageSize {
		pageSize = s.limits.MaxPageSize
	}
	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "id",
		OrderDir: "asc",
		Search:   search,
	}
}

func toPage(products []catalog.Product, total int64, filter shared.Filter) *ProductPage {
	p := shared.NewPaginated(ToProductResponses(products), total, filter.Page, filter.PageSize)
	return &ProductPage{
		Items:      p.Items,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}
}
