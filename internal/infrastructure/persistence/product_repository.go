package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// search_title holds catalog.FoldTitle(title)
const titleSearchCondition = `search_title LIKE ? ESCAPE '\'`

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError("product.find_by_id", err)
	}
	return model.ToDomain(), nil
}

// FindBySlug finds a product by its slug
func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("slug = ?", strings.TrimSpace(slug)).
		First(&model).Error; err != nil {
		return nil, translateError("product.find_by_slug", err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, translateError("product.find_by_ids", err)
	}
	return toDomainProducts(rows), nil
}

// FindAll finds all products for the filter's page
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	return r.find("product.find_all", r.db.WithContext(ctx), filter)
}

// FindByCategory finds products with exactly the given category
func (r *GormProductRepository) FindByCategory(ctx context.Context, category catalog.Category, filter shared.Filter) ([]catalog.Product, error) {
	return r.find("product.find_by_category",
		r.db.WithContext(ctx).Where("category = ?", category), filter)
}

// SearchByTitle finds products whose title contains filter.Search,
// case-insensitively. An empty search matches nothing.
func (r *GormProductRepository) SearchByTitle(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	if strings.TrimSpace(filter.Search) == "" {
		return []catalog.Product{}, nil
	}
	return r.find("product.search_by_title",
		r.db.WithContext(ctx).Where(titleSearchCondition, containsPattern(filter.Search)), filter)
}

// Count counts all products
func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	return r.count("product.count", r.db.WithContext(ctx))
}

// CountByCategory counts products in a category
func (r *GormProductRepository) CountByCategory(ctx context.Context, category catalog.Category) (int64, error) {
	return r.count("product.count_by_category", r.db.WithContext(ctx).Where("category = ?", category))
}

// CountByTitle counts products matching a title search
func (r *GormProductRepository) CountByTitle(ctx context.Context, search string) (int64, error) {
	if strings.TrimSpace(search) == "" {
		return 0, nil
	}
	return r.count("product.count_by_title",
		r.db.WithContext(ctx).Where(titleSearchCondition, containsPattern(search)))
}

// ExistsBySlug checks whether a product with the slug exists
func (r *GormProductRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	n, err := r.count("product.exists_by_slug", r.db.WithContext(ctx).Where("slug = ?", slug))
	return n > 0, err
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return translateError("product.save", err)
	}
	return nil
}

func (r *GormProductRepository) find(op string, query *gorm.DB, filter shared.Filter) ([]catalog.Product, error) {
	var rows []models.ProductModel
	query = query.Model(&models.ProductModel{}).
		Order(OrderClause(filter.OrderBy, filter.OrderDir, ProductSortFields))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, translateError(op, err)
	}
	return toDomainProducts(rows), nil
}

func (r *GormProductRepository) count(op string, query *gorm.DB) (int64, error) {
	var n int64
	if err := query.Model(&models.ProductModel{}).Count(&n).Error; err != nil {
		return 0, translateError(op, err)
	}
	return n, nil
}

func toDomainProducts(rows []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, 0, len(rows))
	for i := range rows {
		products = append(products, *rows[i].ToDomain())
	}
	return products
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
