package catalog

import (
	"context"
	"testing"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListingService_ListByCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the requested page of one category", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewListingService(repo, DefaultPageLimits(), nil)

		shirts := []catalog.Product{
			newTestProduct(t, "Oxford Shirt", catalog.CategoryShirt),
			newTestProduct(t, "Polo Shirt", catalog.CategoryShirt),
		}
		expected := shared.Filter{Page: 2, PageSize: 12, OrderBy: "id", OrderDir: "asc"}
		repo.On("FindByCategory", mock.Anything, catalog.CategoryShirt, expected).Return(shirts, nil)
		repo.On("CountByCategory", mock.Anything, catalog.CategoryShirt).Return(int64(14), nil)

		page, err := svc.ListByCategory(ctx, "shirt", 2, 12)
		require.NoError(t, err)

		assert.Len(t, page.Items, 2)
		assert.Equal(t, int64(14), page.Total)
		assert.Equal(t, 2, page.TotalPages)
		for _, item := range page.Items {
			assert.Equal(t, "shirt", item.Category)
		}
		repo.AssertExpectations(t)
	})

	t.Run("applies default and max page sizes", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewListingService(repo, PageLimits{DefaultPageSize: 12, MaxPageSize: 50}, nil)

		repo.On("FindByCategory", mock.Anything, catalog.CategoryOutwear, shared.Filter{Page: 1, PageSize: 12, OrderBy: "id", OrderDir: "asc"}).
			Return([]catalog.Product{}, nil).Once()
		repo.On("FindByCategory", mock.Anything, catalog.CategoryOutwear, shared.Filter{Page: 1, PageSize: 50, OrderBy: "id", OrderDir: "asc"}).
			Return([]catalog.Product{}, nil).Once()
		repo.On("CountByCategory", mock.Anything, catalog.CategoryOutwear).Return(int64(0), nil)

		_, err := svc.ListByCategory(ctx, "outwear", 0, 0)
		require.NoError(t, err)
		page, err := svc.ListByCategory(ctx, "OUTWEAR", -1, 500)
		require.NoError(t, err)

		assert.NotNil(t, page.Items)
		assert.Empty(t, page.Items)
		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewListingService(repo, DefaultPageLimits(), nil)

		_, err := svc.ListByCategory(ctx, "hats", 1, 12)
		require.Error(t, err)

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "category", verr.Fields[0].Field)
		repo.AssertNotCalled(t, "FindByCategory", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestListingService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("blank query returns an empty page without querying", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewListingService(repo, DefaultPageLimits(), nil)

		page, err := svc.Search(ctx, "   ", 1, 12)
		require.NoError(t, err)

		assert.Empty(t, page.Items)
		assert.Equal(t, int64(0), page.Total)
		repo.AssertNotCalled(t, "SearchByTitle", mock.Anything, mock.Anything)
	})

	t.Run("passes the trimmed query to the repository", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewListingService(repo, DefaultPageLimits(), nil)

		found := []catalog.Product{newTestProduct(t, "Polo Shirt", catalog.CategoryShirt)}
		repo.On("SearchByTitle", mock.Anything, shared.Filter{Page: 1, PageSize: 12, OrderBy: "id", OrderDir: "asc", Search: "polo"}).Return(found, nil)
		repo.On("CountByTitle", mock.Anything, "polo").Return(int64(1), nil)

		page, err := svc.Search(ctx, " polo ", 1, 0)
		require.NoError(t, err)

		require.Len(t, page.Items, 1)
		assert.Equal(t, "Polo Shirt", page.Items[0].Title)
	})
}

func TestListingService_GetProduct(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := NewListingService(repo, DefaultPageLimits(), nil)

	product := newTestProduct(t, "Rain Coat", catalog.CategoryOutwear)
	repo.On("FindBySlug", mock.Anything, "rain-coat").Return(&product, nil)
	repo.On("FindBySlug", mock.Anything, "missing").Return(nil, shared.ErrNotFound)

	resp, err := svc.GetProduct(ctx, "rain-coat")
	require.NoError(t, err)
	assert.Equal(t, product.ID, resp.ID)

	_, err = svc.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListingService_ListProducts(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := NewListingService(repo, DefaultPageLimits(), nil)

	all := []catalog.Product{
		newTestProduct(t, "Rain Coat", catalog.CategoryOutwear),
		newTestProduct(t, "Track Jacket", catalog.CategorySportWear),
	}
	repo.On("FindAll", mock.Anything, shared.Filter{Page: 1, PageSize: 12, OrderBy: "id", OrderDir: "asc"}).Return(all, nil)
	repo.On("Count", mock.Anything).Return(int64(2), nil)

	page, err := svc.ListProducts(ctx, 1, 12)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 1, page.TotalPages)
}
