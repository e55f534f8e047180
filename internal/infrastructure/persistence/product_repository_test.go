package persistence

import (
	"context"
	"regexp"
	"sort"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func seedProducts(t *testing.T, repo *GormProductRepository, products ...*catalog.Product) {
	t.Helper()
	for _, p := range products {
		require.NoError(t, repo.Save(context.Background(), p))
	}
}

func TestGormProductRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newTestDatabase(t).DB)

	product := newTestProduct(t, "Linen Shirt", "49.90", catalog.CategoryShirt)
	discount := decimal.RequireFromString("39.90")
	require.NoError(t, product.SetDiscountPrice(&discount))
	seedProducts(t, repo, product)

	t.Run("by slug", func(t *testing.T) {
		found, err := repo.FindBySlug(ctx, "linen-shirt")
		require.NoError(t, err)
		assert.Equal(t, product.ID, found.ID)
		assert.Equal(t, "Linen Shirt", found.Title)
		assert.True(t, product.Price.Equal(found.Price))
		require.NotNil(t, found.DiscountPrice)
		assert.True(t, discount.Equal(*found.DiscountPrice))
		assert.Equal(t, product.Version, found.Version)
	})

	t.Run("by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, catalog.CategoryShirt, found.Category)
	})

	t.Run("missing slug is not found", func(t *testing.T) {
		_, err := repo.FindBySlug(ctx, "nope")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("exists by slug", func(t *testing.T) {
		exists, err := repo.ExistsBySlug(ctx, "linen-shirt")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsBySlug(ctx, "other")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate slug is an infrastructure error", func(t *testing.T) {
		dup := newTestProduct(t, "Linen Shirt", "10", catalog.CategoryShirt)
		err := repo.Save(ctx, dup)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInfrastructure)
	})
}

func TestGormProductRepository_FindByCategory(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newTestDatabase(t).DB)

	var shirtIDs []string
	for _, title := range []string{"Shirt A", "Shirt B", "Shirt C"} {
		p := newTestProduct(t, title, "10", catalog.CategoryShirt)
		seedProducts(t, repo, p)
		shirtIDs = append(shirtIDs, p.ID.String())
	}
	seedProducts(t, repo, newTestProduct(t, "Rain Coat", "80", catalog.CategoryOutwear))
	sort.Strings(shirtIDs)

	t.Run("returns only the category ordered by id", func(t *testing.T) {
		got, err := repo.FindByCategory(ctx, catalog.CategoryShirt, shared.Filter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		require.Len(t, got, 3)
		for i, p := range got {
			assert.Equal(t, shirtIDs[i], p.ID.String())
			assert.Equal(t, catalog.CategoryShirt, p.Category)
		}
	})

	t.Run("pages are stable", func(t *testing.T) {
		page2, err := repo.FindByCategory(ctx, catalog.CategoryShirt, shared.Filter{Page: 2, PageSize: 2})
		require.NoError(t, err)
		require.Len(t, page2, 1)
		assert.Equal(t, shirtIDs[2], page2[0].ID.String())
	})

	t.Run("empty category", func(t *testing.T) {
		got, err := repo.FindByCategory(ctx, catalog.CategorySportWear, shared.Filter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Empty(t, got)

		n, err := repo.CountByCategory(ctx, catalog.CategorySportWear)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("counts", func(t *testing.T) {
		n, err := repo.CountByCategory(ctx, catalog.CategoryShirt)
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)

		n, err = repo.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 4, n)
	})
}

func TestGormProductRepository_SearchByTitle(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newTestDatabase(t).DB)
	seedProducts(t, repo,
		newTestProduct(t, "Blue Shirt", "10", catalog.CategoryShirt),
		newTestProduct(t, "SHIRT dress", "20", catalog.CategoryShirt),
		newTestProduct(t, "Coat 100% wool", "90", catalog.CategoryOutwear),
		newTestProduct(t, "Coat wool 100", "90", catalog.CategoryOutwear),
		newTestProduct(t, "Élan Jacket", "70", catalog.CategoryOutwear),
		newTestProduct(t, "Straße Hoodie", "40", catalog.CategorySportWear),
	)

	tests := []struct {
		name   string
		search string
		want   int
	}{
		{"case-insensitive substring", "shirt", 2},
		{"no match", "jacket", 0},
		{"empty query matches nothing", "", 0},
		{"blank query matches nothing", "   ", 0},
		{"percent is literal", "100%", 1},
		{"underscore is literal", "shirt_", 0},
		{"accented title lower case", "élan", 1},
		{"accented title upper case", "ÉLAN", 1},
		{"accented title exact case", "Élan", 1},
		{"sharp s folds to ss", "STRASSE", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.SearchByTitle(ctx, shared.Filter{Page: 1, PageSize: 10, Search: tt.search})
			require.NoError(t, err)
			assert.Len(t, got, tt.want)

			n, err := repo.CountByTitle(ctx, tt.search)
			require.NoError(t, err)
			assert.EqualValues(t, tt.want, n)
		})
	}
}

func TestGormProductRepository_FindByIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newTestDatabase(t).DB)
	a := newTestProduct(t, "A", "1", catalog.CategoryShirt)
	b := newTestProduct(t, "B", "2", catalog.CategoryShirt)
	seedProducts(t, repo, a, b)

	got, err := repo.FindByIDs(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGormProductRepository_PostgresSQL(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	repo := NewGormProductRepository(db)

	t.Run("category listing filters exactly and orders by id", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE category = $1 ORDER BY id ASC LIMIT $2 OFFSET $3`)).
			WithArgs(catalog.CategoryOutwear, 5, 5).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))

		_, err := repo.FindByCategory(context.Background(), catalog.CategoryOutwear, shared.Filter{Page: 2, PageSize: 5})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("title search folds and escapes", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE search_title LIKE $1 ESCAPE '\' ORDER BY id ASC LIMIT $2`)).
			WithArgs(`%50\% off é%`, 10).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))

		_, err := repo.SearchByTitle(context.Background(), shared.Filter{Page: 1, PageSize: 10, Search: "50% OFF É"})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver failures become infrastructure errors", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "products"`).WillReturnError(assert.AnError)

		_, err := repo.FindBySlug(context.Background(), "x")
		assert.ErrorIs(t, err, shared.ErrInfrastructure)
		assert.ErrorIs(t, err, assert.AnError)
	})
}
