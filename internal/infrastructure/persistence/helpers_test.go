package persistence

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// newTestDatabase opens a migrated sqlite database private to the test
func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "storefront.db"),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestProduct(t *testing.T, title, price string, category catalog.Category) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(title, decimal.RequireFromString(price), category, catalog.LabelPrimary, "", "")
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}
