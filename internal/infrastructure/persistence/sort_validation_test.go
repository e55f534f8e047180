package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns ASC", "", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"DESC uppercase returns DESC", "DESC", "DESC"},
		{"desc with whitespace returns DESC", "  desc ", "DESC"},
		{"invalid value returns ASC", "INVALID", "ASC"},
		{"sql injection attempt returns ASC", "DESC; DROP TABLE products;--", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"allowed field", "title", "title"},
		{"empty uses default", "", "id"},
		{"unknown uses default", "password", "id"},
		{"injection uses default", "id; DROP TABLE products", "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, ProductSortFields, "id"))
		})
	}
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "id ASC", OrderClause("", "", ProductSortFields))
	assert.Equal(t, "id DESC", OrderClause("id", "desc", ProductSortFields))
	assert.Equal(t, "price DESC, id ASC", OrderClause("price", "desc", ProductSortFields))
	assert.Equal(t, "id ASC", OrderClause("slug; --", "asc", ProductSortFields))
}
