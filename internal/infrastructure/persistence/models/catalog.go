package models

import (
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	AggregateModel
	Title         string           `gorm:"type:varchar(100);not null"`
	SearchTitle   string           `gorm:"type:text;not null;default:'';index:idx_products_search_title"`
	Price         decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	DiscountPrice *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Category      catalog.Category `gorm:"type:varchar(20);not null;index:idx_products_category"`
	Label         catalog.Label    `gorm:"type:varchar(20);not null"`
	Slug          string           `gorm:"type:varchar(120);not null;uniqueIndex:idx_products_slug"`
	Description   string           `gorm:"type:text;not null;default:''"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Title:             m.Title,
		Price:             m.Price,
		DiscountPrice:     m.DiscountPrice,
		Category:          m.Category,
		Label:             m.Label,
		Slug:              m.Slug,
		Description:       m.Description,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Title = p.Title
	m.SearchTitle = catalog.FoldTitle(p.Title)
	m.Price = p.Price
	m.DiscountPrice = p.DiscountPrice
	m.Category = p.Category
	m.Label = p.Label
	m.Slug = p.Slug
	m.Description = p.Description
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
