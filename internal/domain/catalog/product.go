package catalog

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Category groups products on the storefront
type Category string

const (
	CategoryShirt     Category = "shirt"
	CategorySportWear Category = "sport_wear"
	CategoryOutwear   Category = "outwear"
)

// AllCategories lists every valid category in display order
func AllCategories() []Category {
	return []Category{CategoryShirt, CategorySportWear, CategoryOutwear}
}

// IsValid reports whether c is a known category
func (c Category) IsValid() bool {
	switch c {
	case CategoryShirt, CategorySportWear, CategoryOutwear:
		return true
	}
	return false
}

// DisplayName returns the human label of the category
func (c Category) DisplayName() string {
	switch c {
	case CategoryShirt:
		return "Shirt"
	case CategorySportWear:
		return "Sport Wear"
	case CategoryOutwear:
		return "Out Wear"
	}
	return string(c)
}

// Label is a presentation hint rendered as a badge next to the product
type Label string

const (
	LabelPrimary   Label = "primary"
	LabelSecondary Label = "secondary"
	LabelDanger    Label = "danger"
)

// IsValid reports whether l is a known label
func (l Label) IsValid() bool {
	switch l {
	case LabelPrimary, LabelSecondary, LabelDanger:
		return true
	}
	return false
}

const (
	maxTitleLength = 100
	maxSlugLength  = 120
)

// Product is a catalog item that can be put into a cart.
// It is the aggregate root of the catalog context.
type Product struct {
	shared.BaseAggregateRoot
	Title         string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	Category      Category
	Label         Label
	Slug          string
	Description   string
}

// NewProduct creates a new product. When slug is empty it is derived from the title.
// Every rejected field is reported in one *shared.ValidationError.
func NewProduct(title string, price decimal.Decimal, category Category, label Label, slug, description string) (*Product, error) {
	title = strings.TrimSpace(title)
	verr := shared.NewValidationError()
	validateTitle(verr, title)
	validatePrice(verr, price)
	if !category.IsValid() {
		verr.Add("category", "Unknown product category: "+string(category))
	}
	if !label.IsValid() {
		verr.Add("label", "Unknown product label: "+string(label))
	}

	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = Slugify(title)
	}
	validateSlug(verr, slug)

	if verr.HasErrors() {
		return nil, verr
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Price:             price,
		Category:          category,
		Label:             label,
		Slug:              slug,
		Description:       description,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// SetDiscountPrice sets or clears (nil) the discount price
func (p *Product) SetDiscountPrice(discount *decimal.Decimal) error {
	if discount != nil {
		if !discount.IsPositive() {
			return shared.NewValidationError(shared.FieldError{Field: "discount_price", Message: "Discount price must be positive"})
		}
		if discount.GreaterThan(p.Price) {
			return shared.NewValidationError(shared.FieldError{Field: "discount_price", Message: "Discount price cannot exceed the unit price"})
		}
		d := *discount
		discount = &d
	}

	p.DiscountPrice = discount
	p.Touch()

	return nil
}

// EffectivePrice is the discount price when set, else the unit price
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// HasDiscount reports whether a discount price is set
func (p *Product) HasDiscount() bool {
	return p.DiscountPrice != nil
}

func validateTitle(verr *shared.ValidationError, title string) {
	switch {
	case title == "":
		verr.Add("title", "Product title cannot be empty")
	case utf8.RuneCountInString(title) > maxTitleLength:
		verr.Add("title", "Product title cannot exceed 100 characters")
	}
}

func validatePrice(verr *shared.ValidationError, price decimal.Decimal) {
	if !price.IsPositive() {
		verr.Add("price", "Product price must be positive")
	}
}

func validateSlug(verr *shared.ValidationError, slug string) {
	if slug == "" {
		verr.Add("slug", "Product slug cannot be empty; use a title with at least one letter or digit")
		return
	}
	if len(slug) > maxSlugLength {
		verr.Add("slug", "Product slug cannot exceed 120 characters")
		return
	}
	for _, r := range slug {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_') {
			verr.Add("slug", "Product slug can only contain lowercase letters, numbers, underscores, and hyphens")
			return
		}
	}
}
