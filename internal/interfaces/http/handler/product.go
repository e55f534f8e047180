package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// ProductReader serves the public catalog. *catalogapp.ListingService implements it.
type ProductReader interface {
	ListProducts(ctx context.Context, page, pageSize int) (*catalogapp.ProductPage, error)
	GetProduct(ctx context.Context, slug string) (*catalogapp.ProductResponse, error)
	ListByCategory(ctx context.Context, category string, page, pageSize int) (*catalogapp.ProductPage, error)
	Search(ctx context.Context, query string, page, pageSize int) (*catalogapp.ProductPage, error)
}

// ProductCreator adds products. *catalogapp.ProductService implements it.
type ProductCreator interface {
	Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
}

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	BaseHandler
	reader  ProductReader
	creator ProductCreator
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(reader ProductReader, creator ProductCreator) *ProductHandler {
	return &ProductHandler{
		reader:  reader,
		creator: creator,
	}
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.reader.ListProducts(c.Request.Context(), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.page(c, page)
}

// GetBySlug handles GET /products/:slug
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	product, err := h.reader.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ListByCategory handles GET /categories/:category/products
func (h *ProductHandler) ListByCategory(c *gin.Context) {
	var req dto.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.reader.ListByCategory(c.Request.Context(), c.Param("category"), req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.page(c, page)
}

// Search handles GET /search?q=
func (h *ProductHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	page, err := h.reader.Search(c.Request.Context(), req.Query, req.Page, req.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.page(c, page)
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	product, err := h.creator.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

func (h *ProductHandler) page(c *gin.Context, page *catalogapp.ProductPage) {
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
