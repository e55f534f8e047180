package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/handler"
)

// Handlers are the storefront endpoints mounted by RegisterStorefront
type Handlers struct {
	Products *handler.ProductHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Health   *handler.HealthHandler
}

// RegisterStorefront adds the catalog, cart and checkout routes. Browsing is
// public; catalog writes, cart and checkout run behind auth.
func (r *Router) RegisterStorefront(h Handlers, auth ...gin.HandlerFunc) *Router {
	public := NewRouteGroup("").
		GET("/health", h.Health.Check).
		GET("/products", h.Products.List).
		GET("/products/:slug", h.Products.GetBySlug).
		GET("/categories/:category/products", h.Products.ListByCategory).
		GET("/search", h.Products.Search)

	shopping := NewRouteGroup("").Use(auth...).
		POST("/products", h.Products.Create)

	shopping.Group("/cart").
		GET("", h.Cart.Get).
		POST("/items/:slug", h.Cart.Add).
		DELETE("/items/:slug", h.Cart.Remove).
		POST("/items/:slug/decrement", h.Cart.Decrement)

	shopping.Group("/checkout").
		POST("", h.Checkout.SubmitBillingAddress).
		POST("/payment/:option", h.Checkout.SelectPaymentOption)

	return r.Register(public).Register(shopping)
}
