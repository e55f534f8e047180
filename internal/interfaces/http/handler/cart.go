package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// CartManager mutates an owner's draft order. *cartapp.CartService implements it.
type CartManager interface {
	AddToCart(ctx context.Context, ownerID uuid.UUID, slug string) (*cartapp.CartResult, error)
	RemoveFromCart(ctx context.Context, ownerID uuid.UUID, slug string) (*cartapp.CartResult, error)
	DecrementCartLine(ctx context.Context, ownerID uuid.UUID, slug string) (*cartapp.CartResult, error)
	GetCart(ctx context.Context, ownerID uuid.UUID) (*cartapp.CartResponse, error)
}

// CartMutation is the data of every cart mutation response
type CartMutation struct {
	Outcome cartapp.Outcome       `json:"outcome"`
	Line    cartapp.LineState     `json:"line"`
	Cart    *cartapp.CartResponse `json:"cart"`
}

// CartHandler handles the owner's cart endpoints
type CartHandler struct {
	BaseHandler
	carts CartManager
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts CartManager) *CartHandler {
	return &CartHandler{carts: carts}
}

// Get handles GET /cart
func (h *CartHandler) Get(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	summary, err := h.carts.GetCart(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Add handles POST /cart/items/:slug
func (h *CartHandler) Add(c *gin.Context) {
	h.mutate(c, h.carts.AddToCart)
}

// Remove handles DELETE /cart/items/:slug
func (h *CartHandler) Remove(c *gin.Context) {
	h.mutate(c, h.carts.RemoveFromCart)
}

// Decrement handles POST /cart/items/:slug/decrement
func (h *CartHandler) Decrement(c *gin.Context) {
	h.mutate(c, h.carts.DecrementCartLine)
}

type cartMutator func(ctx context.Context, ownerID uuid.UUID, slug string) (*cartapp.CartResult, error)

func (h *CartHandler) mutate(c *gin.Context, fn cartMutator) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	result, err := fn(c.Request.Context(), ownerID, c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CartMutation{
		Outcome: result.Outcome,
		Line:    result.Line,
		Cart:    result.Cart,
	}, toMessage(result.Message))
}

func toMessage(m cartapp.Message) dto.Message {
	return dto.Message{Level: string(m.Level), Text: m.Text}
}
