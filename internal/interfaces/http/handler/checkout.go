package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CheckoutFlow runs the checkout steps. *cartapp.CheckoutService implements it.
type CheckoutFlow interface {
	SubmitBillingAddress(ctx context.Context, ownerID uuid.UUID, input cartapp.BillingAddressInput) (*cartapp.CheckoutResult, error)
	SelectPaymentOption(ctx context.Context, ownerID uuid.UUID, option string) (*cartapp.CheckoutResult, error)
}

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	BaseHandler
	checkout CheckoutFlow
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkout CheckoutFlow) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// SubmitBillingAddress handles POST /checkout.
// Field rules are enforced by the checkout service so failures come back as 422.
func (h *CheckoutHandler) SubmitBillingAddress(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	var input cartapp.BillingAddressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		if middleware.IsBodyTooLarge(err) {
			middleware.AbortBodyTooLarge(c)
			return
		}
		h.BadRequest(c, "Malformed billing address")
		return
	}

	result, err := h.checkout.SubmitBillingAddress(c.Request.Context(), ownerID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result.Cart, toMessage(result.Message))
}

// SelectPaymentOption handles POST /checkout/payment/:option
func (h *CheckoutHandler) SelectPaymentOption(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}

	result, err := h.checkout.SelectPaymentOption(c.Request.Context(), ownerID, c.Param("option"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result.Cart, toMessage(result.Message))
}
