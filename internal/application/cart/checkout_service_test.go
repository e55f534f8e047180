package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAddress() BillingAddressInput {
	return BillingAddressInput{
		StreetAddress:    "350 Fifth Avenue",
		ApartmentAddress: "Suite 3300",
		Country:          "us",
		Zip:              "10118",
	}
}

func newCheckoutFixture(t *testing.T) (*cartFixture, *CheckoutService) {
	t.Helper()
	f := newCartFixture(t)
	locker := NewInMemoryOwnerLocker()
	f.svc = NewCartService(f.products, f.orders, locker, nil)
	return f, NewCheckoutService(f.orders, f.products, locker, nil)
}

func TestCheckoutService_SubmitBillingAddress(t *testing.T) {
	ctx := context.Background()

	t.Run("attaches a new address to the draft", func(t *testing.T) {
		f, checkout := newCheckoutFixture(t)
		owner := uuid.New()
		_, err := f.svc.AddToCart(ctx, owner, "plain-tee")
		require.NoError(t, err)

		result, err := checkout.SubmitBillingAddress(ctx, owner, validAddress())
		require.NoError(t, err)

		assert.Equal(t, string(cart.OrderStateAddressAttached), result.Cart.State)
		require.NotNil(t, result.Cart.BillingAddress)
		assert.Equal(t, "US", result.Cart.BillingAddress.Country)
		assert.Equal(t, 1, f.orders.addresses)
	})

	t.Run("every submission creates a new address", func(t *testing.T) {
		f, checkout := newCheckoutFixture(t)
		owner := uuid.New()
		_, _ = f.svc.AddToCart(ctx, owner, "plain-tee")

		first, err := checkout.SubmitBillingAddress(ctx, owner, validAddress())
		require.NoError(t, err)
		second, err := checkout.SubmitBillingAddress(ctx, owner, validAddress())
		require.NoError(t, err)

		assert.NotEqual(t, first.Cart.BillingAddress.ID, second.Cart.BillingAddress.ID)
		assert.Equal(t, 2, f.orders.addresses)
	})

	t.Run("empty street fails validation and saves nothing", func(t *testing.T) {
		f, checkout := newCheckoutFixture(t)
		owner := uuid.New()
		_, _ = f.svc.AddToCart(ctx, owner, "plain-tee")
		saves := f.orders.saves

		input := validAddress()
		input.StreetAddress = "   "
		_, err := checkout.SubmitBillingAddress(ctx, owner, input)
		require.Error(t, err)

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Fields, 1)
		assert.Equal(t, "street_address", verr.Fields[0].Field)
		assert.Equal(t, 0, f.orders.addresses)
		assert.Equal(t, saves, f.orders.saves)

		summary, err := f.svc.GetCart(ctx, owner)
		require.NoError(t, err)
		assert.Nil(t, summary.BillingAddress)
	})

	t.Run("reports each invalid field", func(t *testing.T) {
		f, checkout := newCheckoutFixture(t)
		owner := uuid.New()
		_, _ = f.svc.AddToCart(ctx, owner, "plain-tee")

		_, err := checkout.SubmitBillingAddress(ctx, owner, BillingAddressInput{
			StreetAddress: "1 Main St",
			Country:       "XX",
			Zip:           "10118",
		})

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		fields := map[string]string{}
		for _, fe := range verr.Fields {
			fields[fe.Field] = fe.Message
		}
		assert.Contains(t, fields, "apartment_address")
		assert.Contains(t, fields, "country")
		assert.NotContains(t, fields, "zip", "zip is not judged against an invalid country")
	})

	t.Run("rejects a postal code that does not fit the country", func(t *testing.T) {
		f, checkout := newCheckoutFixture(t)
		owner := uuid.New()
		_, _ = f.svc.AddToCart(ctx, owner, "plain-tee")

		input := validAddress()
		input.Zip = "ABCDE"
		_, err := checkout.SubmitBillingAddress(ctx, owner, input)

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "zip", verr.Fields[0].Field)
	})

	t.Run("no draft order is NoActiveOrder", func(t *testing.T) {
		_, checkout := newCheckoutFixture(t)
		_, err := checkout.SubmitBillingAddress(ctx, uuid.New(), validAddress())
		assert.ErrorIs(t, err, shared.ErrNoActiveOrder)
	})
}

func TestCheckoutService_SelectPaymentOption(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an attached address", func(t *testing.T) {
		f, checkout := newCheckoutFixture(t)
		owner := uuid.New()
		_, _ = f.svc.AddToCart(ctx, owner, "plain-tee")

		_, err := checkout.SelectPaymentOption(ctx, owner, "stripe")
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("records the option", func(t *testing.T) {
		f, checkout := newCheckoutFixture(t)
		owner := uuid.New()
		_, _ = f.svc.AddToCart(ctx, owner, "plain-tee")
		_, err := checkout.SubmitBillingAddress(ctx, owner, validAddress())
		require.NoError(t, err)

		result, err := checkout.SelectPaymentOption(ctx, owner, "paypal")
		require.NoError(t, err)
		assert.Equal(t, "paypal", result.Cart.PaymentOption)
	})

	t.Run("rejects unknown option", func(t *testing.T) {
		f, checkout := newCheckoutFixture(t)
		owner := uuid.New()
		_, _ = f.svc.AddToCart(ctx, owner, "plain-tee")
		_, _ = checkout.SubmitBillingAddress(ctx, owner, validAddress())

		_, err := checkout.SelectPaymentOption(ctx, owner, "cash")
		require.Error(t, err)
	})
}
