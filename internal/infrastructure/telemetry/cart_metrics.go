package telemetry

import (
	"context"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
)

// CartMetrics counts storefront activity from published domain events. It
// is subscribed to the event bus, so counts reflect saved changes only.
type CartMetrics struct {
	ordersOpened     *Counter
	itemsAdded       *Counter
	itemsRemoved     *Counter
	paymentsSelected *Counter
	productsCreated  *Counter
}

// NewCartMetrics creates the storefront business counters on meter.
func NewCartMetrics(meter metric.Meter) (*CartMetrics, error) {
	var (
		m   CartMetrics
		err error
	)
	counters := []struct {
		dst        **Counter
		name, help string
		unit       string
	}{
		{&m.ordersOpened, "storefront_draft_orders_opened_total", "Draft orders opened by a first add-to-cart", "{order}"},
		{&m.itemsAdded, "storefront_cart_items_added_total", "Units added to carts, by new line or increment", "{item}"},
		{&m.itemsRemoved, "storefront_cart_items_removed_total", "Units taken out of carts, by decrement or line removal", "{item}"},
		{&m.paymentsSelected, "storefront_payment_options_selected_total", "Payment option selections by option", "{selection}"},
		{&m.productsCreated, "storefront_products_created_total", "Catalog products created", "{product}"},
	}
	for _, c := range counters {
		if *c.dst, err = NewCounter(meter, c.name, c.help, c.unit); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// Handle increments the counter matching evt
func (m *CartMetrics) Handle(ctx context.Context, evt shared.DomainEvent) error {
	switch evt.EventType() {
	case cart.EventTypeDraftOrderOpened:
		m.ordersOpened.Inc(ctx)
	case cart.EventTypeCartItemAdded:
		m.itemsAdded.Inc(ctx, AttrCartChange.String("new_line"))
	case cart.EventTypeCartItemIncremented:
		m.itemsAdded.Inc(ctx, AttrCartChange.String("increment"))
	case cart.EventTypeCartLineDecremented:
		m.itemsRemoved.Inc(ctx, AttrCartChange.String("decrement"))
	case cart.EventTypeCartItemRemoved:
		m.itemsRemoved.Inc(ctx, AttrCartChange.String("remove"))
	case cart.EventTypePaymentOptionSelected:
		if e, ok := evt.(*cart.PaymentOptionSelectedEvent); ok {
			m.paymentsSelected.Inc(ctx, AttrPaymentOption.String(string(e.PaymentOption)))
		}
	case catalog.EventTypeProductCreated:
		m.productsCreated.Inc(ctx)
	}
	return nil
}

// EventTypes lists the events that feed a counter
func (m *CartMetrics) EventTypes() []string {
	return []string{
		cart.EventTypeDraftOrderOpened,
		cart.EventTypeCartItemAdded,
		cart.EventTypeCartItemIncremented,
		cart.EventTypeCartLineDecremented,
		cart.EventTypeCartItemRemoved,
		cart.EventTypePaymentOptionSelected,
		catalog.EventTypeProductCreated,
	}
}

var _ shared.EventHandler = (*CartMetrics)(nil)
