package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   int
	deadline bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, w.deadline = ctx.Deadline()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed++
	return nil
}

func headerValue(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func newTestKafkaPublisher(w *fakeWriter) *KafkaEventPublisher {
	return newKafkaEventPublisher(w, KafkaPublisherConfig{
		Topic:        "storefront.cart-events",
		WriteTimeout: time.Second,
	}, zap.NewNop())
}

func TestKafkaEventPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newTestKafkaPublisher(w)
	order := newOrderWithLine(t)

	err := p.Publish(context.Background(), order.GetDomainEvents()...)
	require.NoError(t, err)

	require.Len(t, w.messages, 2)
	assert.True(t, w.deadline)
	for _, msg := range w.messages {
		assert.Equal(t, order.OwnerID.String(), string(msg.Key))
		assert.Equal(t, cart.AggregateTypeDraftOrder, headerValue(msg, HeaderAggregateType))
	}
	assert.Equal(t, cart.EventTypeDraftOrderOpened, headerValue(w.messages[0], HeaderEventType))
	assert.Equal(t, cart.EventTypeCartItemAdded, headerValue(w.messages[1], HeaderEventType))
}

func TestKafkaEventPublisher_Errors(t *testing.T) {
	t.Run("write failure is an infrastructure error", func(t *testing.T) {
		cause := errors.New("broker unavailable")
		p := newTestKafkaPublisher(&fakeWriter{err: cause})

		err := p.Publish(context.Background(), newOrderWithLine(t).GetDomainEvents()...)
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrInfrastructure)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("no events is a no-op", func(t *testing.T) {
		w := &fakeWriter{}
		p := newTestKafkaPublisher(w)

		require.NoError(t, p.Publish(context.Background()))
		assert.Empty(t, w.messages)
	})

	t.Run("publish after close fails and close is idempotent", func(t *testing.T) {
		w := &fakeWriter{}
		p := newTestKafkaPublisher(w)

		require.NoError(t, p.Close())
		require.NoError(t, p.Close())
		assert.Equal(t, 1, w.closed)

		err := p.Publish(context.Background(), newOrderWithLine(t).GetDomainEvents()...)
		assert.ErrorIs(t, err, shared.ErrInfrastructure)
	})
}
