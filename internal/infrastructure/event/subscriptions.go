package event

import (
	"slices"
	"sync"

	"github.com/storefront/backend/internal/domain/shared"
)

// subscriptions maps event types to handlers in subscription order.
// Handlers subscribed without types see every event, after the typed ones.
type subscriptions struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	catchAll []shared.EventHandler
}

func newSubscriptions() *subscriptions {
	return &subscriptions{byType: make(map[string][]shared.EventHandler)}
}

func (s *subscriptions) add(handler shared.EventHandler, eventTypes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(eventTypes) == 0 {
		s.catchAll = append(s.catchAll, handler)
		return
	}
	for _, eventType := range eventTypes {
		s.byType[eventType] = append(s.byType[eventType], handler)
	}
}

// handlersFor returns a snapshot so dispatch runs without holding the lock
func (s *subscriptions) handlersFor(eventType string) []shared.EventHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Concat(s.byType[eventType], s.catchAll)
}

// count returns the number of distinct handlers
func (s *subscriptions) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[shared.EventHandler]struct{})
	for _, h := range s.catchAll {
		seen[h] = struct{}{}
	}
	for _, handlers := range s.byType {
		for _, h := range handlers {
			seen[h] = struct{}{}
		}
	}
	return len(seen)
}
