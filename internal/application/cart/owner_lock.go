package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// OwnerLocker serializes cart mutations per owner. Lock blocks until the
// owner's lock is held or ctx is done; the returned unlock must be called
// exactly once (extra calls are no-ops).
type OwnerLocker interface {
	Lock(ctx context.Context, ownerID uuid.UUID) (unlock func(), err error)
}

type ownerSlot struct {
	held chan struct{}
	refs int
}

// InMemoryOwnerLocker is a process-local OwnerLocker. Slots are reference
// counted and dropped once no goroutine holds or waits on them.
type InMemoryOwnerLocker struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*ownerSlot
}

// NewInMemoryOwnerLocker creates a new InMemoryOwnerLocker
func NewInMemoryOwnerLocker() *InMemoryOwnerLocker {
	return &InMemoryOwnerLocker{slots: make(map[uuid.UUID]*ownerSlot)}
}

// Lock acquires the owner's lock
func (l *InMemoryOwnerLocker) Lock(ctx context.Context, ownerID uuid.UUID) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[ownerID]
	if !ok {
		slot = &ownerSlot{held: make(chan struct{}, 1)}
		l.slots[ownerID] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.held <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-slot.held
				l.release(ownerID, slot)
			})
		}, nil
	case <-ctx.Done():
		l.release(ownerID, slot)
		return nil, shared.NewInfrastructureError("cart.lock", ctx.Err())
	}
}

// Len returns the number of owners currently holding or waiting on a lock
func (l *InMemoryOwnerLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}

func (l *InMemoryOwnerLocker) release(ownerID uuid.UUID, slot *ownerSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, ownerID)
	}
}
