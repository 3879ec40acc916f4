// internal/events/bus.go
package events

import (
	"sync"
)

// Kind identifies an in-process cart signal. The set is closed: UI
// surfaces react to cart changes or to an explicit request to open
// the cart drawer, nothing else.
type Kind int

const (
	// CartChanged signals that a cart mutation succeeded. Carries no
	// payload: consumers re-read the snapshot from the cart service.
	CartChanged Kind = iota

	// RequestOpenDrawer asks the shell to open the cart drawer.
	RequestOpenDrawer
)

// String returns the wire name of the event kind
func (k Kind) String() string {
	switch k {
	case CartChanged:
		return "cart.changed"
	case RequestOpenDrawer:
		return "cart.open_drawer"
	default:
		return "unknown"
	}
}

// Handler is invoked synchronously on publish. Handlers must be
// idempotent: rapid repeated mutations produce rapid repeated calls
// with no deduplication.
type Handler func(kind Kind)

// Bus is a process-wide publish/subscribe channel for cart signals.
// Dispatch is synchronous and fire-and-forget; there is no queue, so
// a subscriber registered after a publish never sees that event.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[Kind]map[int]Handler
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Kind]map[int]Handler),
	}
}

// Subscribe registers a handler for the given kind and returns the
// matching unsubscribe function. Unsubscribing twice is harmless.
func (b *Bus) Subscribe(kind Kind, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID

	if b.handlers[kind] == nil {
		b.handlers[kind] = make(map[int]Handler)
	}
	b.handlers[kind][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[kind], id)
	}
}

// Publish dispatches the event to every currently registered handler
func (b *Bus) Publish(kind Kind) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[kind]))
	for _, h := range b.handlers[kind] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(kind)
	}
}
