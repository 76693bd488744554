// Package hub provides the process-wide publish/subscribe bus used for
// lifecycle notifications and cross-feature signaling.
package hub

import (
	"reflect"
	"sync"

	"github.com/arthur-debert/weft/pkg/logging"
)

// Handler receives events published on the hub.
type Handler func(event string, payload interface{})

// Subscription identifies a single registration of a handler for an event.
// It allows exact removal even when several closures share the same code
// pointer.
type Subscription struct {
	event   string
	handler Handler
}

// Event returns the event name this subscription is bound to.
func (s *Subscription) Event() string {
	return s.event
}

// Hub is a synchronous publish/subscribe bus. Handlers run inline on the
// caller's goroutine, in registration order.
type Hub struct {
	mu            sync.RWMutex
	subscriptions map[string][]*Subscription
}

// New creates an empty Hub
func New() *Hub {
	return &Hub{
		subscriptions: make(map[string][]*Subscription),
	}
}

// On registers a handler for an event and returns its subscription
func (h *Hub) On(event string, handler Handler) *Subscription {
	if handler == nil {
		return nil
	}

	sub := &Subscription{event: event, handler: handler}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscriptions[event] = append(h.subscriptions[event], sub)
	return sub
}

// Off removes the first registration of handler for event. Removing a
// handler that was never registered is a no-op.
func (h *Hub) Off(event string, handler Handler) {
	if handler == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subscriptions[event]
	for i, sub := range subs {
		if sameHandler(sub.handler, handler) {
			h.subscriptions[event] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(h.subscriptions[event]) == 0 {
		delete(h.subscriptions, event)
	}
}

// Remove detaches an exact subscription. Removing an already-removed
// subscription is a no-op.
func (h *Hub) Remove(sub *Subscription) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subscriptions[sub.event]
	for i, s := range subs {
		if s == sub {
			h.subscriptions[sub.event] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(h.subscriptions[sub.event]) == 0 {
		delete(h.subscriptions, sub.event)
	}
}

// Trigger publishes an event, invoking every registered handler in order
func (h *Hub) Trigger(event string, payload interface{}) {
	h.mu.RLock()
	subs := make([]*Subscription, len(h.subscriptions[event]))
	copy(subs, h.subscriptions[event])
	h.mu.RUnlock()

	if len(subs) > 0 {
		logger := logging.GetLogger("hub")
		logger.Trace().Str("event", event).Int("handlers", len(subs)).Msg("Triggering event")
	}

	for _, sub := range subs {
		sub.handler(event, payload)
	}
}

// HandlerCount returns the number of handlers registered for an event
func (h *Hub) HandlerCount(event string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscriptions[event])
}

// sameHandler compares two handlers by code pointer
func sameHandler(a, b Handler) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

var (
	defaultHub  *Hub
	defaultOnce sync.Once
)

// Default returns the process-wide hub shared by all features unless a
// manager is constructed with its own
func Default() *Hub {
	defaultOnce.Do(func() {
		defaultHub = New()
	})
	return defaultHub
}
