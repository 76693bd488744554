package feature

import (
	"reflect"

	"github.com/arthur-debert/weft/pkg/dom"
	"github.com/arthur-debert/weft/pkg/errors"
	"github.com/arthur-debert/weft/pkg/hub"
)

// LifecycleType identifies a local lifecycle notification delivered to an
// instance's own observers.
type LifecycleType string

const (
	// LifecycleDestroy fires at the start of teardown, before any
	// subscription is released.
	LifecycleDestroy LifecycleType = "destroy"

	// LifecycleDestroyed fires after teardown completes
	LifecycleDestroyed LifecycleType = "destroyed"

	// LifecycleFeaturesInitialized fires once after every feature in an
	// element's batch has been constructed and initialized, carrying the
	// batch. A one-time signal, not a persistent subscription.
	LifecycleFeaturesInitialized LifecycleType = "featuresInitialized"
)

// LifecycleEvent is the typed payload delivered to lifecycle observers
type LifecycleEvent struct {
	Type    LifecycleType
	Feature Feature

	// Batch is the element's full instance batch. Only set for
	// LifecycleFeaturesInitialized.
	Batch []Feature
}

// LifecycleHandler observes an instance's local lifecycle events
type LifecycleHandler func(LifecycleEvent)

// trackedListener is one element-listener registration owned by this
// instance.
type trackedListener struct {
	target  *dom.Element
	handler dom.Handler
	ref     *dom.Listener
}

// trackedHubListener is one hub registration owned by this instance
type trackedHubListener struct {
	handler hub.Handler
	sub     *hub.Subscription
}

// Base is the behavior-unit base every feature embeds. It owns the
// instance's subscription bookkeeping: every element listener and hub
// listener registered through it is tracked, so teardown can release
// exactly what the instance owns.
//
// A Base constructed directly (rather than embedded in a concrete feature)
// is rejected by the Manager with ABSTRACT_INSTANTIATION.
type Base struct {
	mgr     *Manager
	self    Feature
	name    string
	node    *dom.Element
	options map[string]interface{}

	listeners    map[string][]*trackedListener
	hubListeners map[string][]*trackedHubListener
	observers    map[LifecycleType][]LifecycleHandler

	destroyed bool
}

// bind attaches the base to its manager, element and merged options.
// Called once by the Manager during instantiation.
func (b *Base) bind(mgr *Manager, self Feature, name string, node *dom.Element, options map[string]interface{}) {
	b.mgr = mgr
	b.self = self
	b.name = name
	b.node = node
	b.options = options
	b.listeners = make(map[string][]*trackedListener)
	b.hubListeners = make(map[string][]*trackedHubListener)
}

func (b *Base) base() *Base {
	return b
}

// Name returns the feature name this instance was attached under.
// Empty after teardown.
func (b *Base) Name() string {
	return b.name
}

// Node returns the element this instance is bound to. Nil after teardown.
func (b *Base) Node() *dom.Element {
	return b.node
}

// Options returns the instance's merged options. Callers must not mutate
// the returned map.
func (b *Base) Options() map[string]interface{} {
	return b.options
}

// Option returns a single option value and whether it was set
func (b *Base) Option(key string) (interface{}, bool) {
	value, ok := b.options[key]
	return value, ok
}

// Destroyed reports whether teardown has run
func (b *Base) Destroyed() bool {
	return b.destroyed
}

// ReplaceNode swaps the instance's element for a new one at the same tree
// position, updates the back-reference, and returns the removed element.
// Subscriptions do not move: callers must re-subscribe on the new element.
func (b *Base) ReplaceNode(replacement *dom.Element) (*dom.Element, error) {
	if b.node == nil {
		return nil, errors.New(errors.ErrInternal, "feature has no node to replace")
	}
	removed := b.node
	if err := removed.ReplaceWith(replacement); err != nil {
		return nil, err
	}
	b.node = replacement
	return removed, nil
}

// Find returns the first match for a path expression scoped to the
// instance's subtree.
func (b *Base) Find(path string) *dom.Element {
	if b.node == nil {
		return nil
	}
	return b.node.Find(path)
}

// FindAll returns every match for a path expression scoped to the
// instance's subtree.
func (b *Base) FindAll(path string) []*dom.Element {
	if b.node == nil {
		return nil
	}
	return b.node.FindAll(path)
}

// AddEventListener subscribes handler to eventType on target and records
// the registration. A nil target means the instance's own element.
func (b *Base) AddEventListener(target *dom.Element, eventType string, handler dom.Handler) {
	if b.destroyed || handler == nil {
		return
	}
	if target == nil {
		target = b.node
	}
	if target == nil {
		return
	}

	if b.listeners == nil {
		b.listeners = make(map[string][]*trackedListener)
	}
	ref := target.AddEventListener(eventType, handler)
	b.listeners[eventType] = append(b.listeners[eventType], &trackedListener{
		target:  target,
		handler: handler,
		ref:     ref,
	})
}

// AddEventListenerTo subscribes handler to eventType on each element of an
// ordered collection.
func (b *Base) AddEventListenerTo(targets []*dom.Element, eventType string, handler dom.Handler) {
	for _, target := range targets {
		b.AddEventListener(target, eventType, handler)
	}
}

// RemoveEventListener unsubscribes from target. The zero values select the
// removal mode:
//   - eventType and handler set: removes exactly that pair
//   - eventType set, handler nil: removes all handlers of that type on target
//   - eventType empty, handler set: removes that handler across all tracked
//     event types on target
//   - both zero: removes everything this instance registered on target
//
// A nil target means the instance's own element. Double removal is a no-op.
func (b *Base) RemoveEventListener(target *dom.Element, eventType string, handler dom.Handler) {
	if target == nil {
		target = b.node
	}
	if eventType == "" {
		b.RemoveAllEventListener(target, handler)
		return
	}
	b.removeTracked(target, eventType, handler)
}

// RemoveAllEventListener releases tracked listeners across all event
// types. A nil target drops the target scoping; a nil handler drops the
// handler scoping. With both nil it detaches and clears every listener
// this instance ever registered.
func (b *Base) RemoveAllEventListener(target *dom.Element, handler dom.Handler) {
	for eventType := range b.listeners {
		b.removeTracked(target, eventType, handler)
	}
}

// removeTracked detaches tracked listeners of one event type matching the
// optional target and handler filters, keeping the listener table
// consistent with the now-unsubscribed state.
func (b *Base) removeTracked(target *dom.Element, eventType string, handler dom.Handler) {
	tracked := b.listeners[eventType]
	if len(tracked) == 0 {
		return
	}

	kept := tracked[:0]
	for _, entry := range tracked {
		if target != nil && entry.target != target {
			kept = append(kept, entry)
			continue
		}
		if handler != nil && !sameDOMHandler(entry.handler, handler) {
			kept = append(kept, entry)
			continue
		}
		entry.target.RemoveEventListener(entry.ref)
	}
	if len(kept) == 0 {
		delete(b.listeners, eventType)
	} else {
		b.listeners[eventType] = kept
	}
}

// OnHub subscribes handler to an event on the hub and records the
// registration in the hub-listener table.
func (b *Base) OnHub(event string, handler hub.Handler) {
	if b.destroyed || handler == nil {
		return
	}

	if b.hubListeners == nil {
		b.hubListeners = make(map[string][]*trackedHubListener)
	}
	sub := b.hubRef().On(event, handler)
	b.hubListeners[event] = append(b.hubListeners[event], &trackedHubListener{
		handler: handler,
		sub:     sub,
	})
}

// OffHub unsubscribes from a hub event. A nil handler removes every
// handler this instance registered for the event.
func (b *Base) OffHub(event string, handler hub.Handler) {
	tracked := b.hubListeners[event]
	if len(tracked) == 0 {
		return
	}

	h := b.hubRef()
	kept := tracked[:0]
	for _, entry := range tracked {
		if handler != nil && !sameHubHandler(entry.handler, handler) {
			kept = append(kept, entry)
			continue
		}
		h.Remove(entry.sub)
	}
	if len(kept) == 0 {
		delete(b.hubListeners, event)
	} else {
		b.hubListeners[event] = kept
	}
}

// OffAllHub releases every hub subscription this instance registered
func (b *Base) OffAllHub() {
	for event := range b.hubListeners {
		b.OffHub(event, nil)
	}
}

// OnLifecycle registers an observer for a local lifecycle event
func (b *Base) OnLifecycle(event LifecycleType, handler LifecycleHandler) {
	if handler == nil {
		return
	}
	if b.observers == nil {
		b.observers = make(map[LifecycleType][]LifecycleHandler)
	}
	b.observers[event] = append(b.observers[event], handler)
}

// OffLifecycle removes a lifecycle observer
func (b *Base) OffLifecycle(event LifecycleType, handler LifecycleHandler) {
	if handler == nil {
		return
	}
	observers := b.observers[event]
	ptr := reflect.ValueOf(handler).Pointer()
	for i, observer := range observers {
		if reflect.ValueOf(observer).Pointer() == ptr {
			b.observers[event] = append(observers[:i:i], observers[i+1:]...)
			return
		}
	}
}

// emitLifecycle delivers a local lifecycle event to this instance's
// observers, synchronously and in registration order.
func (b *Base) emitLifecycle(event LifecycleType, batch []Feature) {
	observers := b.observers[event]
	if len(observers) == 0 {
		return
	}
	payload := LifecycleEvent{Type: event, Feature: b.self, Batch: batch}
	for _, observer := range observers {
		observer(payload)
	}
}

// Init is a no-op; concrete features override it to perform setup
func (b *Base) Init() error {
	return nil
}

// Destroy tears the instance down: lifecycle notification, release of all
// element and hub listeners, recursive teardown of features nested inside
// the instance's subtree, removal from the owning element's instance
// table, and reference clearing. Idempotent: a second call is a no-op.
func (b *Base) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true

	b.emitLifecycle(LifecycleDestroy, nil)

	b.RemoveAllEventListener(nil, nil)
	b.OffAllHub()

	// nested features torn down before this instance leaves its table
	if b.mgr != nil && b.node != nil {
		b.mgr.destroyNested(b.node)
		b.mgr.removeInstance(b.node, b.name)
	}

	b.name = ""
	b.node = nil
	b.options = nil

	b.emitLifecycle(LifecycleDestroyed, nil)
	b.observers = nil
	b.self = nil
}

// TrackedListenerCount returns the number of element-listener
// registrations currently tracked by this instance.
func (b *Base) TrackedListenerCount() int {
	total := 0
	for _, tracked := range b.listeners {
		total += len(tracked)
	}
	return total
}

// TrackedHubListenerCount returns the number of hub registrations
// currently tracked by this instance.
func (b *Base) TrackedHubListenerCount() int {
	total := 0
	for _, tracked := range b.hubListeners {
		total += len(tracked)
	}
	return total
}

// Hub returns the hub this instance binds to, for publishing
// feature-to-feature signals.
func (b *Base) Hub() *hub.Hub {
	return b.hubRef()
}

// hubRef returns the hub this instance binds to: the manager's when
// bound, the process default otherwise.
func (b *Base) hubRef() *hub.Hub {
	if b.mgr != nil {
		return b.mgr.hub
	}
	return hub.Default()
}

func sameDOMHandler(a, b dom.Handler) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func sameHubHandler(a, b hub.Handler) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
