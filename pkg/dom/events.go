package dom

// Event is delivered to element listeners on dispatch
type Event struct {
	Type   string
	Target *Element
	Data   interface{}
}

// Handler receives element events
type Handler func(*Event)

// Listener identifies one registration of a handler for an event type on
// one element. It is the removal token: detaching by listener is exact,
// even when closures share a code pointer.
type Listener struct {
	target    *Element
	eventType string
	handler   Handler
}

// Target returns the element the listener is attached to
func (l *Listener) Target() *Element {
	return l.target
}

// EventType returns the event type the listener is registered for
func (l *Listener) EventType() string {
	return l.eventType
}

// AddEventListener registers a handler for an event type on this element
// and returns the listener token for later removal.
func (e *Element) AddEventListener(eventType string, handler Handler) *Listener {
	if handler == nil {
		return nil
	}

	listener := &Listener{target: e, eventType: eventType, handler: handler}

	table := e.doc.listeners[e]
	if table == nil {
		table = make(map[string][]*Listener)
		e.doc.listeners[e] = table
	}
	table[eventType] = append(table[eventType], listener)
	return listener
}

// RemoveEventListener detaches a listener. Removing an already-removed
// listener is a no-op.
func (e *Element) RemoveEventListener(listener *Listener) {
	if listener == nil {
		return
	}

	table := e.doc.listeners[listener.target]
	if table == nil {
		return
	}
	registered := table[listener.eventType]
	for i, l := range registered {
		if l == listener {
			table[listener.eventType] = append(registered[:i:i], registered[i+1:]...)
			break
		}
	}
	if len(table[listener.eventType]) == 0 {
		delete(table, listener.eventType)
	}
	if len(table) == 0 {
		delete(e.doc.listeners, listener.target)
	}
}

// Dispatch synchronously invokes every listener registered for the event
// type on this element, in registration order. Events do not bubble.
func (e *Element) Dispatch(eventType string, data interface{}) {
	table := e.doc.listeners[e]
	if table == nil {
		return
	}

	registered := make([]*Listener, len(table[eventType]))
	copy(registered, table[eventType])

	event := &Event{Type: eventType, Target: e, Data: data}
	for _, listener := range registered {
		listener.handler(event)
	}
}

// ListenerCount returns the number of listeners registered on this element
// for an event type.
func (e *Element) ListenerCount(eventType string) int {
	table := e.doc.listeners[e]
	if table == nil {
		return 0
	}
	return len(table[eventType])
}

// AllListenerCount returns the number of listeners registered on this
// element across all event types.
func (e *Element) AllListenerCount() int {
	total := 0
	for _, registered := range e.doc.listeners[e] {
		total += len(registered)
	}
	return total
}
