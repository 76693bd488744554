// Package testutil provides shared fixtures for feature-lifecycle tests:
// document parsing, hub recording, and teardown assertions.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/weft/pkg/dom"
	"github.com/arthur-debert/weft/pkg/hub"
)

// ParseDocument parses markup, failing the test on error
func ParseDocument(t *testing.T, markup string) *dom.Document {
	t.Helper()
	doc, err := dom.Parse(markup)
	require.NoError(t, err)
	return doc
}

// RecordedEvent is one event captured by a HubRecorder
type RecordedEvent struct {
	Event   string
	Payload interface{}
}

// HubRecorder captures events published on a hub, in order
type HubRecorder struct {
	Events []RecordedEvent
}

// RecordHub subscribes a recorder to the given events on a hub
func RecordHub(h *hub.Hub, events ...string) *HubRecorder {
	r := &HubRecorder{}
	for _, event := range events {
		h.On(event, func(event string, payload interface{}) {
			r.Events = append(r.Events, RecordedEvent{Event: event, Payload: payload})
		})
	}
	return r
}

// Names returns the recorded event names in order
func (r *HubRecorder) Names() []string {
	names := make([]string, 0, len(r.Events))
	for _, event := range r.Events {
		names = append(names, event.Event)
	}
	return names
}

// tornDown is the slice of the Base surface teardown assertions need
type tornDown interface {
	Destroyed() bool
	TrackedListenerCount() int
	TrackedHubListenerCount() int
}

// AssertTornDown asserts an instance has fully released its
// subscriptions.
func AssertTornDown(t *testing.T, instance tornDown) {
	t.Helper()
	assert.True(t, instance.Destroyed(), "instance should be destroyed")
	assert.Zero(t, instance.TrackedListenerCount(), "element listeners should be released")
	assert.Zero(t, instance.TrackedHubListenerCount(), "hub listeners should be released")
}
