// Package feature implements the declarative feature-lifecycle framework:
// markup elements declare named behavior units through a marker attribute,
// and a Manager discovers, instantiates, tracks, and tears them down,
// including their event subscriptions against the element tree and the
// process-wide hub.
package feature

import (
	"strings"

	"github.com/arthur-debert/weft/pkg/dom"
)

// Attribute names recognized by the orchestrator. A Manager can be
// configured with different names through WithAttributes.
const (
	// DefaultMarkerAttr lists the comma-separated feature names to attach
	// to an element.
	DefaultMarkerAttr = "data-feature"

	// DefaultIgnoreAttr lists the comma-separated feature names to
	// suppress on that specific element.
	DefaultIgnoreAttr = "data-feature-ignore"
)

// Hub events emitted by the Manager around init and destroy passes. Each
// carries a *Notification payload.
const (
	HubFeaturesInitialize  = "features:initialize"
	HubFeaturesInitialized = "features:initialized"
	HubFeaturesDestroy     = "features:destroy"
	HubFeaturesDestroyed   = "features:destroyed"
)

// Feature is one behavior unit bound to one element. Concrete features
// embed Base and override Init; the unexported method makes embedding Base
// the only way to satisfy the interface.
type Feature interface {
	// Name returns the feature name this instance was attached under
	Name() string

	// Node returns the element this instance is bound to
	Node() *dom.Element

	// Init performs the feature's setup. It is called exactly once, by
	// the Manager, immediately after construction. The Base
	// implementation is a no-op.
	Init() error

	// Destroy runs the teardown cascade: lifecycle notification, listener
	// release, recursive teardown of nested features, removal from the
	// owning element's instance table. Destroying an already-destroyed
	// feature is a no-op.
	Destroy()

	base() *Base
}

// Factory constructs a fresh, unbound feature instance
type Factory func() Feature

// Defaulter is implemented by features that carry their own default
// options. Registration-time options are merged over these, and the
// registration wins on conflicts.
type Defaulter interface {
	Defaults() map[string]interface{}
}

// Definition is one entry in the feature registry: a name, the factory
// that builds instances, and the options recorded at registration time.
// Definitions are immutable once added.
type Definition struct {
	Name    string
	Factory Factory
	Options map[string]interface{}
}

// Notification is the payload carried by the features:* hub events
type Notification struct {
	// Container is the subtree root the pass was scoped to
	Container *dom.Element

	// Names is the name filter the pass was invoked with, nil when
	// unfiltered.
	Names []string

	// MatchedElements are the marker-carrying elements found under the
	// container, in document order.
	MatchedElements []*dom.Element

	// Instances is the full set of features created or destroyed by the
	// pass. Only set on the post-pass events.
	Instances []Feature
}

// parseNameList splits a comma-separated attribute value into names,
// trimming whitespace and dropping empties.
func parseNameList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// toSet builds a membership set from a name list, nil for an empty list
func toSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// mergeOptions layers registration options over feature defaults.
// Later maps win on conflicting keys.
func mergeOptions(layers ...map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{})
	for _, layer := range layers {
		for key, value := range layer {
			merged[key] = value
		}
	}
	return merged
}
