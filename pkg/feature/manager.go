package feature

import (
	"github.com/rs/zerolog"

	"github.com/arthur-debert/weft/pkg/dom"
	"github.com/arthur-debert/weft/pkg/errors"
	"github.com/arthur-debert/weft/pkg/hub"
	"github.com/arthur-debert/weft/pkg/logging"
)

// Manager is the lifecycle orchestrator. It scans a subtree for
// marker-carrying elements, resolves which registered features apply under
// the given filters, constructs and initializes instances, and drives
// their teardown. The per-element instance tables are owned by the
// manager, keyed by element identity.
type Manager struct {
	registry   *Registry
	hub        *hub.Hub
	markerAttr string
	ignoreAttr string

	// instances maps element identity to that element's instance table,
	// the single source of truth for "is feature X attached to element Y".
	instances map[*dom.Element]map[string]Feature

	logger zerolog.Logger
}

// Option configures a Manager
type Option func(*Manager)

// WithAttributes overrides the marker and ignore attribute names
func WithAttributes(marker, ignore string) Option {
	return func(m *Manager) {
		if marker != "" {
			m.markerAttr = marker
		}
		if ignore != "" {
			m.ignoreAttr = ignore
		}
	}
}

// NewManager creates a Manager over a registry and a hub. A nil hub means
// the process-wide default hub.
func NewManager(reg *Registry, h *hub.Hub, opts ...Option) *Manager {
	if reg == nil {
		reg = NewRegistry()
	}
	if h == nil {
		h = hub.Default()
	}
	m := &Manager{
		registry:   reg,
		hub:        h,
		markerAttr: DefaultMarkerAttr,
		ignoreAttr: DefaultIgnoreAttr,
		instances:  make(map[*dom.Element]map[string]Feature),
		logger:     logging.GetLogger("feature.manager"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registry returns the registry this manager resolves feature names
// against.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Hub returns the hub this manager notifies
func (m *Manager) Hub() *hub.Hub {
	return m.hub
}

// MarkerAttr returns the attribute name declaring features on an element
func (m *Manager) MarkerAttr() string {
	return m.markerAttr
}

// IgnoreAttr returns the attribute name suppressing features on an element
func (m *Manager) IgnoreAttr() string {
	return m.ignoreAttr
}

// Init scans the container subtree and attaches features to every
// marker-carrying element (the container included when it matches). A
// feature attaches iff it is registered, not in the element's ignore-list,
// passes the name filter (nil means no filtering), and has no live
// instance on that element yet.
//
// Returns the newly created instances in document order, then declaration
// order within each element. An error from a feature's Init aborts the
// remaining batch for that element and is returned immediately;
// already-created instances, on this and earlier elements, stay attached.
func (m *Manager) Init(container *dom.Element, nameFilter []string) ([]Feature, error) {
	if container == nil {
		return nil, errors.New(errors.ErrInvalidInput, "init container is nil")
	}

	matched := container.FindByAttr(m.markerAttr)
	m.logger.Debug().
		Str("container", container.Tag()).
		Int("matched", len(matched)).
		Strs("filter", nameFilter).
		Msg("Initializing features")

	m.hub.Trigger(HubFeaturesInitialize, &Notification{
		Container:       container,
		Names:           nameFilter,
		MatchedElements: matched,
	})

	filter := toSet(nameFilter)
	var created []Feature

	for _, el := range matched {
		batch, err := m.initElement(el, filter)
		created = append(created, batch...)
		if err != nil {
			return created, err
		}
		for _, instance := range batch {
			instance.base().emitLifecycle(LifecycleFeaturesInitialized, batch)
		}
	}

	m.hub.Trigger(HubFeaturesInitialized, &Notification{
		Container:       container,
		Names:           nameFilter,
		MatchedElements: matched,
		Instances:       created,
	})
	return created, nil
}

// initElement attaches the element's declared features in declaration
// order and returns the batch. On an Init error the batch holds the
// instances created so far; the failing instance stays in the table.
func (m *Manager) initElement(el *dom.Element, filter map[string]bool) ([]Feature, error) {
	declared := parseNameList(el.Attr(m.markerAttr))
	ignored := toSet(parseNameList(el.Attr(m.ignoreAttr)))

	var batch []Feature
	for _, name := range declared {
		def, ok := m.registry.Get(name)
		if !ok {
			m.logger.Trace().Str("feature", name).Str("element", el.Tag()).Msg("Feature not registered, skipping")
			continue
		}
		if ignored[name] {
			continue
		}
		if filter != nil && !filter[name] {
			continue
		}
		if _, live := m.instances[el][name]; live {
			continue
		}

		instance, err := m.instantiate(def, el)
		if err != nil {
			return batch, err
		}
		batch = append(batch, instance)

		if err := instance.Init(); err != nil {
			return batch, errors.Wrapf(err, errors.ErrFeatureInit, "feature '%s' failed to initialize on <%s>", name, el.Tag())
		}
		m.logger.Debug().Str("feature", name).Str("element", el.Tag()).Msg("Feature attached")
	}
	return batch, nil
}

// instantiate builds, binds, and tables one feature instance
func (m *Manager) instantiate(def Definition, el *dom.Element) (Feature, error) {
	instance := def.Factory()
	if instance == nil {
		return nil, errors.Newf(errors.ErrInternal, "factory for feature '%s' returned nil", def.Name)
	}
	if _, isBase := instance.(*Base); isBase {
		return nil, errors.Newf(errors.ErrAbstractInstantiation,
			"feature '%s' instantiates the abstract base; embed feature.Base in a concrete type", def.Name)
	}

	var options map[string]interface{}
	if defaulter, ok := instance.(Defaulter); ok {
		options = mergeOptions(defaulter.Defaults(), def.Options)
	} else {
		options = mergeOptions(def.Options)
	}

	instance.base().bind(m, instance, def.Name, el, options)

	table := m.instances[el]
	if table == nil {
		table = make(map[string]Feature)
		m.instances[el] = table
	}
	table[def.Name] = instance
	return instance, nil
}

// Destroy tears down live instances on every marker-carrying element
// under the container. An instance is destroyed iff it passes the name
// filter and its name is not in the element's ignore-list. Destruction
// order within an element is table-iteration order, unordered by
// contract.
func (m *Manager) Destroy(container *dom.Element, nameFilter []string) error {
	if container == nil {
		return errors.New(errors.ErrInvalidInput, "destroy container is nil")
	}

	matched := container.FindByAttr(m.markerAttr)
	m.logger.Debug().
		Str("container", container.Tag()).
		Int("matched", len(matched)).
		Strs("filter", nameFilter).
		Msg("Destroying features")

	m.hub.Trigger(HubFeaturesDestroy, &Notification{
		Container:       container,
		Names:           nameFilter,
		MatchedElements: matched,
	})

	filter := toSet(nameFilter)
	var destroyed []Feature

	for _, el := range matched {
		ignored := toSet(parseNameList(el.Attr(m.ignoreAttr)))
		for name, instance := range m.instances[el] {
			if filter != nil && !filter[name] {
				continue
			}
			if ignored[name] {
				continue
			}
			instance.Destroy()
			destroyed = append(destroyed, instance)
		}
	}

	m.hub.Trigger(HubFeaturesDestroyed, &Notification{
		Container:       container,
		Names:           nameFilter,
		MatchedElements: matched,
		Instances:       destroyed,
	})
	return nil
}

// Reinit is the sequential composition of Destroy and Init over the same
// scope. Not atomic: hub observers see the destroy-complete and
// init-start boundary.
func (m *Manager) Reinit(container *dom.Element, nameFilter []string) ([]Feature, error) {
	if err := m.Destroy(container, nameFilter); err != nil {
		return nil, err
	}
	return m.Init(container, nameFilter)
}

// InstancesByNode returns a copy of the element's instance table, or nil
// when no feature is attached.
func (m *Manager) InstancesByNode(el *dom.Element) map[string]Feature {
	table := m.instances[el]
	if len(table) == 0 {
		return nil
	}
	copied := make(map[string]Feature, len(table))
	for name, instance := range table {
		copied[name] = instance
	}
	return copied
}

// InstanceByNode returns the element's live instance for a feature name,
// or nil.
func (m *Manager) InstanceByNode(el *dom.Element, name string) Feature {
	instance, ok := m.instances[el][name]
	if !ok {
		return nil
	}
	return instance
}

// destroyNested tears down every instance attached to marker-carrying
// elements inside the subtree, excluding the subtree root itself. Called
// from Base.Destroy so container teardown cascades depth-first.
func (m *Manager) destroyNested(root *dom.Element) {
	for _, el := range root.FindByAttr(m.markerAttr) {
		if el == root {
			continue
		}
		for _, instance := range m.instances[el] {
			instance.Destroy()
		}
	}
}

// removeInstance drops one entry from an element's instance table,
// pruning the table when it empties. Called from Base.Destroy.
func (m *Manager) removeInstance(el *dom.Element, name string) {
	table := m.instances[el]
	if table == nil {
		return
	}
	delete(table, name)
	if len(table) == 0 {
		delete(m.instances, el)
	}
}
