package feature

import (
	"sync"

	"github.com/arthur-debert/weft/pkg/dom"
	"github.com/arthur-debert/weft/pkg/hub"
)

var (
	defaultManager *Manager
	defaultOnce    sync.Once
)

// DefaultManager returns the process-wide manager backing the
// package-level registration API. It resolves against its own registry
// and notifies the default hub.
func DefaultManager() *Manager {
	defaultOnce.Do(func() {
		defaultManager = NewManager(NewRegistry(), hub.Default())
	})
	return defaultManager
}

// Add registers a feature on the default manager's registry
func Add(name string, factory Factory, options map[string]interface{}) error {
	return DefaultManager().Registry().Add(name, factory, options)
}

// Init attaches features under container using the default manager
func Init(container *dom.Element, nameFilter []string) ([]Feature, error) {
	return DefaultManager().Init(container, nameFilter)
}

// Destroy tears down features under container using the default manager
func Destroy(container *dom.Element, nameFilter []string) error {
	return DefaultManager().Destroy(container, nameFilter)
}

// Reinit destroys then re-attaches features under container using the
// default manager.
func Reinit(container *dom.Element, nameFilter []string) ([]Feature, error) {
	return DefaultManager().Reinit(container, nameFilter)
}

// GetInstancesByNode returns the element's instance table from the
// default manager, or nil.
func GetInstancesByNode(el *dom.Element) map[string]Feature {
	return DefaultManager().InstancesByNode(el)
}

// GetInstanceByNode returns the element's live instance for a feature
// name from the default manager, or nil.
func GetInstanceByNode(el *dom.Element, name string) Feature {
	return DefaultManager().InstanceByNode(el, name)
}
