package feature

import (
	"github.com/arthur-debert/weft/pkg/errors"
	"github.com/arthur-debert/weft/pkg/logging"
	"github.com/arthur-debert/weft/pkg/registry"
)

// Registry maps feature names to their definitions. It is append-only:
// a name, once added, keeps its definition for the process lifetime.
type Registry struct {
	defs registry.Registry[Definition]
}

// NewRegistry creates an empty feature registry
func NewRegistry() *Registry {
	return &Registry{
		defs: registry.New[Definition](),
	}
}

// Add registers a feature under a name with the given factory and
// registration-time options. Adding a duplicate name fails with
// DUPLICATE_FEATURE and leaves the existing definition untouched.
func (r *Registry) Add(name string, factory Factory, options map[string]interface{}) error {
	if factory == nil {
		return errors.Newf(errors.ErrInvalidInput, "feature '%s' has no factory", name)
	}

	err := r.defs.Register(name, Definition{
		Name:    name,
		Factory: factory,
		Options: options,
	})
	if err != nil {
		return err
	}

	logger := logging.GetLogger("feature.registry")
	logger.Debug().Str("feature", name).Msg("Feature registered")
	return nil
}

// MustAdd registers a feature and panics on failure. Useful in init()
// functions where a registration error is a programming error.
func (r *Registry) MustAdd(name string, factory Factory, options map[string]interface{}) {
	if err := r.Add(name, factory, options); err != nil {
		panic(err)
	}
}

// Get returns the definition for a name. Absence is a legal skip
// condition for the orchestrator, so it is reported as a bool, not an
// error.
func (r *Registry) Get(name string) (Definition, bool) {
	def, err := r.defs.Get(name)
	if err != nil {
		return Definition{}, false
	}
	return def, true
}

// Has reports whether a name is registered
func (r *Registry) Has(name string) bool {
	return r.defs.Has(name)
}

// List returns all registered names in sorted order
func (r *Registry) List() []string {
	return r.defs.List()
}

// Count returns the number of registered features
func (r *Registry) Count() int {
	return r.defs.Count()
}
