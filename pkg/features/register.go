package features

import (
	"github.com/arthur-debert/weft/pkg/feature"
)

// Register adds every built-in feature to a registry
func Register(reg *feature.Registry) error {
	return RegisterWithOptions(reg, nil)
}

// RegisterWithOptions adds every built-in feature, taking registration
// options per feature name from the given map.
func RegisterWithOptions(reg *feature.Registry, options map[string]map[string]interface{}) error {
	if err := reg.Add("highlight", func() feature.Feature { return &Highlight{} }, options["highlight"]); err != nil {
		return err
	}
	return reg.Add("announce", func() feature.Feature { return &Announce{} }, options["announce"])
}
