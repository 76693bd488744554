// Package features ships the built-in behavior units used by the weft CLI
// and as reference implementations of the feature contract.
package features

import (
	"github.com/arthur-debert/weft/pkg/dom"
	"github.com/arthur-debert/weft/pkg/feature"
	"github.com/arthur-debert/weft/pkg/logging"
)

// Highlight marks its element with a state attribute and flips it on
// "toggle" events.
type Highlight struct {
	feature.Base
}

// Defaults carries the feature's default options
func (h *Highlight) Defaults() map[string]interface{} {
	return map[string]interface{}{
		"attr": "data-highlighted",
	}
}

func (h *Highlight) Init() error {
	attr := stringOption(&h.Base, "attr", "data-highlighted")
	h.Node().SetAttr(attr, "true")

	h.AddEventListener(nil, "toggle", func(e *dom.Event) {
		next := "true"
		if e.Target.Attr(attr) == "true" {
			next = "false"
		}
		e.Target.SetAttr(attr, next)
	})

	logger := logging.GetLogger("features.highlight")
	logger.Debug().Str("element", h.Node().Tag()).Str("attr", attr).Msg("Highlight attached")
	return nil
}

// stringOption reads a string option with a fallback
func stringOption(b *feature.Base, key, fallback string) string {
	if value, ok := b.Option(key); ok {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return fallback
}
