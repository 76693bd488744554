package features

import (
	"github.com/arthur-debert/weft/pkg/feature"
	"github.com/arthur-debert/weft/pkg/logging"
)

// Announce replies on the hub when pinged, identifying its element. It is
// the minimal example of cross-feature signaling through the hub.
type Announce struct {
	feature.Base
}

// PingEvent is the hub event Announce listens for
const PingEvent = "announce:ping"

// Defaults carries the feature's default options
func (a *Announce) Defaults() map[string]interface{} {
	return map[string]interface{}{
		"event": "announce:seen",
	}
}

func (a *Announce) Init() error {
	replyEvent := stringOption(&a.Base, "event", "announce:seen")

	a.OnHub(PingEvent, func(event string, payload interface{}) {
		a.Hub().Trigger(replyEvent, a.Node().Tag())
	})

	logger := logging.GetLogger("features.announce")
	logger.Debug().Str("element", a.Node().Tag()).Str("reply", replyEvent).Msg("Announce attached")
	return nil
}
