package testutil

import (
	"testing"

	"github.com/arthur-debert/weft/pkg/hub"
	"github.com/stretchr/testify/assert"
)

func TestParseDocument(t *testing.T) {
	doc := ParseDocument(t, `<page><div data-feature="a"/></page>`)
	assert.Equal(t, "page", doc.Root().Tag())
}

func TestRecordHub(t *testing.T) {
	h := hub.New()
	recorder := RecordHub(h, "one", "two")

	h.Trigger("one", "payload-1")
	h.Trigger("ignored", nil)
	h.Trigger("two", nil)

	assert.Equal(t, []string{"one", "two"}, recorder.Names())
	assert.Equal(t, "payload-1", recorder.Events[0].Payload)
}
