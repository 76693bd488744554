package logging

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLoggerCarriesComponentName(t *testing.T) {
	logger := GetLogger("feature.manager")

	var buf strings.Builder
	logger = logger.Output(&buf)
	logger.Error().Msg("boom")

	assert.Contains(t, buf.String(), `"component":"feature.manager"`)
	assert.Contains(t, buf.String(), "boom")
}

func TestWithFields(t *testing.T) {
	logger := WithFields(map[string]interface{}{"feature": "highlight"})

	var buf strings.Builder
	logger = logger.Output(&buf)
	logger.Error().Msg("attached")

	assert.Contains(t, buf.String(), `"feature":"highlight"`)
}

func TestGetLogFilePathFallsBackToRelative(t *testing.T) {
	path := getLogFilePath()
	assert.True(t, strings.HasSuffix(path, "weft.log"))
}
