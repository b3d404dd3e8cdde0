package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResource(t *testing.T) {
	res, err := newResource("ledgerview-test")
	require.NoError(t, err)

	found := false
	for _, attr := range res.Attributes() {
		if attr.Key == "service.name" {
			found = true
			assert.Equal(t, "ledgerview-test", attr.Value.AsString())
		}
	}
	assert.True(t, found, "service.name attribute should be present")
}

func TestLoggerProvider_DisabledByDefault(t *testing.T) {
	assert.Nil(t, LoggerProvider())
}
