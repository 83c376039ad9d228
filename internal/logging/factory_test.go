package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rabota-collector/internal/logging/types"
)

func TestCreateAdapterStdout(t *testing.T) {
	adapter, err := NewAdapterFactory().CreateAdapter(types.AdapterConfig{
		Name: "stdout",
		Type: "stdout",
		Options: map[string]interface{}{
			"format":    "text",
			"colorized": true,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "stdout", adapter.Name())
}

func TestCreateAdapterFile(t *testing.T) {
	adapter, err := NewAdapterFactory().CreateAdapter(types.AdapterConfig{
		Name: "file",
		Type: "file",
		Options: map[string]interface{}{
			"file_path": filepath.Join(t.TempDir(), "collector.log"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "file", adapter.Name())
	require.NoError(t, adapter.Close())
}

func TestCreateAdapterUnsupportedType(t *testing.T) {
	_, err := NewAdapterFactory().CreateAdapter(types.AdapterConfig{
		Name: "syslog",
		Type: "syslog",
	})
	assert.Error(t, err)
}

// The stdout adapter reads its options under the keys the sample config
// uses: "format" and "colorized". Unknown keys and wrong types fall back to
// the defaults instead of failing.
func TestAdapterOptionParsing(t *testing.T) {
	options := map[string]interface{}{
		"format":    "text",
		"colorized": true,
		"ignored":   42,
	}

	assert.Equal(t, "text", getStringOption(options, "format", "json"))
	assert.True(t, getBoolOption(options, "colorized", false))
	assert.Equal(t, "json", getStringOption(options, "absent", "json"))
	assert.False(t, getBoolOption(options, "absent", false))
	assert.False(t, getBoolOption(options, "ignored", false))
}
