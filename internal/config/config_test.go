package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartel-dev/chartel/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, 2.0, cfg.Export.Scale)
	assert.Equal(t, "A4", cfg.Export.Page)
	assert.Equal(t, 36.0, cfg.Export.MarginPt)
	assert.Equal(t, 300, cfg.Watch.DebounceMs)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("server.port", 9000)
	viper.Set("export.page", "Letter")
	viper.Set("logging.level", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "Letter", cfg.Export.Page)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "localhost", cfg.Server.Host, "unset options keep their defaults")
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value interface{}
	}{
		{"port out of range", "server.port", 70000},
		{"host with whitespace", "server.host", "bad host"},
		{"scale too large", "export.scale", 32.0},
		{"negative scale", "export.scale", -1.0},
		{"unknown page size", "export.page", "Tabloid"},
		{"negative debounce", "watch.debounce_ms", -5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			viper.Set(tc.key, tc.value)

			_, err := Load()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
		})
	}
}

func TestPageSizeIsCaseInsensitive(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("export.page", "letter")

	_, err := Load()
	assert.NoError(t, err)
}
