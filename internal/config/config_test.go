package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopkg.in/yaml.v2"
)

func TestLoadDefaults(t *testing.T) {
	// No config file next to the test binary, no WPR_* env set by default.
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.False(t, cfg.Parse.AbortOnMissingHeader)
	assert.Equal(t, 4, cfg.Parse.Workers)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WPR_SERVER_PORT", "9090")
	t.Setenv("WPR_LOGGING_LEVEL", "debug")
	t.Setenv("WPR_PARSE_ABORT_ON_MISSING_HEADER", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Parse.AbortOnMissingHeader)
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("WPR_SERVER_PORT", "99999")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestLoadInvalidLoggingOutput(t *testing.T) {
	t.Setenv("WPR_LOGGING_OUTPUT", "syslog")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging output")
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	raw := `
server:
  port: 7070
logging:
  level: warn
  output: file
parse:
  abort_on_missing_header: true
  workers: 2
`
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(raw), &cfg))

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Parse.AbortOnMissingHeader)
	assert.Equal(t, 2, cfg.Parse.Workers)
}
