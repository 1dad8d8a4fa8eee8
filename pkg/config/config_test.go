package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", c.Server.Host)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "http", c.Upstream.Strategy)
	assert.Equal(t, 10*time.Second, c.Upstream.Timeout)
	assert.Equal(t, "embedded", c.Universe.Source)
	assert.True(t, c.Metrics.Enabled)
	assert.False(t, c.LogShipping.Enabled)
	assert.Equal(t, Default(), c)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: production
server:
  host: 127.0.0.1
  port: 9000
  cors: false
upstream:
  strategy: library
  timeout: 3s
universe:
  source: file
  path: /etc/marketgate/universe.yaml
log_shipping:
  enabled: true
  brokers: ["kafka:9092"]
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, "127.0.0.1", c.Server.Host)
	assert.Equal(t, 9000, c.Server.Port)
	assert.False(t, c.Server.CORS)
	assert.Equal(t, "library", c.Upstream.Strategy)
	assert.Equal(t, 3*time.Second, c.Upstream.Timeout)
	assert.Equal(t, "https://query1.finance.yahoo.com", c.Upstream.ChartBaseURL)
	assert.Equal(t, []string{"kafka:9092"}, c.LogShipping.Brokers)
	assert.Equal(t, "marketgate.logs", c.LogShipping.Topic)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"strategy":      "upstream:\n  strategy: grpc\n",
		"file no path":  "universe:\n  source: file\n",
		"shipping":      "log_shipping:\n  enabled: true\n",
		"bad yaml":      "server: [",
		"bad log level": "log:\n  level: loud\n",
	}
	for name, body := range cases {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
		_, err := Load(path)
		assert.Error(t, err, name)
	}
}

func TestApplyEnv(t *testing.T) {
	c := Default()
	env := map[string]string{
		"HOST":              "localhost",
		"PORT":              "9090",
		"UPSTREAM_STRATEGY": "library",
		"UPSTREAM_TIMEOUT":  "2s",
		"UNIVERSE_SOURCE":   "redis",
		"REDIS_ADDR":        "redis:6379",
		"LOG_LEVEL":         "debug",
		"KAFKA_BROKERS":     "a:9092, b:9092",
	}
	c.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "localhost", c.Server.Host)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "library", c.Upstream.Strategy)
	assert.Equal(t, 2*time.Second, c.Upstream.Timeout)
	assert.Equal(t, "redis", c.Universe.Source)
	assert.Equal(t, "redis:6379", c.Universe.Redis.Addr)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.LogShipping.Brokers)
	assert.NoError(t, c.Validate())
}
