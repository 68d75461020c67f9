package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	content := `
listenPort: 27072
topic: events
metricsAddr: "127.0.0.1:9100"
loglevel: debug
stunServer: "stun:stun.easyvoip.com:3478"
sinks:
  - name: websocket
    spec:
      addr: "127.0.0.1:8080"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint(27072), cfg.ListenPort)
	assert.Equal(t, "events", cfg.Topic)
	assert.Equal(t, "127.0.0.1:9100", cfg.MetricsAddr)
	assert.Equal(t, "debug", cfg.Loglevel)
	assert.Equal(t, "stun:stun.easyvoip.com:3478", cfg.StunServer)

	require.Len(t, cfg.Sinks, 1)
	assert.Equal(t, "websocket", cfg.Sinks[0].Name)

	var ws struct {
		Addr string `mapstructure:"addr"`
	}
	require.NoError(t, cfg.Sinks[0].LoadSinkConfig(&ws))
	assert.Equal(t, "127.0.0.1:8080", ws.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
