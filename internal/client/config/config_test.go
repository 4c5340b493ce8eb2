package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8000", c.ServerURL)
	assert.Equal(t, TransportHTTP, c.Transport)
	assert.Equal(t, "127.0.0.1:50051", c.GRPCAddr)
	assert.Equal(t, "sqlite", c.StorageBackend)
	assert.Equal(t, "sessions.db", c.StoragePath)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, "info", c.LogLevel)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	var want Config
	want.LoadDefaults()
	assert.Equal(t, want, *cfg)
}

func TestLoadConfig_FlagsOverrideJSON(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"transport":    "grpc",
		"grpc_addr":    "10.0.0.1:1",
		"storage_path": "from-json.db",
	})
	os.Args = []string{"testbin", "-c", path, "-p", "from-flag.db"}

	cfg := LoadConfig()

	assert.Equal(t, TransportGRPC, cfg.Transport)
	assert.Equal(t, "10.0.0.1:1", cfg.GRPCAddr)
	assert.Equal(t, "from-flag.db", cfg.StoragePath)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestValidate(t *testing.T) {
	base := Config{}
	base.LoadDefaults()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"grpc", func(c *Config) { c.Transport = TransportGRPC }, false},
		{"file", func(c *Config) { c.StorageBackend = "file" }, false},
		{"memory", func(c *Config) { c.StorageBackend = "memory" }, false},
		{"bad transport", func(c *Config) { c.Transport = "carrier-pigeon" }, true},
		{"bad backend", func(c *Config) { c.StorageBackend = "redis" }, true},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -time.Second }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}
