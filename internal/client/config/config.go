package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/multisession/internal/client/storage"
)

const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
)

// Config holds runtime settings for the multisession CLI.
type Config struct {
	ServerURL      string
	Transport      string
	GRPCAddr       string
	StorageBackend string
	StoragePath    string
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.Transport = TransportHTTP
	c.GRPCAddr = "127.0.0.1:50051"
	c.StorageBackend = storage.KindSQLite
	c.StoragePath = "sessions.db"
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "info"
}

// Validate rejects unknown transports and storage backends.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportHTTP, TransportGRPC:
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
	switch c.StorageBackend {
	case storage.KindSQLite, storage.KindFile, storage.KindMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("negative request timeout %s", c.RequestTimeout)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
