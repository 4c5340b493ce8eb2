package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/multisession/internal/flagx"
	"github.com/dmitrijs2005/multisession/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	Transport      string         `json:"transport"`
	GRPCAddr       string         `json:"grpc_addr"`
	StorageBackend string         `json:"storage_backend"`
	StoragePath    string         `json:"storage_path"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays cfg with values from the file named by -c / -config.
// Absent keys keep their current values. Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFilePath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.ServerURL, jc.ServerURL)
	overlay(&cfg.Transport, jc.Transport)
	overlay(&cfg.GRPCAddr, jc.GRPCAddr)
	overlay(&cfg.StorageBackend, jc.StorageBackend)
	overlay(&cfg.StoragePath, jc.StoragePath)
	overlay(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
