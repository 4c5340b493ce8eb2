// Package config loads runtime configuration for the multisession CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string        base URL of the HTTP auth API
//	-t string        transport: http or grpc
//	-g string        address:port of the gRPC auth API
//	-s string        storage backend: sqlite, file or memory
//	-p string        storage path (database or JSON file)
//	-timeout int     request timeout (seconds)
//	-l string        log level
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so it can be either a
// string like "30s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "transport": "http",
//	  "grpc_addr": "127.0.0.1:50051",
//	  "storage_backend": "sqlite",
//	  "storage_path": "sessions.db",
//	  "request_timeout": "30s",
//	  "log_level": "info"
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
