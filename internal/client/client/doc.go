// Package client talks to the multisession auth API.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface): Login,
//     Register and FetchCurrentProfile.
//  2. HTTPClient, speaking the JSON/form HTTP API under /api/auth.
//  3. GRPCClient, speaking the same operations over gRPC with
//     google.protobuf.Struct messages (see package authrpc).
//
// # Error Handling
//
// Transport failures (refused connection, DNS, timeout) are reported as
// ErrUnavailable. Responses with an error status become *APIError carrying
// the server detail; a 401 also matches ErrUnauthorized with errors.Is.
//
// Concurrency & Contexts
//
// Both implementations are safe for concurrent use. Every call accepts a
// context.Context and honors cancellation; the configured request timeout is
// applied on top of it.
package client
