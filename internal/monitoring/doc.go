// Package monitoring exposes Prometheus metrics for RPC calls issued by the
// client.
//
// Metrics are optional and disabled unless the caller supplies a registry.
// Per-method counters track outcomes (ok, terminal_not_found, timeout,
// rpc_error, connection, protocol) and a histogram tracks round-trip
// duration.
package monitoring
