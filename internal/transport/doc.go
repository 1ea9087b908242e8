// Package transport owns the single stream connection to the BSPTerm host
// application and frames newline-delimited JSON documents over it.
//
// The connection is opened lazily on first use and is strictly half-duplex
// per call: write one frame, then block reading exactly one frame back. There
// is no retry, no automatic reconnection, and no buffering of multiple
// pending frames. Reconnecting after a failure is the caller's decision, via
// Disconnect followed by the next call.
package transport
