// Package rpctest provides an in-process stand-in for the BSPTerm host
// application, used by the client test suite.
//
// A Server listens on a Unix socket or TCP port, decodes newline-delimited
// JSON-RPC frames, dispatches them to registered handlers, and records every
// request it saw so tests can assert on ids, params, and frame counts.
//
// TerminalFixture adds a minimal tracked-output model (append-only buffer
// plus per-reader cursors) so tracking-session behavior can be exercised end
// to end.
package rpctest
