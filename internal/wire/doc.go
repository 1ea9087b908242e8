// Package wire defines the JSON-RPC 2.0 envelope exchanged with the BSPTerm
// host application.
//
// Every message on the socket is a single JSON object terminated by one
// newline byte. Requests carry a protocol tag, method name, parameter map and
// a numeric id; responses echo the id and carry either a result or an error
// object, never both.
//
// Serialization uses bytedance/sonic for encode/decode of the envelope.
// Results are kept as raw JSON so each caller can shape them into its own
// typed value.
//
// Error Codes:
//   - -32000: terminal not found
//   - -32001: operation timed out
//   - any other negative code is an opaque server error, passed through
package wire
