// Package config resolves how the client reaches the BSPTerm host
// application.
//
// Settings are read from environment variables with envconfig. The endpoint
// is resolved once, at client construction, and is immutable afterwards.
//
// Resolution order (highest priority first):
//   - BSPTERM_SOCKET with a tcp:// scheme: TCP host:port
//   - BSPTERM_SOCKET without a scheme: Unix socket path
//   - otherwise: <runtime dir>/bspterm-<ppid>.sock, where the runtime dir is
//     XDG_RUNTIME_DIR, falling back to TMPDIR, falling back to /tmp
//
// The parent-process id in the default path scopes the socket to the
// terminal-emulator instance that launched the automation script.
//
// Environment Variables:
//   - BSPTERM_SOCKET, BSPTERM_CURRENT_TERMINAL
//   - XDG_RUNTIME_DIR, TMPDIR
package config
