// Package bspterm is a Go client for automating terminal sessions hosted by
// the BSPTerm terminal emulator.
//
// The client speaks JSON-RPC 2.0 over a long-lived local connection (Unix
// socket or TCP) to the running application, which owns the actual PTYs, SSH
// and Telnet sessions. Scripts drive terminals through Terminal handles:
//
//	client, err := bspterm.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	term, err := client.CurrentTerminal()
//	if err != nil {
//		log.Fatal(err)
//	}
//	output, err := term.Run("ls -la", nil)
//
// The connection target is discovered from the environment (BSPTERM_SOCKET,
// XDG_RUNTIME_DIR, TMPDIR) unless overridden with WithSocket. Every call is
// synchronous: the calling goroutine blocks until the matching response
// arrives. One request is in flight per connection at a time; concurrent
// callers are serialized by the client.
package bspterm
