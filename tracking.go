package bspterm

import "sync"

// TrackingSession is a server-side cursor over one terminal's output stream.
// ReadNew returns only content appended since the previous read; Stop
// releases the cursor. Once stopped, the handle is dead: further reads fail
// locally with ErrTrackerStopped and never touch the network.
type TrackingSession struct {
	client     *Client
	terminalID string
	readerID   string

	mu      sync.Mutex
	stopped bool
}

// TerminalID returns the terminal this tracker is attached to.
func (s *TrackingSession) TerminalID() string {
	return s.terminalID
}

// ReaderID returns the server-assigned cursor id. It is opaque; the client
// only passes it back verbatim.
func (s *TrackingSession) ReaderID() string {
	return s.readerID
}

// ReadNew returns output appended since the last ReadNew (or since Track, on
// the first call). An empty string means no new content; that is not an
// error.
func (s *TrackingSession) ReadNew() (string, error) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return "", ErrTrackerStopped
	}
	s.mu.Unlock()

	var result struct {
		Content string `json:"content"`
	}
	err := s.client.callInto("terminal.track_read", map[string]any{
		"terminal_id": s.terminalID,
		"reader_id":   s.readerID,
	}, &result)
	if err != nil {
		return "", err
	}
	return result.Content, nil
}

// Stop releases the server-side cursor. Idempotent: stopping an
// already-stopped session is a no-op. If the release call fails the session
// stays active so Stop can be retried, except when the server reports the
// reader already gone, which still counts as stopped.
func (s *TrackingSession) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	_, err := s.client.call("terminal.track_stop", map[string]any{
		"terminal_id": s.terminalID,
		"reader_id":   s.readerID,
	})
	if err != nil && !IsTerminalNotFound(err) {
		return err
	}

	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	return nil
}

// Stopped reports whether the session has been released.
func (s *TrackingSession) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}
