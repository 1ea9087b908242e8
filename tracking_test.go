package bspterm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bspterm "github.com/bspterm/bspterm-go"
	"github.com/bspterm/bspterm-go/internal/rpctest"
)

// trackedTerminal wires a fixture-backed terminal "t1" into a fresh server.
func trackedTerminal(t *testing.T) (*rpctest.Server, *rpctest.TerminalFixture, *bspterm.Terminal) {
	t.Helper()
	srv := rpctest.NewUnixServer(t)
	fixture := rpctest.NewTerminalFixture("t1")
	fixture.Install(srv)
	term := terminalHandle(t, srv)
	return srv, fixture, term
}

func TestReadNewQuiescentReturnsEmpty(t *testing.T) {
	_, fixture, term := trackedTerminal(t)
	fixture.Append("output from before tracking started\n")

	tracker, err := term.Track()
	require.NoError(t, err)
	defer tracker.Stop()

	// No writes since track_start: every read is empty, and empty is not an
	// error.
	for i := 0; i < 3; i++ {
		content, err := tracker.ReadNew()
		require.NoError(t, err)
		assert.Empty(t, content)
	}
}

func TestReadNewNeverOverlaps(t *testing.T) {
	_, fixture, term := trackedTerminal(t)

	tracker, err := term.Track()
	require.NoError(t, err)
	defer tracker.Stop()

	fixture.Append("first\n")
	content, err := tracker.ReadNew()
	require.NoError(t, err)
	assert.Equal(t, "first\n", content)

	content, err = tracker.ReadNew()
	require.NoError(t, err)
	assert.Empty(t, content)

	fixture.Append("second\n")
	content, err = tracker.ReadNew()
	require.NoError(t, err)
	assert.Equal(t, "second\n", content)
}

func TestIndependentReaders(t *testing.T) {
	_, fixture, term := trackedTerminal(t)

	first, err := term.Track()
	require.NoError(t, err)
	defer first.Stop()
	second, err := term.Track()
	require.NoError(t, err)
	defer second.Stop()

	assert.NotEqual(t, first.ReaderID(), second.ReaderID())
	assert.Equal(t, 2, fixture.ReaderCount())

	fixture.Append("shared\n")
	content, err := first.ReadNew()
	require.NoError(t, err)
	assert.Equal(t, "shared\n", content)

	// The second reader has its own cursor, unaffected by the first.
	content, err = second.ReadNew()
	require.NoError(t, err)
	assert.Equal(t, "shared\n", content)
}

func TestReadAfterStopFailsLocally(t *testing.T) {
	srv, _, term := trackedTerminal(t)

	tracker, err := term.Track()
	require.NoError(t, err)
	require.NoError(t, tracker.Stop())
	assert.True(t, tracker.Stopped())

	framesBefore := len(srv.Requests())
	_, err = tracker.ReadNew()
	assert.ErrorIs(t, err, bspterm.ErrTrackerStopped)

	// Double stop, then read again: still local, still no frames.
	require.NoError(t, tracker.Stop())
	_, err = tracker.ReadNew()
	assert.ErrorIs(t, err, bspterm.ErrTrackerStopped)

	assert.Equal(t, framesBefore, len(srv.Requests()),
		"no network frames may be produced after stop")
	assert.Equal(t, 1, srv.CallCount("terminal.track_stop"))
}

func TestFailedStopLeavesSessionActive(t *testing.T) {
	srv, fixture, term := trackedTerminal(t)

	tracker, err := term.Track()
	require.NoError(t, err)

	srv.HandleError("terminal.track_stop", -32603, "internal error")
	err = tracker.Stop()
	require.Error(t, err)
	assert.False(t, tracker.Stopped())

	// Still active: reads keep working, and a retried stop succeeds once the
	// server recovers.
	fixture.Append("still tracking\n")
	content, err := tracker.ReadNew()
	require.NoError(t, err)
	assert.Equal(t, "still tracking\n", content)

	fixture.Install(srv) // restore the real handlers
	require.NoError(t, tracker.Stop())
	assert.True(t, tracker.Stopped())
}

func TestStopWhenReaderAlreadyGone(t *testing.T) {
	srv, _, term := trackedTerminal(t)

	tracker, err := term.Track()
	require.NoError(t, err)

	// Server already dropped the reader: stop is still terminal.
	srv.HandleError("terminal.track_stop", -32000, "unknown reader")
	require.NoError(t, tracker.Stop())
	assert.True(t, tracker.Stopped())
}

func TestWithTrackerStopsExactlyOnce(t *testing.T) {
	srv, fixture, term := trackedTerminal(t)

	err := term.WithTracker(func(tracker *bspterm.TrackingSession) error {
		fixture.Append("scoped\n")
		content, err := tracker.ReadNew()
		require.NoError(t, err)
		assert.Equal(t, "scoped\n", content)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, srv.CallCount("terminal.track_stop"))
	assert.Equal(t, 0, fixture.ReaderCount())
}

func TestWithTrackerStopsOnFailure(t *testing.T) {
	srv, fixture, term := trackedTerminal(t)

	boom := errors.New("automation step failed")
	err := term.WithTracker(func(*bspterm.TrackingSession) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, srv.CallCount("terminal.track_stop"))
	assert.Equal(t, 0, fixture.ReaderCount())
}

func TestTrackerAccessors(t *testing.T) {
	_, _, term := trackedTerminal(t)

	tracker, err := term.Track()
	require.NoError(t, err)
	defer tracker.Stop()

	assert.Equal(t, "t1", tracker.TerminalID())
	assert.NotEmpty(t, tracker.ReaderID())
	assert.False(t, tracker.Stopped())
}
