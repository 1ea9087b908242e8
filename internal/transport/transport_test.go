package transport

import (
	"bufio"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer runs fn for every accepted connection and returns the dial
// address plus an accept counter.
func startServer(t *testing.T, fn func(net.Conn)) (string, *atomic.Int64) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	var accepts atomic.Int64
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			accepts.Add(1)
			go fn(conn)
		}
	}()
	return ln.Addr().String(), &accepts
}

// echoLine reads one newline-terminated frame and writes it back.
func echoLine(conn net.Conn) {
	defer conn.Close()
	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return
		}
		if _, err := conn.Write(line); err != nil {
			return
		}
	}
}

func TestSendReceiveFrame(t *testing.T) {
	addr, _ := startServer(t, echoLine)
	conn := New("tcp", addr)
	defer conn.Disconnect()

	require.NoError(t, conn.SendFrame([]byte(`{"id":1}`)))
	frame, err := conn.ReceiveFrame()
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, string(frame))
}

func TestReceiveFrameAccumulatesPartialReads(t *testing.T) {
	addr, _ := startServer(t, func(conn net.Conn) {
		defer conn.Close()
		reader := bufio.NewReader(conn)
		if _, err := reader.ReadBytes('\n'); err != nil {
			return
		}
		// Dribble the response out in pieces.
		for _, chunk := range []string{`{"resu`, `lt":"ok`, `"}`, "\n"} {
			conn.Write([]byte(chunk))
			time.Sleep(5 * time.Millisecond)
		}
	})

	conn := New("tcp", addr)
	defer conn.Disconnect()

	require.NoError(t, conn.SendFrame([]byte(`{}`)))
	frame, err := conn.ReceiveFrame()
	require.NoError(t, err)
	assert.Equal(t, `{"result":"ok"}`, string(frame))
}

func TestReceiveFramePeerClosed(t *testing.T) {
	addr, _ := startServer(t, func(conn net.Conn) {
		reader := bufio.NewReader(conn)
		reader.ReadBytes('\n')
		conn.Write([]byte(`{"partial":`)) // no delimiter
		conn.Close()
	})

	conn := New("tcp", addr)
	defer conn.Disconnect()

	require.NoError(t, conn.SendFrame([]byte(`{}`)))
	_, err := conn.ReceiveFrame()
	assert.ErrorIs(t, err, ErrPeerClosed)
}

func TestConnectIdempotent(t *testing.T) {
	addr, accepts := startServer(t, echoLine)
	conn := New("tcp", addr)
	defer conn.Disconnect()

	require.NoError(t, conn.Connect())
	require.NoError(t, conn.Connect())
	assert.True(t, conn.Connected())

	// Give the accept loop a beat, then confirm a single dial happened.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(1), accepts.Load())
}

func TestDisconnectThenReopenOnDemand(t *testing.T) {
	addr, accepts := startServer(t, echoLine)
	conn := New("tcp", addr)

	require.NoError(t, conn.SendFrame([]byte(`{}`)))
	_, err := conn.ReceiveFrame()
	require.NoError(t, err)

	require.NoError(t, conn.Disconnect())
	assert.False(t, conn.Connected())
	require.NoError(t, conn.Disconnect()) // second disconnect is a no-op

	require.NoError(t, conn.SendFrame([]byte(`{}`)))
	_, err = conn.ReceiveFrame()
	require.NoError(t, err)
	conn.Disconnect()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(2), accepts.Load())
}

func TestReceiveWithoutConnection(t *testing.T) {
	conn := New("tcp", "127.0.0.1:1")
	_, err := conn.ReceiveFrame()
	assert.Error(t, err)
}

func TestConnectFailure(t *testing.T) {
	// Port 1 on loopback is assumed closed.
	conn := New("tcp", "127.0.0.1:1")
	err := conn.Connect()
	assert.Error(t, err)
	assert.False(t, conn.Connected())
}

func TestUnixSocket(t *testing.T) {
	path := t.TempDir() + "/transport-test.sock"
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go echoLine(conn)
		}
	}()

	conn := New("unix", path)
	defer conn.Disconnect()
	require.NoError(t, conn.SendFrame([]byte(`{"id":7}`)))
	frame, err := conn.ReceiveFrame()
	require.NoError(t, err)
	assert.Equal(t, `{"id":7}`, string(frame))
}
