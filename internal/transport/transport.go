package transport

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
)

// ErrPeerClosed reports that the server closed the stream before a complete
// frame was received.
var ErrPeerClosed = errors.New("connection closed by server")

// delimiter terminates every frame on the wire.
const delimiter = '\n'

// Conn is the single stream connection to the host application.
type Conn struct {
	network string
	addr    string

	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
}

// New creates an unconnected transport for the given endpoint. The stream is
// opened lazily on the first frame exchange or by an explicit Connect.
func New(network, addr string) *Conn {
	return &Conn{network: network, addr: addr}
}

// Addr returns the endpoint address this transport dials.
func (c *Conn) Addr() string {
	return c.addr
}

// Connect opens the underlying stream. Calling it on an already-open
// connection is a no-op.
func (c *Conn) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked()
}

func (c *Conn) connectLocked() error {
	if c.conn != nil {
		return nil
	}
	conn, err := net.Dial(c.network, c.addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.addr, err)
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return nil
}

// Disconnect closes and clears the stream. A subsequent frame exchange
// reopens on demand.
func (c *Conn) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.reader = nil
	return err
}

// Connected reports whether the stream is currently open.
func (c *Conn) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// SendFrame writes one complete JSON document followed by the newline
// delimiter, connecting first if needed.
func (c *Conn) SendFrame(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.connectLocked(); err != nil {
		return err
	}
	buf := make([]byte, 0, len(frame)+1)
	buf = append(buf, frame...)
	buf = append(buf, delimiter)
	if _, err := c.conn.Write(buf); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// ReceiveFrame reads from the stream until the delimiter is observed,
// accumulating partial reads, and returns the bytes before it. If the peer
// closes the stream first, it fails with ErrPeerClosed.
func (c *Conn) ReceiveFrame() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, fmt.Errorf("receive frame: not connected")
	}
	line, err := c.reader.ReadBytes(delimiter)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrPeerClosed
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return bytes.TrimRight(line, "\r\n"), nil
}
