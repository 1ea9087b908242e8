package rpctest

import (
	"bufio"
	"errors"
	"io"
	"net"
	"path/filepath"
	"sync"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/bspterm/bspterm-go/internal/wire"
)

// HandlerFunc serves one method. It returns either a result value or an
// error object, mirroring the response envelope.
type HandlerFunc func(params map[string]any) (any, *wire.ErrorObject)

// Server is a scriptable JSON-RPC host application stand-in.
type Server struct {
	t        *testing.T
	ln       net.Listener
	endpoint string

	mu       sync.Mutex
	handlers map[string]HandlerFunc
	requests []wire.Request
	conns    []net.Conn
	closed   bool
}

// NewUnixServer starts a server on a Unix socket under t.TempDir and shuts
// it down with the test.
func NewUnixServer(t *testing.T) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bspterm-test.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen unix: %v", err)
	}
	return newServer(t, ln, path)
}

// NewTCPServer starts a server on a loopback TCP port.
func NewTCPServer(t *testing.T) *Server {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen tcp: %v", err)
	}
	return newServer(t, ln, "tcp://"+ln.Addr().String())
}

func newServer(t *testing.T, ln net.Listener, endpoint string) *Server {
	s := &Server{
		t:        t,
		ln:       ln,
		endpoint: endpoint,
		handlers: make(map[string]HandlerFunc),
	}
	go s.serve()
	t.Cleanup(s.Close)
	return s
}

// Endpoint returns the connection override string a client should use to
// reach this server.
func (s *Server) Endpoint() string {
	return s.endpoint
}

// Handle registers a handler for a method.
func (s *Server) Handle(method string, fn HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = fn
}

// HandleResult registers a handler that always returns the given result.
func (s *Server) HandleResult(method string, result any) {
	s.Handle(method, func(map[string]any) (any, *wire.ErrorObject) {
		return result, nil
	})
}

// HandleError registers a handler that always fails with the given code.
func (s *Server) HandleError(method string, code int, message string) {
	s.Handle(method, func(map[string]any) (any, *wire.ErrorObject) {
		return nil, &wire.ErrorObject{Code: code, Message: message}
	})
}

// Requests returns a copy of every request received so far, in arrival
// order.
func (s *Server) Requests() []wire.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]wire.Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// CallCount returns how many requests named the given method.
func (s *Server) CallCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, req := range s.requests {
		if req.Method == method {
			n++
		}
	}
	return n
}

// Close stops the listener and drops every open connection.
func (s *Server) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	conns := s.conns
	s.mu.Unlock()

	s.ln.Close()
	for _, conn := range conns {
		conn.Close()
	}
}

// DropConnections closes open client connections without stopping the
// listener, simulating a server-side disconnect.
func (s *Server) DropConnections() {
	s.mu.Lock()
	conns := s.conns
	s.conns = nil
	s.mu.Unlock()
	for _, conn := range conns {
		conn.Close()
	}
}

func (s *Server) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			conn.Close()
			return
		}
		s.conns = append(s.conns, conn)
		s.mu.Unlock()
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				s.t.Logf("rpctest: read: %v", err)
			}
			return
		}

		var req wire.Request
		if err := sonic.Unmarshal(line, &req); err != nil {
			s.t.Logf("rpctest: bad frame: %v", err)
			return
		}

		s.mu.Lock()
		s.requests = append(s.requests, req)
		fn := s.handlers[req.Method]
		s.mu.Unlock()

		resp := wire.Response{JSONRPC: wire.Version, ID: req.ID}
		if fn == nil {
			resp.Error = &wire.ErrorObject{Code: -32601, Message: "method not found: " + req.Method}
		} else {
			result, errObj := fn(req.Params)
			if errObj != nil {
				resp.Error = errObj
			} else {
				data, err := sonic.Marshal(result)
				if err != nil {
					s.t.Logf("rpctest: encode result: %v", err)
					return
				}
				resp.Result = data
			}
		}

		data, err := sonic.Marshal(resp)
		if err != nil {
			s.t.Logf("rpctest: encode response: %v", err)
			return
		}
		if _, err := conn.Write(append(data, '\n')); err != nil {
			return
		}
	}
}
