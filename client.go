package bspterm

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/bspterm/bspterm-go/internal/config"
	"github.com/bspterm/bspterm-go/internal/logging"
	"github.com/bspterm/bspterm-go/internal/monitoring"
	"github.com/bspterm/bspterm-go/internal/transport"
	"github.com/bspterm/bspterm-go/internal/wire"
)

// Client owns the connection to the host application and correlates
// requests with responses. Construct once and share; the zero value is not
// usable.
type Client struct {
	conn    *transport.Conn
	hint    string
	logger  *zap.Logger
	metrics *monitoring.Metrics

	// mu serializes calls: the protocol is strictly one request in flight
	// per connection, so responses always match the request just sent.
	mu     sync.Mutex
	nextID uint64
}

type clientOptions struct {
	socket    string
	socketSet bool
	hint      string
	hintSet   bool
	logger    *zap.Logger
	registry  prometheus.Registerer
}

// Option configures a Client.
type Option func(*clientOptions)

// WithSocket overrides the connection target. Accepts tcp://host:port or a
// Unix socket path, the same forms as BSPTERM_SOCKET.
func WithSocket(socket string) Option {
	return func(o *clientOptions) {
		o.socket = socket
		o.socketSet = true
	}
}

// WithTerminalHint overrides the focused-terminal hint normally read from
// BSPTERM_CURRENT_TERMINAL.
func WithTerminalHint(terminalID string) Option {
	return func(o *clientOptions) {
		o.hint = terminalID
		o.hintSet = true
	}
}

// WithLogger attaches a structured logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithMetrics registers per-call Prometheus metrics with the given
// registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *clientOptions) {
		o.registry = reg
	}
}

// New resolves the endpoint and builds a client. The connection itself is
// opened lazily on the first call.
func New(opts ...Option) (*Client, error) {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg := config.LoadOrDefault()
	if o.socketSet {
		cfg.Socket = o.socket
	}
	if o.hintSet {
		cfg.CurrentTerminal = o.hint
	}

	endpoint, err := cfg.Endpoint()
	if err != nil {
		return nil, err
	}

	c := &Client{
		conn:   transport.New(endpoint.Network, endpoint.Addr),
		hint:   cfg.CurrentTerminal,
		logger: o.logger,
	}
	if c.logger == nil {
		c.logger = logging.Nop()
	}
	if o.registry != nil {
		c.metrics = monitoring.New(o.registry)
	}

	c.logger.Debug("client configured",
		zap.String("network", endpoint.Network),
		zap.String("addr", endpoint.Addr),
	)
	return c, nil
}

// Connect opens the connection eagerly. Calls connect on demand, so this is
// only needed to surface connection failures early.
func (c *Client) Connect() error {
	if err := c.conn.Connect(); err != nil {
		return &ConnectionError{Err: err}
	}
	return nil
}

// Close disconnects from the host application. The next call reopens on
// demand.
func (c *Client) Close() error {
	return c.conn.Disconnect()
}

// call sends one request and blocks for its response frame.
func (c *Client) call(method string, params map[string]any) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID

	frame, err := wire.EncodeRequest(wire.NewRequest(id, method, params))
	if err != nil {
		return nil, &ProtocolError{Reason: "encode request", Err: err}
	}

	start := time.Now()
	result, err := c.exchange(id, frame)
	elapsed := time.Since(start)

	c.metrics.ObserveCall(method, outcomeOf(err), elapsed)
	if err != nil {
		c.logger.Debug("rpc call failed",
			zap.String("method", method),
			zap.Uint64("id", id),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	c.logger.Debug("rpc call",
		zap.String("method", method),
		zap.Uint64("id", id),
		zap.Duration("elapsed", elapsed),
	)
	return result, nil
}

func (c *Client) exchange(id uint64, frame []byte) (json.RawMessage, error) {
	if err := c.conn.SendFrame(frame); err != nil {
		return nil, &ConnectionError{Err: err}
	}

	respFrame, err := c.conn.ReceiveFrame()
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	resp, err := wire.DecodeResponse(respFrame)
	if err != nil {
		return nil, &ProtocolError{Reason: "malformed response frame", Err: err}
	}
	if resp.ID != id {
		return nil, &ProtocolError{
			Reason: "response id does not echo request id",
		}
	}
	if resp.Error != nil {
		return nil, mapServerError(resp.Error)
	}
	return resp.Result, nil
}

// callInto performs a call and shapes the result into v.
func (c *Client) callInto(method string, params map[string]any, v any) error {
	result, err := c.call(method, params)
	if err != nil {
		return err
	}
	if err := wire.DecodeResult(result, v); err != nil {
		return &ProtocolError{Reason: "unexpected result shape", Err: err}
	}
	return nil
}

// mapServerError is the closed mapping from server error codes to typed
// failures. Unknown codes degrade to RPCError with the code carried verbatim.
func mapServerError(errObj *wire.ErrorObject) error {
	switch errObj.Code {
	case wire.CodeTerminalNotFound:
		return &TerminalNotFoundError{Message: errObj.Message}
	case wire.CodeTimeout:
		return &TimeoutError{Message: errObj.Message}
	default:
		return &RPCError{Code: errObj.Code, Message: errObj.Message, Data: errObj.Data}
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsTerminalNotFound(err):
		return "terminal_not_found"
	case IsTimeout(err):
		return "timeout"
	default:
		var connErr *ConnectionError
		var protoErr *ProtocolError
		switch {
		case errors.As(err, &connErr):
			return "connection"
		case errors.As(err, &protoErr):
			return "protocol"
		default:
			return "rpc_error"
		}
	}
}
