package wire

import (
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
)

// Version is the JSON-RPC protocol tag sent with every request.
const Version = "2.0"

// Error codes reserved by the host application.
const (
	CodeTerminalNotFound = -32000
	CodeTimeout          = -32001
)

// Request is a single JSON-RPC call envelope.
type Request struct {
	JSONRPC string         `json:"jsonrpc"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params"`
	ID      uint64         `json:"id"`
}

// NewRequest builds a request envelope. A nil params map is sent as an empty
// object, matching what the host expects.
func NewRequest(id uint64, method string, params map[string]any) Request {
	if params == nil {
		params = map[string]any{}
	}
	return Request{
		JSONRPC: Version,
		Method:  method,
		Params:  params,
		ID:      id,
	}
}

// Response carries either a result or an error object for a previously sent
// request id.
type Response struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

// ErrorObject is the server-reported failure payload.
type ErrorObject struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// EncodeRequest serializes a request envelope. The frame delimiter is owned
// by the transport, not added here.
func EncodeRequest(req Request) ([]byte, error) {
	data, err := sonic.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request %q: %w", req.Method, err)
	}
	return data, nil
}

// DecodeResponse parses a response frame.
func DecodeResponse(data []byte) (*Response, error) {
	var resp Response
	if err := sonic.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp, nil
}

// DecodeResult shapes a raw result value into v.
func DecodeResult(raw json.RawMessage, v any) error {
	if err := sonic.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}
