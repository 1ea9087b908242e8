package rpctest

import (
	"sync"

	"github.com/google/uuid"

	"github.com/bspterm/bspterm-go/internal/wire"
)

// TerminalFixture models one tracked terminal: an append-only output buffer
// with independent per-reader cursors, the way the host application scopes
// them.
type TerminalFixture struct {
	ID string

	mu      sync.Mutex
	output  string
	readers map[string]int
}

// NewTerminalFixture creates a fixture for the given terminal id.
func NewTerminalFixture(id string) *TerminalFixture {
	return &TerminalFixture{ID: id, readers: make(map[string]int)}
}

// Append adds output to the terminal's buffer.
func (f *TerminalFixture) Append(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.output += s
}

// ReaderCount returns the number of live readers.
func (f *TerminalFixture) ReaderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.readers)
}

// Install registers the terminal.track_* handlers on the server.
func (f *TerminalFixture) Install(s *Server) {
	s.Handle("terminal.track_start", func(params map[string]any) (any, *wire.ErrorObject) {
		if errObj := f.checkTerminal(params); errObj != nil {
			return nil, errObj
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		readerID := uuid.NewString()
		f.readers[readerID] = len(f.output)
		return map[string]any{"reader_id": readerID}, nil
	})

	s.Handle("terminal.track_read", func(params map[string]any) (any, *wire.ErrorObject) {
		if errObj := f.checkTerminal(params); errObj != nil {
			return nil, errObj
		}
		readerID, _ := params["reader_id"].(string)
		f.mu.Lock()
		defer f.mu.Unlock()
		offset, ok := f.readers[readerID]
		if !ok {
			return nil, &wire.ErrorObject{Code: wire.CodeTerminalNotFound, Message: "unknown reader: " + readerID}
		}
		content := f.output[offset:]
		f.readers[readerID] = len(f.output)
		return map[string]any{"content": content}, nil
	})

	s.Handle("terminal.track_stop", func(params map[string]any) (any, *wire.ErrorObject) {
		if errObj := f.checkTerminal(params); errObj != nil {
			return nil, errObj
		}
		readerID, _ := params["reader_id"].(string)
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.readers[readerID]; !ok {
			return nil, &wire.ErrorObject{Code: wire.CodeTerminalNotFound, Message: "unknown reader: " + readerID}
		}
		delete(f.readers, readerID)
		return map[string]any{}, nil
	})
}

func (f *TerminalFixture) checkTerminal(params map[string]any) *wire.ErrorObject {
	id, _ := params["terminal_id"].(string)
	if id != f.ID {
		return &wire.ErrorObject{Code: wire.CodeTerminalNotFound, Message: "unknown terminal: " + id}
	}
	return nil
}
