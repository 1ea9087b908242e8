package bspterm

import (
	"time"
)

// DefaultTimeout applies to every operation whose timeout is left unset.
const DefaultTimeout = 30 * time.Second

// SessionKind tags how a terminal session is connected.
type SessionKind string

const (
	SessionLocal   SessionKind = "local"
	SessionSSH     SessionKind = "ssh"
	SessionTelnet  SessionKind = "telnet"
	SessionUnknown SessionKind = "unknown"
)

// Terminal is a handle to one interactive session hosted by the application.
// The id is server-assigned and stable for the handle's lifetime; the server
// may tear the session down at any time, after which every operation fails
// with TerminalNotFoundError.
type Terminal struct {
	ID        string
	Connected bool
	Kind      SessionKind

	client *Client
}

func newTerminal(c *Client, id string, connected bool, kind SessionKind) *Terminal {
	if kind == "" {
		kind = SessionUnknown
	}
	return &Terminal{ID: id, Connected: connected, Kind: kind, client: c}
}

// Screen is a point-in-time snapshot of the terminal's display.
type Screen struct {
	Text      string `json:"text"`
	CursorRow int    `json:"cursor_row"`
	CursorCol int    `json:"cursor_col"`
	Rows      int    `json:"rows"`
	Cols      int    `json:"cols"`
}

// CommandResult is the outcome of a marker-delimited command execution.
type CommandResult struct {
	CommandID string `json:"command_id"`
	Output    string `json:"output"`
	// ExitCode is nil when the shell did not report one. Absence is distinct
	// from zero and is preserved end to end.
	ExitCode *int `json:"exit_code"`
}

// RunOptions tunes command execution. A nil options value means the default
// timeout and the server's own prompt heuristics.
type RunOptions struct {
	// Timeout is the server-enforced deadline. Zero means DefaultTimeout.
	Timeout time.Duration
	// PromptPattern overrides the regex the server uses to detect command
	// completion.
	PromptPattern string
}

// Send injects raw input into the terminal. Fire and forget: no output is
// returned.
func (t *Terminal) Send(data string) error {
	_, err := t.client.call("terminal.send", map[string]any{
		"terminal_id": t.ID,
		"data":        data,
	})
	return err
}

// Read returns the current screen contents.
func (t *Terminal) Read() (*Screen, error) {
	var screen Screen
	err := t.client.callInto("terminal.read", map[string]any{
		"terminal_id": t.ID,
	}, &screen)
	if err != nil {
		return nil, err
	}
	return &screen, nil
}

// Screen is an alias for Read.
func (t *Terminal) Screen() (*Screen, error) {
	return t.Read()
}

// WaitFor blocks until pattern matches somewhere in the tracked output and
// returns the content at match time. The deadline is enforced server-side;
// on expiry the call fails with TimeoutError.
func (t *Terminal) WaitFor(pattern string, timeout time.Duration) (string, error) {
	var result struct {
		Content string `json:"content"`
	}
	err := t.client.callInto("terminal.wait_for", map[string]any{
		"terminal_id": t.ID,
		"pattern":     pattern,
		"timeout_ms":  timeoutMS(timeout),
	}, &result)
	if err != nil {
		return "", err
	}
	return result.Content, nil
}

// Run executes a command and returns everything captured up to prompt
// detection, including the command echo and the trailing prompt.
func (t *Terminal) Run(command string, opts *RunOptions) (string, error) {
	return t.runCommand("terminal.run", command, opts, false)
}

// SendCmd executes a command like Run but asks the server to strip the
// command echo and the trailing prompt from the output. The echo/prompt
// heuristics are owned by the server, not the client.
func (t *Terminal) SendCmd(command string, opts *RunOptions) (string, error) {
	return t.runCommand("terminal.sendcmd", command, opts, true)
}

func (t *Terminal) runCommand(method, command string, opts *RunOptions, stripEcho bool) (string, error) {
	params := t.commandParams(command, opts)
	if stripEcho {
		params["strip_echo"] = true
	}
	var result struct {
		Output string `json:"output"`
	}
	if err := t.client.callInto(method, params, &result); err != nil {
		return "", err
	}
	return result.Output, nil
}

// RunMarked executes a command with marker-delimited capture: the server
// brackets the command's output with sentinels invisible to the session, so
// boundaries stay exact even when the output contains prompt-like text. The
// returned output is the text between the markers, never the markers
// themselves.
func (t *Terminal) RunMarked(command string, opts *RunOptions) (*CommandResult, error) {
	var result CommandResult
	err := t.client.callInto("terminal.run_marked", t.commandParams(command, opts), &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (t *Terminal) commandParams(command string, opts *RunOptions) map[string]any {
	if opts == nil {
		opts = &RunOptions{}
	}
	params := map[string]any{
		"terminal_id": t.ID,
		"command":     command,
		"timeout_ms":  timeoutMS(opts.Timeout),
	}
	if opts.PromptPattern != "" {
		params["prompt_pattern"] = opts.PromptPattern
	}
	return params
}

// ReadTimeRange returns buffered output captured within [start, end),
// measured from when server-side tracking began for this terminal. Purely
// retrospective; never blocks on new output.
func (t *Terminal) ReadTimeRange(start, end time.Duration) (string, error) {
	var result struct {
		Content string `json:"content"`
	}
	err := t.client.callInto("terminal.read_time_range", map[string]any{
		"terminal_id": t.ID,
		"start_ms":    start.Milliseconds(),
		"end_ms":      end.Milliseconds(),
	}, &result)
	if err != nil {
		return "", err
	}
	return result.Content, nil
}

// WaitForLogin blocks until the host's automatic login rules for this
// terminal have finished. Call it after a clone/split, before issuing
// commands, to avoid racing the scripted login sequence.
func (t *Terminal) WaitForLogin(timeout time.Duration) error {
	_, err := t.client.call("terminal.wait_for_login", map[string]any{
		"terminal_id": t.ID,
		"timeout_ms":  timeoutMS(timeout),
	})
	return err
}

// Close tears down the underlying session. Advisory: the server may already
// have released the id, and further calls on the handle simply fail with
// TerminalNotFoundError.
func (t *Terminal) Close() error {
	_, err := t.client.call("terminal.close", map[string]any{
		"terminal_id": t.ID,
	})
	return err
}

// Track starts incremental output tracking and returns the session handle.
// Each Track call allocates an independent server-side cursor.
func (t *Terminal) Track() (*TrackingSession, error) {
	var result struct {
		ReaderID string `json:"reader_id"`
	}
	err := t.client.callInto("terminal.track_start", map[string]any{
		"terminal_id": t.ID,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &TrackingSession{
		client:     t.client,
		terminalID: t.ID,
		readerID:   result.ReaderID,
	}, nil
}

// WithTracker runs fn with a fresh tracking session and guarantees the
// session is stopped when fn returns, whether or not it failed.
func (t *Terminal) WithTracker(fn func(*TrackingSession) error) error {
	tracker, err := t.Track()
	if err != nil {
		return err
	}
	if err := fn(tracker); err != nil {
		tracker.Stop()
		return err
	}
	return tracker.Stop()
}

func timeoutMS(d time.Duration) int64 {
	if d <= 0 {
		d = DefaultTimeout
	}
	return d.Milliseconds()
}
