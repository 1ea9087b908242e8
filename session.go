package bspterm

import "time"

// SessionInfo is a read-only directory entry for one terminal session. It is
// a projection for enumeration, not an owning reference.
type SessionInfo struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Kind      SessionKind `json:"type"`
	Connected bool        `json:"connected"`
}

// GroupInfo identifies the session group a terminal belongs to. Both fields
// are nil for terminals outside any group (e.g. plain local shells).
type GroupInfo struct {
	GroupID   *string `json:"group_id"`
	SessionID *string `json:"session_id"`
}

// SSHConfig describes an SSH connection target.
type SSHConfig struct {
	Host           string
	Port           int // defaults to 22
	Username       string
	Password       string
	PrivateKeyPath string
	Passphrase     string
}

// TelnetConfig describes a Telnet connection target.
type TelnetConfig struct {
	Host     string
	Port     int // defaults to 23
	Username string
	Password string
}

// directoryEntry decodes session.current-style results, where connectivity
// and kind may be omitted by the server.
type directoryEntry struct {
	ID        string `json:"id"`
	Connected *bool  `json:"connected"`
	Type      string `json:"type"`
}

func (c *Client) terminalFromEntry(entry directoryEntry, fallback SessionKind) *Terminal {
	connected := true
	if entry.Connected != nil {
		connected = *entry.Connected
	}
	kind := fallback
	if entry.Type != "" {
		kind = SessionKind(entry.Type)
	}
	return newTerminal(c, entry.ID, connected, kind)
}

// Sessions lists every terminal session known to the host application.
func (c *Client) Sessions() ([]SessionInfo, error) {
	var sessions []SessionInfo
	if err := c.callInto("session.list", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Session returns a handle to the terminal with the given id.
func (c *Client) Session(terminalID string) (*Terminal, error) {
	var entry directoryEntry
	err := c.callInto("session.current", map[string]any{
		"terminal_id": terminalID,
	}, &entry)
	if err != nil {
		return nil, err
	}
	return c.terminalFromEntry(entry, SessionUnknown), nil
}

// Attach builds a Terminal handle from a directory entry without a round
// trip.
func (c *Client) Attach(info SessionInfo) *Terminal {
	return newTerminal(c, info.ID, info.Connected, info.Kind)
}

// CurrentTerminal returns the focused terminal. When the script was launched
// by the host application, the BSPTERM_CURRENT_TERMINAL hint pre-selects the
// terminal that was focused at launch time.
func (c *Client) CurrentTerminal() (*Terminal, error) {
	params := map[string]any{}
	if c.hint != "" {
		params["terminal_id"] = c.hint
	}
	var entry directoryEntry
	if err := c.callInto("session.current", params, &entry); err != nil {
		return nil, err
	}
	return c.terminalFromEntry(entry, SessionUnknown), nil
}

// CurrentGroup returns the session-group membership of a terminal. An empty
// terminalID means the current terminal.
func (c *Client) CurrentGroup(terminalID string) (*GroupInfo, error) {
	params := map[string]any{}
	if terminalID != "" {
		params["terminal_id"] = terminalID
	}
	var info GroupInfo
	if err := c.callInto("session.get_current_group", params, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// AddSSHToGroup adds an SSH session record to a session group without
// opening a window, and returns the new session's id.
func (c *Client) AddSSHToGroup(groupID, name string, cfg SSHConfig) (string, error) {
	port := cfg.Port
	if port == 0 {
		port = 22
	}
	params := map[string]any{
		"group_id": groupID,
		"name":     name,
		"host":     cfg.Host,
		"port":     port,
	}
	if cfg.Username != "" {
		params["username"] = cfg.Username
	}
	if cfg.Password != "" {
		params["password"] = cfg.Password
	}

	var result struct {
		SessionID string `json:"session_id"`
	}
	if err := c.callInto("session.add_ssh_to_group", params, &result); err != nil {
		return "", err
	}
	return result.SessionID, nil
}

// NewTerminal opens a new visible terminal window, connected over SSH or
// Telnet when the corresponding config is given.
func (c *Client) NewTerminal(ssh *SSHConfig, telnet *TelnetConfig) (*Terminal, error) {
	params := map[string]any{}
	if ssh != nil {
		params["ssh"] = sshParams(*ssh)
	}
	if telnet != nil {
		params["telnet"] = telnetParams(*telnet)
	}
	var entry directoryEntry
	if err := c.callInto("session.new_terminal", params, &entry); err != nil {
		return nil, err
	}
	return c.terminalFromEntry(entry, SessionUnknown), nil
}

// SSH creates a background SSH connection with no UI window.
func (c *Client) SSH(cfg SSHConfig) (*Terminal, error) {
	var entry directoryEntry
	if err := c.callInto("session.create_ssh", sshParams(cfg), &entry); err != nil {
		return nil, err
	}
	return c.terminalFromEntry(entry, SessionSSH), nil
}

// Telnet creates a background Telnet connection with no UI window.
func (c *Client) Telnet(cfg TelnetConfig) (*Terminal, error) {
	var entry directoryEntry
	if err := c.callInto("session.create_telnet", telnetParams(cfg), &entry); err != nil {
		return nil, err
	}
	return c.terminalFromEntry(entry, SessionTelnet), nil
}

func sshParams(cfg SSHConfig) map[string]any {
	port := cfg.Port
	if port == 0 {
		port = 22
	}
	params := map[string]any{
		"host": cfg.Host,
		"port": port,
	}
	if cfg.Username != "" {
		params["username"] = cfg.Username
	}
	if cfg.Password != "" {
		params["password"] = cfg.Password
	}
	if cfg.PrivateKeyPath != "" {
		params["private_key_path"] = cfg.PrivateKeyPath
	}
	if cfg.Passphrase != "" {
		params["passphrase"] = cfg.Passphrase
	}
	return params
}

func telnetParams(cfg TelnetConfig) map[string]any {
	port := cfg.Port
	if port == 0 {
		port = 23
	}
	params := map[string]any{
		"host": cfg.Host,
		"port": port,
	}
	if cfg.Username != "" {
		params["username"] = cfg.Username
	}
	if cfg.Password != "" {
		params["password"] = cfg.Password
	}
	return params
}

// SplitOptions tunes SplitRightClone.
type SplitOptions struct {
	// WaitForLogin blocks until the clone's auto-login rules finish before
	// returning, so commands don't race the scripted login sequence.
	WaitForLogin bool
	// LoginTimeout bounds the login wait. Zero means DefaultTimeout.
	LoginTimeout time.Duration
}

// SplitRightClone splits the pane holding the terminal to the right and
// clones it onto the same session. An empty terminalID means the current
// terminal.
func (c *Client) SplitRightClone(terminalID string, opts *SplitOptions) (*Terminal, error) {
	if terminalID == "" {
		current, err := c.CurrentTerminal()
		if err != nil {
			return nil, err
		}
		terminalID = current.ID
	}

	var result struct {
		NewTerminalID string `json:"new_terminal_id"`
	}
	err := c.callInto("pane.split_right_clone", map[string]any{
		"terminal_id": terminalID,
	}, &result)
	if err != nil {
		return nil, err
	}

	term := newTerminal(c, result.NewTerminalID, true, SessionUnknown)
	if opts != nil && opts.WaitForLogin {
		if err := term.WaitForLogin(opts.LoginTimeout); err != nil {
			return nil, err
		}
	}
	return term, nil
}
