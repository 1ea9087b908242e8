package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const tcpScheme = "tcp://"

// Config holds client configuration read from the environment.
type Config struct {
	// Socket is the connection override: tcp://host:port or a socket path.
	Socket string `envconfig:"BSPTERM_SOCKET"`
	// RuntimeDir is where the default socket lives.
	RuntimeDir string `envconfig:"XDG_RUNTIME_DIR"`
	// TempDir is the fallback directory for the default socket.
	TempDir string `envconfig:"TMPDIR"`
	// CurrentTerminal pre-selects the focused terminal for session.current.
	CurrentTerminal string `envconfig:"BSPTERM_CURRENT_TERMINAL"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault reads configuration from the environment or returns an empty
// config that resolves to the default socket path.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return &Config{}
	}
	return cfg
}

// Endpoint is the resolved server address.
type Endpoint struct {
	Network string // "tcp" or "unix"
	Addr    string // host:port for tcp, filesystem path for unix
}

// String formats the endpoint the way it appears in the override variable.
func (e Endpoint) String() string {
	if e.Network == "tcp" {
		return tcpScheme + e.Addr
	}
	return e.Addr
}

// Endpoint resolves the connection target from the loaded settings.
func (c *Config) Endpoint() (Endpoint, error) {
	return ResolveEndpoint(c.Socket, c.RuntimeDir, c.TempDir)
}

// ResolveEndpoint applies the override/default resolution rules. The override
// wins when non-empty; otherwise the socket path is derived from the runtime
// directory and the parent-process id.
func ResolveEndpoint(override, runtimeDir, tempDir string) (Endpoint, error) {
	if strings.HasPrefix(override, tcpScheme) {
		addr := strings.TrimPrefix(override, tcpScheme)
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return Endpoint{}, fmt.Errorf("invalid tcp endpoint %q: %w", override, err)
		}
		return Endpoint{Network: "tcp", Addr: addr}, nil
	}
	if override != "" {
		return Endpoint{Network: "unix", Addr: override}, nil
	}

	dir := runtimeDir
	if dir == "" {
		dir = tempDir
	}
	if dir == "" {
		dir = "/tmp"
	}
	name := fmt.Sprintf("bspterm-%d.sock", os.Getppid())
	return Endpoint{Network: "unix", Addr: filepath.Join(dir, name)}, nil
}
